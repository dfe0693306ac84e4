package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"travelguide/internal/models"
)

func testCollection() []models.Location {
	return []models.Location{
		{ID: 1, Name: "Cafe", Description: "Espresso and pastries", Category: []models.Category{models.CategoryFood}},
		{ID: 2, Name: "Bar", Description: "Cocktails by the river", Category: []models.Category{models.CategoryBeverages}},
		{ID: 3, Name: "Museum", Description: "Modern art", Category: []models.Category{models.CategoryActivities}},
		{ID: 4, Name: "Bistro", Description: "Dinner and wine", Category: []models.Category{models.CategoryFood, models.CategoryBeverages}},
	}
}

func ids(locations []models.Location) []int64 {
	result := make([]int64, len(locations))
	for i, loc := range locations {
		result[i] = loc.ID
	}
	return result
}

func TestApply_EmptyFilters_ReturnsAll(t *testing.T) {
	result := Apply(testCollection(), "", nil)
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(result))
}

func TestApply_CategoryOnly(t *testing.T) {
	// Сценарий из свойств: пустой поиск + {Food} -> только записи с Food
	result := Apply(testCollection(), "", []models.Category{models.CategoryFood})
	assert.Equal(t, []int64{1, 4}, ids(result))
}

func TestApply_SearchOnly(t *testing.T) {
	// Сценарий из свойств: "bar" + пустые категории -> только Bar
	result := Apply(testCollection(), "bar", nil)
	assert.Equal(t, []int64{2}, ids(result))
}

func TestApply_SearchIsCaseInsensitive(t *testing.T) {
	result := Apply(testCollection(), "CAFE", nil)
	assert.Equal(t, []int64{1}, ids(result))
}

func TestApply_SearchMatchesDescription(t *testing.T) {
	result := Apply(testCollection(), "wine", nil)
	assert.Equal(t, []int64{4}, ids(result))
}

func TestApply_AndSemanticsBetweenDimensions(t *testing.T) {
	// Категория совпадает, но текст не содержит запроса - запись исключается
	result := Apply(testCollection(), "museum", []models.Category{models.CategoryBeverages})
	assert.Empty(t, result)

	// Оба измерения совпадают
	result = Apply(testCollection(), "bistro", []models.Category{models.CategoryBeverages})
	assert.Equal(t, []int64{4}, ids(result))
}

func TestApply_OrSemanticsWithinCategories(t *testing.T) {
	result := Apply(testCollection(), "", []models.Category{models.CategoryBeverages, models.CategoryActivities})
	assert.Equal(t, []int64{2, 3, 4}, ids(result))
}

func TestApply_UnknownCategoryMatchesNothing(t *testing.T) {
	result := Apply(testCollection(), "", []models.Category{"Nightlife"})
	assert.Empty(t, result)
}

func TestApply_PreservesInputOrder(t *testing.T) {
	collection := testCollection()
	// Переворачиваем коллекцию: порядок результата должен следовать входу
	reversed := []models.Location{collection[3], collection[2], collection[1], collection[0]}
	result := Apply(reversed, "", []models.Category{models.CategoryFood})
	assert.Equal(t, []int64{4, 1}, ids(result))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	collection := testCollection()
	Apply(collection, "bar", []models.Category{models.CategoryFood})
	assert.Equal(t, testCollection(), collection)
}
