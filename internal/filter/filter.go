package filter

import (
	"strings"

	"travelguide/internal/models"
)

// Apply возвращает подмножество коллекции, видимое при заданном поисковом
// запросе и выбранных категориях. Порядок записей сохраняется. Функция чистая:
// входная коллекция не изменяется.
//
// Текстовый фильтр - регистронезависимое вхождение подстроки в имя или
// описание, пустой запрос пропускает все записи. Фильтр категорий - запись
// проходит, если множество ее категорий пересекается с выбранными (OR внутри
// категорий); пустой выбор пропускает все записи. Оба измерения объединяются
// через AND.
func Apply(locations []models.Location, search string, categories []models.Category) []models.Location {
	term := strings.ToLower(strings.TrimSpace(search))

	result := make([]models.Location, 0, len(locations))
	for _, loc := range locations {
		if !matchesText(loc, term) {
			continue
		}
		if !matchesCategories(loc, categories) {
			continue
		}
		result = append(result, loc)
	}
	return result
}

func matchesText(loc models.Location, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(loc.Name), term) ||
		strings.Contains(strings.ToLower(loc.Description), term)
}

func matchesCategories(loc models.Location, selected []models.Category) bool {
	if len(selected) == 0 {
		return true
	}
	for _, have := range loc.Category {
		for _, want := range selected {
			if have == want {
				return true
			}
		}
	}
	return false
}
