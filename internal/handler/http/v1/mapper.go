package v1

import "travelguide/internal/models"

// DTOToLocationModel преобразует DTO создания/обновления в доменную модель.
// Используем одну функцию, так как поля совпадают.
func DTOToLocationModel(dto any) models.Location {
	switch v := dto.(type) {
	case CreateLocationRequest:
		return models.Location{
			Position:    models.Position{v.Latitude, v.Longitude},
			Name:        v.Name,
			Description: v.Description,
			Category:    toCategories(v.Category),
			Emoji:       v.Emoji,
		}
	case UpdateLocationRequest:
		return models.Location{
			Position:    models.Position{v.Latitude, v.Longitude},
			Name:        v.Name,
			Description: v.Description,
			Category:    toCategories(v.Category),
			Emoji:       v.Emoji,
		}
	}
	return models.Location{}
}

// ModelToLocationResponse преобразует доменную модель в DTO для ответа
func ModelToLocationResponse(model models.Location) LocationResponse {
	categories := make([]string, len(model.Category))
	for i, cat := range model.Category {
		categories[i] = string(cat)
	}
	return LocationResponse{
		ID:          model.ID,
		Position:    model.Position,
		Name:        model.Name,
		Description: model.Description,
		Category:    categories,
		Emoji:       model.Emoji,
	}
}

// ModelsToLocationResponses преобразует слайс моделей в слайс DTO
func ModelsToLocationResponses(models []models.Location) []LocationResponse {
	responses := make([]LocationResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToLocationResponse(model)
	}
	return responses
}

func toCategories(labels []string) []models.Category {
	categories := make([]models.Category, len(labels))
	for i, label := range labels {
		categories[i] = models.Category(label)
	}
	return categories
}
