package service

import "travelguide/internal/models"

// normalize приводит запись к инвариантам коллекции перед сохранением.
// Некорректные значения молча исправляются, а не отклоняются: неизвестные
// категории отбрасываются, дубликаты схлопываются (побеждает первое
// вхождение), пустой итог заменяется на Food; пустые глифы отбрасываются,
// пустой итог заменяется на пин по умолчанию.
func normalize(loc *models.Location) {
	loc.Category = normalizeCategories(loc.Category)
	loc.Emoji = normalizeEmoji(loc.Emoji)
}

func normalizeCategories(categories []models.Category) []models.Category {
	seen := make(map[models.Category]bool, len(categories))
	result := make([]models.Category, 0, len(categories))
	for _, cat := range categories {
		if !cat.Valid() || seen[cat] {
			continue
		}
		seen[cat] = true
		result = append(result, cat)
	}
	if len(result) == 0 {
		result = append(result, models.CategoryFood)
	}
	return result
}

func normalizeEmoji(emoji []string) []string {
	result := make([]string, 0, len(emoji))
	for _, glyph := range emoji {
		if glyph == "" {
			continue
		}
		result = append(result, glyph)
	}
	if len(result) == 0 {
		result = append(result, "📍")
	}
	return result
}
