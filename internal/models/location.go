package models

import "time"

// Category - метка категории точки интереса из фиксированного набора
type Category string

const (
	CategoryFood       Category = "Food"
	CategoryBeverages  Category = "Beverages"
	CategoryActivities Category = "Activities"
	CategoryHome       Category = "Home"
)

// Categories - полный набор допустимых категорий
var Categories = []Category{CategoryFood, CategoryBeverages, CategoryActivities, CategoryHome}

// Valid проверяет, что метка входит в фиксированный набор
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Position - координаты точки в формате [широта, долгота]
type Position [2]float64

func (p Position) Latitude() float64 {
	return p[0]
}

func (p Position) Longitude() float64 {
	return p[1]
}

// Location - точка интереса на карте
type Location struct {
	ID          int64      `json:"id"`
	Position    Position   `json:"position"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    []Category `json:"category"`
	Emoji       []string   `json:"emoji"`
}

// Document - конверт {"locations": [...]}, общий для сида, хранилища и экспорта
type Document struct {
	Locations []Location `json:"locations"`
}

// Session - выданная админская сессия
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LocationStats - счетчики коллекции для фильтров интерфейса
type LocationStats struct {
	Total      int              `json:"total"`
	ByCategory map[Category]int `json:"by_category"`
}
