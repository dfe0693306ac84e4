package v1

import "time"

// CreateLocationRequest DTO для создания точки интереса.
// Имя может быть пустым (промежуточное состояние редактирования), категории
// и эмодзи нормализуются в сервисе и никогда не отклоняются.
// @Description DTO для создания точки интереса
type CreateLocationRequest struct {
	Name        string   `json:"name" validate:"max=255"`
	Description string   `json:"description,omitempty"`
	Latitude    float64  `json:"latitude" validate:"latitude"`
	Longitude   float64  `json:"longitude" validate:"longitude"`
	Category    []string `json:"category"`
	Emoji       []string `json:"emoji"`
}

// UpdateLocationRequest DTO для полной замены точки интереса
// @Description DTO для полной замены точки интереса
type UpdateLocationRequest struct {
	Name        string   `json:"name" validate:"max=255"`
	Description string   `json:"description,omitempty"`
	Latitude    float64  `json:"latitude" validate:"latitude"`
	Longitude   float64  `json:"longitude" validate:"longitude"`
	Category    []string `json:"category"`
	Emoji       []string `json:"emoji"`
}

// LocationResponse DTO для ответа с точкой интереса; position в формате
// [широта, долгота], как в сид-ресурсе и экспорте
// @Description DTO для ответа с точкой интереса
type LocationResponse struct {
	ID          int64      `json:"id"`
	Position    [2]float64 `json:"position"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    []string   `json:"category"`
	Emoji       []string   `json:"emoji"`
}

// LoginRequest DTO для входа администратора
// @Description DTO для входа администратора
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// SessionResponse DTO для выданной сессии
// @Description DTO для выданной сессии
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStatusResponse DTO для проверки сессии
// @Description DTO для проверки сессии
type SessionStatusResponse struct {
	Active bool `json:"active"`
}

// StatsResponse DTO для счетчиков коллекции
// @Description DTO для счетчиков коллекции
type StatsResponse struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"by_category"`
}
