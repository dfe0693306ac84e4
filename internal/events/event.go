package events

import (
	"context"
	"time"

	"travelguide/internal/models"
)

// Типы событий изменения коллекции
const (
	TypeLocationCreated = "location.created"
	TypeLocationUpdated = "location.updated"
	TypeLocationDeleted = "location.deleted"
)

// Event - событие изменения коллекции точек интереса.
// У событий удаления тело записи отсутствует.
type Event struct {
	Type       string           `json:"type"`
	Timestamp  time.Time        `json:"timestamp"`
	LocationID int64            `json:"location_id"`
	Location   *models.Location `json:"location,omitempty"`
}

// Publisher - интерфейс для публикации событий изменения
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
