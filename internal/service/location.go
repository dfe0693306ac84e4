package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"travelguide/internal/archive"
	"travelguide/internal/config"
	"travelguide/internal/events"
	"travelguide/internal/filter"
	"travelguide/internal/models"
)

// LocationStore определяет контракт хранилища точек интереса
type LocationStore interface {
	Create(ctx context.Context, loc models.Location) (models.Location, error)
	Update(ctx context.Context, loc models.Location) error
	Delete(ctx context.Context, id int64) (bool, error)
	Get(id int64) (models.Location, error)
	All() []models.Location
	Export() *models.Document
	Reset(ctx context.Context) error
}

// LocationService определяет контракт бизнес-логики точек интереса
type LocationService interface {
	ListLocations(ctx context.Context, search string, categories []models.Category) ([]models.Location, error)
	GetLocation(ctx context.Context, id int64) (models.Location, error)
	CreateLocation(ctx context.Context, loc models.Location) (models.Location, error)
	UpdateLocation(ctx context.Context, loc models.Location) error
	DeleteLocation(ctx context.Context, id int64) error
	ExportLocations(ctx context.Context) (*models.Document, error)
	GetStats(ctx context.Context) (*models.LocationStats, error)
}

type locationService struct {
	store     LocationStore
	logger    *logrus.Logger
	cfg       *config.Config
	publisher events.Publisher
	archiver  archive.Archiver
}

// NewLocationService создает сервис точек интереса. publisher и archiver
// могут быть nil - тогда события и архивация отключены.
func NewLocationService(store LocationStore, logger *logrus.Logger, cfg *config.Config, publisher events.Publisher, archiver archive.Archiver) LocationService {
	return &locationService{
		store:     store,
		logger:    logger,
		cfg:       cfg,
		publisher: publisher,
		archiver:  archiver,
	}
}

// ListLocations возвращает видимое подмножество коллекции
func (s *locationService) ListLocations(ctx context.Context, search string, categories []models.Category) ([]models.Location, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "location",
		"method":  "ListLocations",
	})

	visible := filter.Apply(s.store.All(), search, categories)
	log.WithField("count", len(visible)).Debug("Locations listed")
	return visible, nil
}

// GetLocation возвращает точку интереса по ID
func (s *locationService) GetLocation(ctx context.Context, id int64) (models.Location, error) {
	loc, err := s.store.Get(id)
	if err != nil {
		return models.Location{}, fmt.Errorf("service: could not get location: %w", err)
	}
	return loc, nil
}

// CreateLocation нормализует запись и добавляет ее в коллекцию
func (s *locationService) CreateLocation(ctx context.Context, loc models.Location) (models.Location, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "location",
		"method":  "CreateLocation",
		"name":    loc.Name,
	})
	log.Info("Attempting to create a new location")

	normalize(&loc)
	created, err := s.store.Create(ctx, loc)
	if err != nil {
		log.WithError(err).Error("Failed to create location in store")
		return created, fmt.Errorf("service: could not create location: %w", err)
	}

	log.WithField("location_id", created.ID).Info("Location created successfully")
	s.publish(ctx, events.TypeLocationCreated, created.ID, &created)
	s.autoArchive(ctx)
	return created, nil
}

// UpdateLocation нормализует запись и заменяет ее целиком.
// Отсутствующий ID - store.ErrNotFound, upsert не выполняется.
func (s *locationService) UpdateLocation(ctx context.Context, loc models.Location) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "location",
		"method":      "UpdateLocation",
		"location_id": loc.ID,
	})
	log.Info("Attempting to update location")

	normalize(&loc)
	if err := s.store.Update(ctx, loc); err != nil {
		log.WithError(err).Warn("Failed to update location in store")
		return fmt.Errorf("service: could not update location: %w", err)
	}

	log.Info("Location updated successfully")
	s.publish(ctx, events.TypeLocationUpdated, loc.ID, &loc)
	s.autoArchive(ctx)
	return nil
}

// DeleteLocation удаляет точку интереса; отсутствующий ID - no-op
func (s *locationService) DeleteLocation(ctx context.Context, id int64) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "location",
		"method":      "DeleteLocation",
		"location_id": id,
	})
	log.Info("Attempting to delete location")

	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to delete location in store")
		return fmt.Errorf("service: could not delete location: %w", err)
	}
	if !removed {
		log.Warn("Location not found for delete, nothing removed")
		return nil
	}

	log.Info("Location deleted successfully")
	s.publish(ctx, events.TypeLocationDeleted, id, nil)
	s.autoArchive(ctx)
	return nil
}

// ExportLocations возвращает экспортный документ {"locations": [...]}
func (s *locationService) ExportLocations(ctx context.Context) (*models.Document, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "location",
		"method":  "ExportLocations",
	})

	doc := s.store.Export()
	log.WithField("count", len(doc.Locations)).Info("Collection exported")

	// Явный экспорт архивируется всегда, независимо от AUTO_ARCHIVE_ON_SAVE
	if s.archiver != nil {
		if err := s.archiver.Upload(ctx, doc); err != nil {
			log.WithError(err).Error("Failed to archive export document")
		}
	}
	return doc, nil
}

// GetStats возвращает общий счетчик и счетчики по категориям
func (s *locationService) GetStats(ctx context.Context) (*models.LocationStats, error) {
	locations := s.store.All()

	stats := &models.LocationStats{
		Total:      len(locations),
		ByCategory: make(map[models.Category]int),
	}
	for _, loc := range locations {
		for _, cat := range loc.Category {
			stats.ByCategory[cat]++
		}
	}
	return stats, nil
}

// publish отправляет событие изменения; ошибка публикации логируется
// и не проваливает мутацию
func (s *locationService) publish(ctx context.Context, eventType string, id int64, loc *models.Location) {
	if s.publisher == nil {
		return
	}

	event := events.Event{
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		LocationID: id,
		Location:   loc,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithField("event_type", eventType).Error("Failed to publish change event")
	}
}

// autoArchive загружает экспортный документ после мутации, если включен
// AUTO_ARCHIVE_ON_SAVE; ошибка логируется и не проваливает мутацию
func (s *locationService) autoArchive(ctx context.Context) {
	if s.archiver == nil || !s.cfg.AutoArchiveOnSave {
		return
	}
	if err := s.archiver.Upload(ctx, s.store.Export()); err != nil {
		s.logger.WithError(err).Error("Failed to auto-archive collection")
	}
}
