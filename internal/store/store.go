package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"travelguide/internal/models"
	"travelguide/internal/repository"
)

// ErrNotFound возвращается при обращении к несуществующей точке интереса
var ErrNotFound = errors.New("location not found")

// locationsKey - единственный ключ, под которым коллекция пишется целиком
const locationsKey = "travelguide:locations"

// SeedSource определяет контракт источника сид-данных
type SeedSource interface {
	Fetch(ctx context.Context) (*models.Document, error)
}

// Store - владеющее хранилище коллекции точек интереса. Все мутации проходят
// через Create/Update/Delete и под блокировкой зеркалируют полный документ
// в персистентное KV-хранилище; коллекция никогда не пишется частично.
type Store struct {
	mu        sync.RWMutex
	kv        repository.KV
	seed      SeedSource
	logger    *logrus.Logger
	locations []models.Location
	lastID    int64
}

func New(kv repository.KV, seed SeedSource, logger *logrus.Logger) *Store {
	return &Store{
		kv:     kv,
		seed:   seed,
		logger: logger,
	}
}

// Load гидрирует коллекцию: сначала персистентный блоб, при его отсутствии
// или повреждении (fail closed) - сид-ресурс. Если недоступны оба источника,
// коллекция остается пустой; ошибки только логируются.
func (s *Store) Load(ctx context.Context) {
	log := s.logger.WithField("component", "store")

	raw, err := s.kv.Get(ctx, locationsKey)
	if err == nil {
		var doc models.Document
		jsonErr := json.Unmarshal(raw, &doc)
		if jsonErr == nil {
			s.replace(doc.Locations)
			log.WithField("count", len(doc.Locations)).Info("Loaded locations from persistent store")
			return
		}
		log.WithError(jsonErr).Warn("Persisted collection is malformed, falling back to seed")
	} else if !errors.Is(err, repository.ErrKeyNotFound) {
		log.WithError(err).Warn("Failed to read persistent store, falling back to seed")
	}

	s.loadSeed(ctx)
}

// Create добавляет запись в конец коллекции под свежим ID
func (s *Store) Create(ctx context.Context, loc models.Location) (models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc.ID = s.nextID()
	s.locations = append(s.locations, loc)

	if err := s.persist(ctx); err != nil {
		return loc, fmt.Errorf("store: failed to persist after create: %w", err)
	}
	return loc, nil
}

// Update заменяет запись с совпадающим ID целиком, сохраняя ее место
// в коллекции. Записи с таким ID нет - ErrNotFound, upsert не выполняется.
func (s *Store) Update(ctx context.Context, loc models.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.locations {
		if s.locations[i].ID == loc.ID {
			s.locations[i] = loc
			if err := s.persist(ctx); err != nil {
				return fmt.Errorf("store: failed to persist after update: %w", err)
			}
			return nil
		}
	}
	return ErrNotFound
}

// Delete удаляет запись с совпадающим ID. Отсутствующий ID - no-op:
// возвращается (false, nil), коллекция не перезаписывается.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.locations {
		if s.locations[i].ID == id {
			s.locations = append(s.locations[:i], s.locations[i+1:]...)
			if err := s.persist(ctx); err != nil {
				return true, fmt.Errorf("store: failed to persist after delete: %w", err)
			}
			return true, nil
		}
	}
	return false, nil
}

// Get возвращает запись по ID
func (s *Store) Get(id int64) (models.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, loc := range s.locations {
		if loc.ID == id {
			return loc, nil
		}
	}
	return models.Location{}, ErrNotFound
}

// All возвращает снимок коллекции в порядке вставки
func (s *Store) All() []models.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]models.Location, len(s.locations))
	copy(snapshot, s.locations)
	return snapshot
}

// Export возвращает снимок коллекции в конверте {"locations": [...]}
func (s *Store) Export() *models.Document {
	return &models.Document{Locations: s.All()}
}

// Reset удаляет персистентный блоб и перегидрирует коллекцию из сида.
// Блоб остается отсутствующим до следующей мутации.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.kv.Delete(ctx, locationsKey); err != nil {
		return fmt.Errorf("store: failed to clear persisted collection: %w", err)
	}
	s.loadSeed(ctx)
	return nil
}

// persist зеркалирует полный документ под единственным ключом.
// Вызывается только под write-блокировкой. Ошибка записи не откатывает
// мутацию в памяти: следующая успешная запись снова зеркалирует всю коллекцию.
func (s *Store) persist(ctx context.Context) error {
	doc := models.Document{Locations: s.locations}
	data, err := json.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}
	if err := s.kv.Set(ctx, locationsKey, data, 0); err != nil {
		return fmt.Errorf("failed to write collection: %w", err)
	}
	return nil
}

// nextID выдает ID из текущего времени в миллисекундах; повторный вызов
// в ту же миллисекунду дает строго возрастающее значение.
// Вызывается только под write-блокировкой.
func (s *Store) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) loadSeed(ctx context.Context) {
	log := s.logger.WithField("component", "store")

	doc, err := s.seed.Fetch(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to fetch seed resource, collection is empty")
		s.replace(nil)
		return
	}

	s.replace(doc.Locations)
	log.WithField("count", len(doc.Locations)).Info("Loaded locations from seed resource")
}

// replace устанавливает коллекцию и сдвигает генератор ID за максимальный
// загруженный, чтобы новые записи не конфликтовали с существующими
func (s *Store) replace(locations []models.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.locations = locations
	s.lastID = 0
	for _, loc := range locations {
		if loc.ID > s.lastID {
			s.lastID = loc.ID
		}
	}
}
