package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelguide/internal/models"
	"travelguide/internal/repository"
)

// stubSeed - управляемый источник сид-данных для тестов
type stubSeed struct {
	doc   *models.Document
	err   error
	calls int
}

func (s *stubSeed) Fetch(ctx context.Context) (*models.Document, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.doc, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

func seedDoc() *models.Document {
	return &models.Document{
		Locations: []models.Location{
			{ID: 100, Position: models.Position{48.85, 2.35}, Name: "Cafe", Category: []models.Category{models.CategoryFood}, Emoji: []string{"☕"}},
			{ID: 200, Position: models.Position{48.86, 2.34}, Name: "Bar", Category: []models.Category{models.CategoryBeverages}, Emoji: []string{"🍸"}},
		},
	}
}

func TestLoad_FromPersistentStore(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()
	seed := &stubSeed{doc: seedDoc()}

	// Предзаполняем персистентный блоб
	persisted := models.Document{Locations: []models.Location{{ID: 7, Name: "Persisted"}}}
	data, err := json.Marshal(&persisted)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, locationsKey, data, 0))

	s := New(kv, seed, testLogger())
	s.Load(ctx)

	assert.Equal(t, persisted.Locations, s.All())
	assert.Zero(t, seed.calls, "seed must not be fetched when the blob is present")
}

func TestLoad_FallsBackToSeed(t *testing.T) {
	ctx := context.Background()
	seed := &stubSeed{doc: seedDoc()}

	s := New(repository.NewMemoryKV(), seed, testLogger())
	s.Load(ctx)

	assert.Equal(t, seedDoc().Locations, s.All())
	assert.Equal(t, 1, seed.calls)
}

func TestLoad_CorruptBlobFailsClosed(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()
	seed := &stubSeed{doc: seedDoc()}

	// Битый JSON в персистентном блобе должен читаться как отсутствующий
	require.NoError(t, kv.Set(ctx, locationsKey, []byte(`{"locations": [`), 0))

	s := New(kv, seed, testLogger())
	s.Load(ctx)

	assert.Equal(t, seedDoc().Locations, s.All())
}

func TestLoad_BothSourcesUnavailable_EmptyCollection(t *testing.T) {
	ctx := context.Background()
	seed := &stubSeed{err: errors.New("seed unavailable")}

	s := New(repository.NewMemoryKV(), seed, testLogger())
	s.Load(ctx)

	assert.Empty(t, s.All())
}

func TestCreate_AssignsIncreasingIDsAndPersists(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()
	s := New(kv, &stubSeed{doc: &models.Document{}}, testLogger())
	s.Load(ctx)

	first, err := s.Create(ctx, models.Location{Name: "A"})
	require.NoError(t, err)
	second, err := s.Create(ctx, models.Location{Name: "B"})
	require.NoError(t, err)

	// ID строго возрастают даже при создании в одну миллисекунду
	assert.Greater(t, second.ID, first.ID)

	// Мутация зеркалируется в персистентный блоб целиком
	raw, err := kv.Get(ctx, locationsKey)
	require.NoError(t, err)
	var doc models.Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc.Locations, 2)
	assert.Equal(t, first.ID, doc.Locations[0].ID)
	assert.Equal(t, second.ID, doc.Locations[1].ID)
}

func TestCreate_IDsDoNotCollideWithLoaded(t *testing.T) {
	ctx := context.Background()
	// Сид содержит ID из будущего; генератор должен сдвинуться за него
	farFuture := int64(9999999999999)
	seed := &stubSeed{doc: &models.Document{Locations: []models.Location{{ID: farFuture, Name: "Future"}}}}

	s := New(repository.NewMemoryKV(), seed, testLogger())
	s.Load(ctx)

	created, err := s.Create(ctx, models.Location{Name: "New"})
	require.NoError(t, err)
	assert.Greater(t, created.ID, farFuture)
}

func TestCreateThenDelete_RestoresPriorContent(t *testing.T) {
	ctx := context.Background()
	seed := &stubSeed{doc: seedDoc()}
	s := New(repository.NewMemoryKV(), seed, testLogger())
	s.Load(ctx)

	before := s.All()
	created, err := s.Create(ctx, models.Location{Name: "Temporary"})
	require.NoError(t, err)

	removed, err := s.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, before, s.All())
}

func TestUpdate_ReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	s := New(repository.NewMemoryKV(), &stubSeed{doc: seedDoc()}, testLogger())
	s.Load(ctx)

	updated := models.Location{ID: 100, Name: "Renamed Cafe", Category: []models.Category{models.CategoryFood}}
	require.NoError(t, s.Update(ctx, updated))

	all := s.All()
	require.Len(t, all, 2)
	// Запись заменена целиком, но осталась на своем месте
	assert.Equal(t, "Renamed Cafe", all[0].Name)
	assert.Equal(t, int64(200), all[1].ID)
}

func TestUpdate_UnknownID_ReturnsErrNotFound(t *testing.T) {
	ctx := context.Background()
	s := New(repository.NewMemoryKV(), &stubSeed{doc: seedDoc()}, testLogger())
	s.Load(ctx)

	before := s.All()
	err := s.Update(ctx, models.Location{ID: 42, Name: "Ghost"})

	require.ErrorIs(t, err, ErrNotFound)
	// Существующие записи не затронуты, upsert не выполнен
	assert.Equal(t, before, s.All())
}

func TestDelete_AbsentID_IsNoop(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()
	s := New(kv, &stubSeed{doc: seedDoc()}, testLogger())
	s.Load(ctx)

	removed, err := s.Delete(ctx, 42)
	require.NoError(t, err)
	assert.False(t, removed)

	// Блоб не перезаписывается при no-op удалении
	_, err = kv.Get(ctx, locationsKey)
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	s := New(repository.NewMemoryKV(), &stubSeed{doc: seedDoc()}, testLogger())
	s.Load(ctx)

	loc, err := s.Get(100)
	require.NoError(t, err)
	assert.Equal(t, "Cafe", loc.Name)

	_, err = s.Get(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExport_RoundTripsSeedStructure(t *testing.T) {
	ctx := context.Background()
	s := New(repository.NewMemoryKV(), &stubSeed{doc: seedDoc()}, testLogger())
	s.Load(ctx)

	exported, err := json.Marshal(s.Export())
	require.NoError(t, err)
	original, err := json.Marshal(seedDoc())
	require.NoError(t, err)

	// Экспорт структурно эквивалентен сид-документу, порядок сохранен
	assert.JSONEq(t, string(original), string(exported))
}

func TestReset_ClearsBlobAndReloadsSeed(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()
	seed := &stubSeed{doc: seedDoc()}
	s := New(kv, seed, testLogger())
	s.Load(ctx)

	_, err := s.Create(ctx, models.Location{Name: "Admin addition"})
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx))

	assert.Equal(t, seedDoc().Locations, s.All())
	// Блоб остается отсутствующим до следующей мутации
	_, err = kv.Get(ctx, locationsKey)
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)
}

func TestAll_ReturnsDefensiveCopy(t *testing.T) {
	ctx := context.Background()
	s := New(repository.NewMemoryKV(), &stubSeed{doc: seedDoc()}, testLogger())
	s.Load(ctx)

	snapshot := s.All()
	snapshot[0].Name = "Mutated"

	assert.Equal(t, "Cafe", s.All()[0].Name)
}
