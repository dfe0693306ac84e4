package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	archive_mocks "travelguide/internal/archive/mocks"
	"travelguide/internal/config"
	"travelguide/internal/events"
	events_mocks "travelguide/internal/events/mocks"
	"travelguide/internal/models"
	"travelguide/internal/service/mocks"
	"travelguide/internal/store"
)

// newTestLocationService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestLocationService(t *testing.T, cfg *config.Config) (*locationService, *mocks.MockLocationStore, *events_mocks.MockPublisher, *archive_mocks.MockArchiver) {
	ctrl := gomock.NewController(t)
	storeMock := mocks.NewMockLocationStore(ctrl)
	publisherMock := events_mocks.NewMockPublisher(ctrl)
	archiverMock := archive_mocks.NewMockArchiver(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	if cfg == nil {
		cfg = &config.Config{}
	}

	svc := NewLocationService(storeMock, logger, cfg, publisherMock, archiverMock)
	return svc.(*locationService), storeMock, publisherMock, archiverMock
}

func TestListLocations_AppliesFilter(t *testing.T) {
	// Подготовка
	svc, storeMock, _, _ := newTestLocationService(t, nil)
	ctx := context.Background()
	collection := []models.Location{
		{ID: 1, Name: "Cafe", Category: []models.Category{models.CategoryFood}},
		{ID: 2, Name: "Bar", Category: []models.Category{models.CategoryBeverages}},
	}

	// Ожидания
	storeMock.EXPECT().All().Return(collection).Times(1)

	// Действие
	visible, err := svc.ListLocations(ctx, "", []models.Category{models.CategoryFood})

	// Проверки
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, int64(1), visible[0].ID)
}

func TestCreateLocation_NormalizesAndPublishes(t *testing.T) {
	// Подготовка
	svc, storeMock, publisherMock, _ := newTestLocationService(t, nil)
	ctx := context.Background()
	input := models.Location{
		Name:     "New spot",
		Category: []models.Category{"Nightlife"}, // Неизвестная метка отбрасывается
	}

	// Ожидания
	storeMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, loc models.Location) (models.Location, error) {
			// Сервис нормализует запись перед сохранением
			assert.Equal(t, []models.Category{models.CategoryFood}, loc.Category)
			assert.Equal(t, []string{"📍"}, loc.Emoji)
			loc.ID = 123
			return loc, nil
		}).Times(1)

	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Do(func(_ context.Context, event events.Event) {
			assert.Equal(t, events.TypeLocationCreated, event.Type)
			assert.Equal(t, int64(123), event.LocationID)
			require.NotNil(t, event.Location)
			assert.Equal(t, "New spot", event.Location.Name)
		}).Return(nil).Times(1)

	// Действие
	created, err := svc.CreateLocation(ctx, input)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, int64(123), created.ID)
}

func TestCreateLocation_StoreError(t *testing.T) {
	// Подготовка
	svc, storeMock, publisherMock, _ := newTestLocationService(t, nil)
	ctx := context.Background()
	storeError := errors.New("persist failed")

	// Ожидания
	storeMock.EXPECT().Create(ctx, gomock.Any()).Return(models.Location{}, storeError).Times(1)
	// Событие не публикуется при ошибке хранилища
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := svc.CreateLocation(ctx, models.Location{Name: "Doomed"})

	// Проверки
	require.Error(t, err)
	assert.ErrorContains(t, err, "could not create location")
}

func TestCreateLocation_PublishFailureDoesNotFailMutation(t *testing.T) {
	// Подготовка
	svc, storeMock, publisherMock, _ := newTestLocationService(t, nil)
	ctx := context.Background()

	// Ожидания
	storeMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, loc models.Location) (models.Location, error) {
			loc.ID = 1
			return loc, nil
		}).Times(1)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(errors.New("queue down")).Times(1)

	// Действие
	_, err := svc.CreateLocation(ctx, models.Location{Name: "Spot"})

	// Проверки: ошибка публикации только логируется
	require.NoError(t, err)
}

func TestUpdateLocation_Success(t *testing.T) {
	// Подготовка
	svc, storeMock, publisherMock, _ := newTestLocationService(t, nil)
	ctx := context.Background()
	input := models.Location{
		ID:       5,
		Name:     "Renamed",
		Category: []models.Category{models.CategoryFood, models.CategoryFood}, // Дубликат схлопывается
		Emoji:    []string{"☕"},
	}

	// Ожидания
	storeMock.EXPECT().
		Update(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, loc models.Location) error {
			assert.Equal(t, []models.Category{models.CategoryFood}, loc.Category)
			return nil
		}).Times(1)
	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Do(func(_ context.Context, event events.Event) {
			assert.Equal(t, events.TypeLocationUpdated, event.Type)
			assert.Equal(t, int64(5), event.LocationID)
		}).Return(nil).Times(1)

	// Действие
	err := svc.UpdateLocation(ctx, input)

	// Проверки
	require.NoError(t, err)
}

func TestUpdateLocation_NotFound(t *testing.T) {
	// Подготовка
	svc, storeMock, publisherMock, _ := newTestLocationService(t, nil)
	ctx := context.Background()

	// Ожидания
	storeMock.EXPECT().Update(ctx, gomock.Any()).Return(store.ErrNotFound).Times(1)
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	err := svc.UpdateLocation(ctx, models.Location{ID: 42})

	// Проверки: сентинел хранилища доступен через errors.Is для маппинга в 404
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteLocation_Success(t *testing.T) {
	// Подготовка
	svc, storeMock, publisherMock, _ := newTestLocationService(t, nil)
	ctx := context.Background()

	// Ожидания
	storeMock.EXPECT().Delete(ctx, int64(7)).Return(true, nil).Times(1)
	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Do(func(_ context.Context, event events.Event) {
			assert.Equal(t, events.TypeLocationDeleted, event.Type)
			assert.Equal(t, int64(7), event.LocationID)
			// У события удаления нет тела записи
			assert.Nil(t, event.Location)
		}).Return(nil).Times(1)

	// Действие
	err := svc.DeleteLocation(ctx, 7)

	// Проверки
	require.NoError(t, err)
}

func TestDeleteLocation_AbsentID_NoEvent(t *testing.T) {
	// Подготовка
	svc, storeMock, publisherMock, _ := newTestLocationService(t, nil)
	ctx := context.Background()

	// Ожидания: no-op удаление не публикует событие
	storeMock.EXPECT().Delete(ctx, int64(42)).Return(false, nil).Times(1)
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	err := svc.DeleteLocation(ctx, 42)

	// Проверки
	require.NoError(t, err)
}

func TestExportLocations_AlwaysArchives(t *testing.T) {
	// Подготовка: AUTO_ARCHIVE_ON_SAVE выключен, но явный экспорт архивируется всегда
	svc, storeMock, _, archiverMock := newTestLocationService(t, &config.Config{AutoArchiveOnSave: false})
	ctx := context.Background()
	doc := &models.Document{Locations: []models.Location{{ID: 1, Name: "Cafe"}}}

	// Ожидания
	storeMock.EXPECT().Export().Return(doc).Times(1)
	archiverMock.EXPECT().Upload(ctx, doc).Return(nil).Times(1)

	// Действие
	exported, err := svc.ExportLocations(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, doc, exported)
}

func TestCreateLocation_AutoArchiveOnSave(t *testing.T) {
	// Подготовка
	svc, storeMock, publisherMock, archiverMock := newTestLocationService(t, &config.Config{AutoArchiveOnSave: true})
	ctx := context.Background()
	doc := &models.Document{}

	// Ожидания
	storeMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, loc models.Location) (models.Location, error) {
			loc.ID = 1
			return loc, nil
		}).Times(1)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)
	storeMock.EXPECT().Export().Return(doc).Times(1)
	archiverMock.EXPECT().Upload(ctx, doc).Return(nil).Times(1)

	// Действие
	_, err := svc.CreateLocation(ctx, models.Location{Name: "Spot"})

	// Проверки
	require.NoError(t, err)
}

func TestGetStats(t *testing.T) {
	// Подготовка
	svc, storeMock, _, _ := newTestLocationService(t, nil)
	ctx := context.Background()
	collection := []models.Location{
		{ID: 1, Category: []models.Category{models.CategoryFood, models.CategoryBeverages}},
		{ID: 2, Category: []models.Category{models.CategoryFood}},
	}

	// Ожидания
	storeMock.EXPECT().All().Return(collection).Times(1)

	// Действие
	stats, err := svc.GetStats(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.ByCategory[models.CategoryFood])
	assert.Equal(t, 1, stats.ByCategory[models.CategoryBeverages])
}
