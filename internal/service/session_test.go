package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"travelguide/internal/config"
	"travelguide/internal/repository"
	"travelguide/internal/service/mocks"
)

// newTestSessionService — сессии живут в настоящем MemoryKV, хранилище коллекции мокается
func newTestSessionService(t *testing.T, cfg *config.Config) (SessionService, *repository.MemoryKV, *mocks.MockLocationStore) {
	ctrl := gomock.NewController(t)
	storeMock := mocks.NewMockLocationStore(ctrl)
	kv := repository.NewMemoryKV()

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	svc := NewSessionService(kv, storeMock, logger, cfg)
	return svc, kv, storeMock
}

func TestLogin_Success(t *testing.T) {
	// Подготовка
	cfg := &config.Config{AdminPassword: "letmein", SessionTTL: time.Hour}
	svc, _, _ := newTestSessionService(t, cfg)
	ctx := context.Background()

	// Действие
	session, err := svc.Login(ctx, "letmein")

	// Проверки
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 5*time.Second)

	active, err := svc.Verify(ctx, session.Token)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestLogin_InvalidPassword(t *testing.T) {
	// Подготовка
	cfg := &config.Config{AdminPassword: "letmein", SessionTTL: time.Hour}
	svc, _, _ := newTestSessionService(t, cfg)

	// Действие
	session, err := svc.Login(context.Background(), "guess")

	// Проверки: сентинел для маппинга в 401, без блокировок
	require.ErrorIs(t, err, ErrInvalidPassword)
	assert.Nil(t, session)
}

func TestLogin_BcryptHashTakesPrecedence(t *testing.T) {
	// Подготовка
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-secret"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := &config.Config{
		AdminPassword:     "plain-ignored",
		AdminPasswordHash: string(hash),
		SessionTTL:        time.Hour,
	}
	svc, _, _ := newTestSessionService(t, cfg)
	ctx := context.Background()

	// Действие и проверки: открытый пароль не принимается, хеш - принимается
	_, err = svc.Login(ctx, "plain-ignored")
	require.ErrorIs(t, err, ErrInvalidPassword)

	session, err := svc.Login(ctx, "hashed-secret")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
}

func TestVerify_UnknownToken(t *testing.T) {
	// Подготовка
	cfg := &config.Config{AdminPassword: "letmein", SessionTTL: time.Hour}
	svc, _, _ := newTestSessionService(t, cfg)

	// Действие
	active, err := svc.Verify(context.Background(), "no-such-token")

	// Проверки
	require.NoError(t, err)
	assert.False(t, active)
}

func TestVerify_EmptyToken(t *testing.T) {
	cfg := &config.Config{AdminPassword: "letmein", SessionTTL: time.Hour}
	svc, _, _ := newTestSessionService(t, cfg)

	active, err := svc.Verify(context.Background(), "")

	require.NoError(t, err)
	assert.False(t, active)
}

func TestVerify_ExpiredSession(t *testing.T) {
	// Подготовка: сессия с отрицательным TTL истекает сразу
	cfg := &config.Config{AdminPassword: "letmein", SessionTTL: -time.Second}
	svc, _, _ := newTestSessionService(t, cfg)
	ctx := context.Background()

	session, err := svc.Login(ctx, "letmein")
	require.NoError(t, err)

	// Действие
	active, err := svc.Verify(ctx, session.Token)

	// Проверки
	require.NoError(t, err)
	assert.False(t, active)
}

func TestLogout_ClearsMarkerAndResetsCollection(t *testing.T) {
	// Подготовка
	cfg := &config.Config{AdminPassword: "letmein", SessionTTL: time.Hour}
	svc, _, storeMock := newTestSessionService(t, cfg)
	ctx := context.Background()

	session, err := svc.Login(ctx, "letmein")
	require.NoError(t, err)

	// Ожидания: выход сбрасывает коллекцию к сид-ресурсу
	storeMock.EXPECT().Reset(ctx).Return(nil).Times(1)

	// Действие
	require.NoError(t, svc.Logout(ctx, session.Token))

	// Проверки
	active, err := svc.Verify(ctx, session.Token)
	require.NoError(t, err)
	assert.False(t, active)
}
