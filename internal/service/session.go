package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"travelguide/internal/config"
	"travelguide/internal/models"
	"travelguide/internal/repository"
)

// ErrInvalidPassword возвращается при несовпадении админского пароля
var ErrInvalidPassword = errors.New("invalid password")

const sessionKeyPrefix = "travelguide:session:"

// SessionService определяет контракт админских сессий
type SessionService interface {
	Login(ctx context.Context, password string) (*models.Session, error)
	Verify(ctx context.Context, token string) (bool, error)
	Logout(ctx context.Context, token string) error
}

type sessionService struct {
	kv     repository.KV
	store  LocationStore
	logger *logrus.Logger
	cfg    *config.Config
}

func NewSessionService(kv repository.KV, store LocationStore, logger *logrus.Logger, cfg *config.Config) SessionService {
	return &sessionService{
		kv:     kv,
		store:  store,
		logger: logger,
		cfg:    cfg,
	}
}

// Login сверяет пароль и при успехе выдает токен сессии, маркер которой
// живет в персистентном хранилище в течение SESSION_TTL. Блокировок и
// учета попыток нет.
func (s *sessionService) Login(ctx context.Context, password string) (*models.Session, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "session",
		"method":  "Login",
	})

	if !s.passwordMatches(password) {
		log.Warn("Login attempt with invalid password")
		return nil, ErrInvalidPassword
	}

	token := uuid.NewString()
	expiresAt := time.Now().Add(s.cfg.SessionTTL)
	if err := s.kv.Set(ctx, sessionKeyPrefix+token, []byte("1"), s.cfg.SessionTTL); err != nil {
		log.WithError(err).Error("Failed to persist session marker")
		return nil, fmt.Errorf("service: could not persist session: %w", err)
	}

	log.Info("Admin session created")
	return &models.Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Verify сообщает, существует ли маркер сессии для токена
func (s *sessionService) Verify(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	if _, err := s.kv.Get(ctx, sessionKeyPrefix+token); err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("service: could not verify session: %w", err)
	}
	return true, nil
}

// Logout удаляет маркер сессии и сбрасывает коллекцию: персистентный блоб
// очищается, хранилище перегидрируется из сид-ресурса
func (s *sessionService) Logout(ctx context.Context, token string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "session",
		"method":  "Logout",
	})

	if err := s.kv.Delete(ctx, sessionKeyPrefix+token); err != nil {
		log.WithError(err).Error("Failed to delete session marker")
		return fmt.Errorf("service: could not delete session: %w", err)
	}

	if err := s.store.Reset(ctx); err != nil {
		log.WithError(err).Error("Failed to reset collection on logout")
		return fmt.Errorf("service: could not reset collection: %w", err)
	}

	log.Info("Admin session closed, collection reset to seed")
	return nil
}

// passwordMatches сверяет пароль: bcrypt-хеш имеет приоритет над
// открытым паролем, открытый сравнивается за постоянное время
func (s *sessionService) passwordMatches(password string) bool {
	if s.cfg.AdminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.cfg.AdminPassword), []byte(password)) == 1
}
