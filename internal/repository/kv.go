package repository

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound возвращается, когда ключ отсутствует или его срок жизни истек
var ErrKeyNotFound = errors.New("key not found")

// KV определяет контракт персистентного key-value хранилища.
// Коллекция точек интереса пишется целиком под одним ключом, сессии - под
// отдельными ключами с TTL; ttl == 0 означает ключ без срока жизни.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
