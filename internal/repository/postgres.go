package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresKV - реализация KV поверх таблицы kv_entries.
// Схема таблицы принадлежит миграциям (golang-migrate).
type PostgresKV struct {
	db *pgxpool.Pool
}

func NewPostgresKV(db *pgxpool.Pool) *PostgresKV {
	return &PostgresKV{db: db}
}

func (p *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	query := `
		SELECT value, expires_at
		FROM kv_entries
		WHERE key = $1;
	`
	var value []byte
	var expiresAt *time.Time
	err := p.db.QueryRow(ctx, query, key).Scan(&value, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get key %q: %w", key, err)
	}

	// Истекшая запись читается как отсутствующая
	if expiresAt != nil && time.Now().After(*expiresAt) {
		_ = p.Delete(ctx, key)
		return nil, ErrKeyNotFound
	}
	return value, nil
}

func (p *PostgresKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt *time.Time
	if ttl > 0 {
		expires := time.Now().Add(ttl)
		expiresAt = &expires
	}

	query := `
		INSERT INTO kv_entries (key, value, expires_at, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			expires_at = EXCLUDED.expires_at,
			updated_at = NOW();
	`
	if _, err := p.db.Exec(ctx, query, key, value, expiresAt); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}

func (p *PostgresKV) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_entries WHERE key = $1;`
	if _, err := p.db.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}
