package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileKV - файловая реализация KV: один файл на ключ в каталоге данных.
// Аналог browser local storage для развертывания без внешних бэкендов.
type FileKV struct {
	dir string
}

// fileEntry - дисковый формат записи; Value сериализуется в base64 средствами encoding/json
type fileEntry struct {
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Value     []byte     `json:"value"`
}

// NewFileKV создает хранилище и каталог данных, если его еще нет
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileKV{dir: dir}, nil
}

func (f *FileKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode entry for key %q: %w", key, err)
	}

	// Истекшая запись читается как отсутствующая и лениво удаляется
	if entry.ExpiresAt != nil && time.Now().After(*entry.ExpiresAt) {
		_ = os.Remove(f.path(key))
		return nil, ErrKeyNotFound
	}
	return entry.Value, nil
}

func (f *FileKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	entry := fileEntry{Value: value}
	if ttl > 0 {
		expires := time.Now().Add(ttl)
		entry.ExpiresAt = &expires
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode entry for key %q: %w", key, err)
	}

	// Атомарная запись через временный файл и rename, чтобы чтение никогда
	// не увидело частично записанный блоб
	tmp, err := os.CreateTemp(f.dir, ".kv-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace key %q: %w", key, err)
	}
	return nil
}

func (f *FileKV) Delete(ctx context.Context, key string) error {
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, sanitizeKey(key)+".json")
}

// sanitizeKey заменяет символы, недопустимые в имени файла
func sanitizeKey(key string) string {
	replacer := strings.NewReplacer(":", "_", "/", "_", "\\", "_")
	return replacer.Replace(key)
}
