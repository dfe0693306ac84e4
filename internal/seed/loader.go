package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"travelguide/internal/models"
)

// Loader читает сид-ресурс - статический документ {"locations": [...]},
// которым гидрируется пустое развертывание. Источник: HTTP GET по SEED_URL,
// если он задан, иначе локальный файл SEED_PATH.
type Loader struct {
	url    string
	path   string
	client *http.Client
}

func NewLoader(url, path string) *Loader {
	return &Loader{
		url:  url,
		path: path,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Fetch возвращает сид-документ. Некорректный JSON - ошибка: хранилище
// в этом случае остается пустым.
func (l *Loader) Fetch(ctx context.Context) (*models.Document, error) {
	if l.url != "" {
		return l.fetchHTTP(ctx)
	}
	return l.fetchFile()
}

func (l *Loader) fetchHTTP(ctx context.Context) (*models.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create seed request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seed resource: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("seed resource returned status %d", resp.StatusCode)
	}

	var doc models.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode seed resource: %w", err)
	}
	return &doc, nil
}

func (l *Loader) fetchFile() (*models.Document, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	return &doc, nil
}
