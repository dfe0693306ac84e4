package seed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedJSON = `{"locations":[{"id":1,"position":[48.85,2.35],"name":"Cafe","description":"","category":["Food"],"emoji":["☕"]}]}`

func TestFetch_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0o644))

	loader := NewLoader("", path)
	doc, err := loader.Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, doc.Locations, 1)
	assert.Equal(t, "Cafe", doc.Locations[0].Name)
	assert.Equal(t, 48.85, doc.Locations[0].Position.Latitude())
}

func TestFetch_FromHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(seedJSON))
	}))
	defer srv.Close()

	// URL имеет приоритет над файлом
	loader := NewLoader(srv.URL, "does-not-exist.json")
	doc, err := loader.Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, doc.Locations, 1)
	assert.Equal(t, int64(1), doc.Locations[0].ID)
}

func TestFetch_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	loader := NewLoader(srv.URL, "")
	_, err := loader.Fetch(context.Background())

	require.Error(t, err)
	assert.ErrorContains(t, err, "status 500")
}

func TestFetch_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"locations": [`), 0o644))

	loader := NewLoader("", path)
	_, err := loader.Fetch(context.Background())

	require.Error(t, err)
}

func TestFetch_MissingFile(t *testing.T) {
	loader := NewLoader("", filepath.Join(t.TempDir(), "absent.json"))
	_, err := loader.Fetch(context.Background())

	require.Error(t, err)
}
