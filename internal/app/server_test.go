package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogYAML = `
topK: 2
tools:
  - name: get_weather
    description: Get the current weather for a location
  - name: send_email
    description: Send an email message to a recipient
`

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogYAML), 0o600))

	application, err := New(Config{CatalogPath: path}, nil, nil)
	require.NoError(t, err)
	return application
}

func TestHandleSearch(t *testing.T) {
	application := newTestApplication(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/search?q=weather+forecast", nil)
	application.handleSearch(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "weather forecast", resp.Query)
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "get_weather", resp.Matches[0].Name)
}

func TestHandleSearchValidation(t *testing.T) {
	application := newTestApplication(t)

	rec := httptest.NewRecorder()
	application.handleSearch(rec, httptest.NewRequest(http.MethodGet, "/v1/search", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	application.handleSearch(rec, httptest.NewRequest(http.MethodGet, "/v1/search?q=weather&topK=zero", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSearchNoMatches(t *testing.T) {
	application := newTestApplication(t)

	rec := httptest.NewRecorder()
	application.handleSearch(rec, httptest.NewRequest(http.MethodGet, "/v1/search?q=quantum", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Matches)
	assert.NotNil(t, resp.Matches, "no matches is an empty list, not null")
}

func TestHandleTools(t *testing.T) {
	application := newTestApplication(t)

	rec := httptest.NewRecorder()
	application.handleTools(rec, httptest.NewRequest(http.MethodGet, "/v1/tools", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp toolsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Tools, 2)

	rec = httptest.NewRecorder()
	application.handleTools(rec, httptest.NewRequest(http.MethodGet, "/v1/tools?names=send_email", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Tools, 1)
	assert.Equal(t, "send_email", resp.Tools[0].Name)

	rec = httptest.NewRecorder()
	application.handleTools(rec, httptest.NewRequest(http.MethodGet, "/v1/tools?names=ghost", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReloadSwapsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogYAML), 0o600))

	application, err := New(Config{CatalogPath: path}, nil, nil)
	require.NoError(t, err)
	assert.Len(t, application.Catalog().Tools, 2)

	updated := testCatalogYAML + `
  - name: create_event
    description: Create a calendar event
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))
	require.NoError(t, application.Reload())
	assert.Len(t, application.Catalog().Tools, 3)
}

func TestReloadKeepsServingOnBrokenEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogYAML), 0o600))

	application, err := New(Config{CatalogPath: path}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("tools:\n  - name: tool_search\n"), 0o600))
	require.Error(t, application.Reload())

	// The previous snapshot is still live.
	tools, err := application.Search("weather")
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "get_weather", tools[0].Name)
}
