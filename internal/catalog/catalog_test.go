package catalog

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

// SetCacheDir sets XDG_CACHE_HOME to a temp dir for testing.
func SetCacheDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	return dir
}

var testStationData = RawStations{
	{
		"stationuuid": "9617a958-0601-11e8-ae97-52543be04c81",
		"name":        "Groove Salad",
		"url":         "http://somafm.com/groovesalad.pls",
		"codec":       "MP3",
		"bitrate":     float64(128),
		"votes":       float64(2433),
	},
	{
		"stationuuid": "960e57c5-0601-11e8-ae97-52543be04c81",
		"name":        "Drone Zone",
		"url":         "http://somafm.com/dronezone.pls",
		"codec":       "AAC",
		"bitrate":     float64(64),
	},
}

func TestWriteAndReadStationsFromCache(t *testing.T) {
	SetCacheDir(t)

	err := WriteStationsToCache(testStationData)
	require.NoError(t, err)

	loaded, err := ReadStationsFromCache()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Groove Salad", loaded[0]["name"])
	assert.Equal(t, "960e57c5-0601-11e8-ae97-52543be04c81", loaded[1]["stationuuid"])
}

func TestReadStationsFromCache_NoFile(t *testing.T) {
	SetCacheDir(t)

	raw, err := ReadStationsFromCache()
	assert.Error(t, err)
	assert.Nil(t, raw)
}

func TestReadStationsFromCache_CorruptJSON(t *testing.T) {
	dir := SetCacheDir(t)

	cacheDir := filepath.Join(dir, appCacheDirName)
	require.NoError(t, os.MkdirAll(cacheDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, cacheFileName), []byte("not json"), 0644))

	raw, err := ReadStationsFromCache()
	assert.Error(t, err)
	assert.Nil(t, raw)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestFetchTopStations(t *testing.T) {
	SetCacheDir(t)

	var gotPath, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		data, _ := json.Marshal(testStationData)
		_, _ = w.Write(data)
	}))
	defer server.Close()

	originalURL := ServerURL
	ServerURL = server.URL
	t.Cleanup(func() { ServerURL = originalURL })

	raw, err := FetchTopStations("Tuner/test", 50)
	require.NoError(t, err)
	assert.Len(t, raw, 2)
	assert.Equal(t, "/json/stations/topvote/50", gotPath)
	assert.Equal(t, "Tuner/test", gotAgent)

	// Verify it was also cached
	cached, err := ReadStationsFromCache()
	require.NoError(t, err)
	assert.Len(t, cached, 2)
}

func TestFetchTopStations_ServerError(t *testing.T) {
	SetCacheDir(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	originalURL := ServerURL
	ServerURL = server.URL
	t.Cleanup(func() { ServerURL = originalURL })

	raw, err := FetchTopStations("Tuner/test", 50)
	assert.Error(t, err)
	assert.Nil(t, raw)
	assert.Contains(t, err.Error(), "unexpected status code")
}

func TestSearchStations(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("name")
		w.Header().Set("Content-Type", "application/json")
		data, _ := json.Marshal(testStationData[:1])
		_, _ = w.Write(data)
	}))
	defer server.Close()

	originalURL := ServerURL
	ServerURL = server.URL
	t.Cleanup(func() { ServerURL = originalURL })

	raw, err := SearchStations("Tuner/test", "groove salad", 10)
	require.NoError(t, err)
	assert.Len(t, raw, 1)
	assert.Equal(t, "groove salad", gotQuery)
}

func TestCountClickAndVote(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`{"ok":"true"}`))
	}))
	defer server.Close()

	originalURL := ServerURL
	ServerURL = server.URL
	t.Cleanup(func() { ServerURL = originalURL })

	require.NoError(t, CountClick("Tuner/test", "uuid-1"))
	require.NoError(t, Vote("Tuner/test", "uuid-1"))
	assert.Equal(t, []string{"/json/url/uuid-1", "/json/vote/uuid-1"}, paths)
}

func TestVote_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	originalURL := ServerURL
	ServerURL = server.URL
	t.Cleanup(func() { ServerURL = originalURL })

	assert.Error(t, Vote("Tuner/test", "uuid-1"))
}
