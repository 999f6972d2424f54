// Package catalog talks to the radio-browser.info JSON API and keeps a local
// cache of the last good station list. Entries are handed to callers as raw
// records; field extraction lives in the stations package.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const (
	cacheFileName   = "tuner_stations.json"
	appCacheDirName = "tuner"

	fetchTimeout = 30 * time.Second
)

// ServerURL is the radio-browser API base - exported for testing.
var ServerURL = "https://de1.api.radio-browser.info"

// RawStations is a list of undecoded catalog entries.
type RawStations []map[string]any

// GetCacheFilePath returns the absolute path to the station cache file.
func GetCacheFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user cache directory: %w", err)
	}
	appCacheDir := filepath.Join(cacheDir, appCacheDirName)
	if err := os.MkdirAll(appCacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create app cache directory: %w", err)
	}
	return filepath.Join(appCacheDir, cacheFileName), nil
}

// ReadStationsFromCache attempts to read station data from the local cache file.
func ReadStationsFromCache() (RawStations, error) {
	cachePath, err := GetCacheFilePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var raw RawStations
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached data: %w", err)
	}

	return raw, nil
}

// WriteStationsToCache writes the given station data to the local cache file.
func WriteStationsToCache(raw RawStations) error {
	cachePath, err := GetCacheFilePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stations for caching: %w", err)
	}

	if err := os.WriteFile(cachePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write stations to cache file: %w", err)
	}

	return nil
}

// FetchTopStations fetches the most-voted stations from the catalog server.
func FetchTopStations(userAgent string, limit int) (RawStations, error) {
	endpoint := fmt.Sprintf("%s/json/stations/topvote/%d?hidebroken=true", ServerURL, limit)
	raw, err := fetchStations(userAgent, endpoint)
	if err != nil {
		return nil, err
	}

	// Write to cache for future use
	if err := WriteStationsToCache(raw); err != nil {
		// Log error but don't fail
		fmt.Fprintf(os.Stderr, "Warning: Failed to write stations to cache: %v\n", err)
	}

	return raw, nil
}

// SearchStations queries the catalog server by station name.
func SearchStations(userAgent, name string, limit int) (RawStations, error) {
	endpoint := fmt.Sprintf("%s/json/stations/search?name=%s&limit=%d&hidebroken=true",
		ServerURL, url.QueryEscape(name), limit)
	return fetchStations(userAgent, endpoint)
}

func fetchStations(userAgent, endpoint string) (RawStations, error) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stations from network: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code from network: %d", resp.StatusCode)
	}

	var raw RawStations
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode network response: %w", err)
	}

	return raw, nil
}

// CountClick reports a station play to the catalog server so click counters
// stay meaningful. Best effort; the caller logs and drops any error.
func CountClick(userAgent, stationUUID string) error {
	return touch(userAgent, fmt.Sprintf("%s/json/url/%s", ServerURL, stationUUID))
}

// Vote casts a vote for a station on the catalog server.
func Vote(userAgent, stationUUID string) error {
	return touch(userAgent, fmt.Sprintf("%s/json/vote/%s", ServerURL, stationUUID))
}

func touch(userAgent, endpoint string) error {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach catalog server: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}
	return nil
}
