package catalog

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const plsFilePrefix = "File1="

// ResolveStreamURL turns a station URL into a directly playable stream URL.
// Plain stream URLs pass through unchanged; .pls playlists are fetched and
// their first entry is returned.
func ResolveStreamURL(userAgent, stationURL string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(stationURL), ".pls") {
		return stationURL, nil
	}
	return getStreamURLFromPlaylist(userAgent, stationURL)
}

// getStreamURLFromPlaylist fetches a playlist file from a URL, parses it,
// and returns the first stream URL found within the playlist.
// It supports the .pls playlist format.
func getStreamURLFromPlaylist(userAgent, playlistURL string) (string, error) {
	// Fetch the playlist file content
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", playlistURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get playlist from %s: %w", playlistURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for playlist %s", resp.StatusCode, playlistURL)
	}

	// Scan the playlist file line by line to find the stream URL
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		// In .pls files, the stream URL is typically on a line starting with "File1="
		if strings.HasPrefix(line, plsFilePrefix) {
			return strings.TrimPrefix(line, plsFilePrefix), nil
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("error reading playlist body from %s: %w", playlistURL, err)
	}

	return "", fmt.Errorf("no stream URL found in playlist %s", playlistURL)
}
