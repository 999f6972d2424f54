package player

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const nowPlayingCheckInterval = 10 * time.Second

// NowPlayingWatcher polls a stream for ICY metadata and reports title
// changes through a callback.
type NowPlayingWatcher struct {
	url      string
	client   *http.Client
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewNowPlayingWatcher creates a watcher for the given stream URL.
func NewNowPlayingWatcher(url string) *NowPlayingWatcher {
	return &NowPlayingWatcher{
		url:      url,
		client:   &http.Client{},
		stopChan: make(chan struct{}),
	}
}

// Start begins polling the stream, invoking onUpdate with each title read.
// Read failures are skipped silently; streams without ICY support simply
// never produce an update.
func (w *NowPlayingWatcher) Start(userAgent string, onUpdate func(title string)) {
	go func() {
		ticker := time.NewTicker(nowPlayingCheckInterval)
		defer ticker.Stop()

		// Get the initial title right away
		if title, err := w.readTitle(userAgent); err == nil {
			onUpdate(title)
		}

		for {
			select {
			case <-ticker.C:
				if title, err := w.readTitle(userAgent); err == nil {
					onUpdate(title)
				}
			case <-w.stopChan:
				return
			}
		}
	}()
}

// Stop halts polling. Safe to call multiple times.
func (w *NowPlayingWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
}

// readTitle fetches ICY metadata directly from the stream.
func (w *NowPlayingWatcher) readTitle(userAgent string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", w.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Icy-MetaData", "1") // Request metadata

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch stream: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	icyInt := resp.Header.Get("icy-metaint")
	if icyInt == "" {
		return "", fmt.Errorf("stream does not support ICY metadata")
	}

	return readICYTitle(resp.Body, icyInt)
}

// readICYTitle reads one ICY metadata block from the stream.
func readICYTitle(body io.Reader, icyIntStr string) (string, error) {
	icyInt, err := strconv.Atoi(icyIntStr)
	if err != nil {
		return "", fmt.Errorf("invalid icy-metaint value: %w", err)
	}

	reader := bufio.NewReader(body)

	// Skip the first audio block
	if _, err := reader.Discard(icyInt); err != nil {
		return "", fmt.Errorf("failed to skip audio block: %w", err)
	}

	// Read the metadata length byte
	metaLenByte, err := reader.ReadByte()
	if err != nil {
		return "", fmt.Errorf("failed to read metadata length: %w", err)
	}

	metaLen := int(metaLenByte) * 16
	if metaLen == 0 {
		return "", fmt.Errorf("no metadata available")
	}

	metadata := make([]byte, metaLen)
	if _, err := io.ReadFull(reader, metadata); err != nil {
		return "", fmt.Errorf("failed to read metadata block: %w", err)
	}

	metaStr := strings.TrimRight(string(metadata), "\x00")
	return parseICYTitle(metaStr)
}

// parseICYTitle extracts the title from an ICY metadata string.
// Format: StreamTitle='Title';StreamUrl='';
func parseICYTitle(metaStr string) (string, error) {
	parts := strings.Split(metaStr, ";")

	for _, part := range parts {
		if strings.HasPrefix(part, "StreamTitle='") {
			title := strings.TrimPrefix(part, "StreamTitle='")
			title = strings.TrimSuffix(title, "'")
			return strings.TrimSpace(title), nil
		}
	}

	return "", fmt.Errorf("no StreamTitle found in metadata")
}
