package stations

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"
)

const faviconFetchTimeout = 15 * time.Second

// Registry is the canonical in-memory station store. At most one live
// Station exists per UUID; all consumers share the instance returned by Make.
//
// The registry is constructed once at startup and passed by handle to the
// catalog, player, and UI layers.
type Registry struct {
	mu       sync.Mutex
	stations map[string]*Station
	icons    map[string][]byte

	// fetchFavicon is replaceable in tests.
	fetchFavicon func(st *Station)
}

// NewRegistry creates an empty registry with the given User-Agent used for
// best-effort favicon downloads.
func NewRegistry(userAgent string) *Registry {
	r := &Registry{
		stations: make(map[string]*Station),
		icons:    make(map[string][]byte),
	}
	r.fetchFavicon = func(st *Station) { r.downloadFavicon(st, userAgent) }
	return r
}

// SetFaviconFetcher replaces the favicon download hook.
func (r *Registry) SetFaviconFetcher(fn func(st *Station)) {
	r.fetchFavicon = fn
}

// Make parses a raw catalog entry and returns the canonical station for its
// UUID. The first sighting of a UUID registers the parsed record and kicks
// off an asynchronous favicon fetch; later sightings refresh the existing
// record's counters, reconcile it against the fresh copy, and return the
// previously registered instance.
//
// Entries without a usable identifier are returned as unregistered
// transients.
func (r *Registry) Make(raw map[string]any) *Station {
	fresh := ParseStation(raw)
	if fresh.UUID == "" {
		return fresh
	}

	r.mu.Lock()
	existing, ok := r.stations[fresh.UUID]
	if !ok {
		r.stations[fresh.UUID] = fresh
	}
	r.mu.Unlock()

	if ok {
		existing.refreshCountersFrom(fresh)
		existing.SetUpToDateWith(fresh)
		return existing
	}

	if r.fetchFavicon != nil {
		go r.fetchFavicon(fresh)
	}
	return fresh
}

// Get returns the canonical station for a UUID, if registered.
func (r *Registry) Get(uuid string) (*Station, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.stations[uuid]
	return st, ok
}

// Len returns the number of registered stations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stations)
}

// Icon returns the downloaded favicon bytes for a station, if the
// best-effort fetch has completed.
func (r *Registry) Icon(uuid string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.icons[uuid]
	return data, ok
}

// downloadFavicon grabs the station favicon. Failures are silently dropped;
// artwork is a nicety, not a requirement.
func (r *Registry) downloadFavicon(st *Station, userAgent string) {
	if st.Favicon == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), faviconFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", st.Favicon, nil)
	if err != nil {
		return
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(data) == 0 {
		return
	}

	r.mu.Lock()
	r.icons[st.UUID] = data
	r.mu.Unlock()
}
