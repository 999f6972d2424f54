package stations

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFetcher records favicon fetches without touching the network.
type countingFetcher struct {
	mu    sync.Mutex
	wg    sync.WaitGroup
	seen  []string
	count int
}

func (c *countingFetcher) fetch(st *Station) {
	defer c.wg.Done()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	c.seen = append(c.seen, st.UUID)
}

func newTestRegistry() (*Registry, *countingFetcher) {
	r := NewRegistry("Tuner/test")
	f := &countingFetcher{}
	r.SetFaviconFetcher(f.fetch)
	return r, f
}

func TestMake_ReturnsCanonicalInstance(t *testing.T) {
	r, f := newTestRegistry()

	f.wg.Add(1)
	first := r.Make(map[string]any{"stationuuid": "u1", "name": "One", "votes": float64(1)})
	second := r.Make(map[string]any{"stationuuid": "u1", "name": "One", "votes": float64(2)})
	f.wg.Wait()

	assert.Same(t, first, second)
	assert.Equal(t, 1, r.Len())

	// The second sighting refreshes counters in place but does not fetch the
	// favicon again.
	assert.Equal(t, 2, first.Votes)
	assert.Equal(t, 1, f.count)
}

func TestMake_DistinctUUIDs(t *testing.T) {
	r, f := newTestRegistry()

	f.wg.Add(2)
	a := r.Make(map[string]any{"stationuuid": "u1"})
	b := r.Make(map[string]any{"stationuuid": "u2"})
	f.wg.Wait()

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, r.Len())
	assert.ElementsMatch(t, []string{"u1", "u2"}, f.seen)
}

func TestMake_NoIdentifierStaysUnregistered(t *testing.T) {
	r, f := newTestRegistry()

	st := r.Make(map[string]any{"name": "anonymous"})
	require.NotNil(t, st)
	assert.Empty(t, st.UUID)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, f.count)
}

func TestMake_ReconcilesAgainstFreshCopy(t *testing.T) {
	r, f := newTestRegistry()

	f.wg.Add(1)
	st := r.Make(map[string]any{
		"stationuuid": "u1",
		"url":         "http://a.example/stream",
		"bitrate":     float64(128),
		"codec":       "MP3",
	})
	f.wg.Wait()

	same := r.Make(map[string]any{
		"stationuuid": "u1",
		"url":         "http://a.example/stream",
		"bitrate":     float64(128),
		"codec":       "MP3",
	})
	assert.Same(t, st, same)
	assert.True(t, st.UpToDate())
	assert.Empty(t, st.ChangedInfo())

	r.Make(map[string]any{
		"stationuuid": "u1",
		"url":         "http://a.example/stream",
		"bitrate":     float64(320),
		"codec":       "MP3",
	})
	assert.False(t, st.UpToDate())
	assert.Contains(t, st.ChangedInfo(), "bitrate")
	assert.Equal(t, 128, st.Bitrate, "identity fields are not rewritten by refreshes")
}

func TestGet(t *testing.T) {
	r, f := newTestRegistry()

	f.wg.Add(1)
	st := r.Make(map[string]any{"stationuuid": "u1"})
	f.wg.Wait()

	got, ok := r.Get("u1")
	assert.True(t, ok)
	assert.Same(t, st, got)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}
