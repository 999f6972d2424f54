package player

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tuner/internal/stations"
)

// fakeEngine records playback calls without opening an audio device.
type fakeEngine struct {
	played  []string
	stops   int
	playErr error
}

func (e *fakeEngine) Play(url string) error {
	if e.playErr != nil {
		return e.playErr
	}
	e.played = append(e.played, url)
	return nil
}

func (e *fakeEngine) Stop() { e.stops++ }

func newTestController() (*Controller, *fakeEngine) {
	engine := &fakeEngine{}
	c := NewController(engine, "Tuner/test")
	c.startWatcher = func(string) {} // no network polling in tests
	return c, engine
}

func testStation(uuid string) *stations.Station {
	return &stations.Station{
		UUID:        uuid,
		Name:        "Station " + uuid,
		URL:         "http://stream.example/" + uuid,
		URLResolved: "http://ice.example/" + uuid,
	}
}

func collectEvents(c *Controller) *[]Event {
	var events []Event
	c.Subscribe(func(ev Event) { events = append(events, ev) })
	return &events
}

func TestPlay_PublishesBufferingThenPlaying(t *testing.T) {
	c, engine := newTestController()
	events := collectEvents(c)

	st := testStation("u1")
	require.NoError(t, c.Play(st))

	assert.Equal(t, StatusPlaying, c.Status())
	assert.Same(t, st, c.Current())
	assert.Equal(t, []string{"http://ice.example/u1"}, engine.played)

	var statuses []Status
	for _, ev := range *events {
		if s, ok := ev.(StateChangedEvent); ok {
			statuses = append(statuses, s.Status)
		}
	}
	assert.Equal(t, []Status{StatusBuffering, StatusPlaying}, statuses)
}

func TestPlay_EngineFailureStops(t *testing.T) {
	c, engine := newTestController()
	engine.playErr = errors.New("no audio device")

	err := c.Play(testStation("u1"))
	assert.Error(t, err)
	assert.Equal(t, StatusStopped, c.Status())
}

func TestPlay_NilStation(t *testing.T) {
	c, _ := newTestController()
	assert.Error(t, c.Play(nil))
	assert.Equal(t, StatusStopped, c.Status())
}

func TestPlayPause_TogglesAndResumes(t *testing.T) {
	c, engine := newTestController()
	st := testStation("u1")
	require.NoError(t, c.Play(st))

	c.PlayPause()
	assert.Equal(t, StatusPaused, c.Status())
	assert.Equal(t, 1, engine.stops)
	assert.Same(t, st, c.Current(), "pausing keeps the station tuned")

	c.PlayPause()
	assert.Equal(t, StatusPlaying, c.Status())
	assert.Len(t, engine.played, 2, "resuming reconnects the stream")
}

func TestPlayPause_NothingTunedIsInert(t *testing.T) {
	c, engine := newTestController()
	c.PlayPause()
	assert.Equal(t, StatusStopped, c.Status())
	assert.Empty(t, engine.played)
}

func TestStop_ClearsNowPlayingButKeepsStation(t *testing.T) {
	c, _ := newTestController()
	st := testStation("u1")
	require.NoError(t, c.Play(st))

	c.mu.Lock()
	c.nowPlaying = "Some Track"
	c.mu.Unlock()

	events := collectEvents(c)
	c.Stop()

	assert.Equal(t, StatusStopped, c.Status())
	assert.Empty(t, c.NowPlaying())
	assert.Same(t, st, c.Current())

	var sawMetadataClear bool
	for _, ev := range *events {
		if m, ok := ev.(MetadataChangedEvent); ok && m.Title == "" {
			sawMetadataClear = true
		}
	}
	assert.True(t, sawMetadataClear, "stopping clears the metadata snapshot")
}

func TestShuffle_UsesPicker(t *testing.T) {
	c, engine := newTestController()

	c.Shuffle()
	assert.Empty(t, engine.played, "no picker wired yet")

	st := testStation("u7")
	c.SetStationPicker(func() *stations.Station { return st })
	c.Shuffle()

	assert.Same(t, st, c.Current())
	assert.Equal(t, StatusPlaying, c.Status())
}

func TestCanPlay(t *testing.T) {
	c, _ := newTestController()
	assert.False(t, c.CanPlay())

	c.SetStationPicker(func() *stations.Station { return nil })
	assert.True(t, c.CanPlay())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Playing", StatusPlaying.String())
	assert.Equal(t, "Buffering", StatusBuffering.String())
	assert.Equal(t, "Paused", StatusPaused.String())
	assert.Equal(t, "Stopped", StatusStopped.String())
	assert.Equal(t, "Stopped", Status(42).String())
}

func TestSetStatus_NoEventWhenUnchanged(t *testing.T) {
	c, _ := newTestController()
	events := collectEvents(c)

	c.setStatus(StatusStopped)
	assert.Empty(t, *events)

	c.setStatus(StatusPlaying)
	c.setStatus(StatusPlaying)
	assert.Len(t, *events, 1)
}
