// Package player owns playback: the audio engine, the four-state playback
// status, the currently tuned station, and ICY now-playing titles. State and
// metadata changes fan out to subscribers (the MPRIS adapter and the UI
// bridge), which register once at startup.
package player

import (
	"fmt"
	"sync"

	"tuner/internal/catalog"
	"tuner/internal/stations"
)

// Status is the internal playback state.
type Status int

const (
	StatusStopped Status = iota
	StatusPlaying
	StatusBuffering
	StatusPaused
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "Playing"
	case StatusBuffering:
		return "Buffering"
	case StatusPaused:
		return "Paused"
	default:
		return "Stopped"
	}
}

// StateChangedEvent is published when the playback status changes.
type StateChangedEvent struct {
	Status Status
}

// MetadataChangedEvent is published when the now-playing title changes.
type MetadataChangedEvent struct {
	Title string
}

// Event is either a StateChangedEvent or a MetadataChangedEvent.
type Event any

// Controller drives playback and publishes state changes.
type Controller struct {
	engine    Engine
	userAgent string

	// pick chooses a random station for Shuffle; wired by the app layer once
	// the catalog is loaded.
	pick func() *stations.Station

	// startWatcher is replaceable in tests so no network polling starts.
	startWatcher func(streamURL string)

	mu         sync.Mutex
	status     Status
	current    *stations.Station
	nowPlaying string
	watcher    *NowPlayingWatcher
	subs       []func(Event)
}

// NewController creates a controller around the given audio engine.
func NewController(engine Engine, userAgent string) *Controller {
	c := &Controller{
		engine:    engine,
		userAgent: userAgent,
	}
	c.startWatcher = c.watchStream
	return c
}

// Subscribe registers an event callback. Callbacks run synchronously on the
// goroutine publishing the change and must not block.
func (c *Controller) Subscribe(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// SetStationPicker wires the random-station source used by Shuffle.
func (c *Controller) SetStationPicker(pick func() *stations.Station) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pick = pick
}

// Status returns the current playback status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Current returns the currently tuned station, or nil.
func (c *Controller) Current() *stations.Station {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowPlaying returns the last ICY title read from the stream.
func (c *Controller) NowPlaying() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nowPlaying
}

// CanPlay reports whether a play request could do anything right now.
func (c *Controller) CanPlay() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil || c.pick != nil
}

// Play tunes to the given station and starts streaming.
func (c *Controller) Play(st *stations.Station) error {
	if st == nil {
		return fmt.Errorf("no station to play")
	}

	c.stopWatcher()

	c.mu.Lock()
	c.current = st
	c.nowPlaying = ""
	c.mu.Unlock()
	c.setStatus(StatusBuffering)
	c.publish(MetadataChangedEvent{})

	streamURL, err := catalog.ResolveStreamURL(c.userAgent, st.StreamURL())
	if err != nil {
		c.setStatus(StatusStopped)
		return fmt.Errorf("failed to resolve stream URL: %w", err)
	}

	if err := c.engine.Play(streamURL); err != nil {
		c.setStatus(StatusStopped)
		return fmt.Errorf("failed to start playback: %w", err)
	}

	c.setStatus(StatusPlaying)
	c.startWatcher(streamURL)
	return nil
}

// PlayPause toggles between playing and paused. Pausing a live stream stops
// the audio but keeps the station tuned; resuming reconnects.
func (c *Controller) PlayPause() {
	switch c.Status() {
	case StatusPlaying, StatusBuffering:
		c.stopWatcher()
		c.engine.Stop()
		c.setStatus(StatusPaused)
	case StatusPaused, StatusStopped:
		if st := c.Current(); st != nil {
			_ = c.Play(st)
		}
	}
}

// Stop halts playback. The station stays tuned so playback can resume.
func (c *Controller) Stop() {
	c.stopWatcher()
	c.engine.Stop()

	c.mu.Lock()
	changed := c.nowPlaying != ""
	c.nowPlaying = ""
	c.mu.Unlock()

	c.setStatus(StatusStopped)
	if changed {
		c.publish(MetadataChangedEvent{})
	}
}

// Shuffle tunes to a random station from the catalog. This is also what an
// MPRIS Next request maps to; there is no playlist to advance through.
func (c *Controller) Shuffle() {
	c.mu.Lock()
	pick := c.pick
	c.mu.Unlock()

	if pick == nil {
		return
	}
	if st := pick(); st != nil {
		_ = c.Play(st)
	}
}

func (c *Controller) setStatus(s Status) {
	c.mu.Lock()
	if c.status == s {
		c.mu.Unlock()
		return
	}
	c.status = s
	c.mu.Unlock()

	c.publish(StateChangedEvent{Status: s})
}

func (c *Controller) publish(ev Event) {
	c.mu.Lock()
	subs := make([]func(Event), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

func (c *Controller) watchStream(streamURL string) {
	w := NewNowPlayingWatcher(streamURL)

	c.mu.Lock()
	c.watcher = w
	c.mu.Unlock()

	w.Start(c.userAgent, func(title string) {
		c.mu.Lock()
		if c.watcher != w || c.nowPlaying == title {
			c.mu.Unlock()
			return
		}
		c.nowPlaying = title
		c.mu.Unlock()

		c.publish(MetadataChangedEvent{Title: title})
	})
}

func (c *Controller) stopWatcher() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}
