package player

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
)

const (
	fadeInDuration  = 500 * time.Millisecond
	fadeOutDuration = 250 * time.Millisecond
	fadeSteps       = 20
)

// Engine is the low-level audio playback surface. It exists as an interface
// so the controller can be tested without an audio device.
type Engine interface {
	Play(url string) error
	Stop()
}

// AudioEngine streams an MP3 URL through oto. Play and Stop are called from
// both the UI command goroutines and the D-Bus handler goroutines, so all
// mutable state is guarded by the mutex.
type AudioEngine struct {
	mu         sync.Mutex
	ctx        *oto.Context
	player     *oto.Player
	stream     io.Closer
	cancelFade chan struct{}
	userAgent  string
}

// NewAudioEngine initializes the audio output with a default sample rate and
// channel count.
func NewAudioEngine(userAgent string) (*AudioEngine, error) {
	op := &oto.NewContextOptions{
		SampleRate:   44100,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	// Wait for the audio context to be ready
	<-ready

	return &AudioEngine{ctx: ctx, userAgent: userAgent}, nil
}

// Play starts streaming and playing audio from the given URL.
// It closes any previously playing stream before starting a new one.
func (e *AudioEngine) Play(url string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Cancel any ongoing fade-in and fade out current playback
	e.stopLocked()
	e.cancelFade = make(chan struct{})

	// Connect the HTTP stream to the MP3 decoder through a pipe
	pr, pw := io.Pipe()

	go func() {
		defer func() { _ = pw.Close() }()

		req, err := http.NewRequest("GET", url, nil)
		if err != nil {
			pw.CloseWithError(fmt.Errorf("failed to create request: %w", err))
			return
		}
		req.Header.Set("User-Agent", e.userAgent)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			pw.CloseWithError(fmt.Errorf("failed to fetch stream: %w", err))
			return
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			pw.CloseWithError(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
			return
		}

		// An error here is expected on pipe close, so it is not reported
		_, _ = io.Copy(pw, resp.Body)
	}()

	decodedStream, err := mp3.DecodeWithSampleRate(44100, pr)
	if err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return fmt.Errorf("failed to decode mp3: %w", err)
	}

	e.stream = pr
	e.player = e.ctx.NewPlayer(decodedStream)
	e.player.SetVolume(0)
	e.player.Play()

	// The fade runs off the lock; the player handle and cancel channel are
	// pinned here so a concurrent Stop cannot swap them out mid-fade.
	go fadeIn(e.player, e.cancelFade)

	return nil
}

// fadeIn gradually increases the volume from 0 to 1.
func fadeIn(p *oto.Player, cancel <-chan struct{}) {
	stepDuration := fadeInDuration / fadeSteps
	for i := 1; i <= fadeSteps; i++ {
		select {
		case <-cancel:
			return
		case <-time.After(stepDuration):
			p.SetVolume(float64(i) / fadeSteps)
		}
	}
}

// fadeOut gradually decreases the volume from current to 0. Callers hold e.mu.
func (e *AudioEngine) fadeOut() {
	if e.player == nil {
		return
	}
	stepDuration := fadeOutDuration / fadeSteps
	startVolume := e.player.Volume()
	for i := fadeSteps - 1; i >= 0; i-- {
		time.Sleep(stepDuration)
		e.player.SetVolume(startVolume * float64(i) / fadeSteps)
	}
}

// Stop halts the current audio playback and closes the associated stream.
func (e *AudioEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

// stopLocked cancels the fade, fades out, and releases the player and
// stream. Callers hold e.mu.
func (e *AudioEngine) stopLocked() {
	if e.cancelFade != nil {
		close(e.cancelFade)
		e.cancelFade = nil
	}
	e.fadeOut()

	e.player = nil
	if e.stream != nil {
		_ = e.stream.Close()
		e.stream = nil
	}
}
