// Package platform holds the desktop integration layer. On Linux this is an
// MPRIS D-Bus service; elsewhere it is a stub.
package platform

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"tuner/internal/player"
	"tuner/internal/stations"
)

// CmdSender is an interface for sending commands to the application.
// This matches the tea.Program's Send method signature.
type CmdSender interface {
	Send(msg tea.Msg)
}

// Player is the slice of the playback controller the MPRIS adapter consumes:
// current state for property reads, transport methods for forwarding remote
// control intents, and Subscribe for change notifications.
type Player interface {
	Status() player.Status
	Current() *stations.Station
	NowPlaying() string
	CanPlay() bool
	PlayPause()
	Stop()
	Shuffle()
	Subscribe(fn func(player.Event))
}

// MPRISRaiseMsg is sent when a remote controller asks to raise the window.
type MPRISRaiseMsg struct{}

// SanitizeUTF8 removes invalid UTF8 characters from a string.
// D-Bus requires all strings to be valid UTF8.
func SanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if r != utf8.RuneError {
			b.WriteRune(r)
		}
	}
	return b.String()
}
