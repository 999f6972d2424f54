package app

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tuner/internal/catalog"
	"tuner/internal/player"
	"tuner/internal/state"
	"tuner/internal/stations"
)

const stationRefreshInterval = 10 * time.Minute

// StationsLoadedMsg is a message sent when stations are successfully loaded.
type StationsLoadedMsg struct {
	Raw       catalog.RawStations
	FromCache bool
}

// StationsRefreshedMsg is a message sent when stations are refreshed from network.
type StationsRefreshedMsg struct {
	Raw catalog.RawStations
}

// ErrorMsg is a message sent when an error occurs.
type ErrorMsg struct {
	Err error
}

// PlayerEventMsg wraps a playback event bridged into the update loop.
type PlayerEventMsg struct {
	Event player.Event
}

// StationRefreshTickMsg is a message sent when it's time to refresh stations.
type StationRefreshTickMsg struct{}

// LoadStations is a Tea command that fetches the station catalog asynchronously.
func (m *Model) LoadStations() tea.Msg {
	// Try cache first
	raw, err := catalog.ReadStationsFromCache()
	if err == nil {
		return StationsLoadedMsg{Raw: raw, FromCache: true}
	}

	// Fall back to network
	raw, err = catalog.FetchTopStations(m.Config.Player.UserAgent, m.Config.Catalog.Limit)
	if err != nil {
		return ErrorMsg{Err: err}
	}
	return StationsLoadedMsg{Raw: raw, FromCache: false}
}

// RefreshStations fetches stations from network in the background.
func (m *Model) RefreshStations() tea.Msg {
	raw, err := catalog.FetchTopStations(m.Config.Player.UserAgent, m.Config.Catalog.Limit)
	if err != nil {
		// Silently ignore background refresh errors
		return nil
	}
	return StationsRefreshedMsg{Raw: raw}
}

// TickStationRefresh returns a command that triggers a catalog refresh periodically.
func TickStationRefresh() tea.Cmd {
	return tea.Tick(stationRefreshInterval, func(t time.Time) tea.Msg {
		return StationRefreshTickMsg{}
	})
}

// PlayStation returns a command that tunes the player to the given station
// and reports the play back to the catalog server.
func (m *Model) PlayStation(st *stations.Station) tea.Cmd {
	m.PlayingUUID = st.UUID

	// Save the last played station
	if m.State != nil {
		m.State.LastPlayedStationUUID = st.UUID
		_ = state.SaveState(m.State) // Ignore error - continue anyway
	}

	userAgent := m.Config.Player.UserAgent
	return func() tea.Msg {
		if err := catalog.CountClick(userAgent, st.UUID); err != nil {
			// Click counting is best effort
			fmt.Fprintf(os.Stderr, "Warning: failed to count click: %v\n", err)
		}
		if err := m.Player.Play(st); err != nil {
			return ErrorMsg{Err: err}
		}
		return nil
	}
}

// VoteStation returns a command that casts a vote for the given station.
func (m *Model) VoteStation(st *stations.Station) tea.Cmd {
	userAgent := m.Config.Player.UserAgent
	return func() tea.Msg {
		if err := catalog.Vote(userAgent, st.UUID); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to vote: %v\n", err)
		}
		return nil
	}
}
