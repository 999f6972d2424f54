package app

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"tuner/internal/config"
	"tuner/internal/player"
	"tuner/internal/state"
	"tuner/internal/stations"
	"tuner/internal/ui"
)

// PlayerControl is the slice of the playback controller the UI drives.
// It exists as an interface so the update loop can be tested without audio.
type PlayerControl interface {
	Play(st *stations.Station) error
	PlayPause()
	Stop()
	Shuffle()
	Current() *stations.Station
	SetStationPicker(pick func() *stations.Station)
}

// Model represents the application's state.
type Model struct {
	List     list.Model
	Registry *stations.Registry
	Player   PlayerControl
	State    *state.State
	Config   *config.Config

	PlayingUUID string // UUID of the playing station, empty if not playing
	Status      player.Status
	NowPlaying  string
	StaleInfo   string // reconciliation notice for the playing station
	Loading     bool
	Err         error
	Width       int
	Height      int
}

// Init initializes the application, loading stations asynchronously.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.LoadStations, tea.EnterAltScreen, TickStationRefresh())
}

// SelectedStation returns the station under the cursor, or nil.
func (m *Model) SelectedStation() *stations.Station {
	if i, ok := m.List.SelectedItem().(ui.Item); ok {
		return i.Station
	}
	return nil
}

// PickRandomStation returns a station picker over the current list, used by
// the playback controller's shuffle.
func (m *Model) PickRandomStation(randIndex func(n int) int) func() *stations.Station {
	return func() *stations.Station {
		items := m.List.Items()
		if len(items) == 0 {
			return nil
		}
		if i, ok := items[randIndex(len(items))].(ui.Item); ok {
			return i.Station
		}
		return nil
	}
}

// StationsToItems converts registered stations into list items.
func StationsToItems(sts []*stations.Station) []list.Item {
	items := make([]list.Item, len(sts))
	for i, st := range sts {
		items[i] = ui.Item{Station: st}
	}
	return items
}

// UpdateListSize recalculates the list viewport from the window size.
func (m *Model) UpdateListSize() {
	headerHeight := 2
	statusHeight := 4
	m.List.SetSize(m.Width, m.Height-headerHeight-statusHeight)
}
