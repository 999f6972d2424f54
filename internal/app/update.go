package app

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"tuner/internal/platform"
	"tuner/internal/player"
	"tuner/internal/stations"
	"tuner/internal/ui"
)

// Update handles incoming messages and updates the model's state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// While the filter is accepting input, keystrokes belong to it.
		if m.List.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			if m.Player != nil {
				m.Player.Stop()
			}
			return m, tea.Quit
		case "enter":
			if st := m.SelectedStation(); st != nil {
				m.Err = nil
				return m, m.PlayStation(st)
			}
		case " ", "p":
			if m.Player != nil {
				m.Player.PlayPause()
			}
			return m, nil
		case "s":
			if m.Player != nil {
				m.Player.Stop()
			}
			return m, nil
		case "r":
			if m.Player != nil {
				m.Player.Shuffle()
			}
			return m, nil
		case "f", "*":
			m.ToggleStarred()
			return m, nil
		case "v":
			if st := m.SelectedStation(); st != nil {
				return m, m.VoteStation(st)
			}
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.UpdateListSize()
		return m, nil

	case StationsLoadedMsg:
		m.applyCatalog(msg.Raw)
		m.Loading = false
		m.Err = nil

		// Restore cursor to the last played station if available
		if m.State != nil && m.State.LastPlayedStationUUID != "" {
			m.selectStation(m.State.LastPlayedStationUUID)
		}

		// If loaded from cache, refresh from network in background
		if msg.FromCache {
			return m, m.RefreshStations
		}

	case StationsRefreshedMsg:
		// Remember selection by UUID for stable restoration after sort
		var selectedUUID string
		if st := m.SelectedStation(); st != nil {
			selectedUUID = st.UUID
		}
		m.applyCatalog(msg.Raw)
		m.Err = nil
		if selectedUUID != "" {
			m.selectStation(selectedUUID)
		}

	case StationRefreshTickMsg:
		return m, tea.Batch(m.RefreshStations, TickStationRefresh())

	case ErrorMsg:
		m.Err = msg.Err
		m.Loading = false

	case PlayerEventMsg:
		switch ev := msg.Event.(type) {
		case player.StateChangedEvent:
			m.Status = ev.Status
			if ev.Status == player.StatusStopped {
				m.PlayingUUID = ""
			} else if st := m.Player.Current(); st != nil {
				m.PlayingUUID = st.UUID
			}
			m.updateStaleInfo()
		case player.MetadataChangedEvent:
			m.NowPlaying = ev.Title
		}

	case platform.MPRISRaiseMsg:
		// The closest a terminal app can get to raising its window: put the
		// cursor on whatever is playing.
		if m.PlayingUUID != "" {
			m.selectStation(m.PlayingUUID)
		}
		return m, nil
	}

	// Update the list component and return its command
	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	return m, cmd
}

// applyCatalog runs raw catalog entries through the registry and rebuilds
// the list around the canonical instances.
func (m *Model) applyCatalog(raw []map[string]any) {
	sts := make([]*stations.Station, 0, len(raw))
	for _, entry := range raw {
		st := m.Registry.Make(entry)
		if st.UUID == "" {
			continue
		}
		st.Starred = m.State != nil && m.State.Contains(st)
		sts = append(sts, st)
	}

	items := m.sortItemsWithStarred(StationsToItems(sts))
	m.List.SetItems(items)
	m.updateStaleInfo()
}

// selectStation moves the cursor to the station with the given UUID.
func (m *Model) selectStation(uuid string) {
	for i, li := range m.List.Items() {
		if it, ok := li.(ui.Item); ok && it.Station.UUID == uuid {
			m.List.Select(i)
			break
		}
	}
}

// updateStaleInfo surfaces reconciliation results for the playing station.
func (m *Model) updateStaleInfo() {
	m.StaleInfo = ""
	if m.Player == nil {
		return
	}
	if st := m.Player.Current(); st != nil && !st.UpToDate() && st.ChangedInfo() != "" {
		m.StaleInfo = "station data changed since last fetch"
	}
}
