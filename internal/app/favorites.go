package app

import (
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/bubbles/list"

	"tuner/internal/state"
	"tuner/internal/ui"
)

// IsStarred returns true if the item at the given index is starred.
func (m *Model) IsStarred(idx int) bool {
	if m.State == nil {
		return false
	}
	items := m.List.Items()
	if idx < 0 || idx >= len(items) {
		return false
	}
	if i, ok := items[idx].(ui.Item); ok {
		return m.State.Contains(i.Station)
	}
	return false
}

// ToggleStarred toggles the starred flag of the currently selected station
// and persists the change.
func (m *Model) ToggleStarred() {
	if m.State == nil {
		return
	}
	sel, ok := m.List.SelectedItem().(ui.Item)
	if !ok {
		return
	}
	selectedUUID := sel.Station.UUID
	sel.Station.Starred = m.State.ToggleStarred(selectedUUID)
	if err := state.SaveState(m.State); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving state: %v\n", err)
	}

	// Re-sort items with starred stations on top
	items := m.sortItemsWithStarred(m.List.Items())
	m.List.SetItems(items)

	// Restore cursor to the same station by UUID
	for i, li := range items {
		if it, ok := li.(ui.Item); ok && it.Station.UUID == selectedUUID {
			m.List.Select(i)
			break
		}
	}
}

// sortItemsWithStarred returns the items sorted starred-first, then by vote
// count. The sort is stable so equal entries keep their catalog order.
func (m *Model) sortItemsWithStarred(items []list.Item) []list.Item {
	sorted := make([]list.Item, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(a, b int) bool {
		ia, okA := sorted[a].(ui.Item)
		ib, okB := sorted[b].(ui.Item)
		if !okA || !okB {
			return false
		}
		starredA := m.State != nil && m.State.Contains(ia.Station)
		starredB := m.State != nil && m.State.Contains(ib.Station)
		if starredA != starredB {
			return starredA
		}
		return ia.Station.Votes > ib.Station.Votes
	})

	return sorted
}
