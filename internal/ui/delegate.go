package ui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"tuner/internal/stations"
)

// Item implements the list.Item interface for displaying stations.
type Item struct {
	Station *stations.Station
}

// Title returns the station name for display in the list.
func (i Item) Title() string { return i.Station.Name }

// Description returns a one-line summary for display in the list.
func (i Item) Description() string {
	desc := i.Station.Tags
	if desc == "" {
		desc = i.Station.Country
	}
	if i.Station.Codec != "" {
		if desc != "" {
			desc += " · "
		}
		desc += i.Station.Codec
		if i.Station.Bitrate > 0 {
			desc += fmt.Sprintf(" %dk", i.Station.Bitrate)
		}
	}
	return desc
}

// FilterValue returns the station name for filtering purposes.
func (i Item) FilterValue() string { return i.Station.Name }

// Votes returns the vote count for the right-hand column.
func (i Item) Votes() string { return strconv.Itoa(i.Station.Votes) }

// StyledDelegate is a custom delegate for styling list items.
type StyledDelegate struct {
	list.DefaultDelegate
	PlayingUUID    *string
	StarredChecker func(int) bool // Function to check if index is starred
}

// NewStyledDelegate creates a styled delegate for the list.
func NewStyledDelegate(playingUUID *string, starredChecker func(int) bool) StyledDelegate {
	d := list.NewDefaultDelegate()

	// Normal item styles
	d.Styles.NormalTitle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Padding(0, 0, 0, 2)

	d.Styles.NormalDesc = lipgloss.NewStyle().
		Foreground(SubtleColor).
		Padding(0, 0, 0, 2)

	// Selected item styles
	d.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(PrimaryColor).
		Foreground(PrimaryColor).
		Bold(true).
		Padding(0, 0, 0, 1)

	d.Styles.SelectedDesc = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(PrimaryColor).
		Foreground(lipgloss.Color("#CCCCCC")).
		Padding(0, 0, 0, 1)

	return StyledDelegate{DefaultDelegate: d, PlayingUUID: playingUUID, StarredChecker: starredChecker}
}

// Render renders a list item with custom styling, including playing and
// starred indicators.
func (d StyledDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(Item)
	if !ok {
		return
	}

	isPlaying := d.PlayingUUID != nil && *d.PlayingUUID == i.Station.UUID
	isSelected := index == m.Index()
	isStarred := d.StarredChecker != nil && d.StarredChecker(index)

	// Build title with playing/starred indicator
	title := i.Title()
	if isStarred {
		title = "★ " + title
	}
	if isPlaying {
		title = "▶ " + title
	}

	leftColWidth, votesColWidth := CalculateColumnWidths(m.Width())

	votesStyle := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Width(votesColWidth).
		Align(lipgloss.Right)

	votesSelectedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#CCCCCC")).
		Width(votesColWidth).
		Align(lipgloss.Right)

	votesPlayingStyle := lipgloss.NewStyle().
		Foreground(PlayingColor).
		Width(votesColWidth).
		Align(lipgloss.Right)

	var titleStr, descStr, votesStr string
	votes := i.Votes() + " ▲"

	// Truncate description to prevent wrapping (content area loses 2 cells of padding)
	desc := ansi.Truncate(i.Description(), leftColWidth-2, "…")

	if isSelected {
		// Subtract 1 from width to account for left border character
		titleStr = d.Styles.SelectedTitle.Width(leftColWidth - 1).Render(title)
		descStr = d.Styles.SelectedDesc.Width(leftColWidth - 1).Render(desc)
		votesStr = votesSelectedStyle.Render(votes)
	} else if isPlaying {
		playingTitleStyle := lipgloss.NewStyle().
			Foreground(PlayingColor).
			Padding(0, 0, 0, 2).
			Width(leftColWidth)
		playingDescStyle := lipgloss.NewStyle().
			Foreground(SubtleColor).
			Padding(0, 0, 0, 2).
			Width(leftColWidth)
		titleStr = playingTitleStyle.Render(title)
		descStr = playingDescStyle.Render(desc)
		votesStr = votesPlayingStyle.Render(votes)
	} else {
		titleStr = d.Styles.NormalTitle.Width(leftColWidth).Render(title)
		descStr = d.Styles.NormalDesc.Width(leftColWidth).Render(desc)
		votesStr = votesStyle.Render(votes)
	}

	titleRow := lipgloss.JoinHorizontal(lipgloss.Top, titleStr, votesStr)
	_, _ = fmt.Fprintf(w, "%s\n%s", titleRow, descStr)
}

const (
	votesColumnWidth   = 10
	minLeftColumnWidth = 20
)

// CalculateColumnWidths returns the left and votes column widths for a given total width.
func CalculateColumnWidths(totalWidth int) (leftCol, votesCol int) {
	votesCol = votesColumnWidth
	leftCol = totalWidth - votesCol - 4
	if leftCol < minLeftColumnWidth {
		leftCol = minLeftColumnWidth
	}
	return
}
