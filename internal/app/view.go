package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"tuner/internal/player"
	"tuner/internal/ui"
)

// View renders the application.
func (m *Model) View() string {
	if m.Loading {
		return ui.LoadingStyle.Render("Loading stations…")
	}
	// A full-screen alert only makes sense when there is no catalog to show;
	// errors after that point surface in the status bar instead.
	if m.Err != nil && len(m.List.Items()) == 0 {
		return ui.ErrorBoxStyle.Render(fmt.Sprintf("Could not load stations:\n%v\n\nPress q to quit.", m.Err))
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.List.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

// renderHeader renders the list header with column titles.
func (m *Model) renderHeader() string {
	leftColWidth, votesColWidth := ui.CalculateColumnWidths(m.List.Width())

	title := ui.TitleStyle.Width(leftColWidth).Render("Tuner — internet radio")
	votesHeader := lipgloss.NewStyle().
		Foreground(ui.SubtleColor).
		Width(votesColWidth).
		Align(lipgloss.Right).
		Render("Votes")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, title, votesHeader)
}

// renderStatusBar renders the styled status bar.
func (m *Model) renderStatusBar() string {
	icon, stateText, stateStyle := statusIndicator(m.Status)

	parts := []string{stateStyle.Render(icon + " " + stateText)}

	// Add station name if something is tuned
	if m.Player != nil {
		if st := m.Player.Current(); st != nil {
			stationStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
			parts = append(parts, stationStyle.Render(st.Name))
		}
	}

	// Add track info with music note
	if m.NowPlaying != "" {
		track := ansi.Truncate(m.NowPlaying, maxTrackWidth(m.Width), "…")
		parts = append(parts, ui.TrackInfoStyle.Render("♪ "+track))
	}

	if m.StaleInfo != "" {
		parts = append(parts, ui.StaleInfoStyle.Render("⟳ "+m.StaleInfo))
	}

	if m.Err != nil {
		parts = append(parts, ui.ErrorTextStyle.Render("✗ "+m.Err.Error()))
	}

	status := ui.StatusBarStyle.Render(strings.Join(parts, "  "))
	help := lipgloss.NewStyle().Foreground(ui.SubtleColor).MarginLeft(1).
		Render("enter play · p pause · s stop · r shuffle · f star · v vote · q quit")

	return status + "\n" + help
}

func statusIndicator(s player.Status) (icon, text string, style lipgloss.Style) {
	switch s {
	case player.StatusPlaying:
		return "▶", "Playing", ui.StatusPlayingStyle
	case player.StatusBuffering:
		return "◌", "Buffering", ui.StatusPlayingStyle
	case player.StatusPaused:
		return "⏸", "Paused", ui.StatusPausedStyle
	default:
		return "■", "Stopped", ui.StatusStoppedStyle
	}
}

func maxTrackWidth(total int) int {
	w := total - 40
	if w < 16 {
		w = 16
	}
	return w
}
