package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"tuner/internal/app"
	"tuner/internal/catalog"
	"tuner/internal/config"
	"tuner/internal/platform"
	"tuner/internal/player"
	"tuner/internal/state"
	"tuner/internal/stations"
	"tuner/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Alas, there's been an error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Catalog.Server != "" {
		catalog.ServerURL = cfg.Catalog.Server
	}

	applicationState, err := state.LoadState()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load state: %v\n", err)
		applicationState = &state.State{}
	}

	engine, err := player.NewAudioEngine(cfg.Player.UserAgent)
	if err != nil {
		fmt.Printf("Alas, there's been an error initializing the player: %v\n", err)
		os.Exit(1)
	}

	ctrl := player.NewController(engine, cfg.Player.UserAgent)

	m := &app.Model{
		Registry: stations.NewRegistry(cfg.Player.UserAgent),
		Player:   ctrl,
		State:    applicationState,
		Config:   cfg,
		Status:   player.StatusStopped,
		Loading:  true,
	}

	delegate := ui.NewStyledDelegate(&m.PlayingUUID, m.IsStarred)
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	m.List = l

	ctrl.SetStationPicker(m.PickRandomStation(rand.Intn))

	p := tea.NewProgram(m)

	// Bridge playback events into the update loop
	ctrl.Subscribe(func(ev player.Event) {
		p.Send(app.PlayerEventMsg{Event: ev})
	})

	// Desktop media controls are best effort
	mpris, err := platform.Initialize(ctrl, p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: MPRIS unavailable: %v\n", err)
	}
	if mpris != nil {
		defer mpris.Close()
	}

	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v\n", err)
		os.Exit(1)
	}
}
