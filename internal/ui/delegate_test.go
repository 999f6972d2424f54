package ui

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	"github.com/stretchr/testify/assert"
	"tuner/internal/stations"
)

func newTestList(sts []*stations.Station, playingUUID *string, starredChecker func(int) bool) (list.Model, StyledDelegate) {
	items := make([]list.Item, len(sts))
	for i, st := range sts {
		items[i] = Item{Station: st}
	}
	delegate := NewStyledDelegate(playingUUID, starredChecker)
	l := list.New(items, delegate, 80, 24)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false)
	return l, delegate
}

func testStations() []*stations.Station {
	return []*stations.Station{
		{UUID: "u1", Name: "Groove Salad", Tags: "ambient,chillout", Codec: "MP3", Bitrate: 128, Votes: 1000},
		{UUID: "u2", Name: "Drone Zone", Tags: "ambient,space", Codec: "AAC", Bitrate: 64, Votes: 500},
		{UUID: "u3", Name: "Secret Agent", Country: "Internet", Votes: 750},
	}
}

func TestDelegateRender_Normal(t *testing.T) {
	playingUUID := ""
	l, delegate := newTestList(testStations(), &playingUUID, func(int) bool { return false })

	var buf bytes.Buffer
	delegate.Render(&buf, l, 1, l.Items()[1]) // index 0 is selected by default

	output := buf.String()
	assert.Contains(t, output, "Drone Zone")
	assert.Contains(t, output, "500 ▲")
	assert.NotContains(t, output, "▶")
}

func TestDelegateRender_Playing(t *testing.T) {
	playingUUID := "u2"
	l, delegate := newTestList(testStations(), &playingUUID, func(int) bool { return false })

	var buf bytes.Buffer
	delegate.Render(&buf, l, 1, l.Items()[1])
	assert.Contains(t, buf.String(), "▶ Drone Zone")
}

func TestDelegateRender_Starred(t *testing.T) {
	playingUUID := ""
	l, delegate := newTestList(testStations(), &playingUUID, func(idx int) bool { return idx == 2 })

	var buf bytes.Buffer
	delegate.Render(&buf, l, 2, l.Items()[2])
	assert.Contains(t, buf.String(), "★ Secret Agent")
}

func TestDelegateRender_PlayingAndStarred(t *testing.T) {
	playingUUID := "u1"
	l, delegate := newTestList(testStations(), &playingUUID, func(int) bool { return true })

	var buf bytes.Buffer
	delegate.Render(&buf, l, 1, l.Items()[0])
	assert.Contains(t, buf.String(), "▶ ★ Groove Salad")
}

func TestDelegateRender_NonItemIsSkipped(t *testing.T) {
	playingUUID := ""
	l, delegate := newTestList(testStations(), &playingUUID, nil)

	var buf bytes.Buffer
	delegate.Render(&buf, l, 0, nil)
	assert.Empty(t, buf.String())
}

func TestItemDescription(t *testing.T) {
	sts := testStations()
	assert.Equal(t, "ambient,chillout · MP3 128k", Item{Station: sts[0]}.Description())
	assert.Equal(t, "Internet", Item{Station: sts[2]}.Description())
}

func TestCalculateColumnWidths(t *testing.T) {
	left, votes := CalculateColumnWidths(80)
	assert.Equal(t, 10, votes)
	assert.Equal(t, 66, left)

	left, _ = CalculateColumnWidths(10)
	assert.Equal(t, minLeftColumnWidth, left)
}
