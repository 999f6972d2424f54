package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tuner/internal/stations"
)

func setStateDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	return dir
}

func TestToggleStarred(t *testing.T) {
	s := &State{}

	assert.True(t, s.ToggleStarred("u1"))
	assert.True(t, s.IsStarred("u1"))

	assert.True(t, s.ToggleStarred("u2"))
	assert.False(t, s.ToggleStarred("u1"))
	assert.False(t, s.IsStarred("u1"))
	assert.True(t, s.IsStarred("u2"))
}

func TestContains(t *testing.T) {
	s := &State{StarredStationUUIDs: []string{"u1"}}

	assert.True(t, s.Contains(&stations.Station{UUID: "u1"}))
	assert.False(t, s.Contains(&stations.Station{UUID: "u2"}))
	assert.False(t, s.Contains(nil))
}

func TestSaveAndLoadState(t *testing.T) {
	setStateDir(t)

	s := &State{
		LastPlayedStationUUID: "u1",
		StarredStationUUIDs:   []string{"u1", "u3"},
	}
	require.NoError(t, SaveState(s))

	loaded, err := LoadState()
	require.NoError(t, err)
	assert.Equal(t, "u1", loaded.LastPlayedStationUUID)
	assert.Equal(t, []string{"u1", "u3"}, loaded.StarredStationUUIDs)
}

func TestLoadState_NoFileReturnsDefault(t *testing.T) {
	setStateDir(t)

	loaded, err := LoadState()
	require.NoError(t, err)
	assert.Empty(t, loaded.LastPlayedStationUUID)
	assert.Empty(t, loaded.StarredStationUUIDs)
}

func TestLoadState_CorruptFile(t *testing.T) {
	dir := setStateDir(t)

	stateDir := filepath.Join(dir, appDirName)
	require.NoError(t, os.MkdirAll(stateDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(stateDir, stateFileName), []byte("not json"), 0644))

	_, err := LoadState()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}
