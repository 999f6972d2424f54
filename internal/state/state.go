package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"tuner/internal/stations"
)

// State holds application state that persists between sessions.
type State struct {
	LastPlayedStationUUID string   `json:"last_played_station_uuid"`
	StarredStationUUIDs   []string `json:"starred_station_uuids,omitempty"`
}

// IsStarred returns true if the given station UUID is starred.
func (s *State) IsStarred(uuid string) bool {
	return slices.Contains(s.StarredStationUUIDs, uuid)
}

// Contains reports whether the station is in the favorites list.
func (s *State) Contains(st *stations.Station) bool {
	return st != nil && s.IsStarred(st.UUID)
}

// ToggleStarred adds or removes a station UUID from the favorites list and
// returns the new starred value.
func (s *State) ToggleStarred(uuid string) bool {
	for i, starred := range s.StarredStationUUIDs {
		if starred == uuid {
			s.StarredStationUUIDs = append(s.StarredStationUUIDs[:i], s.StarredStationUUIDs[i+1:]...)
			return false
		}
	}
	s.StarredStationUUIDs = append(s.StarredStationUUIDs, uuid)
	return true
}

const (
	stateFileName = "state.json"
	appDirName    = "tuner"
)

// getStateDir returns the directory for storing application state.
// On Linux: $XDG_STATE_HOME/tuner or ~/.local/state/tuner
// On macOS: ~/Library/Application Support/tuner
func getStateDir() (string, error) {
	var baseDir string

	if runtime.GOOS == "darwin" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")
	} else {
		if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
			baseDir = xdgState
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".local", "state")
		}
	}

	return filepath.Join(baseDir, appDirName), nil
}

// GetStateFilePath returns the absolute path to the state file.
func GetStateFilePath() (string, error) {
	stateDir, err := getStateDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}
	return filepath.Join(stateDir, stateFileName), nil
}

// LoadState reads the application state from the state file.
// If the file does not exist, it returns a default empty State.
func LoadState() (*State, error) {
	statePath, err := GetStateFilePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state data: %w", err)
	}

	return &state, nil
}

// SaveState writes the given application state to the state file.
func SaveState(state *State) error {
	statePath, err := GetStateFilePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state for saving: %w", err)
	}

	if err := os.WriteFile(statePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write state to file: %w", err)
	}

	return nil
}
