package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	tuiStateFileName = "tui_state.json"
	maxRecentFiles   = 10
)

// TUIState remembers what the terminal host showed last.
//
// It lives next to the catalog database. Callers should tolerate
// missing or invalid data.
type TUIState struct {
	Version int `json:"version"`

	// LastIntent is the interaction example selected in the catalog browser.
	LastIntent string `json:"lastIntent,omitempty"`

	// RecentFiles holds document paths opened with `run`, newest first.
	RecentFiles []string `json:"recentFiles,omitempty"`
}

// TouchRecentFile moves path to the front of RecentFiles.
func (st *TUIState) TouchRecentFile(path string) {
	path = strings.TrimSpace(path)
	if path == "" || path == "-" {
		return
	}
	out := []string{path}
	for _, p := range st.RecentFiles {
		if p != path {
			out = append(out, p)
		}
	}
	if len(out) > maxRecentFiles {
		out = out[:maxRecentFiles]
	}
	st.RecentFiles = out
}

func (s Store) tuiStatePath() string {
	return filepath.Join(s.Dir, tuiStateFileName)
}

func (s Store) LoadTUIState() (*TUIState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &TUIState{Version: 1}, nil
	}
	b, err := os.ReadFile(s.tuiStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TUIState{Version: 1}, nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupt state is treated as missing.
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s Store) SaveTUIState(st *TUIState) error {
	if st == nil || strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return WriteFileAtomic(s.tuiStatePath(), b, 0o644)
}
