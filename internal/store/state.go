package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nshetty/vidlens/internal/analysis"
)

// DefaultFileName mirrors the single browser-local storage key the session
// uses; one file, one session.
const DefaultFileName = "videoAnalysisState.json"

// State is the persisted mirror of the current session: enough to restore the
// same analysis view after a restart. Cleared whenever the user exits back to
// the landing screen.
type State struct {
	VideoID    string           `json:"videoId"`
	Result     *analysis.Result `json:"result,omitempty"`
	ActiveTab  string           `json:"activeTab,omitempty"`
	AnswerMode string           `json:"answerMode,omitempty"`
}

// Empty reports whether the state describes no session.
func (s State) Empty() bool {
	return s.VideoID == "" && s.Result == nil
}

// Load reads state from path. A missing file yields a zero State and nil
// error; a corrupt file returns an error so callers can log and start fresh.
func Load(path string) (State, error) {
	var s State
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("read state: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decode state: %w", err)
	}
	return s, nil
}

// Save writes state to path atomically.
func Save(path string, s State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}

// Clear removes the persisted state. Already-absent state is not an error.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear state: %w", err)
	}
	return nil
}
