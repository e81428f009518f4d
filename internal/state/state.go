package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"CryptoBuckets/internal/model"
)

// TriggerState is the persisted trigger bookkeeping: per-rule last-fire
// times and the last published allocation. Survives restarts so a 12h
// cooldown is not reset by a redeploy.
type TriggerState struct {
	LastFired      map[string]time.Time `json:"last_fired"`
	LastAllocation *model.Allocation    `json:"last_allocation,omitempty"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// Load reads the trigger state from a JSON file. Returns a zero state if
// the file doesn't exist.
func Load(filePath string) (*TriggerState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &TriggerState{LastFired: make(map[string]time.Time)}, nil
		}
		return nil, err
	}
	var st TriggerState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	if st.LastFired == nil {
		st.LastFired = make(map[string]time.Time)
	}
	return &st, nil
}

// Save writes the trigger state to a JSON file, creating parent
// directories as needed.
func Save(filePath string, st *TriggerState) error {
	st.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, data, 0644)
}
