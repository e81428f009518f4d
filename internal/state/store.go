package state

import (
	"log"
	"sync"
	"time"

	"CryptoBuckets/internal/engine"
	"CryptoBuckets/internal/model"
)

// Store owns the trigger state file. The engine never touches the file;
// the orchestrator takes copies out, runs a pass, and commits the result.
type Store struct {
	mu       sync.Mutex
	state    *TriggerState
	filePath string
}

// NewStore creates a Store, loading or initializing state from disk.
func NewStore(filePath string) (*Store, error) {
	st, err := Load(filePath)
	if err != nil {
		return nil, err
	}
	return &Store{state: st, filePath: filePath}, nil
}

// Snapshot returns an independent copy of the cooldown map and the last
// allocation (nil when none has been published yet).
func (s *Store) Snapshot() (engine.CooldownState, *model.Allocation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cooldowns := engine.CooldownState(s.state.LastFired).Clone()
	var last *model.Allocation
	if s.state.LastAllocation != nil {
		a := *s.state.LastAllocation
		last = &a
	}
	return cooldowns, last
}

// Commit stores the post-pass cooldowns and allocation and saves to disk.
func (s *Store) Commit(cooldowns engine.CooldownState, alloc model.Allocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.LastFired = map[string]time.Time(cooldowns.Clone())
	s.state.LastAllocation = &alloc
	if err := Save(s.filePath, s.state); err != nil {
		log.Printf("[ERROR] failed to save trigger state: %v", err)
		return err
	}
	return nil
}
