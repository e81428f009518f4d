package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"CryptoBuckets/internal/collector"
	"CryptoBuckets/internal/dispatcher"
	"CryptoBuckets/internal/engine"
	"CryptoBuckets/internal/journal"
	"CryptoBuckets/internal/model"
	"CryptoBuckets/internal/notifier"
	"CryptoBuckets/internal/recorder"
	"CryptoBuckets/internal/state"
)

// TickResult is the outcome of one refresh pass, cached for the web UI and
// Telegram commands.
type TickResult struct {
	PassID      string                `json:"pass_id"`
	Snapshot    model.MetricsSnapshot `json:"snapshot"`
	Allocation  model.Allocation      `json:"allocation"`
	Fired       []model.FiredTrigger  `json:"fired"`
	CompletedAt time.Time             `json:"completed_at"`
}

// Scheduler drives the refresh cycle: collect metrics, evaluate triggers,
// dispatch alerts, persist state and history.
type Scheduler struct {
	Cron       *cron.Cron
	Collector  *collector.Collector
	Engine     *engine.Engine
	Dispatcher *dispatcher.Dispatcher
	State      *state.Store
	Recorder   recorder.Recorder
	Journal    *journal.Journal
	Ctx        context.Context

	tickMu sync.Mutex // one pass at a time

	mu     sync.Mutex
	latest *TickResult
}

// NewScheduler creates a Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, eng *engine.Engine, d *dispatcher.Dispatcher, st *state.Store, rec recorder.Recorder, j *journal.Journal) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Collector:  col,
		Engine:     eng,
		Dispatcher: d,
		State:      st,
		Recorder:   rec,
		Journal:    j,
		Ctx:        ctx,
	}
}

// Register adds the refresh task under the given cron expression.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.runTick); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes a refresh pass immediately (manual refresh / RUN_ON_START).
func (s *Scheduler) RunNow() *TickResult {
	s.runTick()
	return s.Latest()
}

// Latest returns the most recent pass result, nil before the first pass.
func (s *Scheduler) Latest() *TickResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

func (s *Scheduler) runTick() {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	passID := uuid.NewString()
	log.Printf("[INFO] refresh pass %s starting", passID)

	snap := s.Collector.Collect(s.Ctx)
	cooldowns, prevAlloc := s.State.Snapshot()

	alloc := engine.Allocate(snap.BTCDominance, snap.AltSeasonIndex)
	now := time.Now()
	fired := s.Engine.Evaluate(snap, cooldowns, now)

	s.Dispatcher.Dispatch(s.Ctx, now, fired, prevAlloc, alloc)

	if err := s.State.Commit(cooldowns, alloc); err != nil {
		log.Printf("[ERROR] commit trigger state: %v", err)
	}

	if err := s.Recorder.RecordTick(&recorder.TickRecord{
		PassID:     passID,
		Snapshot:   snap,
		Allocation: alloc,
		Fired:      fired,
	}); err != nil {
		log.Printf("[ERROR] record tick: %v", err)
	}

	result := &TickResult{
		PassID:      passID,
		Snapshot:    snap,
		Allocation:  alloc,
		Fired:       fired,
		CompletedAt: now,
	}
	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()

	log.Printf("[INFO] refresh pass %s done: phase=%q triggers=%d", passID, alloc.Phase, len(fired))
}

// HandleCommand processes a Telegram command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/status":
		latest := s.Latest()
		if latest == nil {
			return "No data yet, try /refresh first."
		}
		return notifier.FormatStatus(latest.Snapshot, latest.Allocation, latest.Fired)
	case "/journal":
		stats, err := s.Journal.Stats()
		if err != nil {
			return fmt.Sprintf("Journal unavailable: %v", err)
		}
		recent, err := s.Journal.Read(5)
		if err != nil {
			return fmt.Sprintf("Journal unavailable: %v", err)
		}
		return notifier.FormatJournalStats(stats, recent)
	case "/refresh":
		latest := s.RunNow()
		if latest == nil {
			return "Refresh failed."
		}
		return notifier.FormatStatus(latest.Snapshot, latest.Allocation, latest.Fired)
	default:
		return "Available commands:\n• /status\n• /journal\n• /refresh"
	}
}
