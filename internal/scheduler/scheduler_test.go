package scheduler

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"CryptoBuckets/internal/collector"
	"CryptoBuckets/internal/dispatcher"
	"CryptoBuckets/internal/engine"
	"CryptoBuckets/internal/journal"
	"CryptoBuckets/internal/recorder"
	"CryptoBuckets/internal/state"
)

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	f.sent = append(f.sent, text)
	return nil
}

func newTestScheduler(t *testing.T, mock *collector.MockFetcher) (*Scheduler, *fakeNotifier, *journal.Journal) {
	t.Helper()
	dir := t.TempDir()

	st, err := state.NewStore(filepath.Join(dir, "trigger_state.json"))
	if err != nil {
		t.Fatal(err)
	}
	j := journal.New(filepath.Join(dir, "journal.csv"))
	n := &fakeNotifier{}
	s := NewScheduler(
		context.Background(),
		collector.NewCollector(mock, "BTC"),
		engine.New(0),
		dispatcher.New(n, j),
		st,
		recorder.NewNoopRecorder(),
		j,
	)
	return s, n, j
}

func TestRunNow_AltSeasonPass(t *testing.T) {
	mock := &collector.MockFetcher{
		BTCDominance:    55.0,
		AltMarketCap:    900e9,
		AltSeasonIndex:  80,
		BTCFunding:      0.02,
		OpenInterest:    20e9,
		HypeFunding:     0.01,
		StablecoinDelta: 0.5e9,
	}
	s, n, j := newTestScheduler(t, mock)

	result := s.RunNow()
	if result == nil {
		t.Fatal("RunNow returned nil")
	}
	if result.PassID == "" {
		t.Error("pass id must be set")
	}
	if result.Allocation.Phase != "Alt season phase" {
		t.Errorf("phase = %q", result.Allocation.Phase)
	}

	// dom 55 & index 80: rotation and full alt season both fire.
	if len(result.Fired) != 2 {
		t.Fatalf("fired = %d, want 2", len(result.Fired))
	}
	if result.Fired[0].RuleID != "btc_to_alt_rotation" || result.Fired[1].RuleID != "full_alt_season" {
		t.Errorf("fired order = %v", result.Fired)
	}

	// 2 trigger alerts only; the first pass has no allocation baseline.
	if len(n.sent) != 2 {
		t.Errorf("notifications = %d: %v", len(n.sent), n.sent)
	}

	entries, err := j.Read(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("first pass must not journal, got %d rows", len(entries))
	}
}

func TestRunNow_AllocationChangeJournaled(t *testing.T) {
	mock := &collector.MockFetcher{
		BTCDominance:   65,
		AltSeasonIndex: 40,
	}
	s, n, j := newTestScheduler(t, mock)

	first := s.RunNow()
	if first.Allocation.Phase != "BTC dominant phase" {
		t.Fatalf("first phase = %q", first.Allocation.Phase)
	}
	if len(n.sent) != 0 {
		t.Fatalf("baseline pass must be silent, got %v", n.sent)
	}

	// Market flips to alt season on the next pass.
	mock.BTCDominance = 55
	mock.AltSeasonIndex = 55
	second := s.RunNow()
	if second.Allocation.Phase != "Alt season phase" {
		t.Fatalf("second phase = %q", second.Allocation.Phase)
	}
	if len(second.Fired) != 1 || second.Fired[0].RuleID != "btc_to_alt_rotation" {
		t.Fatalf("second pass fired = %v", second.Fired)
	}

	// 1 trigger alert + 1 allocation update.
	if len(n.sent) != 2 {
		t.Errorf("notifications = %d: %v", len(n.sent), n.sent)
	}

	entries, err := j.Read(0)
	if err != nil {
		t.Fatal(err)
	}
	// BTC 70→45 and ALTS 25→50; stables unchanged.
	if len(entries) != 2 {
		t.Fatalf("journal rows = %d", len(entries))
	}
	if entries[0].Asset != "BTC" || entries[0].ChangePct != -25 {
		t.Errorf("BTC row = %+v", entries[0])
	}
	if entries[1].Asset != "ALTS" || entries[1].ChangePct != 25 {
		t.Errorf("ALTS row = %+v", entries[1])
	}
	if entries[0].Reason != "BTC.D < 60% & alt momentum ↑" {
		t.Errorf("reason = %q", entries[0].Reason)
	}
}

func TestRunNow_SecondPassSuppressedByCooldown(t *testing.T) {
	mock := &collector.MockFetcher{
		BTCDominance:   55.0,
		AltMarketCap:   900e9,
		AltSeasonIndex: 80,
	}
	s, n, _ := newTestScheduler(t, mock)

	first := s.RunNow()
	if len(first.Fired) != 2 {
		t.Fatalf("first pass fired = %d", len(first.Fired))
	}
	sentAfterFirst := len(n.sent)

	second := s.RunNow()
	if len(second.Fired) != 0 {
		t.Errorf("second pass must be suppressed by cooldown, fired = %v", second.Fired)
	}
	// Same allocation, no triggers: nothing new sent.
	if len(n.sent) != sentAfterFirst {
		t.Errorf("second pass sent %d extra notifications", len(n.sent)-sentAfterFirst)
	}
}

func TestRunNow_CooldownSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "trigger_state.json")
	mock := &collector.MockFetcher{BTCDominance: 65, AltSeasonIndex: 80}

	build := func() *Scheduler {
		st, err := state.NewStore(statePath)
		if err != nil {
			t.Fatal(err)
		}
		j := journal.New(filepath.Join(dir, "journal.csv"))
		return NewScheduler(
			context.Background(),
			collector.NewCollector(mock, "BTC"),
			engine.New(0),
			dispatcher.New(&fakeNotifier{}, j),
			st,
			recorder.NewNoopRecorder(),
			j,
		)
	}

	first := build().RunNow()
	if len(first.Fired) != 1 || first.Fired[0].RuleID != "full_alt_season" {
		t.Fatalf("first pass fired = %v", first.Fired)
	}

	// New scheduler, same state file: cooldown must carry over.
	second := build().RunNow()
	if len(second.Fired) != 0 {
		t.Errorf("cooldown lost across restart, fired = %v", second.Fired)
	}
}

func TestHandleCommand(t *testing.T) {
	mock := &collector.MockFetcher{BTCDominance: 65, AltSeasonIndex: 40}
	s, _, _ := newTestScheduler(t, mock)

	if reply := s.HandleCommand("/status"); !strings.Contains(reply, "No data yet") {
		t.Errorf("/status before first pass = %q", reply)
	}

	if reply := s.HandleCommand("/refresh"); !strings.Contains(reply, "Market Status") {
		t.Errorf("/refresh = %q", reply)
	}

	if reply := s.HandleCommand("/status"); !strings.Contains(reply, "BTC Dominance: 65.0%") {
		t.Errorf("/status after refresh = %q", reply)
	}

	if reply := s.HandleCommand("/journal"); !strings.Contains(reply, "Trading Journal") {
		t.Errorf("/journal = %q", reply)
	}

	if reply := s.HandleCommand("/bogus"); !strings.Contains(reply, "Available commands") {
		t.Errorf("unknown command = %q", reply)
	}
}

func TestLatestIsNilBeforeFirstPass(t *testing.T) {
	s, _, _ := newTestScheduler(t, &collector.MockFetcher{})
	if s.Latest() != nil {
		t.Error("Latest must be nil before the first pass")
	}
}
