package engine

import (
	"math"
	"testing"
	"time"

	"CryptoBuckets/internal/model"
)

var t0 = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

// neutralSnapshot returns a snapshot that fires no rule.
func neutralSnapshot() model.MetricsSnapshot {
	return model.MetricsSnapshot{
		BTCDominance:      62,
		AltSeasonIndex:    40,
		BTCFundingRate:    0.02,
		StablecoinDelta7d: 100_000_000,
		FundingSymbol:     "BTC",
		FetchedAt:         t0,
	}
}

func ruleIDs(fired []model.FiredTrigger) []string {
	ids := make([]string, len(fired))
	for i, f := range fired {
		ids[i] = f.RuleID
	}
	return ids
}

func TestEvaluate_AltSeasonScenario(t *testing.T) {
	snap := neutralSnapshot()
	snap.BTCDominance = 55
	snap.AltSeasonIndex = 80
	snap.BTCFundingRate = 0.05
	snap.StablecoinDelta7d = 0

	eng := New(0)
	state := CooldownState{}
	fired := eng.Evaluate(snap, state, t0)

	want := []string{"btc_to_alt_rotation", "full_alt_season"}
	got := ruleIDs(fired)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	for _, id := range want {
		if _, ok := state[id]; !ok {
			t.Errorf("cooldown not stamped for %s", id)
		}
	}
}

func TestEvaluate_NeutralScenario(t *testing.T) {
	snap := neutralSnapshot()
	snap.BTCDominance = 65
	snap.AltSeasonIndex = 30

	fired := New(0).Evaluate(snap, CooldownState{}, t0)
	if len(fired) != 0 {
		t.Fatalf("expected no fires, got %v", ruleIDs(fired))
	}
}

func TestEvaluate_CooldownCycle(t *testing.T) {
	snap := neutralSnapshot()
	snap.BTCFundingRate = 0.12

	eng := New(0)
	state := CooldownState{}

	if fired := eng.Evaluate(snap, state, t0); len(fired) != 1 || fired[0].RuleID != "crowded_leverage" {
		t.Fatalf("expected crowded_leverage at t=0, got %v", ruleIDs(fired))
	}
	if fired := eng.Evaluate(snap, state, t0.Add(6*time.Hour)); len(fired) != 0 {
		t.Fatalf("expected suppression at t=6h, got %v", ruleIDs(fired))
	}
	if got := state["crowded_leverage"]; !got.Equal(t0) {
		t.Errorf("suppressed pass must not touch state, got %v", got)
	}
	// Exactly at the cooldown boundary the rule fires again.
	if fired := eng.Evaluate(snap, state, t0.Add(12*time.Hour)); len(fired) != 1 {
		t.Fatalf("expected refire at exactly 12h, got %v", ruleIDs(fired))
	}
	if got := state["crowded_leverage"]; !got.Equal(t0.Add(12 * time.Hour)) {
		t.Errorf("refire must restamp cooldown, got %v", got)
	}
	if fired := eng.Evaluate(snap, state, t0.Add(25*time.Hour)); len(fired) != 1 {
		t.Fatalf("expected refire at 25h, got %v", ruleIDs(fired))
	}
}

func TestEvaluate_IndependentCooldowns(t *testing.T) {
	snap := neutralSnapshot()
	snap.BTCDominance = 55
	snap.AltSeasonIndex = 80

	eng := New(0)
	state := CooldownState{"btc_to_alt_rotation": t0.Add(-1 * time.Hour)}

	fired := eng.Evaluate(snap, state, t0)
	if len(fired) != 1 || fired[0].RuleID != "full_alt_season" {
		t.Fatalf("expected only full_alt_season, got %v", ruleIDs(fired))
	}
	if !state["btc_to_alt_rotation"].Equal(t0.Add(-1 * time.Hour)) {
		t.Error("suppressed rule's cooldown must be unchanged")
	}
}

func TestEvaluate_StablecoinThreshold(t *testing.T) {
	eng := New(0)

	snap := neutralSnapshot()
	snap.StablecoinDelta7d = 1_200_000_000
	if fired := eng.Evaluate(snap, CooldownState{}, t0); len(fired) != 1 || fired[0].RuleID != "stablecoin_issuance" {
		t.Fatalf("expected stablecoin_issuance for 1.2B, got %v", ruleIDs(fired))
	}

	snap.StablecoinDelta7d = 900_000_000
	if fired := eng.Evaluate(snap, CooldownState{}, t0); len(fired) != 0 {
		t.Fatalf("expected no fire for 0.9B, got %v", ruleIDs(fired))
	}
}

func TestEvaluate_MacroWindow(t *testing.T) {
	tests := []struct {
		offset time.Duration
		fires  bool
	}{
		{2 * time.Hour, true},
		{-2 * time.Hour, true},
		{12 * time.Hour, true},
		{13 * time.Hour, false},
		{-30 * time.Hour, false},
	}
	eng := New(0)
	for _, tt := range tests {
		snap := neutralSnapshot()
		snap.MacroEvents = []model.MacroEvent{{Name: "FOMC", Time: t0.Add(tt.offset), Importance: 3}}
		fired := eng.Evaluate(snap, CooldownState{}, t0)
		if tt.fires && (len(fired) != 1 || fired[0].RuleID != "macro_pause") {
			t.Errorf("offset %v: expected macro_pause, got %v", tt.offset, ruleIDs(fired))
		}
		if !tt.fires && len(fired) != 0 {
			t.Errorf("offset %v: expected no fire, got %v", tt.offset, ruleIDs(fired))
		}
		if tt.fires && len(fired) == 1 && fired[0].Message != "Macro in play: FOMC" {
			t.Errorf("offset %v: unexpected message %q", tt.offset, fired[0].Message)
		}
	}
}

func TestEvaluate_NegativeFundingMagnitude(t *testing.T) {
	snap := neutralSnapshot()
	snap.BTCFundingRate = -0.15

	fired := New(0).Evaluate(snap, CooldownState{}, t0)
	if len(fired) != 1 || fired[0].RuleID != "crowded_leverage" {
		t.Fatalf("expected crowded_leverage for crowded shorts, got %v", ruleIDs(fired))
	}
	if fired[0].Message != "Crowded leverage: BTC" {
		t.Errorf("unexpected message %q", fired[0].Message)
	}
}

func TestEvaluate_NaNFieldsNeverFire(t *testing.T) {
	nan := math.NaN()
	snap := model.MetricsSnapshot{
		BTCDominance:      nan,
		AltSeasonIndex:    nan,
		BTCFundingRate:    nan,
		StablecoinDelta7d: nan,
		FundingSymbol:     "BTC",
		FetchedAt:         t0,
	}

	fired := New(0).Evaluate(snap, CooldownState{}, t0)
	if len(fired) != 0 {
		t.Fatalf("NaN fields must not fire any rule, got %v", ruleIDs(fired))
	}
}

func TestEvaluate_CustomCooldown(t *testing.T) {
	snap := neutralSnapshot()
	snap.AltSeasonIndex = 80
	snap.BTCDominance = 65 // only full_alt_season matches

	eng := New(1 * time.Hour)
	state := CooldownState{}
	if fired := eng.Evaluate(snap, state, t0); len(fired) != 1 {
		t.Fatalf("expected initial fire, got %v", ruleIDs(fired))
	}
	if fired := eng.Evaluate(snap, state, t0.Add(30*time.Minute)); len(fired) != 0 {
		t.Fatal("expected suppression inside custom cooldown")
	}
	if fired := eng.Evaluate(snap, state, t0.Add(time.Hour)); len(fired) != 1 {
		t.Fatal("expected refire after custom cooldown")
	}
}

func TestCooldownStateClone(t *testing.T) {
	orig := CooldownState{"full_alt_season": t0}
	clone := orig.Clone()
	clone["full_alt_season"] = t0.Add(time.Hour)
	clone["btc_dominance_return"] = t0

	if !orig["full_alt_season"].Equal(t0) {
		t.Error("mutating the clone must not affect the original")
	}
	if _, ok := orig["btc_dominance_return"]; ok {
		t.Error("clone additions leaked into the original")
	}
}
