package engine

import (
	"time"

	"CryptoBuckets/internal/model"
)

// DefaultCooldown is the minimum gap between successive fires of one rule.
const DefaultCooldown = 12 * time.Hour

// CooldownState maps rule id to its last fire time. Absent id means the
// rule has never fired. The caller owns the map; Evaluate mutates it in
// place so the fire decision and the timestamp update are a single step.
type CooldownState map[string]time.Time

// Clone returns an independent copy.
func (c CooldownState) Clone() CooldownState {
	out := make(CooldownState, len(c))
	for id, t := range c {
		out[id] = t
	}
	return out
}

// Engine evaluates the static rule set against metric snapshots.
type Engine struct {
	cooldown time.Duration
}

// New creates an Engine. A non-positive cooldown falls back to the default.
func New(cooldown time.Duration) *Engine {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Engine{cooldown: cooldown}
}

// Evaluate runs every rule against the snapshot in declaration order.
// A rule fires when its predicate holds and its cooldown is absent or
// expired (now - last >= cooldown); firing stamps state[id] = now.
// Suppressed or non-matching rules leave state untouched. NaN snapshot
// fields make predicates false; evaluation never fails a whole pass.
func (e *Engine) Evaluate(s model.MetricsSnapshot, state CooldownState, now time.Time) []model.FiredTrigger {
	var fired []model.FiredTrigger
	for _, r := range Rules {
		if !r.Match(s) {
			continue
		}
		if last, ok := state[r.ID]; ok && now.Sub(last) < e.cooldown {
			continue
		}
		state[r.ID] = now
		fired = append(fired, model.FiredTrigger{
			RuleID:  r.ID,
			Message: r.Message(s),
			Detail:  r.Detail(s),
		})
	}
	return fired
}
