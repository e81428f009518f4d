package engine

import (
	"fmt"
	"math"
	"time"

	"CryptoBuckets/internal/model"
)

// macroWindow is how close a macro event must be to the snapshot time for
// macro_pause to fire.
const macroWindow = 12 * time.Hour

// Rule is a static threshold trigger. The emotion tag is a fixed cosmetic
// value written to the journal, never computed.
type Rule struct {
	ID      string
	Emoji   string
	Emotion string
	Match   func(s model.MetricsSnapshot) bool
	Message func(s model.MetricsSnapshot) string
	Detail  func(s model.MetricsSnapshot) string
}

// Rules holds the six static triggers in evaluation order. The order is the
// declaration order; rules are independent but the output must be stable.
var Rules = []Rule{
	{
		ID:      "btc_to_alt_rotation",
		Emoji:   "🔄",
		Emotion: "😐",
		Match: func(s model.MetricsSnapshot) bool {
			return s.BTCDominance < 60 && s.AltSeasonIndex > 50
		},
		Message: func(s model.MetricsSnapshot) string {
			return "BTC.D < 60% & alt momentum ↑"
		},
		Detail: func(s model.MetricsSnapshot) string {
			return fmt.Sprintf("BTC Dom: %.1f%% | Alt Index: %.1f", s.BTCDominance, s.AltSeasonIndex)
		},
	},
	{
		ID:      "full_alt_season",
		Emoji:   "🚀",
		Emotion: "🚀",
		Match: func(s model.MetricsSnapshot) bool {
			return s.AltSeasonIndex >= 75
		},
		Message: func(s model.MetricsSnapshot) string {
			return "Full alt-season (≥ 75)"
		},
		Detail: func(s model.MetricsSnapshot) string {
			return fmt.Sprintf("Alt Index: %.1f", s.AltSeasonIndex)
		},
	},
	{
		ID:      "btc_dominance_return",
		Emoji:   "📉",
		Emotion: "📉",
		Match: func(s model.MetricsSnapshot) bool {
			return s.AltSeasonIndex <= 25
		},
		Message: func(s model.MetricsSnapshot) string {
			return "Back to BTC dominance"
		},
		Detail: func(s model.MetricsSnapshot) string {
			return fmt.Sprintf("Alt Index: %.1f", s.AltSeasonIndex)
		},
	},
	{
		ID:      "crowded_leverage",
		Emoji:   "⚠️",
		Emotion: "⚠️",
		Match: func(s model.MetricsSnapshot) bool {
			return math.Abs(s.BTCFundingRate) >= 0.10
		},
		Message: func(s model.MetricsSnapshot) string {
			return fmt.Sprintf("Crowded leverage: %s", s.FundingSymbol)
		},
		Detail: func(s model.MetricsSnapshot) string {
			return fmt.Sprintf("Funding: %.3f%%/8h", s.BTCFundingRate)
		},
	},
	{
		ID:      "stablecoin_issuance",
		Emoji:   "💰",
		Emotion: "💰",
		Match: func(s model.MetricsSnapshot) bool {
			return s.StablecoinDelta7d >= 1_000_000_000
		},
		Message: func(s model.MetricsSnapshot) string {
			return "New stablecoin issuance"
		},
		Detail: func(s model.MetricsSnapshot) string {
			return fmt.Sprintf("7d Change: $%.1fB", s.StablecoinDelta7d/1e9)
		},
	},
	{
		ID:      "macro_pause",
		Emoji:   "📅",
		Emotion: "📅",
		Match: func(s model.MetricsSnapshot) bool {
			return nearestMacroEvent(s) != nil
		},
		Message: func(s model.MetricsSnapshot) string {
			ev := nearestMacroEvent(s)
			if ev == nil {
				return "Macro in play"
			}
			return fmt.Sprintf("Macro in play: %s", ev.Name)
		},
		Detail: func(s model.MetricsSnapshot) string {
			ev := nearestMacroEvent(s)
			if ev == nil {
				return ""
			}
			return fmt.Sprintf("Date: %s", ev.Time.Format("2006-01-02"))
		},
	},
}

// nearestMacroEvent returns the first event within the ±12h window around
// the snapshot time, or nil when none is close.
func nearestMacroEvent(s model.MetricsSnapshot) *model.MacroEvent {
	for i := range s.MacroEvents {
		ev := s.MacroEvents[i]
		diff := ev.Time.Sub(s.FetchedAt)
		if diff < 0 {
			diff = -diff
		}
		if diff <= macroWindow {
			return &s.MacroEvents[i]
		}
	}
	return nil
}

// RuleByID looks up a rule definition.
func RuleByID(id string) (Rule, bool) {
	for _, r := range Rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}
