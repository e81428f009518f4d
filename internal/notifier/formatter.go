package notifier

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"CryptoBuckets/internal/engine"
	"CryptoBuckets/internal/journal"
	"CryptoBuckets/internal/model"
)

// FormatTrigger renders a fired trigger as a Telegram Markdown message.
func FormatTrigger(t model.FiredTrigger) string {
	emoji := "📊"
	if rule, ok := engine.RuleByID(t.RuleID); ok {
		emoji = rule.Emoji
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s *%s*", emoji, t.Message))
	if t.Detail != "" {
		sb.WriteString("\n")
		sb.WriteString(t.Detail)
	}
	return sb.String()
}

// FormatAllocationUpdate renders an allocation change message with the
// previous split for context.
func FormatAllocationUpdate(prev *model.Allocation, next model.Allocation) string {
	var sb strings.Builder
	sb.WriteString("📊 *Allocation Update*\n")
	sb.WriteString(fmt.Sprintf("Phase: %s\n", next.Phase))
	sb.WriteString(fmt.Sprintf("BTC %.0f%% | Alts %.0f%% | Stables %.0f%%", next.BTC, next.Alts, next.Stables))
	if prev != nil {
		sb.WriteString(fmt.Sprintf("\nPrevious: BTC %.0f%% | Alts %.0f%% | Stables %.0f%%", prev.BTC, prev.Alts, prev.Stables))
	}
	return sb.String()
}

// FormatStatus renders the /status reply: the latest snapshot, the
// current allocation and any fired triggers from the last pass.
func FormatStatus(snap model.MetricsSnapshot, alloc model.Allocation, fired []model.FiredTrigger) string {
	var sb strings.Builder
	sb.WriteString("📊 *Market Status*\n\n")
	sb.WriteString(fmt.Sprintf("BTC Dominance: %.1f%%%s\n", snap.BTCDominance, sourceTag(snap, "btc_dominance")))
	sb.WriteString(fmt.Sprintf("Alt Market Cap: $%s%s\n", humanize.SIWithDigits(snap.AltMarketCap, 1, ""), sourceTag(snap, "btc_dominance")))
	sb.WriteString(fmt.Sprintf("Alt Season Index: %.0f%s\n", snap.AltSeasonIndex, sourceTag(snap, "alt_season_index")))
	sb.WriteString(fmt.Sprintf("BTC Funding: %.3f%%%s\n", snap.BTCFundingRate, sourceTag(snap, "btc_funding_rate")))
	sb.WriteString(fmt.Sprintf("BTC Open Interest: %s%s\n", humanize.SIWithDigits(snap.BTCOpenInterest, 1, ""), sourceTag(snap, "btc_funding_rate")))
	sb.WriteString(fmt.Sprintf("HYPE Funding: %.3f%%%s\n", snap.HypeFundingRate, sourceTag(snap, "hype_funding_rate")))
	sb.WriteString(fmt.Sprintf("Stablecoin Δ7d: $%s%s\n", humanize.SIWithDigits(snap.StablecoinDelta7d, 1, ""), sourceTag(snap, "stablecoin_delta_7d")))
	if len(snap.MacroEvents) > 0 {
		sb.WriteString("\n*Upcoming Macro:*\n")
		for _, ev := range snap.MacroEvents {
			sb.WriteString(fmt.Sprintf("• %s — %s\n", ev.Name, ev.Time.Format("2006-01-02 15:04")))
		}
	}
	sb.WriteString(fmt.Sprintf("\n*Allocation (%s)*\n", alloc.Phase))
	sb.WriteString(fmt.Sprintf("BTC %.0f%% | Alts %.0f%% | Stables %.0f%%\n", alloc.BTC, alloc.Alts, alloc.Stables))
	if len(fired) > 0 {
		sb.WriteString("\n*Active Triggers:*\n")
		for _, t := range fired {
			emoji := "📊"
			if rule, ok := engine.RuleByID(t.RuleID); ok {
				emoji = rule.Emoji
			}
			sb.WriteString(fmt.Sprintf("%s %s\n", emoji, t.Message))
		}
	}
	sb.WriteString(fmt.Sprintf("\nUpdated: %s", snap.FetchedAt.Format("2006-01-02 15:04:05")))
	return sb.String()
}

// FormatJournalStats renders the /journal reply.
func FormatJournalStats(stats journal.Stats, recent []journal.Entry) string {
	var sb strings.Builder
	sb.WriteString("📒 *Trading Journal*\n\n")
	sb.WriteString(fmt.Sprintf("Entries: %d\n", stats.TotalEntries))
	sb.WriteString(fmt.Sprintf("Total Change: %+.1f%%\n", stats.TotalChange))
	sb.WriteString(fmt.Sprintf("Avg Change: %+.2f%%\n", stats.AvgChange))
	if len(recent) > 0 {
		sb.WriteString("\n*Recent:*\n")
		for _, e := range recent {
			sb.WriteString(fmt.Sprintf("%s %s %s %+.1f%% — %s\n", e.Emotion, e.Date.Format("01-02 15:04"), e.Asset, e.ChangePct, e.Reason))
		}
	}
	return sb.String()
}

func sourceTag(snap model.MetricsSnapshot, field string) string {
	if snap.Sources[field] == model.SourceFallback {
		return " (fallback)"
	}
	return ""
}
