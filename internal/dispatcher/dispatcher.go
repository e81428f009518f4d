package dispatcher

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"CryptoBuckets/internal/engine"
	"CryptoBuckets/internal/journal"
	"CryptoBuckets/internal/model"
	"CryptoBuckets/internal/notifier"
)

// maxSendRetries bounds delivery attempts per alert.
const maxSendRetries = 3

// Notifier delivers a single alert message, retrying transient failures.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Dispatcher fans out pass results: alert messages to the notifier and
// allocation changes to the trading journal. Notification failures are
// logged and never block journaling.
type Dispatcher struct {
	Notifier Notifier
	Journal  *journal.Journal

	mu             sync.Mutex
	lastJournalErr error
}

// New creates a Dispatcher.
func New(n Notifier, j *journal.Journal) *Dispatcher {
	return &Dispatcher{Notifier: n, Journal: j}
}

// Dispatch sends fired triggers, then publishes the allocation change (if
// any) and journals one row per changed bucket. The first pass after a
// fresh state file has no baseline: it establishes one silently, with no
// allocation message and no journal rows.
func (d *Dispatcher) Dispatch(ctx context.Context, now time.Time, fired []model.FiredTrigger, prev *model.Allocation, next model.Allocation) {
	for _, t := range fired {
		d.trySend(ctx, notifier.FormatTrigger(t))
	}

	if prev == nil || next.Equal(*prev) {
		return
	}

	d.trySend(ctx, notifier.FormatAllocationUpdate(prev, next))

	reason := journalReason(fired)
	emotion := journalEmotion(fired)
	var journalErr error
	for _, b := range bucketChanges(*prev, next) {
		err := d.Journal.Append(journal.Entry{
			Date:      now,
			Asset:     b.asset,
			ChangePct: b.delta,
			Reason:    reason,
			Emotion:   emotion,
		})
		if err != nil {
			log.Printf("[ERROR] journal append failed (%s): %v", b.asset, err)
			journalErr = err
		}
	}

	d.mu.Lock()
	d.lastJournalErr = journalErr
	d.mu.Unlock()
}

// LastJournalError returns the journal error from the most recent
// allocation change, nil when the last write succeeded.
func (d *Dispatcher) LastJournalError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastJournalErr
}

func (d *Dispatcher) trySend(ctx context.Context, text string) {
	if err := d.Notifier.SendWithRetry(ctx, text, maxSendRetries); err != nil {
		log.Printf("[WARN] alert delivery failed: %v", err)
	}
}

type bucketChange struct {
	asset string
	delta float64
}

// bucketChanges lists the buckets whose target percentage moved.
func bucketChanges(prev, next model.Allocation) []bucketChange {
	var out []bucketChange
	if next.BTC != prev.BTC {
		out = append(out, bucketChange{"BTC", next.BTC - prev.BTC})
	}
	if next.Alts != prev.Alts {
		out = append(out, bucketChange{"ALTS", next.Alts - prev.Alts})
	}
	if next.Stables != prev.Stables {
		out = append(out, bucketChange{"STABLES", next.Stables - prev.Stables})
	}
	return out
}

func journalReason(fired []model.FiredTrigger) string {
	if len(fired) == 0 {
		return "Auto allocation update"
	}
	msgs := make([]string, len(fired))
	for i, t := range fired {
		msgs[i] = t.Message
	}
	return strings.Join(msgs, "; ")
}

func journalEmotion(fired []model.FiredTrigger) string {
	if len(fired) == 0 {
		return "📊"
	}
	if rule, ok := engine.RuleByID(fired[0].RuleID); ok {
		return rule.Emotion
	}
	return "📊"
}
