package recorder

import "CryptoBuckets/internal/model"

// TickRecord holds everything produced by one refresh pass.
type TickRecord struct {
	PassID     string
	Snapshot   model.MetricsSnapshot
	Allocation model.Allocation
	Fired      []model.FiredTrigger
}

// Recorder persists refresh pass history for analysis.
type Recorder interface {
	RecordTick(rec *TickRecord) error
	Close() error
}
