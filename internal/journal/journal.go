package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

var header = []string{"date", "asset", "change_pct", "reason", "emotion"}

const dateLayout = "2006-01-02 15:04:05"

// Entry is one row of the trading journal.
type Entry struct {
	Date      time.Time `json:"date"`
	Asset     string    `json:"asset"`
	ChangePct float64   `json:"change_pct"`
	Reason    string    `json:"reason"`
	Emotion   string    `json:"emotion"`
}

// Stats summarizes the journal for display.
type Stats struct {
	TotalEntries int     `json:"total_entries"`
	TotalChange  float64 `json:"total_change"`
	AvgChange    float64 `json:"avg_change"`
	LastEntry    *Entry  `json:"last_entry,omitempty"`
}

// Journal is an append-only CSV sink. Row order is append order; the most
// recent entry is last.
type Journal struct {
	mu   sync.Mutex
	path string
}

// New creates a Journal writing to the given CSV path.
func New(path string) *Journal {
	return &Journal{path: path}
}

// Append writes one entry, creating the file with a header row first if
// needed.
func (j *Journal) Append(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.ensureExists(); err != nil {
		return err
	}

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		e.Date.Format(dateLayout),
		e.Asset,
		strconv.FormatFloat(e.ChangePct, 'f', -1, 64),
		e.Reason,
		e.Emotion,
	}); err != nil {
		return fmt.Errorf("write journal row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush journal: %w", err)
	}
	return nil
}

// Read returns journal entries in append order. A positive limit returns
// only the most recent entries.
func (j *Journal) Read(limit int) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	rows := records[1:] // skip header
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		var e Entry
		if t, err := time.Parse(dateLayout, row[0]); err == nil {
			e.Date = t
		}
		e.Asset = row[1]
		if v, err := strconv.ParseFloat(row[2], 64); err == nil {
			e.ChangePct = v
		}
		e.Reason = row[3]
		e.Emotion = row[4]
		entries = append(entries, e)
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

// Stats computes summary statistics over the whole journal.
func (j *Journal) Stats() (Stats, error) {
	entries, err := j.Read(0)
	if err != nil {
		return Stats{}, err
	}
	if len(entries) == 0 {
		return Stats{}, nil
	}

	var total float64
	for _, e := range entries {
		total += e.ChangePct
	}
	last := entries[len(entries)-1]
	return Stats{
		TotalEntries: len(entries),
		TotalChange:  total,
		AvgChange:    total / float64(len(entries)),
		LastEntry:    &last,
	}, nil
}

func (j *Journal) ensureExists() error {
	if _, err := os.Stat(j.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write journal header: %w", err)
	}
	w.Flush()
	return w.Error()
}
