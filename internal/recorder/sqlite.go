package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists refresh pass history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tick_snapshots (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			pass_id             TEXT NOT NULL,
			timestamp           INTEGER NOT NULL,
			btc_dominance       REAL,
			alt_market_cap      REAL,
			alt_season_index    REAL,
			btc_funding_rate    REAL,
			btc_open_interest   REAL,
			hype_funding_rate   REAL,
			stablecoin_delta_7d REAL,
			alloc_btc           REAL,
			alloc_alts          REAL,
			alloc_stables       REAL,
			alloc_phase         TEXT,
			triggers_fired      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tick_ts ON tick_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS trigger_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			pass_id   TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			rule_id   TEXT NOT NULL,
			message   TEXT,
			detail    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trigger_ts ON trigger_events(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_trigger_rule ON trigger_events(rule_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTick(rec *TickRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	snap := rec.Snapshot
	alloc := rec.Allocation

	_, err := r.db.Exec(`INSERT INTO tick_snapshots
		(pass_id, timestamp, btc_dominance, alt_market_cap, alt_season_index,
		 btc_funding_rate, btc_open_interest, hype_funding_rate, stablecoin_delta_7d,
		 alloc_btc, alloc_alts, alloc_stables, alloc_phase, triggers_fired)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.PassID, now, snap.BTCDominance, snap.AltMarketCap, snap.AltSeasonIndex,
		snap.BTCFundingRate, snap.BTCOpenInterest, snap.HypeFundingRate, snap.StablecoinDelta7d,
		alloc.BTC, alloc.Alts, alloc.Stables, alloc.Phase, len(rec.Fired),
	)
	if err != nil {
		return fmt.Errorf("insert tick snapshot: %w", err)
	}

	for _, t := range rec.Fired {
		_, err := r.db.Exec(`INSERT INTO trigger_events
			(pass_id, timestamp, rule_id, message, detail)
			VALUES (?,?,?,?,?)`,
			rec.PassID, now, t.RuleID, t.Message, t.Detail,
		)
		if err != nil {
			return fmt.Errorf("insert trigger event: %w", err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
