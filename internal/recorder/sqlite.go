package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the server writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS valuation_runs (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp        INTEGER NOT NULL,
			contract_name    TEXT,
			policy           TEXT,
			seed             INTEGER,
			num_paths        INTEGER,
			confidence_level REAL,
			mean_value       REAL,
			std_dev          REAL,
			value_at_risk    REAL,
			cvar             REAL,
			infeasible_paths INTEGER,
			penalized_paths  INTEGER,
			partial          INTEGER,
			elapsed_ms       INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON valuation_runs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(rec RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := rec.Result
	partial := 0
	if res.Partial {
		partial = 1
	}
	_, err := r.db.Exec(`INSERT INTO valuation_runs
		(timestamp, contract_name, policy, seed, num_paths, confidence_level,
		 mean_value, std_dev, value_at_risk, cvar,
		 infeasible_paths, penalized_paths, partial, elapsed_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.ContractName, res.Policy, res.Seed,
		res.NumPaths, res.ConfidenceLevel,
		res.MeanValue, res.StdDev, res.ValueAtRisk, res.ConditionalValueAtRisk,
		res.InfeasiblePaths, res.PenalizedPaths, partial, rec.ElapsedMS,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
