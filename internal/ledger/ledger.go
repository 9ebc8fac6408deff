// Package ledger keeps a history of pipeline stage runs in SQLite.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS stage_runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL,
	stage       TEXT NOT NULL,
	input       TEXT NOT NULL,
	output      TEXT NOT NULL,
	positions   INTEGER NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS stage_runs_run_id ON stage_runs(run_id);
`

type Entry struct {
	RunID      string
	Stage      string
	Input      string
	Output     string
	Positions  int
	StartedAt  time.Time
	FinishedAt time.Time
}

type Store struct {
	db *sql.DB
}

func NewRunID() string {
	return uuid.New().String()
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// every connection to ":memory:" is a separate database
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stage_runs (run_id, stage, input, output, positions, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Stage, e.Input, e.Output, e.Positions,
		e.StartedAt.UTC().Format(time.RFC3339Nano),
		e.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert stage run: %w", err)
	}
	return nil
}

// List returns the entries of a run in insertion order. An empty run id
// lists every run.
func (s *Store) List(ctx context.Context, runID string) ([]Entry, error) {
	var query = `SELECT run_id, stage, input, output, positions, started_at, finished_at
		FROM stage_runs`
	var args []any
	if runID != "" {
		query += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stage runs: %w", err)
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		var e Entry
		var startedAt, finishedAt string
		if err := rows.Scan(&e.RunID, &e.Stage, &e.Input, &e.Output, &e.Positions, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan stage run: %w", err)
		}
		if e.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if e.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
