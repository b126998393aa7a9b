package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/crimson-sun/roletag/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS predictions (
	run_id                TEXT NOT NULL,
	created_at            TEXT NOT NULL,
	profile_id            TEXT NOT NULL,
	position              TEXT,
	organization          TEXT,
	text                  TEXT,
	department            TEXT NOT NULL,
	department_confidence REAL NOT NULL,
	department_source     TEXT NOT NULL,
	seniority             TEXT NOT NULL,
	seniority_confidence  REAL NOT NULL,
	seniority_source      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_predictions_run ON predictions(run_id);
`

const insert = `
INSERT INTO predictions (
	run_id, created_at, profile_id, position, organization, text,
	department, department_confidence, department_source,
	seniority, seniority_confidence, seniority_source
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Output stores rows in a SQLite predictions table. All rows of one Output
// share a run ID and are committed together on Close.
type Output struct {
	mu      sync.Mutex
	db      *sql.DB
	tx      *sql.Tx
	stmt    *sql.Stmt
	runID   string
	started string
}

// New opens (or creates) the database at path and begins a run.
func New(path string) (*Output, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite output: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite output: schema: %w", err)
	}
	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite output: begin: %w", err)
	}
	stmt, err := tx.Prepare(insert)
	if err != nil {
		tx.Rollback()
		db.Close()
		return nil, fmt.Errorf("sqlite output: prepare: %w", err)
	}

	return &Output{
		db:      db,
		tx:      tx,
		stmt:    stmt,
		runID:   uuid.NewString(),
		started: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// RunID identifies the rows written by this Output.
func (o *Output) RunID() string {
	return o.runID
}

func (o *Output) Write(ctx context.Context, row model.Labeled) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stmt == nil {
		return fmt.Errorf("sqlite output: closed")
	}
	_, err := o.stmt.ExecContext(ctx,
		o.runID, o.started, row.ProfileID, row.Position, row.Organization, row.Text,
		row.Department.Label, row.Department.Confidence, string(row.Department.Source),
		row.Seniority.Label, row.Seniority.Confidence, string(row.Seniority.Source),
	)
	if err != nil {
		return fmt.Errorf("sqlite output: insert %s: %w", row.ProfileID, err)
	}
	return nil
}

// Close commits the run and closes the database.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stmt == nil {
		return nil
	}
	o.stmt.Close()
	o.stmt = nil
	if err := o.tx.Commit(); err != nil {
		o.db.Close()
		return fmt.Errorf("sqlite output: commit: %w", err)
	}
	return o.db.Close()
}
