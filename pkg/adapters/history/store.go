// Package history keeps a ledger of fetch runs in a SQLite database inside
// the vault.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/aretw0/airfetch/pkg/core"
)

// Fixed width so that timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is a recorded report with its ledger identity.
type Run struct {
	ID string `json:"id"`
	core.RunReport
}

// Query narrows List.
type Query struct {
	Source string // Source ID or name; empty for all
	Limit  int    // 0 means 20
}

// Store implements core.RunRecorder.
type Store struct {
	db *sql.DB
}

// Open opens (and creates if needed) the ledger at dbPath.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; also keeps :memory: on a single connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  source_id TEXT NOT NULL,
  source_name TEXT NOT NULL,
  filter TEXT NOT NULL,
  started_at TEXT NOT NULL,
  finished_at TEXT NOT NULL,
  pages INTEGER NOT NULL,
  records INTEGER NOT NULL,
  created INTEGER NOT NULL,
  overwritten INTEGER NOT NULL,
  modified INTEGER NOT NULL,
  failed INTEGER NOT NULL,
  fetch_error TEXT
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs(started_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create runs table: %w", err)
	}
	return nil
}

// RecordRun implements core.RunRecorder.
func (s *Store) RecordRun(ctx context.Context, r core.RunReport) error {
	const stmt = `
INSERT INTO runs (id, source_id, source_name, filter, started_at, finished_at, pages, records, created, overwritten, modified, failed, fetch_error)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err := s.db.ExecContext(ctx, stmt,
		uuid.NewString(),
		r.SourceID,
		r.SourceName,
		r.Filter,
		r.StartedAt.UTC().Format(timeLayout),
		r.FinishedAt.UTC().Format(timeLayout),
		r.Pages,
		r.Records,
		r.Created,
		r.Overwritten,
		r.Modified,
		r.Failed,
		sql.NullString{String: r.FetchError, Valid: r.FetchError != ""},
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// List returns the most recent runs first.
func (s *Store) List(ctx context.Context, q Query) ([]Run, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}

	const stmt = `
SELECT id, source_id, source_name, filter, started_at, finished_at, pages, records, created, overwritten, modified, failed, fetch_error
FROM runs
WHERE ? = '' OR source_id = ? OR source_name = ?
ORDER BY started_at DESC
LIMIT ?;
`
	rows, err := s.db.QueryContext(ctx, stmt, q.Source, q.Source, q.Source, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run            Run
			started, ended string
			fetchErr       sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.SourceID, &run.SourceName, &run.Filter, &started, &ended,
			&run.Pages, &run.Records, &run.Created, &run.Overwritten, &run.Modified, &run.Failed, &fetchErr); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if run.FinishedAt, err = time.Parse(timeLayout, ended); err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		run.FetchError = fetchErr.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ core.RunRecorder = (*Store)(nil)
