// Package sqlite implements storage.JobStore on an embedded SQLite database
// using the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/jobmatch/storage"
	_ "modernc.org/sqlite"
)

// JobStore implements storage.JobStore for SQLite.
type JobStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ storage.JobStore = (*JobStore)(nil)

// NewJobStore opens (creating if needed) the database at path and migrates
// the jobs table.
func NewJobStore(ctx context.Context, path string) (storage.JobStore, error) {
	return newJobStore(ctx, path)
}

func newJobStore(ctx context.Context, path string) (*JobStore, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// sqlite wants a single writer
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate jobs table: %w", err)
	}

	return &JobStore{
		db:     db,
		logger: slog.Default().With("component", "sqlite-jobs"),
	}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS jobs (
  id INTEGER PRIMARY KEY,
  job_title TEXT NOT NULL,
  company_name TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  clean_location TEXT NOT NULL DEFAULT '',
  work_style TEXT NOT NULL DEFAULT '',
  work_type TEXT NOT NULL DEFAULT '',
  min_salary INTEGER NOT NULL DEFAULT 0,
  max_salary INTEGER NOT NULL DEFAULT 0,
  job_description TEXT NOT NULL DEFAULT ''
);
`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS jobs_max_salary ON jobs (max_salary DESC);`); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

// InsertJobs stores records in one transaction, ignoring existing IDs.
func (s *JobStore) InsertJobs(ctx context.Context, records []storage.JobRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, storage.BuildInsert(storage.QuestionDialect))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range records {
		res, err := stmt.ExecContext(ctx, r.InsertArgs()...)
		if err != nil {
			return 0, fmt.Errorf("insert job %d: %w", r.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	s.logger.Debug("inserted jobs", "requested", len(records), "inserted", inserted)
	return inserted, nil
}

// Query runs q against the jobs table.
func (s *JobStore) Query(ctx context.Context, q storage.JobQuery) ([]storage.JobRecord, error) {
	query, args, err := storage.BuildSelect(q, storage.QuestionDialect)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("querying jobs", "sql", query, "args", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []storage.JobRecord
	for rows.Next() {
		r, err := storage.ScanJobRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of stored jobs.
func (s *JobStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs;`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *JobStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
