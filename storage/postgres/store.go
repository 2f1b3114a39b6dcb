// Package postgres implements storage.JobStore on PostgreSQL using a pgx
// connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/poiesic/jobmatch/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
  id BIGINT PRIMARY KEY,
  job_title TEXT NOT NULL,
  company_name TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  clean_location TEXT NOT NULL DEFAULT '',
  work_style TEXT NOT NULL DEFAULT '',
  work_type TEXT NOT NULL DEFAULT '',
  min_salary BIGINT NOT NULL DEFAULT 0,
  max_salary BIGINT NOT NULL DEFAULT 0,
  job_description TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS jobs_max_salary ON jobs (max_salary DESC);
`

// ErrURLRequired is returned when no connection string is configured.
var ErrURLRequired = errors.New("postgres url is required")

// JobStore implements storage.JobStore for PostgreSQL.
type JobStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ storage.JobStore = (*JobStore)(nil)

// NewJobStore connects to databaseURL and ensures the jobs table exists.
func NewJobStore(ctx context.Context, databaseURL string) (storage.JobStore, error) {
	if databaseURL == "" {
		return nil, ErrURLRequired
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate jobs table: %w", err)
	}

	logger := slog.Default().With("component", "postgres-jobs")
	logger.Info("postgres connected", "host", config.ConnConfig.Host)
	return &JobStore{pool: pool, logger: logger}, nil
}

// InsertJobs stores records in a single batch, ignoring existing IDs.
func (s *JobStore) InsertJobs(ctx context.Context, records []storage.JobRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	insert := storage.BuildInsert(storage.DollarDialect)
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(insert, r.InsertArgs()...)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for _, r := range records {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("insert job %d: %w", r.ID, err)
		}
		inserted += int(tag.RowsAffected())
	}
	s.logger.Debug("inserted jobs", "requested", len(records), "inserted", inserted)
	return inserted, nil
}

// Query runs q against the jobs table. Substring matches are case-insensitive.
func (s *JobStore) Query(ctx context.Context, q storage.JobQuery) ([]storage.JobRecord, error) {
	query, args, err := storage.BuildSelect(q, storage.DollarDialect)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("querying jobs", "sql", query, "args", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
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
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n)
	return n, err
}

// Close closes the pool.
func (s *JobStore) Close() error {
	s.pool.Close()
	return nil
}
