package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/jobmatch/core"
	"github.com/poiesic/jobmatch/storage"
)

// DefaultStructuredLimit is the number of rows a structured search returns.
const DefaultStructuredLimit = 5

// StructuredSearcher runs attribute searches against the jobs table.
type StructuredSearcher struct {
	store  storage.JobStore
	limit  int
	logger *slog.Logger
}

// StructuredOption configures a StructuredSearcher.
type StructuredOption func(*StructuredSearcher) error

// WithStructuredLogger sets a custom logger.
// Default is slog.Default().
func WithStructuredLogger(logger *slog.Logger) StructuredOption {
	return func(s *StructuredSearcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithStructuredLimit overrides the number of rows returned.
func WithStructuredLimit(limit int) StructuredOption {
	return func(s *StructuredSearcher) error {
		if limit <= 0 {
			return ErrInvalidLimit
		}
		s.limit = limit
		return nil
	}
}

// NewStructuredSearcher creates a searcher over store.
func NewStructuredSearcher(store storage.JobStore, opts ...StructuredOption) (*StructuredSearcher, error) {
	if store == nil {
		return nil, ErrJobStoreRequired
	}

	s := &StructuredSearcher{
		store:  store,
		limit:  DefaultStructuredLimit,
		logger: slog.Default().With("component", "structured-searcher"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// BuildQuery translates f into a job query. Every non-nil text field becomes
// a substring predicate, the salary becomes a floor on the stored maximum,
// and results are ordered by maximum salary, highest first.
func BuildQuery(f core.StructuredFilter, limit int) storage.JobQuery {
	q := storage.JobQuery{
		OrderBy:    storage.ColumnMaxSalary,
		Descending: true,
		Limit:      limit,
	}

	contains := func(col storage.Column, v string) {
		q.Predicates = append(q.Predicates, storage.Predicate{Column: col, Op: storage.OpContains, Value: v})
	}
	if f.JobTitle != nil {
		contains(storage.ColumnTitle, *f.JobTitle)
	}
	if f.CompanyName != nil {
		contains(storage.ColumnCompany, *f.CompanyName)
	}
	if f.Location != nil {
		contains(storage.ColumnCleanLocation, *f.Location)
	}
	if f.WorkStyle != nil {
		contains(storage.ColumnWorkStyle, string(*f.WorkStyle))
	}
	if f.WorkType != nil {
		contains(storage.ColumnWorkType, string(*f.WorkType))
	}
	if f.Salary != nil {
		q.Predicates = append(q.Predicates, storage.Predicate{Column: storage.ColumnMaxSalary, Op: storage.OpAtLeast, Value: *f.Salary})
	}

	return q
}

// Search returns the best paid listings matching f.
func (s *StructuredSearcher) Search(ctx context.Context, f core.StructuredFilter) ([]core.Job, error) {
	records, err := s.store.Query(ctx, BuildQuery(f, s.limit))
	if err != nil {
		s.logger.Error("job query failed", "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrRetrieval, err)
	}

	jobs := make([]core.Job, len(records))
	for i, r := range records {
		jobs[i] = r.Job()
	}

	s.logger.Debug("structured search complete", "jobs", len(jobs))
	return jobs, nil
}
