package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/poiesic/jobmatch/core"
	"github.com/poiesic/jobmatch/storage"
)

// DefaultSemanticLimit is the number of hits a semantic search returns.
const DefaultSemanticLimit = 5

// Metadata keys written by the ingest pipeline and read back here.
const (
	MetaJobTitle    = "job_title"
	MetaCompanyName = "company_name"
	MetaWorkStyle   = "work_style"
	MetaWorkType    = "work_type"
	MetaLocation    = "location"
	MetaSalary      = "salary"
)

const descriptionLabel = "Job Description: "

// SemanticSearcher finds listings similar to a free-text query.
type SemanticSearcher struct {
	index  storage.VectorIndex
	limit  int
	logger *slog.Logger
}

// SemanticOption configures a SemanticSearcher.
type SemanticOption func(*SemanticSearcher) error

// WithSemanticLogger sets a custom logger.
// Default is slog.Default().
func WithSemanticLogger(logger *slog.Logger) SemanticOption {
	return func(s *SemanticSearcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithSemanticLimit overrides the number of hits returned.
func WithSemanticLimit(limit int) SemanticOption {
	return func(s *SemanticSearcher) error {
		if limit <= 0 {
			return ErrInvalidLimit
		}
		s.limit = limit
		return nil
	}
}

// NewSemanticSearcher creates a searcher over index.
func NewSemanticSearcher(index storage.VectorIndex, opts ...SemanticOption) (*SemanticSearcher, error) {
	if index == nil {
		return nil, ErrVectorIndexRequired
	}

	s := &SemanticSearcher{
		index:  index,
		limit:  DefaultSemanticLimit,
		logger: slog.Default().With("component", "semantic-searcher"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Query builds the similarity query for a request. The résumé summary comes
// first so results stay anchored to the candidate.
func Query(summary, instruction string) string {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return instruction
	}
	return summary + "\n" + instruction
}

// MetadataFilter converts f into the conjunction of metadata matches the
// vector index understands. Nil fields are skipped.
func MetadataFilter(f core.SemanticFilter) storage.MetadataFilter {
	var filter storage.MetadataFilter
	if f.WorkStyle != nil {
		filter = append(filter, storage.MetadataMatch{Key: MetaWorkStyle, Value: string(*f.WorkStyle)})
	}
	if f.WorkType != nil {
		filter = append(filter, storage.MetadataMatch{Key: MetaWorkType, Value: string(*f.WorkType)})
	}
	if f.Location != nil {
		filter = append(filter, storage.MetadataMatch{Key: MetaLocation, Value: *f.Location})
	}
	return filter
}

// Search returns up to the configured number of listings most similar to
// query that satisfy f.
func (s *SemanticSearcher) Search(ctx context.Context, query string, f core.SemanticFilter) ([]core.Job, error) {
	return s.SearchN(ctx, query, f, s.limit)
}

// SearchN is Search with an explicit hit count.
func (s *SemanticSearcher) SearchN(ctx context.Context, query string, f core.SemanticFilter, k int) ([]core.Job, error) {
	if k <= 0 {
		return nil, ErrInvalidLimit
	}

	hits, err := s.index.Search(ctx, query, k, MetadataFilter(f))
	if err != nil {
		s.logger.Error("similarity search failed", "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrRetrieval, err)
	}

	jobs := make([]core.Job, 0, len(hits))
	for _, hit := range hits {
		job, err := DocumentJob(hit.Document)
		if err != nil {
			s.logger.Warn("skipping undecodable listing", "id", hit.ID, "err", err)
			continue
		}
		jobs = append(jobs, job)
	}

	s.logger.Debug("semantic search complete", "hits", len(hits), "jobs", len(jobs))
	return jobs, nil
}

// DocumentJob decodes an indexed listing back into a Job. Metadata supplies
// the attributes and the content supplies the description, without its label.
func DocumentJob(doc storage.Document) (core.Job, error) {
	var job core.Job
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &job,
	})
	if err != nil {
		return core.Job{}, err
	}
	if err := decoder.Decode(doc.Metadata); err != nil {
		return core.Job{}, err
	}

	job.Description = doc.Content
	if _, after, found := strings.Cut(doc.Content, descriptionLabel); found {
		job.Description = strings.TrimSpace(after)
	}
	return job, nil
}
