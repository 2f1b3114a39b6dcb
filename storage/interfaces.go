package storage

import (
	"context"
	"strings"

	"github.com/poiesic/jobmatch/core"
)

// Document is a listing prepared for the vector index: free-text content plus
// a flat metadata bag keyed like the Job JSON fields.
type Document struct {
	ID       core.ID
	Content  string
	Metadata map[string]string
}

// ScoredDocument is a search hit. Higher scores are more similar.
type ScoredDocument struct {
	Document
	Score float32
}

// MetadataMatch requires the metadata value under Key to contain Value.
// Matching is case-sensitive.
type MetadataMatch struct {
	Key   string
	Value string
}

// MetadataFilter is a conjunction of matches. An empty filter matches everything.
type MetadataFilter []MetadataMatch

// Matches reports whether metadata satisfies every match in the filter.
func (f MetadataFilter) Matches(metadata map[string]string) bool {
	for _, m := range f {
		v, ok := metadata[m.Key]
		if !ok || !strings.Contains(v, m.Value) {
			return false
		}
	}
	return true
}

// VectorIndex is a similarity-search capability over listing documents.
// Implementations must be thread-safe and support concurrent access.
type VectorIndex interface {
	// AddDocuments embeds and stores documents. Re-adding a document with the
	// same ID replaces it where the backend supports stable IDs.
	AddDocuments(ctx context.Context, docs []Document) error

	// Search returns up to k documents most similar to query that satisfy
	// filter, ordered by descending score.
	Search(ctx context.Context, query string, k int, filter MetadataFilter) ([]ScoredDocument, error)

	// Close releases resources held by the index.
	Close() error
}

// JobStore is a relational query capability over the jobs table.
// Implementations must be thread-safe and support concurrent access.
type JobStore interface {
	// InsertJobs stores records, skipping any whose ID already exists.
	// Returns the number of rows actually inserted.
	InsertJobs(ctx context.Context, records []JobRecord) (int, error)

	// Query runs a predicate search. See BuildSelect for the rendering rules.
	Query(ctx context.Context, q JobQuery) ([]JobRecord, error)

	// Count returns the number of stored jobs.
	Count(ctx context.Context) (int, error)

	// Close releases the underlying connection pool.
	Close() error
}

// SessionStore persists sessions between requests.
type SessionStore interface {
	// LoadSession returns the session with the given ID or ErrNotFound.
	LoadSession(ctx context.Context, id string) (*core.Session, error)

	// SaveSession creates or replaces a session and stamps UpdatedAt.
	SaveSession(ctx context.Context, session *core.Session) error

	// DeleteSession removes a session. Returns ErrNotFound if it doesn't exist.
	DeleteSession(ctx context.Context, id string) error
}

// CheckpointStore persists ingest progress per source.
type CheckpointStore interface {
	// SaveCheckpoint persists a checkpoint for a source.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint for a source.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, source string) (*core.Checkpoint, error)
}
