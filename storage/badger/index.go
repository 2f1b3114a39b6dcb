package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/jobmatch/ai"
	"github.com/poiesic/jobmatch/storage"
)

// documentsPerTxn bounds how many documents one write transaction holds.
const documentsPerTxn = 256

var (
	// ErrBackendRequired is returned when constructing a store without a backend.
	ErrBackendRequired = errors.New("badger backend is required")
	// ErrEmbedderRequired is returned when constructing an index without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")
)

// VectorIndex implements storage.VectorIndex with brute-force similarity
// search over documents stored in BadgerDB.
type VectorIndex struct {
	backend  *Backend
	embedder ai.Embedder
	logger   *slog.Logger
}

var _ storage.VectorIndex = (*VectorIndex)(nil)

func newVectorIndex(backend *Backend, embedder ai.Embedder) (*VectorIndex, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	return &VectorIndex{
		backend:  backend,
		embedder: embedder,
		logger:   slog.Default().With("component", "badger-index"),
	}, nil
}

// NewVectorIndex creates a vector index on the backend. Documents are
// embedded with embedder on insert and queries on search.
func NewVectorIndex(backend *Backend, embedder ai.Embedder) (storage.VectorIndex, error) {
	return newVectorIndex(backend, embedder)
}

// AddDocuments embeds and stores documents, replacing any with the same ID.
func (x *VectorIndex) AddDocuments(ctx context.Context, docs []storage.Document) error {
	if len(docs) == 0 {
		return nil
	}
	for _, d := range docs {
		if d.Content == "" {
			return fmt.Errorf("%w: document %d has no content", storage.ErrInvalidDocument, d.ID)
		}
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}
	vectors, err := x.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}

	for start := 0; start < len(docs); start += documentsPerTxn {
		end := min(start+documentsPerTxn, len(docs))
		err := x.backend.WithTx(func(tx *badger.Txn) error {
			for i := start; i < end; i++ {
				stored := &storage.StoredDocument{
					Document: docs[i],
					Vector:   normalize(vectors[i]),
				}
				if err := tx.Set(makeDocumentKey(docs[i].ID), storage.MarshalDocument(stored)); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return err
		}
	}

	x.logger.Debug("indexed documents", "count", len(docs))
	return nil
}

// Search embeds query and returns the k most similar documents that match filter.
func (x *VectorIndex) Search(ctx context.Context, query string, k int, filter storage.MetadataFilter) ([]storage.ScoredDocument, error) {
	vector, err := x.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}
	return x.backend.FindSimilar(ctx, normalize(vector), filter, k)
}

// Count returns the number of stored documents.
func (x *VectorIndex) Count(ctx context.Context) (int, error) {
	count := 0
	err := x.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(documentPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Close is a no-op; the backend is owned by the caller.
func (x *VectorIndex) Close() error {
	return nil
}
