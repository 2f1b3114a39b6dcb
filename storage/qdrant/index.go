// Package qdrant implements storage.VectorIndex on a Qdrant collection
// through the langchaingo vector store.
//
// The collection must already exist with a vector size matching the
// configured embedding model. Payload fields are written flat, with the
// listing text under the content key. Collections written by other tools
// that nest metadata under a "metadata" object are supported through
// WithMetadataPrefix.
package qdrant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/poiesic/jobmatch/ai"
	"github.com/poiesic/jobmatch/core"
	"github.com/poiesic/jobmatch/storage"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
	"github.com/tmc/langchaingo/vectorstores/qdrant"
)

const (
	defaultContentKey = "page_content"
	// docIDKey carries the listing ID through the payload.
	docIDKey = "doc_id"
)

var (
	// ErrURLRequired is returned when no Qdrant URL is configured.
	ErrURLRequired = errors.New("qdrant url is required")
	// ErrCollectionRequired is returned when no collection name is configured.
	ErrCollectionRequired = errors.New("qdrant collection is required")
	// ErrEmbedderRequired is returned when constructing an index without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")
)

// Option configures a VectorIndex.
type Option func(*VectorIndex) error

// WithAPIKey authenticates requests to a hosted Qdrant cluster.
func WithAPIKey(key string) Option {
	return func(x *VectorIndex) error {
		x.apiKey = key
		return nil
	}
}

// WithContentKey sets the payload key holding document text.
func WithContentKey(key string) Option {
	return func(x *VectorIndex) error {
		if key == "" {
			return errors.New("content key cannot be empty")
		}
		x.contentKey = key
		return nil
	}
}

// WithMetadataPrefix prefixes filter keys, e.g. "metadata." for collections
// that nest listing attributes.
func WithMetadataPrefix(prefix string) Option {
	return func(x *VectorIndex) error {
		x.metadataPrefix = prefix
		return nil
	}
}

// WithLogger sets a custom logger for the index.
func WithLogger(logger *slog.Logger) Option {
	return func(x *VectorIndex) error {
		x.logger = logger
		return nil
	}
}

// VectorIndex implements storage.VectorIndex with a langchaingo Qdrant store.
type VectorIndex struct {
	store          qdrant.Store
	apiKey         string
	contentKey     string
	metadataPrefix string
	logger         *slog.Logger
}

var _ storage.VectorIndex = (*VectorIndex)(nil)

// NewVectorIndex connects to the collection at rawURL.
func NewVectorIndex(rawURL, collection string, embedder ai.Embedder, opts ...Option) (storage.VectorIndex, error) {
	return newVectorIndex(rawURL, collection, embedder, opts...)
}

func newVectorIndex(rawURL, collection string, embedder ai.Embedder, opts ...Option) (*VectorIndex, error) {
	if rawURL == "" {
		return nil, ErrURLRequired
	}
	if collection == "" {
		return nil, ErrCollectionRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	x := &VectorIndex{
		contentKey: defaultContentKey,
		logger:     slog.Default().With("component", "qdrant-index"),
	}
	for _, opt := range opts {
		if err := opt(x); err != nil {
			return nil, err
		}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse qdrant url: %w", err)
	}

	storeOpts := []qdrant.Option{
		qdrant.WithURL(*u),
		qdrant.WithCollectionName(collection),
		qdrant.WithEmbedder(embedderAdapter{embedder}),
		qdrant.WithContentKey(x.contentKey),
	}
	if x.apiKey != "" {
		storeOpts = append(storeOpts, qdrant.WithAPIKey(x.apiKey))
	}
	store, err := qdrant.New(storeOpts...)
	if err != nil {
		return nil, fmt.Errorf("create qdrant store: %w", err)
	}
	x.store = store
	return x, nil
}

// AddDocuments embeds and upserts documents. Qdrant assigns point IDs, so
// re-adding a document creates a second point.
func (x *VectorIndex) AddDocuments(ctx context.Context, docs []storage.Document) error {
	if len(docs) == 0 {
		return nil
	}
	lcDocs := make([]schema.Document, len(docs))
	for i, d := range docs {
		if d.Content == "" {
			return fmt.Errorf("%w: document %d has no content", storage.ErrInvalidDocument, d.ID)
		}
		metadata := make(map[string]any, len(d.Metadata)+1)
		for k, v := range d.Metadata {
			metadata[k] = v
		}
		metadata[docIDKey] = strconv.FormatUint(uint64(d.ID), 10)
		lcDocs[i] = schema.Document{PageContent: d.Content, Metadata: metadata}
	}

	if _, err := x.store.AddDocuments(ctx, lcDocs); err != nil {
		x.logger.Error("failed to add documents", "count", len(docs), "err", err)
		return err
	}
	x.logger.Debug("indexed documents", "count", len(docs))
	return nil
}

// Search runs a similarity search constrained by a text-match filter.
func (x *VectorIndex) Search(ctx context.Context, query string, k int, filter storage.MetadataFilter) ([]storage.ScoredDocument, error) {
	var opts []vectorstores.Option
	if f := x.buildFilter(filter); f != nil {
		opts = append(opts, vectorstores.WithFilters(f))
	}

	found, err := x.store.SimilaritySearch(ctx, query, k, opts...)
	if err != nil {
		x.logger.Error("similarity search failed", "err", err)
		return nil, err
	}

	results := make([]storage.ScoredDocument, 0, len(found))
	for _, d := range found {
		results = append(results, storage.ScoredDocument{
			Document: x.toDocument(d),
			Score:    d.Score,
		})
	}
	return results, nil
}

// Close is a no-op; the store holds no persistent connection.
func (x *VectorIndex) Close() error {
	return nil
}

// buildFilter renders a Qdrant "must" filter of full-text matches.
func (x *VectorIndex) buildFilter(filter storage.MetadataFilter) map[string]any {
	if len(filter) == 0 {
		return nil
	}
	must := make([]map[string]any, 0, len(filter))
	for _, m := range filter {
		must = append(must, map[string]any{
			"key":   x.metadataPrefix + m.Key,
			"match": map[string]any{"text": m.Value},
		})
	}
	return map[string]any{"must": must}
}

// toDocument flattens the returned payload into string metadata. A nested
// "metadata" object takes precedence over top-level keys.
func (x *VectorIndex) toDocument(d schema.Document) storage.Document {
	metadata := make(map[string]string, len(d.Metadata))
	for k, v := range d.Metadata {
		if k == "metadata" || v == nil {
			continue
		}
		metadata[k] = fmt.Sprint(v)
	}
	if nested, ok := d.Metadata["metadata"].(map[string]any); ok {
		for k, v := range nested {
			if v != nil {
				metadata[k] = fmt.Sprint(v)
			}
		}
	}

	var id core.ID
	if raw, ok := metadata[docIDKey]; ok {
		if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
			id = core.ID(n)
		}
		delete(metadata, docIDKey)
	}
	if id == 0 {
		id = core.IDFromContent(d.PageContent)
	}

	return storage.Document{ID: id, Content: d.PageContent, Metadata: metadata}
}

// embedderAdapter exposes an ai.Embedder as a langchaingo embeddings.Embedder.
type embedderAdapter struct {
	embedder ai.Embedder
}

var _ embeddings.Embedder = embedderAdapter{}

func (a embedderAdapter) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return a.embedder.EmbedTexts(ctx, texts)
}

func (a embedderAdapter) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return a.embedder.EmbedText(ctx, text)
}
