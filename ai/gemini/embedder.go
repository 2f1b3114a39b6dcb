package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/jobmatch/ai"
	"github.com/poiesic/jobmatch/core"
	"google.golang.org/genai"
)

// Embedder implements ai.Embedder using Gemini embedding models.
type Embedder struct {
	models models
	model  string
	logger *slog.Logger
}

func newEmbedder(m models, config *ai.Config) *Embedder {
	return &Embedder{
		models: m,
		model:  config.EmbeddingModel,
		logger: slog.Default().With("component", "gemini-embedder"),
	}
}

// NewEmbedder creates a Gemini embedder.
func NewEmbedder(ctx context.Context, config *ai.Config) (ai.Embedder, error) {
	m, err := newModels(ctx, config)
	if err != nil {
		return nil, err
	}
	return newEmbedder(m, config), nil
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		e.logger.Warn("embedder returned empty result")
		return []float32{}, nil
	}
	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in one request.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = textContent(genai.RoleUser, text)
	}

	resp, err := e.models.EmbedContent(ctx, e.model, contents, nil)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, fmt.Errorf("%w: embed content: %w", core.ErrModelInvocation, err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", core.ErrModelInvocation, len(texts), len(resp.Embeddings))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb != nil {
			vectors[i] = emb.Values
		}
	}
	return vectors, nil
}
