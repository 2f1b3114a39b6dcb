package gemini

import (
	"context"
	"log/slog"

	"github.com/poiesic/jobmatch/ai"
)

// Provider implements ai.AIProvider on a single shared genai client.
type Provider struct {
	embedder *Embedder
	chat     *ChatModel
	logger   *slog.Logger
}

// NewProvider creates a Gemini-backed AI provider.
// The config must select the gemini provider and carry an API key.
func NewProvider(ctx context.Context, config *ai.Config) (ai.AIProvider, error) {
	m, err := newModels(ctx, config)
	if err != nil {
		return nil, err
	}
	return &Provider{
		embedder: newEmbedder(m, config),
		chat:     newChatModel(m, config),
		logger:   slog.Default().With("component", "gemini-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// ChatModel returns the chat completion service.
func (p *Provider) ChatModel() ai.ChatModel {
	return p.chat
}

// Close is a no-op; the genai client holds no long-lived connections.
func (p *Provider) Close() error {
	p.logger.Debug("closing Gemini provider")
	return nil
}
