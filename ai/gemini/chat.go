package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/jobmatch/ai"
	"github.com/poiesic/jobmatch/core"
	"google.golang.org/genai"
)

// ChatModel implements ai.ChatModel using Gemini content generation.
type ChatModel struct {
	models      models
	model       string
	temperature float32
	logger      *slog.Logger
}

func newChatModel(m models, config *ai.Config) *ChatModel {
	return &ChatModel{
		models:      m,
		model:       config.ChatModel,
		temperature: float32(config.Temperature),
		logger:      slog.Default().With("component", "gemini-chat"),
	}
}

// NewChatModel creates a Gemini chat model.
func NewChatModel(ctx context.Context, config *ai.Config) (ai.ChatModel, error) {
	m, err := newModels(ctx, config)
	if err != nil {
		return nil, err
	}
	return newChatModel(m, config), nil
}

// Complete runs a free-text completion at the configured temperature.
func (c *ChatModel) Complete(ctx context.Context, messages []core.Message) (string, error) {
	return c.generate(ctx, messages, c.temperature, "")
}

// CompleteJSON runs a deterministic completion with an application/json response type.
func (c *ChatModel) CompleteJSON(ctx context.Context, messages []core.Message) (string, error) {
	return c.generate(ctx, messages, 0, "application/json")
}

func (c *ChatModel) generate(ctx context.Context, messages []core.Message, temperature float32, mimeType string) (string, error) {
	system, contents := splitMessages(messages)
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(temperature),
		ResponseMIMEType: mimeType,
	}
	if system != "" {
		config.SystemInstruction = textContent(genai.RoleUser, system)
	}

	c.logger.Debug("generating completion", "model", c.model, "contents", len(contents))
	resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		c.logger.Error("failed to generate content", "err", err)
		return "", fmt.Errorf("%w: generate content: %w", core.ErrModelInvocation, err)
	}
	return responseText(resp), nil
}

// splitMessages folds system messages into a single system instruction and
// maps the remaining turns onto Gemini roles.
func splitMessages(messages []core.Message) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case core.RoleSystem:
			system = append(system, m.Content)
		case core.RoleAssistant:
			contents = append(contents, textContent(genai.RoleModel, m.Content))
		default:
			contents = append(contents, textContent(genai.RoleUser, m.Content))
		}
	}
	// Gemini rejects a request without user content.
	if len(contents) == 0 && len(system) > 0 {
		contents = append(contents, textContent(genai.RoleUser, system[len(system)-1]))
		system = system[:len(system)-1]
	}
	return strings.Join(system, "\n\n"), contents
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	return strings.TrimSpace(builder.String())
}
