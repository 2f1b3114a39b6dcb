// Package finalize turns an empty or intent-less search outcome into a short
// suggestion for the user.
package finalize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/jobmatch/ai"
	"github.com/poiesic/jobmatch/core"
)

// ErrChatModelRequired is returned when a chat model is not provided.
var ErrChatModelRequired = errors.New("chat model required")

// FallbackSuggestion is used when the model answers with blank text.
const FallbackSuggestion = "No jobs matched that request. Try loosening the location or salary criteria, or rephrase what you are looking for."

const suggestionPrompt = `No jobs were returned, meaning the user's instruction was too specific and matched nothing, or it had no recognizable search intent.
Judging from the previous messages, write a 1-2 sentence comment on what possibly went wrong and what the user should change.
Example: "It seems no jobs with those specifications are available in Bandung. Maybe lower your minimum salary criteria!"
Example: "That's not a valid request, please describe the jobs you are looking for."`

// Finalizer closes a request.
type Finalizer struct {
	chat   ai.ChatModel
	logger *slog.Logger
}

// Option configures a Finalizer.
type Option func(*Finalizer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Finalizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger
		return nil
	}
}

// NewFinalizer creates a finalizer backed by chat.
func NewFinalizer(chat ai.ChatModel, opts ...Option) (*Finalizer, error) {
	if chat == nil {
		return nil, ErrChatModelRequired
	}

	f := &Finalizer{
		chat:   chat,
		logger: slog.Default().With("component", "finalizer"),
	}

	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// NeedsSuggestion reports whether a request outcome calls for a suggestion.
func NeedsSuggestion(state *core.RequestState, route core.Route) bool {
	return len(state.Jobs) == 0 || route == core.RouteNone
}

// Finalize appends a suggestion to the trace when the request produced no
// jobs or had no intent. Otherwise it does nothing. A model failure is
// returned wrapped in core.ErrModelInvocation.
func (f *Finalizer) Finalize(ctx context.Context, state *core.RequestState, route core.Route) error {
	if !NeedsSuggestion(state, route) {
		return nil
	}

	messages := append(slices.Clone(state.Messages), core.Message{Role: core.RoleSystem, Content: suggestionPrompt})
	answer, err := f.chat.Complete(ctx, messages)
	if err != nil {
		f.logger.Error("suggestion call failed", "err", err)
		if errors.Is(err, core.ErrModelInvocation) {
			return err
		}
		return fmt.Errorf("%w: %w", core.ErrModelInvocation, err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		f.logger.Warn("blank suggestion, using fallback")
		answer = FallbackSuggestion
	}

	state.Append(core.RoleAssistant, answer)
	return nil
}
