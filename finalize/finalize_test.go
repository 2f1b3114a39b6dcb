package finalize

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/jobmatch/ai/mock"
	"github.com/poiesic/jobmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replying(answer string, err error) *mock.MockChatModel {
	chat := mock.NewMockChatModel()
	chat.CompleteFunc = func(context.Context, []core.Message) (string, error) {
		return answer, err
	}
	return chat
}

func TestNewFinalizer(t *testing.T) {
	t.Run("nil chat model", func(t *testing.T) {
		_, err := NewFinalizer(nil)
		assert.Equal(t, ErrChatModelRequired, err)
	})

	t.Run("nil logger falls back to default", func(t *testing.T) {
		f, err := NewFinalizer(mock.NewMockChatModel(), WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, f.logger)
	})
}

func TestFinalize(t *testing.T) {
	ctx := context.Background()

	t.Run("non-empty result makes no call", func(t *testing.T) {
		chat := replying("unused", nil)
		f, err := NewFinalizer(chat)
		require.NoError(t, err)

		state := core.NewRequestState("only hybrid", "", []core.Job{{Title: "Data Analyst"}})
		state.Append(core.RoleUser, "only hybrid")

		require.NoError(t, f.Finalize(ctx, state, core.RouteRefine))
		assert.Equal(t, 0, chat.CallCount())
		assert.Len(t, state.Messages, 1)
	})

	t.Run("empty result gets a suggestion seeded with the trace", func(t *testing.T) {
		chat := replying("  No hybrid jobs in Medan. Try a nearby city!  ", nil)
		f, err := NewFinalizer(chat)
		require.NoError(t, err)

		state := core.NewRequestState("hybrid in Medan", "", nil)
		state.Append(core.RoleUser, "hybrid in Medan")
		state.Append(core.RoleAssistant, "structured")

		require.NoError(t, f.Finalize(ctx, state, core.RouteStructured))

		last, ok := state.LastMessage()
		require.True(t, ok)
		assert.Equal(t, core.RoleAssistant, last.Role)
		assert.Equal(t, "No hybrid jobs in Medan. Try a nearby city!", last.Content)

		calls := chat.Calls()
		require.Len(t, calls, 1)
		require.Len(t, calls[0], 3)
		assert.Equal(t, "hybrid in Medan", calls[0][0].Content)
		assert.Equal(t, core.RoleSystem, calls[0][2].Role)
	})

	t.Run("none route gets a suggestion even with jobs", func(t *testing.T) {
		chat := replying("Please describe the jobs you want.", nil)
		f, err := NewFinalizer(chat)
		require.NoError(t, err)

		state := core.NewRequestState("hi", "", []core.Job{{Title: "Barista"}})
		require.NoError(t, f.Finalize(ctx, state, core.RouteNone))
		assert.Equal(t, 1, chat.CallCount())
	})

	t.Run("blank answer uses the fallback", func(t *testing.T) {
		f, err := NewFinalizer(replying(" \n ", nil))
		require.NoError(t, err)

		state := core.NewRequestState("x", "", nil)
		require.NoError(t, f.Finalize(ctx, state, core.RouteNone))

		last, _ := state.LastMessage()
		assert.Equal(t, FallbackSuggestion, last.Content)
	})

	t.Run("model failure propagates", func(t *testing.T) {
		f, err := NewFinalizer(replying("", errors.New("503")))
		require.NoError(t, err)

		state := core.NewRequestState("x", "", nil)
		err = f.Finalize(ctx, state, core.RouteNone)
		assert.ErrorIs(t, err, core.ErrModelInvocation)
		assert.Empty(t, state.Messages)
	})
}
