package router

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/poiesic/jobmatch/ai/mock"
	"github.com/poiesic/jobmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordClassifier(t *testing.T) {
	tests := []struct {
		instruction string
		want        core.Route
	}{
		{"I only want Hybrid jobs.", core.RouteRefine},
		{"I like these jobs, but I only want the ones with a provided salary.", core.RouteRefine},
		{"remote please", core.RouteRefine},
		{"Find new jobs that match my CV but are only in Jakarta.", core.RouteSemantic},
		{"None of these jobs fit me. Find new jobs.", core.RouteSemantic},
		{"Search for new data analysis jobs in Bandung.", core.RouteStructured},
		{"cari lowongan baru di Surabaya", core.RouteStructured},
		{"Find me new jobs fit for a computer science student in Jakarta with a listed salary", core.RouteStructured},
		{"Find me new jobs fit for a computer science student in Jakarta that have a listed salary.", core.RouteStructured},
		{"Show me the ones in Bandung", core.RouteRefine},
		{"Find the ones that are remote", core.RouteRefine},
		{"Find new jobs using my CV summary that are in Tangerang.", core.RouteSemantic},
		{"Look for other jobs that suit me", core.RouteSemantic},
		{"What's the weather like?", core.RouteNone},
		{"", core.RouteNone},
	}

	var c KeywordClassifier
	for _, tt := range tests {
		t.Run(tt.instruction, func(t *testing.T) {
			got, err := c.Classify(context.Background(), tt.instruction)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeywordClassifier_AlwaysValid(t *testing.T) {
	const alphabet = "abcdefghijklmnopqrstuvwxyz ABCDEFGHIJ-,.!?0123456789éü"
	runes := []rune(alphabet)
	rng := rand.New(rand.NewPCG(1, 2))

	var c KeywordClassifier
	for range 500 {
		n := rng.IntN(60)
		text := make([]rune, n)
		for i := range text {
			text[i] = runes[rng.IntN(len(runes))]
		}
		route, err := c.Classify(context.Background(), string(text))
		require.NoError(t, err)
		assert.True(t, route.Valid(), "route %q for %q", route, string(text))
	}
}

func TestClassifierFunc(t *testing.T) {
	c := ClassifierFunc(func(context.Context, string) (core.Route, error) {
		return core.RouteSemantic, nil
	})
	got, err := c.Classify(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, core.RouteSemantic, got)
}

func TestLLMClassifier(t *testing.T) {
	ctx := context.Background()

	t.Run("nil chat model", func(t *testing.T) {
		_, err := NewLLMClassifier(nil, nil)
		assert.Equal(t, ErrChatModelRequired, err)
	})

	tests := []struct {
		name    string
		answer  string
		want    core.Route
		wantErr error
	}{
		{name: "canonical object", answer: `{"route": "structured"}`, want: core.RouteStructured},
		{name: "legacy label", answer: `{"route": "python_filter"}`, want: core.RouteRefine},
		{name: "fenced legacy label", answer: "```json\n{\"route\": \"RAG_search\"}\n```", want: core.RouteSemantic},
		{name: "bare label", answer: `SQL_search`, want: core.RouteStructured},
		{name: "null intent", answer: `{"route": "Null intent"}`, want: core.RouteNone},
		{name: "unknown label", answer: `{"route": "weather"}`, want: core.RouteNone, wantErr: core.ErrRoutingAmbiguous},
		{name: "garbage", answer: `I think you want jobs`, want: core.RouteNone, wantErr: core.ErrRoutingAmbiguous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := mock.NewMockChatModel()
			chat.CompleteJSONFunc = func(context.Context, []core.Message) (string, error) {
				return tt.answer, nil
			}
			c, err := NewLLMClassifier(chat, nil)
			require.NoError(t, err)

			got, err := c.Classify(ctx, "some instruction")
			assert.Equal(t, tt.want, got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			calls := chat.Calls()
			require.Len(t, calls, 1)
			assert.Contains(t, calls[0][0].Content, "Tip: unless the user asks for new jobs")
			assert.Equal(t, "some instruction", calls[0][1].Content)
		})
	}

	t.Run("model failure", func(t *testing.T) {
		chat := mock.NewMockChatModel()
		chat.CompleteJSONFunc = func(context.Context, []core.Message) (string, error) {
			return "", errors.New("connection reset")
		}
		c, err := NewLLMClassifier(chat, nil)
		require.NoError(t, err)

		got, err := c.Classify(ctx, "only remote")
		assert.Equal(t, core.RouteNone, got)
		assert.ErrorIs(t, err, core.ErrModelInvocation)
	})
}
