package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/jobmatch/ai/mock"
	"github.com/poiesic/jobmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answering(answer string) *mock.MockChatModel {
	chat := mock.NewMockChatModel()
	chat.CompleteJSONFunc = func(context.Context, []core.Message) (string, error) {
		return answer, nil
	}
	return chat
}

func newExtractor(t *testing.T, chat *mock.MockChatModel) *Extractor {
	t.Helper()
	e, err := NewExtractor(chat)
	require.NoError(t, err)
	return e
}

func TestNewExtractor(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		e, err := NewExtractor(mock.NewMockChatModel())
		require.NoError(t, err)
		assert.NotNil(t, e.logger)
	})

	t.Run("nil logger falls back to default", func(t *testing.T) {
		e, err := NewExtractor(mock.NewMockChatModel(), WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, e.logger)
	})

	t.Run("nil chat model", func(t *testing.T) {
		_, err := NewExtractor(nil)
		assert.Equal(t, ErrChatModelRequired, err)
	})
}

func TestExtractor_Refine(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit fields", func(t *testing.T) {
		chat := answering(`{"work_style": "Hybrid", "work_type": null, "min_salary": 10000000, "location": "Jakarta"}`)
		f, err := newExtractor(t, chat).Refine(ctx, "only hybrid in Jakarta above 10 juta")
		require.NoError(t, err)

		assert.Equal(t, core.WorkStyleHybrid, *f.WorkStyle)
		assert.Nil(t, f.WorkType)
		assert.Equal(t, int64(10_000_000), *f.MinSalary)
		assert.Equal(t, "Jakarta", *f.Location)
		assert.Equal(t, 1, chat.CallCount())
	})

	t.Run("one JSON call with the instruction", func(t *testing.T) {
		chat := answering(`{}`)
		_, err := newExtractor(t, chat).Refine(ctx, "only remote")
		require.NoError(t, err)

		calls := chat.Calls()
		require.Len(t, calls, 1)
		require.Len(t, calls[0], 2)
		assert.Equal(t, core.RoleSystem, calls[0][0].Role)
		assert.Contains(t, calls[0][0].Content, `"Kontrak/Temporer"`)
		assert.Equal(t, core.Message{Role: core.RoleUser, Content: "only remote"}, calls[0][1])
	})

	t.Run("aliases and text salaries are normalized", func(t *testing.T) {
		chat := answering("```json\n{\"work_style\": \"remote\", \"work_type\": \"part time\", \"min_salary\": \"9,5 juta\"}\n```")
		f, err := newExtractor(t, chat).Refine(ctx, "remote part time from 9.5 million")
		require.NoError(t, err)

		assert.Equal(t, core.WorkStyleRemote, *f.WorkStyle)
		assert.Equal(t, core.WorkTypePartTime, *f.WorkType)
		assert.Equal(t, int64(9_500_000), *f.MinSalary)
	})

	t.Run("placeholders become nil", func(t *testing.T) {
		chat := answering(`{"work_style": "None", "location": "  ", "min_salary": 0}`)
		f, err := newExtractor(t, chat).Refine(ctx, "anything")
		require.NoError(t, err)
		assert.True(t, f.IsEmpty())
	})

	t.Run("invalid enum drops only that field", func(t *testing.T) {
		chat := answering(`{"work_style": "Sometimes", "location": "Bandung"}`)
		f, err := newExtractor(t, chat).Refine(ctx, "sometimes in Bandung")

		assert.ErrorIs(t, err, core.ErrExtraction)
		assert.ErrorIs(t, err, core.ErrInvalidWorkStyle)
		assert.Nil(t, f.WorkStyle)
		assert.Equal(t, "Bandung", *f.Location)
	})

	t.Run("model failure yields an empty filter", func(t *testing.T) {
		chat := mock.NewMockChatModel()
		chat.CompleteJSONFunc = func(context.Context, []core.Message) (string, error) {
			return "", errors.New("timeout")
		}
		f, err := newExtractor(t, chat).Refine(ctx, "only remote")

		assert.ErrorIs(t, err, core.ErrExtraction)
		assert.True(t, f.IsEmpty())
	})

	t.Run("unparseable answer yields an empty filter", func(t *testing.T) {
		f, err := newExtractor(t, answering("I cannot help with that")).Refine(ctx, "only remote")

		assert.ErrorIs(t, err, core.ErrExtraction)
		assert.True(t, f.IsEmpty())
	})
}

func TestExtractor_Semantic(t *testing.T) {
	chat := answering(`{"work_style": "On-site", "work_type": "Kontrak/Temporer", "location": "Tangerang"}`)
	f, err := newExtractor(t, chat).Semantic(context.Background(), "new contract jobs in Tangerang, on site")
	require.NoError(t, err)

	assert.Equal(t, core.WorkStyleOnSite, *f.WorkStyle)
	assert.Equal(t, core.WorkTypeContract, *f.WorkType)
	assert.Equal(t, "Tangerang", *f.Location)
}

func TestExtractor_Structured(t *testing.T) {
	ctx := context.Background()

	t.Run("all fields", func(t *testing.T) {
		chat := answering(`{"job_title": "data", "company_name": "PT Maju", "work_style": "Hybrid",
			"work_type": "Full time", "location": "Bandung", "salary": 12000000}`)
		f, err := newExtractor(t, chat).Structured(ctx, "data jobs at PT Maju in Bandung")
		require.NoError(t, err)

		assert.Equal(t, "data", *f.JobTitle)
		assert.Equal(t, "PT Maju", *f.CompanyName)
		assert.Equal(t, core.WorkStyleHybrid, *f.WorkStyle)
		assert.Equal(t, core.WorkTypeFullTime, *f.WorkType)
		assert.Equal(t, "Bandung", *f.Location)
		assert.Equal(t, int64(12_000_000), *f.Salary)
	})

	t.Run("mistyped fields are reported", func(t *testing.T) {
		chat := answering(`{"job_title": 42, "salary": true, "location": "Jakarta"}`)
		f, err := newExtractor(t, chat).Structured(ctx, "jobs in Jakarta")

		assert.ErrorIs(t, err, core.ErrExtraction)
		assert.Nil(t, f.JobTitle)
		assert.Nil(t, f.Salary)
		assert.Equal(t, "Jakarta", *f.Location)
	})

	t.Run("negative salary is ignored", func(t *testing.T) {
		f, err := newExtractor(t, answering(`{"salary": -5}`)).Structured(ctx, "anything")
		require.NoError(t, err)
		assert.Nil(t, f.Salary)
	})
}

func TestExtractor_Extract(t *testing.T) {
	e := newExtractor(t, answering(`{"location": "Jakarta"}`))
	ctx := context.Background()

	for _, route := range []core.Route{core.RouteRefine, core.RouteSemantic, core.RouteStructured} {
		t.Run(string(route), func(t *testing.T) {
			f, err := e.Extract(ctx, route, "jobs in Jakarta")
			require.NoError(t, err)
			assert.Equal(t, route, f.Route())
		})
	}

	t.Run("none has no schema", func(t *testing.T) {
		f, err := e.Extract(ctx, core.RouteNone, "hello")
		assert.ErrorIs(t, err, ErrUnsupportedRoute)
		assert.Nil(t, f)
	})
}

func TestPromptSystem(t *testing.T) {
	for name, p := range map[string]prompt{"refine": refinePrompt, "semantic": semanticPrompt, "structured": structuredPrompt} {
		t.Run(name, func(t *testing.T) {
			text := p.system()
			assert.Contains(t, text, `"On-site", "Hybrid", "Remote"`)
			assert.Contains(t, text, "Only populate a field if it is explicitly stated")
			assert.NotContains(t, text, "%!")
		})
	}
}
