package jobmatch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/jobmatch/ai/mock"
	"github.com/poiesic/jobmatch/config"
	"github.com/poiesic/jobmatch/core"
	"github.com/poiesic/jobmatch/ingest"
	"github.com/poiesic/jobmatch/pipeline"
	"github.com/poiesic/jobmatch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// script holds the answers the fake chat model gives, keyed by prompt.
type script struct {
	route  string
	filter string
}

func scriptedChat(s *script) *mock.MockChatModel {
	chat := mock.NewMockChatModel()
	chat.CompleteJSONFunc = func(_ context.Context, messages []core.Message) (string, error) {
		system := messages[0].Content
		switch {
		case strings.HasPrefix(system, "Select the appropriate route"):
			return `{"route": "` + s.route + `"}`, nil
		case strings.HasPrefix(system, "You are a CV analyzer"):
			return `{"name": "Ayu Lestari", "summary": "Backend engineer | Preferred Location: Jakarta"}`, nil
		case strings.HasPrefix(system, "You are a personality assessment"):
			return `{"code": "intj-a", "narrative": "You plan before you build."}`, nil
		}
		return s.filter, nil
	}
	chat.CompleteFunc = func(_ context.Context, messages []core.Message) (string, error) {
		if strings.HasPrefix(messages[0].Content, "You are a career consultant") {
			return "Learn Flutter testing before applying.", nil
		}
		return "Try searching a nearby city.", nil
	}
	return chat
}

func listings() []ingest.Listing {
	return []ingest.Listing{
		{JobTitle: "Backend Engineer", CompanyName: "PT Awan", Location: "Jakarta Selatan\n(Hibrid)", WorkType: "Full time", Salary: "Rp 15.000.000 – Rp 20.000.000", JobDescription: "Go services"},
		{JobTitle: "Data Analyst", CompanyName: "PT Data", Location: "Jakarta Barat", WorkType: "Full time", Salary: "Rp 9.000.000 – Rp 12.000.000", JobDescription: "SQL reports"},
		{JobTitle: "Support Agent", CompanyName: "PT Layan", Location: "Jakarta Utara\n(Hibrid)", WorkType: "Paruh waktu", Salary: "Tidak Ditampilkan", JobDescription: "Answer tickets"},
		{JobTitle: "Mobile Developer", CompanyName: "PT Aplikasi", Location: "Bandung\n(Jarak jauh)", WorkType: "Kontrak/Temporer", Salary: "Rp 10.000.000", JobDescription: "Flutter apps"},
	}
}

func newTestEngine(t *testing.T, s *script, configure ...func(*config.Config)) *Engine {
	t.Helper()
	ctx := context.Background()

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.DataDir = t.TempDir()
	for _, fn := range configure {
		fn(cfg)
	}

	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), scriptedChat(s))
	e, err := NewEngine(ctx, cfg, WithProvider(provider))
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })

	p, err := e.NewIngestPipeline()
	require.NoError(t, err)
	defer p.Release()

	stats, err := p.Run(ctx, "fixture.jsonl", listings(), false)
	require.NoError(t, err)
	require.Equal(t, 4, stats.Inserted)
	return e
}

func TestNewEngine_Guards(t *testing.T) {
	_, err := NewEngine(context.Background(), nil)
	assert.ErrorIs(t, err, ErrConfigRequired)

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Jobs.Driver = "mysql"
	_, err = NewEngine(context.Background(), cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestEngine_SearchAdoptsResults(t *testing.T) {
	ctx := context.Background()
	s := &script{route: "structured", filter: `{"location": "Jakarta"}`}
	e := newTestEngine(t, s)

	session, err := e.NewSession(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)

	result, err := e.Search(ctx, session.ID, "jobs in Jakarta", true)
	require.NoError(t, err)
	assert.Equal(t, core.RouteStructured, result.Route)
	require.Len(t, result.BestJobs, 3)
	assert.Equal(t, "Backend Engineer", result.BestJobs[0].Title)

	stored, err := e.Session(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Jobs, 3)

	s.route, s.filter = "refine", `{"work_style": "Hybrid"}`
	result, err = e.Search(ctx, session.ID, "only hybrid ones", false)
	require.NoError(t, err)
	assert.Equal(t, core.RouteRefine, result.Route)
	require.Len(t, result.BestJobs, 2)
	for _, j := range result.BestJobs {
		assert.Equal(t, core.WorkStyleHybrid, j.WorkStyle)
	}

	stored, err = e.Session(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Jobs, 3, "results are not adopted without adopt")
}

func TestEngine_SearchWithMonitor(t *testing.T) {
	e := newTestEngine(t, &script{route: "none"})

	result, err := e.SearchWithMonitor(context.Background(), "", "hello there", true, &pipeline.LogMonitor{})
	require.NoError(t, err)
	assert.Equal(t, core.RouteNone, result.Route)
	assert.Empty(t, result.BestJobs)
}

func TestEngine_SearchUnknownSession(t *testing.T) {
	e := newTestEngine(t, &script{route: "none"})

	_, err := e.Search(context.Background(), "missing", "anything", false)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEngine_SaveJob(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, &script{route: "structured", filter: `{"location": "Jakarta"}`})

	session, err := e.NewSession(ctx)
	require.NoError(t, err)
	_, err = e.Search(ctx, session.ID, "jobs in Jakarta", true)
	require.NoError(t, err)

	saved, err := e.SaveJob(ctx, session.ID, 0)
	require.NoError(t, err)
	require.Len(t, saved.Saved, 1)

	saved, err = e.SaveJob(ctx, session.ID, 0)
	require.NoError(t, err)
	assert.Len(t, saved.Saved, 1, "saving twice keeps one entry")

	_, err = e.SaveJob(ctx, session.ID, 3)
	assert.ErrorIs(t, err, ErrJobIndexOutOfRange)
	_, err = e.SaveJob(ctx, session.ID, -1)
	assert.ErrorIs(t, err, ErrJobIndexOutOfRange)
}

func TestEngine_AnalyzeResume(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, &script{route: "none"})

	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Ayu Lestari\nBackend engineer with five years of Go experience in Jakarta."), 0o600))

	session, err := e.AnalyzeResume(ctx, "", path)
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "Ayu Lestari", session.UserName)
	assert.Equal(t, "INTJ-A", session.Assessment.Code)
	assert.Len(t, session.Jobs, 4)

	stored, err := e.Session(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Summary, stored.Summary)
	assert.Equal(t, session.Assessment, stored.Assessment)

	t.Run("unsupported format", func(t *testing.T) {
		_, err := e.AnalyzeResume(ctx, "", filepath.Join(t.TempDir(), "resume.docx"))
		assert.Error(t, err)
	})
}

func TestEngine_CloseIsIdempotent(t *testing.T) {
	e := newTestEngine(t, &script{route: "none"})
	assert.NoError(t, e.Close())
	assert.NoError(t, e.Close())
}

func TestEngine_KeywordClassifier(t *testing.T) {
	ctx := context.Background()
	// The model would answer none; the keyword classifier must not ask it.
	s := &script{route: "none", filter: `{"location": "Bandung"}`}
	e := newTestEngine(t, s, func(cfg *config.Config) {
		cfg.Router.Classifier = config.ClassifierKeyword
	})

	result, err := e.Search(ctx, "", "Search for new mobile developer jobs in Bandung", false)
	require.NoError(t, err)
	assert.Equal(t, core.RouteStructured, result.Route)
	require.Len(t, result.BestJobs, 1)
	assert.Equal(t, "Mobile Developer", result.BestJobs[0].Title)
}

func TestEngine_Consult(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, &script{route: "structured", filter: `{"location": "Bandung"}`})

	session, err := e.NewSession(ctx)
	require.NoError(t, err)

	_, err = e.Consult(ctx, session.ID, "What should I learn?")
	assert.ErrorIs(t, err, ErrNoSavedJob)

	_, err = e.Search(ctx, session.ID, "jobs in Bandung", true)
	require.NoError(t, err)
	_, err = e.SaveJob(ctx, session.ID, 0)
	require.NoError(t, err)

	advice, err := e.Consult(ctx, session.ID, "What should I learn?")
	require.NoError(t, err)
	assert.Equal(t, "Learn Flutter testing before applying.", advice.Answer)
	assert.Equal(t, "Mobile Developer", advice.Job.Title)
	assert.Len(t, advice.References, 3)

	_, err = e.Consult(ctx, "missing", "anything")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
