package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/jobmatch/ai"
	"github.com/poiesic/jobmatch/core"
	"github.com/poiesic/jobmatch/storage"
)

// DefaultRecommendations is the number of jobs recommended for a new résumé.
const DefaultRecommendations = 10

// DefaultName is used when no candidate name can be found in a résumé.
const DefaultName = "Candidate"

var (
	// ErrChatModelRequired is returned when a chat model is not provided.
	ErrChatModelRequired = errors.New("chat model required")

	// ErrSearcherRequired is returned when a job searcher is not provided.
	ErrSearcherRequired = errors.New("job searcher required")

	// ErrSessionRequired is returned when Analyze is called without a session.
	ErrSessionRequired = errors.New("session required")
)

var assessmentCode = regexp.MustCompile(`^[EI][NS][TF][JP]-[AT]$`)

// legacyAssessment matches the "ENTP-T You are..." single-string form some
// models still produce instead of the JSON object.
var legacyAssessment = regexp.MustCompile(`(?s)^\s*"?([EI][NS][TF][JP]-[AT])\b[\s:.,-]*(.*?)"?\s*$`)

// JobSearcher finds jobs similar to a query.
type JobSearcher interface {
	SearchN(ctx context.Context, query string, f core.SemanticFilter, k int) ([]core.Job, error)
}

// Analyzer derives a candidate profile from résumé text.
type Analyzer struct {
	chat            ai.ChatModel
	searcher        JobSearcher
	resumes         storage.VectorIndex
	recommendations int
	logger          *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// WithRecommendations sets how many jobs Recommend returns.
func WithRecommendations(n int) Option {
	return func(a *Analyzer) error {
		if n <= 0 {
			return fmt.Errorf("recommendations must be positive, got %d", n)
		}
		a.recommendations = n
		return nil
	}
}

// WithResumeIndex stores every analyzed résumé summary in index, with the
// full résumé text kept as metadata.
func WithResumeIndex(index storage.VectorIndex) Option {
	return func(a *Analyzer) error {
		a.resumes = index
		return nil
	}
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(chat ai.ChatModel, searcher JobSearcher, opts ...Option) (*Analyzer, error) {
	if chat == nil {
		return nil, ErrChatModelRequired
	}
	if searcher == nil {
		return nil, ErrSearcherRequired
	}

	a := &Analyzer{
		chat:            chat,
		searcher:        searcher,
		recommendations: DefaultRecommendations,
		logger:          slog.Default().With("component", "profile-analyzer"),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

const summaryPrompt = `You are a CV analyzer. Extract the candidate's full name and write a summary analysis of the CV
that captures the candidate's persona.

Output ONLY a JSON object with exactly two keys:
1. "name": the full name of the candidate found in the CV. If it is not found, use "Candidate".
2. "summary": a single string in this format:

Preferred Companies: (if available) | Preferred Location: (stated location or past location history) |
Preferred Salary Range: | Preferred Work Type: | Strengths: | Skills: | General assessment: | Work Experience:

The summary is used for semantic search against a database of job listings across Indonesia.`

const assessmentPrompt = `You are a personality assessment program. You will be given a candidate's CV summary and the jobs
recommended to them. Assess their 16-personalities type with identity (for example ENTP-T) and write a paragraph
analysing their work tendencies.

Output ONLY a JSON object with exactly two keys:
1. "code": the type code, four letters, a dash and A or T. Example: "ENTP-T".
2. "narrative": the assessment paragraph, addressed to the candidate. Example: "You are an outgoing extrovert who..."`

// Summarize extracts the candidate's name and a search-oriented summary.
// An answer that is not the expected object is used verbatim as the summary.
func (a *Analyzer) Summarize(ctx context.Context, text string) (core.ResumeProfile, error) {
	answer, err := a.chat.CompleteJSON(ctx, []core.Message{
		{Role: core.RoleSystem, Content: summaryPrompt},
		{Role: core.RoleUser, Content: text},
	})
	if err != nil {
		return core.ResumeProfile{}, fmt.Errorf("%w: %w", core.ErrModelInvocation, err)
	}

	var out core.ResumeProfile
	if err := ai.DecodeJSON(answer, &out); err != nil {
		a.logger.Warn("summary answer is not JSON, keeping raw text", "err", err)
		return core.ResumeProfile{Name: DefaultName, Summary: strings.TrimSpace(answer)}, nil
	}

	out.Name = strings.TrimSpace(out.Name)
	if out.Name == "" {
		out.Name = DefaultName
	}
	out.Summary = strings.TrimSpace(out.Summary)
	if out.Summary == "" {
		out.Summary = strings.TrimSpace(answer)
	}
	return out, nil
}

// Recommend returns the listings most similar to the summary, without any
// metadata constraint.
func (a *Analyzer) Recommend(ctx context.Context, summary string) ([]core.Job, error) {
	return a.searcher.SearchN(ctx, summary, core.SemanticFilter{}, a.recommendations)
}

// Assess produces a personality assessment from the summary and the jobs
// recommended for it. A code that is not a valid type code is dropped while
// the narrative is kept.
func (a *Analyzer) Assess(ctx context.Context, summary string, jobs []core.Job) (core.Assessment, error) {
	var sb strings.Builder
	sb.WriteString("Jobs:\n")
	for _, j := range jobs {
		fmt.Fprintf(&sb, "%s at %s\n", j.Title, j.Company)
	}
	sb.WriteString("\nCV summary:\n")
	sb.WriteString(summary)

	answer, err := a.chat.CompleteJSON(ctx, []core.Message{
		{Role: core.RoleSystem, Content: assessmentPrompt},
		{Role: core.RoleUser, Content: sb.String()},
	})
	if err != nil {
		return core.Assessment{}, fmt.Errorf("%w: %w", core.ErrModelInvocation, err)
	}

	var out core.Assessment
	if err := ai.DecodeJSON(answer, &out); err != nil {
		if m := legacyAssessment.FindStringSubmatch(answer); m != nil {
			return core.Assessment{Code: m[1], Narrative: strings.TrimSpace(m[2])}, nil
		}
		a.logger.Warn("assessment answer is not JSON, keeping raw text", "err", err)
		return core.Assessment{Narrative: strings.Trim(strings.TrimSpace(answer), `"`)}, nil
	}

	out.Code = strings.ToUpper(strings.TrimSpace(out.Code))
	if !assessmentCode.MatchString(out.Code) {
		a.logger.Warn("discarding invalid assessment code", "code", out.Code)
		out.Code = ""
	}
	out.Narrative = strings.TrimSpace(out.Narrative)
	return out, nil
}

// Analyze runs the full profiling flow on résumé text and records the
// outcome in session. A failed recommendation search leaves the job list
// empty instead of failing the analysis.
func (a *Analyzer) Analyze(ctx context.Context, session *core.Session, text string) error {
	if session == nil {
		return ErrSessionRequired
	}

	p, err := a.Summarize(ctx, text)
	if err != nil {
		return err
	}
	a.storeResume(ctx, p.Summary, text)

	jobs, err := a.Recommend(ctx, p.Summary)
	if err != nil {
		a.logger.Warn("recommendation search failed", "err", err)
		jobs = nil
	}

	assessment, err := a.Assess(ctx, p.Summary, jobs)
	if err != nil {
		return err
	}

	session.UserName = p.Name
	session.Summary = p.Summary
	session.Jobs = jobs
	session.Assessment = assessment
	a.logger.Info("resume analyzed", "session", session.ID, "jobs", len(jobs), "code", assessment.Code)
	return nil
}

func (a *Analyzer) storeResume(ctx context.Context, summary, text string) {
	if a.resumes == nil {
		return
	}
	doc := storage.Document{
		ID:      core.IDFromContent(strings.ToLower(summary)),
		Content: summary,
		Metadata: map[string]string{
			"cv_contents": text,
			"created":     strconv.FormatInt(time.Now().Unix(), 10),
		},
	}
	if err := a.resumes.AddDocuments(ctx, []storage.Document{doc}); err != nil {
		a.logger.Warn("unable to store resume summary", "err", err)
	}
}
