package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/jobmatch/ai"
	"github.com/poiesic/jobmatch/core"
)

// DefaultReferences is the number of related listings a consultation reads.
const DefaultReferences = 3

var (
	// ErrPreferredJobRequired is returned when Consult gets a job without a title.
	ErrPreferredJobRequired = errors.New("preferred job required")

	// ErrEmptyAdvice is returned when the model answers with blank text.
	ErrEmptyAdvice = errors.New("consultant returned no advice")
)

const noSummary = "The user has not provided a summary."

const consultPrompt = `You are a career consultant helping a job seeker prepare for the job they prefer.
Do NOT recommend other job listings. Compare the user's profile with the job description and tell them
which skills they lack, what they should learn and which next steps to take.
Base every statement about jobs on the listings below; do not invent requirements.

User profile:
%s

Preferred job:
Role: %s
Company: %s
Location: %s
Salary: %s

Job description:
%s

Related listings:
%s`

// Advice is a consultant answer together with the listings it was grounded on.
type Advice struct {
	Answer     string
	Job        core.Job
	References []core.Job
}

// Consultant answers questions about a preferred job, grounded on the
// listings most similar to the question.
type Consultant struct {
	chat       ai.ChatModel
	searcher   JobSearcher
	references int
	logger     *slog.Logger
}

// ConsultOption configures a Consultant.
type ConsultOption func(*Consultant) error

// WithConsultLogger sets a custom logger.
func WithConsultLogger(logger *slog.Logger) ConsultOption {
	return func(c *Consultant) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithReferences sets how many related listings are retrieved per question.
func WithReferences(n int) ConsultOption {
	return func(c *Consultant) error {
		if n <= 0 {
			return fmt.Errorf("references must be positive, got %d", n)
		}
		c.references = n
		return nil
	}
}

// NewConsultant creates a consultant.
func NewConsultant(chat ai.ChatModel, searcher JobSearcher, opts ...ConsultOption) (*Consultant, error) {
	if chat == nil {
		return nil, ErrChatModelRequired
	}
	if searcher == nil {
		return nil, ErrSearcherRequired
	}

	c := &Consultant{
		chat:       chat,
		searcher:   searcher,
		references: DefaultReferences,
		logger:     slog.Default().With("component", "profile-consultant"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Consult answers question about job for the user described by summary.
// A failed listing search is logged and the answer is produced without
// related listings.
func (c *Consultant) Consult(ctx context.Context, summary string, job core.Job, question string) (*Advice, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, core.ErrEmptyInstruction
	}
	if strings.TrimSpace(job.Title) == "" {
		return nil, ErrPreferredJobRequired
	}

	refs, err := c.searcher.SearchN(ctx, job.Title+"\n"+question, core.SemanticFilter{}, c.references)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("related listing search failed", "err", err)
		refs = nil
	}

	answer, err := c.chat.Complete(ctx, []core.Message{
		{Role: core.RoleSystem, Content: consultContext(summary, job, refs)},
		{Role: core.RoleUser, Content: question},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrModelInvocation, err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, ErrEmptyAdvice
	}

	c.logger.Debug("consultation answered", "job", job.Title, "references", len(refs))
	return &Advice{Answer: answer, Job: job, References: refs}, nil
}

func consultContext(summary string, job core.Job, refs []core.Job) string {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		summary = noSummary
	}

	var listings strings.Builder
	for i, j := range refs {
		fmt.Fprintf(&listings, "%d. %s at %s (%s)\n%s\n\n", i+1, j.Title, j.Company, j.Location, strings.TrimSpace(j.Description))
	}
	if listings.Len() == 0 {
		listings.WriteString("none found")
	}

	return fmt.Sprintf(consultPrompt,
		summary,
		job.Title,
		orUnspecified(job.Company),
		orUnspecified(job.Location),
		orUnspecified(job.Salary),
		orUnspecified(job.Description),
		strings.TrimSpace(listings.String()),
	)
}

func orUnspecified(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "Not specified"
	}
	return s
}
