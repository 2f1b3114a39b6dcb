package router

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/poiesic/jobmatch/ai"
	"github.com/poiesic/jobmatch/core"
)

// Classifier decides which retrieval route an instruction needs.
// An error means the answer should not be trusted; the route returned
// alongside it is always usable.
type Classifier interface {
	Classify(ctx context.Context, instruction string) (core.Route, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, instruction string) (core.Route, error)

// Classify calls f.
func (f ClassifierFunc) Classify(ctx context.Context, instruction string) (core.Route, error) {
	return f(ctx, instruction)
}

const classifierPrompt = `Select the appropriate route for the user's job search instruction.

[Narrow down the current list of jobs] -> refine
[Find new jobs based on the user's CV] -> semantic
[Find specific jobs the user describes] -> structured

Example instructions (they don't have to match, just the overall intent)

refine:
- "Build upon the given list by filtering on the chosen parameters."
- "I like these jobs, but I only want the ones with a provided salary."
- "I only want the jobs that are in Jakarta."
- "I only want Hybrid jobs."

semantic:
- "Find new jobs using my CV summary that are in Tangerang."
- "Find new jobs that match my CV but are only in Jakarta."
- "None of these jobs fit me. Find new jobs."

structured:
- "Search for new data analysis jobs in Bandung."
- "Find me new jobs fit for a computer science student in Jakarta that have a listed salary."

Tip: unless the user asks for new jobs, it is most likely refine.
Tip: structured usually involves finding jobs directly by title.

If the instruction has no matching intent, answer none.

Output ONLY a JSON object of the form {"route": "<refine|semantic|structured|none>"}.`

// LLMClassifier classifies with a single JSON-constrained chat call.
type LLMClassifier struct {
	chat   ai.ChatModel
	logger *slog.Logger
}

// NewLLMClassifier creates a classifier backed by chat.
func NewLLMClassifier(chat ai.ChatModel, logger *slog.Logger) (*LLMClassifier, error) {
	if chat == nil {
		return nil, ErrChatModelRequired
	}
	if logger == nil {
		logger = slog.Default().With("component", "llm-classifier")
	}
	return &LLMClassifier{chat: chat, logger: logger}, nil
}

// Classify asks the model for a route. Unknown answers yield core.RouteNone
// with an error wrapping core.ErrRoutingAmbiguous.
func (c *LLMClassifier) Classify(ctx context.Context, instruction string) (core.Route, error) {
	answer, err := c.chat.CompleteJSON(ctx, []core.Message{
		{Role: core.RoleSystem, Content: classifierPrompt},
		{Role: core.RoleUser, Content: instruction},
	})
	if err != nil {
		return core.RouteNone, fmt.Errorf("%w: %w", core.ErrModelInvocation, err)
	}

	var out struct {
		Route string `json:"route"`
	}
	if err := ai.DecodeJSON(answer, &out); err != nil {
		// Some models ignore the object wrapper and answer with the bare label.
		c.logger.Debug("classifier answer is not an object", "answer", answer)
		return core.ParseRoute(answer)
	}
	return core.ParseRoute(out.Route)
}

var (
	newJobsCue    = regexp.MustCompile(`(?i)\b(new|other|different|another|fresh|more|baru|lain)\b`)
	searchCue     = regexp.MustCompile(`(?i)\b(find|search|look for|looking for|cari|carikan)\b`)
	profileCue    = regexp.MustCompile(`(?i)\b(cv|resume|my (profile|background|experience|skills?))\b|\b(match(es)?|fits?|suits?)\s+(me|my)\b`)
	referentCue   = regexp.MustCompile(`(?i)\b(these|those|them|ones|the list|of them)\b`)
	refineCue     = regexp.MustCompile(`(?i)\b(only|just|filter|keep|remove|exclude|drop|narrow|hanya|saja)\b`)
	constraintCue = regexp.MustCompile(`(?i)\b(hybrid|hibrid|remote|on-?site|wfh|full[ -]?time|part[ -]?time|contract|kontrak|salary|gaji|paid|juta|million)\b`)
)

// KeywordClassifier routes by fixed cues and never calls a model. It mirrors
// the bias of the model prompt: anything that does not ask for new jobs is
// treated as a refinement when it carries a constraint or points at the
// current list. Only instructions about the user's own CV or profile go to
// semantic search.
type KeywordClassifier struct{}

// Classify returns a route and never fails.
func (KeywordClassifier) Classify(_ context.Context, instruction string) (core.Route, error) {
	text := strings.TrimSpace(instruction)
	if text == "" {
		return core.RouteNone, nil
	}

	points := referentCue.MatchString(text)
	wantsNew := newJobsCue.MatchString(text) || (searchCue.MatchString(text) && !points)
	switch {
	case wantsNew && profileCue.MatchString(text):
		return core.RouteSemantic, nil
	case wantsNew:
		return core.RouteStructured, nil
	case points || refineCue.MatchString(text) || constraintCue.MatchString(text):
		return core.RouteRefine, nil
	}
	return core.RouteNone, nil
}
