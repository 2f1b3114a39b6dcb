package router

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/poiesic/jobmatch/core"
	"github.com/poiesic/jobmatch/retrieval"
)

// FilterExtractor builds the typed filter for each searching route.
// The returned filter is usable even when an error is reported.
type FilterExtractor interface {
	Refine(ctx context.Context, instruction string) (core.RefineFilter, error)
	Semantic(ctx context.Context, instruction string) (core.SemanticFilter, error)
	Structured(ctx context.Context, instruction string) (core.StructuredFilter, error)
}

// SemanticSearcher runs similarity searches.
type SemanticSearcher interface {
	Search(ctx context.Context, query string, f core.SemanticFilter) ([]core.Job, error)
}

// StructuredSearcher runs attribute searches.
type StructuredSearcher interface {
	Search(ctx context.Context, f core.StructuredFilter) ([]core.Job, error)
}

// Router classifies instructions and dispatches them to a retrieval strategy.
type Router struct {
	classifier Classifier
	extractor  FilterExtractor
	semantic   SemanticSearcher
	structured StructuredSearcher
	logger     *slog.Logger
}

// Option configures a Router.
type Option func(*Router) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRouter creates a router.
func NewRouter(
	classifier Classifier,
	extractor FilterExtractor,
	semantic SemanticSearcher,
	structured StructuredSearcher,
	opts ...Option,
) (*Router, error) {
	if classifier == nil {
		return nil, ErrClassifierRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if semantic == nil {
		return nil, ErrSemanticSearcherRequired
	}
	if structured == nil {
		return nil, ErrStructuredSearcherRequired
	}

	r := &Router{
		classifier: classifier,
		extractor:  extractor,
		semantic:   semantic,
		structured: structured,
		logger:     slog.Default().With("component", "router"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Dispatch classifies the request and executes the chosen route against it.
// Only context cancellation is reported as an error.
func (r *Router) Dispatch(ctx context.Context, state *core.RequestState) (core.Route, error) {
	route := r.Classify(ctx, state)
	if err := ctx.Err(); err != nil {
		return route, err
	}
	return route, r.Execute(ctx, state, route)
}

// Classify records the instruction in the trace and decides the route.
// Classifier failures and unknown answers become core.RouteNone.
func (r *Router) Classify(ctx context.Context, state *core.RequestState) core.Route {
	state.Append(core.RoleUser, state.Instruction)

	route, err := r.classifier.Classify(ctx, state.Instruction)
	if err != nil || !route.Valid() {
		r.logger.Warn("classification failed, treating as no intent", "route", route, "err", err)
		route = core.RouteNone
	}

	state.Append(core.RoleAssistant, string(route))
	r.logger.Debug("instruction classified", "route", route)
	return route
}

// Execute runs extraction and retrieval for route and replaces state.Jobs
// with the outcome. RouteNone clears the job list.
func (r *Router) Execute(ctx context.Context, state *core.RequestState, route core.Route) error {
	switch route {
	case core.RouteRefine:
		f, err := r.extractor.Refine(ctx, state.Instruction)
		r.recordFilter(state, f, err)
		state.Jobs = retrieval.Refine(state.Jobs, f)

	case core.RouteSemantic:
		f, err := r.extractor.Semantic(ctx, state.Instruction)
		r.recordFilter(state, f, err)
		jobs, err := r.semantic.Search(ctx, retrieval.Query(state.Summary, state.Instruction), f)
		state.Jobs = r.retrieved(state, jobs, err)

	case core.RouteStructured:
		f, err := r.extractor.Structured(ctx, state.Instruction)
		r.recordFilter(state, f, err)
		jobs, err := r.structured.Search(ctx, f)
		state.Jobs = r.retrieved(state, jobs, err)

	default:
		state.Jobs = nil
	}

	return ctx.Err()
}

func (r *Router) recordFilter(state *core.RequestState, f core.Filter, err error) {
	if err != nil {
		r.logger.Warn("filter extraction degraded", "route", f.Route(), "err", err)
	}
	data, merr := json.Marshal(f)
	if merr != nil {
		r.logger.Error("unable to encode filter", "err", merr)
		return
	}
	state.Append(core.RoleAssistant, string(data))
}

func (r *Router) retrieved(state *core.RequestState, jobs []core.Job, err error) []core.Job {
	if err != nil {
		r.logger.Warn("retrieval failed, returning no jobs", "err", err)
		state.Append(core.RoleSystem, "Retrieval failed: "+err.Error())
		return nil
	}
	return jobs
}
