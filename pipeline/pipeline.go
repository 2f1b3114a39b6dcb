// Package pipeline runs one route-and-search request end to end: routing,
// extraction, retrieval and finalization.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/poiesic/jobmatch/core"
	"github.com/poiesic/jobmatch/finalize"
	"github.com/poiesic/jobmatch/router"
)

var (
	// ErrRouterRequired is returned when a router is not provided.
	ErrRouterRequired = errors.New("router required")

	// ErrFinalizerRequired is returned when a finalizer is not provided.
	ErrFinalizerRequired = errors.New("finalizer required")
)

// Result is the outcome of a route-and-search request.
type Result struct {
	Route    core.Route
	Messages []core.Message
	BestJobs []core.Job
}

// Suggestion returns the finalizer's message when the request produced one.
func (r *Result) Suggestion() (string, bool) {
	if len(r.BestJobs) > 0 && r.Route != core.RouteNone {
		return "", false
	}
	if len(r.Messages) == 0 {
		return "", false
	}
	last := r.Messages[len(r.Messages)-1]
	if last.Role != core.RoleAssistant {
		return "", false
	}
	return last.Content, true
}

// Pipeline wires a router to a finalizer. It holds no per-request state and
// is safe for concurrent use when its stores are.
type Pipeline struct {
	router    *router.Router
	finalizer *finalize.Finalizer
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a pipeline.
func NewPipeline(r *router.Router, f *finalize.Finalizer, opts ...Option) (*Pipeline, error) {
	if r == nil {
		return nil, ErrRouterRequired
	}
	if f == nil {
		return nil, ErrFinalizerRequired
	}

	p := &Pipeline{
		router:    r,
		finalizer: f,
		logger:    slog.Default().With("component", "pipeline"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// RouteAndSearch handles one instruction against the caller's current job
// list and résumé summary. The caller's slice is never modified.
func (p *Pipeline) RouteAndSearch(ctx context.Context, instruction, summary string, jobs []core.Job) (*Result, error) {
	return p.RouteAndSearchWithMonitor(ctx, instruction, summary, jobs, nil)
}

// RouteAndSearchWithMonitor is RouteAndSearch with stage callbacks.
func (p *Pipeline) RouteAndSearchWithMonitor(ctx context.Context, instruction, summary string, jobs []core.Job, monitor Monitor) (*Result, error) {
	if strings.TrimSpace(instruction) == "" {
		return nil, core.ErrEmptyInstruction
	}
	state := core.NewRequestState(instruction, summary, jobs)
	route, err := p.RunWithMonitor(ctx, state, monitor)
	if err != nil {
		return nil, err
	}
	return resultOf(state, route), nil
}

// Run executes a request on an existing state and returns the route taken.
func (p *Pipeline) Run(ctx context.Context, state *core.RequestState) (core.Route, error) {
	return p.RunWithMonitor(ctx, state, nil)
}

// RunWithMonitor is Run with stage callbacks.
func (p *Pipeline) RunWithMonitor(ctx context.Context, state *core.RequestState, monitor Monitor) (core.Route, error) {
	if strings.TrimSpace(state.Instruction) == "" {
		return core.RouteNone, core.ErrEmptyInstruction
	}
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(state.Instruction)

	route := p.router.Classify(ctx, state)
	monitor.AfterRouting(route)

	if err := p.router.Execute(ctx, state, route); err != nil {
		return route, err
	}
	monitor.AfterRetrieval(state.Jobs)

	if err := p.finalizer.Finalize(ctx, state, route); err != nil {
		p.logger.Error("finalization failed", "route", route, "err", err)
		return route, err
	}

	monitor.Finish(resultOf(state, route))
	p.logger.Info("request handled", "route", route, "jobs", len(state.Jobs))
	return route, nil
}

func resultOf(state *core.RequestState, route core.Route) *Result {
	return &Result{
		Route:    route,
		Messages: state.Messages,
		BestJobs: state.Jobs,
	}
}
