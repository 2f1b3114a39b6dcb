package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/poiesic/jobmatch/ai"
	"github.com/poiesic/jobmatch/core"
)

// Extractor builds typed filters from instructions.
type Extractor struct {
	chat   ai.ChatModel
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewExtractor creates an extractor backed by chat.
func NewExtractor(chat ai.ChatModel, opts ...Option) (*Extractor, error) {
	if chat == nil {
		return nil, ErrChatModelRequired
	}

	e := &Extractor{
		chat:   chat,
		logger: slog.Default().With("component", "extractor"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// rawFilter accepts any JSON shape per field; validation happens afterwards.
type rawFilter struct {
	JobTitle    any `json:"job_title"`
	CompanyName any `json:"company_name"`
	WorkStyle   any `json:"work_style"`
	WorkType    any `json:"work_type"`
	Location    any `json:"location"`
	MinSalary   any `json:"min_salary"`
	Salary      any `json:"salary"`
}

// Refine extracts the filter for narrowing an existing job list.
func (e *Extractor) Refine(ctx context.Context, instruction string) (core.RefineFilter, error) {
	raw, err := e.complete(ctx, refinePrompt, instruction)
	if err != nil {
		return core.RefineFilter{}, err
	}

	var v validator
	f := core.RefineFilter{
		WorkStyle: v.workStyle(raw.WorkStyle),
		WorkType:  v.workType(raw.WorkType),
		MinSalary: v.salary("min_salary", raw.MinSalary),
		Location:  v.text("location", raw.Location),
	}
	return f, v.err()
}

// Semantic extracts the metadata filter for a similarity search.
func (e *Extractor) Semantic(ctx context.Context, instruction string) (core.SemanticFilter, error) {
	raw, err := e.complete(ctx, semanticPrompt, instruction)
	if err != nil {
		return core.SemanticFilter{}, err
	}

	var v validator
	f := core.SemanticFilter{
		WorkStyle: v.workStyle(raw.WorkStyle),
		WorkType:  v.workType(raw.WorkType),
		Location:  v.text("location", raw.Location),
	}
	return f, v.err()
}

// Structured extracts the attribute filter for a relational search.
func (e *Extractor) Structured(ctx context.Context, instruction string) (core.StructuredFilter, error) {
	raw, err := e.complete(ctx, structuredPrompt, instruction)
	if err != nil {
		return core.StructuredFilter{}, err
	}

	var v validator
	f := core.StructuredFilter{
		JobTitle:    v.text("job_title", raw.JobTitle),
		CompanyName: v.text("company_name", raw.CompanyName),
		WorkStyle:   v.workStyle(raw.WorkStyle),
		WorkType:    v.workType(raw.WorkType),
		Location:    v.text("location", raw.Location),
		Salary:      v.salary("salary", raw.Salary),
	}
	return f, v.err()
}

// Extract dispatches to the extraction matching route.
func (e *Extractor) Extract(ctx context.Context, route core.Route, instruction string) (core.Filter, error) {
	switch route {
	case core.RouteRefine:
		return e.Refine(ctx, instruction)
	case core.RouteSemantic:
		return e.Semantic(ctx, instruction)
	case core.RouteStructured:
		return e.Structured(ctx, instruction)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedRoute, route)
}

func (e *Extractor) complete(ctx context.Context, p prompt, instruction string) (rawFilter, error) {
	answer, err := e.chat.CompleteJSON(ctx, p.messages(instruction))
	if err != nil {
		e.logger.Error("filter extraction call failed", "err", err)
		return rawFilter{}, fmt.Errorf("%w: %w", core.ErrExtraction, err)
	}

	var raw rawFilter
	if err := ai.DecodeJSON(answer, &raw); err != nil {
		e.logger.Warn("unparseable filter answer", "answer", answer, "err", err)
		return rawFilter{}, fmt.Errorf("%w: %w", core.ErrExtraction, err)
	}
	return raw, nil
}

// validator converts loosely typed answer fields and collects the problems.
type validator struct {
	errs []error
}

func (v *validator) fail(err error) {
	v.errs = append(v.errs, err)
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", core.ErrExtraction, errors.Join(v.errs...))
}

var placeholders = map[string]bool{"": true, "none": true, "null": true, "n/a": true, "any": true}

func (v *validator) text(field string, value any) *string {
	switch s := value.(type) {
	case nil:
		return nil
	case string:
		s = strings.TrimSpace(s)
		if placeholders[strings.ToLower(s)] {
			return nil
		}
		return &s
	default:
		v.fail(fmt.Errorf("%s: expected text, got %T", field, value))
		return nil
	}
}

func (v *validator) workStyle(value any) *core.WorkStyle {
	s := v.text("work_style", value)
	if s == nil {
		return nil
	}
	ws, err := core.ParseWorkStyle(*s)
	if err != nil {
		v.fail(err)
		return nil
	}
	return &ws
}

func (v *validator) workType(value any) *core.WorkType {
	s := v.text("work_type", value)
	if s == nil {
		return nil
	}
	wt, err := core.ParseWorkType(*s)
	if err != nil {
		v.fail(err)
		return nil
	}
	return &wt
}

func (v *validator) salary(field string, value any) *int64 {
	var amount int64
	switch n := value.(type) {
	case nil:
		return nil
	case float64:
		if n > math.MaxInt64 || math.IsNaN(n) {
			v.fail(fmt.Errorf("%s: out of range", field))
			return nil
		}
		amount = int64(n)
	case string:
		s := v.text(field, n)
		if s == nil {
			return nil
		}
		parsed, ok := core.NormalizeSalary(*s)
		if !ok {
			v.fail(fmt.Errorf("%s: no amount in %q", field, n))
			return nil
		}
		amount = parsed
	default:
		v.fail(fmt.Errorf("%s: expected a number, got %T", field, value))
		return nil
	}

	if amount <= 0 {
		return nil
	}
	return &amount
}
