package pipeline

import (
	"log/slog"

	"github.com/poiesic/jobmatch/core"
)

// Monitor provides hooks to observe a route-and-search run.
// Implement this interface to track intermediate steps and results.
type Monitor interface {
	Start(instruction string)
	AfterRouting(route core.Route)
	AfterRetrieval(jobs []core.Job)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)             {}
func (n *noopMonitor) AfterRouting(_ core.Route)  {}
func (n *noopMonitor) AfterRetrieval(_ []core.Job) {}
func (n *noopMonitor) Finish(_ *Result)           {}

// LogMonitor reports each stage to a logger at debug level.
type LogMonitor struct {
	Logger *slog.Logger
}

var _ Monitor = (*LogMonitor)(nil)

func (m *LogMonitor) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.Default()
	}
	return m.Logger
}

func (m *LogMonitor) Start(instruction string) {
	m.logger().Debug("route and search started", "instruction", instruction)
}

func (m *LogMonitor) AfterRouting(route core.Route) {
	m.logger().Debug("routed", "route", route)
}

func (m *LogMonitor) AfterRetrieval(jobs []core.Job) {
	titles := make([]string, len(jobs))
	for i, j := range jobs {
		titles[i] = j.Title
	}
	m.logger().Debug("retrieved", "count", len(jobs), "titles", titles)
}

func (m *LogMonitor) Finish(result *Result) {
	m.logger().Debug("route and search finished", "route", result.Route, "jobs", len(result.BestJobs), "messages", len(result.Messages))
}
