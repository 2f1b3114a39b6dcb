package core

import (
	"fmt"
	"strings"
)

// Route is the routing decision for a single instruction.
type Route string

const (
	// RouteRefine filters the caller's current job list.
	RouteRefine Route = "refine"
	// RouteSemantic runs a similarity search seeded by the résumé summary.
	RouteSemantic Route = "semantic"
	// RouteStructured runs an attribute search against the relational store.
	RouteStructured Route = "structured"
	// RouteNone means the instruction carries no recognizable retrieval intent.
	RouteNone Route = "none"
)

// Routes lists every routing decision.
var Routes = []Route{RouteRefine, RouteSemantic, RouteStructured, RouteNone}

var routeAliases = map[string]Route{
	"refine":        RouteRefine,
	"python_filter": RouteRefine,
	"filter":        RouteRefine,
	"semantic":      RouteSemantic,
	"rag_search":    RouteSemantic,
	"rag":           RouteSemantic,
	"structured":    RouteStructured,
	"sql_search":    RouteStructured,
	"sql":           RouteStructured,
	"none":          RouteNone,
	"null intent":   RouteNone,
	"null":          RouteNone,
}

// ParseRoute maps a classifier answer to a Route. Unknown answers yield
// RouteNone together with an ErrRoutingAmbiguous error, so the result is
// always usable.
func ParseRoute(s string) (Route, error) {
	key := strings.ToLower(strings.Trim(strings.TrimSpace(s), `"'`))
	if r, ok := routeAliases[key]; ok {
		return r, nil
	}
	return RouteNone, fmt.Errorf("%w: %q", ErrRoutingAmbiguous, s)
}

// Valid reports whether r is one of the four routing decisions.
func (r Route) Valid() bool {
	switch r {
	case RouteRefine, RouteSemantic, RouteStructured, RouteNone:
		return true
	}
	return false
}
