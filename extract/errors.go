package extract

import "errors"

var (
	// ErrChatModelRequired is returned when a chat model is not provided.
	ErrChatModelRequired = errors.New("chat model required")

	// ErrUnsupportedRoute is returned when a filter is requested for a route
	// that has no extraction schema.
	ErrUnsupportedRoute = errors.New("route has no filter schema")
)
