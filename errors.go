package jobmatch

import "errors"

var (
	// ErrConfigRequired is returned when NewEngine is called without a configuration.
	ErrConfigRequired = errors.New("configuration is required")

	// ErrUnsupportedProvider is returned for an AI provider name with no implementation.
	ErrUnsupportedProvider = errors.New("unsupported AI provider")

	// ErrJobIndexOutOfRange is returned when a job position does not exist in
	// the session's working list.
	ErrJobIndexOutOfRange = errors.New("job index out of range")

	// ErrNoSavedJob is returned when a consultation is requested before any
	// job was saved to the session.
	ErrNoSavedJob = errors.New("session has no saved job")
)
