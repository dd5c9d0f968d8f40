package learn

import "errors"

// Usage-protocol errors. These signal a misuse of the session API by the
// host, not a recoverable runtime condition.
var (
	// ErrNilCategory is returned when a session is created without a
	// category.
	ErrNilCategory = errors.New("session requires a category")

	// ErrNilSettings is returned when a session is created without
	// settings.
	ErrNilSettings = errors.New("session requires settings")

	// ErrAlreadyStarted is returned when Start is called more than once.
	ErrAlreadyStarted = errors.New("session has already been started")

	// ErrNotRunning is returned when a card operation is invoked outside
	// the Running state.
	ErrNotRunning = errors.New("session is not running")

	// ErrNoCurrentCard is returned when no card is currently presented.
	ErrNoCurrentCard = errors.New("session has no current card")
)
