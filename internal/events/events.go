package events

// Kind identifies what happened to the subject of an event.
type Kind int

const (
	// KindAdded signals that the subject was added to the tree.
	KindAdded Kind = iota

	// KindRemoved signals that the subject was removed from the tree.
	KindRemoved

	// KindDeckChanged signals that the subject's deck level, learned
	// amounts or position changed.
	KindDeckChanged
)

// String returns a human-readable name for the kind, for logging.
func (k Kind) String() string {
	switch k {
	case KindAdded:
		return "added"
	case KindRemoved:
		return "removed"
	case KindDeckChanged:
		return "deck_changed"
	default:
		return "unknown"
	}
}

// Event is a single change notification about Subject.
type Event[T any] struct {
	Kind    Kind
	Subject T
}

// Handler consumes events. Handlers are invoked synchronously on the
// goroutine that performed the mutation and must not block.
type Handler[T any] interface {
	HandleEvent(event Event[T])
}
