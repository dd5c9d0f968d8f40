package events

import (
	"log/slog"
	"sync"
)

// Dispatcher delivers events to registered handlers in registration order.
// Registration is safe for concurrent use; delivery itself is synchronous
// and happens on the caller's goroutine.
type Dispatcher[T any] struct {
	mu       sync.RWMutex
	handlers []Handler[T]
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher that logs deliveries at debug level.
func NewDispatcher[T any](logger *slog.Logger) *Dispatcher[T] {
	return &Dispatcher[T]{
		logger: logger.With("component", "event_dispatcher"),
	}
}

// Register adds a handler to receive future events. Registering the same
// handler twice delivers events to it twice.
func (d *Dispatcher[T]) Register(handler Handler[T]) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, handler)
	d.logger.Debug("registered event handler", "handler_count", len(d.handlers))
}

// Unregister removes the first registration of handler. Unknown handlers
// are ignored.
func (d *Dispatcher[T]) Unregister(handler Handler[T]) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, have := range d.handlers {
		if have == handler {
			d.handlers = append(d.handlers[:i], d.handlers[i+1:]...)
			return
		}
	}
}

// Dispatch delivers event to every registered handler, in registration
// order, before returning.
func (d *Dispatcher[T]) Dispatch(event Event[T]) {
	d.mu.RLock()
	handlers := make([]Handler[T], len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.RUnlock()

	d.logger.Debug("dispatching event",
		"event_kind", event.Kind.String(),
		"handler_count", len(handlers))

	for _, handler := range handlers {
		handler.HandleEvent(event)
	}
}
