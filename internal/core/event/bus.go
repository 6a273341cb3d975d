package event

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Detail carries the payload fields of a published event.
type Detail map[string]any

// Handler consumes one event occurrence.
type Handler func(detail Detail)

// Bus is a synchronous publish/subscribe channel. It is the sole path
// by which cart and product state changes reach renderer collaborators;
// no subscriber polls state.
//
// Dispatch is synchronous and in subscription order. There is no
// buffering and no retry: an event published with no subscribers is
// gone. Handlers must not publish the event they are handling.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]subscription
	logger *slog.Logger
}

type subscription struct {
	id      string
	handler Handler
}

// NewBus creates an empty bus. A nil logger falls back to slog.Default.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subs:   make(map[string][]subscription),
		logger: logger,
	}
}

// Subscribe registers handler for the named event and returns a
// function that removes the subscription.
func (b *Bus) Subscribe(name string, handler Handler) func() {
	id := uuid.NewString()

	b.mu.Lock()
	b.subs[name] = append(b.subs[name], subscription{id: id, handler: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[name]
		for i, s := range subs {
			if s.id == id {
				b.subs[name] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish synchronously invokes every currently-subscribed handler for
// name, in subscription order. A panicking handler does not prevent the
// remaining handlers from running.
func (b *Bus) Publish(name string, detail Detail) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs[name]))
	copy(subs, b.subs[name])
	b.mu.RUnlock()

	for _, s := range subs {
		b.dispatch(name, s.handler, detail)
	}
}

func (b *Bus) dispatch(name string, handler Handler, detail Detail) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", "event", name, "panic", r)
		}
	}()
	handler(detail)
}
