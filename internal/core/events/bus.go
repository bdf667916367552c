// Package events provides the in-process notification bus.
//
// Issue-note creation publishes a NoteCreated event that other parts of the
// process (and the SSE/webhook surface, when enabled) subscribe to. Publish
// never blocks the publisher and a panicking subscriber cannot take the
// service down.
package events

import (
	"context"
	"sync"
	"time"

	"outflow/internal/core/id"
	"outflow/pkg/logger"
)

// NoteCreated is published after an issue note is committed.
type NoteCreated struct {
	NoteID     id.ID
	Number     string
	Category   string
	CreatedBy  string
	OccurredAt time.Time
}

// Handler receives published events. Handlers run on the publisher's
// goroutine pool, one goroutine per delivery.
type Handler func(ctx context.Context, evt NoteCreated)

// Bus is a process-wide publish/subscribe hub for note lifecycle events.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]Handler)}
}

// Subscribe registers a handler and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	token := b.nextID
	b.nextID++
	b.subs[token] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, token)
	}
}

// Publish delivers evt to all current subscribers asynchronously.
func (b *Bus) Publish(ctx context.Context, evt NoteCreated) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, h := range b.subs {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		go b.deliver(ctx, h, evt)
	}
}

func (b *Bus) deliver(ctx context.Context, h Handler, evt NoteCreated) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "event subscriber panicked",
				"event", "note_created",
				"note_id", evt.NoteID,
				"panic", r,
			)
		}
	}()
	h(ctx, evt)
}
