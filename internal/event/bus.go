// Package event carries domain events from the settlement pipeline to
// interested observers without coupling them to the engine.
package event

import (
	"sync"

	"coinflip-server/internal/model"
)

// CompletionEvent is published exactly once per settled coinflip.
type CompletionEvent struct {
	Winner         model.Participant
	Loser          model.Participant
	ProfitAfterTax int64
}

// Bus is a minimal typed observer registry for completion events.
type Bus struct {
	mu   sync.RWMutex
	subs []func(CompletionEvent)
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// SubscribeCompletion registers an observer for completion events.
// Observers run synchronously on the publisher's goroutine and must not
// block.
func (b *Bus) SubscribeCompletion(fn func(CompletionEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// PublishCompletion delivers the event to every registered observer.
func (b *Bus) PublishCompletion(ev CompletionEvent) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(ev)
	}
}
