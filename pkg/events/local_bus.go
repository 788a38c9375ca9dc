package events

import (
	"context"
	"errors"
	"sync"
)

// Handler processes one event.
type Handler func(ctx context.Context, event Event) error

// LocalBus delivers events synchronously inside the process. It stands in for
// the broker when none is configured, with the same Publish/Subscribe shape.
type LocalBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewLocalBus() *LocalBus {
	return &LocalBus{handlers: map[string][]Handler{}}
}

// Subscribe registers handler for eventType. The durable name is ignored: there
// is only one consumer group in a single process.
func (b *LocalBus) Subscribe(_ context.Context, eventType, _ string, handler Handler) error {
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.mu.Unlock()
	return nil
}

// Publish runs every handler for the event type and joins their errors.
func (b *LocalBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.EventType()]...)
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
