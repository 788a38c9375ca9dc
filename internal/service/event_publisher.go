package service

import (
	"context"

	"morning-pulse-be/pkg/events"
)

// EventPublisher puts domain events on the bus. *nats.Publisher and *events.LocalBus satisfy it.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// EventSubscriber attaches a durable handler to one event type.
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType, durableName string, handler events.Handler) error
}
