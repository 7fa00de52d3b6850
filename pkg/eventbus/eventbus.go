// Package eventbus abstracts the message transport used for monitor
// notification events.
package eventbus

import (
	"context"

	"github.com/flowpulse/flowpulse/pkg/events"
)

// Event is anything publishable on the bus.
type Event interface {
	GetType() events.EventType
}

// EventHandler processes one decoded event.
type EventHandler func(ctx context.Context, event any) error

// EventBus publishes and subscribes to monitor notification events.
type EventBus interface {
	Publish(ctx context.Context, key string, event Event) error
	Subscribe(ctx context.Context) error
	Handle(eventType events.EventType, handler EventHandler) error
	GenerateID() string
	Close() error
}
