// Package pubsub provides a generic publish/subscribe event system used to
// fan out log entries and history store changes to the UI loop.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// LogAppended carries a formatted log line.
	LogAppended EventType = "log.appended"
	// StoreChanged signals that the persisted history was rewritten outside this process.
	StoreChanged EventType = "store.changed"
	// StoreRemoved signals that the backing history file disappeared.
	StoreRemoved EventType = "store.removed"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T) int
}
