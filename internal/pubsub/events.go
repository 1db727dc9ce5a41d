// Package pubsub provides typed in-process brokers that decouple the
// session coordinator from its consumers.
package pubsub

import (
	"time"

	"github.com/guilhermegouw/chatdesk/internal/events"
)

// EventType classifies an event independent of its payload.
type EventType string

// Broker-level event types.
const (
	EventCreated   EventType = "created"
	EventUpdated   EventType = "updated"
	EventDeleted   EventType = "deleted"
	EventStarted   EventType = "started"
	EventCompleted EventType = "completed"
	EventFailed    EventType = "failed"
	EventProgress  EventType = "progress"
)

// Event wraps a payload with its type and publish time.
type Event[T any] struct { //nolint:govet // fieldalignment: preserving logical field order
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Publisher is the publishing half of a broker.
type Publisher[T any] interface {
	Publish(EventType, T) int
}

// TopicEventType maps a topic list change to its broker event type. Renames,
// reorders, and switches are updates.
func TopicEventType(e events.TopicEvent) EventType {
	switch e.Type {
	case events.TopicEventCreated:
		return EventCreated
	case events.TopicEventDeleted:
		return EventDeleted
	default:
		return EventUpdated
	}
}

// GenerationEventType maps a generation event to its broker event type.
func GenerationEventType(e events.GenerationEvent) EventType {
	switch e.Type {
	case events.GenerationEventStarted:
		return EventStarted
	case events.GenerationEventTextDelta:
		return EventProgress
	case events.GenerationEventComplete, events.GenerationEventEnded:
		return EventCompleted
	default:
		return EventFailed
	}
}
