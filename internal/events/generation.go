// Package events defines domain-specific event types for the pub/sub system.
package events

import (
	"time"
)

// GenerationEventType represents generation lifecycle event types.
type GenerationEventType string

// Generation event type constants.
const (
	GenerationEventStarted   GenerationEventType = "started"
	GenerationEventTextDelta GenerationEventType = "text_delta"
	GenerationEventComplete  GenerationEventType = "complete"
	GenerationEventError     GenerationEventType = "error"
	GenerationEventCancelled GenerationEventType = "cancelled"
	GenerationEventEnded     GenerationEventType = "ended"
)

// GenerationEvent reports progress of an assistant response.
// Started and Ended mirror the generation gate; the rest come from the
// pipeline producing the response.
type GenerationEvent struct { //nolint:govet // fieldalignment: preserving logical field order
	AssistantID string
	TopicID     string
	MessageID   string
	Type        GenerationEventType
	Timestamp   time.Time

	// Payload fields (only one populated per event type)
	TextDelta string // For TextDelta
	Content   string // For Complete
	Error     error  // For Error
}

// NewGenerationStartedEvent creates a gate-engaged event.
func NewGenerationStartedEvent(assistantID, topicID string) GenerationEvent {
	return GenerationEvent{
		AssistantID: assistantID,
		TopicID:     topicID,
		Type:        GenerationEventStarted,
		Timestamp:   time.Now(),
	}
}

// NewGenerationEndedEvent creates a gate-released event.
func NewGenerationEndedEvent(assistantID, topicID string) GenerationEvent {
	return GenerationEvent{
		AssistantID: assistantID,
		TopicID:     topicID,
		Type:        GenerationEventEnded,
		Timestamp:   time.Now(),
	}
}

// NewTextDeltaEvent creates a streamed text chunk event.
func NewTextDeltaEvent(topicID, messageID, text string) GenerationEvent {
	return GenerationEvent{
		TopicID:   topicID,
		MessageID: messageID,
		Type:      GenerationEventTextDelta,
		TextDelta: text,
		Timestamp: time.Now(),
	}
}

// NewCompleteEvent creates a completion event carrying the final reply.
func NewCompleteEvent(topicID, messageID, content string) GenerationEvent {
	return GenerationEvent{
		TopicID:   topicID,
		MessageID: messageID,
		Type:      GenerationEventComplete,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewErrorEvent creates an error event.
func NewErrorEvent(topicID, messageID string, err error) GenerationEvent {
	return GenerationEvent{
		TopicID:   topicID,
		MessageID: messageID,
		Type:      GenerationEventError,
		Error:     err,
		Timestamp: time.Now(),
	}
}

// NewCancelledEvent creates a cancelled event.
func NewCancelledEvent(topicID, messageID string) GenerationEvent {
	return GenerationEvent{
		TopicID:   topicID,
		MessageID: messageID,
		Type:      GenerationEventCancelled,
		Timestamp: time.Now(),
	}
}
