package events

import "time"

// TopicEventType represents topic list event types.
type TopicEventType string

// Topic event type constants.
const (
	TopicEventCreated   TopicEventType = "created"
	TopicEventRenamed   TopicEventType = "renamed"
	TopicEventDeleted   TopicEventType = "deleted"
	TopicEventReordered TopicEventType = "reordered"
	TopicEventSwitched  TopicEventType = "switched"
)

// TopicEvent describes a change to an assistant's topic list or to the
// active topic.
type TopicEvent struct { //nolint:govet // fieldalignment: preserving logical field order
	AssistantID string
	TopicID     string
	Name        string
	Type        TopicEventType
	Timestamp   time.Time

	// Order is the full topic order after a Reordered event.
	Order []string
}

// NewTopicCreatedEvent creates a topic created event.
func NewTopicCreatedEvent(assistantID, topicID, name string) TopicEvent {
	return TopicEvent{
		AssistantID: assistantID,
		TopicID:     topicID,
		Name:        name,
		Type:        TopicEventCreated,
		Timestamp:   time.Now(),
	}
}

// NewTopicRenamedEvent creates a topic renamed event.
func NewTopicRenamedEvent(assistantID, topicID, name string) TopicEvent {
	return TopicEvent{
		AssistantID: assistantID,
		TopicID:     topicID,
		Name:        name,
		Type:        TopicEventRenamed,
		Timestamp:   time.Now(),
	}
}

// NewTopicDeletedEvent creates a topic deleted event.
func NewTopicDeletedEvent(assistantID, topicID string) TopicEvent {
	return TopicEvent{
		AssistantID: assistantID,
		TopicID:     topicID,
		Type:        TopicEventDeleted,
		Timestamp:   time.Now(),
	}
}

// NewTopicReorderedEvent creates a topic reordered event.
func NewTopicReorderedEvent(assistantID string, order []string) TopicEvent {
	return TopicEvent{
		AssistantID: assistantID,
		Type:        TopicEventReordered,
		Order:       append([]string(nil), order...),
		Timestamp:   time.Now(),
	}
}

// NewTopicSwitchedEvent creates an active topic switched event.
func NewTopicSwitchedEvent(assistantID, topicID, name string) TopicEvent {
	return TopicEvent{
		AssistantID: assistantID,
		TopicID:     topicID,
		Name:        name,
		Type:        TopicEventSwitched,
		Timestamp:   time.Now(),
	}
}
