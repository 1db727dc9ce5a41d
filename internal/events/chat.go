package events

import (
	"time"

	"github.com/guilhermegouw/chatdesk/internal/message"
)

// ChatEventType represents outbound chat event types.
type ChatEventType string

// Chat event type constants.
const (
	ChatEventMessageSubmitted ChatEventType = "message_submitted"
	ChatEventTopicCleared     ChatEventType = "topic_cleared"
)

// ChatEvent is consumed by the generation pipeline.
type ChatEvent struct {
	Type        ChatEventType
	AssistantID string
	TopicID     string
	Timestamp   time.Time

	// Message is set for MessageSubmitted.
	Message *message.Message
}

// NewMessageSubmittedEvent creates a message submitted event.
func NewMessageSubmittedEvent(msg *message.Message) ChatEvent {
	return ChatEvent{
		Type:        ChatEventMessageSubmitted,
		AssistantID: msg.AssistantID,
		TopicID:     msg.TopicID,
		Message:     msg,
		Timestamp:   time.Now(),
	}
}

// NewTopicClearedEvent creates a topic cleared event.
func NewTopicClearedEvent(assistantID, topicID string) ChatEvent {
	return ChatEvent{
		Type:        ChatEventTopicCleared,
		AssistantID: assistantID,
		TopicID:     topicID,
		Timestamp:   time.Now(),
	}
}
