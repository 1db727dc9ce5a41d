// Package message provides topic-scoped chat messages with persistence.
package message

import (
	"time"

	"github.com/google/uuid"
)

// Role represents the role of a message sender.
type Role string

// Role constants.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat message. AssistantID and TopicID are
// back-references; a message never owns the topic it belongs to.
type Message struct {
	ID          string
	AssistantID string
	TopicID     string
	Role        Role
	Content     string
	Model       string
	Provider    string
	CreatedAt   time.Time
}

// New creates a message with a fresh ID stamped at the given time.
func New(role Role, assistantID, topicID, content string, at time.Time) *Message {
	return &Message{
		ID:          uuid.New().String(),
		AssistantID: assistantID,
		TopicID:     topicID,
		Role:        role,
		Content:     content,
		CreatedAt:   at,
	}
}

// IsUser reports whether the message was authored by the user.
func (m *Message) IsUser() bool {
	return m.Role == RoleUser
}

// Clone returns a copy of the message.
func (m *Message) Clone() *Message {
	c := *m
	return &c
}
