package message

import (
	"context"
)

// Store defines the interface for message persistence.
type Store interface {
	// Create creates a new message.
	Create(ctx context.Context, msg *Message) error

	// Get retrieves a message by ID.
	Get(ctx context.Context, id string) (*Message, error)

	// GetByTopic returns all messages for a topic ordered by created_at.
	GetByTopic(ctx context.Context, topicID string) ([]*Message, error)

	// GetByTopicWithLimit returns the most recent messages for a topic,
	// oldest first.
	GetByTopicWithLimit(ctx context.Context, topicID string, limit int) ([]*Message, error)

	// Count returns the number of messages in a topic.
	Count(ctx context.Context, topicID string) (int64, error)

	// Delete removes a message by ID.
	Delete(ctx context.Context, id string) error

	// DeleteByTopic removes all messages for a topic.
	DeleteByTopic(ctx context.Context, topicID string) error
}
