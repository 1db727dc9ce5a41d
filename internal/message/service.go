package message

import (
	"context"
)

// MaxContextMessages bounds how much topic history is replayed to the model.
const MaxContextMessages = 100

// Service manages topic messages on top of a Store.
type Service struct {
	store Store
}

// NewService creates a new message service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Add persists a new message.
func (s *Service) Add(ctx context.Context, msg *Message) error {
	return s.store.Create(ctx, msg)
}

// Get retrieves a message by ID.
func (s *Service) Get(ctx context.Context, id string) (*Message, error) {
	return s.store.Get(ctx, id)
}

// GetByTopic returns the full history of a topic, oldest first.
func (s *Service) GetByTopic(ctx context.Context, topicID string) ([]*Message, error) {
	return s.store.GetByTopic(ctx, topicID)
}

// GetContext returns the tail of a topic's history suitable for a model call.
func (s *Service) GetContext(ctx context.Context, topicID string) ([]*Message, error) {
	return s.store.GetByTopicWithLimit(ctx, topicID, MaxContextMessages)
}

// Clear removes all messages from a topic.
func (s *Service) Clear(ctx context.Context, topicID string) error {
	return s.store.DeleteByTopic(ctx, topicID)
}

// Count returns the number of messages in a topic.
func (s *Service) Count(ctx context.Context, topicID string) (int64, error) {
	return s.store.Count(ctx, topicID)
}

// Delete removes a message by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
