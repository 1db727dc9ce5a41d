package topic

import "context"

// Store defines the interface for assistant and topic persistence.
type Store interface {
	// ListAssistants returns all assistants ordered by creation time, each
	// with its topics in display order.
	ListAssistants(ctx context.Context) ([]*Assistant, error)

	// SaveAssistant writes the assistant and replaces its stored topic list
	// with a.Topics, including their order.
	SaveAssistant(ctx context.Context, a *Assistant) error
}
