// Package bridge provides the connection between the pub/sub system and Bubble Tea.
package bridge

import (
	"github.com/guilhermegouw/chatdesk/internal/events"
	"github.com/guilhermegouw/chatdesk/internal/pubsub"
)

// TopicEventMsg wraps a topic event for the TUI.
type TopicEventMsg struct {
	Event pubsub.Event[events.TopicEvent]
}

// GenerationEventMsg wraps a generation event for the TUI.
type GenerationEventMsg struct {
	Event pubsub.Event[events.GenerationEvent]
}

// NoticeEventMsg wraps a user-facing notice for the TUI.
type NoticeEventMsg struct {
	Event pubsub.Event[events.NoticeEvent]
}
