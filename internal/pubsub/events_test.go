package pubsub

import (
	"context"
	"errors"
	"testing"

	"github.com/guilhermegouw/chatdesk/internal/events"
)

func TestTopicEventType(t *testing.T) {
	tests := []struct {
		name  string
		event events.TopicEvent
		want  EventType
	}{
		{"created", events.NewTopicCreatedEvent("a", "t", "Topic"), EventCreated},
		{"deleted", events.NewTopicDeletedEvent("a", "t"), EventDeleted},
		{"renamed", events.NewTopicRenamedEvent("a", "t", "New"), EventUpdated},
		{"reordered", events.NewTopicReorderedEvent("a", []string{"t"}), EventUpdated},
		{"switched", events.NewTopicSwitchedEvent("a", "t", "Topic"), EventUpdated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TopicEventType(tt.event); got != tt.want {
				t.Errorf("TopicEventType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerationEventType(t *testing.T) {
	tests := []struct {
		name  string
		event events.GenerationEvent
		want  EventType
	}{
		{"started", events.NewGenerationStartedEvent("a", "t"), EventStarted},
		{"text delta", events.NewTextDeltaEvent("t", "m", "hi"), EventProgress},
		{"complete", events.NewCompleteEvent("t", "m", "hi"), EventCompleted},
		{"ended", events.NewGenerationEndedEvent("a", "t"), EventCompleted},
		{"error", events.NewErrorEvent("t", "m", errors.New("boom")), EventFailed},
		{"cancelled", events.NewCancelledEvent("t", "m"), EventFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenerationEventType(tt.event); got != tt.want {
				t.Errorf("GenerationEventType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBrokerIsPublisher(t *testing.T) {
	broker := NewBroker[events.NoticeEvent]("notice")
	defer broker.Shutdown()

	ch := broker.Subscribe(context.Background())
	var pub Publisher[events.NoticeEvent] = broker
	if n := pub.Publish(EventCreated, events.NewWarnNotice("careful", "k")); n != 1 {
		t.Fatalf("Publish() = %d, want 1", n)
	}
	if e := receive(t, ch); e.Payload.Message != "careful" {
		t.Errorf("Message = %q, want %q", e.Payload.Message, "careful")
	}
}
