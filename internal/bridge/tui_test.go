package bridge

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/guilhermegouw/chatdesk/internal/events"
	"github.com/guilhermegouw/chatdesk/internal/pubsub"
)

// mockProgram captures messages sent via Send().
type mockProgram struct {
	mu       sync.Mutex
	messages []tea.Msg
}

func newMockProgram() *mockProgram {
	return &mockProgram{
		messages: make([]tea.Msg, 0),
	}
}

func (m *mockProgram) Send(msg tea.Msg) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *mockProgram) Messages() []tea.Msg {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]tea.Msg, len(m.messages))
	copy(result, m.messages)
	return result
}

// waitFor polls until n messages arrived or the timeout expires.
func (m *mockProgram) waitFor(t *testing.T, n int) []tea.Msg {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if msgs := m.Messages(); len(msgs) >= n {
			return msgs
		}
		time.Sleep(5 * time.Millisecond)
	}
	msgs := m.Messages()
	t.Fatalf("received %d messages, want %d", len(msgs), n)
	return msgs
}

func startBridge(t *testing.T, opts ...TUIBridgeOption) (*pubsub.Hub, *mockProgram, *TUIBridge) {
	t.Helper()
	hub := pubsub.NewHub()
	mock := newMockProgram()
	bridge := NewTUIBridge(hub, mock, opts...)
	bridge.Start(context.Background())
	t.Cleanup(func() {
		bridge.Stop()
		hub.Shutdown()
	})

	// Wait for the three subscriptions to register.
	deadline := time.Now().Add(time.Second)
	for hub.Topic.SubscriberCount() == 0 || hub.Generation.SubscriberCount() == 0 || hub.Notice.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("bridge did not subscribe")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return hub, mock, bridge
}

func TestNewTUIBridge(t *testing.T) {
	t.Run("creates bridge with hub and program", func(t *testing.T) {
		hub := pubsub.NewHub()
		defer hub.Shutdown()

		program := tea.NewProgram(nil)
		bridge := NewTUIBridge(hub, program)

		if bridge.hub != hub {
			t.Error("hub mismatch")
		}
		if bridge.program != program {
			t.Error("program mismatch")
		}
	})

	t.Run("applies assistant filter option", func(t *testing.T) {
		hub := pubsub.NewHub()
		defer hub.Shutdown()

		bridge := NewTUIBridge(hub, newMockProgram(), WithAssistantFilter("assistant-1"))
		if bridge.filter() != "assistant-1" {
			t.Errorf("filter() = %q, want %q", bridge.filter(), "assistant-1")
		}

		bridge.ClearAssistantFilter()
		if bridge.filter() != "" {
			t.Errorf("filter() = %q after clear, want empty", bridge.filter())
		}
	})
}

func TestTUIBridgeStartStop(t *testing.T) {
	t.Run("stop is idempotent", func(t *testing.T) {
		hub := pubsub.NewHub()
		defer hub.Shutdown()

		bridge := NewTUIBridge(hub, newMockProgram())
		bridge.Start(context.Background())
		bridge.Stop()
		bridge.Stop()
	})

	t.Run("stop without start is safe", func(t *testing.T) {
		hub := pubsub.NewHub()
		defer hub.Shutdown()

		NewTUIBridge(hub, newMockProgram()).Stop()
	})

	t.Run("stops when the hub shuts down", func(t *testing.T) {
		hub := pubsub.NewHub()
		bridge := NewTUIBridge(hub, newMockProgram())
		bridge.Start(context.Background())

		hub.Shutdown()

		done := make(chan struct{})
		go func() {
			bridge.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Error("forwarders still running after hub shutdown")
		}
		bridge.Stop()
	})
}

func TestTUIBridgeForwarding(t *testing.T) {
	hub, mock, _ := startBridge(t)

	hub.Topic.Publish(pubsub.EventUpdated, events.NewTopicRenamedEvent("a-1", "t-1", "Go tips"))
	msgs := mock.waitFor(t, 1)
	topicMsg, ok := msgs[0].(TopicEventMsg)
	if !ok {
		t.Fatalf("message = %T, want TopicEventMsg", msgs[0])
	}
	if topicMsg.Event.Payload.Name != "Go tips" {
		t.Errorf("Name = %q, want %q", topicMsg.Event.Payload.Name, "Go tips")
	}

	hub.Generation.Publish(pubsub.EventProgress, events.NewTextDeltaEvent("t-1", "m-1", "Hello"))
	msgs = mock.waitFor(t, 2)
	genMsg, ok := msgs[1].(GenerationEventMsg)
	if !ok {
		t.Fatalf("message = %T, want GenerationEventMsg", msgs[1])
	}
	if genMsg.Event.Payload.TextDelta != "Hello" {
		t.Errorf("TextDelta = %q, want %q", genMsg.Event.Payload.TextDelta, "Hello")
	}

	hub.Notice.Publish(pubsub.EventFailed, events.NewErrorNotice("boom", "k"))
	msgs = mock.waitFor(t, 3)
	noticeMsg, ok := msgs[2].(NoticeEventMsg)
	if !ok {
		t.Fatalf("message = %T, want NoticeEventMsg", msgs[2])
	}
	if noticeMsg.Event.Payload.Message != "boom" {
		t.Errorf("Message = %q, want %q", noticeMsg.Event.Payload.Message, "boom")
	}
}

func TestTUIBridgeAssistantFilter(t *testing.T) {
	hub, mock, bridge := startBridge(t, WithAssistantFilter("mine"))

	hub.Topic.Publish(pubsub.EventCreated, events.NewTopicCreatedEvent("other", "t-1", "x"))
	hub.Topic.Publish(pubsub.EventCreated, events.NewTopicCreatedEvent("mine", "t-2", "y"))

	mock.waitFor(t, 1)
	time.Sleep(20 * time.Millisecond)
	msgs := mock.Messages()
	if len(msgs) != 1 {
		t.Fatalf("received %d messages, want 1", len(msgs))
	}
	if got := msgs[0].(TopicEventMsg).Event.Payload.TopicID; got != "t-2" {
		t.Errorf("TopicID = %q, want %q", got, "t-2")
	}

	bridge.ClearAssistantFilter()
	hub.Topic.Publish(pubsub.EventCreated, events.NewTopicCreatedEvent("other", "t-3", "z"))
	mock.waitFor(t, 2)
}

func TestTUIBridgeConcurrentPublish(t *testing.T) {
	hub, mock, _ := startBridge(t)

	var wg sync.WaitGroup
	numEvents := 10

	wg.Add(3)
	go func() {
		defer wg.Done()
		for range numEvents {
			hub.Topic.Publish(pubsub.EventUpdated, events.NewTopicSwitchedEvent("a", "t", "n"))
		}
	}()
	go func() {
		defer wg.Done()
		for range numEvents {
			hub.Generation.Publish(pubsub.EventProgress, events.NewTextDeltaEvent("t", "m", "x"))
		}
	}()
	go func() {
		defer wg.Done()
		for range numEvents {
			hub.Notice.Publish(pubsub.EventFailed, events.NewErrorNotice("e", "k"))
		}
	}()
	wg.Wait()

	mock.waitFor(t, 3*numEvents)

	var errs []error
	for _, msg := range mock.Messages() {
		switch msg.(type) {
		case TopicEventMsg, GenerationEventMsg, NoticeEventMsg:
		default:
			errs = append(errs, errors.New("unexpected message type"))
		}
	}
	if len(errs) > 0 {
		t.Errorf("got %d unexpected messages", len(errs))
	}
}
