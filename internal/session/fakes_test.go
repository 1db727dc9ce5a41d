package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/guilhermegouw/chatdesk/internal/events"
	"github.com/guilhermegouw/chatdesk/internal/message"
	"github.com/guilhermegouw/chatdesk/internal/pubsub"
	"github.com/guilhermegouw/chatdesk/internal/topic"
)

type warning struct {
	message string
	key     string
}

type fakeNotifier struct {
	mu       sync.Mutex
	warnings []warning
}

func (f *fakeNotifier) Warn(msg, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.warnings = append(f.warnings, warning{msg, key})
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.warnings)
}

type fakeMessages struct {
	msgs map[string][]*message.Message
	err  error
}

func (f *fakeMessages) GetByTopic(_ context.Context, topicID string) ([]*message.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.msgs[topicID], nil
}

type fakeSummarizer struct {
	mu     sync.Mutex
	calls  int
	result string
	err    error
	// before runs inside Summarize, outside the session lock.
	before func()
}

func (f *fakeSummarizer) Summarize(_ context.Context, _ []*message.Message, _ *topic.Assistant) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.before != nil {
		f.before()
	}
	return f.result, f.err
}

type fakePrompter struct {
	answer string
	err    error
	got    PromptRequest
}

func (f *fakePrompter) Prompt(_ context.Context, req PromptRequest) (string, error) {
	f.got = req
	return f.answer, f.err
}

type fakeStore struct {
	mu    sync.Mutex
	saves int
	err   error
	last  *topic.Assistant
}

func (f *fakeStore) ListAssistants(context.Context) ([]*topic.Assistant, error) {
	return nil, nil
}

func (f *fakeStore) SaveAssistant(_ context.Context, a *topic.Assistant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.err != nil {
		return f.err
	}
	f.last = a.Clone()
	return nil
}

var errStore = errors.New("disk full")

func newTestService(t *testing.T, topics int, opts ...Option) (*Service, *pubsub.Hub) {
	t.Helper()

	a := topic.NewAssistant("Default Assistant", "")
	for a.Len() < topics {
		if err := a.Add(topic.New(a.ID)); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	hub := pubsub.NewHub()
	t.Cleanup(hub.Shutdown)

	return NewService(a, append([]Option{WithHub(hub)}, opts...)...), hub
}

func subscribeChat(t *testing.T, hub *pubsub.Hub) <-chan pubsub.Event[events.ChatEvent] {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return hub.Chat.Subscribe(ctx)
}

func subscribeTopics(t *testing.T, hub *pubsub.Hub) <-chan pubsub.Event[events.TopicEvent] {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return hub.Topic.Subscribe(ctx)
}

// drain collects whatever arrives on ch within a short window.
func drain[T any](ch <-chan pubsub.Event[T]) []T {
	var got []T
	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return got
			}
			got = append(got, e.Payload)
		case <-time.After(50 * time.Millisecond):
			return got
		}
	}
}

func twoMessages(topicID string) []*message.Message {
	now := time.Now()
	return []*message.Message{
		message.New(message.RoleUser, "a", topicID, "How do goroutines work?", now),
		message.New(message.RoleAssistant, "a", topicID, "They are scheduled by the runtime.", now),
	}
}
