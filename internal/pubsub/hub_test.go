package pubsub

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/guilhermegouw/chatdesk/internal/events"
)

func TestNewHub(t *testing.T) {
	hub := NewHub()
	defer hub.Shutdown()

	if hub.Topic == nil || hub.Chat == nil || hub.Generation == nil || hub.Notice == nil {
		t.Fatal("all brokers should be initialized")
	}

	want := []string{"chat", "generation", "notice", "topic"}
	got := hub.registry.List()
	if len(got) != len(want) {
		t.Fatalf("registry.List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("registry.List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestHub_ChatDoesNotDrop(t *testing.T) {
	hub := NewHub()
	defer hub.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := hub.Chat.Subscribe(ctx)

	const n = ChatBufferSize + 10
	go func() {
		for range n {
			hub.Chat.Publish(EventCreated, events.NewTopicClearedEvent("a", "t"))
		}
	}()

	for i := range n {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("event %d never arrived", i)
		}
	}
	if drops := hub.Chat.Metrics().DropCount; drops != 0 {
		t.Errorf("DropCount = %d, want 0", drops)
	}
}

func TestHub_Shutdown(t *testing.T) {
	hub := NewHub()

	hub.Shutdown()
	hub.Shutdown()

	if !hub.Topic.IsShutdown() || !hub.Chat.IsShutdown() ||
		!hub.Generation.IsShutdown() || !hub.Notice.IsShutdown() {
		t.Error("every broker should be shut down")
	}
}

func TestHub_DebugString(t *testing.T) {
	hub := NewHub()
	defer hub.Shutdown()

	_ = hub.Notice.Subscribe(context.Background())
	hub.Notice.Publish(EventCreated, events.NewWarnNotice("x", "k"))
	hub.Notice.Publish(EventCreated, events.NewWarnNotice("y", "k"))

	s := hub.DebugString()
	if !strings.Contains(s, "notice") || !strings.Contains(s, "published=2") {
		t.Errorf("DebugString() = %q, want notice with published=2", s)
	}
}
