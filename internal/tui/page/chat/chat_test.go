package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/guilhermegouw/chatdesk/internal/bridge"
	"github.com/guilhermegouw/chatdesk/internal/events"
	"github.com/guilhermegouw/chatdesk/internal/keys"
	"github.com/guilhermegouw/chatdesk/internal/message"
	"github.com/guilhermegouw/chatdesk/internal/pubsub"
	"github.com/guilhermegouw/chatdesk/internal/session"
	"github.com/guilhermegouw/chatdesk/internal/topic"
	"github.com/guilhermegouw/chatdesk/internal/tui/util"
)

type fakeHistory struct {
	msgs map[string][]*message.Message
	err  error
}

func (f *fakeHistory) GetByTopic(_ context.Context, topicID string) ([]*message.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.msgs[topicID], nil
}

func enter() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyEnter}
}

func shiftEnter() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModShift}
}

type fixture struct {
	page    *Model
	svc     *session.Service
	hub     *pubsub.Hub
	history *fakeHistory
}

func newFixture(t *testing.T, mode keys.SendShortcut) *fixture {
	t.Helper()
	hub := pubsub.NewHub()
	t.Cleanup(hub.Shutdown)

	assistant := topic.NewAssistant("Helper", "")
	svc := session.NewService(assistant, session.WithHub(hub))
	history := &fakeHistory{msgs: map[string][]*message.Message{}}

	page := New(svc, history, keys.NewPolicy(mode))
	page.SetSize(80, 24)
	return &fixture{page: page, svc: svc, hub: hub, history: history}
}

func TestSubmitSendsDraft(t *testing.T) {
	f := newFixture(t, keys.SendEnter)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := f.hub.Chat.Subscribe(ctx)

	f.page.composer.SetValue("hello")
	f.page.Update(enter())

	select {
	case ev := <-sub:
		if ev.Payload.Type != events.ChatEventMessageSubmitted {
			t.Errorf("Type = %q, want %q", ev.Payload.Type, events.ChatEventMessageSubmitted)
		}
		if ev.Payload.Message.Content != "hello" {
			t.Errorf("Content = %q, want %q", ev.Payload.Message.Content, "hello")
		}
	case <-time.After(time.Second):
		t.Fatal("no chat event published")
	}
	if got := f.page.composer.Value(); got != "" {
		t.Errorf("composer = %q, want empty after send", got)
	}
}

func TestShiftEnterMode(t *testing.T) {
	f := newFixture(t, keys.SendShiftEnter)

	f.page.composer.SetValue("hello")
	f.page.Update(enter())
	if got := f.page.composer.Value(); got != "hello\n" {
		t.Errorf("after enter composer = %q, want %q", got, "hello\n")
	}

	f.page.Update(shiftEnter())
	if got := f.page.composer.Value(); got != "" {
		t.Errorf("after shift+enter composer = %q, want empty", got)
	}
}

func TestSetPolicy(t *testing.T) {
	f := newFixture(t, keys.SendEnter)
	f.page.SetPolicy(keys.NewPolicy(keys.SendShiftEnter))

	if f.page.Policy().Mode() != keys.SendShiftEnter {
		t.Errorf("Mode() = %q, want %q", f.page.Policy().Mode(), keys.SendShiftEnter)
	}
	if !strings.Contains(f.page.View(), "shift+enter to send") {
		t.Error("status bar should show the new send key")
	}
}

func TestSubmitEmptyDraft(t *testing.T) {
	f := newFixture(t, keys.SendEnter)
	f.page.composer.SetValue("   ")

	_, cmd := f.page.Update(enter())
	if cmd != nil {
		t.Error("blank draft should produce no command")
	}
	if got := f.page.composer.Value(); got != "   " {
		t.Errorf("composer = %q, want draft kept", got)
	}
}

func TestSubmitWhileGenerating(t *testing.T) {
	f := newFixture(t, keys.SendEnter)
	if !f.svc.Engage() {
		t.Fatal("Engage() = false")
	}

	f.page.composer.SetValue("hi")
	_, cmd := f.page.Update(enter())
	if cmd == nil {
		t.Fatal("expected a warning command")
	}
	info, ok := cmd().(util.InfoMsg)
	if !ok || info.Type != util.InfoTypeWarn || info.Key != sendBusyKey {
		t.Errorf("cmd() = %#v, want busy warning", info)
	}
	if got := f.page.composer.Value(); got != "hi" {
		t.Errorf("composer = %q, want draft kept", got)
	}
}

func TestSubmitSlashCommand(t *testing.T) {
	f := newFixture(t, keys.SendEnter)
	f.page.composer.SetValue("/new")

	_, cmd := f.page.Update(enter())
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(NewTopicCmdMsg); !ok {
		t.Errorf("cmd() = %T, want NewTopicCmdMsg", cmd())
	}
	if got := f.page.composer.Value(); got != "" {
		t.Errorf("composer = %q, want empty", got)
	}
}

func TestTranscriptLoading(t *testing.T) {
	f := newFixture(t, keys.SendEnter)
	active := f.svc.ActiveID()
	msg := message.New(message.RoleUser, "a", active, "stored question", time.Now())
	f.history.msgs[active] = []*message.Message{msg}

	cmd := f.page.ShowTopic(active)
	f.page.Update(cmd())
	if got := len(f.page.Transcript().Messages()); got != 1 {
		t.Fatalf("messages = %d, want 1", got)
	}
	if !strings.Contains(f.page.View(), "stored question") {
		t.Error("View() missing stored message")
	}

	t.Run("other topic ignored", func(t *testing.T) {
		f.page.Update(TranscriptLoadedMsg{TopicID: "other"})
		if got := len(f.page.Transcript().Messages()); got != 1 {
			t.Errorf("messages = %d, want 1", got)
		}
	})

	t.Run("load error", func(t *testing.T) {
		f.history.err = errors.New("disk gone")
		f.page.Update(f.page.ShowTopic(active)())
		if !strings.Contains(f.page.View(), "disk gone") {
			t.Error("View() should show the load error")
		}
	})
}

func generation(e events.GenerationEvent) bridge.GenerationEventMsg {
	return bridge.GenerationEventMsg{Event: pubsub.Event[events.GenerationEvent]{Payload: e}}
}

func TestGenerationEvents(t *testing.T) {
	f := newFixture(t, keys.SendEnter)
	active := f.svc.ActiveID()
	f.page.ShowTopic(active)

	f.page.Update(generation(events.NewGenerationStartedEvent("a", active)))
	if !f.page.Status().Generating() {
		t.Error("status should be generating after Started")
	}

	f.page.Update(generation(events.NewTextDeltaEvent(active, "r1", "Hel")))
	f.page.Update(generation(events.NewTextDeltaEvent(active, "r1", "lo")))
	f.page.Update(generation(events.NewTextDeltaEvent("elsewhere", "r2", "ignored")))
	if got := f.page.Transcript().Streaming(); got != "Hello" {
		t.Errorf("Streaming() = %q, want %q", got, "Hello")
	}

	_, cmd := f.page.Update(generation(events.NewCompleteEvent(active, "r1", "Hello")))
	if cmd == nil {
		t.Error("Complete should reload the transcript")
	}
	if got := f.page.Transcript().Streaming(); got != "" {
		t.Errorf("Streaming() after Complete = %q, want empty", got)
	}

	f.page.Update(generation(events.NewGenerationEndedEvent("a", active)))
	if f.page.Status().Generating() {
		t.Error("status should be ready after Ended")
	}
}

func TestGenerationError(t *testing.T) {
	f := newFixture(t, keys.SendEnter)
	active := f.svc.ActiveID()
	f.page.ShowTopic(active)

	f.page.Update(generation(events.NewGenerationStartedEvent("a", active)))
	f.page.Update(generation(events.NewErrorEvent(active, "r1", errors.New("rate limited"))))
	f.page.Update(generation(events.NewGenerationEndedEvent("a", active)))

	if !strings.Contains(f.page.View(), "rate limited") {
		t.Error("error should stay visible after the gate is released")
	}
}

func TestSubmitSlashPathIsSent(t *testing.T) {
	f := newFixture(t, keys.SendEnter)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := f.hub.Chat.Subscribe(ctx)

	const draft = "/etc/hosts is missing an entry"
	f.page.composer.SetValue(draft)
	f.page.Update(enter())

	select {
	case ev := <-sub:
		if ev.Payload.Type != events.ChatEventMessageSubmitted {
			t.Errorf("Type = %q, want %q", ev.Payload.Type, events.ChatEventMessageSubmitted)
		}
		if ev.Payload.Message.Content != draft {
			t.Errorf("Content = %q, want %q", ev.Payload.Message.Content, draft)
		}
	case <-time.After(time.Second):
		t.Fatal("no chat event published")
	}
}

func TestSubmitRegisteredCommand(t *testing.T) {
	f := newFixture(t, keys.SendEnter)

	f.page.composer.SetValue("/new")
	_, cmd := f.page.Update(enter())
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(NewTopicCmdMsg); !ok {
		t.Errorf("msg = %T, want NewTopicCmdMsg", cmd())
	}
	if got := f.page.composer.Value(); got != "" {
		t.Errorf("composer = %q, want empty", got)
	}
}
