package session

import (
	"context"
	"errors"
	"testing"

	"github.com/guilhermegouw/chatdesk/internal/events"
	"github.com/guilhermegouw/chatdesk/internal/topic"
)

func TestScenario_NewTopicSendSwitchDelete(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{}
	svc, hub := newTestService(t, 1, WithNotifier(notifier))
	chat := subscribeChat(t, hub)

	t1 := svc.ActiveID()
	if got := svc.Active().Name; got != topic.DefaultName {
		t.Fatalf("T1 name = %q, want %q", got, topic.DefaultName)
	}

	// New topic via shortcut.
	t2, err := svc.NewTopic(ctx)
	if err != nil {
		t.Fatalf("NewTopic() error = %v", err)
	}
	if svc.ActiveID() != t2.ID {
		t.Fatalf("active = %q, want T2 %q", svc.ActiveID(), t2.ID)
	}
	if ids := svc.Assistant().IDs(); len(ids) != 2 || ids[0] != t1 || ids[1] != t2.ID {
		t.Fatalf("sequence = %v, want [T1 T2]", ids)
	}

	// Submit "hi".
	msg, err := svc.Send(&TextDraft{Text: "hi"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	got := drain(chat)
	if len(got) != 1 || got[0].Type != events.ChatEventMessageSubmitted {
		t.Fatalf("chat events = %+v, want one MessageSubmitted", got)
	}
	if got[0].Message.TopicID != t1 || msg.Content != "hi" {
		t.Errorf("submitted topic/text = %q/%q, want %q/%q", got[0].Message.TopicID, msg.Content, t1, "hi")
	}

	// Generation engages; switching is refused with one warning.
	svc.Engage()
	if err := svc.SetActive(t1); !errors.Is(err, ErrGenerating) {
		t.Fatalf("SetActive() error = %v, want %v", err, ErrGenerating)
	}
	if svc.ActiveID() != t2.ID {
		t.Errorf("active = %q, want T2", svc.ActiveID())
	}
	if notifier.count() != 1 {
		t.Errorf("warnings = %d, want 1", notifier.count())
	}

	// Generation releases; switching succeeds.
	svc.Release()
	if err := svc.SetActive(t1); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	if svc.ActiveID() != t1 {
		t.Errorf("active = %q, want T1", svc.ActiveID())
	}

	// Remove T2; delete is no longer offered.
	if err := svc.DeleteTopic(ctx, t2.ID); err != nil {
		t.Fatalf("DeleteTopic() error = %v", err)
	}
	if ids := svc.Assistant().IDs(); len(ids) != 1 || ids[0] != t1 {
		t.Errorf("sequence = %v, want [T1]", ids)
	}
	items, err := svc.Menu(t1)
	if err != nil {
		t.Fatalf("Menu() error = %v", err)
	}
	if HasAction(items, ActionDelete) {
		t.Error("delete offered for the last topic")
	}
}
