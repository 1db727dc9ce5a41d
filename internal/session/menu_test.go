package session

import (
	"errors"
	"testing"

	"github.com/guilhermegouw/chatdesk/internal/topic"
)

func TestMenuFor(t *testing.T) {
	t.Run("single topic never offers delete", func(t *testing.T) {
		items := MenuFor(1)

		if HasAction(items, ActionDelete) || HasAction(items, ActionSeparator) {
			t.Errorf("MenuFor(1) = %v, want no delete", items)
		}
		if len(items) != 2 || items[0].Action != ActionAutoRename || items[1].Action != ActionRename {
			t.Errorf("MenuFor(1) = %v, want [auto_rename rename]", items)
		}
	})

	t.Run("delete follows a separator when more topics exist", func(t *testing.T) {
		for _, n := range []int{2, 5} {
			items := MenuFor(n)

			want := []MenuAction{ActionAutoRename, ActionRename, ActionSeparator, ActionDelete}
			if len(items) != len(want) {
				t.Fatalf("MenuFor(%d) = %v", n, items)
			}
			for i, a := range want {
				if items[i].Action != a {
					t.Errorf("MenuFor(%d)[%d] = %q, want %q", n, i, items[i].Action, a)
				}
			}
		}
	})
}

func TestService_Menu(t *testing.T) {
	svc, _ := newTestService(t, 2)
	ids := svc.Assistant().IDs()

	items, err := svc.Menu(ids[0])
	if err != nil {
		t.Fatalf("Menu() error = %v", err)
	}
	if !HasAction(items, ActionDelete) {
		t.Error("Menu() with 2 topics should offer delete")
	}

	if _, err := svc.Menu("missing"); !errors.Is(err, topic.ErrTopicNotFound) {
		t.Errorf("Menu(missing) error = %v, want %v", err, topic.ErrTopicNotFound)
	}
}
