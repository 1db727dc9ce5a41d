package session

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/guilhermegouw/chatdesk/internal/events"
	"github.com/guilhermegouw/chatdesk/internal/topic"
)

func TestNewService(t *testing.T) {
	svc, _ := newTestService(t, 3)

	if got, want := svc.ActiveID(), svc.Assistant().First().ID; got != want {
		t.Errorf("ActiveID() = %q, want first topic %q", got, want)
	}
	if svc.State() != Idle {
		t.Errorf("State() = %v, want %v", svc.State(), Idle)
	}
}

func TestNewService_PanicsOnEmptyAssistant(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, topic.ErrEmptyAssistant) {
			t.Errorf("recover() = %v, want %v", r, topic.ErrEmptyAssistant)
		}
	}()

	NewService(&topic.Assistant{ID: "empty"})
}

func TestService_SetActive(t *testing.T) {
	t.Run("switches when idle", func(t *testing.T) {
		svc, hub := newTestService(t, 2)
		topicEvents := subscribeTopics(t, hub)
		target := svc.Assistant().Topics[1]

		if err := svc.SetActive(target.ID); err != nil {
			t.Fatalf("SetActive() error = %v", err)
		}
		if svc.ActiveID() != target.ID {
			t.Errorf("ActiveID() = %q, want %q", svc.ActiveID(), target.ID)
		}
		if svc.Active().Name != target.Name {
			t.Errorf("Active().Name = %q, want %q", svc.Active().Name, target.Name)
		}

		got := drain(topicEvents)
		if len(got) != 1 || got[0].Type != events.TopicEventSwitched || got[0].TopicID != target.ID {
			t.Errorf("topic events = %+v, want one switch to %s", got, target.ID)
		}
	})

	t.Run("unknown topic", func(t *testing.T) {
		svc, _ := newTestService(t, 1)
		before := svc.ActiveID()

		if err := svc.SetActive("missing"); !errors.Is(err, topic.ErrTopicNotFound) {
			t.Fatalf("SetActive() error = %v, want %v", err, topic.ErrTopicNotFound)
		}
		if svc.ActiveID() != before {
			t.Error("active topic changed")
		}
	})

	t.Run("refused while generating with one warning per call", func(t *testing.T) {
		notifier := &fakeNotifier{}
		svc, _ := newTestService(t, 3, WithNotifier(notifier))
		ids := svc.Assistant().IDs()
		before := svc.ActiveID()

		if !svc.Engage() {
			t.Fatal("Engage() = false")
		}

		for i, id := range []string{ids[1], ids[2], ids[1]} {
			if err := svc.SetActive(id); !errors.Is(err, ErrGenerating) {
				t.Fatalf("SetActive() error = %v, want %v", err, ErrGenerating)
			}
			if svc.ActiveID() != before {
				t.Fatalf("ActiveID() = %q, want unchanged %q", svc.ActiveID(), before)
			}
			if notifier.count() != i+1 {
				t.Fatalf("warnings = %d, want %d", notifier.count(), i+1)
			}
		}

		for _, w := range notifier.warnings {
			if w.key != SwitchTopicKey {
				t.Errorf("warning key = %q, want %q", w.key, SwitchTopicKey)
			}
			if w.message != SwitchDisabledMessage {
				t.Errorf("warning message = %q, want %q", w.message, SwitchDisabledMessage)
			}
		}

		svc.Release()
		if err := svc.SetActive(ids[1]); err != nil {
			t.Fatalf("SetActive() after Release error = %v", err)
		}
		if notifier.count() != 3 {
			t.Errorf("warnings = %d, want 3", notifier.count())
		}
	})
}

func TestService_EngageRelease(t *testing.T) {
	svc, hub := newTestService(t, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gen := hub.Generation.Subscribe(ctx)

	if !svc.Engage() {
		t.Fatal("Engage() = false")
	}
	if svc.Engage() {
		t.Error("second Engage() = true")
	}
	if svc.State() != Generating || !svc.Generating() {
		t.Errorf("State() = %v, want %v", svc.State(), Generating)
	}
	if !svc.Release() {
		t.Fatal("Release() = false")
	}
	if svc.Release() {
		t.Error("second Release() = true")
	}
	if svc.State() != Idle {
		t.Errorf("State() = %v, want %v", svc.State(), Idle)
	}

	got := drain(gen)
	if len(got) != 2 || got[0].Type != events.GenerationEventStarted || got[1].Type != events.GenerationEventEnded {
		t.Errorf("generation events = %+v, want started then ended", got)
	}
}

func TestService_SetActiveAtomicWithRelease(t *testing.T) {
	notifier := &fakeNotifier{}
	svc, _ := newTestService(t, 2, WithNotifier(notifier))
	target := svc.Assistant().Topics[1].ID

	for range 50 {
		if err := svc.SetActive(svc.Assistant().First().ID); err != nil {
			t.Fatalf("reset SetActive() error = %v", err)
		}
		svc.Engage()

		var (
			wg  sync.WaitGroup
			err error
		)
		wg.Add(2)
		go func() { defer wg.Done(); svc.Release() }()
		go func() { defer wg.Done(); err = svc.SetActive(target) }()
		wg.Wait()

		switched := svc.ActiveID() == target
		switch {
		case err == nil && !switched:
			t.Fatal("SetActive() succeeded without switching")
		case errors.Is(err, ErrGenerating) && switched:
			t.Fatal("SetActive() refused but switched")
		}
	}
}

func TestService_AddAndNewTopic(t *testing.T) {
	t.Run("add appends without switching", func(t *testing.T) {
		svc, _ := newTestService(t, 1)
		before := svc.ActiveID()

		tp, err := svc.AddTopic(context.Background())
		if err != nil {
			t.Fatalf("AddTopic() error = %v", err)
		}
		if tp.Name != topic.DefaultName {
			t.Errorf("Name = %q, want %q", tp.Name, topic.DefaultName)
		}
		if ids := svc.Assistant().IDs(); ids[len(ids)-1] != tp.ID {
			t.Errorf("new topic not last: %v", ids)
		}
		if svc.ActiveID() != before {
			t.Error("AddTopic() changed the active topic")
		}
	})

	t.Run("new topic becomes active", func(t *testing.T) {
		svc, _ := newTestService(t, 1)

		tp, err := svc.NewTopic(context.Background())
		if err != nil {
			t.Fatalf("NewTopic() error = %v", err)
		}
		if svc.ActiveID() != tp.ID {
			t.Errorf("ActiveID() = %q, want %q", svc.ActiveID(), tp.ID)
		}
	})

	t.Run("new topic while generating is created but not activated", func(t *testing.T) {
		notifier := &fakeNotifier{}
		svc, _ := newTestService(t, 1, WithNotifier(notifier))
		before := svc.ActiveID()
		svc.Engage()

		tp, err := svc.NewTopic(context.Background())
		if !errors.Is(err, ErrGenerating) {
			t.Fatalf("NewTopic() error = %v, want %v", err, ErrGenerating)
		}
		if tp == nil || svc.Assistant().Len() != 2 {
			t.Fatal("topic should still be created")
		}
		if svc.ActiveID() != before {
			t.Error("active topic changed while generating")
		}
		if notifier.count() != 1 {
			t.Errorf("warnings = %d, want 1", notifier.count())
		}
	})
}

func TestService_DeleteTopic(t *testing.T) {
	t.Run("deleting the active topic activates the first", func(t *testing.T) {
		for _, pos := range []int{0, 1, 2} {
			svc, _ := newTestService(t, 3)
			ids := svc.Assistant().IDs()
			if err := svc.SetActive(ids[pos]); err != nil {
				t.Fatalf("SetActive() error = %v", err)
			}

			if err := svc.DeleteTopic(context.Background(), ids[pos]); err != nil {
				t.Fatalf("DeleteTopic() error = %v", err)
			}
			if got, want := svc.ActiveID(), svc.Assistant().First().ID; got != want {
				t.Errorf("pos %d: ActiveID() = %q, want first %q", pos, got, want)
			}
		}
	})

	t.Run("deleting another topic keeps the active one", func(t *testing.T) {
		svc, _ := newTestService(t, 3)
		ids := svc.Assistant().IDs()
		if err := svc.SetActive(ids[2]); err != nil {
			t.Fatalf("SetActive() error = %v", err)
		}

		if err := svc.DeleteTopic(context.Background(), ids[0]); err != nil {
			t.Fatalf("DeleteTopic() error = %v", err)
		}
		if svc.ActiveID() != ids[2] {
			t.Errorf("ActiveID() = %q, want %q", svc.ActiveID(), ids[2])
		}
	})

	t.Run("deleting the active topic while generating still heals", func(t *testing.T) {
		svc, _ := newTestService(t, 2)
		ids := svc.Assistant().IDs()
		if err := svc.SetActive(ids[1]); err != nil {
			t.Fatalf("SetActive() error = %v", err)
		}
		svc.Engage()

		if err := svc.DeleteTopic(context.Background(), ids[1]); err != nil {
			t.Fatalf("DeleteTopic() error = %v", err)
		}
		if svc.ActiveID() != ids[0] {
			t.Errorf("ActiveID() = %q, want %q", svc.ActiveID(), ids[0])
		}
		if svc.State() != Generating {
			t.Errorf("State() = %v, want %v", svc.State(), Generating)
		}
	})

	t.Run("last topic survives", func(t *testing.T) {
		svc, _ := newTestService(t, 1)
		id := svc.ActiveID()

		for range 3 {
			if err := svc.DeleteTopic(context.Background(), id); !errors.Is(err, topic.ErrLastTopic) {
				t.Fatalf("DeleteTopic() error = %v, want %v", err, topic.ErrLastTopic)
			}
		}
		if svc.Assistant().Len() != 1 || svc.ActiveID() != id {
			t.Error("last topic was removed")
		}
	})

	t.Run("publishes delete and switch", func(t *testing.T) {
		svc, hub := newTestService(t, 2)
		ids := svc.Assistant().IDs()
		topicEvents := subscribeTopics(t, hub)

		if err := svc.DeleteTopic(context.Background(), ids[0]); err != nil {
			t.Fatalf("DeleteTopic() error = %v", err)
		}

		got := drain(topicEvents)
		if len(got) != 2 {
			t.Fatalf("topic events = %+v, want 2", got)
		}
		if got[0].Type != events.TopicEventDeleted || got[1].Type != events.TopicEventSwitched {
			t.Errorf("event types = %q, %q, want deleted, switched", got[0].Type, got[1].Type)
		}
		if got[1].TopicID != ids[1] {
			t.Errorf("switched to %q, want %q", got[1].TopicID, ids[1])
		}
	})
}

func TestService_ReorderTopics(t *testing.T) {
	svc, _ := newTestService(t, 3)
	ids := svc.Assistant().IDs()
	ctx := context.Background()

	perm := []string{ids[2], ids[0], ids[1]}
	if err := svc.ReorderTopics(ctx, perm); err != nil {
		t.Fatalf("ReorderTopics() error = %v", err)
	}
	if got := svc.Assistant().IDs(); !slices.Equal(got, perm) {
		t.Errorf("IDs() = %v, want %v", got, perm)
	}

	if err := svc.ReorderTopics(ctx, []string{ids[0], ids[1]}); !errors.Is(err, topic.ErrReorderMismatch) {
		t.Fatalf("ReorderTopics() error = %v, want %v", err, topic.ErrReorderMismatch)
	}
	if got := svc.Assistant().IDs(); !slices.Equal(got, perm) {
		t.Errorf("IDs() = %v, want unchanged %v", got, perm)
	}
}

func TestService_Persistence(t *testing.T) {
	t.Run("every mutation is saved", func(t *testing.T) {
		store := &fakeStore{}
		svc, _ := newTestService(t, 1, WithStore(store))
		ctx := context.Background()

		tp, err := svc.AddTopic(ctx)
		if err != nil {
			t.Fatalf("AddTopic() error = %v", err)
		}
		if _, err := svc.RenameTopic(ctx, tp.ID, "Renamed"); err != nil {
			t.Fatalf("RenameTopic() error = %v", err)
		}
		ids := svc.Assistant().IDs()
		if err := svc.ReorderTopics(ctx, []string{ids[1], ids[0]}); err != nil {
			t.Fatalf("ReorderTopics() error = %v", err)
		}
		if err := svc.DeleteTopic(ctx, ids[0]); err != nil {
			t.Fatalf("DeleteTopic() error = %v", err)
		}

		if store.saves != 4 {
			t.Errorf("saves = %d, want 4", store.saves)
		}
		if got := store.last.IDs(); !slices.Equal(got, []string{ids[1]}) {
			t.Errorf("saved IDs = %v, want %v", got, []string{ids[1]})
		}
	})

	t.Run("no-op mutations are not saved", func(t *testing.T) {
		store := &fakeStore{}
		svc, _ := newTestService(t, 1, WithStore(store))
		ctx := context.Background()

		if _, err := svc.RenameTopic(ctx, svc.ActiveID(), "  "); err != nil {
			t.Fatalf("RenameTopic() error = %v", err)
		}
		if err := svc.DeleteTopic(ctx, svc.ActiveID()); !errors.Is(err, topic.ErrLastTopic) {
			t.Fatalf("DeleteTopic() error = %v, want %v", err, topic.ErrLastTopic)
		}
		if err := svc.ReorderTopics(ctx, []string{"x"}); !errors.Is(err, topic.ErrReorderMismatch) {
			t.Fatalf("ReorderTopics() error = %v, want %v", err, topic.ErrReorderMismatch)
		}

		if store.saves != 0 {
			t.Errorf("saves = %d, want 0", store.saves)
		}
	})

	t.Run("failure is recoverable and keeps the mutation", func(t *testing.T) {
		store := &fakeStore{err: errStore}
		svc, _ := newTestService(t, 1, WithStore(store))

		tp, err := svc.AddTopic(context.Background())
		var pe *PersistError
		if !errors.As(err, &pe) {
			t.Fatalf("AddTopic() error = %v, want *PersistError", err)
		}
		if !errors.Is(err, errStore) || !IsPersistError(err) {
			t.Errorf("error %v should wrap %v", err, errStore)
		}
		if pe.Op != "add topic" {
			t.Errorf("Op = %q, want %q", pe.Op, "add topic")
		}
		if tp == nil || svc.Assistant().Len() != 2 {
			t.Error("in-memory mutation should be kept")
		}
	})
}

func TestService_ConcurrentMutations(t *testing.T) {
	svc, _ := newTestService(t, 1)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tp, err := svc.AddTopic(ctx)
			if err != nil {
				t.Errorf("AddTopic() error = %v", err)
				return
			}
			// Outcomes race on purpose; only the final invariant matters.
			_ = svc.SetActive(tp.ID)
			_ = svc.DeleteTopic(ctx, tp.ID)
			_, _ = svc.RenameTopic(ctx, tp.ID, "x")
		}()
	}
	wg.Wait()

	a := svc.Assistant()
	if a.Len() != 1 {
		t.Errorf("Len() = %d, want 1", a.Len())
	}
	if _, ok := a.Get(svc.ActiveID()); !ok {
		t.Error("active topic is not a member of the sequence")
	}
}

func TestLoadAssistant(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a default assistant", func(t *testing.T) {
		store := &fakeStore{}

		a, err := LoadAssistant(ctx, store, "Helper", "be brief")
		if err != nil {
			t.Fatalf("LoadAssistant() error = %v", err)
		}
		if a.Len() != 1 || a.First().Name != topic.DefaultName {
			t.Errorf("topics = %+v, want one default topic", a.Topics)
		}
		if store.saves != 1 {
			t.Errorf("saves = %d, want 1", store.saves)
		}
	})

	t.Run("propagates store failure", func(t *testing.T) {
		store := &fakeStore{err: errStore}

		if _, err := LoadAssistant(ctx, store, "Helper", ""); !errors.Is(err, errStore) {
			t.Errorf("LoadAssistant() error = %v, want %v", err, errStore)
		}
	})
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
