package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/guilhermegouw/chatdesk/internal/debug"
	"github.com/guilhermegouw/chatdesk/internal/events"
	"github.com/guilhermegouw/chatdesk/internal/pubsub"
	"github.com/guilhermegouw/chatdesk/internal/topic"
)

const component = "session"

// Option configures a Service.
type Option func(*Service)

// WithStore persists the assistant after every successful mutation.
func WithStore(store topic.Store) Option {
	return func(s *Service) { s.store = store }
}

// WithHub publishes topic, chat, and generation events on the hub's brokers.
func WithHub(hub *pubsub.Hub) Option {
	return func(s *Service) { s.hub = hub }
}

// WithMessages sets the history source used by AutoRename.
func WithMessages(src MessageSource) Option {
	return func(s *Service) { s.messages = src }
}

// WithSummarizer sets the summarizer used by AutoRename.
func WithSummarizer(sum Summarizer) Option {
	return func(s *Service) { s.summarizer = sum }
}

// WithPrompter sets the dialog used by ManualRename.
func WithPrompter(p Prompter) Option {
	return func(s *Service) { s.prompter = p }
}

// WithNotifier sets where blocked-action warnings go.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithGateSubmissions makes Send reject drafts while generating.
func WithGateSubmissions(gate bool) Option {
	return func(s *Service) { s.gateSubmissions = gate }
}

// WithClock overrides the time source for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service coordinates one assistant's topics for a viewing session.
type Service struct { //nolint:govet // fieldalignment: preserving logical field order
	mu        sync.Mutex
	assistant *topic.Assistant
	active    string
	gate      Gate

	store           topic.Store
	hub             *pubsub.Hub
	messages        MessageSource
	summarizer      Summarizer
	prompter        Prompter
	notifier        Notifier
	gateSubmissions bool
	now             func() time.Time
}

// NewService creates a coordinator for the assistant, which must hold at
// least one topic. The first topic becomes active.
func NewService(assistant *topic.Assistant, opts ...Option) *Service {
	s := &Service{
		assistant:       assistant,
		gateSubmissions: true,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.healLocked()
	return s
}

// Assistant returns a snapshot of the assistant and its topics.
func (s *Service) Assistant() *topic.Assistant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assistant.Clone()
}

// Topics returns a snapshot of the topic sequence in display order.
func (s *Service) Topics() []*topic.Topic {
	return s.Assistant().Topics
}

// ActiveID returns the ID of the active topic.
func (s *Service) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Active returns a snapshot of the active topic.
func (s *Service) Active() *topic.Topic {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, _ := s.assistant.Get(s.active)
	c := *t
	return &c
}

// State reports whether the session is idle or generating.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gate.Engaged() {
		return Generating
	}
	return Idle
}

// Generating reports whether the generation gate is engaged.
func (s *Service) Generating() bool {
	return s.State() == Generating
}

// Engage closes the generation gate. It reports false if a generation is
// already in progress, in which case nothing changes.
func (s *Service) Engage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.gate.Engage() {
		debug.Event(component, "Engage", "already engaged")
		return false
	}
	s.publishGeneration(events.NewGenerationStartedEvent(s.assistant.ID, s.active))
	return true
}

// Release opens the generation gate. The pipeline calls it exactly once per
// successful Engage, whether generation succeeded, failed, or was cancelled.
func (s *Service) Release() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.gate.Release() {
		debug.Event(component, "Release", "not engaged")
		return false
	}
	s.publishGeneration(events.NewGenerationEndedEvent(s.assistant.ID, s.active))
	return true
}

// SetActive makes the topic with the given ID active. While a response is
// being generated the switch is refused and a warning is raised.
func (s *Service) SetActive(id string) error {
	s.mu.Lock()
	if s.gate.Engaged() {
		s.mu.Unlock()
		debug.Event(component, "SetActive", "refused while generating: "+id)
		s.warn(SwitchDisabledMessage, SwitchTopicKey)
		return ErrGenerating
	}
	defer s.mu.Unlock()

	t, ok := s.assistant.Get(id)
	if !ok {
		debug.Event(component, "SetActive", "unknown topic: "+id)
		return topic.ErrTopicNotFound
	}
	if s.active == id {
		return nil
	}

	s.active = id
	s.publishTopic(events.NewTopicSwitchedEvent(s.assistant.ID, t.ID, t.Name))
	return nil
}

// AddTopic appends a topic with the default name.
func (s *Service) AddTopic(ctx context.Context) (*topic.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := topic.New(s.assistant.ID)
	if err := s.assistant.Add(t); err != nil {
		return nil, fmt.Errorf("adding topic: %w", err)
	}
	s.publishTopic(events.NewTopicCreatedEvent(s.assistant.ID, t.ID, t.Name))

	c := *t
	return &c, s.persistLocked(ctx, "add topic")
}

// NewTopic adds a topic and makes it active. If a response is being
// generated the topic is still created but the switch is refused and
// ErrGenerating is returned alongside the new topic.
func (s *Service) NewTopic(ctx context.Context) (*topic.Topic, error) {
	t, err := s.AddTopic(ctx)
	if t == nil {
		return nil, err
	}
	if switchErr := s.SetActive(t.ID); switchErr != nil {
		return t, switchErr
	}
	return t, err
}

// DeleteTopic removes a topic. The last topic is never removed. Removing the
// active topic makes the first remaining topic active.
func (s *Service) DeleteTopic(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.assistant.Len() <= 1 {
		debug.Event(component, "DeleteTopic", "refused: last topic")
		return topic.ErrLastTopic
	}
	if err := s.assistant.Remove(id); err != nil {
		debug.Error(component, err, "DeleteTopic "+id)
		return err
	}
	s.publishTopic(events.NewTopicDeletedEvent(s.assistant.ID, id))
	s.healLocked()

	return s.persistLocked(ctx, "delete topic")
}

// RenameTopic renames a topic. It reports false without error when the name
// is blank or unchanged.
func (s *Service) RenameTopic(ctx context.Context, id, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed, err := s.assistant.Rename(id, name)
	if err != nil || !changed {
		return false, err
	}
	s.publishTopic(events.NewTopicRenamedEvent(s.assistant.ID, id, name))

	return true, s.persistLocked(ctx, "rename topic")
}

// ReorderTopics applies a full replacement order. ids must be a permutation
// of the current topic IDs.
func (s *Service) ReorderTopics(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.assistant.Reorder(ids); err != nil {
		debug.Error(component, err, "ReorderTopics")
		return err
	}
	s.publishTopic(events.NewTopicReorderedEvent(s.assistant.ID, s.assistant.IDs()))

	return s.persistLocked(ctx, "reorder topics")
}

// healLocked points the active topic back into the sequence after a
// mutation. An empty sequence cannot be healed and is fatal.
func (s *Service) healLocked() {
	if _, ok := s.assistant.Get(s.active); ok {
		return
	}

	first := s.assistant.First()
	if first == nil {
		panic(fmt.Errorf("session: assistant %s: %w", s.assistant.ID, topic.ErrEmptyAssistant))
	}

	s.active = first.ID
	s.publishTopic(events.NewTopicSwitchedEvent(s.assistant.ID, first.ID, first.Name))
}

func (s *Service) persistLocked(ctx context.Context, op string) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.SaveAssistant(ctx, s.assistant); err != nil {
		debug.Error(component, err, "persisting "+op)
		return &PersistError{Op: op, Err: err}
	}
	return nil
}

func (s *Service) warn(msg, key string) {
	if s.notifier != nil {
		s.notifier.Warn(msg, key)
	}
}

func (s *Service) publishTopic(e events.TopicEvent) {
	if s.hub == nil {
		return
	}
	s.hub.Topic.Publish(pubsub.TopicEventType(e), e)
}

func (s *Service) publishGeneration(e events.GenerationEvent) {
	if s.hub == nil {
		return
	}
	s.hub.Generation.Publish(pubsub.GenerationEventType(e), e)
}

// IsPersistError reports whether err is a recoverable persistence failure.
func IsPersistError(err error) bool {
	var pe *PersistError
	return errors.As(err, &pe)
}
