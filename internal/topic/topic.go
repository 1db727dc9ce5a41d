// Package topic provides assistants and the ordered topic lists they own.
//
// The mutation methods on Assistant are pure: they never perform I/O. Callers
// that need durability sequence a Store write after a successful mutation.
package topic

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultName is the placeholder name given to new topics.
const DefaultName = "Default Topic"

// Sentinel errors for topic list mutations.
var (
	ErrTopicNotFound   = errors.New("topic not found")
	ErrDuplicateTopic  = errors.New("topic already exists")
	ErrLastTopic       = errors.New("cannot remove the last topic")
	ErrReorderMismatch = errors.New("reorder must contain exactly the current topics")
	ErrEmptyAssistant  = errors.New("assistant has no topics")
)

// Topic is a named conversation thread within an assistant.
type Topic struct {
	ID          string
	AssistantID string
	Name        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// New creates a topic with a fresh ID and the default name.
func New(assistantID string) *Topic {
	now := time.Now()
	return &Topic{
		ID:          uuid.New().String(),
		AssistantID: assistantID,
		Name:        DefaultName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Assistant is a conversational persona owning an ordered list of topics.
type Assistant struct {
	ID     string
	Name   string
	Prompt string
	Topics []*Topic
}

// NewAssistant creates an assistant seeded with a single default topic.
func NewAssistant(name, prompt string) *Assistant {
	a := &Assistant{
		ID:     uuid.New().String(),
		Name:   name,
		Prompt: prompt,
	}
	a.Topics = []*Topic{New(a.ID)}
	return a
}

// Len returns the number of topics.
func (a *Assistant) Len() int {
	return len(a.Topics)
}

// First returns the first topic, or nil if there are none.
func (a *Assistant) First() *Topic {
	if len(a.Topics) == 0 {
		return nil
	}
	return a.Topics[0]
}

// Index returns the position of the topic with the given ID, or -1.
func (a *Assistant) Index(id string) int {
	for i, t := range a.Topics {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Get returns the topic with the given ID.
func (a *Assistant) Get(id string) (*Topic, bool) {
	if i := a.Index(id); i >= 0 {
		return a.Topics[i], true
	}
	return nil, false
}

// IDs returns topic IDs in display order.
func (a *Assistant) IDs() []string {
	ids := make([]string, len(a.Topics))
	for i, t := range a.Topics {
		ids[i] = t.ID
	}
	return ids
}

// Add appends a topic to the end of the list.
func (a *Assistant) Add(t *Topic) error {
	if a.Index(t.ID) >= 0 {
		return ErrDuplicateTopic
	}
	t.AssistantID = a.ID
	a.Topics = append(a.Topics, t)
	return nil
}

// Remove deletes the topic with the given ID.
// The last remaining topic is never removed.
func (a *Assistant) Remove(id string) error {
	i := a.Index(id)
	if i < 0 {
		return ErrTopicNotFound
	}
	if len(a.Topics) == 1 {
		return ErrLastTopic
	}
	a.Topics = append(a.Topics[:i:i], a.Topics[i+1:]...)
	return nil
}

// Rename sets a topic's name. It reports false when the name is blank or
// unchanged, in which case nothing is modified.
func (a *Assistant) Rename(id, name string) (bool, error) {
	t, ok := a.Get(id)
	if !ok {
		return false, ErrTopicNotFound
	}
	if strings.TrimSpace(name) == "" || name == t.Name {
		return false, nil
	}
	t.Name = name
	t.UpdatedAt = time.Now()
	return true, nil
}

// Reorder replaces the display order. ids must be a permutation of the
// current topic IDs.
func (a *Assistant) Reorder(ids []string) error {
	if len(ids) != len(a.Topics) {
		return ErrReorderMismatch
	}

	byID := make(map[string]*Topic, len(a.Topics))
	for _, t := range a.Topics {
		byID[t.ID] = t
	}

	ordered := make([]*Topic, 0, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return ErrReorderMismatch
		}
		delete(byID, id) // a repeated id is a mismatch too
		ordered = append(ordered, t)
	}

	a.Topics = ordered
	return nil
}

// Clone returns a deep copy safe to hand to other goroutines.
func (a *Assistant) Clone() *Assistant {
	c := &Assistant{
		ID:     a.ID,
		Name:   a.Name,
		Prompt: a.Prompt,
		Topics: make([]*Topic, len(a.Topics)),
	}
	for i, t := range a.Topics {
		tc := *t
		c.Topics[i] = &tc
	}
	return c
}
