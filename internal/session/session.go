// Package session coordinates the topics of one assistant for a viewing
// session: which topic is active, whether a response is being generated,
// and how user drafts become submitted messages.
//
// A Service serializes every mutation and gate transition behind a single
// mutex. Calls to the summarizer, the prompt dialog, and the generation
// pipeline happen outside that lock; their results are applied afterwards
// as discrete steps.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/guilhermegouw/chatdesk/internal/message"
	"github.com/guilhermegouw/chatdesk/internal/topic"
)

// Sentinel errors returned by Service.
var (
	ErrGenerating = errors.New("a response is being generated")
	ErrEmptyDraft = errors.New("draft is empty")
)

// Warning shown when the user tries to switch topics mid-generation.
// SwitchTopicKey is constant so repeated attempts collapse into one notice.
const (
	SwitchDisabledMessage = "Cannot switch topics while a response is being generated"
	SwitchTopicKey        = "switch-topic"
)

// MessageSource loads the stored history of a topic, oldest first.
type MessageSource interface {
	GetByTopic(ctx context.Context, topicID string) ([]*message.Message, error)
}

// Summarizer produces a short topic name from a conversation.
// An empty result means no suggestion.
type Summarizer interface {
	Summarize(ctx context.Context, msgs []*message.Message, assistant *topic.Assistant) (string, error)
}

// PromptRequest describes a single-line text prompt.
type PromptRequest struct {
	Title        string
	Message      string
	DefaultValue string
}

// Prompter asks the user for a line of text. Cancellation returns an empty
// string or an error; both are treated as no answer.
type Prompter interface {
	Prompt(ctx context.Context, req PromptRequest) (string, error)
}

// Notifier raises user-visible warnings. Warnings sharing a key are
// deduplicated by the implementation.
type Notifier interface {
	Warn(message, key string)
}

// State is the generation state of a session.
type State int

// Session states.
const (
	Idle State = iota
	Generating
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Generating:
		return "generating"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// PersistError reports that a mutation was applied in memory but could not
// be written to the store. The session stays usable; a later successful
// write persists the accumulated state.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persisting %s: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
