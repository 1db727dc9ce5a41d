package session

import (
	"strings"

	"github.com/google/uuid"

	"github.com/guilhermegouw/chatdesk/internal/debug"
	"github.com/guilhermegouw/chatdesk/internal/events"
	"github.com/guilhermegouw/chatdesk/internal/message"
	"github.com/guilhermegouw/chatdesk/internal/pubsub"
)

// Draft is an input buffer holding unsent text. *textarea.Model from
// bubbles satisfies it.
type Draft interface {
	Value() string
	Reset()
}

// TextDraft is a Draft backed by a plain string.
type TextDraft struct {
	Text string
}

// Value returns the buffered text.
func (d *TextDraft) Value() string { return d.Text }

// Reset empties the buffer.
func (d *TextDraft) Reset() { d.Text = "" }

// Send turns the draft into a user message and publishes it for the
// generation pipeline. A draft that is blank after trimming is rejected with
// ErrEmptyDraft. The draft is reset only on success.
//
// The message is addressed to the first topic of the assistant, not the
// active one.
func (s *Service) Send(d Draft) (*message.Message, error) {
	text := d.Value()
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDraft
	}

	s.mu.Lock()
	if s.gateSubmissions && s.gate.Engaged() {
		s.mu.Unlock()
		debug.Event(component, "Send", "refused while generating")
		return nil, ErrGenerating
	}

	topicID := uuid.New().String()
	if first := s.assistant.First(); first != nil {
		topicID = first.ID
	} else {
		debug.Event(component, "Send", "assistant has no topics, using fresh topic id "+topicID)
	}
	msg := message.New(message.RoleUser, s.assistant.ID, topicID, text, s.now())
	s.mu.Unlock()

	// The chat broker blocks when its subscriber is behind; never hold the
	// session lock here or the pipeline could not Engage.
	if s.hub != nil {
		s.hub.Chat.Publish(pubsub.EventCreated, events.NewMessageSubmittedEvent(msg))
	}
	debug.Event(component, "Send", "submitted "+msg.ID+" to topic "+topicID)

	d.Reset()
	return msg, nil
}

// ClearTopic asks the pipeline to discard the active topic's messages.
func (s *Service) ClearTopic() string {
	s.mu.Lock()
	assistantID, topicID := s.assistant.ID, s.active
	s.mu.Unlock()

	if s.hub != nil {
		s.hub.Chat.Publish(pubsub.EventDeleted, events.NewTopicClearedEvent(assistantID, topicID))
	}
	debug.Event(component, "ClearTopic", topicID)
	return topicID
}
