package session

import (
	"context"
	"errors"
	"strings"

	"github.com/guilhermegouw/chatdesk/internal/debug"
	"github.com/guilhermegouw/chatdesk/internal/topic"
)

// MinSummaryMessages is the shortest history worth summarizing.
const MinSummaryMessages = 2

// RenamePromptTitle is the title of the manual rename dialog.
const RenamePromptTitle = "Rename topic"

// AutoRename names a topic after its conversation. Histories shorter than
// MinSummaryMessages are left alone. Summarizer failures and empty
// suggestions are logged and otherwise ignored. The summarizer runs without
// the session lock; if the topic is deleted meanwhile the result is dropped.
func (s *Service) AutoRename(ctx context.Context, topicID string) error {
	s.mu.Lock()
	if _, ok := s.assistant.Get(topicID); !ok {
		s.mu.Unlock()
		return topic.ErrTopicNotFound
	}
	assistant := s.assistant.Clone()
	s.mu.Unlock()

	if s.messages == nil || s.summarizer == nil {
		debug.Event(component, "AutoRename", "no summarizer configured")
		return nil
	}

	msgs, err := s.messages.GetByTopic(ctx, topicID)
	if err != nil {
		debug.Error(component, err, "AutoRename loading history")
		return nil
	}
	if len(msgs) < MinSummaryMessages {
		debug.Event(component, "AutoRename", "not enough messages to summarize")
		return nil
	}

	name, err := s.summarizer.Summarize(ctx, msgs, assistant)
	if err != nil {
		debug.Error(component, err, "AutoRename summarizing")
		return nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	return s.applyRename(ctx, topicID, name)
}

// ManualRename prompts for a new topic name prefilled with the current one.
// Cancellation and blank or unchanged answers leave the topic untouched.
func (s *Service) ManualRename(ctx context.Context, topicID string) error {
	s.mu.Lock()
	t, ok := s.assistant.Get(topicID)
	if !ok {
		s.mu.Unlock()
		return topic.ErrTopicNotFound
	}
	current := t.Name
	s.mu.Unlock()

	if s.prompter == nil {
		return nil
	}

	name, err := s.prompter.Prompt(ctx, PromptRequest{
		Title:        RenamePromptTitle,
		DefaultValue: current,
	})
	if err != nil {
		debug.Event(component, "ManualRename", "prompt cancelled: "+err.Error())
		return nil
	}

	return s.applyRename(ctx, topicID, name)
}

func (s *Service) applyRename(ctx context.Context, topicID, name string) error {
	_, err := s.RenameTopic(ctx, topicID, name)
	if errors.Is(err, topic.ErrTopicNotFound) {
		debug.Event(component, "rename", "topic removed before rename: "+topicID)
		return nil
	}
	return err
}
