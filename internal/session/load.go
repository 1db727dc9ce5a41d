package session

import (
	"context"
	"fmt"

	"github.com/guilhermegouw/chatdesk/internal/debug"
	"github.com/guilhermegouw/chatdesk/internal/topic"
)

// LoadAssistant returns the first stored assistant, creating one with a
// single default topic when the store is empty. A stored assistant that
// somehow lost all its topics gets a fresh default topic.
func LoadAssistant(ctx context.Context, store topic.Store, name, prompt string) (*topic.Assistant, error) {
	assistants, err := store.ListAssistants(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading assistants: %w", err)
	}

	var a *topic.Assistant
	switch {
	case len(assistants) == 0:
		a = topic.NewAssistant(name, prompt)
		debug.Event(component, "LoadAssistant", "created assistant "+a.ID)
	case assistants[0].Len() == 0:
		a = assistants[0]
		if err := a.Add(topic.New(a.ID)); err != nil {
			return nil, fmt.Errorf("repairing assistant: %w", err)
		}
		debug.Event(component, "LoadAssistant", "assistant had no topics, added default")
	default:
		a = assistants[0]
		if a.Prompt == prompt && a.Name == name {
			return a, nil
		}
	}

	a.Name, a.Prompt = name, prompt
	if err := store.SaveAssistant(ctx, a); err != nil {
		return nil, fmt.Errorf("saving assistant: %w", err)
	}
	return a, nil
}
