package agent

import (
	"context"
	"strings"

	"charm.land/fantasy"

	"github.com/guilhermegouw/chatdesk/internal/message"
)

// FantasyStreamer implements Streamer with a fantasy language model.
type FantasyStreamer struct {
	model fantasy.LanguageModel
}

// NewFantasyStreamer wraps a language model.
func NewFantasyStreamer(model fantasy.LanguageModel) *FantasyStreamer {
	return &FantasyStreamer{model: model}
}

// Name returns the provider and model identifiers.
func (s *FantasyStreamer) Name() (provider, model string) {
	return s.model.Provider(), s.model.Model()
}

// Stream sends the request and forwards text deltas as they arrive.
func (s *FantasyStreamer) Stream(ctx context.Context, req StreamRequest, onDelta func(string) error) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", ErrEmptyPrompt
	}

	agent := fantasy.NewAgent(s.model)

	var messages []fantasy.Message
	if req.System != "" {
		messages = append(messages, fantasy.NewSystemMessage(req.System))
	}
	messages = append(messages, buildHistory(req.History)...)

	streamOpts := fantasy.AgentStreamCall{
		Prompt:   req.Prompt,
		Messages: messages,
	}

	// Anthropic requires max tokens.
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	streamOpts.MaxOutputTokens = &maxTokens
	if req.Temperature != nil {
		streamOpts.Temperature = req.Temperature
	}

	var content strings.Builder
	streamOpts.OnTextDelta = func(_, text string) error {
		content.WriteString(text)
		if onDelta != nil {
			return onDelta(text)
		}
		return nil
	}

	_, err := agent.Stream(ctx, streamOpts)
	return content.String(), err
}

// buildHistory converts stored messages to fantasy messages.
func buildHistory(msgs []*message.Message) []fantasy.Message {
	history := make([]fantasy.Message, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Content == "" {
			continue
		}
		switch msg.Role {
		case message.RoleUser:
			history = append(history, fantasy.NewUserMessage(msg.Content))
		case message.RoleAssistant:
			history = append(history, fantasy.Message{
				Role:    fantasy.MessageRoleAssistant,
				Content: []fantasy.MessagePart{fantasy.TextPart{Text: msg.Content}},
			})
		}
	}
	return history
}
