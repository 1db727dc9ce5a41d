// Package agent runs the generation pipeline: it consumes submitted
// messages, streams the assistant's reply from a language model, and
// persists both sides of the exchange.
package agent

import (
	"context"

	"github.com/guilhermegouw/chatdesk/internal/message"
	"github.com/guilhermegouw/chatdesk/internal/pubsub"
	"github.com/guilhermegouw/chatdesk/internal/session"
)

// DefaultMaxTokens is used when the model selection sets no limit.
const DefaultMaxTokens int64 = 8192

// StreamRequest is one model call.
type StreamRequest struct { //nolint:govet // fieldalignment: preserving logical field order
	System      string
	History     []*message.Message
	Prompt      string
	MaxTokens   int64
	Temperature *float64
}

// Streamer streams a reply, calling onDelta for each chunk of text. It
// returns the full text generated, which may be partial when err is set.
type Streamer interface {
	Stream(ctx context.Context, req StreamRequest, onDelta func(text string) error) (string, error)
	// Name identifies the model for stored messages.
	Name() (provider, model string)
}

// Config contains pipeline configuration.
type Config struct { //nolint:govet // fieldalignment: preserving logical field order
	Streamer    Streamer
	Sessions    *session.Service
	Messages    *message.Service
	Hub         *pubsub.Hub
	MaxTokens   int64
	Temperature *float64
}

// ErrNoStreamer is returned when the pipeline has no model to call.
var ErrNoStreamer = NewError("no chat model configured")

// ErrEmptyPrompt is returned when an empty prompt is provided.
var ErrEmptyPrompt = NewError("prompt cannot be empty")

// Error represents an agent-specific error.
type Error struct {
	message string
}

// NewError creates a new agent error with the given message.
func NewError(message string) *Error {
	return &Error{message: message}
}

func (e *Error) Error() string {
	return e.message
}
