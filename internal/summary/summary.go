// Package summary names topics by asking a language model to summarize
// their conversation.
package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/guilhermegouw/chatdesk/internal/agent"
	"github.com/guilhermegouw/chatdesk/internal/debug"
	"github.com/guilhermegouw/chatdesk/internal/message"
	"github.com/guilhermegouw/chatdesk/internal/topic"
)

const (
	// MaxTitleGraphemes bounds a generated topic name.
	MaxTitleGraphemes = 50
	// MaxMessages bounds how much history is sent for a summary.
	MaxMessages = 20
	// maxMessageRunes trims long messages inside the transcript.
	maxMessageRunes = 1000
	summaryMaxTokens = 64
)

const systemPrompt = `You name chat conversations.
Reply with a short title of at most ten words that captures the main subject.
Reply with the title only: no quotes, no trailing punctuation, no preamble.
Use the language of the conversation.`

// ErrNoModel is returned when the summarizer has no model to call.
var ErrNoModel = errors.New("no summary model configured")

// Summarizer produces topic names with a streaming model.
type Summarizer struct {
	streamer agent.Streamer
}

// New creates a Summarizer backed by streamer.
func New(streamer agent.Streamer) *Summarizer {
	return &Summarizer{streamer: streamer}
}

// Summarize returns a cleaned title for msgs, or "" when the model gives
// nothing usable.
func (s *Summarizer) Summarize(ctx context.Context, msgs []*message.Message, assistant *topic.Assistant) (string, error) {
	if s.streamer == nil {
		return "", ErrNoModel
	}
	transcript := Transcript(msgs, assistant)
	if transcript == "" {
		return "", nil
	}

	text, err := s.streamer.Stream(ctx, agent.StreamRequest{
		System:    systemPrompt,
		Prompt:    transcript,
		MaxTokens: summaryMaxTokens,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("summarizing conversation: %w", err)
	}

	title := CleanTitle(text)
	debug.Event("summary", "Summarize", fmt.Sprintf("%d messages -> %q", len(msgs), title))
	return title, nil
}

// Transcript renders the last MaxMessages messages as plain text.
func Transcript(msgs []*message.Message, assistant *topic.Assistant) string {
	if len(msgs) > MaxMessages {
		msgs = msgs[len(msgs)-MaxMessages:]
	}

	speaker := "Assistant"
	if assistant != nil && assistant.Name != "" {
		speaker = assistant.Name
	}

	var b strings.Builder
	for _, m := range msgs {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		if runes := []rune(content); len(runes) > maxMessageRunes {
			content = string(runes[:maxMessageRunes]) + "..."
		}
		name := "User"
		if !m.IsUser() {
			name = speaker
		}
		fmt.Fprintf(&b, "%s: %s\n\n", name, content)
	}
	return strings.TrimSpace(b.String())
}

// CleanTitle collapses whitespace, strips wrapping quotes and a "Title:"
// prefix, and truncates to MaxTitleGraphemes.
func CleanTitle(s string) string {
	// Models sometimes answer with several lines; keep the first.
	if line, _, ok := strings.Cut(strings.TrimSpace(s), "\n"); ok {
		s = line
	}
	cleaned := strings.Join(strings.Fields(s), " ")
	if rest, ok := cutPrefixFold(cleaned, "title:"); ok {
		cleaned = strings.TrimSpace(rest)
	}
	cleaned = strings.Trim(cleaned, " \t\"'`*#")
	cleaned = strings.TrimRight(cleaned, ".")
	if cleaned == "" {
		return ""
	}

	if uniseg.GraphemeClusterCount(cleaned) <= MaxTitleGraphemes {
		return cleaned
	}

	var b strings.Builder
	g := uniseg.NewGraphemes(cleaned)
	for n := 0; n < MaxTitleGraphemes-1 && g.Next(); n++ {
		b.WriteString(g.Str())
	}
	return strings.TrimSpace(b.String()) + "…"
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
