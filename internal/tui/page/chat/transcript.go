package chat

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/chatdesk/internal/debug"
	"github.com/guilhermegouw/chatdesk/internal/message"
	"github.com/guilhermegouw/chatdesk/internal/tui/styles"
)

// Transcript displays the messages of one topic and any reply being
// streamed into it.
type Transcript struct {
	viewport      viewport.Model
	markdown      *MarkdownRenderer
	messages      []*message.Message
	assistantName string
	streaming     string
	pending       bool
	width         int
	height        int
}

// NewTranscript creates an empty transcript.
func NewTranscript(assistantName string) *Transcript {
	return &Transcript{
		viewport:      viewport.New(),
		markdown:      NewMarkdownRenderer(),
		assistantName: assistantName,
	}
}

// SetMessages replaces the stored messages.
func (tr *Transcript) SetMessages(msgs []*message.Message) {
	tr.messages = msgs
	tr.refresh(true)
}

// Messages returns the stored messages.
func (tr *Transcript) Messages() []*message.Message {
	return tr.messages
}

// StartReply shows a placeholder for a reply that has not produced text yet.
func (tr *Transcript) StartReply() {
	tr.pending = true
	tr.streaming = ""
	tr.refresh(true)
}

// AppendDelta adds streamed text to the reply in progress.
func (tr *Transcript) AppendDelta(text string) {
	tr.pending = true
	tr.streaming += text
	tr.refresh(tr.viewport.AtBottom())
}

// EndReply drops the reply in progress. The stored reply replaces it on the
// next SetMessages.
func (tr *Transcript) EndReply() {
	tr.pending = false
	tr.streaming = ""
	tr.refresh(false)
}

// Streaming returns the text received for the reply in progress.
func (tr *Transcript) Streaming() string {
	return tr.streaming
}

// SetSize sets the viewport size.
func (tr *Transcript) SetSize(width, height int) {
	if tr.width == width && tr.height == height {
		return
	}
	tr.width = width
	tr.height = height
	tr.viewport.SetWidth(width)
	tr.viewport.SetHeight(height)
	tr.refresh(true)
}

// Update scrolls the viewport.
func (tr *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	var cmd tea.Cmd
	tr.viewport, cmd = tr.viewport.Update(msg)
	return tr, cmd
}

// View renders the visible part of the transcript.
func (tr *Transcript) View() string {
	t := styles.CurrentTheme()
	if len(tr.messages) == 0 && !tr.pending {
		empty := t.S().Muted.Render("No messages yet. Type something to start chatting.")
		return lipgloss.Place(tr.width, tr.height, lipgloss.Center, lipgloss.Center, empty)
	}
	return tr.viewport.View()
}

func (tr *Transcript) refresh(toBottom bool) {
	if tr.width <= 0 {
		return
	}
	tr.viewport.SetContent(tr.render())
	if toBottom {
		tr.viewport.GotoBottom()
	}
}

func (tr *Transcript) render() string {
	t := styles.CurrentTheme()
	width := max(1, tr.width-2)

	parts := make([]string, 0, len(tr.messages)+1)
	for _, msg := range tr.messages {
		if msg.IsUser() {
			parts = append(parts, tr.renderUser(msg.Content, width))
		} else {
			parts = append(parts, tr.renderAssistant(msg.Content, width))
		}
	}
	if tr.pending {
		if tr.streaming == "" {
			parts = append(parts, lipgloss.JoinVertical(lipgloss.Left,
				t.S().Primary.Bold(true).Render(tr.assistantName),
				t.S().Muted.Render("Thinking..."),
			))
		} else {
			parts = append(parts, tr.renderAssistant(tr.streaming, width))
		}
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(parts, "\n\n"))
}

func (tr *Transcript) renderUser(content string, width int) string {
	t := styles.CurrentTheme()
	header := t.S().Text.Bold(true).Render("You")
	body := t.S().Text.Width(width).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func (tr *Transcript) renderAssistant(content string, width int) string {
	t := styles.CurrentTheme()
	header := t.S().Primary.Bold(true).Render(tr.assistantName)
	if content == "" {
		return header
	}

	rendered, err := tr.markdown.Render(content, width)
	if err != nil {
		debug.Error("chat", err, "rendering markdown")
		rendered = t.S().Text.Width(width).Render(content)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, strings.TrimRight(rendered, "\n"))
}
