// Package chat provides the chat page: the transcript of the active topic,
// the message composer, and the status bar.
package chat

import (
	"context"
	"errors"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/chatdesk/internal/bridge"
	"github.com/guilhermegouw/chatdesk/internal/debug"
	"github.com/guilhermegouw/chatdesk/internal/events"
	"github.com/guilhermegouw/chatdesk/internal/keys"
	"github.com/guilhermegouw/chatdesk/internal/message"
	"github.com/guilhermegouw/chatdesk/internal/session"
	"github.com/guilhermegouw/chatdesk/internal/tui/util"
)

// Warning key for submissions refused while generating.
const sendBusyKey = "send-busy"

// HistoryLoader loads the stored messages of a topic.
type HistoryLoader interface {
	GetByTopic(ctx context.Context, topicID string) ([]*message.Message, error)
}

// TranscriptLoadedMsg carries the stored messages of a topic.
type TranscriptLoadedMsg struct {
	TopicID  string
	Messages []*message.Message
	Err      error
}

// Model is the chat page model.
type Model struct {
	session    *session.Service
	history    HistoryLoader
	transcript *Transcript
	composer   *Composer
	status     *StatusBar
	commands   *CommandRegistry
	topicID    string
	width      int
	height     int
}

// New creates the chat page for a session.
func New(svc *session.Service, history HistoryLoader, policy keys.Policy) *Model {
	m := &Model{
		session:    svc,
		history:    history,
		transcript: NewTranscript(svc.Assistant().Name),
		composer:   NewComposer(policy),
		status:     NewStatusBar(),
		commands:   NewCommandRegistry(),
	}
	m.status.SetSendKey(sendKeyLabel(policy))
	return m
}

// Init loads the active topic.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.composer.Init(), m.ShowTopic(m.session.ActiveID()))
}

// ShowTopic displays a topic and loads its messages.
func (m *Model) ShowTopic(topicID string) tea.Cmd {
	if topicID != m.topicID {
		m.transcript.SetMessages(nil)
		m.transcript.EndReply()
	}
	m.topicID = topicID
	m.RefreshTopicName()
	return m.load(topicID)
}

// TopicID returns the displayed topic.
func (m *Model) TopicID() string {
	return m.topicID
}

// RefreshTopicName updates the status bar after a rename.
func (m *Model) RefreshTopicName() {
	for _, t := range m.session.Topics() {
		if t.ID == m.topicID {
			m.status.SetTopicName(t.Name)
			return
		}
	}
}

// SetPolicy switches the send shortcut.
func (m *Model) SetPolicy(p keys.Policy) {
	m.composer.SetPolicy(p)
	m.status.SetSendKey(sendKeyLabel(p))
}

// Policy returns the active send shortcut policy.
func (m *Model) Policy() keys.Policy {
	return m.composer.Policy()
}

// SetModelName sets the model name shown in the status bar.
func (m *Model) SetModelName(name string) {
	m.status.SetModelName(name)
}

// Focus focuses the composer.
func (m *Model) Focus() tea.Cmd {
	return m.composer.Focus()
}

// Blur removes focus from the composer.
func (m *Model) Blur() {
	m.composer.Blur()
}

// Notice shows a message on the status line.
func (m *Model) Notice(info util.InfoMsg) tea.Cmd {
	return m.status.AddNotice(info)
}

func (m *Model) load(topicID string) tea.Cmd {
	history := m.history
	return func() tea.Msg {
		if history == nil {
			return TranscriptLoadedMsg{TopicID: topicID}
		}
		msgs, err := history.GetByTopic(context.Background(), topicID)
		return TranscriptLoadedMsg{TopicID: topicID, Messages: msgs, Err: err}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd

	case TranscriptLoadedMsg:
		if msg.TopicID != m.topicID {
			return m, nil
		}
		if msg.Err != nil {
			debug.Error("chat", msg.Err, "loading transcript")
			m.status.SetError("loading messages: " + msg.Err.Error())
			return m, nil
		}
		m.transcript.SetMessages(msg.Messages)
		return m, nil

	case bridge.GenerationEventMsg:
		return m, m.handleGeneration(msg.Event.Payload)

	case util.InfoMsg:
		return m, m.status.AddNotice(msg)

	case spinner.TickMsg, noticeExpireMsg:
		var cmd tea.Cmd
		m.status, cmd = m.status.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if !m.composer.Focused() {
		return nil
	}

	switch m.composer.Classify(msg) {
	case keys.Submit:
		return m.submit()
	case keys.Newline:
		m.composer.InsertNewline()
		return nil
	case keys.None:
	}

	switch msg.String() {
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return cmd
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return cmd
}

func (m *Model) submit() tea.Cmd {
	if cmdMsg, ok := m.commands.Parse(m.composer.Value()); ok {
		m.composer.Reset()
		return util.CmdHandler(cmdMsg)
	}

	sent, err := m.session.Send(m.composer.Draft())
	switch {
	case errors.Is(err, session.ErrEmptyDraft):
		return nil
	case errors.Is(err, session.ErrGenerating):
		return util.ReportWarn("Wait for the current response to finish", sendBusyKey)
	case err != nil:
		return util.ReportError(err)
	}

	if sent.TopicID != m.topicID {
		for _, t := range m.session.Topics() {
			if t.ID == sent.TopicID {
				return util.ReportInfo(fmt.Sprintf("Sent to %q", t.Name))
			}
		}
	}
	return nil
}

func (m *Model) handleGeneration(ev events.GenerationEvent) tea.Cmd {
	shown := ev.TopicID == m.topicID

	switch ev.Type {
	case events.GenerationEventStarted:
		// The submitted message is stored before the gate engages.
		return tea.Batch(m.status.SetGenerating(true), m.load(m.topicID))
	case events.GenerationEventTextDelta:
		if shown {
			m.transcript.AppendDelta(ev.TextDelta)
		}
	case events.GenerationEventComplete, events.GenerationEventCancelled:
		if shown {
			m.transcript.EndReply()
			return m.load(m.topicID)
		}
	case events.GenerationEventError:
		if ev.Error != nil {
			m.status.SetError(ev.Error.Error())
		}
		if shown {
			m.transcript.EndReply()
		}
	case events.GenerationEventEnded:
		m.status.SetGenerating(false)
		return m.load(m.topicID)
	}
	return nil
}

// View renders the chat page.
func (m *Model) View() string {
	m.layout()
	return lipgloss.JoinVertical(lipgloss.Left,
		m.transcript.View(),
		m.composer.View(),
		m.status.View(),
	)
}

// SetSize sets the chat page size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.layout()
}

func (m *Model) layout() {
	m.composer.SetWidth(m.width)
	m.status.SetWidth(m.width)
	h := m.height - m.composer.Height() - m.status.Height()
	m.transcript.SetSize(m.width, max(1, h))
}

// Transcript returns the transcript component.
func (m *Model) Transcript() *Transcript {
	return m.transcript
}

// Status returns the status bar component.
func (m *Model) Status() *StatusBar {
	return m.status
}

func sendKeyLabel(p keys.Policy) string {
	if p.Mode() == keys.SendShiftEnter {
		return "shift+enter"
	}
	return "enter"
}
