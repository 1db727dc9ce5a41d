package chat

import (
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/guilhermegouw/chatdesk/internal/tui/styles"
	"github.com/guilhermegouw/chatdesk/internal/tui/util"
)

// Notice lifetime and the number shown at once.
const (
	noticeTTL  = 6 * time.Second
	maxNotices = 3
)

// Status represents the current chat status.
type Status int

// Chat statuses.
const (
	StatusReady Status = iota
	StatusGenerating
	StatusError
)

type notice struct {
	info util.InfoMsg
	at   time.Time
}

// noticeExpireMsg prunes expired notices.
type noticeExpireMsg struct{}

// StatusBar shows the generation state, the active topic, and recent
// notices.
type StatusBar struct {
	status    Status
	errorMsg  string
	topicName string
	modelName string
	sendKey   string
	spinner   spinner.Model
	notices   []notice
	width     int
	now       func() time.Time
}

// NewStatusBar creates a ready status bar.
func NewStatusBar() *StatusBar {
	return &StatusBar{
		status:  StatusReady,
		sendKey: "enter",
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		now:     time.Now,
	}
}

// SetGenerating switches between the generating and ready states. It
// returns the spinner tick when generation starts.
func (s *StatusBar) SetGenerating(generating bool) tea.Cmd {
	if generating {
		s.status = StatusGenerating
		s.errorMsg = ""
		return s.spinner.Tick
	}
	if s.status == StatusGenerating {
		s.status = StatusReady
	}
	return nil
}

// Generating reports whether the spinner is running.
func (s *StatusBar) Generating() bool {
	return s.status == StatusGenerating
}

// SetError shows an error until the next generation starts.
func (s *StatusBar) SetError(msg string) {
	s.status = StatusError
	s.errorMsg = msg
}

// SetTopicName sets the name of the displayed topic.
func (s *StatusBar) SetTopicName(name string) {
	s.topicName = name
}

// SetModelName sets the chat model shown on the right.
func (s *StatusBar) SetModelName(name string) {
	s.modelName = name
}

// SetSendKey sets the send shortcut shown on the right.
func (s *StatusBar) SetSendKey(k string) {
	s.sendKey = k
}

// SetWidth sets the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// AddNotice shows a notice. A notice with the same non-empty key replaces
// the earlier one instead of stacking.
func (s *StatusBar) AddNotice(info util.InfoMsg) tea.Cmd {
	if info.Key != "" {
		for i, n := range s.notices {
			if n.info.Key == info.Key {
				s.notices = append(s.notices[:i], s.notices[i+1:]...)
				break
			}
		}
	}
	s.notices = append(s.notices, notice{info: info, at: s.now()})
	if len(s.notices) > maxNotices {
		s.notices = s.notices[len(s.notices)-maxNotices:]
	}
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg { return noticeExpireMsg{} })
}

// Notices returns the visible notices, oldest first.
func (s *StatusBar) Notices() []util.InfoMsg {
	out := make([]util.InfoMsg, len(s.notices))
	for i, n := range s.notices {
		out[i] = n.info
	}
	return out
}

func (s *StatusBar) expireNotices() {
	cutoff := s.now().Add(-noticeTTL)
	kept := s.notices[:0]
	for _, n := range s.notices {
		if n.at.After(cutoff) {
			kept = append(kept, n)
		}
	}
	s.notices = kept
}

// Update advances the spinner and expires notices.
func (s *StatusBar) Update(msg tea.Msg) (*StatusBar, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if s.status != StatusGenerating {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	case noticeExpireMsg:
		s.expireNotices()
	}
	return s, nil
}

// Height returns the number of rendered lines.
func (s *StatusBar) Height() int {
	return 1 + len(s.notices)
}

// View renders the notices above the status line.
func (s *StatusBar) View() string {
	t := styles.CurrentTheme()

	lines := make([]string, 0, len(s.notices)+1)
	for _, n := range s.notices {
		lines = append(lines, s.renderNotice(n.info))
	}

	var left string
	switch s.status {
	case StatusGenerating:
		left = t.S().Info.Render(s.spinner.View() + " Generating...")
	case StatusError:
		left = t.S().Error.Render("Error: " + s.errorMsg)
	default:
		left = t.S().Success.Render("Ready")
	}
	if s.topicName != "" {
		left += t.S().Muted.Render("  ·  ") + t.S().Text.Render(s.topicName)
	}

	right := t.S().Muted.Render(s.sendKey + " to send")
	if s.modelName != "" {
		right = t.S().Subtle.Render(s.modelName) + t.S().Muted.Render("  ·  ") + right
	}

	inner := max(0, s.width-4)
	left = ansi.Truncate(left, max(0, inner-lipgloss.Width(right)-1), "…")
	gap := max(1, inner-lipgloss.Width(left)-lipgloss.Width(right))
	bar := lipgloss.NewStyle().
		Width(s.width).
		Padding(0, 1).
		Background(t.BgSubtle).
		Render(left + lipgloss.NewStyle().Width(gap).Render("") + right)

	lines = append(lines, bar)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (s *StatusBar) renderNotice(info util.InfoMsg) string {
	t := styles.CurrentTheme()

	var style lipgloss.Style
	switch info.Type {
	case util.InfoTypeError:
		style = t.S().Error
	case util.InfoTypeWarn:
		style = t.S().Warning
	case util.InfoTypeSuccess:
		style = t.S().Success
	default:
		style = t.S().Info
	}
	return style.Render(ansi.Truncate(" "+info.Msg, max(1, s.width), "…"))
}
