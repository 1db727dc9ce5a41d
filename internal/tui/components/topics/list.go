// Package topics renders the topic sidebar and the dialogs that act on it.
package topics

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/guilhermegouw/chatdesk/internal/topic"
	"github.com/guilhermegouw/chatdesk/internal/tui/styles"
	"github.com/guilhermegouw/chatdesk/internal/tui/util"
)

// headerRows is the number of lines above the first topic row.
const headerRows = 2

// List is the topic sidebar.
type List struct {
	topics     []*topic.Topic
	activeID   string
	cursor     int
	offset     int
	width      int
	height     int
	focused    bool
	generating bool
}

// NewList creates an empty sidebar.
func NewList() *List {
	return &List{}
}

// SetTopics replaces the displayed topics, keeping the cursor on the same
// topic when it still exists.
func (l *List) SetTopics(topics []*topic.Topic, activeID string) {
	var selectedID string
	if sel := l.Selected(); sel != nil {
		selectedID = sel.ID
	}

	l.topics = topics
	l.activeID = activeID

	switch {
	case selectedID != "" && l.indexOf(selectedID) >= 0:
		l.cursor = l.indexOf(selectedID)
	case l.indexOf(activeID) >= 0:
		l.cursor = l.indexOf(activeID)
	default:
		l.cursor = min(l.cursor, max(0, len(topics)-1))
	}
	l.ensureVisible()
}

// SetActive marks the active topic and moves the cursor to it.
func (l *List) SetActive(id string) {
	l.activeID = id
	if i := l.indexOf(id); i >= 0 {
		l.cursor = i
		l.ensureVisible()
	}
}

// SetGenerating dims every topic but the active one while a response is
// being generated.
func (l *List) SetGenerating(generating bool) {
	l.generating = generating
}

// SetSize sets the sidebar dimensions.
func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.ensureVisible()
}

// Focus gives the sidebar keyboard focus.
func (l *List) Focus() {
	l.focused = true
}

// Blur removes keyboard focus.
func (l *List) Blur() {
	l.focused = false
}

// Focused reports whether the sidebar has keyboard focus.
func (l *List) Focused() bool {
	return l.focused
}

// Selected returns the topic under the cursor.
func (l *List) Selected() *topic.Topic {
	if l.cursor >= 0 && l.cursor < len(l.topics) {
		return l.topics[l.cursor]
	}
	return nil
}

// TopicAt returns the topic rendered on row y of the sidebar.
func (l *List) TopicAt(y int) (*topic.Topic, bool) {
	i := y - headerRows + l.offset
	if y < headerRows || i < 0 || i >= len(l.topics) || i >= l.offset+l.visibleRows() {
		return nil, false
	}
	return l.topics[i], true
}

// Update handles key presses while the sidebar is focused.
func (l *List) Update(msg tea.Msg) (*List, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !l.focused {
		return l, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
			l.ensureVisible()
		}
	case "down", "j":
		if l.cursor < len(l.topics)-1 {
			l.cursor++
			l.ensureVisible()
		}
	case "home", "g":
		l.cursor = 0
		l.ensureVisible()
	case "end", "G":
		l.cursor = max(0, len(l.topics)-1)
		l.ensureVisible()
	case "enter":
		if sel := l.Selected(); sel != nil {
			return l, util.CmdHandler(SelectTopicMsg{TopicID: sel.ID})
		}
	case "n":
		return l, util.CmdHandler(NewTopicMsg{})
	case "m", ".":
		if sel := l.Selected(); sel != nil {
			return l, util.CmdHandler(OpenMenuMsg{TopicID: sel.ID})
		}
	case "shift+up", "K":
		return l, l.move(-1)
	case "shift+down", "J":
		return l, l.move(1)
	}
	return l, nil
}

// move shifts the selected topic by delta and reports the resulting order.
func (l *List) move(delta int) tea.Cmd {
	to := l.cursor + delta
	if l.Selected() == nil || to < 0 || to >= len(l.topics) {
		return nil
	}

	order := make([]string, len(l.topics))
	for i, t := range l.topics {
		order[i] = t.ID
	}
	order[l.cursor], order[to] = order[to], order[l.cursor]
	l.cursor = to
	l.ensureVisible()
	return util.CmdHandler(MoveTopicMsg{Order: order})
}

func (l *List) indexOf(id string) int {
	return slices.IndexFunc(l.topics, func(t *topic.Topic) bool { return t.ID == id })
}

func (l *List) ensureVisible() {
	rows := l.visibleRows()
	if l.cursor < l.offset {
		l.offset = l.cursor
	} else if l.cursor >= l.offset+rows {
		l.offset = l.cursor - rows + 1
	}
}

func (l *List) visibleRows() int {
	return max(1, l.height-headerRows-1)
}

// View renders the sidebar.
func (l *List) View() string {
	t := styles.CurrentTheme()

	title := t.S().Title.Render("Topics")
	if l.focused {
		title = t.S().Title.Render("Topics") + t.S().Muted.Render(" ●")
	}
	header := lipgloss.JoinVertical(lipgloss.Left,
		title,
		t.S().Subtle.Render(strings.Repeat("─", max(0, l.width-2))),
	)

	if len(l.topics) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, t.S().Muted.Render("No topics"))
	}

	rows := l.visibleRows()
	end := min(l.offset+rows, len(l.topics))
	lines := make([]string, 0, end-l.offset+1)
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.renderTopic(l.topics[i], i == l.cursor))
	}
	if remaining := len(l.topics) - end; remaining > 0 {
		lines = append(lines, t.S().Muted.Render(fmt.Sprintf("  ↓ %d more", remaining)))
	}

	return lipgloss.NewStyle().
		Width(l.width).
		Height(l.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, strings.Join(lines, "\n")))
}

func (l *List) renderTopic(tp *topic.Topic, selected bool) string {
	t := styles.CurrentTheme()

	marker := "  "
	if tp.ID == l.activeID {
		marker = "▌ "
	}
	name := ansi.Truncate(tp.Name, max(1, l.width-lipgloss.Width(marker)-1), "…")

	switch {
	case selected && l.focused:
		return t.S().Selected.Render(marker + name)
	case tp.ID == l.activeID:
		return t.S().Primary.Bold(true).Render(marker + name)
	case l.generating:
		return t.S().Subtle.Render(marker + name)
	default:
		return t.S().Text.Render(marker + name)
	}
}
