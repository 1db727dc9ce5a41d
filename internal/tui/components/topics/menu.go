package topics

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/chatdesk/internal/session"
	"github.com/guilhermegouw/chatdesk/internal/tui/styles"
	"github.com/guilhermegouw/chatdesk/internal/tui/util"
)

// shortcuts maps single keys to menu actions.
var shortcuts = map[string]session.MenuAction{
	"a": session.ActionAutoRename,
	"r": session.ActionRename,
	"d": session.ActionDelete,
}

// Menu is the context menu of one topic.
type Menu struct {
	topicID   string
	topicName string
	items     []session.MenuItem
	cursor    int
	visible   bool
}

// NewMenu creates a hidden menu.
func NewMenu() *Menu {
	return &Menu{}
}

// Show opens the menu for a topic with the given entries.
func (m *Menu) Show(topicID, topicName string, items []session.MenuItem) {
	m.topicID = topicID
	m.topicName = topicName
	m.items = items
	m.cursor = 0
	m.visible = true
}

// Hide closes the menu.
func (m *Menu) Hide() {
	m.visible = false
	m.items = nil
}

// IsVisible reports whether the menu is open.
func (m *Menu) IsVisible() bool {
	return m.visible
}

// TopicID returns the topic the menu was opened for.
func (m *Menu) TopicID() string {
	return m.topicID
}

// Items returns the menu entries.
func (m *Menu) Items() []session.MenuItem {
	return m.items
}

// Update handles key presses while the menu is open.
func (m *Menu) Update(msg tea.Msg) (*Menu, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.visible {
		return m, nil
	}

	switch k := keyMsg.String(); k {
	case "esc", "q":
		m.Hide()
		return m, util.CmdHandler(MenuClosedMsg{})
	case "up", "k":
		m.step(-1)
	case "down", "j":
		m.step(1)
	case "enter":
		return m, m.choose(m.cursor)
	default:
		action, ok := shortcuts[k]
		if !ok {
			return m, nil
		}
		for i, it := range m.items {
			if it.Action == action {
				return m, m.choose(i)
			}
		}
	}
	return m, nil
}

// step moves the cursor by delta, skipping separators.
func (m *Menu) step(delta int) {
	for i := m.cursor + delta; i >= 0 && i < len(m.items); i += delta {
		if m.items[i].Action != session.ActionSeparator {
			m.cursor = i
			return
		}
	}
}

func (m *Menu) choose(i int) tea.Cmd {
	if i < 0 || i >= len(m.items) || m.items[i].Action == session.ActionSeparator {
		return nil
	}
	msg := MenuSelectedMsg{TopicID: m.topicID, Action: m.items[i].Action}
	m.Hide()
	return util.CmdHandler(msg)
}

// View renders the menu box.
func (m *Menu) View() string {
	if !m.visible {
		return ""
	}
	t := styles.CurrentTheme()

	width := 22
	lines := []string{t.S().Subtitle.Render(truncateName(m.topicName, width))}
	for i, it := range m.items {
		if it.Action == session.ActionSeparator {
			lines = append(lines, t.S().Subtle.Render(strings.Repeat("─", width)))
			continue
		}
		label := " " + it.Label
		switch {
		case i == m.cursor:
			lines = append(lines, t.S().Selected.Width(width).Render(label))
		case it.Action == session.ActionDelete:
			lines = append(lines, t.S().Error.Render(label))
		default:
			lines = append(lines, t.S().Text.Render(label))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.CurrentTheme().BorderFocus).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
