// Package welcome shows the setup screen when no chat model can be built.
package welcome

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/chatdesk/internal/tui/components/logo"
	"github.com/guilhermegouw/chatdesk/internal/tui/styles"
	"github.com/guilhermegouw/chatdesk/internal/tui/util"
)

// ContinueMsg is sent when the user chooses to continue without a model.
type ContinueMsg struct{}

// Welcome explains how to configure a provider.
type Welcome struct {
	configPath string
	reason     string
	envVars    []string
	width      int
	height     int
}

// New creates the setup screen. reason is the error that prevented building
// a model; envVars are the variables the starter config reads keys from.
func New(configPath, reason string, envVars []string) *Welcome {
	return &Welcome{
		configPath: configPath,
		reason:     reason,
		envVars:    envVars,
	}
}

// Init initializes the screen.
func (w *Welcome) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (w *Welcome) Update(msg tea.Msg) (util.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter", " ":
			return w, util.CmdHandler(ContinueMsg{})
		case "q", "ctrl+c":
			return w, tea.Quit
		}
	}
	return w, nil
}

// View renders the screen.
func (w *Welcome) View() string {
	t := styles.CurrentTheme()

	lines := []string{
		t.S().Text.Render("No chat model is available."),
	}
	if w.reason != "" {
		lines = append(lines, t.S().Error.Render(w.reason))
	}
	lines = append(lines, "", t.S().Subtitle.Render("Set an API key and restart:"))
	for _, v := range w.envVars {
		lines = append(lines, t.S().Primary.Render("  export "+v+"=..."))
	}
	lines = append(lines,
		"",
		t.S().Muted.Render("or edit "+w.configPath),
	)

	body := lipgloss.NewStyle().Align(lipgloss.Left).Render(strings.Join(lines, "\n"))
	instructions := t.S().Muted.Render("Enter to browse topics without a model • q to quit")

	content := lipgloss.JoinVertical(lipgloss.Center,
		logo.Render(),
		"",
		"",
		body,
		"",
		instructions,
	)

	return lipgloss.Place(
		w.width, w.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}

// SetSize sets the screen size.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}
