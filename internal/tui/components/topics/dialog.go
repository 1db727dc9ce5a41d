package topics

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/guilhermegouw/chatdesk/internal/tui/styles"
	"github.com/guilhermegouw/chatdesk/internal/tui/util"
)

// Confirm is a yes/no dialog.
type Confirm struct {
	title   string
	body    string
	then    any
	visible bool
}

// NewConfirm creates a hidden confirmation dialog.
func NewConfirm() *Confirm {
	return &Confirm{}
}

// Show opens the dialog. then is returned in ConfirmedMsg on acceptance.
func (c *Confirm) Show(title, body string, then any) {
	c.title = title
	c.body = body
	c.then = then
	c.visible = true
}

// IsVisible reports whether the dialog is open.
func (c *Confirm) IsVisible() bool {
	return c.visible
}

// Update handles key presses while the dialog is open.
func (c *Confirm) Update(msg tea.Msg) (*Confirm, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !c.visible {
		return c, nil
	}

	switch keyMsg.String() {
	case "y", "Y", "enter":
		c.visible = false
		return c, util.CmdHandler(ConfirmedMsg{Then: c.then})
	case "n", "N", "esc":
		c.visible = false
		return c, util.CmdHandler(DialogClosedMsg{})
	}
	return c, nil
}

// View renders the dialog box.
func (c *Confirm) View() string {
	if !c.visible {
		return ""
	}
	t := styles.CurrentTheme()
	return box(
		t.S().Title.Render(c.title),
		t.S().Text.Render(c.body),
		"[y] Yes  [n] No",
	)
}

// Input is a single-line text dialog answering a prompt request.
type Input struct {
	input   textinput.Model
	title   string
	message string
	reply   chan<- string
	visible bool
}

// NewInput creates a hidden input dialog.
func NewInput() *Input {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.SetWidth(36)
	return &Input{input: ti}
}

// Show opens the dialog for a prompt request. A request still waiting is
// answered empty first.
func (d *Input) Show(req ShowPromptMsg) tea.Cmd {
	if d.reply != nil {
		d.answer("")
	}
	d.title = req.Request.Title
	d.message = req.Request.Message
	d.reply = req.Reply
	d.input.SetValue(req.Request.DefaultValue)
	d.input.CursorEnd()
	d.visible = true
	return d.input.Focus()
}

// IsVisible reports whether the dialog is open.
func (d *Input) IsVisible() bool {
	return d.visible
}

// Update handles key presses while the dialog is open.
func (d *Input) Update(msg tea.Msg) (*Input, tea.Cmd) {
	if !d.visible {
		return d, nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			d.answer(d.input.Value())
			return d, util.CmdHandler(DialogClosedMsg{})
		case "esc":
			d.answer("")
			return d, util.CmdHandler(DialogClosedMsg{})
		}
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

// Cancel closes the dialog with no answer.
func (d *Input) Cancel() {
	if d.visible {
		d.answer("")
	}
}

func (d *Input) answer(value string) {
	if d.reply != nil {
		select {
		case d.reply <- value:
		default:
		}
	}
	d.reply = nil
	d.visible = false
	d.input.Blur()
}

// View renders the dialog box.
func (d *Input) View() string {
	if !d.visible {
		return ""
	}
	t := styles.CurrentTheme()

	body := d.input.View()
	if d.message != "" {
		body = t.S().Muted.Render(d.message) + "\n\n" + body
	}
	return box(t.S().Title.Render(d.title), body, "[enter] Save  [esc] Cancel")
}

func box(title, body, footer string) string {
	t := styles.CurrentTheme()
	inner := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		body,
		"",
		t.S().Muted.Render(footer),
	)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(1, 2).
		Render(inner)
}

func truncateName(name string, width int) string {
	return ansi.Truncate(name, width, "…")
}
