package chat

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/chatdesk/internal/keys"
	"github.com/guilhermegouw/chatdesk/internal/session"
	"github.com/guilhermegouw/chatdesk/internal/tui/styles"
)

const composerLines = 3

// Composer is the multi-line message input. Which key submits is decided by
// a keys.Policy.
type Composer struct {
	textarea textarea.Model
	policy   keys.Policy
	width    int
}

// NewComposer creates a focused composer for the given send shortcut.
func NewComposer(policy keys.Policy) *Composer {
	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 16000
	ta.SetHeight(composerLines)
	// Newlines are inserted by the composer according to the policy.
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	return &Composer{
		textarea: ta,
		policy:   policy,
	}
}

// Init starts the cursor blink.
func (c *Composer) Init() tea.Cmd {
	return textarea.Blink
}

// Classify reports what a key press means for the draft.
func (c *Composer) Classify(k tea.KeyMsg) keys.Action {
	return c.policy.Classify(k)
}

// InsertNewline adds a line break at the cursor.
func (c *Composer) InsertNewline() {
	c.textarea.InsertRune('\n')
}

// Update forwards input to the textarea.
func (c *Composer) Update(msg tea.Msg) (*Composer, tea.Cmd) {
	var cmd tea.Cmd
	c.textarea, cmd = c.textarea.Update(msg)
	return c, cmd
}

// Draft exposes the buffer for submission. Send resets it on success.
func (c *Composer) Draft() session.Draft {
	return &c.textarea
}

// Value returns the current text.
func (c *Composer) Value() string {
	return c.textarea.Value()
}

// SetValue replaces the text.
func (c *Composer) SetValue(s string) {
	c.textarea.SetValue(s)
}

// Reset empties the composer.
func (c *Composer) Reset() {
	c.textarea.Reset()
}

// SetPolicy switches the send shortcut.
func (c *Composer) SetPolicy(p keys.Policy) {
	c.policy = p
}

// Policy returns the active send shortcut policy.
func (c *Composer) Policy() keys.Policy {
	return c.policy
}

// Focus focuses the composer.
func (c *Composer) Focus() tea.Cmd {
	return c.textarea.Focus()
}

// Blur removes focus from the composer.
func (c *Composer) Blur() {
	c.textarea.Blur()
}

// Focused reports whether the composer has focus.
func (c *Composer) Focused() bool {
	return c.textarea.Focused()
}

// SetWidth sets the composer width including its border.
func (c *Composer) SetWidth(width int) {
	c.width = width
	c.textarea.SetWidth(max(1, width-4))
}

// Height returns the rendered height including the border.
func (c *Composer) Height() int {
	return composerLines + 2
}

// View renders the composer.
func (c *Composer) View() string {
	t := styles.CurrentTheme()

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(0, 1).
		Width(max(1, c.width-2))
	if !c.textarea.Focused() {
		style = style.BorderForeground(t.Border)
	}
	return style.Render(c.textarea.View())
}
