// Package keys decides what a key press means for the chat input: submit
// the draft, insert a newline, or start a new topic.
package keys

import (
	"fmt"

	"charm.land/bubbles/v2/key"
)

// SendShortcut selects which key combination submits a draft.
type SendShortcut string

// Send shortcut modes.
const (
	SendEnter      SendShortcut = "Enter"
	SendShiftEnter SendShortcut = "Shift+Enter"
)

// DefaultSendShortcut is used when no preference is stored.
const DefaultSendShortcut = SendEnter

// ParseSendShortcut validates a stored preference. An empty string yields
// the default.
func ParseSendShortcut(s string) (SendShortcut, error) {
	switch SendShortcut(s) {
	case "":
		return DefaultSendShortcut, nil
	case SendEnter, SendShiftEnter:
		return SendShortcut(s), nil
	default:
		return "", fmt.Errorf("unknown send shortcut %q (want %q or %q)", s, SendEnter, SendShiftEnter)
	}
}

// Toggle returns the other mode.
func (s SendShortcut) Toggle() SendShortcut {
	if s == SendShiftEnter {
		return SendEnter
	}
	return SendShiftEnter
}

// Action is what the input layer should do with a key press.
type Action int

// Input actions.
const (
	None Action = iota
	Submit
	Newline
)

func (a Action) String() string {
	switch a {
	case Submit:
		return "submit"
	case Newline:
		return "newline"
	default:
		return "none"
	}
}

// Policy maps key presses to input actions for one send shortcut mode.
type Policy struct {
	mode     SendShortcut
	submit   key.Binding
	newline  key.Binding
	newTopic key.Binding
}

// NewPolicy builds the bindings for mode. Unknown modes fall back to the
// default.
func NewPolicy(mode SendShortcut) Policy {
	if _, err := ParseSendShortcut(string(mode)); err != nil || mode == "" {
		mode = DefaultSendShortcut
	}

	enter := key.NewBinding(key.WithKeys("enter"))
	shiftEnter := key.NewBinding(key.WithKeys("shift+enter"))

	p := Policy{
		mode: mode,
		newTopic: key.NewBinding(
			key.WithKeys("ctrl+n", "super+n"),
			key.WithHelp("ctrl+n", "new topic"),
		),
	}
	if mode == SendShiftEnter {
		p.submit, p.newline = shiftEnter, enter
		p.submit.SetHelp("shift+enter", "send")
		p.newline.SetHelp("enter", "newline")
	} else {
		p.submit, p.newline = enter, shiftEnter
		p.submit.SetHelp("enter", "send")
		p.newline.SetHelp("shift+enter", "newline")
	}
	return p
}

// Mode returns the send shortcut this policy implements.
func (p Policy) Mode() SendShortcut {
	return p.mode
}

// Classify returns the input action for a key press. Only the configured
// submit combination submits.
func (p Policy) Classify(k fmt.Stringer) Action {
	switch {
	case key.Matches(k, p.submit):
		return Submit
	case key.Matches(k, p.newline):
		return Newline
	default:
		return None
	}
}

// IsNewTopic reports whether the key press creates a topic.
func (p Policy) IsNewTopic(k fmt.Stringer) bool {
	return key.Matches(k, p.newTopic)
}

// Bindings returns the bindings for help rendering.
func (p Policy) Bindings() []key.Binding {
	return []key.Binding{p.submit, p.newline, p.newTopic}
}
