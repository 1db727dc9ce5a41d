package topics

import (
	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/chatdesk/internal/tui/styles"
)

// HintMode selects which key hints are shown.
type HintMode int

const (
	// HintModeChat shows hints while typing a message.
	HintModeChat HintMode = iota
	// HintModeSidebar shows hints while the sidebar is focused.
	HintModeSidebar
	// HintModeMenu shows hints while the context menu is open.
	HintModeMenu
	// HintModeDialog shows hints while a dialog is open.
	HintModeDialog
)

// HintBar displays context-sensitive keyboard hints.
type HintBar struct {
	mode  HintMode
	send  string
	width int
}

// NewHintBar creates a hint bar.
func NewHintBar() *HintBar {
	return &HintBar{mode: HintModeChat, send: "enter"}
}

// SetMode sets the current hint mode.
func (h *HintBar) SetMode(mode HintMode) {
	h.mode = mode
}

// SetSendKey sets the key shown for sending a message.
func (h *HintBar) SetSendKey(k string) {
	h.send = k
}

// SetWidth sets the hint bar width.
func (h *HintBar) SetWidth(width int) {
	h.width = width
}

// Text returns the hint line for the current mode.
func (h *HintBar) Text() string {
	switch h.mode {
	case HintModeSidebar:
		return "[↑↓] move  [enter] open  [n] new  [m] menu  [K/J] reorder  [tab] back"
	case HintModeMenu:
		return "[↑↓] move  [enter] choose  [a] auto  [r] rename  [d] delete  [esc] close"
	case HintModeDialog:
		return "[enter] confirm  [esc] cancel"
	default:
		return "[" + h.send + "] send  [ctrl+t] toggle send key  [ctrl+n] new topic  [tab] topics  [esc] stop"
	}
}

// View renders the hint bar.
func (h *HintBar) View() string {
	t := styles.CurrentTheme()
	return t.S().Muted.
		Width(h.width).
		Align(lipgloss.Center).
		Render(h.Text())
}
