// Package page identifies the top-level screens of the TUI.
package page

// ID identifies a page.
type ID string

// Pages.
const (
	Chat  ID = "chat"
	Setup ID = "setup"
)

// ChangeMsg switches the visible page.
type ChangeMsg struct {
	Page ID
}
