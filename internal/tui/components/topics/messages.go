package topics

import "github.com/guilhermegouw/chatdesk/internal/session"

// SelectTopicMsg asks the root model to make a topic active.
type SelectTopicMsg struct {
	TopicID string
}

// NewTopicMsg asks the root model to create a topic.
type NewTopicMsg struct{}

// OpenMenuMsg asks the root model to show the context menu of a topic.
type OpenMenuMsg struct {
	TopicID string
}

// MoveTopicMsg asks the root model to persist a new topic order.
type MoveTopicMsg struct {
	Order []string
}

// MenuSelectedMsg is sent when a context menu entry is chosen.
type MenuSelectedMsg struct {
	TopicID string
	Action  session.MenuAction
}

// MenuClosedMsg is sent when the context menu is dismissed.
type MenuClosedMsg struct{}

// ConfirmedMsg is sent when a confirmation dialog is accepted. Then carries
// the message the dialog was opened with.
type ConfirmedMsg struct {
	Then any
}

// DialogClosedMsg is sent when a dialog is dismissed without an answer.
type DialogClosedMsg struct{}
