package session

import "github.com/guilhermegouw/chatdesk/internal/topic"

// MenuAction identifies an entry of the topic context menu.
type MenuAction string

// Menu actions.
const (
	ActionAutoRename MenuAction = "auto_rename"
	ActionRename     MenuAction = "rename"
	ActionSeparator  MenuAction = "separator"
	ActionDelete     MenuAction = "delete"
)

// MenuItem is one context menu entry.
type MenuItem struct {
	Action MenuAction
	Label  string
}

// MenuFor returns the context menu for a topic of an assistant holding
// topicCount topics. Delete is offered only when another topic would remain.
func MenuFor(topicCount int) []MenuItem {
	items := []MenuItem{
		{Action: ActionAutoRename, Label: "Auto rename"},
		{Action: ActionRename, Label: "Rename"},
	}
	if topicCount > 1 {
		items = append(items,
			MenuItem{Action: ActionSeparator},
			MenuItem{Action: ActionDelete, Label: "Delete"},
		)
	}
	return items
}

// Menu returns the context menu for one of the assistant's topics.
func (s *Service) Menu(topicID string) ([]MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assistant.Get(topicID); !ok {
		return nil, topic.ErrTopicNotFound
	}
	return MenuFor(s.assistant.Len()), nil
}

// HasAction reports whether items offers the action.
func HasAction(items []MenuItem, action MenuAction) bool {
	for _, it := range items {
		if it.Action == action {
			return true
		}
	}
	return false
}
