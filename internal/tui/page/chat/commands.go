package chat

import (
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
)

// Command message types. The root model performs the actions.
type (
	// NewTopicCmdMsg creates a topic.
	NewTopicCmdMsg struct{}

	// ClearTopicCmdMsg clears the messages of the active topic.
	ClearTopicCmdMsg struct{}

	// RenameTopicCmdMsg renames the active topic, by summary when Auto is set.
	RenameTopicCmdMsg struct {
		Auto bool
	}

	// DeleteTopicCmdMsg deletes the active topic.
	DeleteTopicCmdMsg struct{}

	// ToggleSendKeyCmdMsg switches the send shortcut.
	ToggleSendKeyCmdMsg struct{}
)

// Command represents a slash command.
type Command struct {
	Name        string
	Description string
	Handler     func(args []string) tea.Msg
}

// CommandRegistry holds registered slash commands.
type CommandRegistry struct {
	commands map[string]Command
}

// NewCommandRegistry creates a registry holding the topic commands.
func NewCommandRegistry() *CommandRegistry {
	r := &CommandRegistry{
		commands: make(map[string]Command),
	}

	r.Register(Command{
		Name:        "new",
		Description: "Start a new topic",
		Handler:     func([]string) tea.Msg { return NewTopicCmdMsg{} },
	})
	r.Register(Command{
		Name:        "clear",
		Description: "Clear the messages of this topic",
		Handler:     func([]string) tea.Msg { return ClearTopicCmdMsg{} },
	})
	r.Register(Command{
		Name:        "rename",
		Description: "Rename this topic",
		Handler:     func([]string) tea.Msg { return RenameTopicCmdMsg{} },
	})
	r.Register(Command{
		Name:        "autorename",
		Description: "Name this topic after its conversation",
		Handler:     func([]string) tea.Msg { return RenameTopicCmdMsg{Auto: true} },
	})
	r.Register(Command{
		Name:        "delete",
		Description: "Delete this topic",
		Handler:     func([]string) tea.Msg { return DeleteTopicCmdMsg{} },
	})
	r.Register(Command{
		Name:        "sendkey",
		Description: "Toggle between Enter and Shift+Enter to send",
		Handler:     func([]string) tea.Msg { return ToggleSendKeyCmdMsg{} },
	})

	return r
}

// Register adds a command to the registry.
func (r *CommandRegistry) Register(cmd Command) {
	r.commands[cmd.Name] = cmd
}

// Parse attempts to parse input as a registered slash command. Anything
// else, including text starting with an unregistered "/word", is an
// ordinary message and reports false.
func (r *CommandRegistry) Parse(input string) (tea.Msg, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") || strings.Contains(input, "\n") {
		return nil, false
	}

	parts := strings.Fields(input[1:])
	if len(parts) == 0 {
		return nil, false
	}

	name := strings.ToLower(parts[0])
	cmd, ok := r.commands[name]
	if !ok {
		return nil, false
	}
	return cmd.Handler(parts[1:]), true
}

// Commands returns the registered commands sorted by name.
func (r *CommandRegistry) Commands() []Command {
	cmds := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	slices.SortFunc(cmds, func(a, b Command) int { return strings.Compare(a.Name, b.Name) })
	return cmds
}
