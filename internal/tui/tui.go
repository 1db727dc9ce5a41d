// Package tui provides the terminal user interface for chatdesk.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"golang.org/x/term"

	"github.com/guilhermegouw/chatdesk/internal/bridge"
	"github.com/guilhermegouw/chatdesk/internal/config"
	"github.com/guilhermegouw/chatdesk/internal/debug"
	"github.com/guilhermegouw/chatdesk/internal/events"
	"github.com/guilhermegouw/chatdesk/internal/keys"
	"github.com/guilhermegouw/chatdesk/internal/pubsub"
	"github.com/guilhermegouw/chatdesk/internal/session"
	"github.com/guilhermegouw/chatdesk/internal/topic"
	"github.com/guilhermegouw/chatdesk/internal/tui/components/topics"
	"github.com/guilhermegouw/chatdesk/internal/tui/components/welcome"
	"github.com/guilhermegouw/chatdesk/internal/tui/page"
	"github.com/guilhermegouw/chatdesk/internal/tui/page/chat"
	"github.com/guilhermegouw/chatdesk/internal/tui/styles"
	"github.com/guilhermegouw/chatdesk/internal/tui/util"
)

// Sidebar width bounds.
const (
	minSidebarWidth = 18
	maxSidebarWidth = 32
)

// Notice keys used by the root model.
const (
	persistKey    = "persist"
	lastTopicKey  = "last-topic"
	preferenceKey = "preference"
)

// Canceller stops the response being generated.
type Canceller interface {
	Cancel() bool
}

// Deps are the services the TUI drives.
type Deps struct { //nolint:govet // fieldalignment: preserving logical field order
	Config   *config.Config
	Session  *session.Service
	History  chat.HistoryLoader
	Pipeline Canceller
	Prompter *topics.Prompter
	Hub      *pubsub.Hub

	// ModelName is shown in the status bar.
	ModelName string

	// SetupReason is set when no chat model could be built. The setup
	// screen is shown first and lists EnvVars.
	SetupReason string
	EnvVars     []string
}

type (
	deleteTopicMsg struct {
		TopicID string
	}
	clearTopicMsg struct{}
	renameDoneMsg struct{ Err error }
)

// Model is the main TUI model.
type Model struct { //nolint:govet // fieldalignment: preserving logical field order
	cfg      *config.Config
	session  *session.Service
	pipeline Canceller
	keyMap   KeyMap

	chat    *chat.Model
	sidebar *topics.List
	menu    *topics.Menu
	confirm *topics.Confirm
	input   *topics.Input
	hints   *topics.HintBar
	welcome *welcome.Welcome

	currentPage page.ID
	width       int
	height      int
	ready       bool
}

// New creates the root model.
func New(deps Deps) *Model {
	policy := keys.NewPolicy(sendShortcut(deps.Config))

	m := &Model{
		cfg:         deps.Config,
		session:     deps.Session,
		pipeline:    deps.Pipeline,
		keyMap:      DefaultKeyMap(),
		chat:        chat.New(deps.Session, deps.History, policy),
		sidebar:     topics.NewList(),
		menu:        topics.NewMenu(),
		confirm:     topics.NewConfirm(),
		input:       topics.NewInput(),
		hints:       topics.NewHintBar(),
		currentPage: page.Chat,
	}
	m.chat.SetModelName(deps.ModelName)
	m.hints.SetSendKey(sendKeyLabel(policy))
	m.sidebar.SetTopics(deps.Session.Topics(), deps.Session.ActiveID())

	if deps.SetupReason != "" {
		path := ""
		if deps.Config != nil {
			path = deps.Config.Path()
		}
		m.welcome = welcome.New(path, deps.SetupReason, deps.EnvVars)
		m.currentPage = page.Setup
	}
	return m
}

// Init initializes the TUI.
func (m *Model) Init() tea.Cmd {
	if m.currentPage == page.Setup {
		return m.welcome.Init()
	}
	return tea.Batch(m.chat.Init(), m.chat.Focus())
}

// Update handles messages.
//
//nolint:gocyclo // TUI update handler requires handling many message types
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		debug.Event("tui", "WindowSize", fmt.Sprintf("width=%d height=%d", msg.Width, msg.Height))
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.updateComponentSizes()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseClickMsg:
		if m.currentPage == page.Chat && !m.overlayVisible() {
			return m, m.handleClick(msg)
		}
		return m, nil

	case welcome.ContinueMsg:
		return m, m.changePage(page.Chat)
	case page.ChangeMsg:
		return m, m.changePage(msg.Page)

	case topics.SelectTopicMsg:
		return m, m.selectTopic(msg.TopicID)
	case topics.NewTopicMsg, chat.NewTopicCmdMsg:
		return m, m.newTopic()
	case topics.OpenMenuMsg:
		m.openMenu(msg.TopicID)
		return m, nil
	case topics.MenuSelectedMsg:
		m.syncHints()
		return m, m.menuAction(msg.TopicID, msg.Action)
	case topics.MenuClosedMsg, topics.DialogClosedMsg:
		m.syncHints()
		return m, nil
	case topics.MoveTopicMsg:
		return m, m.reportPersist(m.session.ReorderTopics(context.Background(), msg.Order))
	case topics.ConfirmedMsg:
		m.syncHints()
		return m, m.confirmed(msg.Then)
	case topics.ShowPromptMsg:
		cmd := m.input.Show(msg)
		m.syncHints()
		return m, cmd

	case chat.ClearTopicCmdMsg:
		m.askClear()
		return m, nil
	case chat.RenameTopicCmdMsg:
		action := session.ActionRename
		if msg.Auto {
			action = session.ActionAutoRename
		}
		return m, m.menuAction(m.session.ActiveID(), action)
	case chat.DeleteTopicCmdMsg:
		return m, m.menuAction(m.session.ActiveID(), session.ActionDelete)
	case chat.ToggleSendKeyCmdMsg:
		return m, m.toggleSendKey()

	case renameDoneMsg:
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			return m, m.reportPersist(msg.Err)
		}
		return m, nil

	case bridge.TopicEventMsg:
		return m, m.handleTopicEvent(msg.Event.Payload)
	case bridge.GenerationEventMsg:
		m.sidebar.SetGenerating(m.session.Generating())
		_, cmd := m.chat.Update(msg)
		return m, cmd
	case bridge.NoticeEventMsg:
		return m, m.chat.Notice(noticeInfo(msg.Event.Payload))
	}

	return m, m.routeToPage(msg)
}

func (m *Model) routeToPage(msg tea.Msg) tea.Cmd {
	switch m.currentPage {
	case page.Setup:
		_, cmd := m.welcome.Update(msg)
		return cmd
	case page.Chat:
		_, cmd := m.chat.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) changePage(id page.ID) tea.Cmd {
	debug.Event("tui", "PageChange", fmt.Sprintf("page=%s", id))
	m.currentPage = id
	if id == page.Chat {
		m.updateComponentSizes()
		return tea.Batch(m.chat.Init(), m.chat.Focus())
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	debug.Event("tui", "KeyMsg", fmt.Sprintf("key=%q", msg.String()))

	if key.Matches(msg, m.keyMap.Quit) {
		m.input.Cancel()
		return tea.Quit
	}

	switch {
	case m.input.IsVisible():
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	case m.confirm.IsVisible():
		var cmd tea.Cmd
		m.confirm, cmd = m.confirm.Update(msg)
		return cmd
	case m.menu.IsVisible():
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return cmd
	case m.currentPage == page.Setup:
		_, cmd := m.welcome.Update(msg)
		return cmd
	}

	switch {
	case m.chat.Policy().IsNewTopic(msg):
		return m.newTopic()
	case key.Matches(msg, m.keyMap.ToggleSend):
		return m.toggleSendKey()
	case key.Matches(msg, m.keyMap.FlipSidebar):
		return m.flipSidebar()
	case key.Matches(msg, m.keyMap.ToggleSidebar):
		return m.toggleSidebarFocus()
	case key.Matches(msg, m.keyMap.ClearTopic):
		m.askClear()
		return nil
	case key.Matches(msg, m.keyMap.Cancel):
		if m.session.Generating() && m.pipeline != nil {
			m.pipeline.Cancel()
			return nil
		}
		if m.sidebar.Focused() {
			return m.toggleSidebarFocus()
		}
		return nil
	}

	if m.sidebar.Focused() {
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		return cmd
	}
	_, cmd := m.chat.Update(msg)
	return cmd
}

func (m *Model) handleClick(msg tea.MouseClickMsg) tea.Cmd {
	x0, width := m.sidebarBounds()
	if msg.X < x0 || msg.X >= x0+width {
		if m.sidebar.Focused() {
			return m.toggleSidebarFocus()
		}
		return nil
	}

	t, ok := m.sidebar.TopicAt(msg.Y)
	if !ok {
		return nil
	}
	switch msg.Button {
	case tea.MouseLeft:
		return m.selectTopic(t.ID)
	case tea.MouseRight:
		m.openMenu(t.ID)
	}
	return nil
}

func (m *Model) selectTopic(id string) tea.Cmd {
	if err := m.session.SetActive(id); err != nil {
		// Refusals while generating reach the user through the notifier.
		if !errors.Is(err, session.ErrGenerating) {
			return util.ReportError(err)
		}
		return nil
	}
	return m.showActive()
}

func (m *Model) newTopic() tea.Cmd {
	t, err := m.session.NewTopic(context.Background())
	m.syncTopics()
	switch {
	case t == nil:
		return util.ReportError(err)
	case errors.Is(err, session.ErrGenerating):
		return util.ReportInfo(fmt.Sprintf("Created %q", t.Name))
	case err != nil:
		return tea.Batch(m.showActive(), m.reportPersist(err))
	}
	return m.showActive()
}

func (m *Model) showActive() tea.Cmd {
	m.syncTopics()
	if m.chat.TopicID() == m.session.ActiveID() {
		return nil
	}
	return m.chat.ShowTopic(m.session.ActiveID())
}

func (m *Model) openMenu(topicID string) {
	items, err := m.session.Menu(topicID)
	if err != nil {
		debug.Error("tui", err, "opening menu")
		return
	}
	m.menu.Show(topicID, m.topicName(topicID), items)
	m.syncHints()
}

func (m *Model) menuAction(topicID string, action session.MenuAction) tea.Cmd {
	svc := m.session
	switch action {
	case session.ActionAutoRename:
		return func() tea.Msg {
			return renameDoneMsg{Err: svc.AutoRename(context.Background(), topicID)}
		}
	case session.ActionRename:
		// ManualRename waits for the dialog, which Update must stay free to run.
		return func() tea.Msg {
			return renameDoneMsg{Err: svc.ManualRename(context.Background(), topicID)}
		}
	case session.ActionDelete:
		if len(svc.Topics()) <= 1 {
			return util.ReportWarn("Cannot delete the last topic", lastTopicKey)
		}
		m.confirm.Show("Delete topic",
			fmt.Sprintf("Delete %q and its messages?", m.topicName(topicID)),
			deleteTopicMsg{TopicID: topicID})
		m.syncHints()
	case session.ActionSeparator:
	}
	return nil
}

func (m *Model) askClear() {
	m.confirm.Show("Clear topic",
		fmt.Sprintf("Remove all messages from %q?", m.topicName(m.session.ActiveID())),
		clearTopicMsg{})
	m.syncHints()
}

func (m *Model) confirmed(then any) tea.Cmd {
	switch then := then.(type) {
	case deleteTopicMsg:
		err := m.session.DeleteTopic(context.Background(), then.TopicID)
		if errors.Is(err, topic.ErrLastTopic) {
			return util.ReportWarn("Cannot delete the last topic", lastTopicKey)
		}
		return tea.Batch(m.showActive(), m.reportPersist(err))
	case clearTopicMsg:
		m.session.ClearTopic()
		m.chat.Transcript().SetMessages(nil)
		return util.ReportSuccess("Topic cleared")
	}
	return nil
}

func (m *Model) toggleSendKey() tea.Cmd {
	next := m.chat.Policy().Mode().Toggle()
	policy := keys.NewPolicy(next)
	m.chat.SetPolicy(policy)
	m.hints.SetSendKey(sendKeyLabel(policy))

	if m.cfg != nil {
		if err := m.cfg.SetSendShortcut(string(next)); err != nil {
			debug.Error("tui", err, "saving send shortcut")
			return util.ReportWarn("Send key changed for this session only: "+err.Error(), preferenceKey)
		}
	}
	return util.ReportInfo("Send with " + sendKeyLabel(policy))
}

func (m *Model) flipSidebar() tea.Cmd {
	if m.cfg == nil {
		return nil
	}
	next := config.TopicPositionLeft
	if m.cfg.TopicPosition() == config.TopicPositionLeft {
		next = config.TopicPositionRight
	}
	if err := m.cfg.SetTopicPosition(next); err != nil {
		debug.Error("tui", err, "saving topic position")
		return util.ReportWarn("Could not save sidebar position: "+err.Error(), preferenceKey)
	}
	return nil
}

func (m *Model) toggleSidebarFocus() tea.Cmd {
	var cmd tea.Cmd
	if m.sidebar.Focused() {
		m.sidebar.Blur()
		cmd = m.chat.Focus()
	} else {
		m.chat.Blur()
		m.sidebar.Focus()
	}
	m.syncHints()
	return cmd
}

func (m *Model) handleTopicEvent(ev events.TopicEvent) tea.Cmd {
	m.syncTopics()
	switch ev.Type {
	case events.TopicEventSwitched:
		if ev.TopicID != m.chat.TopicID() {
			return m.chat.ShowTopic(ev.TopicID)
		}
	case events.TopicEventRenamed:
		m.chat.RefreshTopicName()
	case events.TopicEventCreated, events.TopicEventDeleted, events.TopicEventReordered:
	}
	return nil
}

func (m *Model) syncTopics() {
	m.sidebar.SetTopics(m.session.Topics(), m.session.ActiveID())
	m.sidebar.SetGenerating(m.session.Generating())
	m.chat.RefreshTopicName()
}

func (m *Model) syncHints() {
	switch {
	case m.input.IsVisible(), m.confirm.IsVisible():
		m.hints.SetMode(topics.HintModeDialog)
	case m.menu.IsVisible():
		m.hints.SetMode(topics.HintModeMenu)
	case m.sidebar.Focused():
		m.hints.SetMode(topics.HintModeSidebar)
	default:
		m.hints.SetMode(topics.HintModeChat)
	}
}

func (m *Model) reportPersist(err error) tea.Cmd {
	switch {
	case err == nil:
		return nil
	case session.IsPersistError(err):
		return util.ReportWarn("Changes not saved: "+err.Error(), persistKey)
	default:
		return util.ReportError(err)
	}
}

func (m *Model) topicName(id string) string {
	for _, t := range m.session.Topics() {
		if t.ID == id {
			return t.Name
		}
	}
	return ""
}

func (m *Model) overlayVisible() bool {
	return m.input.IsVisible() || m.confirm.IsVisible() || m.menu.IsVisible()
}

// View renders the TUI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	if !m.ready {
		view.Content = "Loading..."
		return view
	}

	if m.currentPage == page.Setup {
		view.Content = m.welcome.View()
		return view
	}

	m.updateComponentSizes()
	bodyHeight := m.bodyHeight()

	var body string
	if overlay := m.overlayView(); overlay != "" {
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, overlay)
	} else {
		sidebar := m.sidebar.View()
		chatView := m.chat.View()
		if m.topicPosition() == config.TopicPositionLeft {
			body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, chatView)
		} else {
			body = lipgloss.JoinHorizontal(lipgloss.Top, chatView, sidebar)
		}
	}

	view.Content = lipgloss.JoinVertical(lipgloss.Left, body, m.hints.View())
	return view
}

func (m *Model) overlayView() string {
	switch {
	case m.input.IsVisible():
		return m.input.View()
	case m.confirm.IsVisible():
		return m.confirm.View()
	case m.menu.IsVisible():
		return m.menu.View()
	}
	return ""
}

func (m *Model) updateComponentSizes() {
	if m.welcome != nil {
		m.welcome.SetSize(m.width, m.height)
	}
	_, sw := m.sidebarBounds()
	m.sidebar.SetSize(sw, m.bodyHeight())
	m.chat.SetSize(max(1, m.width-sw), m.bodyHeight())
	m.hints.SetWidth(m.width)
}

func (m *Model) bodyHeight() int {
	return max(1, m.height-1)
}

// sidebarBounds returns the first column and width of the sidebar.
func (m *Model) sidebarBounds() (x, width int) {
	width = min(max(m.width/4, minSidebarWidth), maxSidebarWidth)
	if m.topicPosition() == config.TopicPositionLeft {
		return 0, width
	}
	return max(0, m.width-width), width
}

func (m *Model) topicPosition() string {
	if m.cfg == nil {
		return config.TopicPositionRight
	}
	return m.cfg.TopicPosition()
}

func noticeInfo(n events.NoticeEvent) util.InfoMsg {
	t := util.InfoTypeWarn
	if n.Level == events.NoticeError {
		t = util.InfoTypeError
	}
	return util.InfoMsg{Type: t, Msg: n.Message, Key: n.Key}
}

func sendShortcut(cfg *config.Config) keys.SendShortcut {
	if cfg == nil || cfg.Preferences == nil {
		return keys.DefaultSendShortcut
	}
	return keys.SendShortcut(cfg.Preferences.SendShortcut)
}

func sendKeyLabel(p keys.Policy) string {
	if p.Mode() == keys.SendShiftEnter {
		return "shift+enter"
	}
	return "enter"
}

// Run starts the TUI program.
func Run(deps Deps) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("chatdesk requires an interactive terminal: stdin/stdout must be connected to a TTY")
	}

	styles.NewManager()

	model := New(deps)
	p := tea.NewProgram(model)

	if deps.Prompter != nil {
		deps.Prompter.SetProgram(p)
	}

	if deps.Hub != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		tuiBridge := bridge.NewTUIBridge(deps.Hub, p,
			bridge.WithAssistantFilter(deps.Session.Assistant().ID))
		tuiBridge.Start(ctx)
		defer tuiBridge.Stop()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
