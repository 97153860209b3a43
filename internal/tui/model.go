// Package tui provides the BubbleTea-based terminal browser for the menu.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/batocera-linux/controlcenter/internal/action"
	"github.com/batocera-linux/controlcenter/internal/i18n"
	"github.com/batocera-linux/controlcenter/internal/menu"
	"github.com/batocera-linux/controlcenter/internal/view"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeList Mode = iota
	ModeConfirm
	ModeSearch
	ModeHelp
)

// Executor runs menu actions and command substitutions.
type Executor interface {
	Run(ctx context.Context, a menu.Action) action.Result
	Output(ctx context.Context, command string) (string, error)
}

// pendingAction waits for confirmation.
type pendingAction struct {
	index  int
	action menu.Action
	prompt string
}

// Model is the main TUI model.
type Model struct {
	ctx          context.Context
	doc          *menu.Document
	exec         Executor
	tr           *i18n.Translator
	history      *view.History
	confirmPower bool

	// Current mode
	mode Mode

	// Components
	list        list.Model
	searchInput textinput.Model
	help        help.Model
	bar         progress.Model

	// State
	entries     []*entry
	pending     *pendingAction
	searchQuery string
	width       int
	height      int
	ready       bool

	// Key bindings
	keys KeyMap

	// Status message
	statusMsg string
	statusErr bool
}

// Options configures the TUI model.
type Options struct {
	Document     *menu.Document
	Executor     Executor
	Translator   *i18n.Translator
	History      *view.History // nil starts empty
	ConfirmPower bool
}

// New creates a new TUI model.
func New(ctx context.Context, opts Options) Model {
	l := list.New(nil, newEntryDelegate(), 0, 0)
	l.Title = view.Title(opts.Document, "Control Center")
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	searchInput := textinput.New()
	searchInput.Placeholder = "Search..."
	searchInput.CharLimit = 100

	tr := opts.Translator
	if tr == nil {
		tr = i18n.MustNew("")
	}

	history := opts.History
	if history == nil {
		history = view.NewHistory()
	}

	m := Model{
		ctx:          ctx,
		doc:          opts.Document,
		exec:         opts.Executor,
		tr:           tr,
		history:      history,
		confirmPower: opts.ConfirmPower,
		mode:         ModeList,
		list:         l,
		searchInput:  searchInput,
		help:         help.New(),
		bar:          progress.New(progress.WithDefaultGradient(), progress.WithWidth(24)),
		entries:      flatten(opts.Document.Root),
		keys:         DefaultKeyMap(),
	}
	for _, e := range m.entries {
		if r, ok := history.Last(e.label); ok {
			e.lastRun = r.Started
		}
	}
	m.list.SetItems(m.buildListItems())
	return m
}

// Init evaluates every dynamic label and value.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	for i, e := range m.entries {
		for _, attr := range []string{"display", "value"} {
			if menu.IsDynamic(e.node.Get(attr)) {
				cmds = append(cmds, m.evaluate(i, attr))
			}
		}
	}
	return tea.Batch(cmds...)
}

type valueMsg struct {
	index int
	attr  string
	text  string
}

type refreshTickMsg struct {
	index int
	attr  string
}

type actionDoneMsg struct {
	index  int
	result action.Result
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

// evaluate expands one attribute of an entry off the update loop.
func (m Model) evaluate(index int, attr string) tea.Cmd {
	template := m.entries[index].node.Get(attr)
	ctx, exec := m.ctx, m.exec
	return func() tea.Msg {
		text, _ := menu.Expand(ctx, template, exec.Output)
		return valueMsg{index: index, attr: attr, text: text}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.list.SetSize(msg.Width, msg.Height-2)
		m.help.Width = msg.Width
		return m, nil

	case valueMsg:
		if msg.index < 0 || msg.index >= len(m.entries) {
			return m, nil
		}
		e := m.entries[msg.index]
		if msg.attr == "value" {
			e.value = msg.text
		} else {
			e.label = msg.text
		}
		m.list.SetItems(m.buildListItems())

		interval := view.RefreshInterval(e.node)
		if interval <= 0 {
			return m, nil
		}
		return m, tea.Tick(interval, func(time.Time) tea.Msg {
			return refreshTickMsg{index: msg.index, attr: msg.attr}
		})

	case refreshTickMsg:
		return m, m.evaluate(msg.index, msg.attr)

	case actionDoneMsg:
		return m.handleActionDone(msg)

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, status("Copy failed: "+msg.err.Error(), true)
		}
		return m, status("Copied to clipboard", false)
	}

	var cmd tea.Cmd
	switch m.mode {
	case ModeList:
		m.list, cmd = m.list.Update(msg)
	case ModeSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	}
	return m, cmd
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The confirmation prompt captures every key.
	if m.mode == ModeConfirm {
		return m.handleConfirmKey(msg)
	}
	if m.mode == ModeSearch {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeList
		} else {
			m.mode = ModeHelp
		}
		return m, nil
	}

	if m.mode == ModeHelp {
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeList
		}
		return m, nil
	}
	return m.handleListKey(msg)
}

// handleListKey handles keys in list mode.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Activate):
		if i, ok := m.selectedIndex(); ok {
			return m.activate(i)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.Init()

	case key.Matches(msg, m.keys.Copy):
		if i, ok := m.selectedIndex(); ok {
			return m, copyToClipboard(entryText(m.entries[i]))
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyMenu):
		data, err := menu.Marshal(m.doc, menu.FormatYAML)
		if err != nil {
			return m, status("Failed to marshal YAML: "+err.Error(), true)
		}
		return m, copyToClipboard(string(data))

	case key.Matches(msg, m.keys.Search):
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.list.SetItems(m.buildListItems())
		m.mode = ModeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Back):
		if m.searchQuery != "" {
			m.searchQuery = ""
			m.list.SetItems(m.buildListItems())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKey handles keys in search mode.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeList
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.list.SetItems(m.buildListItems())
		return m, nil

	case tea.KeyEnter:
		// Keep the filter and go back to navigating.
		m.mode = ModeList
		m.searchInput.Blur()
		return m, nil

	case tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.searchQuery = m.searchInput.Value()
	m.list.SetItems(m.buildListItems())
	return m, cmd
}

// handleConfirmKey resolves a pending confirmation.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Accept):
		p := m.pending
		m.pending = nil
		m.mode = ModeList
		return m.execute(p.index, p.action)
	case key.Matches(msg, m.keys.Reject):
		m.pending = nil
		m.mode = ModeList
		return m, nil
	}
	return m, nil
}

// activate runs the action bound to the entry at index.
func (m Model) activate(index int) (tea.Model, tea.Cmd) {
	e := m.entries[index]

	var raw string
	var confirm bool
	switch e.node.Kind {
	case menu.KindButton:
		raw = e.node.Get("action")
		confirm = view.ConfirmFlag(e.node)
	case menu.KindToggle:
		if view.Truthy(e.value) {
			raw = e.node.Get("action_off")
		} else {
			raw = e.node.Get("action_on")
		}
	default:
		return m, nil
	}

	a, err := menu.ParseAction(raw)
	if err != nil {
		return m, status(m.failed(e.label, err), true)
	}

	if confirm || (m.confirmPower && a.NeedsConfirmation()) {
		prompt := m.tr.T(i18n.MsgConfirmAction, map[string]any{"Label": e.label})
		if a.Kind == menu.ActionPower {
			prompt = m.tr.PowerPrompt(string(a.Power))
		}
		m.pending = &pendingAction{index: index, action: a, prompt: prompt}
		m.mode = ModeConfirm
		return m, nil
	}
	return m.execute(index, a)
}

func (m Model) execute(index int, a menu.Action) (tea.Model, tea.Cmd) {
	switch a.Kind {
	case menu.ActionQuit:
		return m, tea.Quit
	case menu.ActionGoto:
		if !m.focus(a.Target) {
			return m, status("No group with id "+a.Target, true)
		}
		return m, nil
	}

	label := m.entries[index].label
	ctx, exec, history := m.ctx, m.exec, m.history
	run := func() tea.Msg {
		res := exec.Run(ctx, a)
		history.Record(label, res)
		return actionDoneMsg{index: index, result: res}
	}
	return m, tea.Batch(
		status(m.tr.T(i18n.MsgActionRunning, map[string]any{"Label": label}), false),
		run,
	)
}

func (m Model) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	if msg.index < 0 || msg.index >= len(m.entries) {
		return m, nil
	}
	e := m.entries[msg.index]
	e.lastRun = msg.result.Started

	if msg.result.Err != nil {
		m.list.SetItems(m.buildListItems())
		return m, status(m.failed(e.label, msg.result.Err), true)
	}

	var cmds []tea.Cmd
	if e.node.Kind == menu.KindToggle {
		if menu.IsDynamic(e.node.Get("value")) {
			cmds = append(cmds, m.evaluate(msg.index, "value"))
		} else if view.Truthy(e.value) {
			e.value = "off"
		} else {
			e.value = "on"
		}
	}
	m.list.SetItems(m.buildListItems())

	cmds = append(cmds, status(m.tr.T(i18n.MsgActionDone, map[string]any{"Label": e.label}), false))
	return m, tea.Batch(cmds...)
}

func (m Model) failed(label string, err error) string {
	return m.tr.T(i18n.MsgActionFailed, map[string]any{"Label": label, "Error": err.Error()})
}

// focus selects the group with the given id, clearing any search filter.
func (m *Model) focus(id string) bool {
	if m.searchQuery != "" {
		m.searchQuery = ""
		m.list.SetItems(m.buildListItems())
	}
	for i, item := range m.list.Items() {
		if ei, ok := item.(entryItem); ok && ei.entry.node.IsGroup() && ei.entry.node.ID() == id {
			m.list.Select(i)
			return true
		}
	}
	return false
}

// selectedIndex maps the list selection back to an entry index.
func (m Model) selectedIndex() (int, bool) {
	ei, ok := m.list.SelectedItem().(entryItem)
	if !ok {
		return 0, false
	}
	for i, e := range m.entries {
		if e == ei.entry {
			return i, true
		}
	}
	return 0, false
}

// buildListItems creates list items for the visible entries.
func (m Model) buildListItems() []list.Item {
	query := strings.ToLower(m.searchQuery)
	items := make([]list.Item, 0, len(m.entries))
	for _, e := range m.entries {
		if query != "" && !strings.Contains(strings.ToLower(e.label), query) {
			continue
		}
		items = append(items, entryItem{entry: e, tr: m.tr, bar: m.bar})
	}
	return items
}

// entryText is what "copy entry" puts on the clipboard.
func entryText(e *entry) string {
	switch e.node.Kind {
	case menu.KindButton:
		return e.node.Get("action")
	case menu.KindToggle, menu.KindProgress:
		return e.value
	case menu.KindImage:
		return e.node.Get("src")
	default:
		return e.label
	}
}

// Run starts the TUI and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	m := New(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
