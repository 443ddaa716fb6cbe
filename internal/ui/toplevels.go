package ui

import (
	"fmt"
	"strings"

	"github.com/bnema/waylayer/layershell"
	tea "github.com/charmbracelet/bubbletea"
)

// ActionKind is what the user asked to do with a toplevel
type ActionKind int

const (
	ActionActivate ActionKind = iota
	ActionClose
	ActionMaximize
	ActionMinimize
)

func (k ActionKind) String() string {
	switch k {
	case ActionActivate:
		return "activate"
	case ActionClose:
		return "close"
	case ActionMaximize:
		return "maximize"
	case ActionMinimize:
		return "minimize"
	}
	return fmt.Sprintf("action(%d)", int(k))
}

// ToplevelAction is sent to the engine goroutine. Set is the requested
// state for maximize and minimize.
type ToplevelAction struct {
	Kind ActionKind
	ID   uint32
	Set  bool
}

// ToplevelsMsg replaces the listed toplevels
type ToplevelsMsg []layershell.ToplevelInfo

// EngineErrMsg ends the program with an engine failure
type EngineErrMsg struct {
	Err error
}

// ToplevelsModel is a live list of compositor windows
type ToplevelsModel struct {
	toplevels []layershell.ToplevelInfo
	cursor    int
	actions   chan<- ToplevelAction
	done      <-chan struct{}
	status    *StatusBar
	help      ControlsHelp
	err       error
	loaded    bool
}

// NewToplevelsModel sends user actions on actions until done is closed
func NewToplevelsModel(actions chan<- ToplevelAction, done <-chan struct{}) *ToplevelsModel {
	status := NewStatusBar("waylayer toplevels")
	status.Status = "waiting for compositor"
	return &ToplevelsModel{
		actions: actions,
		done:    done,
		status:  status,
		help: ControlsHelp{Controls: []Control{
			{Key: "↑/↓", Desc: "select"},
			{Key: "enter", Desc: "activate"},
			{Key: "m", Desc: "maximize"},
			{Key: "n", Desc: "minimize"},
			{Key: "c", Desc: "close"},
			{Key: "q", Desc: "quit"},
		}},
	}
}

// Init implements tea.Model
func (m *ToplevelsModel) Init() tea.Cmd {
	return m.status.Init()
}

// Err returns the engine error that stopped the program, if any
func (m *ToplevelsModel) Err() error { return m.err }

// Selected returns the toplevel under the cursor
func (m *ToplevelsModel) Selected() (layershell.ToplevelInfo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.toplevels) {
		return layershell.ToplevelInfo{}, false
	}
	return m.toplevels[m.cursor], true
}

// Update implements tea.Model
func (m *ToplevelsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case ToplevelsMsg:
		m.toplevels = msg
		m.loaded = true
		if m.cursor >= len(m.toplevels) {
			m.cursor = len(m.toplevels) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.status.ShowSpinner = false
		m.status.Active = true
		m.status.Status = fmt.Sprintf("%d window(s)", len(m.toplevels))
		return m, nil

	case EngineErrMsg:
		m.err = msg.Err
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.status, cmd = m.status.Update(msg)
	return m, cmd
}

func (m *ToplevelsModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return nil
	case "down", "j":
		if m.cursor < len(m.toplevels)-1 {
			m.cursor++
		}
		return nil
	}

	sel, ok := m.Selected()
	if !ok {
		return nil
	}
	switch msg.String() {
	case "enter":
		return m.send(ToplevelAction{Kind: ActionActivate, ID: sel.ID})
	case "c":
		return m.send(ToplevelAction{Kind: ActionClose, ID: sel.ID})
	case "m":
		return m.send(ToplevelAction{Kind: ActionMaximize, ID: sel.ID, Set: !sel.Maximized})
	case "n":
		return m.send(ToplevelAction{Kind: ActionMinimize, ID: sel.ID, Set: !sel.Minimized})
	}
	return nil
}

// send hands a off to the engine outside of Update, which must not block.
func (m *ToplevelsModel) send(a ToplevelAction) tea.Cmd {
	if m.actions == nil {
		return nil
	}
	ch, done := m.actions, m.done
	return func() tea.Msg {
		select {
		case ch <- a:
		case <-done:
		}
		return nil
	}
}

// View implements tea.Model
func (m *ToplevelsModel) View() string {
	var b strings.Builder
	b.WriteString(m.status.View())
	b.WriteString("\n")
	b.WriteString(CreateSeparator(m.status.Width, ""))
	b.WriteString("\n")

	switch {
	case !m.loaded:
	case len(m.toplevels) == 0:
		b.WriteString(MutedStyle.Render("  no windows"))
		b.WriteString("\n")
	default:
		for i, t := range m.toplevels {
			b.WriteString(m.row(i, t))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.help.View())
	b.WriteString("\n")
	return b.String()
}

func (m *ToplevelsModel) row(i int, t layershell.ToplevelInfo) string {
	marker := "  "
	name := TextStyle.Render(t.DisplayName())
	if i == m.cursor {
		marker = SelectedStyle.Render("▶ ")
		name = SelectedStyle.Render(t.DisplayName())
	}

	line := marker + FormatStatus(t.Activated, name)
	if t.AppID != "" && t.Title != "" {
		line += " " + SubtleStyle.Render("("+t.AppID+")")
	}
	var states []string
	for _, s := range t.States() {
		if s != layershell.ToplevelActivated {
			states = append(states, s.String())
		}
	}
	if len(states) > 0 {
		line += " " + InfoStyle.Render("["+strings.Join(states, ", ")+"]")
	}
	return line
}
