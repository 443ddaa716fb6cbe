package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleToplevels() ToplevelsMsg {
	return ToplevelsMsg{
		{ID: 1, Title: "editor", AppID: "code", Activated: true},
		{ID: 2, AppID: "foot", Maximized: true},
		{ID: 3, Title: "music", Minimized: true},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m *ToplevelsModel, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := m.Update(msg)
	require.Same(t, m, next)
	return cmd
}

func TestToplevelsModelSnapshot(t *testing.T) {
	m := NewToplevelsModel(nil, nil)
	assert.Contains(t, m.View(), "waiting for compositor")

	update(t, m, sampleToplevels())
	view := m.View()
	assert.Contains(t, view, "3 window(s)")
	assert.Contains(t, view, "editor")
	assert.Contains(t, view, "(code)")
	assert.Contains(t, view, "foot")
	assert.Contains(t, view, "[maximized]")
	assert.Contains(t, view, "[minimized]")
	assert.NotContains(t, view, "activated")

	update(t, m, ToplevelsMsg{})
	assert.Contains(t, m.View(), "no windows")
	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestToplevelsModelNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want uint32
	}{
		{"starts at first", nil, 1},
		{"down", []string{"down"}, 2},
		{"vim keys", []string{"j", "j", "k"}, 2},
		{"clamps at end", []string{"down", "down", "down", "down"}, 3},
		{"clamps at start", []string{"up", "up"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewToplevelsModel(nil, nil)
			update(t, m, sampleToplevels())
			for _, k := range tt.keys {
				update(t, m, key(k))
			}
			sel, ok := m.Selected()
			require.True(t, ok)
			assert.Equal(t, tt.want, sel.ID)
		})
	}
}

func TestToplevelsModelCursorClampsOnShrink(t *testing.T) {
	m := NewToplevelsModel(nil, nil)
	update(t, m, sampleToplevels())
	update(t, m, key("down"))
	update(t, m, key("down"))

	update(t, m, ToplevelsMsg{{ID: 1, Title: "editor"}})
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, uint32(1), sel.ID)
}

func TestToplevelsModelActions(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want ToplevelAction
	}{
		{"activate", []string{"enter"}, ToplevelAction{Kind: ActionActivate, ID: 1}},
		{"close", []string{"down", "c"}, ToplevelAction{Kind: ActionClose, ID: 2}},
		{"unmaximize", []string{"down", "m"}, ToplevelAction{Kind: ActionMaximize, ID: 2, Set: false}},
		{"maximize", []string{"m"}, ToplevelAction{Kind: ActionMaximize, ID: 1, Set: true}},
		{"restore", []string{"down", "down", "n"}, ToplevelAction{Kind: ActionMinimize, ID: 3, Set: false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions := make(chan ToplevelAction, 1)
			m := NewToplevelsModel(actions, nil)
			update(t, m, sampleToplevels())

			var cmd tea.Cmd
			for _, k := range tt.keys {
				cmd = update(t, m, key(k))
			}
			require.NotNil(t, cmd)
			assert.Nil(t, cmd())
			assert.Equal(t, tt.want, <-actions)
		})
	}
}

func TestToplevelsModelActionAfterEngineStopped(t *testing.T) {
	actions := make(chan ToplevelAction)
	done := make(chan struct{})
	m := NewToplevelsModel(actions, done)
	update(t, m, sampleToplevels())

	cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)
	close(done)

	result := make(chan tea.Msg, 1)
	go func() { result <- cmd() }()
	select {
	case msg := <-result:
		assert.Nil(t, msg)
	case <-time.After(time.Second):
		t.Fatal("action blocked after the engine stopped")
	}
}

func TestToplevelsModelNoSelectionNoAction(t *testing.T) {
	actions := make(chan ToplevelAction, 1)
	m := NewToplevelsModel(actions, nil)
	assert.Nil(t, update(t, m, key("enter")))
	assert.Nil(t, update(t, m, key("c")))
}

func TestToplevelsModelQuit(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		t.Run(k, func(t *testing.T) {
			m := NewToplevelsModel(nil, nil)
			cmd := update(t, m, key(k))
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestToplevelsModelEngineError(t *testing.T) {
	m := NewToplevelsModel(nil, nil)
	boom := errors.New("compositor went away")
	cmd := update(t, m, EngineErrMsg{Err: boom})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Same(t, boom, m.Err())
}

func TestActionKindString(t *testing.T) {
	assert.Equal(t, "activate", ActionActivate.String())
	assert.Equal(t, "minimize", ActionMinimize.String())
	assert.True(t, strings.HasPrefix(ActionKind(9).String(), "action("))
}

func TestStatusBarView(t *testing.T) {
	sb := NewStatusBar("waylayer")
	sb.Width = 60
	sb.Status = "ready"
	sb.ShowSpinner = false
	view := sb.View()
	assert.Contains(t, view, "waylayer")
	assert.Contains(t, view, "ready")

	help := ControlsHelp{Controls: []Control{{Key: "q", Desc: "quit"}}}
	assert.Contains(t, help.View(), "quit")
	assert.Contains(t, FormatError(errors.New("nope")), "nope")
}
