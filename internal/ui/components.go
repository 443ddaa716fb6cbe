package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StatusBar is a one line header with a spinner while waiting
type StatusBar struct {
	Width       int
	Title       string
	Status      string
	Active      bool
	ShowSpinner bool
	spinner     spinner.Model
}

// NewStatusBar creates a new status bar
func NewStatusBar(title string) *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: SpinnerDot,
		FPS:    time.Second / 10,
	}
	s.Style = SpinnerStyle

	return &StatusBar{
		Title:       title,
		ShowSpinner: true,
		spinner:     s,
	}
}

// Init starts the spinner
func (s *StatusBar) Init() tea.Cmd {
	return s.spinner.Tick
}

// Update handles spinner ticks and resizes
func (s *StatusBar) Update(msg tea.Msg) (*StatusBar, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.ShowSpinner {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	case tea.WindowSizeMsg:
		s.Width = msg.Width
	}
	return s, nil
}

// View renders the status bar
func (s *StatusBar) View() string {
	title := TitleStyle.Render(s.Title)

	status := s.Status
	if s.ShowSpinner {
		status = s.spinner.View() + " " + status
	}
	status = FormatStatus(s.Active, status)

	gap := s.Width - lipgloss.Width(title) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + status
}

// Control is one key binding shown in the help line
type Control struct {
	Key  string
	Desc string
}

// ControlsHelp renders key bindings on a single line
type ControlsHelp struct {
	Controls []Control
}

// View renders the controls help
func (c *ControlsHelp) View() string {
	parts := make([]string, 0, len(c.Controls))
	for _, ctrl := range c.Controls {
		parts = append(parts, FormatControl(ctrl.Key, ctrl.Desc))
	}
	return strings.Join(parts, SubtleStyle.Render(" • "))
}

// FormatError renders err for stderr
func FormatError(err error) string {
	return ErrorStyle.Render(fmt.Sprintf("✗ %v", err))
}
