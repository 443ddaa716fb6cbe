package cmd

import (
	"context"
	"strings"

	"github.com/bnema/waylayer/internal/logger"
	"github.com/bnema/waylayer/internal/ui"
	"github.com/bnema/waylayer/layershell"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var watchToplevels bool

// toplevelRow is the structured form of one window
type toplevelRow struct {
	ID     uint32   `json:"id" yaml:"id"`
	Title  string   `json:"title" yaml:"title"`
	AppID  string   `json:"app_id" yaml:"app_id"`
	States []string `json:"states" yaml:"states"`
}

var toplevelsCmd = &cobra.Command{
	Use:   "toplevels",
	Short: "List open windows",
	Long: `List the compositor's windows through the foreign toplevel protocol.
With --watch the list stays open and updates live; windows can be
activated, maximized, minimized or closed from it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newEngine(func(s *layershell.Settings) {
			s.StartMode = layershell.StartBackground
			s.ForeignToplevel = true
		})
		if err != nil {
			return err
		}
		defer st.Close()

		if watchToplevels {
			return watch(cmd.Context(), st)
		}
		return listToplevels(cmd, st)
	},
}

func init() {
	toplevelsCmd.Flags().BoolVarP(&watchToplevels, "watch", "w", false, "Keep the list open and update it live")
	rootCmd.AddCommand(toplevelsCmd)
}

// listToplevels runs the loop for one tick so the initial announcements
// are processed, then prints them.
func listToplevels(cmd *cobra.Command, st *layershell.WindowState) error {
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	err = st.Run(cmd.Context(), func(ev layershell.Event, st *layershell.WindowState, id layershell.ID) layershell.Control {
		if _, ok := ev.(layershell.NormalDispatch); ok {
			return layershell.Exit{}
		}
		return nil
	})
	if err != nil {
		return err
	}

	toplevels := st.Toplevels()
	data := make([]toplevelRow, 0, len(toplevels))
	rows := make([][]string, 0, len(toplevels))
	for _, t := range toplevels {
		var states []string
		for _, s := range t.States() {
			states = append(states, s.String())
		}
		data = append(data, toplevelRow{ID: t.ID, Title: t.Title, AppID: t.AppID, States: states})
		rows = append(rows, []string{
			t.DisplayName(),
			orDash(t.AppID),
			orDash(strings.Join(states, ",")),
		})
	}
	return printer.Print(data, []string{"TITLE", "APP ID", "STATES"}, rows)
}

// watch runs the engine and the TUI side by side. Either one ending stops
// the other.
func watch(ctx context.Context, st *layershell.WindowState) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	actions := make(chan ui.ToplevelAction)
	engineDone := make(chan struct{})
	model := ui.NewToplevelsModel(actions, engineDone)
	p := tea.NewProgram(model, tea.WithAltScreen())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(engineDone)
		err := layershell.RunWithChannel(ctx, st, actions, func(ev layershell.Event, st *layershell.WindowState, id layershell.ID) layershell.Control {
			switch ev := ev.(type) {
			case layershell.InitRequest:
				p.Send(ui.ToplevelsMsg(st.Toplevels()))
			case layershell.UserEvent:
				if a, ok := ev.Value.(ui.ToplevelAction); ok {
					applyToplevelAction(st, a)
				}
			case layershell.RequestMessages:
				if _, ok := ev.Message.(layershell.ForeignToplevel); ok {
					p.Send(ui.ToplevelsMsg(st.Toplevels()))
				}
			}
			return nil
		})
		if err != nil {
			p.Send(ui.EngineErrMsg{Err: err})
		} else {
			p.Quit()
		}
		return err
	})
	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil {
			return err
		}
		return model.Err()
	})

	return g.Wait()
}

func applyToplevelAction(st *layershell.WindowState, a ui.ToplevelAction) {
	logger.Debug("toplevel action", "action", a.Kind, "id", a.ID)
	switch a.Kind {
	case ui.ActionActivate:
		st.ActivateToplevel(a.ID)
	case ui.ActionClose:
		st.CloseToplevel(a.ID)
	case ui.ActionMaximize:
		st.SetToplevelMaximized(a.ID, a.Set)
	case ui.ActionMinimize:
		st.SetToplevelMinimized(a.ID, a.Set)
	}
}
