package cmd

import (
	"fmt"
	"image/color"

	"github.com/bnema/waylayer/internal/logger"
	"github.com/bnema/waylayer/layershell"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"
)

const (
	popupWidth  = 240
	popupHeight = 120
)

var (
	surfaceColor string
	popupColor   string
	cursorShape  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the configured layer surfaces",
	Long: `Open the layer surfaces described by the [shell] section of the config
and paint them with a solid color. Clicking a surface opens a popup;
clicking outside the popup dismisses it. Escape or Ctrl+C exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPainter(surfaceColor, popupColor, cursorShape)
		if err != nil {
			return err
		}

		st, err := newEngine(nil)
		if err != nil {
			return err
		}
		defer st.Close()

		logger.Info("waylayer running", "surfaces", len(st.Units()), "outputs", len(st.Outputs()))
		return st.Run(cmd.Context(), p.handle)
	},
}

func init() {
	runCmd.Flags().StringVar(&surfaceColor, "color", "#1e1e2e", "Surface fill color")
	runCmd.Flags().StringVar(&popupColor, "popup-color", "#89b4fa", "Popup fill color")
	runCmd.Flags().StringVar(&cursorShape, "cursor", "pointer", "Cursor shape shown over the surfaces")
	rootCmd.AddCommand(runCmd)
}

// painter fills every surface with a flat color and manages click popups.
type painter struct {
	surface color.Color
	popup   color.Color
	cursor  string

	// popup id -> parent id
	popups map[layershell.ID]layershell.ID
	// surfaces that got at least one refresh and are not closed yet
	live   map[layershell.ID]bool
	px, py float64
}

func newPainter(surface, popup, cursor string) (*painter, error) {
	sc, err := colorful.Hex(surface)
	if err != nil {
		return nil, fmt.Errorf("invalid --color: %w", err)
	}
	pc, err := colorful.Hex(popup)
	if err != nil {
		return nil, fmt.Errorf("invalid --popup-color: %w", err)
	}
	return &painter{
		surface: sc,
		popup:   pc,
		cursor:  cursor,
		popups:  make(map[layershell.ID]layershell.ID),
		live:    make(map[layershell.ID]bool),
	}, nil
}

func (p *painter) handle(ev layershell.Event, st *layershell.WindowState, id layershell.ID) layershell.Control {
	switch ev := ev.(type) {
	case layershell.RequestBuffer:
		return p.provide(ev, id)
	case layershell.RequestMessages:
		ctrl, dismiss := p.message(ev.Message, id)
		for _, popup := range dismiss {
			if u, ok := st.UnitByID(popup); ok {
				u.RequestClose()
			}
		}
		return ctrl
	}
	return nil
}

func (p *painter) provide(ev layershell.RequestBuffer, id layershell.ID) layershell.Control {
	buf, err := ev.Pool.Allocate(ev.Width, ev.Height)
	if err != nil {
		logger.Error("failed to allocate buffer", "id", id, "error", err)
		return layershell.ProvideBuffer{}
	}
	if _, ok := p.popups[id]; ok {
		buf.Fill(p.popup)
	} else {
		buf.Fill(p.surface)
	}
	return layershell.ProvideBuffer{Buffer: buf}
}

// message reacts to one input or lifecycle message. dismiss lists popups
// the caller must close.
func (p *painter) message(msg layershell.Message, id layershell.ID) (ctrl layershell.Control, dismiss []layershell.ID) {
	switch msg := msg.(type) {
	case layershell.RequestRefresh:
		p.live[id] = true

	case layershell.KeyboardInput:
		if msg.Pressed && msg.Key.Name == "Escape" {
			logger.Debug("escape pressed, exiting")
			return layershell.Exit{}, nil
		}

	case layershell.MouseEnter:
		p.px, p.py = msg.X, msg.Y
		return layershell.SetCursorShape{Shape: p.cursor}, nil

	case layershell.MouseMotion:
		p.px, p.py = msg.X, msg.Y

	case layershell.MouseButton:
		if !msg.Pressed {
			return nil, nil
		}
		if _, isPopup := p.popups[id]; isPopup {
			return nil, nil
		}
		if len(p.popups) > 0 {
			for popup := range p.popups {
				dismiss = append(dismiss, popup)
			}
			return nil, dismiss
		}
		popup := layershell.NewID()
		p.popups[popup] = id
		logger.Debug("opening popup", "parent", id, "x", p.px, "y", p.py)
		return layershell.NewPopUp{
			ID: popup,
			Settings: layershell.PopUpSettings{
				Parent: id,
				X:      int32(p.px),
				Y:      int32(p.py),
				Width:  popupWidth,
				Height: popupHeight,
			},
		}, nil

	case layershell.Closed:
		delete(p.live, id)
		if _, isPopup := p.popups[id]; isPopup {
			delete(p.popups, id)
			return nil, nil
		}
		for popup, parent := range p.popups {
			if parent == id {
				delete(p.popups, popup)
			}
		}
		if p.surfaces() == 0 {
			logger.Info("last surface closed, exiting")
			return layershell.Exit{}, nil
		}
	}
	return nil, nil
}

// surfaces counts live non popup surfaces
func (p *painter) surfaces() int {
	n := 0
	for id := range p.live {
		if _, isPopup := p.popups[id]; !isPopup {
			n++
		}
	}
	return n
}
