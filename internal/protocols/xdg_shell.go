package protocols

import (
	"github.com/bnema/waylayer/internal/wire"
	"github.com/bnema/waylayer/internal/wl"
)

// Protocol interface names for xdg-shell
const (
	XdgWmBaseInterface = "xdg_wm_base"
)

// XdgWmBase is xdg_wm_base. Ping events are answered automatically.
type XdgWmBase struct {
	wl.BaseProxy
}

func (w *XdgWmBase) Destroy() error {
	err := w.Context().SendRequest(w, 0)
	w.Context().Unregister(w)
	return err
}

func (w *XdgWmBase) CreatePositioner() (*XdgPositioner, error) {
	p := &XdgPositioner{}
	w.Context().Register(p)
	if err := w.Context().SendRequest(w, 1, p); err != nil {
		w.Context().Unregister(p)
		return nil, err
	}
	return p, nil
}

func (w *XdgWmBase) GetXdgSurface(surface *wl.Surface) (*XdgSurface, error) {
	s := &XdgSurface{}
	w.Context().Register(s)
	if err := w.Context().SendRequest(w, 2, s, surface); err != nil {
		w.Context().Unregister(s)
		return nil, err
	}
	return s, nil
}

func (w *XdgWmBase) Pong(serial uint32) error {
	return w.Context().SendRequest(w, 3, serial)
}

func (w *XdgWmBase) Dispatch(msg *wire.Message) {
	if msg.Opcode == 0 {
		_ = w.Pong(msg.Uint32())
	}
}

// Positioner anchors and gravities.
const (
	PositionerAnchorNone        uint32 = 0
	PositionerAnchorTop         uint32 = 1
	PositionerAnchorBottom      uint32 = 2
	PositionerAnchorLeft        uint32 = 3
	PositionerAnchorRight       uint32 = 4
	PositionerAnchorTopLeft     uint32 = 5
	PositionerAnchorBottomLeft  uint32 = 6
	PositionerAnchorTopRight    uint32 = 7
	PositionerAnchorBottomRight uint32 = 8
)

// XdgPositioner is xdg_positioner.
type XdgPositioner struct {
	wl.BaseProxy
}

func (p *XdgPositioner) Destroy() error {
	err := p.Context().SendRequest(p, 0)
	p.Context().Unregister(p)
	return err
}

func (p *XdgPositioner) SetSize(width, height int32) error {
	return p.Context().SendRequest(p, 1, width, height)
}

func (p *XdgPositioner) SetAnchorRect(x, y, width, height int32) error {
	return p.Context().SendRequest(p, 2, x, y, width, height)
}

func (p *XdgPositioner) SetAnchor(anchor uint32) error {
	return p.Context().SendRequest(p, 3, anchor)
}

func (p *XdgPositioner) SetGravity(gravity uint32) error {
	return p.Context().SendRequest(p, 4, gravity)
}

func (p *XdgPositioner) SetConstraintAdjustment(adjustment uint32) error {
	return p.Context().SendRequest(p, 5, adjustment)
}

func (p *XdgPositioner) SetOffset(x, y int32) error {
	return p.Context().SendRequest(p, 6, x, y)
}

// XdgSurface is xdg_surface.
type XdgSurface struct {
	wl.BaseProxy
	configureHandler func(serial uint32)
}

func (s *XdgSurface) SetConfigureHandler(f func(serial uint32)) { s.configureHandler = f }

func (s *XdgSurface) Destroy() error {
	err := s.Context().SendRequest(s, 0)
	s.Context().Unregister(s)
	return err
}

func (s *XdgSurface) GetToplevel() (*XdgToplevel, error) {
	t := &XdgToplevel{}
	s.Context().Register(t)
	if err := s.Context().SendRequest(s, 1, t); err != nil {
		s.Context().Unregister(t)
		return nil, err
	}
	return t, nil
}

// GetPopup creates a popup. parent may be nil when the parent is assigned
// through another protocol, such as a layer surface.
func (s *XdgSurface) GetPopup(parent *XdgSurface, positioner *XdgPositioner) (*XdgPopup, error) {
	p := &XdgPopup{}
	s.Context().Register(p)
	if err := s.Context().SendRequest(s, 2, p, wl.ObjectID(parent), positioner); err != nil {
		s.Context().Unregister(p)
		return nil, err
	}
	return p, nil
}

func (s *XdgSurface) SetWindowGeometry(x, y, width, height int32) error {
	return s.Context().SendRequest(s, 3, x, y, width, height)
}

func (s *XdgSurface) AckConfigure(serial uint32) error {
	return s.Context().SendRequest(s, 4, serial)
}

func (s *XdgSurface) Dispatch(msg *wire.Message) {
	if msg.Opcode == 0 {
		serial := msg.Uint32()
		if s.configureHandler != nil {
			s.configureHandler(serial)
		}
	}
}

// XdgToplevelConfigureEvent is a pending size and state set.
type XdgToplevelConfigureEvent struct {
	Width  int32
	Height int32
	States []uint32
}

// XdgToplevel is xdg_toplevel.
type XdgToplevel struct {
	wl.BaseProxy
	configureHandler func(XdgToplevelConfigureEvent)
	closeHandler     func()
}

func (t *XdgToplevel) SetConfigureHandler(f func(XdgToplevelConfigureEvent)) { t.configureHandler = f }
func (t *XdgToplevel) SetCloseHandler(f func())                              { t.closeHandler = f }

func (t *XdgToplevel) Destroy() error {
	err := t.Context().SendRequest(t, 0)
	t.Context().Unregister(t)
	return err
}

func (t *XdgToplevel) SetTitle(title string) error {
	return t.Context().SendRequest(t, 2, title)
}

func (t *XdgToplevel) SetAppID(appID string) error {
	return t.Context().SendRequest(t, 3, appID)
}

func (t *XdgToplevel) SetMaxSize(width, height int32) error {
	return t.Context().SendRequest(t, 7, width, height)
}

func (t *XdgToplevel) SetMinSize(width, height int32) error {
	return t.Context().SendRequest(t, 8, width, height)
}

func (t *XdgToplevel) SetMaximized() error {
	return t.Context().SendRequest(t, 9)
}

func (t *XdgToplevel) UnsetMaximized() error {
	return t.Context().SendRequest(t, 10)
}

func (t *XdgToplevel) Dispatch(msg *wire.Message) {
	switch msg.Opcode {
	case 0:
		ev := XdgToplevelConfigureEvent{Width: msg.Int32(), Height: msg.Int32()}
		ev.States = wire.Uint32Array(msg.Array())
		if t.configureHandler != nil {
			t.configureHandler(ev)
		}
	case 1:
		if t.closeHandler != nil {
			t.closeHandler()
		}
	}
}

// XdgPopupConfigureEvent is the popup's placement relative to its parent.
type XdgPopupConfigureEvent struct {
	X      int32
	Y      int32
	Width  int32
	Height int32
}

// XdgPopup is xdg_popup.
type XdgPopup struct {
	wl.BaseProxy
	configureHandler func(XdgPopupConfigureEvent)
	doneHandler      func()
}

func (p *XdgPopup) SetConfigureHandler(f func(XdgPopupConfigureEvent)) { p.configureHandler = f }
func (p *XdgPopup) SetPopupDoneHandler(f func())                       { p.doneHandler = f }

func (p *XdgPopup) Destroy() error {
	err := p.Context().SendRequest(p, 0)
	p.Context().Unregister(p)
	return err
}

func (p *XdgPopup) Grab(seat *wl.Seat, serial uint32) error {
	return p.Context().SendRequest(p, 1, seat, serial)
}

func (p *XdgPopup) Dispatch(msg *wire.Message) {
	switch msg.Opcode {
	case 0:
		ev := XdgPopupConfigureEvent{X: msg.Int32(), Y: msg.Int32(), Width: msg.Int32(), Height: msg.Int32()}
		if p.configureHandler != nil {
			p.configureHandler(ev)
		}
	case 1:
		if p.doneHandler != nil {
			p.doneHandler()
		}
	}
}
