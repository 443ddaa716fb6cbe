package protocols

import (
	"github.com/bnema/waylayer/internal/wire"
	"github.com/bnema/waylayer/internal/wl"
)

const ForeignToplevelManagerInterface = "zwlr_foreign_toplevel_manager_v1"

// ForeignToplevelManager is zwlr_foreign_toplevel_manager_v1.
type ForeignToplevelManager struct {
	wl.BaseProxy
	toplevelHandler func(*ForeignToplevelHandle)
	finishedHandler func()
}

// SetToplevelHandler is called with each new handle before any of its events.
func (m *ForeignToplevelManager) SetToplevelHandler(f func(*ForeignToplevelHandle)) {
	m.toplevelHandler = f
}

func (m *ForeignToplevelManager) SetFinishedHandler(f func()) { m.finishedHandler = f }

// Stop asks the compositor to stop sending events; it answers with finished.
func (m *ForeignToplevelManager) Stop() error {
	return m.Context().SendRequest(m, 0)
}

func (m *ForeignToplevelManager) Dispatch(msg *wire.Message) {
	switch msg.Opcode {
	case 0:
		h := &ForeignToplevelHandle{}
		m.Context().RegisterServer(h, msg.NewID())
		if m.toplevelHandler != nil {
			m.toplevelHandler(h)
		}
	case 1:
		m.Context().Unregister(m)
		if m.finishedHandler != nil {
			m.finishedHandler()
		}
	}
}

// ForeignToplevelHandlers groups the handle callbacks.
type ForeignToplevelHandlers struct {
	Title       func(title string)
	AppID       func(appID string)
	OutputEnter func(output *wl.Output)
	OutputLeave func(output *wl.Output)
	State       func(states []uint32)
	Done        func()
	Closed      func()
	Parent      func(parent *ForeignToplevelHandle)
}

// ForeignToplevelHandle is zwlr_foreign_toplevel_handle_v1.
type ForeignToplevelHandle struct {
	wl.BaseProxy
	handlers ForeignToplevelHandlers
}

func (h *ForeignToplevelHandle) SetHandlers(hs ForeignToplevelHandlers) { h.handlers = hs }

func (h *ForeignToplevelHandle) SetMaximized() error   { return h.Context().SendRequest(h, 0) }
func (h *ForeignToplevelHandle) UnsetMaximized() error { return h.Context().SendRequest(h, 1) }
func (h *ForeignToplevelHandle) SetMinimized() error   { return h.Context().SendRequest(h, 2) }
func (h *ForeignToplevelHandle) UnsetMinimized() error { return h.Context().SendRequest(h, 3) }

func (h *ForeignToplevelHandle) Activate(seat *wl.Seat) error {
	return h.Context().SendRequest(h, 4, seat)
}

func (h *ForeignToplevelHandle) Close() error { return h.Context().SendRequest(h, 5) }

func (h *ForeignToplevelHandle) Destroy() error {
	err := h.Context().SendRequest(h, 7)
	h.Context().Unregister(h)
	return err
}

// SetFullscreen requests fullscreen, on output when not nil.
func (h *ForeignToplevelHandle) SetFullscreen(output *wl.Output) error {
	return h.Context().SendRequest(h, 8, wl.ObjectID(output))
}

func (h *ForeignToplevelHandle) UnsetFullscreen() error { return h.Context().SendRequest(h, 9) }

func (h *ForeignToplevelHandle) Dispatch(msg *wire.Message) {
	hs := h.handlers
	switch msg.Opcode {
	case 0:
		title := msg.String()
		if hs.Title != nil {
			hs.Title(title)
		}
	case 1:
		appID := msg.String()
		if hs.AppID != nil {
			hs.AppID(appID)
		}
	case 2:
		out := wl.Lookup[*wl.Output](h.Context(), msg.Object())
		if hs.OutputEnter != nil {
			hs.OutputEnter(out)
		}
	case 3:
		out := wl.Lookup[*wl.Output](h.Context(), msg.Object())
		if hs.OutputLeave != nil {
			hs.OutputLeave(out)
		}
	case 4:
		states := wire.Uint32Array(msg.Array())
		if hs.State != nil {
			hs.State(states)
		}
	case 5:
		if hs.Done != nil {
			hs.Done()
		}
	case 6:
		if hs.Closed != nil {
			hs.Closed()
		}
	case 7:
		parent := wl.Lookup[*ForeignToplevelHandle](h.Context(), msg.Object())
		if hs.Parent != nil {
			hs.Parent(parent)
		}
	}
}
