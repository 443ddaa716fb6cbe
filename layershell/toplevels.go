package layershell

import (
	"fmt"
	"strings"

	"github.com/bnema/waylayer/internal/protocols"
	"github.com/bnema/waylayer/internal/wl"
)

// ToplevelState is a window state reported by the foreign toplevel list.
type ToplevelState int

const (
	ToplevelMaximized ToplevelState = iota
	ToplevelMinimized
	ToplevelActivated
	ToplevelFullscreen
)

func (s ToplevelState) String() string {
	switch s {
	case ToplevelMaximized:
		return "maximized"
	case ToplevelMinimized:
		return "minimized"
	case ToplevelActivated:
		return "activated"
	case ToplevelFullscreen:
		return "fullscreen"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ParseToplevelState accepts the lowercase state names.
func ParseToplevelState(s string) (ToplevelState, error) {
	for st := ToplevelMaximized; st <= ToplevelFullscreen; st++ {
		if strings.EqualFold(s, st.String()) {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown toplevel state %q", s)
}

// ToplevelStateMap maps wire values of the state array to states.
type ToplevelStateMap map[uint32]ToplevelState

// DefaultToplevelStateMap is the wlr foreign toplevel numbering.
func DefaultToplevelStateMap() ToplevelStateMap {
	return ToplevelStateMap{
		0: ToplevelMaximized,
		1: ToplevelMinimized,
		2: ToplevelActivated,
		3: ToplevelFullscreen,
	}
}

// ToplevelInfo describes one window of the compositor.
type ToplevelInfo struct {
	ID         uint32
	Title      string
	AppID      string
	Activated  bool
	Maximized  bool
	Minimized  bool
	Fullscreen bool
}

// DisplayName prefers the title, then the app id.
func (t ToplevelInfo) DisplayName() string {
	switch {
	case t.Title != "":
		return t.Title
	case t.AppID != "":
		return t.AppID
	}
	return fmt.Sprintf("toplevel %d", t.ID)
}

// States lists the set flags.
func (t ToplevelInfo) States() []ToplevelState {
	var out []ToplevelState
	if t.Maximized {
		out = append(out, ToplevelMaximized)
	}
	if t.Minimized {
		out = append(out, ToplevelMinimized)
	}
	if t.Activated {
		out = append(out, ToplevelActivated)
	}
	if t.Fullscreen {
		out = append(out, ToplevelFullscreen)
	}
	return out
}

type toplevelEntry struct {
	handle    *protocols.ForeignToplevelHandle
	info      ToplevelInfo
	announced bool
}

// apply resets the flags from a state array. Values the map does not
// know are skipped.
func (m ToplevelStateMap) apply(info *ToplevelInfo, states []uint32) []uint32 {
	info.Activated, info.Maximized, info.Minimized, info.Fullscreen = false, false, false, false
	var unknown []uint32
	for _, v := range states {
		s, ok := m[v]
		if !ok {
			unknown = append(unknown, v)
			continue
		}
		switch s {
		case ToplevelMaximized:
			info.Maximized = true
		case ToplevelMinimized:
			info.Minimized = true
		case ToplevelActivated:
			info.Activated = true
		case ToplevelFullscreen:
			info.Fullscreen = true
		}
	}
	return unknown
}

func (st *WindowState) newToplevelEntry(handleID uint32) (*toplevelEntry, error) {
	h := wl.Lookup[*protocols.ForeignToplevelHandle](st.ctx, handleID)
	if h == nil {
		return nil, fmt.Errorf("no toplevel handle %d", handleID)
	}
	e := &toplevelEntry{handle: h, info: ToplevelInfo{ID: handleID}}
	h.SetHandlers(protocols.ForeignToplevelHandlers{
		Title: func(title string) { e.info.Title = title },
		AppID: func(appID string) { e.info.AppID = appID },
		State: func(states []uint32) {
			if unknown := st.settings.ToplevelStates.apply(&e.info, states); len(unknown) > 0 {
				st.log.Debug("skipping unknown toplevel states", "toplevel", handleID, "values", unknown)
			}
		},
		Done: func() {
			kind := ToplevelChanged
			if !e.announced {
				kind = ToplevelCreated
				e.announced = true
			}
			st.toplevels.EmitFor(handleID, ForeignToplevel{Event: ToplevelEvent{Kind: kind, Info: e.info}})
		},
		Closed: func() {
			st.toplevels.EmitFor(handleID, ForeignToplevel{Event: ToplevelEvent{Kind: ToplevelClosed, Info: e.info}})
			st.toplevels.Remove(handleID)
		},
	})
	return e, nil
}

func (st *WindowState) bindForeignToplevels(m *protocols.ForeignToplevelManager) {
	m.SetToplevelHandler(func(h *protocols.ForeignToplevelHandle) {
		st.toplevels.GetOrCreate(h.ID())
	})
	m.SetFinishedHandler(func() {
		st.toplevels.Emit(ForeignToplevel{Event: ToplevelEvent{Kind: ToplevelFinished}})
		st.toplevels.RemoveAll()
	})
	st.toplevels.Bind(m)
}

// Toplevels lists the compositor's windows that finished their first
// announcement, in creation order.
func (st *WindowState) Toplevels() []ToplevelInfo {
	var out []ToplevelInfo
	st.toplevels.Each(func(_ uint32, e *toplevelEntry) {
		if e.announced {
			out = append(out, e.info)
		}
	})
	return out
}

// ActivateToplevel focuses a window on the first seat.
func (st *WindowState) ActivateToplevel(id uint32) {
	st.toplevels.WithExisting(id, "activate toplevel", func(e *toplevelEntry) error {
		if st.seat == nil {
			return fmt.Errorf("no seat")
		}
		return e.handle.Activate(st.seat)
	})
}

func (st *WindowState) CloseToplevel(id uint32) {
	st.toplevels.WithExisting(id, "close toplevel", func(e *toplevelEntry) error {
		return e.handle.Close()
	})
}

func (st *WindowState) SetToplevelMaximized(id uint32, maximized bool) {
	st.toplevels.WithExisting(id, "maximize toplevel", func(e *toplevelEntry) error {
		if maximized {
			return e.handle.SetMaximized()
		}
		return e.handle.UnsetMaximized()
	})
}

func (st *WindowState) SetToplevelMinimized(id uint32, minimized bool) {
	st.toplevels.WithExisting(id, "minimize toplevel", func(e *toplevelEntry) error {
		if minimized {
			return e.handle.SetMinimized()
		}
		return e.handle.UnsetMinimized()
	})
}

func (st *WindowState) SetToplevelFullscreen(id uint32, fullscreen bool) {
	st.toplevels.WithExisting(id, "fullscreen toplevel", func(e *toplevelEntry) error {
		if fullscreen {
			return e.handle.SetFullscreen(nil)
		}
		return e.handle.UnsetFullscreen()
	})
}
