package layershell

import "github.com/bnema/waylayer/internal/protocols"

// ShellKind names the role of a unit's surface.
type ShellKind int

const (
	KindLayerShell ShellKind = iota
	KindPopUp
	KindTopLevel
	KindInputPanel
)

func (k ShellKind) String() string {
	switch k {
	case KindLayerShell:
		return "layer"
	case KindPopUp:
		return "popup"
	case KindTopLevel:
		return "toplevel"
	case KindInputPanel:
		return "input_panel"
	}
	return "unknown"
}

// Shell is the role object of a unit: *LayerShell, *PopUp, *TopLevel or
// *InputPanel.
type Shell interface {
	Kind() ShellKind
	// destroy releases the role objects, children first.
	destroy()
}

// LayerShell wraps zwlr_layer_surface_v1.
type LayerShell struct {
	surface *protocols.LayerSurface
}

func (s *LayerShell) Kind() ShellKind                       { return KindLayerShell }
func (s *LayerShell) LayerSurface() *protocols.LayerSurface { return s.surface }

func (s *LayerShell) destroy() {
	_ = s.surface.Destroy()
}

// PopUp wraps xdg_popup and its xdg_surface.
type PopUp struct {
	popup *protocols.XdgPopup
	xdg   *protocols.XdgSurface
}

func (s *PopUp) Kind() ShellKind                   { return KindPopUp }
func (s *PopUp) Popup() *protocols.XdgPopup        { return s.popup }
func (s *PopUp) XdgSurface() *protocols.XdgSurface { return s.xdg }

func (s *PopUp) destroy() {
	_ = s.popup.Destroy()
	_ = s.xdg.Destroy()
}

// TopLevel wraps xdg_toplevel, its xdg_surface and an optional
// server side decoration.
type TopLevel struct {
	toplevel   *protocols.XdgToplevel
	xdg        *protocols.XdgSurface
	decoration *protocols.ToplevelDecoration
}

func (s *TopLevel) Kind() ShellKind                   { return KindTopLevel }
func (s *TopLevel) Toplevel() *protocols.XdgToplevel  { return s.toplevel }
func (s *TopLevel) XdgSurface() *protocols.XdgSurface { return s.xdg }

func (s *TopLevel) destroy() {
	if s.decoration != nil {
		_ = s.decoration.Destroy()
	}
	_ = s.toplevel.Destroy()
	_ = s.xdg.Destroy()
}

// InputPanel wraps zwp_input_panel_surface_v1.
type InputPanel struct {
	surface *protocols.InputPanelSurface
}

func (s *InputPanel) Kind() ShellKind { return KindInputPanel }

// The protocol has no destructor; the object dies with the wl_surface.
func (s *InputPanel) destroy() {
	s.surface.Forget()
}
