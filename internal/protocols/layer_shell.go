package protocols

import (
	"github.com/bnema/waylayer/internal/wire"
	"github.com/bnema/waylayer/internal/wl"
)

const LayerShellInterface = "zwlr_layer_shell_v1"

// Layers, bottom to top.
const (
	LayerBackground uint32 = 0
	LayerBottom     uint32 = 1
	LayerTop        uint32 = 2
	LayerOverlay    uint32 = 3
)

// Anchor bits.
const (
	AnchorTop    uint32 = 1
	AnchorBottom uint32 = 2
	AnchorLeft   uint32 = 4
	AnchorRight  uint32 = 8
)

// Keyboard interactivity modes.
const (
	KeyboardInteractivityNone      uint32 = 0
	KeyboardInteractivityExclusive uint32 = 1
	KeyboardInteractivityOnDemand  uint32 = 2
)

// LayerShell is zwlr_layer_shell_v1.
type LayerShell struct {
	wl.BaseProxy
	version uint32
}

// SetVersion records the bound version; destroy only exists from v3.
func (s *LayerShell) SetVersion(v uint32) { s.version = v }

// GetLayerSurface assigns the layer role to surface. output may be nil to
// let the compositor choose.
func (s *LayerShell) GetLayerSurface(surface *wl.Surface, output *wl.Output, layer uint32, namespace string) (*LayerSurface, error) {
	ls := &LayerSurface{}
	s.Context().Register(ls)
	if err := s.Context().SendRequest(s, 0, ls, surface, wl.ObjectID(output), layer, namespace); err != nil {
		s.Context().Unregister(ls)
		return nil, err
	}
	return ls, nil
}

func (s *LayerShell) Destroy() error {
	var err error
	if s.version >= 3 {
		err = s.Context().SendRequest(s, 1)
	}
	s.Context().Unregister(s)
	return err
}

// LayerSurfaceConfigureEvent must be acked before the next commit with a buffer.
type LayerSurfaceConfigureEvent struct {
	Serial uint32
	Width  uint32
	Height uint32
}

// LayerSurface is zwlr_layer_surface_v1.
type LayerSurface struct {
	wl.BaseProxy
	configureHandler func(LayerSurfaceConfigureEvent)
	closedHandler    func()
}

func (s *LayerSurface) SetConfigureHandler(f func(LayerSurfaceConfigureEvent)) {
	s.configureHandler = f
}

func (s *LayerSurface) SetClosedHandler(f func()) { s.closedHandler = f }

func (s *LayerSurface) SetSize(width, height uint32) error {
	return s.Context().SendRequest(s, 0, width, height)
}

func (s *LayerSurface) SetAnchor(anchor uint32) error {
	return s.Context().SendRequest(s, 1, anchor)
}

func (s *LayerSurface) SetExclusiveZone(zone int32) error {
	return s.Context().SendRequest(s, 2, zone)
}

func (s *LayerSurface) SetMargin(top, right, bottom, left int32) error {
	return s.Context().SendRequest(s, 3, top, right, bottom, left)
}

func (s *LayerSurface) SetKeyboardInteractivity(mode uint32) error {
	return s.Context().SendRequest(s, 4, mode)
}

// GetPopup makes popup a child of this layer surface.
func (s *LayerSurface) GetPopup(popup *XdgPopup) error {
	return s.Context().SendRequest(s, 5, popup)
}

func (s *LayerSurface) AckConfigure(serial uint32) error {
	return s.Context().SendRequest(s, 6, serial)
}

func (s *LayerSurface) Destroy() error {
	err := s.Context().SendRequest(s, 7)
	s.Context().Unregister(s)
	return err
}

func (s *LayerSurface) SetLayer(layer uint32) error {
	return s.Context().SendRequest(s, 8, layer)
}

func (s *LayerSurface) Dispatch(msg *wire.Message) {
	switch msg.Opcode {
	case 0:
		ev := LayerSurfaceConfigureEvent{Serial: msg.Uint32(), Width: msg.Uint32(), Height: msg.Uint32()}
		if s.configureHandler != nil {
			s.configureHandler(ev)
		}
	case 1:
		if s.closedHandler != nil {
			s.closedHandler()
		}
	}
}
