package protocols

import (
	"github.com/bnema/waylayer/internal/wire"
	"github.com/bnema/waylayer/internal/wl"
)

// Protocol interface names for compositor side surface effects
const (
	BlurManagerInterface         = "org_kde_kwin_blur_manager"
	CornerRadiusManagerInterface = "layer_corner_radius_manager_v1"
	ShadowManagerInterface       = "layer_shadow_manager_v1"
	AutoHideManagerInterface     = "layer_auto_hide_manager_v1"
)

// BlurManager is org_kde_kwin_blur_manager.
type BlurManager struct {
	wl.BaseProxy
}

func (m *BlurManager) Create(surface *wl.Surface) (*Blur, error) {
	b := &Blur{}
	m.Context().Register(b)
	if err := m.Context().SendRequest(m, 0, b, surface); err != nil {
		m.Context().Unregister(b)
		return nil, err
	}
	return b, nil
}

func (m *BlurManager) Unset(surface *wl.Surface) error {
	return m.Context().SendRequest(m, 1, surface)
}

// Blur is org_kde_kwin_blur. A nil region blurs the whole surface.
type Blur struct {
	wl.BaseProxy
}

func (b *Blur) Commit() error {
	return b.Context().SendRequest(b, 0)
}

func (b *Blur) SetRegion(region *wl.Region) error {
	return b.Context().SendRequest(b, 1, wl.ObjectID(region))
}

func (b *Blur) Release() error {
	err := b.Context().SendRequest(b, 2)
	b.Context().Unregister(b)
	return err
}

// CornerRadiusManager is layer_corner_radius_manager_v1.
type CornerRadiusManager struct {
	wl.BaseProxy
}

func (m *CornerRadiusManager) Destroy() error {
	err := m.Context().SendRequest(m, 0)
	m.Context().Unregister(m)
	return err
}

func (m *CornerRadiusManager) GetCornerRadius(surface *wl.Surface) (*CornerRadius, error) {
	c := &CornerRadius{}
	m.Context().Register(c)
	if err := m.Context().SendRequest(m, 1, c, surface); err != nil {
		m.Context().Unregister(c)
		return nil, err
	}
	return c, nil
}

// CornerRadius is layer_corner_radius_surface_v1.
type CornerRadius struct {
	wl.BaseProxy
}

func (c *CornerRadius) Destroy() error {
	err := c.Context().SendRequest(c, 0)
	c.Context().Unregister(c)
	return err
}

// SetRadius sets top-left, top-right, bottom-right and bottom-left radii.
func (c *CornerRadius) SetRadius(topLeft, topRight, bottomRight, bottomLeft uint32) error {
	return c.Context().SendRequest(c, 1, topLeft, topRight, bottomRight, bottomLeft)
}

func (c *CornerRadius) UnsetRadius() error {
	return c.Context().SendRequest(c, 2)
}

// ShadowManager is layer_shadow_manager_v1.
type ShadowManager struct {
	wl.BaseProxy
}

func (m *ShadowManager) Destroy() error {
	err := m.Context().SendRequest(m, 0)
	m.Context().Unregister(m)
	return err
}

func (m *ShadowManager) GetShadow(surface *wl.Surface) (*Shadow, error) {
	s := &Shadow{}
	m.Context().Register(s)
	if err := m.Context().SendRequest(m, 1, s, surface); err != nil {
		m.Context().Unregister(s)
		return nil, err
	}
	return s, nil
}

// Shadow is layer_shadow_surface_v1.
type Shadow struct {
	wl.BaseProxy
}

func (s *Shadow) Destroy() error {
	err := s.Context().SendRequest(s, 0)
	s.Context().Unregister(s)
	return err
}

func (s *Shadow) Enable() error {
	return s.Context().SendRequest(s, 1)
}

func (s *Shadow) Disable() error {
	return s.Context().SendRequest(s, 2)
}

// Auto hide edges and modes.
const (
	AutoHideEdgeTop    uint32 = 0
	AutoHideEdgeBottom uint32 = 1
	AutoHideEdgeLeft   uint32 = 2
	AutoHideEdgeRight  uint32 = 3

	AutoHideModeAlways      uint32 = 0
	AutoHideModeIntelligent uint32 = 1
)

// AutoHideManager is layer_auto_hide_manager_v1.
type AutoHideManager struct {
	wl.BaseProxy
}

func (m *AutoHideManager) Destroy() error {
	err := m.Context().SendRequest(m, 0)
	m.Context().Unregister(m)
	return err
}

func (m *AutoHideManager) GetAutoHide(surface *wl.Surface) (*AutoHide, error) {
	a := &AutoHide{}
	m.Context().Register(a)
	if err := m.Context().SendRequest(m, 1, a, surface); err != nil {
		m.Context().Unregister(a)
		return nil, err
	}
	return a, nil
}

// AutoHide is layer_auto_hide_v1.
type AutoHide struct {
	wl.BaseProxy
	visibilityHandler func(visible bool)
}

func (a *AutoHide) SetVisibilityChangedHandler(f func(visible bool)) { a.visibilityHandler = f }

func (a *AutoHide) Destroy() error {
	err := a.Context().SendRequest(a, 0)
	a.Context().Unregister(a)
	return err
}

// SetAutoHide hides the surface against edge, revealing it when the pointer
// enters a zone pixels wide strip.
func (a *AutoHide) SetAutoHide(edge, zone, mode uint32) error {
	return a.Context().SendRequest(a, 1, edge, zone, mode)
}

func (a *AutoHide) UnsetAutoHide() error {
	return a.Context().SendRequest(a, 2)
}

func (a *AutoHide) Dispatch(msg *wire.Message) {
	if msg.Opcode == 0 {
		visible := msg.Uint32() != 0
		if a.visibilityHandler != nil {
			a.visibilityHandler(visible)
		}
	}
}
