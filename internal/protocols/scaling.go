package protocols

import (
	"github.com/bnema/waylayer/internal/wire"
	"github.com/bnema/waylayer/internal/wl"
)

// Protocol interface names for fractional scaling and viewports
const (
	FractionalScaleManagerInterface = "wp_fractional_scale_manager_v1"
	ViewporterInterface             = "wp_viewporter"
)

// FractionalScaleDenominator is the fixed denominator of preferred_scale.
const FractionalScaleDenominator = 120

// FractionalScaleManager is wp_fractional_scale_manager_v1.
type FractionalScaleManager struct {
	wl.BaseProxy
}

func (m *FractionalScaleManager) Destroy() error {
	err := m.Context().SendRequest(m, 0)
	m.Context().Unregister(m)
	return err
}

func (m *FractionalScaleManager) GetFractionalScale(surface *wl.Surface) (*FractionalScale, error) {
	f := &FractionalScale{}
	m.Context().Register(f)
	if err := m.Context().SendRequest(m, 1, f, surface); err != nil {
		m.Context().Unregister(f)
		return nil, err
	}
	return f, nil
}

// FractionalScale is wp_fractional_scale_v1.
type FractionalScale struct {
	wl.BaseProxy
	preferredScaleHandler func(scale uint32)
}

// SetPreferredScaleHandler receives the scale in 120ths.
func (f *FractionalScale) SetPreferredScaleHandler(h func(scale uint32)) { f.preferredScaleHandler = h }

func (f *FractionalScale) Destroy() error {
	err := f.Context().SendRequest(f, 0)
	f.Context().Unregister(f)
	return err
}

func (f *FractionalScale) Dispatch(msg *wire.Message) {
	if msg.Opcode == 0 && f.preferredScaleHandler != nil {
		f.preferredScaleHandler(msg.Uint32())
	}
}

// Viewporter is wp_viewporter.
type Viewporter struct {
	wl.BaseProxy
}

func (v *Viewporter) Destroy() error {
	err := v.Context().SendRequest(v, 0)
	v.Context().Unregister(v)
	return err
}

func (v *Viewporter) GetViewport(surface *wl.Surface) (*Viewport, error) {
	vp := &Viewport{}
	v.Context().Register(vp)
	if err := v.Context().SendRequest(v, 1, vp, surface); err != nil {
		v.Context().Unregister(vp)
		return nil, err
	}
	return vp, nil
}

// Viewport is wp_viewport.
type Viewport struct {
	wl.BaseProxy
}

func (v *Viewport) Destroy() error {
	err := v.Context().SendRequest(v, 0)
	v.Context().Unregister(v)
	return err
}

func (v *Viewport) SetSource(x, y, width, height float64) error {
	return v.Context().SendRequest(v, 1,
		wire.FixedFromFloat(x), wire.FixedFromFloat(y), wire.FixedFromFloat(width), wire.FixedFromFloat(height))
}

func (v *Viewport) SetDestination(width, height int32) error {
	return v.Context().SendRequest(v, 2, width, height)
}
