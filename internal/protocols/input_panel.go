package protocols

import "github.com/bnema/waylayer/internal/wl"

const InputPanelInterface = "zwp_input_panel_v1"

// Input panel toplevel positions.
const (
	InputPanelPositionCenterBottom uint32 = 0
)

// InputPanel is zwp_input_panel_v1.
type InputPanel struct {
	wl.BaseProxy
}

func (p *InputPanel) GetInputPanelSurface(surface *wl.Surface) (*InputPanelSurface, error) {
	s := &InputPanelSurface{}
	p.Context().Register(s)
	if err := p.Context().SendRequest(p, 0, s, surface); err != nil {
		p.Context().Unregister(s)
		return nil, err
	}
	return s, nil
}

// InputPanelSurface is zwp_input_panel_surface_v1. The interface has no
// destructor; it dies with its wl_surface.
type InputPanelSurface struct {
	wl.BaseProxy
}

// SetToplevel shows the panel as a keyboard on output.
func (s *InputPanelSurface) SetToplevel(output *wl.Output, position uint32) error {
	return s.Context().SendRequest(s, 0, output, position)
}

// SetOverlayPanel shows the panel next to the text cursor.
func (s *InputPanelSurface) SetOverlayPanel() error {
	return s.Context().SendRequest(s, 1)
}

// Forget drops the local proxy.
func (s *InputPanelSurface) Forget() {
	s.Context().Unregister(s)
}
