package protocols

import (
	"github.com/bnema/waylayer/internal/wire"
	"github.com/bnema/waylayer/internal/wl"
)

// Protocol interface names for shell level surface controls
const (
	HomeVisibilityManagerInterface    = "zcosmic_home_visibility_manager_v1"
	SurfaceVisibilityManagerInterface = "zcosmic_layer_surface_visibility_manager_v1"
	DismissManagerInterface           = "zcosmic_layer_surface_dismiss_manager_v1"
	VoiceModeManagerInterface         = "zcosmic_voice_mode_manager_v1"
)

// Home visibility modes.
const (
	VisibilityModeAlways     uint32 = 0
	VisibilityModeHomeOnly   uint32 = 1
	VisibilityModeHideOnHome uint32 = 2
)

// HomeVisibilityManager is zcosmic_home_visibility_manager_v1. It announces
// whether the shell currently shows the home screen.
type HomeVisibilityManager struct {
	wl.BaseProxy
	homeStateHandler func(isHome bool)
}

func (m *HomeVisibilityManager) SetHomeStateHandler(f func(isHome bool)) { m.homeStateHandler = f }

func (m *HomeVisibilityManager) Destroy() error {
	err := m.Context().SendRequest(m, 0)
	m.Context().Unregister(m)
	return err
}

func (m *HomeVisibilityManager) GetHomeVisibility(surface *wl.Surface) (*HomeVisibility, error) {
	h := &HomeVisibility{}
	m.Context().Register(h)
	if err := m.Context().SendRequest(m, 1, h, surface); err != nil {
		m.Context().Unregister(h)
		return nil, err
	}
	return h, nil
}

func (m *HomeVisibilityManager) Dispatch(msg *wire.Message) {
	if msg.Opcode == 0 {
		isHome := msg.Uint32() != 0
		if m.homeStateHandler != nil {
			m.homeStateHandler(isHome)
		}
	}
}

// HomeVisibility is zcosmic_home_visibility_v1.
type HomeVisibility struct {
	wl.BaseProxy
}

func (h *HomeVisibility) Destroy() error {
	err := h.Context().SendRequest(h, 0)
	h.Context().Unregister(h)
	return err
}

func (h *HomeVisibility) SetVisibilityMode(mode uint32) error {
	return h.Context().SendRequest(h, 1, mode)
}

// SurfaceVisibilityManager is zcosmic_layer_surface_visibility_manager_v1.
type SurfaceVisibilityManager struct {
	wl.BaseProxy
}

func (m *SurfaceVisibilityManager) Destroy() error {
	err := m.Context().SendRequest(m, 0)
	m.Context().Unregister(m)
	return err
}

func (m *SurfaceVisibilityManager) GetVisibilityController(surface *wl.Surface) (*SurfaceVisibility, error) {
	v := &SurfaceVisibility{}
	m.Context().Register(v)
	if err := m.Context().SendRequest(m, 1, v, surface); err != nil {
		m.Context().Unregister(v)
		return nil, err
	}
	return v, nil
}

// SurfaceVisibility is zcosmic_layer_surface_visibility_v1.
type SurfaceVisibility struct {
	wl.BaseProxy
	visibilityHandler func(visible bool)
}

func (v *SurfaceVisibility) SetVisibilityChangedHandler(f func(visible bool)) {
	v.visibilityHandler = f
}

func (v *SurfaceVisibility) Destroy() error {
	err := v.Context().SendRequest(v, 0)
	v.Context().Unregister(v)
	return err
}

func (v *SurfaceVisibility) SetHidden() error {
	return v.Context().SendRequest(v, 1)
}

func (v *SurfaceVisibility) SetVisible() error {
	return v.Context().SendRequest(v, 2)
}

func (v *SurfaceVisibility) Dispatch(msg *wire.Message) {
	if msg.Opcode == 0 {
		visible := msg.Uint32() != 0
		if v.visibilityHandler != nil {
			v.visibilityHandler(visible)
		}
	}
}

// DismissManager is zcosmic_layer_surface_dismiss_manager_v1.
type DismissManager struct {
	wl.BaseProxy
}

func (m *DismissManager) Destroy() error {
	err := m.Context().SendRequest(m, 0)
	m.Context().Unregister(m)
	return err
}

func (m *DismissManager) GetDismissController(surface *wl.Surface) (*Dismiss, error) {
	d := &Dismiss{}
	m.Context().Register(d)
	if err := m.Context().SendRequest(m, 1, d, surface); err != nil {
		m.Context().Unregister(d)
		return nil, err
	}
	return d, nil
}

// Dismiss is zcosmic_layer_surface_dismiss_v1. Once armed, a click outside
// the surface and its group fires dismiss_requested.
type Dismiss struct {
	wl.BaseProxy
	dismissHandler func()
}

func (d *Dismiss) SetDismissRequestedHandler(f func()) { d.dismissHandler = f }

func (d *Dismiss) Destroy() error {
	err := d.Context().SendRequest(d, 0)
	d.Context().Unregister(d)
	return err
}

func (d *Dismiss) Arm() error {
	return d.Context().SendRequest(d, 1)
}

func (d *Dismiss) Disarm() error {
	return d.Context().SendRequest(d, 2)
}

// AddToGroup treats clicks on surface as inside.
func (d *Dismiss) AddToGroup(surface *wl.Surface) error {
	return d.Context().SendRequest(d, 3, surface)
}

func (d *Dismiss) RemoveFromGroup(surface *wl.Surface) error {
	return d.Context().SendRequest(d, 4, surface)
}

func (d *Dismiss) Dispatch(msg *wire.Message) {
	if msg.Opcode == 0 && d.dismissHandler != nil {
		d.dismissHandler()
	}
}

// Voice orb states.
const (
	OrbStateHidden        uint32 = 0
	OrbStateFloating      uint32 = 1
	OrbStateAttached      uint32 = 2
	OrbStateFrozen        uint32 = 3
	OrbStateTransitioning uint32 = 4
)

// MaxAudioLevel is the upper bound of set_audio_level.
const MaxAudioLevel = 1000

// VoiceModeManager is zcosmic_voice_mode_manager_v1.
type VoiceModeManager struct {
	wl.BaseProxy
}

func (m *VoiceModeManager) Destroy() error {
	err := m.Context().SendRequest(m, 0)
	m.Context().Unregister(m)
	return err
}

// GetVoiceMode registers surface as a voice receiver. The default receiver
// gets voice input when no other receiver is focused.
func (m *VoiceModeManager) GetVoiceMode(surface *wl.Surface, isDefault bool) (*VoiceMode, error) {
	v := &VoiceMode{}
	m.Context().Register(v)
	if err := m.Context().SendRequest(m, 1, v, surface, isDefault); err != nil {
		m.Context().Unregister(v)
		return nil, err
	}
	return v, nil
}

// VoiceModeHandlers groups the zcosmic_voice_mode_v1 callbacks.
type VoiceModeHandlers struct {
	Start       func(orbState uint32)
	Stop        func()
	Cancel      func()
	OrbAttached func(x, y, width, height int32)
	OrbDetached func()
	WillStop    func(serial uint32)
	FocusInput  func()
}

// VoiceMode is zcosmic_voice_mode_v1.
type VoiceMode struct {
	wl.BaseProxy
	handlers VoiceModeHandlers
}

func (v *VoiceMode) SetHandlers(h VoiceModeHandlers) { v.handlers = h }

func (v *VoiceMode) Destroy() error {
	err := v.Context().SendRequest(v, 0)
	v.Context().Unregister(v)
	return err
}

func (v *VoiceMode) SetAudioLevel(level uint32) error {
	return v.Context().SendRequest(v, 1, level)
}

func (v *VoiceMode) AckStop(serial uint32, freeze bool) error {
	return v.Context().SendRequest(v, 2, serial, freeze)
}

func (v *VoiceMode) Dismiss() error {
	return v.Context().SendRequest(v, 3)
}

func (v *VoiceMode) Dispatch(msg *wire.Message) {
	h := v.handlers
	switch msg.Opcode {
	case 0:
		state := msg.Uint32()
		if h.Start != nil {
			h.Start(state)
		}
	case 1:
		if h.Stop != nil {
			h.Stop()
		}
	case 2:
		if h.Cancel != nil {
			h.Cancel()
		}
	case 3:
		x, y, w, ht := msg.Int32(), msg.Int32(), msg.Int32(), msg.Int32()
		if h.OrbAttached != nil {
			h.OrbAttached(x, y, w, ht)
		}
	case 4:
		if h.OrbDetached != nil {
			h.OrbDetached()
		}
	case 5:
		serial := msg.Uint32()
		if h.WillStop != nil {
			h.WillStop(serial)
		}
	case 6:
		if h.FocusInput != nil {
			h.FocusInput()
		}
	}
}
