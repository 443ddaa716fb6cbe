package layershell

import (
	"fmt"

	"github.com/bnema/waylayer/internal/capability"
	"github.com/bnema/waylayer/internal/protocols"
)

func (st *WindowState) initCapabilities() {
	sink := func(id ID, msg Message) { st.push(id, msg) }

	st.blur = capability.New(protocols.BlurManagerInterface,
		func(m *protocols.BlurManager, id ID) (*protocols.Blur, error) {
			s, err := st.surfaceFor(id)
			if err != nil {
				return nil, err
			}
			b, err := m.Create(s)
			if err != nil {
				return nil, err
			}
			return b, b.Commit()
		},
		func(b *protocols.Blur) { _ = b.Release() },
		sink)

	st.cornerRadius = capability.New(protocols.CornerRadiusManagerInterface,
		func(m *protocols.CornerRadiusManager, id ID) (*protocols.CornerRadius, error) {
			s, err := st.surfaceFor(id)
			if err != nil {
				return nil, err
			}
			return m.GetCornerRadius(s)
		},
		func(c *protocols.CornerRadius) { _ = c.Destroy() },
		sink)

	st.shadow = capability.New(protocols.ShadowManagerInterface,
		func(m *protocols.ShadowManager, id ID) (*protocols.Shadow, error) {
			s, err := st.surfaceFor(id)
			if err != nil {
				return nil, err
			}
			return m.GetShadow(s)
		},
		func(s *protocols.Shadow) { _ = s.Destroy() },
		sink)

	st.autoHide = capability.New(protocols.AutoHideManagerInterface,
		func(m *protocols.AutoHideManager, id ID) (*protocols.AutoHide, error) {
			s, err := st.surfaceFor(id)
			if err != nil {
				return nil, err
			}
			a, err := m.GetAutoHide(s)
			if err != nil {
				return nil, err
			}
			a.SetVisibilityChangedHandler(func(visible bool) {
				st.autoHide.EmitFor(id, AutoHideVisibilityChanged{Visible: visible})
			})
			return a, nil
		},
		func(a *protocols.AutoHide) { _ = a.Destroy() },
		sink)

	st.homeVisibility = capability.New(protocols.HomeVisibilityManagerInterface,
		func(m *protocols.HomeVisibilityManager, id ID) (*protocols.HomeVisibility, error) {
			s, err := st.surfaceFor(id)
			if err != nil {
				return nil, err
			}
			return m.GetHomeVisibility(s)
		},
		func(h *protocols.HomeVisibility) { _ = h.Destroy() },
		sink)

	st.visibility = capability.New(protocols.SurfaceVisibilityManagerInterface,
		func(m *protocols.SurfaceVisibilityManager, id ID) (*protocols.SurfaceVisibility, error) {
			s, err := st.surfaceFor(id)
			if err != nil {
				return nil, err
			}
			v, err := m.GetVisibilityController(s)
			if err != nil {
				return nil, err
			}
			v.SetVisibilityChangedHandler(func(visible bool) {
				st.visibility.EmitFor(id, VisibilityChanged{Visible: visible})
			})
			return v, nil
		},
		func(v *protocols.SurfaceVisibility) { _ = v.Destroy() },
		sink)

	st.dismiss = capability.New(protocols.DismissManagerInterface,
		func(m *protocols.DismissManager, id ID) (*protocols.Dismiss, error) {
			s, err := st.surfaceFor(id)
			if err != nil {
				return nil, err
			}
			d, err := m.GetDismissController(s)
			if err != nil {
				return nil, err
			}
			d.SetDismissRequestedHandler(func() {
				st.dismissRequested = true
				st.dismiss.EmitFor(id, DismissRequested{})
			})
			return d, nil
		},
		func(d *protocols.Dismiss) { _ = d.Destroy() },
		sink)

	st.voice = capability.New(protocols.VoiceModeManagerInterface,
		func(m *protocols.VoiceModeManager, id ID) (*protocols.VoiceMode, error) {
			s, err := st.surfaceFor(id)
			if err != nil {
				return nil, err
			}
			v, err := m.GetVoiceMode(s, st.voice.Len() == 0)
			if err != nil {
				return nil, err
			}
			v.SetHandlers(st.voiceHandlers(id, v))
			return v, nil
		},
		func(v *protocols.VoiceMode) { _ = v.Destroy() },
		sink)

	st.toplevels = capability.New(protocols.ForeignToplevelManagerInterface,
		func(m *protocols.ForeignToplevelManager, handleID uint32) (*toplevelEntry, error) {
			return st.newToplevelEntry(handleID)
		},
		func(e *toplevelEntry) { _ = e.handle.Destroy() },
		func(_ uint32, msg Message) { st.push(NoID, msg) })
}

// attachExtensions creates the controllers a new unit asked for. The unit
// must already be registered so the capabilities can find its surface.
func (st *WindowState) attachExtensions(u *Unit, blur, shadow bool, radius *[4]uint32) {
	if blur {
		st.blur.GetOrCreate(u.id)
	}
	if radius != nil {
		st.SetCornerRadius(u.id, radius)
	}
	if shadow {
		st.shadow.With(u.id, "enable shadow", (*protocols.Shadow).Enable)
	}
	switch {
	case st.settings.HomeOnly:
		st.SetVisibilityMode(u.id, VisibilityHomeOnly)
	case st.settings.HideOnHome:
		st.SetVisibilityMode(u.id, VisibilityHideOnHome)
	}
	if st.settings.VoiceMode {
		st.voice.GetOrCreate(u.id)
	}
}

// detachExtensions drops every controller keyed by id.
func (st *WindowState) detachExtensions(id ID) {
	st.blur.Remove(id)
	st.cornerRadius.Remove(id)
	st.shadow.Remove(id)
	st.autoHide.Remove(id)
	st.homeVisibility.Remove(id)
	st.visibility.Remove(id)
	st.dismiss.Remove(id)
	st.voice.Remove(id)
}

// SetCornerRadius sets top-left, top-right, bottom-right and bottom-left
// radii. nil unsets them.
func (st *WindowState) SetCornerRadius(id ID, radius *[4]uint32) {
	if radius == nil {
		st.cornerRadius.WithExisting(id, "unset corner radius", (*protocols.CornerRadius).UnsetRadius)
		return
	}
	r := *radius
	st.cornerRadius.With(id, "set corner radius", func(c *protocols.CornerRadius) error {
		return c.SetRadius(r[0], r[1], r[2], r[3])
	})
}

// SetShadow toggles the compositor drawn shadow.
func (st *WindowState) SetShadow(id ID, enabled bool) {
	if enabled {
		st.shadow.With(id, "enable shadow", (*protocols.Shadow).Enable)
		return
	}
	st.shadow.WithExisting(id, "disable shadow", (*protocols.Shadow).Disable)
}

// SetBlur toggles background blur behind the unit.
func (st *WindowState) SetBlur(id ID, enabled bool) {
	if enabled {
		st.blur.GetOrCreate(id)
		return
	}
	st.blur.Remove(id)
}

// SetAutoHide lets the compositor slide the unit off edge. zone is the
// hover strip that brings it back.
func (st *WindowState) SetAutoHide(id ID, edge AutoHideEdge, zone uint32, mode AutoHideMode) {
	st.autoHide.With(id, "set auto-hide", func(a *protocols.AutoHide) error {
		return a.SetAutoHide(uint32(edge), zone, uint32(mode))
	})
}

// UnsetAutoHide keeps the unit visible again.
func (st *WindowState) UnsetAutoHide(id ID) {
	st.autoHide.WithExisting(id, "unset auto-hide", (*protocols.AutoHide).UnsetAutoHide)
}

// SetVisibilityMode chooses whether the unit shows on the home screen.
func (st *WindowState) SetVisibilityMode(id ID, mode VisibilityMode) {
	st.homeVisibility.With(id, "set visibility mode", func(h *protocols.HomeVisibility) error {
		return h.SetVisibilityMode(uint32(mode))
	})
}

// IsHome reports the last home state announced by the compositor.
func (st *WindowState) IsHome() bool { return st.isHome }

// HideSurface asks the compositor to hide the unit without unmapping it.
func (st *WindowState) HideSurface(id ID) {
	st.visibility.With(id, "hide surface", (*protocols.SurfaceVisibility).SetHidden)
}

// ShowSurface reverts HideSurface.
func (st *WindowState) ShowSurface(id ID) {
	st.visibility.With(id, "show surface", (*protocols.SurfaceVisibility).SetVisible)
}

// ArmDismiss requests a DismissRequested message on the next click outside
// the unit and its group.
func (st *WindowState) ArmDismiss(id ID) {
	st.dismiss.With(id, "arm dismiss", (*protocols.Dismiss).Arm)
}

func (st *WindowState) DisarmDismiss(id ID) {
	st.dismiss.WithExisting(id, "disarm dismiss", (*protocols.Dismiss).Disarm)
}

// AddToDismissGroup makes clicks on member count as inside id.
func (st *WindowState) AddToDismissGroup(id, member ID) {
	s, err := st.surfaceFor(member)
	if err != nil {
		st.log.Warn("cannot add to dismiss group", "error", err)
		return
	}
	st.dismiss.With(id, "add to dismiss group", func(d *protocols.Dismiss) error {
		return d.AddToGroup(s)
	})
}

func (st *WindowState) RemoveFromDismissGroup(id, member ID) {
	s, err := st.surfaceFor(member)
	if err != nil {
		st.log.Warn("cannot remove from dismiss group", "error", err)
		return
	}
	st.dismiss.WithExisting(id, "remove from dismiss group", func(d *protocols.Dismiss) error {
		return d.RemoveFromGroup(s)
	})
}

// TakeDismissRequested reports and clears a pending dismiss request.
func (st *WindowState) TakeDismissRequested() bool {
	r := st.dismissRequested
	st.dismissRequested = false
	return r
}

func (st *WindowState) voiceHandlers(id ID, v *protocols.VoiceMode) protocols.VoiceModeHandlers {
	emit := func(ev VoiceEvent) { st.voice.EmitFor(id, VoiceMode{Event: ev}) }
	return protocols.VoiceModeHandlers{
		Start: func(orb uint32) {
			st.voiceActive = true
			emit(VoiceEvent{Kind: VoiceStarted, OrbState: orb})
		},
		Stop: func() {
			st.voiceActive = false
			emit(VoiceEvent{Kind: VoiceStopped})
		},
		Cancel: func() {
			st.voiceActive = false
			emit(VoiceEvent{Kind: VoiceCancelled})
		},
		OrbAttached: func(x, y, w, h int32) {
			emit(VoiceEvent{Kind: VoiceOrbAttached, X: x, Y: y, Width: w, Height: h})
		},
		OrbDetached: func() { emit(VoiceEvent{Kind: VoiceOrbDetached}) },
		WillStop: func(serial uint32) {
			if err := v.AckStop(serial, st.voiceActive); err != nil {
				st.log.Warn("failed to ack voice stop", "error", err)
			}
			emit(VoiceEvent{Kind: VoiceWillStop, Serial: serial})
		},
		FocusInput: func() { emit(VoiceEvent{Kind: VoiceFocusInput}) },
	}
}

// VoiceActive reports whether a voice session is running.
func (st *WindowState) VoiceActive() bool { return st.voiceActive }

// SendVoiceAudioLevel forwards the microphone level, 0 to 1000, to every
// voice receiver.
func (st *WindowState) SendVoiceAudioLevel(level uint32) error {
	if level > protocols.MaxAudioLevel {
		return fmt.Errorf("audio level %d out of range 0..%d", level, protocols.MaxAudioLevel)
	}
	st.voice.Each(func(id ID, v *protocols.VoiceMode) {
		if err := v.SetAudioLevel(level); err != nil {
			st.log.Warn("failed to send audio level", "unit", id, "error", err)
		}
	})
	return nil
}

// VoiceAckStop acknowledges a will_stop by hand.
func (st *WindowState) VoiceAckStop(serial uint32, freeze bool) {
	st.voice.Each(func(id ID, v *protocols.VoiceMode) {
		if err := v.AckStop(serial, freeze); err != nil {
			st.log.Warn("failed to ack voice stop", "unit", id, "error", err)
		}
	})
}

// VoiceDismiss ends the voice session.
func (st *WindowState) VoiceDismiss() {
	st.voiceActive = false
	st.voice.Each(func(id ID, v *protocols.VoiceMode) {
		if err := v.Dismiss(); err != nil {
			st.log.Warn("failed to dismiss voice", "unit", id, "error", err)
		}
	})
}
