package layershell

import (
	"fmt"

	"github.com/bnema/waylayer/internal/ime"
	"github.com/bnema/waylayer/internal/keymap"
)

// Message is one demultiplexed notification, delivered through
// RequestMessages.
type Message interface {
	isMessage()
}

// Closed reports that the unit is gone.
type Closed struct{}

// RequestRefresh asks the caller to redraw with the unit's current size.
type RequestRefresh struct {
	Width, Height uint32
	IsCreated     bool
	Scale         float64
}

type MouseEnter struct {
	Serial uint32
	X, Y   float64
}

type MouseMotion struct {
	Time uint32
	X, Y float64
}

type MouseLeave struct {
	Serial uint32
}

type MouseButton struct {
	Serial  uint32
	Time    uint32
	Button  uint32
	Pressed bool
}

type KeyboardInput struct {
	Key     keymap.Key
	Pressed bool
	// Repeat marks synthesized presses from key repeat.
	Repeat bool
}

type ModifiersChanged struct {
	Modifiers keymap.Modifiers
}

// Focused reports the unit that now holds pointer, keyboard or touch focus.
type Focused struct {
	ID ID
}

type Unfocus struct{}

// AxisScroll is the accumulated scroll of one axis within a pointer frame.
type AxisScroll struct {
	Absolute float64
	Discrete int32
	Stop     bool
}

// Zero reports whether nothing happened on this axis.
func (a AxisScroll) Zero() bool {
	return a.Absolute == 0 && a.Discrete == 0 && !a.Stop
}

type Axis struct {
	Time       uint32
	Horizontal AxisScroll
	Vertical   AxisScroll
	Source     uint32
	HasSource  bool
}

type TouchDown struct {
	Serial uint32
	Time   uint32
	Finger int32
	X, Y   float64
}

type TouchUp struct {
	Serial uint32
	Time   uint32
	Finger int32
	X, Y   float64
}

type TouchMotion struct {
	Time   uint32
	Finger int32
	X, Y   float64
}

type TouchCancel struct {
	Finger int32
	X, Y   float64
}

// PreferredScale carries the fractional scale in 120ths and as a float.
type PreferredScale struct {
	Scale      uint32
	ScaleFloat float64
}

type (
	// ImeKind discriminates Ime messages.
	ImeKind = ime.Kind
	// ImeCursor is a byte range inside preedit text.
	ImeCursor = ime.Cursor
)

const (
	ImeEnabled  = ime.Enabled
	ImePreedit  = ime.Preedit
	ImeCommit   = ime.Commit
	ImeDisabled = ime.Disabled
)

type Ime struct {
	Kind   ImeKind
	Text   string
	Cursor *ImeCursor
}

// XdgInfoKind names the xdg-output property that changed.
type XdgInfoKind int

const (
	XdgInfoPosition XdgInfoKind = iota
	XdgInfoSize
	XdgInfoName
	XdgInfoDescription
)

func (k XdgInfoKind) String() string {
	switch k {
	case XdgInfoPosition:
		return "position"
	case XdgInfoSize:
		return "size"
	case XdgInfoName:
		return "name"
	case XdgInfoDescription:
		return "description"
	}
	return fmt.Sprintf("xdg_info(%d)", int(k))
}

// XdgInfo is turned into an XdgInfoChanged event by the tick.
type XdgInfo struct {
	Kind XdgInfoKind
}

// NewDisplay announces an output that appeared after startup.
type NewDisplay struct {
	Output *Output
}

type HomeStateChanged struct {
	IsHome bool
}

type AutoHideVisibilityChanged struct {
	Visible bool
}

type VisibilityChanged struct {
	Visible bool
}

type DismissRequested struct{}

// VoiceEventKind discriminates VoiceEvent.
type VoiceEventKind int

const (
	VoiceStarted VoiceEventKind = iota
	VoiceStopped
	VoiceCancelled
	VoiceOrbAttached
	VoiceOrbDetached
	VoiceWillStop
	VoiceFocusInput
)

func (k VoiceEventKind) String() string {
	switch k {
	case VoiceStarted:
		return "started"
	case VoiceStopped:
		return "stopped"
	case VoiceCancelled:
		return "cancelled"
	case VoiceOrbAttached:
		return "orb_attached"
	case VoiceOrbDetached:
		return "orb_detached"
	case VoiceWillStop:
		return "will_stop"
	case VoiceFocusInput:
		return "focus_input"
	}
	return fmt.Sprintf("voice(%d)", int(k))
}

// VoiceEvent carries the fields of whichever voice event fired.
type VoiceEvent struct {
	Kind                VoiceEventKind
	OrbState            uint32
	X, Y, Width, Height int32
	Serial              uint32
}

type VoiceMode struct {
	Event VoiceEvent
}

// ToplevelEventKind discriminates ToplevelEvent.
type ToplevelEventKind int

const (
	ToplevelCreated ToplevelEventKind = iota
	ToplevelChanged
	ToplevelClosed
	ToplevelFinished
)

func (k ToplevelEventKind) String() string {
	switch k {
	case ToplevelCreated:
		return "created"
	case ToplevelChanged:
		return "changed"
	case ToplevelClosed:
		return "closed"
	case ToplevelFinished:
		return "finished"
	}
	return fmt.Sprintf("toplevel(%d)", int(k))
}

// ToplevelEvent reports a change in the compositor's window list. Info is
// empty for ToplevelFinished.
type ToplevelEvent struct {
	Kind ToplevelEventKind
	Info ToplevelInfo
}

type ForeignToplevel struct {
	Event ToplevelEvent
}

func (Closed) isMessage()                    {}
func (RequestRefresh) isMessage()            {}
func (MouseEnter) isMessage()                {}
func (MouseMotion) isMessage()               {}
func (MouseLeave) isMessage()                {}
func (MouseButton) isMessage()               {}
func (KeyboardInput) isMessage()             {}
func (ModifiersChanged) isMessage()          {}
func (Focused) isMessage()                   {}
func (Unfocus) isMessage()                   {}
func (Axis) isMessage()                      {}
func (TouchDown) isMessage()                 {}
func (TouchUp) isMessage()                   {}
func (TouchMotion) isMessage()               {}
func (TouchCancel) isMessage()               {}
func (PreferredScale) isMessage()            {}
func (Ime) isMessage()                       {}
func (XdgInfo) isMessage()                   {}
func (NewDisplay) isMessage()                {}
func (HomeStateChanged) isMessage()          {}
func (AutoHideVisibilityChanged) isMessage() {}
func (VisibilityChanged) isMessage()         {}
func (DismissRequested) isMessage()          {}
func (VoiceMode) isMessage()                 {}
func (ForeignToplevel) isMessage()           {}
