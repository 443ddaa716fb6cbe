package layershell

import (
	"math"
	"time"

	"github.com/bnema/waylayer/internal/protocols"
	"github.com/bnema/waylayer/internal/wl"
	"github.com/charmbracelet/log"
)

// DefaultScale is the fractional scale of 1.0 in 120ths.
const DefaultScale = protocols.FractionalScaleDenominator

// Unit is one on-screen surface and its role.
type Unit struct {
	id      ID
	surface *wl.Surface
	shell   Shell
	width   uint32
	height  uint32
	scale   uint32
	binding Binding
	created bool

	closeRequested bool
	refresh        RefreshRequest
	present        PresentState

	viewport   *protocols.Viewport
	fractional *protocols.FractionalScale
	output     *Output
	enteredOn  *Output
	buffer     *Buffer

	now func() time.Time
	log *log.Logger
}

func newUnit(id ID, surface *wl.Surface, shell Shell, width, height uint32, st *WindowState) *Unit {
	if id == NoID {
		id = NewID()
	}
	return &Unit{
		id:      id,
		surface: surface,
		shell:   shell,
		width:   width,
		height:  height,
		scale:   DefaultScale,
		now:     st.now,
		log:     st.log.With("unit", id),
	}
}

func (u *Unit) ID() ID                     { return u.id }
func (u *Unit) Surface() *wl.Surface       { return u.surface }
func (u *Unit) Shell() Shell               { return u.shell }
func (u *Unit) Output() *Output            { return u.output }
func (u *Unit) IsCreated() bool            { return u.created }
func (u *Unit) Binding() Binding           { return u.binding }
func (u *Unit) SetBinding(b Binding)       { u.binding = b }
func (u *Unit) PresentState() PresentState { return u.present }

// ShownOn is the output the surface last entered.
func (u *Unit) ShownOn() *Output { return u.enteredOn }

// Size returns the logical size.
func (u *Unit) Size() (width, height uint32) {
	return u.width, u.height
}

// SetSize changes the logical size. Layer surfaces ask the compositor for
// the new size; the redraw happens on the following configure.
func (u *Unit) SetSize(width, height uint32) {
	u.width, u.height = width, height
	if ls, ok := u.shell.(*LayerShell); ok {
		if err := ls.surface.SetSize(width, height); err != nil {
			u.log.Warn("failed to set layer size", "error", err)
		}
		_ = u.surface.Commit()
		return
	}
	u.RequestRefresh(RefreshNextFrame)
}

// Scale returns the fractional scale in 120ths.
func (u *Unit) Scale() uint32 { return u.scale }

// ScaleFloat returns the scale as a float, 1.0 meaning no scaling.
func (u *Unit) ScaleFloat() float64 {
	return float64(u.scale) / DefaultScale
}

// BufferSize is the size of the buffer to render. With a viewport the
// buffer is rendered at the preferred scale and shrunk by the compositor.
func (u *Unit) BufferSize() (width, height uint32) {
	if u.viewport == nil || u.scale == DefaultScale {
		return u.width, u.height
	}
	f := u.ScaleFloat()
	return uint32(math.Round(float64(u.width) * f)), uint32(math.Round(float64(u.height) * f))
}

// XdgInfo returns the xdg-output info of the unit's output.
func (u *Unit) XdgInfo() (OutputInfo, bool) {
	if u.output == nil || u.output.xdg == nil {
		return OutputInfo{}, false
	}
	return u.output.info, true
}

// RequestClose destroys the unit on the next tick.
func (u *Unit) RequestClose() {
	u.closeRequested = true
}

// RequestRefresh merges req into the pending request. It never makes the
// pending request less urgent.
func (u *Unit) RequestRefresh(req RefreshRequest) {
	u.refresh = u.refresh.Merge(req)
}

// Refresh returns the pending refresh request.
func (u *Unit) Refresh() RefreshRequest { return u.refresh }

// takePresentSlot claims the present slot when a due refresh meets an
// Available slot.
func (u *Unit) takePresentSlot() bool {
	if u.present != PresentAvailable || !u.refresh.Due(u.now()) {
		return false
	}
	u.refresh = RefreshWait
	u.present = PresentTaken
	return true
}

// RequestNextPresent registers a frame callback for a claimed slot. The slot
// comes back once the compositor has shown the frame.
func (u *Unit) RequestNextPresent() {
	if u.present != PresentTaken {
		return
	}
	cb, err := u.surface.Frame()
	if err != nil {
		u.log.Warn("failed to request frame callback", "error", err)
		u.present = PresentAvailable
		return
	}
	u.present = PresentRequested
	cb.SetDoneHandler(func(wl.CallbackDoneEvent) {
		u.present = PresentAvailable
	})
}

// ResetPresentSlot hands back a slot that was not used.
func (u *Unit) ResetPresentSlot() {
	if u.present == PresentTaken {
		u.present = PresentAvailable
	}
}

// Present attaches the engine buffer, if any, and commits.
func (u *Unit) Present() error {
	w, h := u.BufferSize()
	if u.buffer != nil {
		if err := u.surface.Attach(u.buffer.wl(), 0, 0); err != nil {
			return err
		}
		u.buffer.markAttached()
	}
	if u.viewport != nil {
		_ = u.viewport.SetDestination(int32(u.width), int32(u.height))
	}
	if err := u.surface.DamageBuffer(0, 0, int32(w), int32(h)); err != nil {
		return err
	}
	u.RequestNextPresent()
	return u.surface.Commit()
}

// SetAnchor, SetMargin, SetLayer and SetExclusiveZone only apply to layer
// surfaces; they report whether the unit is one.

func (u *Unit) SetAnchor(a Anchor) bool {
	return u.withLayer("set anchor", func(ls *protocols.LayerSurface) error {
		return ls.SetAnchor(uint32(a))
	})
}

func (u *Unit) SetMargin(m Margin) bool {
	return u.withLayer("set margin", func(ls *protocols.LayerSurface) error {
		return ls.SetMargin(m.Top, m.Right, m.Bottom, m.Left)
	})
}

func (u *Unit) SetLayer(l Layer) bool {
	return u.withLayer("set layer", func(ls *protocols.LayerSurface) error {
		return ls.SetLayer(uint32(l))
	})
}

func (u *Unit) SetExclusiveZone(zone int32) bool {
	return u.withLayer("set exclusive zone", func(ls *protocols.LayerSurface) error {
		return ls.SetExclusiveZone(zone)
	})
}

func (u *Unit) SetKeyboardInteractivity(k KeyboardInteractivity) bool {
	return u.withLayer("set keyboard interactivity", func(ls *protocols.LayerSurface) error {
		return ls.SetKeyboardInteractivity(uint32(k))
	})
}

func (u *Unit) withLayer(op string, fn func(*protocols.LayerSurface) error) bool {
	ls, ok := u.shell.(*LayerShell)
	if !ok {
		u.log.Debug(op+" ignored", "kind", u.shell.Kind())
		return false
	}
	if err := fn(ls.surface); err != nil {
		u.log.Warn(op+" failed", "error", err)
		return true
	}
	_ = u.surface.Commit()
	return true
}

// SetViewportSource crops the buffer. Without a viewporter it is a no-op.
func (u *Unit) SetViewportSource(x, y, width, height float64) bool {
	if u.viewport == nil {
		return false
	}
	if err := u.viewport.SetSource(x, y, width, height); err != nil {
		u.log.Warn("failed to set viewport source", "error", err)
	}
	return true
}

// SetViewportDestination scales the surface to width x height.
func (u *Unit) SetViewportDestination(width, height int32) bool {
	if u.viewport == nil {
		return false
	}
	if err := u.viewport.SetDestination(width, height); err != nil {
		u.log.Warn("failed to set viewport destination", "error", err)
	}
	return true
}

// destroy releases every protocol object of the unit, role first.
func (u *Unit) destroy() {
	if u.fractional != nil {
		_ = u.fractional.Destroy()
		u.fractional = nil
	}
	if u.viewport != nil {
		_ = u.viewport.Destroy()
		u.viewport = nil
	}
	if u.shell != nil {
		u.shell.destroy()
	}
	_ = u.surface.Destroy()
	if u.buffer != nil {
		u.buffer.Destroy()
		u.buffer = nil
	}
}
