package layershell

import (
	"github.com/bnema/waylayer/internal/wl"
)

// axisFrameVersion is the first wl_pointer version with frame events.
const axisFrameVersion = 5

type pendingAxis struct {
	set        bool
	time       uint32
	horizontal AxisScroll
	vertical   AxisScroll
	source     uint32
	hasSource  bool
	target     ID
}

func (a *pendingAxis) scroll(axis uint32) *AxisScroll {
	if axis == wl.PointerAxisHorizontalScroll {
		return &a.horizontal
	}
	return &a.vertical
}

func (st *WindowState) installPointer() {
	p, err := st.seat.GetPointer()
	if err != nil {
		st.log.Warn("failed to get pointer", "error", err)
		return
	}
	st.pointer = p
	p.SetHandlers(wl.PointerHandlers{
		Enter:        st.onPointerEnter,
		Leave:        st.onPointerLeave,
		Motion:       st.onPointerMotion,
		Button:       st.onPointerButton,
		Axis:         st.onAxis,
		Frame:        st.flushAxis,
		AxisSource:   st.onAxisSource,
		AxisStop:     st.onAxisStop,
		AxisDiscrete: st.onAxisDiscrete,
	})
	if st.cursorShapeManager != nil {
		dev, err := st.cursorShapeManager.GetPointer(p)
		if err != nil {
			st.log.Warn("failed to get cursor shape device", "error", err)
		} else {
			st.cursorDevice = dev
		}
	}
}

func (st *WindowState) releasePointer() {
	if st.cursorDevice != nil {
		_ = st.cursorDevice.Destroy()
		st.cursorDevice = nil
	}
	if st.pointer == nil {
		return
	}
	if st.seatVersion >= 3 {
		_ = st.pointer.Release()
	} else {
		st.ctx.Unregister(st.pointer)
	}
	st.pointer = nil
	delete(st.active, PointerSlot)
	delete(st.fingers, PointerSlot)
	st.axis = pendingAxis{}
}

func (st *WindowState) onPointerEnter(ev wl.PointerEnterEvent) {
	st.enterSerial = ev.Serial
	st.pointerX, st.pointerY = ev.SurfaceX, ev.SurfaceY
	st.updateCurrentSurface(ev.Surface)
	id := st.idOf(ev.Surface)
	st.active[PointerSlot] = id
	st.fingers[PointerSlot] = point{ev.SurfaceX, ev.SurfaceY}
	st.push(id, MouseEnter{Serial: ev.Serial, X: ev.SurfaceX, Y: ev.SurfaceY})
}

func (st *WindowState) onPointerLeave(ev wl.PointerLeaveEvent) {
	st.flushAxis()
	id := st.idOf(ev.Surface)
	delete(st.active, PointerSlot)
	delete(st.fingers, PointerSlot)
	st.push(id, MouseLeave{Serial: ev.Serial})
}

func (st *WindowState) onPointerMotion(ev wl.PointerMotionEvent) {
	st.pointerX, st.pointerY = ev.SurfaceX, ev.SurfaceY
	st.fingers[PointerSlot] = point{ev.SurfaceX, ev.SurfaceY}
	st.push(st.active[PointerSlot], MouseMotion{Time: ev.Time, X: ev.SurfaceX, Y: ev.SurfaceY})
}

func (st *WindowState) onPointerButton(ev wl.PointerButtonEvent) {
	st.push(st.active[PointerSlot], MouseButton{
		Serial:  ev.Serial,
		Time:    ev.Time,
		Button:  ev.Button,
		Pressed: ev.State == wl.PointerButtonStatePressed,
	})
}

// Axis events accumulate until the pointer frame. Seats older than v5
// have no frames, so every event flushes on its own.

func (st *WindowState) onAxis(ev wl.PointerAxisEvent) {
	a := st.beginAxis()
	a.time = ev.Time
	a.scroll(ev.Axis).Absolute += ev.Value
	st.endAxis()
}

func (st *WindowState) onAxisSource(ev wl.PointerAxisSourceEvent) {
	a := st.beginAxis()
	a.source, a.hasSource = ev.Source, true
	st.endAxis()
}

func (st *WindowState) onAxisStop(ev wl.PointerAxisStopEvent) {
	a := st.beginAxis()
	a.time = ev.Time
	a.scroll(ev.Axis).Stop = true
	st.endAxis()
}

func (st *WindowState) onAxisDiscrete(ev wl.PointerAxisDiscreteEvent) {
	a := st.beginAxis()
	a.scroll(ev.Axis).Discrete += ev.Discrete
	st.endAxis()
}

func (st *WindowState) beginAxis() *pendingAxis {
	if !st.axis.set {
		st.axis = pendingAxis{set: true, target: st.active[PointerSlot]}
	}
	return &st.axis
}

func (st *WindowState) endAxis() {
	if st.seatVersion < axisFrameVersion {
		st.flushAxis()
	}
}

func (st *WindowState) flushAxis() {
	a := st.axis
	st.axis = pendingAxis{}
	if !a.set || (a.horizontal.Zero() && a.vertical.Zero()) {
		return
	}
	st.push(a.target, Axis{
		Time:       a.time,
		Horizontal: a.horizontal,
		Vertical:   a.vertical,
		Source:     a.source,
		HasSource:  a.hasSource,
	})
}
