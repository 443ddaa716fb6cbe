package layershell

import (
	"fmt"
	"sort"

	"github.com/bnema/waylayer/internal/wl"
)

// Slot names one input device position: the pointer or one touch point.
type Slot struct {
	touch  bool
	finger int32
}

// PointerSlot is the pointer's slot.
var PointerSlot = Slot{}

// TouchSlot is the slot of touch point n.
func TouchSlot(n int32) Slot { return Slot{touch: true, finger: n} }

// IsTouch reports whether s is a touch point.
func (s Slot) IsTouch() bool { return s.touch }

// Finger returns the touch point id.
func (s Slot) Finger() int32 { return s.finger }

func (s Slot) String() string {
	if !s.touch {
		return "pointer"
	}
	return fmt.Sprintf("touch(%d)", s.finger)
}

// SlotTarget returns the unit a slot is on.
func (st *WindowState) SlotTarget(s Slot) (ID, bool) {
	id, ok := st.active[s]
	return id, ok
}

// SlotPosition returns the last surface local position of a slot.
func (st *WindowState) SlotPosition(s Slot) (x, y float64, ok bool) {
	p, ok := st.fingers[s]
	return p.x, p.y, ok
}

func (st *WindowState) installTouch() {
	t, err := st.seat.GetTouch()
	if err != nil {
		st.log.Warn("failed to get touch", "error", err)
		return
	}
	st.touch = t
	t.SetHandlers(wl.TouchHandlers{
		Down:   st.onTouchDown,
		Up:     st.onTouchUp,
		Motion: st.onTouchMotion,
		Cancel: st.onTouchCancel,
	})
}

func (st *WindowState) releaseTouch() {
	st.dropTouchSlots()
	if st.touch == nil {
		return
	}
	if st.seatVersion >= 3 {
		_ = st.touch.Release()
	} else {
		st.ctx.Unregister(st.touch)
	}
	st.touch = nil
}

func (st *WindowState) onTouchDown(ev wl.TouchDownEvent) {
	slot := TouchSlot(ev.ID)
	st.updateCurrentSurface(ev.Surface)
	id := st.idOf(ev.Surface)
	st.active[slot] = id
	st.fingers[slot] = point{ev.X, ev.Y}
	st.push(id, TouchDown{Serial: ev.Serial, Time: ev.Time, Finger: ev.ID, X: ev.X, Y: ev.Y})
}

func (st *WindowState) onTouchUp(ev wl.TouchUpEvent) {
	slot := TouchSlot(ev.ID)
	id, ok := st.active[slot]
	if !ok {
		return
	}
	p := st.fingers[slot]
	delete(st.active, slot)
	delete(st.fingers, slot)
	st.push(id, TouchUp{Serial: ev.Serial, Time: ev.Time, Finger: ev.ID, X: p.x, Y: p.y})
}

func (st *WindowState) onTouchMotion(ev wl.TouchMotionEvent) {
	slot := TouchSlot(ev.ID)
	id, ok := st.active[slot]
	if !ok {
		return
	}
	st.fingers[slot] = point{ev.X, ev.Y}
	st.push(id, TouchMotion{Time: ev.Time, Finger: ev.ID, X: ev.X, Y: ev.Y})
}

// onTouchCancel ends every touch point. The pointer slot is kept.
func (st *WindowState) onTouchCancel() {
	for _, slot := range st.touchSlots() {
		p := st.fingers[slot]
		st.push(st.active[slot], TouchCancel{Finger: slot.finger, X: p.x, Y: p.y})
	}
	st.dropTouchSlots()
}

// touchSlots collects the touch keys first so the maps can be mutated.
func (st *WindowState) touchSlots() []Slot {
	var slots []Slot
	for slot := range st.active {
		if slot.touch {
			slots = append(slots, slot)
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].finger < slots[j].finger })
	return slots
}

func (st *WindowState) dropTouchSlots() {
	for _, slot := range st.touchSlots() {
		delete(st.active, slot)
		delete(st.fingers, slot)
	}
}
