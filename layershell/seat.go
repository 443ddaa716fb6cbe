package layershell

import "github.com/bnema/waylayer/internal/wl"

const seatInterface = "wl_seat"

// onSeatCapabilities installs or releases input devices to match caps.
func (st *WindowState) onSeatCapabilities(caps uint32) {
	st.log.Debug("seat capabilities", "pointer", caps&wl.SeatCapabilityPointer != 0,
		"keyboard", caps&wl.SeatCapabilityKeyboard != 0, "touch", caps&wl.SeatCapabilityTouch != 0)

	switch has := caps&wl.SeatCapabilityKeyboard != 0; {
	case has && st.keyboard == nil:
		st.installKeyboard()
	case !has && st.keyboard != nil:
		st.releaseKeyboard()
	}
	switch has := caps&wl.SeatCapabilityPointer != 0; {
	case has && st.pointer == nil:
		st.installPointer()
	case !has && st.pointer != nil:
		st.releasePointer()
	}
	switch has := caps&wl.SeatCapabilityTouch != 0; {
	case has && st.touch == nil:
		st.installTouch()
	case !has && st.touch != nil:
		st.releaseTouch()
	}
}

// bindSeat wires the seat's capability events.
func (st *WindowState) bindSeat(seat *wl.Seat, version uint32) {
	st.seat = seat
	st.seatVersion = version
	seat.SetCapabilitiesHandler(func(ev wl.SeatCapabilitiesEvent) {
		st.onSeatCapabilities(ev.Capabilities)
	})
}
