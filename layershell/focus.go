package layershell

import "github.com/bnema/waylayer/internal/wl"

// updateCurrentSurface is the one place focus changes. Moving to another
// surface emits Focused, stops key repeat and remembers its output.
func (st *WindowState) updateCurrentSurface(s *wl.Surface) {
	if s == nil || s == st.currentSurface {
		return
	}
	st.currentSurface = s
	st.cancelRepeat()
	u := st.unitBySurface(s)
	if u == nil {
		return
	}
	switch {
	case u.output != nil:
		st.lastOutput = u.output
	case u.enteredOn != nil:
		st.lastOutput = u.enteredOn
	}
	st.push(u.id, Focused{ID: u.id})
}

// LastOutput is the output of the most recently focused unit.
func (st *WindowState) LastOutput() *Output { return st.lastOutput }
