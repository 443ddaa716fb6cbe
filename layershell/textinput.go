package layershell

import (
	"github.com/bnema/waylayer/internal/ime"
	"github.com/bnema/waylayer/internal/protocols"
	"github.com/bnema/waylayer/internal/wl"
)

// ImePurpose selects the content type announced to the input method.
type ImePurpose = ime.Purpose

const (
	ImePurposeNormal   = ime.PurposeNormal
	ImePurposePassword = ime.PurposePassword
	ImePurposeTerminal = ime.PurposeTerminal
)

// installTextInput creates the seat's text input. It lives as long as the
// keyboard.
func (st *WindowState) installTextInput() {
	if st.textInputManager == nil || st.textInput != nil {
		return
	}
	ti, err := st.textInputManager.GetTextInput(st.seat)
	if err != nil {
		st.log.Warn("failed to get text input", "error", err)
		return
	}
	st.textInput = ti
	st.ime = ime.State{}
	ti.SetHandlers(protocols.TextInputHandlers{
		Enter: st.onTextInputEnter,
		Leave: st.onTextInputLeave,
		PreeditString: func(text string, begin, end int32) {
			st.ime.PreeditString(text, begin, end)
		},
		CommitString: st.ime.CommitString,
		Done: func(uint32) {
			st.pushIme(st.idOf(st.currentSurface), st.ime.Done())
		},
	})
}

func (st *WindowState) releaseTextInput() {
	if st.textInput == nil {
		return
	}
	_ = st.textInput.Destroy()
	st.textInput = nil
	st.ime = ime.State{}
}

func (st *WindowState) onTextInputEnter(s *wl.Surface) {
	events := st.ime.Enter(st.imeAllowed)
	if st.imeAllowed {
		st.enableTextInput()
	}
	st.pushIme(st.idOf(s), events)
}

func (st *WindowState) onTextInputLeave(s *wl.Surface) {
	_ = st.textInput.Disable()
	_ = st.textInput.Commit()
	st.pushIme(st.idOf(s), st.ime.Leave())
}

func (st *WindowState) enableTextInput() {
	ti := st.textInput
	_ = ti.Enable()
	hint, purpose := st.imePurpose.ContentType()
	_ = ti.SetContentType(hint, purpose)
	c := st.imeCursor
	_ = ti.SetCursorRectangle(c.x, c.y, c.width, c.height)
	_ = ti.Commit()
}

func (st *WindowState) pushIme(id ID, events []ime.Event) {
	for _, ev := range events {
		st.push(id, Ime{Kind: ev.Kind, Text: ev.Text, Cursor: ev.Cursor})
	}
}

// SetImeAllowed turns the input method on or off for focused surfaces.
func (st *WindowState) SetImeAllowed(allowed bool) {
	if st.imeAllowed == allowed {
		return
	}
	st.imeAllowed = allowed
	if st.textInput == nil || !st.ime.Entered() {
		return
	}
	id := st.idOf(st.currentSurface)
	if allowed {
		st.enableTextInput()
		st.push(id, Ime{Kind: ImeEnabled})
		return
	}
	_ = st.textInput.Disable()
	_ = st.textInput.Commit()
	st.push(id, Ime{Kind: ImeDisabled})
}

// SetImeCursorArea tells the input method where the text cursor is.
func (st *WindowState) SetImeCursorArea(x, y, width, height int32) {
	st.imeCursor = imeArea{x, y, width, height}
	if st.textInput == nil || !st.ime.Entered() || !st.imeAllowed {
		return
	}
	_ = st.textInput.SetCursorRectangle(x, y, width, height)
	_ = st.textInput.Commit()
}

// SetImePurpose announces the kind of text being edited.
func (st *WindowState) SetImePurpose(p ImePurpose) {
	st.imePurpose = p
	if st.textInput == nil || !st.ime.Entered() || !st.imeAllowed {
		return
	}
	hint, purpose := p.ContentType()
	_ = st.textInput.SetContentType(hint, purpose)
	_ = st.textInput.Commit()
}
