package protocols

import (
	"github.com/bnema/waylayer/internal/wire"
	"github.com/bnema/waylayer/internal/wl"
)

const TextInputManagerInterface = "zwp_text_input_manager_v3"

// Content hints used by the engine.
const (
	ContentHintNone          uint32 = 0x0
	ContentHintCompletion    uint32 = 0x1
	ContentHintSpellcheck    uint32 = 0x2
	ContentHintHiddenText    uint32 = 0x40
	ContentHintSensitiveData uint32 = 0x80
)

// Content purposes used by the engine.
const (
	ContentPurposeNormal   uint32 = 0
	ContentPurposePassword uint32 = 8
	ContentPurposeTerminal uint32 = 13
)

// TextInputManager is zwp_text_input_manager_v3.
type TextInputManager struct {
	wl.BaseProxy
}

func (m *TextInputManager) Destroy() error {
	err := m.Context().SendRequest(m, 0)
	m.Context().Unregister(m)
	return err
}

func (m *TextInputManager) GetTextInput(seat *wl.Seat) (*TextInput, error) {
	t := &TextInput{}
	m.Context().Register(t)
	if err := m.Context().SendRequest(m, 1, t, seat); err != nil {
		m.Context().Unregister(t)
		return nil, err
	}
	return t, nil
}

// TextInputHandlers groups the zwp_text_input_v3 callbacks.
type TextInputHandlers struct {
	Enter                 func(surface *wl.Surface)
	Leave                 func(surface *wl.Surface)
	PreeditString         func(text string, cursorBegin, cursorEnd int32)
	CommitString          func(text string)
	DeleteSurroundingText func(before, after uint32)
	Done                  func(serial uint32)
}

// TextInput is zwp_text_input_v3.
type TextInput struct {
	wl.BaseProxy
	handlers TextInputHandlers
}

func (t *TextInput) SetHandlers(h TextInputHandlers) { t.handlers = h }

func (t *TextInput) Destroy() error {
	err := t.Context().SendRequest(t, 0)
	t.Context().Unregister(t)
	return err
}

func (t *TextInput) Enable() error {
	return t.Context().SendRequest(t, 1)
}

func (t *TextInput) Disable() error {
	return t.Context().SendRequest(t, 2)
}

func (t *TextInput) SetContentType(hint, purpose uint32) error {
	return t.Context().SendRequest(t, 5, hint, purpose)
}

func (t *TextInput) SetCursorRectangle(x, y, width, height int32) error {
	return t.Context().SendRequest(t, 6, x, y, width, height)
}

func (t *TextInput) Commit() error {
	return t.Context().SendRequest(t, 7)
}

func (t *TextInput) Dispatch(msg *wire.Message) {
	h := t.handlers
	switch msg.Opcode {
	case 0:
		s := wl.Lookup[*wl.Surface](t.Context(), msg.Object())
		if h.Enter != nil {
			h.Enter(s)
		}
	case 1:
		s := wl.Lookup[*wl.Surface](t.Context(), msg.Object())
		if h.Leave != nil {
			h.Leave(s)
		}
	case 2:
		text := msg.String()
		begin, end := msg.Int32(), msg.Int32()
		if h.PreeditString != nil {
			h.PreeditString(text, begin, end)
		}
	case 3:
		text := msg.String()
		if h.CommitString != nil {
			h.CommitString(text)
		}
	case 4:
		before, after := msg.Uint32(), msg.Uint32()
		if h.DeleteSurroundingText != nil {
			h.DeleteSurroundingText(before, after)
		}
	case 5:
		serial := msg.Uint32()
		if h.Done != nil {
			h.Done(serial)
		}
	}
}
