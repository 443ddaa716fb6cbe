package wl

import "github.com/bnema/waylayer/internal/wire"

// Seat capability bits.
const (
	SeatCapabilityPointer  uint32 = 1
	SeatCapabilityKeyboard uint32 = 2
	SeatCapabilityTouch    uint32 = 4
)

// Seat is wl_seat.
type Seat struct {
	BaseProxy
	capabilitiesHandler func(SeatCapabilitiesEvent)
	nameHandler         func(SeatNameEvent)
}

type SeatCapabilitiesEvent struct {
	Capabilities uint32
}

type SeatNameEvent struct {
	Name string
}

func (s *Seat) SetCapabilitiesHandler(f func(SeatCapabilitiesEvent)) { s.capabilitiesHandler = f }
func (s *Seat) SetNameHandler(f func(SeatNameEvent))                 { s.nameHandler = f }

func (s *Seat) GetPointer() (*Pointer, error) {
	p := &Pointer{}
	s.Context().Register(p)
	if err := s.Context().SendRequest(s, 0, p); err != nil {
		s.Context().Unregister(p)
		return nil, err
	}
	return p, nil
}

func (s *Seat) GetKeyboard() (*Keyboard, error) {
	k := &Keyboard{}
	s.Context().Register(k)
	if err := s.Context().SendRequest(s, 1, k); err != nil {
		s.Context().Unregister(k)
		return nil, err
	}
	return k, nil
}

func (s *Seat) GetTouch() (*Touch, error) {
	t := &Touch{}
	s.Context().Register(t)
	if err := s.Context().SendRequest(s, 2, t); err != nil {
		s.Context().Unregister(t)
		return nil, err
	}
	return t, nil
}

func (s *Seat) Release() error {
	err := s.Context().SendRequest(s, 3)
	s.Context().Unregister(s)
	return err
}

func (s *Seat) Dispatch(msg *wire.Message) {
	switch msg.Opcode {
	case 0:
		ev := SeatCapabilitiesEvent{Capabilities: msg.Uint32()}
		if s.capabilitiesHandler != nil {
			s.capabilitiesHandler(ev)
		}
	case 1:
		ev := SeatNameEvent{Name: msg.String()}
		if s.nameHandler != nil {
			s.nameHandler(ev)
		}
	}
}

// Pointer button states and axes.
const (
	PointerButtonStateReleased uint32 = 0
	PointerButtonStatePressed  uint32 = 1

	PointerAxisVerticalScroll   uint32 = 0
	PointerAxisHorizontalScroll uint32 = 1
)

// PointerHandlers groups the wl_pointer event callbacks.
type PointerHandlers struct {
	Enter        func(PointerEnterEvent)
	Leave        func(PointerLeaveEvent)
	Motion       func(PointerMotionEvent)
	Button       func(PointerButtonEvent)
	Axis         func(PointerAxisEvent)
	Frame        func()
	AxisSource   func(PointerAxisSourceEvent)
	AxisStop     func(PointerAxisStopEvent)
	AxisDiscrete func(PointerAxisDiscreteEvent)
}

type PointerEnterEvent struct {
	Serial   uint32
	Surface  *Surface
	SurfaceX float64
	SurfaceY float64
}

type PointerLeaveEvent struct {
	Serial  uint32
	Surface *Surface
}

type PointerMotionEvent struct {
	Time     uint32
	SurfaceX float64
	SurfaceY float64
}

type PointerButtonEvent struct {
	Serial uint32
	Time   uint32
	Button uint32
	State  uint32
}

type PointerAxisEvent struct {
	Time  uint32
	Axis  uint32
	Value float64
}

type PointerAxisSourceEvent struct {
	Source uint32
}

type PointerAxisStopEvent struct {
	Time uint32
	Axis uint32
}

type PointerAxisDiscreteEvent struct {
	Axis     uint32
	Discrete int32
}

// Pointer is wl_pointer.
type Pointer struct {
	BaseProxy
	handlers PointerHandlers
}

func (p *Pointer) SetHandlers(h PointerHandlers) { p.handlers = h }

// SetCursor sets a surface as the cursor image; nil hides the cursor.
func (p *Pointer) SetCursor(serial uint32, surface *Surface, hotspotX, hotspotY int32) error {
	return p.Context().SendRequest(p, 0, serial, ObjectID(surface), hotspotX, hotspotY)
}

func (p *Pointer) Release() error {
	err := p.Context().SendRequest(p, 1)
	p.Context().Unregister(p)
	return err
}

func (p *Pointer) Dispatch(msg *wire.Message) {
	h := p.handlers
	switch msg.Opcode {
	case 0:
		ev := PointerEnterEvent{Serial: msg.Uint32()}
		ev.Surface = lookup[*Surface](p.Context(), msg.Object())
		ev.SurfaceX = msg.Fixed().Float()
		ev.SurfaceY = msg.Fixed().Float()
		if h.Enter != nil {
			h.Enter(ev)
		}
	case 1:
		ev := PointerLeaveEvent{Serial: msg.Uint32()}
		ev.Surface = lookup[*Surface](p.Context(), msg.Object())
		if h.Leave != nil {
			h.Leave(ev)
		}
	case 2:
		ev := PointerMotionEvent{Time: msg.Uint32()}
		ev.SurfaceX = msg.Fixed().Float()
		ev.SurfaceY = msg.Fixed().Float()
		if h.Motion != nil {
			h.Motion(ev)
		}
	case 3:
		ev := PointerButtonEvent{Serial: msg.Uint32(), Time: msg.Uint32(), Button: msg.Uint32(), State: msg.Uint32()}
		if h.Button != nil {
			h.Button(ev)
		}
	case 4:
		ev := PointerAxisEvent{Time: msg.Uint32(), Axis: msg.Uint32(), Value: msg.Fixed().Float()}
		if h.Axis != nil {
			h.Axis(ev)
		}
	case 5:
		if h.Frame != nil {
			h.Frame()
		}
	case 6:
		ev := PointerAxisSourceEvent{Source: msg.Uint32()}
		if h.AxisSource != nil {
			h.AxisSource(ev)
		}
	case 7:
		ev := PointerAxisStopEvent{Time: msg.Uint32(), Axis: msg.Uint32()}
		if h.AxisStop != nil {
			h.AxisStop(ev)
		}
	case 8:
		ev := PointerAxisDiscreteEvent{Axis: msg.Uint32(), Discrete: msg.Int32()}
		if h.AxisDiscrete != nil {
			h.AxisDiscrete(ev)
		}
	}
}

// Keyboard key states and keymap formats.
const (
	KeyStateReleased uint32 = 0
	KeyStatePressed  uint32 = 1

	KeymapFormatNoKeymap uint32 = 0
	KeymapFormatXkbV1    uint32 = 1
)

// KeyboardHandlers groups the wl_keyboard event callbacks.
type KeyboardHandlers struct {
	Keymap     func(KeyboardKeymapEvent)
	Enter      func(KeyboardEnterEvent)
	Leave      func(KeyboardLeaveEvent)
	Key        func(KeyboardKeyEvent)
	Modifiers  func(KeyboardModifiersEvent)
	RepeatInfo func(KeyboardRepeatInfoEvent)
}

// KeyboardKeymapEvent carries a descriptor the handler must close.
type KeyboardKeymapEvent struct {
	Format uint32
	Fd     int
	Size   uint32
}

type KeyboardEnterEvent struct {
	Serial  uint32
	Surface *Surface
	Keys    []uint32
}

type KeyboardLeaveEvent struct {
	Serial  uint32
	Surface *Surface
}

type KeyboardKeyEvent struct {
	Serial uint32
	Time   uint32
	Key    uint32
	State  uint32
}

type KeyboardModifiersEvent struct {
	Serial        uint32
	ModsDepressed uint32
	ModsLatched   uint32
	ModsLocked    uint32
	Group         uint32
}

type KeyboardRepeatInfoEvent struct {
	Rate  int32
	Delay int32
}

// Keyboard is wl_keyboard.
type Keyboard struct {
	BaseProxy
	handlers KeyboardHandlers
}

func (k *Keyboard) SetHandlers(h KeyboardHandlers) { k.handlers = h }

func (k *Keyboard) Release() error {
	err := k.Context().SendRequest(k, 0)
	k.Context().Unregister(k)
	return err
}

func (k *Keyboard) Dispatch(msg *wire.Message) {
	h := k.handlers
	switch msg.Opcode {
	case 0:
		ev := KeyboardKeymapEvent{Format: msg.Uint32(), Fd: msg.Fd(), Size: msg.Uint32()}
		if h.Keymap != nil {
			h.Keymap(ev)
		} else if ev.Fd >= 0 {
			closeFd(ev.Fd)
		}
	case 1:
		ev := KeyboardEnterEvent{Serial: msg.Uint32()}
		ev.Surface = lookup[*Surface](k.Context(), msg.Object())
		ev.Keys = wire.Uint32Array(msg.Array())
		if h.Enter != nil {
			h.Enter(ev)
		}
	case 2:
		ev := KeyboardLeaveEvent{Serial: msg.Uint32()}
		ev.Surface = lookup[*Surface](k.Context(), msg.Object())
		if h.Leave != nil {
			h.Leave(ev)
		}
	case 3:
		ev := KeyboardKeyEvent{Serial: msg.Uint32(), Time: msg.Uint32(), Key: msg.Uint32(), State: msg.Uint32()}
		if h.Key != nil {
			h.Key(ev)
		}
	case 4:
		ev := KeyboardModifiersEvent{
			Serial:        msg.Uint32(),
			ModsDepressed: msg.Uint32(),
			ModsLatched:   msg.Uint32(),
			ModsLocked:    msg.Uint32(),
			Group:         msg.Uint32(),
		}
		if h.Modifiers != nil {
			h.Modifiers(ev)
		}
	case 5:
		ev := KeyboardRepeatInfoEvent{Rate: msg.Int32(), Delay: msg.Int32()}
		if h.RepeatInfo != nil {
			h.RepeatInfo(ev)
		}
	}
}

// TouchHandlers groups the wl_touch event callbacks.
type TouchHandlers struct {
	Down   func(TouchDownEvent)
	Up     func(TouchUpEvent)
	Motion func(TouchMotionEvent)
	Frame  func()
	Cancel func()
}

type TouchDownEvent struct {
	Serial  uint32
	Time    uint32
	Surface *Surface
	ID      int32
	X       float64
	Y       float64
}

type TouchUpEvent struct {
	Serial uint32
	Time   uint32
	ID     int32
}

type TouchMotionEvent struct {
	Time uint32
	ID   int32
	X    float64
	Y    float64
}

// Touch is wl_touch.
type Touch struct {
	BaseProxy
	handlers TouchHandlers
}

func (t *Touch) SetHandlers(h TouchHandlers) { t.handlers = h }

func (t *Touch) Release() error {
	err := t.Context().SendRequest(t, 0)
	t.Context().Unregister(t)
	return err
}

func (t *Touch) Dispatch(msg *wire.Message) {
	h := t.handlers
	switch msg.Opcode {
	case 0:
		ev := TouchDownEvent{Serial: msg.Uint32(), Time: msg.Uint32()}
		ev.Surface = lookup[*Surface](t.Context(), msg.Object())
		ev.ID = msg.Int32()
		ev.X = msg.Fixed().Float()
		ev.Y = msg.Fixed().Float()
		if h.Down != nil {
			h.Down(ev)
		}
	case 1:
		ev := TouchUpEvent{Serial: msg.Uint32(), Time: msg.Uint32(), ID: msg.Int32()}
		if h.Up != nil {
			h.Up(ev)
		}
	case 2:
		ev := TouchMotionEvent{Time: msg.Uint32(), ID: msg.Int32()}
		ev.X = msg.Fixed().Float()
		ev.Y = msg.Fixed().Float()
		if h.Motion != nil {
			h.Motion(ev)
		}
	case 3:
		if h.Frame != nil {
			h.Frame()
		}
	case 4:
		if h.Cancel != nil {
			h.Cancel()
		}
	}
}
