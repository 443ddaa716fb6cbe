package layershell

import (
	"fmt"
	"time"

	"github.com/bnema/waylayer/internal/capability"
	"github.com/bnema/waylayer/internal/ime"
	"github.com/bnema/waylayer/internal/keymap"
	"github.com/bnema/waylayer/internal/logger"
	"github.com/bnema/waylayer/internal/protocols"
	"github.com/bnema/waylayer/internal/reactor"
	"github.com/bnema/waylayer/internal/wl"
	"github.com/charmbracelet/log"
	"github.com/eapache/queue"
)

type queued struct {
	id  ID
	msg Message
}

type (
	blurCap       = capability.Capability[ID, *protocols.BlurManager, *protocols.Blur, Message]
	cornerCap     = capability.Capability[ID, *protocols.CornerRadiusManager, *protocols.CornerRadius, Message]
	shadowCap     = capability.Capability[ID, *protocols.ShadowManager, *protocols.Shadow, Message]
	autoHideCap   = capability.Capability[ID, *protocols.AutoHideManager, *protocols.AutoHide, Message]
	homeCap       = capability.Capability[ID, *protocols.HomeVisibilityManager, *protocols.HomeVisibility, Message]
	visibilityCap = capability.Capability[ID, *protocols.SurfaceVisibilityManager, *protocols.SurfaceVisibility, Message]
	dismissCap    = capability.Capability[ID, *protocols.DismissManager, *protocols.Dismiss, Message]
	voiceCap      = capability.Capability[ID, *protocols.VoiceModeManager, *protocols.VoiceMode, Message]
	toplevelCap   = capability.Capability[uint32, *protocols.ForeignToplevelManager, *toplevelEntry, Message]
)

// WindowState is the engine: the connection, every unit and the seat. It
// lives on the event loop goroutine and is not safe for concurrent use.
type WindowState struct {
	settings     Settings
	ctx          *wl.Context
	registry     *wl.Registry
	globals      []Global
	initFinished bool

	compositor       *wl.Compositor
	shm              *wl.Shm
	seat             *wl.Seat
	seatVersion      uint32
	wmBase           *protocols.XdgWmBase
	layerShell       *protocols.LayerShell
	xdgOutputManager *protocols.XdgOutputManager

	cursorShapeManager     *protocols.CursorShapeManager
	viewporter             *protocols.Viewporter
	decorationManager      *protocols.DecorationManager
	fractionalScaleManager *protocols.FractionalScaleManager
	textInputManager       *protocols.TextInputManager
	virtualKeyboardManager *protocols.VirtualKeyboardManager
	inputPanel             *protocols.InputPanel

	units      []*Unit
	background *wl.Surface
	outputs    []*Output
	lastOutput *Output

	messages *queue.Queue
	closed   []ID

	pointer      *wl.Pointer
	keyboard     *wl.Keyboard
	touch        *wl.Touch
	cursorDevice *protocols.CursorShapeDevice
	translator   *keymap.Translator
	repeatInfo   keymap.RepeatInfo
	repeat       keyRepeat

	currentSurface *wl.Surface
	active         map[Slot]ID
	fingers        map[Slot]point
	enterSerial    uint32
	pointerX       float64
	pointerY       float64
	axis           pendingAxis

	textInput       *protocols.TextInput
	ime             ime.State
	imeAllowed      bool
	imePurpose      ime.Purpose
	imeCursor       imeArea
	virtualKeyboard *protocols.VirtualKeyboard

	blur           *blurCap
	cornerRadius   *cornerCap
	shadow         *shadowCap
	autoHide       *autoHideCap
	homeVisibility *homeCap
	visibility     *visibilityCap
	dismiss        *dismissCap
	voice          *voiceCap
	toplevels      *toplevelCap

	isHome           bool
	voiceActive      bool
	dismissRequested bool

	loop *reactor.Loop
	now  func() time.Time
	log  *log.Logger
}

type point struct {
	x, y float64
}

type imeArea struct {
	x, y, width, height int32
}

func newWindowState(ctx *wl.Context, settings Settings) (*WindowState, error) {
	loop, err := reactor.New()
	if err != nil {
		return nil, &Error{Kind: KindEventLoopInit, Err: err}
	}
	if settings.TickInterval <= 0 {
		settings.TickInterval = DefaultTickInterval
	}
	if settings.ToplevelStates == nil {
		settings.ToplevelStates = DefaultToplevelStateMap()
	}
	st := &WindowState{
		settings:   settings,
		ctx:        ctx,
		messages:   queue.New(),
		translator: keymap.NewTranslator(),
		repeatInfo: keymap.DefaultRepeat,
		active:     make(map[Slot]ID),
		fingers:    make(map[Slot]point),
		imeAllowed: settings.ImeAllowed,
		loop:       loop,
		now:        time.Now,
		log:        logger.WithPrefix("layershell"),
	}
	st.initCapabilities()
	return st, nil
}

// push queues msg for the next tick. id is NoID for global messages.
func (st *WindowState) push(id ID, msg Message) {
	st.messages.Add(queued{id: id, msg: msg})
}

// Pending returns the number of queued messages.
func (st *WindowState) Pending() int {
	return st.messages.Length()
}

// Settings returns the settings the engine was built with.
func (st *WindowState) Settings() Settings { return st.settings }

// Globals returns the globals advertised at startup.
func (st *WindowState) Globals() []Global {
	return append([]Global(nil), st.globals...)
}

// Units returns the live units in creation order.
func (st *WindowState) Units() []*Unit {
	return append([]*Unit(nil), st.units...)
}

// UnitByID finds a live unit.
func (st *WindowState) UnitByID(id ID) (*Unit, bool) {
	for _, u := range st.units {
		if u.id == id {
			return u, true
		}
	}
	return nil, false
}

func (st *WindowState) unitBySurface(s *wl.Surface) *Unit {
	if s == nil {
		return nil
	}
	for _, u := range st.units {
		if u.surface == s {
			return u
		}
	}
	return nil
}

func (st *WindowState) idOf(s *wl.Surface) ID {
	if u := st.unitBySurface(s); u != nil {
		return u.id
	}
	return NoID
}

// CurrentUnit returns the unit that last received input focus.
func (st *WindowState) CurrentUnit() (*Unit, bool) {
	u := st.unitBySurface(st.currentSurface)
	return u, u != nil
}

// MainSurface returns the first unit's surface, or the background surface.
func (st *WindowState) MainSurface() *wl.Surface {
	if len(st.units) > 0 {
		return st.units[0].surface
	}
	return st.background
}

// Outputs returns the known outputs in announcement order.
func (st *WindowState) Outputs() []*Output {
	return append([]*Output(nil), st.outputs...)
}

// PointerPosition is the last surface local pointer position.
func (st *WindowState) PointerPosition() (x, y float64) {
	return st.pointerX, st.pointerY
}

// EnterSerial is the serial of the last pointer enter.
func (st *WindowState) EnterSerial() uint32 { return st.enterSerial }

// Loop exposes the reactor so callers can add their own timers.
func (st *WindowState) Loop() *reactor.Loop { return st.loop }

// surfaceFor resolves a capability key to the unit's surface.
func (st *WindowState) surfaceFor(id ID) (*wl.Surface, error) {
	u, ok := st.UnitByID(id)
	if !ok {
		return nil, fmt.Errorf("no unit with id %s", id)
	}
	return u.surface, nil
}

// Close releases every unit, the seat and the connection.
func (st *WindowState) Close() error {
	for _, u := range st.Units() {
		st.removeUnit(u)
	}
	if st.background != nil {
		_ = st.background.Destroy()
		st.background = nil
	}
	st.releaseKeyboard()
	st.releasePointer()
	st.releaseTouch()
	st.toplevels.RemoveAll()
	if st.virtualKeyboard != nil {
		_ = st.virtualKeyboard.Destroy()
		st.virtualKeyboard = nil
	}
	_ = st.loop.Close()
	return st.ctx.Close()
}
