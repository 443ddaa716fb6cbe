package layershell

import (
	"testing"
	"time"

	"github.com/bnema/waylayer/internal/wire"
	"github.com/bnema/waylayer/internal/wl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messagesOf[T Message](qs []queued) []T {
	var out []T
	for _, q := range qs {
		if m, ok := q.msg.(T); ok {
			out = append(out, m)
		}
	}
	return out
}

func TestTouchSlotsAreIndependent(t *testing.T) {
	st, _ := buildState(t, NewBuilder("test"))
	u := st.Units()[0]

	st.onPointerEnter(wl.PointerEnterEvent{Serial: 1, Surface: u.Surface(), SurfaceX: 5, SurfaceY: 5})
	st.onTouchDown(wl.TouchDownEvent{Serial: 2, Surface: u.Surface(), ID: 0, X: 10, Y: 10})
	st.onTouchDown(wl.TouchDownEvent{Serial: 3, Surface: u.Surface(), ID: 1, X: 20, Y: 20})
	st.onTouchMotion(wl.TouchMotionEvent{ID: 1, X: 25, Y: 26})
	drain(st)

	st.onTouchUp(wl.TouchUpEvent{Serial: 4, ID: 0})
	ups := messagesOf[TouchUp](drain(st))
	require.Len(t, ups, 1)
	assert.Equal(t, TouchUp{Serial: 4, Finger: 0, X: 10, Y: 10}, ups[0])

	_, ok := st.SlotTarget(TouchSlot(0))
	assert.False(t, ok)
	x, y, ok := st.SlotPosition(TouchSlot(1))
	require.True(t, ok)
	assert.Equal(t, 25.0, x)
	assert.Equal(t, 26.0, y)

	st.onTouchCancel()
	cancels := messagesOf[TouchCancel](drain(st))
	assert.Equal(t, []TouchCancel{{Finger: 1, X: 25, Y: 26}}, cancels)

	id, ok := st.SlotTarget(PointerSlot)
	require.True(t, ok, "cancel keeps the pointer")
	assert.Equal(t, u.ID(), id)
	_, ok = st.SlotTarget(TouchSlot(1))
	assert.False(t, ok)
}

func TestTouchEventsForUnknownFingerAreDropped(t *testing.T) {
	st, _ := buildState(t, NewBuilder("test"))
	st.onTouchUp(wl.TouchUpEvent{ID: 7})
	st.onTouchMotion(wl.TouchMotionEvent{ID: 7})
	assert.Empty(t, drain(st))
}

func TestAxisAccumulatesUntilFrame(t *testing.T) {
	st, _ := buildState(t, NewBuilder("test"))
	u := st.Units()[0]
	st.onPointerEnter(wl.PointerEnterEvent{Surface: u.Surface()})
	drain(st)

	st.onAxisSource(wl.PointerAxisSourceEvent{Source: 0})
	st.onAxis(wl.PointerAxisEvent{Time: 7, Axis: wl.PointerAxisVerticalScroll, Value: 10})
	st.onAxisDiscrete(wl.PointerAxisDiscreteEvent{Axis: wl.PointerAxisVerticalScroll, Discrete: 1})
	st.onAxis(wl.PointerAxisEvent{Time: 8, Axis: wl.PointerAxisVerticalScroll, Value: 5})
	assert.Zero(t, st.Pending())

	st.flushAxis()
	qs := drain(st)
	require.Len(t, qs, 1)
	assert.Equal(t, u.ID(), qs[0].id)
	assert.Equal(t, Axis{
		Time:      8,
		Vertical:  AxisScroll{Absolute: 15, Discrete: 1},
		HasSource: true,
	}, qs[0].msg)

	st.flushAxis()
	assert.Zero(t, st.Pending(), "empty frame")
}

func TestAxisWithoutFramesFlushesEachEvent(t *testing.T) {
	st, _ := buildState(t, NewBuilder("test"))
	st.seatVersion = 4
	st.onAxis(wl.PointerAxisEvent{Axis: wl.PointerAxisHorizontalScroll, Value: 3})
	st.onAxis(wl.PointerAxisEvent{Axis: wl.PointerAxisHorizontalScroll, Value: 4})
	assert.Len(t, messagesOf[Axis](drain(st)), 2)
}

func TestFocusChangeEmitsFocused(t *testing.T) {
	st, _ := buildState(t, NewBuilder("test").WithStartMode(StartAllScreens), outputGlobal(10), outputGlobal(11))
	a, b := st.Units()[0], st.Units()[1]

	st.updateCurrentSurface(a.Surface())
	st.updateCurrentSurface(a.Surface())
	st.updateCurrentSurface(b.Surface())

	assert.Equal(t, []Focused{{ID: a.ID()}, {ID: b.ID()}}, messagesOf[Focused](drain(st)))
	assert.Same(t, b.Output(), st.LastOutput())
	cur, ok := st.CurrentUnit()
	require.True(t, ok)
	assert.Same(t, b, cur)
}

func TestKeyRepeat(t *testing.T) {
	st, _ := buildState(t, NewBuilder("test"))
	u := st.Units()[0]
	st.updateCurrentSurface(u.Surface())
	st.onRepeatInfo(wl.KeyboardRepeatInfoEvent{Rate: 200, Delay: 5})
	drain(st)

	const keyA = 30
	st.onKey(wl.KeyboardKeyEvent{Key: keyA, State: wl.KeyStatePressed})
	require.True(t, st.Repeating())

	var repeats []KeyboardInput
	deadline := time.Now().Add(2 * time.Second)
	for len(repeats) < 2 && time.Now().Before(deadline) {
		require.NoError(t, st.loop.Dispatch(10*time.Millisecond))
		for _, k := range messagesOf[KeyboardInput](drain(st)) {
			if k.Repeat {
				repeats = append(repeats, k)
			}
		}
	}
	require.Len(t, repeats, 2)
	assert.Equal(t, "a", repeats[0].Key.Name)
	assert.True(t, repeats[0].Pressed)

	st.onKey(wl.KeyboardKeyEvent{Key: keyA, State: wl.KeyStateReleased})
	assert.False(t, st.Repeating())
}

func TestKeyboardLeaveResetsModifiers(t *testing.T) {
	st, _ := buildState(t, NewBuilder("test"))
	u := st.Units()[0]
	st.updateCurrentSurface(u.Surface())
	st.onModifiers(wl.KeyboardModifiersEvent{ModsDepressed: 4})
	st.onKey(wl.KeyboardKeyEvent{Key: 30, State: wl.KeyStatePressed})
	drain(st)

	st.onKeyboardLeave(wl.KeyboardLeaveEvent{Surface: u.Surface()})
	qs := drain(st)
	require.Len(t, qs, 2)
	assert.Equal(t, ModifiersChanged{}, qs[0].msg)
	assert.Equal(t, Unfocus{}, qs[1].msg)
	assert.False(t, st.Repeating())
}

func TestImeMessagesFollowDone(t *testing.T) {
	st, fc := buildState(t, NewBuilder("test").WithImeAllowed(true),
		Global{Name: 30, Interface: "zwp_text_input_manager_v3", Version: 1})
	u := st.Units()[0]

	fc.send(st.seat.ID(), 0, func(b *wire.Builder) {
		b.Uint32(wl.SeatCapabilityKeyboard)
	})
	pump(t, st)
	require.NotNil(t, st.textInput)
	st.updateCurrentSurface(u.Surface())
	drain(st)

	ti := st.textInput.ID()
	fc.send(ti, 0, func(b *wire.Builder) { b.Uint32(u.Surface().ID()) })
	fc.send(ti, 3, func(b *wire.Builder) { b.String("x") })
	fc.send(ti, 2, func(b *wire.Builder) {
		b.String("y")
		b.Int32(-1)
		b.Int32(-1)
	})
	fc.send(ti, 5, func(b *wire.Builder) { b.Uint32(1) })
	fc.send(ti, 2, func(b *wire.Builder) {
		b.String("ab")
		b.Int32(1)
		b.Int32(2)
	})
	fc.send(ti, 5, func(b *wire.Builder) { b.Uint32(2) })
	pump(t, st)

	got := messagesOf[Ime](drain(st))
	assert.Equal(t, []Ime{
		{Kind: ImeEnabled},
		{Kind: ImePreedit},
		{Kind: ImeCommit, Text: "x"},
		{Kind: ImePreedit, Text: "y"},
		{Kind: ImePreedit, Text: "ab", Cursor: &ImeCursor{Begin: 1, End: 2}},
	}, got)

	fc.send(ti, 1, func(b *wire.Builder) { b.Uint32(u.Surface().ID()) })
	pump(t, st)
	assert.Equal(t, []Ime{{Kind: ImeDisabled}}, messagesOf[Ime](drain(st)))
}
