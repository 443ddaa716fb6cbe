package layershell

import (
	"context"
	"testing"
	"time"

	"github.com/bnema/waylayer/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCreatesStartupSurface(t *testing.T) {
	st, _ := buildState(t, NewBuilder("test"))

	assert.Len(t, st.Globals(), len(baseGlobals()))
	require.Len(t, st.Units(), 1)
	u := st.Units()[0]
	assert.Equal(t, KindLayerShell, u.Shell().Kind())
	assert.Nil(t, u.Output())
	assert.False(t, u.IsCreated())
	assert.Same(t, u.Surface(), st.MainSurface())
	assert.Equal(t, uint32(5), st.seatVersion)
}

func TestBuildFailsWithoutRequiredGlobal(t *testing.T) {
	var globals []Global
	for _, g := range baseGlobals() {
		if g.Interface != "zwlr_layer_shell_v1" {
			globals = append(globals, g)
		}
	}
	_, display := newFakeCompositor(t, globals...)
	_, err := NewBuilder("test").WithConnection(display).Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBind)
	assert.Contains(t, err.Error(), "zwlr_layer_shell_v1")
}

func TestBuildRejectsOldLayerShell(t *testing.T) {
	globals := baseGlobals()
	for i := range globals {
		if globals[i].Interface == "zwlr_layer_shell_v1" {
			globals[i].Version = 2
		}
	}
	_, display := newFakeCompositor(t, globals...)
	_, err := NewBuilder("test").WithConnection(display).Build()
	assert.ErrorIs(t, err, ErrBind)
}

func TestBackgroundStartHasNoUnits(t *testing.T) {
	st, _ := buildState(t, NewBuilder("test").WithStartMode(StartBackground))
	assert.Empty(t, st.Units())
	assert.NotNil(t, st.MainSurface())
}

func TestAllScreensFollowsOutputs(t *testing.T) {
	st, fc := buildState(t, NewBuilder("test").WithStartMode(StartAllScreens), outputGlobal(10), outputGlobal(11))

	outputs := st.Outputs()
	require.Len(t, outputs, 2)
	units := st.Units()
	require.Len(t, units, 2)
	assert.Same(t, outputs[0], units[0].Output())
	assert.Same(t, outputs[1], units[1].Output())

	fc.announce(outputGlobal(12))
	pump(t, st)
	require.Len(t, st.Outputs(), 3)

	r := &recorder{}
	st.tick(r.handle)

	after := st.Units()
	require.Len(t, after, 3)
	assert.Same(t, units[0], after[0])
	assert.Same(t, units[1], after[1])
	assert.Same(t, st.Outputs()[2], after[2].Output())
	assert.Equal(t, 1, r.count(func(m Message) bool {
		nd, ok := m.(NewDisplay)
		return ok && nd.Output == st.Outputs()[2]
	}))
}

func TestNewDisplayOutsideAllScreensOnlyNotifies(t *testing.T) {
	st, fc := buildState(t, NewBuilder("test"), outputGlobal(10))
	fc.announce(outputGlobal(11))
	pump(t, st)

	r := &recorder{}
	st.tick(r.handle)
	assert.Len(t, st.Units(), 1)
	assert.Equal(t, 1, r.count(func(m Message) bool { _, ok := m.(NewDisplay); return ok }))
}

func TestOutputRemovalClosesItsUnits(t *testing.T) {
	st, fc := buildState(t, NewBuilder("test").WithStartMode(StartAllScreens), outputGlobal(10), outputGlobal(11))
	gone := st.Units()[0].ID()

	fc.removeGlobal(10)
	pump(t, st)
	require.Len(t, st.Units(), 1)
	require.Len(t, st.Outputs(), 1)

	r := &recorder{}
	st.tick(r.handle)
	require.Equal(t, 1, r.count(func(m Message) bool { _, ok := m.(Closed); return ok }))
	for i, m := range r.messages {
		if _, ok := m.(Closed); ok {
			assert.Equal(t, gone, r.ids[i])
		}
	}
}

func TestRequestCloseRemovesUnitOnTick(t *testing.T) {
	st, _ := buildState(t, NewBuilder("test"))
	u := st.Units()[0]
	u.RequestClose()

	r := &recorder{}
	st.tick(r.handle)
	assert.Empty(t, st.Units())
	require.Len(t, r.messages, 1)
	assert.Equal(t, Closed{}, r.messages[0])
	assert.Equal(t, u.ID(), r.ids[0])
}

func TestPresentSlotOncePerFrame(t *testing.T) {
	st, fc := buildState(t, NewBuilder("test"))
	u := st.Units()[0]
	configure(t, st, fc, u, 800, 30)
	w, h := u.Size()
	assert.Equal(t, uint32(800), w)
	assert.Equal(t, uint32(30), h)

	r := &recorder{}
	st.tick(r.handle)
	assert.Equal(t, 1, r.count(isRefresh))
	assert.Equal(t, PresentRequested, u.PresentState())

	u.RequestRefresh(RefreshNextFrame)
	st.tick(r.handle)
	st.tick(r.handle)
	assert.Equal(t, 1, r.count(isRefresh), "no redraw before the frame callback")

	frame := fc.waitRequest(u.Surface().ID(), 3)
	fc.send(frame.first, 0, func(b *wire.Builder) { b.Uint32(16) })
	pump(t, st)
	assert.Equal(t, PresentAvailable, u.PresentState())

	st.tick(r.handle)
	assert.Equal(t, 2, r.count(isRefresh))

	refresh := r.messages[len(r.messages)-1].(RequestRefresh)
	assert.Equal(t, RequestRefresh{Width: 800, Height: 30, IsCreated: true, Scale: 1}, refresh)
}

func TestMissingBufferSkipsFrame(t *testing.T) {
	st, fc := buildState(t, NewBuilder("test"))
	u := st.Units()[0]
	configure(t, st, fc, u, 64, 16)

	r := &recorder{}
	st.tick(r.handle)
	first := u.buffer
	require.NotNil(t, first)
	frame := fc.waitRequest(u.Surface().ID(), 3)
	fc.send(frame.first, 0, func(b *wire.Builder) { b.Uint32(16) })
	pump(t, st)
	require.Equal(t, PresentAvailable, u.PresentState())

	r.noBuffer = true
	u.RequestRefresh(RefreshNextFrame)
	st.tick(r.handle)
	pump(t, st)

	assert.Same(t, first, u.buffer)
	assert.NotEmpty(t, first.Pixels(), "previous buffer stays mapped")
	assert.Equal(t, PresentAvailable, u.PresentState())
	assert.Equal(t, 1, r.count(isRefresh))
	assert.Equal(t, 1, fc.countRequests(u.Surface().ID(), 3), "no frame callback for a skipped frame")
}

func TestTakePresentSlot(t *testing.T) {
	now := time.Unix(1000, 0)
	u := &Unit{present: PresentAvailable, now: func() time.Time { return now }}

	assert.False(t, u.takePresentSlot(), "nothing requested")

	u.RequestRefresh(RefreshAt(now.Add(time.Second)))
	assert.False(t, u.takePresentSlot(), "not due yet")

	now = now.Add(time.Second)
	assert.True(t, u.takePresentSlot())
	assert.False(t, u.takePresentSlot())
	assert.True(t, u.Refresh().IsWait())

	u.RequestRefresh(RefreshNextFrame)
	assert.False(t, u.takePresentSlot(), "slot still taken")
	u.ResetPresentSlot()
	assert.True(t, u.takePresentSlot())
}

func TestUseDisplayHandleSkipsBuffers(t *testing.T) {
	st, fc := buildState(t, NewBuilder("test").WithUseDisplayHandle(true))
	u := st.Units()[0]
	configure(t, st, fc, u, 100, 100)

	r := &recorder{}
	st.tick(r.handle)
	for _, ev := range r.events {
		_, isBuffer := ev.(RequestBuffer)
		assert.False(t, isBuffer)
	}
	assert.Equal(t, 1, r.count(isRefresh))
	assert.Equal(t, PresentAvailable, u.PresentState())
}

func TestRequestBufferNeedsProvideBuffer(t *testing.T) {
	st, fc := buildState(t, NewBuilder("test"))
	configure(t, st, fc, st.Units()[0], 100, 100)

	assert.Panics(t, func() {
		st.tick(func(Event, *WindowState, ID) Control { return nil })
	})
}

func TestCreateRejectsLiveID(t *testing.T) {
	st, _ := buildState(t, NewBuilder("test"))
	first := st.Units()[0]

	_, err := st.createLayer(first.ID(), LayerSettings{Width: 10, Height: 10}, nil, Binding{})
	assert.ErrorContains(t, err, "already in use")

	tests := []struct {
		name string
		ctrl Control
	}{
		{"layer", NewLayerShell{ID: first.ID(), Settings: LayerSettings{Width: 10, Height: 10}}},
		{"popup", NewPopUp{ID: first.ID(), Settings: PopUpSettings{Parent: first.ID(), Width: 10, Height: 10}}},
		{"xdg window", NewXdgWindow{ID: first.ID()}},
		{"input panel", NewInputPanel{ID: first.ID()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st.apply(tt.ctrl)
			require.Len(t, st.Units(), 1)
			u, ok := st.UnitByID(first.ID())
			require.True(t, ok)
			assert.Same(t, first, u)
		})
	}

	st.apply(NewLayerShell{ID: NewID(), Settings: LayerSettings{Width: 10, Height: 10}})
	assert.Len(t, st.Units(), 2)
}

func TestRemovingUnitClearsCapabilities(t *testing.T) {
	st, _ := buildState(t, NewBuilder("test").WithCornerRadius([4]uint32{4, 4, 4, 4}),
		Global{Name: 20, Interface: "layer_corner_radius_manager_v1", Version: 1},
		Global{Name: 21, Interface: "layer_shadow_manager_v1", Version: 1},
	)
	u := st.Units()[0]
	st.SetShadow(u.ID(), true)
	st.SetBlur(u.ID(), true)

	assert.True(t, st.cornerRadius.Has(u.ID()))
	assert.True(t, st.shadow.Has(u.ID()))
	assert.False(t, st.blur.Has(u.ID()), "blur manager not advertised")

	st.removeUnit(u)
	assert.False(t, st.cornerRadius.Has(u.ID()))
	assert.False(t, st.shadow.Has(u.ID()))
	assert.Zero(t, st.cornerRadius.Len())
}

func TestInitializeAnswersRequests(t *testing.T) {
	st, _ := buildState(t, NewBuilder("test"))

	var events []Event
	answers := []Control{RequestBind{}, RequestCompositor{}, nil}
	st.initialize(func(ev Event, _ *WindowState, _ ID) Control {
		events = append(events, ev)
		c := answers[0]
		answers = answers[1:]
		return c
	})

	require.Len(t, events, 3)
	assert.Equal(t, InitRequest{}, events[0])
	assert.Len(t, events[1].(BindProvide).Globals, len(baseGlobals()))
	assert.Same(t, st.compositor, events[2].(CompositorProvide).Compositor)
}

func TestInitializeAppliesOtherControls(t *testing.T) {
	st, _ := buildState(t, NewBuilder("test"))
	calls := 0
	st.initialize(func(Event, *WindowState, ID) Control {
		calls++
		return NewLayerShell{Settings: LayerSettings{Namespace: "extra", Width: 10, Height: 10}, ID: ID(99)}
	})
	assert.Equal(t, 1, calls)
	_, ok := st.UnitByID(ID(99))
	assert.True(t, ok)
}

func TestRunStopsOnExit(t *testing.T) {
	st, _ := buildState(t, NewBuilder("test").WithTickInterval(time.Millisecond))
	ticks := 0
	err := st.Run(context.Background(), func(ev Event, _ *WindowState, _ ID) Control {
		if _, ok := ev.(NormalDispatch); ok {
			ticks++
			if ticks == 3 {
				return Exit{}
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, ticks)
}

func TestRunWithChannelDeliversUserEvents(t *testing.T) {
	st, _ := buildState(t, NewBuilder("test").WithTickInterval(5*time.Millisecond))
	ch := make(chan string, 2)
	ch <- "first"
	ch <- "second"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var got []any
	err := RunWithChannel(ctx, st, ch, func(ev Event, _ *WindowState, _ ID) Control {
		if ue, ok := ev.(UserEvent); ok {
			got = append(got, ue.Value)
			if len(got) == 2 {
				return Exit{}
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"first", "second"}, got)
}

func TestRunCancelled(t *testing.T) {
	st, _ := buildState(t, NewBuilder("test"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, st.Run(ctx, func(Event, *WindowState, ID) Control { return nil }))
}
