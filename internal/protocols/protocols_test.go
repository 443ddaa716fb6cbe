package protocols

import (
	"testing"

	"github.com/bnema/waylayer/internal/wire"
	"github.com/bnema/waylayer/internal/wl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func newPair(t *testing.T) (*wl.Context, *wire.Conn) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	require.NoError(t, err)
	ctx := wl.NewContext(wire.NewConn(fds[0]))
	srv := wire.NewConn(fds[1])
	t.Cleanup(func() {
		_ = ctx.Close()
		_ = srv.Close()
	})
	return ctx, srv
}

func next(t *testing.T, c *wire.Conn) *wire.Message {
	t.Helper()
	for {
		msg, err := c.Next()
		require.NoError(t, err)
		if msg != nil {
			return msg
		}
		_, err = c.Fill(true)
		require.NoError(t, err)
	}
}

func deliver(t *testing.T, ctx *wl.Context, srv *wire.Conn, sender uint32, opcode uint16, build func(*wire.Builder)) {
	t.Helper()
	b := wire.NewBuilder()
	if build != nil {
		build(b)
	}
	require.NoError(t, srv.WriteMessage(sender, opcode, b))
	require.NoError(t, ctx.ReadEvents(true))
	require.NoError(t, ctx.DispatchPending())
}

func TestGetLayerSurfaceWithoutOutput(t *testing.T) {
	ctx, srv := newPair(t)
	shell := &LayerShell{}
	ctx.Register(shell)
	surface := &wl.Surface{}
	ctx.Register(surface)

	ls, err := shell.GetLayerSurface(surface, nil, LayerTop, "panel")
	require.NoError(t, err)

	msg := next(t, srv)
	assert.Equal(t, shell.ID(), msg.Sender)
	assert.Equal(t, ls.ID(), msg.NewID())
	assert.Equal(t, surface.ID(), msg.Object())
	assert.Zero(t, msg.Object(), "null output")
	assert.Equal(t, LayerTop, msg.Uint32())
	assert.Equal(t, "panel", msg.String())
}

func TestLayerSurfaceConfigure(t *testing.T) {
	ctx, srv := newPair(t)
	ls := &LayerSurface{}
	ctx.Register(ls)

	var got LayerSurfaceConfigureEvent
	closed := false
	ls.SetConfigureHandler(func(ev LayerSurfaceConfigureEvent) { got = ev })
	ls.SetClosedHandler(func() { closed = true })

	deliver(t, ctx, srv, ls.ID(), 0, func(b *wire.Builder) {
		b.Uint32(5)
		b.Uint32(1920)
		b.Uint32(32)
	})
	assert.Equal(t, LayerSurfaceConfigureEvent{Serial: 5, Width: 1920, Height: 32}, got)

	deliver(t, ctx, srv, ls.ID(), 1, nil)
	assert.True(t, closed)
}

func TestVoiceAckStopEncodesFreeze(t *testing.T) {
	ctx, srv := newPair(t)
	v := &VoiceMode{}
	ctx.Register(v)

	require.NoError(t, v.AckStop(9, true))
	msg := next(t, srv)
	assert.Equal(t, uint16(2), msg.Opcode)
	assert.Equal(t, uint32(9), msg.Uint32())
	assert.Equal(t, uint32(1), msg.Uint32())
}

func TestForeignToplevelHandleCreatedByServer(t *testing.T) {
	ctx, srv := newPair(t)
	m := &ForeignToplevelManager{}
	ctx.Register(m)

	var handle *ForeignToplevelHandle
	var title string
	var states []uint32
	m.SetToplevelHandler(func(h *ForeignToplevelHandle) {
		handle = h
		h.SetHandlers(ForeignToplevelHandlers{
			Title: func(s string) { title = s },
			State: func(s []uint32) { states = s },
		})
	})

	const serverID = 0xff000001
	deliver(t, ctx, srv, m.ID(), 0, func(b *wire.Builder) { b.Uint32(serverID) })
	require.NotNil(t, handle)
	assert.Equal(t, uint32(serverID), handle.ID())

	deliver(t, ctx, srv, serverID, 0, func(b *wire.Builder) { b.String("Terminal") })
	deliver(t, ctx, srv, serverID, 4, func(b *wire.Builder) {
		inner := wire.NewBuilder()
		inner.Uint32(2)
		inner.Uint32(0)
		b.Array(inner.Payload())
	})
	assert.Equal(t, "Terminal", title)
	assert.Equal(t, []uint32{2, 0}, states)
}

func TestCursorShape(t *testing.T) {
	shape, ok := CursorShape("text")
	assert.True(t, ok)
	assert.Equal(t, uint32(9), shape)

	shape, ok = CursorShape("no-such-cursor")
	assert.False(t, ok)
	assert.Equal(t, uint32(1), shape)
}

func TestXdgWmBaseAnswersPing(t *testing.T) {
	ctx, srv := newPair(t)
	base := &XdgWmBase{}
	ctx.Register(base)

	deliver(t, ctx, srv, base.ID(), 0, func(b *wire.Builder) { b.Uint32(77) })
	msg := next(t, srv)
	assert.Equal(t, uint16(3), msg.Opcode)
	assert.Equal(t, uint32(77), msg.Uint32())
}

func TestCreateDefaultKeymap(t *testing.T) {
	f, size, err := CreateDefaultKeymap()
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, uint32(len(DefaultKeymap)+1), size)
}
