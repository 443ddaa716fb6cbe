package layershell

import (
	"sync"
	"testing"
	"time"

	"github.com/bnema/waylayer/internal/wire"
	"github.com/bnema/waylayer/internal/wl"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

const (
	displaySync        = 0
	displayGetRegistry = 1
	displayDeleteID    = 1
)

// request is what the fake compositor remembers of a client request.
type request struct {
	sender uint32
	opcode uint16
	first  uint32
}

// fakeCompositor answers the registry and sync requests from its own
// goroutine. Everything else is recorded and ignored.
type fakeCompositor struct {
	t       *testing.T
	conn    *wire.Conn
	globals []Global

	mu       sync.Mutex
	registry uint32
	requests []request
	done     chan struct{}
}

func baseGlobals() []Global {
	return []Global{
		{Name: 1, Interface: compositorInterface, Version: 6},
		{Name: 2, Interface: shmInterface, Version: 1},
		{Name: 3, Interface: seatInterface, Version: 9},
		{Name: 4, Interface: "xdg_wm_base", Version: 6},
		{Name: 5, Interface: "zwlr_layer_shell_v1", Version: 4},
		{Name: 6, Interface: "zxdg_output_manager_v1", Version: 3},
	}
}

func newFakeCompositor(t *testing.T, globals ...Global) (*fakeCompositor, *wl.Display) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	require.NoError(t, err)
	fc := &fakeCompositor{
		t:       t,
		conn:    wire.NewConn(fds[1]),
		globals: globals,
		done:    make(chan struct{}),
	}
	go fc.serve()
	t.Cleanup(func() {
		_ = unix.Shutdown(fds[1], unix.SHUT_RDWR)
		<-fc.done
		_ = fc.conn.Close()
	})
	return fc, wl.NewContext(wire.NewConn(fds[0])).Display()
}

func (fc *fakeCompositor) serve() {
	defer close(fc.done)
	for {
		msg, err := fc.conn.Next()
		if err != nil {
			return
		}
		if msg == nil {
			if _, err := fc.conn.Fill(true); err != nil {
				return
			}
			continue
		}
		fc.handle(msg)
	}
}

func (fc *fakeCompositor) handle(msg *wire.Message) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if msg.Sender == 1 {
		switch msg.Opcode {
		case displayGetRegistry:
			fc.registry = msg.NewID()
			for _, g := range fc.globals {
				fc.writeGlobal(g)
			}
			return
		case displaySync:
			cb := msg.NewID()
			fc.write(cb, 0, func(b *wire.Builder) { b.Uint32(0) })
			fc.write(1, displayDeleteID, func(b *wire.Builder) { b.Uint32(cb) })
			return
		}
	}
	fc.requests = append(fc.requests, request{sender: msg.Sender, opcode: msg.Opcode, first: msg.Uint32()})
}

func (fc *fakeCompositor) write(sender uint32, opcode uint16, build func(b *wire.Builder)) {
	b := wire.NewBuilder()
	if build != nil {
		build(b)
	}
	_ = fc.conn.WriteMessage(sender, opcode, b)
}

func (fc *fakeCompositor) writeGlobal(g Global) {
	fc.write(fc.registry, 0, func(b *wire.Builder) {
		b.Uint32(g.Name)
		b.String(g.Interface)
		b.Uint32(g.Version)
	})
}

// send writes an event from the test goroutine.
func (fc *fakeCompositor) send(sender uint32, opcode uint16, build func(b *wire.Builder)) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.write(sender, opcode, build)
}

// announce advertises a global after startup.
func (fc *fakeCompositor) announce(g Global) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.globals = append(fc.globals, g)
	fc.writeGlobal(g)
}

// waitRequest returns the first recorded request matching sender and opcode.
func (fc *fakeCompositor) waitRequest(sender uint32, opcode uint16) request {
	fc.t.Helper()
	var found request
	require.Eventually(fc.t, func() bool {
		fc.mu.Lock()
		defer fc.mu.Unlock()
		for _, r := range fc.requests {
			if r.sender == sender && r.opcode == opcode {
				found = r
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond)
	return found
}

// countRequests returns how many recorded requests match sender and opcode.
func (fc *fakeCompositor) countRequests(sender uint32, opcode uint16) int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	n := 0
	for _, r := range fc.requests {
		if r.sender == sender && r.opcode == opcode {
			n++
		}
	}
	return n
}

func buildState(t *testing.T, b *Builder, globals ...Global) (*WindowState, *fakeCompositor) {
	t.Helper()
	fc, display := newFakeCompositor(t, append(baseGlobals(), globals...)...)
	st, err := b.WithConnection(display).Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st, fc
}

// pump reads what the fake compositor sent so far.
func pump(t *testing.T, st *WindowState) {
	t.Helper()
	require.NoError(t, st.ctx.Roundtrip())
}

// recorder is a Handler that keeps every message and answers
// RequestBuffer with a pool buffer, or with none when noBuffer is set.
type recorder struct {
	events   []Event
	messages []Message
	ids      []ID
	noBuffer bool
}

func (r *recorder) handle(ev Event, _ *WindowState, id ID) Control {
	r.events = append(r.events, ev)
	switch e := ev.(type) {
	case RequestMessages:
		r.messages = append(r.messages, e.Message)
		r.ids = append(r.ids, id)
	case RequestBuffer:
		if r.noBuffer {
			return ProvideBuffer{}
		}
		b, err := e.Pool.Allocate(e.Width, e.Height)
		if err != nil {
			return ProvideBuffer{}
		}
		return ProvideBuffer{Buffer: b}
	}
	return nil
}

func (r *recorder) count(match func(Message) bool) int {
	n := 0
	for _, m := range r.messages {
		if match(m) {
			n++
		}
	}
	return n
}

func isRefresh(m Message) bool {
	_, ok := m.(RequestRefresh)
	return ok
}

// removeGlobal sends registry.global_remove.
func (fc *fakeCompositor) removeGlobal(name uint32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.write(fc.registry, 1, func(b *wire.Builder) { b.Uint32(name) })
}

// configure sends the first configure of a layer unit.
func configure(t *testing.T, st *WindowState, fc *fakeCompositor, u *Unit, width, height uint32) {
	t.Helper()
	ls, ok := u.Shell().(*LayerShell)
	require.True(t, ok, "unit %s is not a layer surface", u.ID())
	fc.send(ls.LayerSurface().ID(), 0, func(b *wire.Builder) {
		b.Uint32(1)
		b.Uint32(width)
		b.Uint32(height)
	})
	pump(t, st)
	require.True(t, u.IsCreated())
}

func drain(st *WindowState) []queued {
	var out []queued
	for st.messages.Length() > 0 {
		out = append(out, st.messages.Remove().(queued))
	}
	return out
}

func outputGlobal(name uint32) Global {
	return Global{Name: name, Interface: outputInterface, Version: 4}
}
