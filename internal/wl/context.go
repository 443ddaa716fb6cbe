// Package wl is a small Wayland client core: an object table bound to one
// connection, request marshalling and the wl_* core interfaces.
package wl

import (
	"fmt"
	"os"

	"github.com/bnema/waylayer/internal/logger"
	"github.com/bnema/waylayer/internal/wire"
	"github.com/charmbracelet/log"
)

// Fd marks a request argument as a file descriptor.
type Fd int

// Proxy is a client side protocol object.
type Proxy interface {
	ID() uint32
	SetID(uint32)
	Context() *Context
	SetContext(*Context)
	Dispatch(*wire.Message)
}

// BaseProxy carries the identity every proxy shares.
type BaseProxy struct {
	id  uint32
	ctx *Context
}

func (p *BaseProxy) ID() uint32             { return p.id }
func (p *BaseProxy) SetID(id uint32)        { p.id = id }
func (p *BaseProxy) Context() *Context      { return p.ctx }
func (p *BaseProxy) SetContext(c *Context)  { p.ctx = c }
func (p *BaseProxy) Dispatch(*wire.Message) {}

// ObjectID returns the id of p, or 0 for a nil pointer. Use it for nullable
// object arguments.
func ObjectID[T any, P interface {
	*T
	Proxy
}](p P) uint32 {
	if p == nil {
		return 0
	}
	return p.ID()
}

const serverIDBase = 0xff000000

// Context owns the object table of one connection. It is not safe for
// concurrent use; the event loop goroutine is the only caller.
type Context struct {
	conn    *wire.Conn
	display *Display
	objects map[uint32]Proxy
	nextID  uint32
	free    []uint32
	err     error
	trace   bool
	log     *log.Logger
}

// Connect dials the compositor and returns its display object.
func Connect(path string) (*Display, error) {
	conn, err := wire.Dial(path)
	if err != nil {
		return nil, err
	}
	return NewContext(conn).Display(), nil
}

// NewContext wraps an established connection.
func NewContext(conn *wire.Conn) *Context {
	c := &Context{
		conn:    conn,
		objects: make(map[uint32]Proxy),
		nextID:  2,
		trace:   os.Getenv("WAYLAND_DEBUG") == "1",
		log:     logger.WithPrefix("wayland"),
	}
	c.display = &Display{}
	c.display.SetContext(c)
	c.display.SetID(1)
	c.objects[1] = c.display
	return c
}

// Display returns the wl_display singleton.
func (c *Context) Display() *Display {
	return c.display
}

// Fd returns the connection descriptor for polling.
func (c *Context) Fd() int {
	return c.conn.Fd()
}

// Err returns the fatal protocol error, if any was received.
func (c *Context) Err() error {
	return c.err
}

// Close closes the connection. Objects are forgotten.
func (c *Context) Close() error {
	c.objects = make(map[uint32]Proxy)
	return c.conn.Close()
}

// Register allocates a client id for p and adds it to the table.
func (c *Context) Register(p Proxy) {
	var id uint32
	if n := len(c.free); n > 0 {
		id = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		id = c.nextID
		c.nextID++
	}
	p.SetContext(c)
	p.SetID(id)
	c.objects[id] = p
}

// RegisterServer adds a proxy for an object the compositor created.
func (c *Context) RegisterServer(p Proxy, id uint32) {
	p.SetContext(c)
	p.SetID(id)
	c.objects[id] = p
}

// Unregister forgets p. Its id becomes reusable once the compositor
// confirms the deletion.
func (c *Context) Unregister(p Proxy) {
	if p == nil {
		return
	}
	delete(c.objects, p.ID())
}

// Lookup finds a live object by id.
func (c *Context) Lookup(id uint32) (Proxy, bool) {
	p, ok := c.objects[id]
	return p, ok
}

func (c *Context) releaseID(id uint32) {
	delete(c.objects, id)
	if id < serverIDBase {
		c.free = append(c.free, id)
	}
}

// SendRequest marshals args by their Go type and writes the request.
func (c *Context) SendRequest(p Proxy, opcode uint32, args ...any) error {
	if c.err != nil {
		return c.err
	}
	b := wire.NewBuilder()
	for i, arg := range args {
		switch v := arg.(type) {
		case nil:
			b.Uint32(0)
		case uint32:
			b.Uint32(v)
		case int32:
			b.Int32(v)
		case int:
			b.Int32(int32(v))
		case bool:
			if v {
				b.Uint32(1)
			} else {
				b.Uint32(0)
			}
		case wire.Fixed:
			b.Fixed(v)
		case float64:
			b.Fixed(wire.FixedFromFloat(v))
		case string:
			b.String(v)
		case []byte:
			b.Array(v)
		case Fd:
			b.Fd(int(v))
		case Proxy:
			b.Uint32(v.ID())
		default:
			return fmt.Errorf("unsupported argument %d of type %T for object %d opcode %d", i, arg, p.ID(), opcode)
		}
	}
	if c.trace {
		c.log.Debug("request", "object", p.ID(), "type", fmt.Sprintf("%T", p), "opcode", opcode)
	}
	if err := c.conn.WriteMessage(p.ID(), uint16(opcode), b); err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	return nil
}

// ReadEvents pulls bytes from the socket. With block it waits for at least one read.
func (c *Context) ReadEvents(block bool) error {
	_, err := c.conn.Fill(block)
	return err
}

// DispatchPending dispatches every complete message already buffered.
func (c *Context) DispatchPending() error {
	for {
		msg, err := c.conn.Next()
		if err != nil {
			return err
		}
		if msg == nil {
			return c.err
		}
		c.dispatch(msg)
		if c.err != nil {
			return c.err
		}
	}
}

// Dispatch reads whatever is available without blocking and dispatches it.
func (c *Context) Dispatch() error {
	if err := c.ReadEvents(false); err != nil {
		return err
	}
	return c.DispatchPending()
}

func (c *Context) dispatch(msg *wire.Message) {
	p, ok := c.objects[msg.Sender]
	if !ok {
		if c.trace {
			c.log.Debug("event for unknown object", "object", msg.Sender, "opcode", msg.Opcode)
		}
		return
	}
	if c.trace {
		c.log.Debug("event", "object", msg.Sender, "type", fmt.Sprintf("%T", p), "opcode", msg.Opcode)
	}
	p.Dispatch(msg)
	if err := msg.Err(); err != nil {
		c.log.Warn("malformed event", "object", msg.Sender, "opcode", msg.Opcode, "error", err)
	}
}

// Roundtrip blocks until the compositor has processed every request sent so far.
func (c *Context) Roundtrip() error {
	cb, err := c.display.Sync()
	if err != nil {
		return err
	}
	done := false
	cb.SetDoneHandler(func(CallbackDoneEvent) { done = true })
	for {
		if err := c.DispatchPending(); err != nil {
			return err
		}
		if done {
			return nil
		}
		if err := c.ReadEvents(true); err != nil {
			return err
		}
	}
}
