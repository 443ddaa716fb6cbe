package wl

import (
	"fmt"

	"github.com/bnema/waylayer/internal/wire"
)

// Display is the wl_display singleton, always object id 1.
type Display struct {
	BaseProxy
}

const (
	displaySync        = 0
	displayGetRegistry = 1
)

const (
	displayEventError    = 0
	displayEventDeleteID = 1
)

// Sync requests a callback that fires once every prior request is handled.
func (d *Display) Sync() (*Callback, error) {
	cb := &Callback{}
	d.Context().Register(cb)
	if err := d.Context().SendRequest(d, displaySync, cb); err != nil {
		d.Context().Unregister(cb)
		return nil, err
	}
	return cb, nil
}

// GetRegistry creates the registry object.
func (d *Display) GetRegistry() (*Registry, error) {
	r := &Registry{}
	d.Context().Register(r)
	if err := d.Context().SendRequest(d, displayGetRegistry, r); err != nil {
		d.Context().Unregister(r)
		return nil, err
	}
	return r, nil
}

// Roundtrip is a shorthand for Context().Roundtrip().
func (d *Display) Roundtrip() error {
	return d.Context().Roundtrip()
}

func (d *Display) Dispatch(msg *wire.Message) {
	switch msg.Opcode {
	case displayEventError:
		obj := msg.Object()
		code := msg.Uint32()
		text := msg.String()
		d.Context().err = &wire.ProtocolError{Object: obj, Code: code, Message: text}
		d.Context().log.Error("compositor reported a protocol error", "object", obj, "code", code, "message", text)
	case displayEventDeleteID:
		d.Context().releaseID(msg.Uint32())
	}
}

// Callback is a one shot wl_callback.
type Callback struct {
	BaseProxy
	doneHandler func(CallbackDoneEvent)
}

type CallbackDoneEvent struct {
	Data uint32
}

func (c *Callback) SetDoneHandler(f func(CallbackDoneEvent)) {
	c.doneHandler = f
}

func (c *Callback) Dispatch(msg *wire.Message) {
	if msg.Opcode != 0 {
		return
	}
	ev := CallbackDoneEvent{Data: msg.Uint32()}
	c.Context().Unregister(c)
	if c.doneHandler != nil {
		c.doneHandler(ev)
	}
}

// Registry announces the compositor's globals.
type Registry struct {
	BaseProxy
	globalHandler       func(RegistryGlobalEvent)
	globalRemoveHandler func(RegistryGlobalRemoveEvent)
}

type RegistryGlobalEvent struct {
	Name      uint32
	Interface string
	Version   uint32
}

type RegistryGlobalRemoveEvent struct {
	Name uint32
}

func (r *Registry) SetGlobalHandler(f func(RegistryGlobalEvent)) {
	r.globalHandler = f
}

func (r *Registry) SetGlobalRemoveHandler(f func(RegistryGlobalRemoveEvent)) {
	r.globalRemoveHandler = f
}

// Bind binds global name to p, which must not be registered yet.
func (r *Registry) Bind(name uint32, iface string, version uint32, p Proxy) error {
	r.Context().Register(p)
	if err := r.Context().SendRequest(r, 0, name, iface, version, p); err != nil {
		r.Context().Unregister(p)
		return fmt.Errorf("failed to bind %s: %w", iface, err)
	}
	return nil
}

func (r *Registry) Dispatch(msg *wire.Message) {
	switch msg.Opcode {
	case 0:
		ev := RegistryGlobalEvent{Name: msg.Uint32(), Interface: msg.String(), Version: msg.Uint32()}
		if r.globalHandler != nil {
			r.globalHandler(ev)
		}
	case 1:
		ev := RegistryGlobalRemoveEvent{Name: msg.Uint32()}
		if r.globalRemoveHandler != nil {
			r.globalRemoveHandler(ev)
		}
	}
}
