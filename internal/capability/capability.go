// Package capability models an optional compositor extension: a manager
// global that may or may not be bound, and per-key controller objects
// created lazily from it.
package capability

import (
	"fmt"

	"github.com/bnema/waylayer/internal/logger"
	"github.com/charmbracelet/log"
)

// CreateFunc builds the controller for key from the bound manager.
type CreateFunc[K comparable, M any, C any] func(manager M, key K) (C, error)

// DestroyFunc releases a controller.
type DestroyFunc[C any] func(C)

// Sink receives events. A zero key marks a global event.
type Sink[K comparable, E any] func(key K, ev E)

// Capability keeps at most one controller per key.
type Capability[K comparable, M any, C any, E any] struct {
	name        string
	manager     M
	bound       bool
	create      CreateFunc[K, M, C]
	destroy     DestroyFunc[C]
	sink        Sink[K, E]
	controllers map[K]C
	order       []K
	log         *log.Logger
}

// New returns an unbound capability.
func New[K comparable, M any, C any, E any](name string, create CreateFunc[K, M, C], destroy DestroyFunc[C], sink Sink[K, E]) *Capability[K, M, C, E] {
	return &Capability[K, M, C, E]{
		name:        name,
		create:      create,
		destroy:     destroy,
		sink:        sink,
		controllers: make(map[K]C),
		log:         logger.WithPrefix(name),
	}
}

// Name returns the capability's interface name.
func (c *Capability[K, M, C, E]) Name() string { return c.name }

// Bind records the bound manager.
func (c *Capability[K, M, C, E]) Bind(manager M) {
	c.manager = manager
	c.bound = true
}

// Available reports whether the manager is bound.
func (c *Capability[K, M, C, E]) Available() bool { return c.bound }

// Manager returns the bound manager.
func (c *Capability[K, M, C, E]) Manager() (M, bool) { return c.manager, c.bound }

// GetOrCreate returns the controller for key, creating it on first use.
func (c *Capability[K, M, C, E]) GetOrCreate(key K) (C, bool) {
	if ctrl, ok := c.controllers[key]; ok {
		return ctrl, true
	}
	var zero C
	if !c.bound {
		c.log.Debug("manager not bound, skipping", "key", key)
		return zero, false
	}
	ctrl, err := c.create(c.manager, key)
	if err != nil {
		c.log.Warn("failed to create controller", "key", key, "error", err)
		return zero, false
	}
	c.controllers[key] = ctrl
	c.order = append(c.order, key)
	return ctrl, true
}

// Lookup returns an existing controller without creating one.
func (c *Capability[K, M, C, E]) Lookup(key K) (C, bool) {
	ctrl, ok := c.controllers[key]
	return ctrl, ok
}

// With runs fn on the controller for key, creating it if needed. It
// reports whether fn ran.
func (c *Capability[K, M, C, E]) With(key K, op string, fn func(C) error) bool {
	ctrl, ok := c.GetOrCreate(key)
	if !ok {
		c.log.Debug(fmt.Sprintf("%s unavailable", op), "key", key)
		return false
	}
	if err := fn(ctrl); err != nil {
		c.log.Warn(fmt.Sprintf("%s failed", op), "key", key, "error", err)
	}
	return true
}

// WithExisting runs fn only when a controller for key already exists.
func (c *Capability[K, M, C, E]) WithExisting(key K, op string, fn func(C) error) bool {
	ctrl, ok := c.controllers[key]
	if !ok {
		c.log.Debug(fmt.Sprintf("%s: no controller", op), "key", key)
		return false
	}
	if err := fn(ctrl); err != nil {
		c.log.Warn(fmt.Sprintf("%s failed", op), "key", key, "error", err)
	}
	return true
}

// Each visits controllers in creation order.
func (c *Capability[K, M, C, E]) Each(fn func(K, C)) {
	for _, k := range c.order {
		if ctrl, ok := c.controllers[k]; ok {
			fn(k, ctrl)
		}
	}
}

// Remove destroys and forgets the controller for key.
func (c *Capability[K, M, C, E]) Remove(key K) {
	ctrl, ok := c.controllers[key]
	if !ok {
		return
	}
	delete(c.controllers, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	if c.destroy != nil {
		c.destroy(ctrl)
	}
}

// RemoveAll destroys every controller.
func (c *Capability[K, M, C, E]) RemoveAll() {
	for _, k := range append([]K(nil), c.order...) {
		c.Remove(k)
	}
}

// Has reports whether key has a controller.
func (c *Capability[K, M, C, E]) Has(key K) bool {
	_, ok := c.controllers[key]
	return ok
}

// Keys returns the keys with controllers in creation order.
func (c *Capability[K, M, C, E]) Keys() []K {
	return append([]K(nil), c.order...)
}

// Len returns the number of controllers.
func (c *Capability[K, M, C, E]) Len() int { return len(c.controllers) }

// Emit sends a global event.
func (c *Capability[K, M, C, E]) Emit(ev E) {
	var global K
	c.EmitFor(global, ev)
}

// EmitFor sends an event scoped to key.
func (c *Capability[K, M, C, E]) EmitFor(key K, ev E) {
	if c.sink != nil {
		c.sink(key, ev)
	}
}
