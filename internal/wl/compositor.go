package wl

import "github.com/bnema/waylayer/internal/wire"

// Compositor is wl_compositor.
type Compositor struct {
	BaseProxy
}

func (c *Compositor) CreateSurface() (*Surface, error) {
	s := &Surface{}
	c.Context().Register(s)
	if err := c.Context().SendRequest(c, 0, s); err != nil {
		c.Context().Unregister(s)
		return nil, err
	}
	return s, nil
}

func (c *Compositor) CreateRegion() (*Region, error) {
	r := &Region{}
	c.Context().Register(r)
	if err := c.Context().SendRequest(c, 1, r); err != nil {
		c.Context().Unregister(r)
		return nil, err
	}
	return r, nil
}

const (
	surfaceDestroy            = 0
	surfaceAttach             = 1
	surfaceDamage             = 2
	surfaceFrame              = 3
	surfaceSetOpaqueRegion    = 4
	surfaceSetInputRegion     = 5
	surfaceCommit             = 6
	surfaceSetBufferTransform = 7
	surfaceSetBufferScale     = 8
	surfaceDamageBuffer       = 9
)

// Surface is wl_surface.
type Surface struct {
	BaseProxy
	enterHandler                func(SurfaceEnterEvent)
	leaveHandler                func(SurfaceLeaveEvent)
	preferredBufferScaleHandler func(SurfacePreferredBufferScaleEvent)
}

type SurfaceEnterEvent struct {
	Output *Output
}

type SurfaceLeaveEvent struct {
	Output *Output
}

type SurfacePreferredBufferScaleEvent struct {
	Factor int32
}

func (s *Surface) SetEnterHandler(f func(SurfaceEnterEvent)) { s.enterHandler = f }
func (s *Surface) SetLeaveHandler(f func(SurfaceLeaveEvent)) { s.leaveHandler = f }
func (s *Surface) SetPreferredBufferScaleHandler(f func(SurfacePreferredBufferScaleEvent)) {
	s.preferredBufferScaleHandler = f
}

func (s *Surface) Destroy() error {
	err := s.Context().SendRequest(s, surfaceDestroy)
	s.Context().Unregister(s)
	return err
}

// Attach attaches buffer, or detaches when buffer is nil.
func (s *Surface) Attach(buffer *Buffer, x, y int32) error {
	return s.Context().SendRequest(s, surfaceAttach, ObjectID(buffer), x, y)
}

func (s *Surface) Damage(x, y, width, height int32) error {
	return s.Context().SendRequest(s, surfaceDamage, x, y, width, height)
}

// Frame requests a callback for the next frame the compositor shows this surface in.
func (s *Surface) Frame() (*Callback, error) {
	cb := &Callback{}
	s.Context().Register(cb)
	if err := s.Context().SendRequest(s, surfaceFrame, cb); err != nil {
		s.Context().Unregister(cb)
		return nil, err
	}
	return cb, nil
}

func (s *Surface) SetOpaqueRegion(region *Region) error {
	return s.Context().SendRequest(s, surfaceSetOpaqueRegion, ObjectID(region))
}

// SetInputRegion sets the input region. nil means the whole surface.
func (s *Surface) SetInputRegion(region *Region) error {
	return s.Context().SendRequest(s, surfaceSetInputRegion, ObjectID(region))
}

func (s *Surface) Commit() error {
	return s.Context().SendRequest(s, surfaceCommit)
}

func (s *Surface) SetBufferTransform(transform int32) error {
	return s.Context().SendRequest(s, surfaceSetBufferTransform, transform)
}

func (s *Surface) SetBufferScale(scale int32) error {
	return s.Context().SendRequest(s, surfaceSetBufferScale, scale)
}

func (s *Surface) DamageBuffer(x, y, width, height int32) error {
	return s.Context().SendRequest(s, surfaceDamageBuffer, x, y, width, height)
}

func (s *Surface) Dispatch(msg *wire.Message) {
	switch msg.Opcode {
	case 0:
		ev := SurfaceEnterEvent{Output: lookup[*Output](s.Context(), msg.Object())}
		if s.enterHandler != nil {
			s.enterHandler(ev)
		}
	case 1:
		ev := SurfaceLeaveEvent{Output: lookup[*Output](s.Context(), msg.Object())}
		if s.leaveHandler != nil {
			s.leaveHandler(ev)
		}
	case 2:
		ev := SurfacePreferredBufferScaleEvent{Factor: msg.Int32()}
		if s.preferredBufferScaleHandler != nil {
			s.preferredBufferScaleHandler(ev)
		}
	}
}

// Region is wl_region.
type Region struct {
	BaseProxy
}

func (r *Region) Destroy() error {
	err := r.Context().SendRequest(r, 0)
	r.Context().Unregister(r)
	return err
}

func (r *Region) Add(x, y, width, height int32) error {
	return r.Context().SendRequest(r, 1, x, y, width, height)
}

func (r *Region) Subtract(x, y, width, height int32) error {
	return r.Context().SendRequest(r, 2, x, y, width, height)
}

// lookup resolves an object argument to a typed proxy, or the zero value.
func lookup[T Proxy](c *Context, id uint32) T {
	var zero T
	if id == 0 {
		return zero
	}
	p, ok := c.Lookup(id)
	if !ok {
		return zero
	}
	t, ok := p.(T)
	if !ok {
		return zero
	}
	return t
}

// Lookup is the exported form of lookup for protocol packages.
func Lookup[T Proxy](c *Context, id uint32) T {
	return lookup[T](c, id)
}
