package wl

import "github.com/bnema/waylayer/internal/wire"

// Shm pixel formats used by the engine.
const (
	ShmFormatARGB8888 uint32 = 0
	ShmFormatXRGB8888 uint32 = 1
)

// Shm is wl_shm.
type Shm struct {
	BaseProxy
	formats       []uint32
	formatHandler func(ShmFormatEvent)
}

type ShmFormatEvent struct {
	Format uint32
}

func (s *Shm) SetFormatHandler(f func(ShmFormatEvent)) { s.formatHandler = f }

// Formats returns the formats announced so far.
func (s *Shm) Formats() []uint32 { return s.formats }

// CreatePool creates a pool backed by fd. The caller keeps ownership of fd.
func (s *Shm) CreatePool(fd int, size int32) (*ShmPool, error) {
	pool := &ShmPool{}
	s.Context().Register(pool)
	if err := s.Context().SendRequest(s, 0, pool, Fd(fd), size); err != nil {
		s.Context().Unregister(pool)
		return nil, err
	}
	return pool, nil
}

func (s *Shm) Dispatch(msg *wire.Message) {
	if msg.Opcode != 0 {
		return
	}
	ev := ShmFormatEvent{Format: msg.Uint32()}
	s.formats = append(s.formats, ev.Format)
	if s.formatHandler != nil {
		s.formatHandler(ev)
	}
}

// ShmPool is wl_shm_pool.
type ShmPool struct {
	BaseProxy
}

func (p *ShmPool) CreateBuffer(offset, width, height, stride int32, format uint32) (*Buffer, error) {
	b := &Buffer{}
	p.Context().Register(b)
	if err := p.Context().SendRequest(p, 0, b, offset, width, height, stride, format); err != nil {
		p.Context().Unregister(b)
		return nil, err
	}
	return b, nil
}

func (p *ShmPool) Destroy() error {
	err := p.Context().SendRequest(p, 1)
	p.Context().Unregister(p)
	return err
}

func (p *ShmPool) Resize(size int32) error {
	return p.Context().SendRequest(p, 2, size)
}

// Buffer is wl_buffer.
type Buffer struct {
	BaseProxy
	releaseHandler func()
}

func (b *Buffer) SetReleaseHandler(f func()) { b.releaseHandler = f }

func (b *Buffer) Destroy() error {
	err := b.Context().SendRequest(b, 0)
	b.Context().Unregister(b)
	return err
}

func (b *Buffer) Dispatch(msg *wire.Message) {
	if msg.Opcode == 0 && b.releaseHandler != nil {
		b.releaseHandler()
	}
}
