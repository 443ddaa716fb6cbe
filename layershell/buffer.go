package layershell

import (
	"image/color"

	"github.com/bnema/waylayer/internal/shm"
	"github.com/bnema/waylayer/internal/wl"
)

// Buffer is a shared memory ARGB8888 buffer the caller paints into.
type Buffer struct {
	shm *shm.Buffer
}

func (b *Buffer) Width() int32  { return b.shm.Width() }
func (b *Buffer) Height() int32 { return b.shm.Height() }
func (b *Buffer) Stride() int32 { return b.shm.Stride() }

// Pixels exposes the mapped memory, four little endian bytes per pixel.
func (b *Buffer) Pixels() []byte { return b.shm.Pixels() }

// Fill paints the whole buffer with c.
func (b *Buffer) Fill(c color.Color) { b.shm.Fill(c) }

// Busy reports whether the compositor still holds the buffer.
func (b *Buffer) Busy() bool { return b.shm.Busy() }

func (b *Buffer) Destroy() { b.shm.Destroy() }

func (b *Buffer) wl() *wl.Buffer { return b.shm.WlBuffer() }
func (b *Buffer) markAttached()  { b.shm.MarkAttached() }

// BufferPool allocates buffers for one unit on the bound wl_shm.
type BufferPool struct {
	shm  *wl.Shm
	unit *Unit
}

// Allocate returns a width x height buffer. The unit's previous buffer is
// reused when it has the same size and the compositor released it.
func (p *BufferPool) Allocate(width, height uint32) (*Buffer, error) {
	if prev := p.unit.buffer; prev != nil && !prev.Busy() &&
		prev.Width() == int32(width) && prev.Height() == int32(height) {
		return prev, nil
	}
	b, err := shm.NewBuffer(p.shm, int32(width), int32(height))
	if err != nil {
		return nil, &Error{Kind: KindTempFile, Err: err}
	}
	return &Buffer{shm: b}, nil
}
