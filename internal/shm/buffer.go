package shm

import (
	"encoding/binary"
	"fmt"
	"image/color"
	"os"

	"github.com/bnema/waylayer/internal/wl"
	"golang.org/x/sys/unix"
)

const bytesPerPixel = 4

// Buffer is a single ARGB8888 wl_buffer backed by its own pool.
type Buffer struct {
	width  int32
	height int32
	file   *os.File
	mmap   Mmap
	pool   *wl.ShmPool
	buffer *wl.Buffer
	busy   bool
}

// NewBuffer allocates a width x height buffer on shm.
func NewBuffer(shm *wl.Shm, width, height int32) (b *Buffer, err error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid buffer size %dx%d", width, height)
	}
	b = &Buffer{width: width, height: height}
	defer func() {
		if err != nil {
			b.Destroy()
		}
	}()

	size := int(b.Stride() * height)
	b.file, err = Create("waylayer-buffer", int64(size))
	if err != nil {
		return b, err
	}
	b.mmap, err = MapShared(b.file, size, unix.PROT_READ|unix.PROT_WRITE)
	if err != nil {
		return b, err
	}
	b.pool, err = shm.CreatePool(int(b.file.Fd()), int32(size))
	if err != nil {
		return b, fmt.Errorf("failed to create shm pool: %w", err)
	}
	b.buffer, err = b.pool.CreateBuffer(0, width, height, b.Stride(), wl.ShmFormatARGB8888)
	if err != nil {
		return b, fmt.Errorf("failed to create buffer: %w", err)
	}
	b.buffer.SetReleaseHandler(func() { b.busy = false })
	return b, nil
}

func (b *Buffer) Width() int32  { return b.width }
func (b *Buffer) Height() int32 { return b.height }
func (b *Buffer) Stride() int32 { return b.width * bytesPerPixel }

// Pixels exposes the mapped memory in little endian ARGB order.
func (b *Buffer) Pixels() []byte { return b.mmap }

// WlBuffer returns the protocol object to attach.
func (b *Buffer) WlBuffer() *wl.Buffer { return b.buffer }

// Busy reports whether the compositor still reads the buffer.
func (b *Buffer) Busy() bool { return b.busy }

// MarkAttached flags the buffer busy until the compositor releases it.
func (b *Buffer) MarkAttached() { b.busy = true }

// Fill paints every pixel with c, premultiplied.
func (b *Buffer) Fill(c color.Color) {
	r, g, bl, a := c.RGBA()
	px := uint32(a>>8)<<24 | uint32(r>>8)<<16 | uint32(g>>8)<<8 | uint32(bl>>8)
	for i := 0; i+bytesPerPixel <= len(b.mmap); i += bytesPerPixel {
		binary.LittleEndian.PutUint32(b.mmap[i:], px)
	}
}

// Destroy releases protocol objects and memory. It is safe on a partially built buffer.
func (b *Buffer) Destroy() {
	if b.buffer != nil {
		_ = b.buffer.Destroy()
		b.buffer = nil
	}
	if b.pool != nil {
		_ = b.pool.Destroy()
		b.pool = nil
	}
	if b.mmap != nil {
		_ = b.mmap.Unmap()
		b.mmap = nil
	}
	if b.file != nil {
		_ = b.file.Close()
		b.file = nil
	}
}
