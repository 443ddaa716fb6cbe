package wire

import "encoding/binary"

// Builder accumulates request arguments.
type Builder struct {
	buf []byte
	fds []int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Uint32(v uint32) {
	b.buf = binary.LittleEndian.AppendUint32(b.buf, v)
}

func (b *Builder) Int32(v int32) {
	b.Uint32(uint32(v))
}

func (b *Builder) Fixed(v Fixed) {
	b.Int32(int32(v))
}

// String appends s with its terminator and padding.
func (b *Builder) String(s string) {
	n := len(s) + 1
	b.Uint32(uint32(n))
	b.buf = append(b.buf, s...)
	b.buf = append(b.buf, make([]byte, pad(n)-len(s))...)
}

// Array appends a length prefixed, padded byte array.
func (b *Builder) Array(a []byte) {
	b.Uint32(uint32(len(a)))
	b.buf = append(b.buf, a...)
	b.buf = append(b.buf, make([]byte, pad(len(a))-len(a))...)
}

// Fd queues a descriptor for out of band transfer.
func (b *Builder) Fd(fd int) {
	b.fds = append(b.fds, fd)
}

// Fds returns the queued descriptors.
func (b *Builder) Fds() []int {
	return b.fds
}

// Payload returns the encoded arguments without a header.
func (b *Builder) Payload() []byte {
	return b.buf
}

func (b *Builder) encode(sender uint32, opcode uint16) []byte {
	size := headerSize + len(b.buf)
	out := make([]byte, 0, size)
	out = binary.LittleEndian.AppendUint32(out, sender)
	out = binary.LittleEndian.AppendUint32(out, uint32(size)<<16|uint32(opcode))
	return append(out, b.buf...)
}
