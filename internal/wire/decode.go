package wire

import (
	"encoding/binary"
	"fmt"
)

// Message is one decoded event. Arguments are read in declaration order;
// the first malformed read is kept and reported by Err.
type Message struct {
	Sender uint32
	Opcode uint16

	data []byte
	off  int
	conn *Conn
	err  error
}

// NewMessage builds a message from a raw payload without a connection.
func NewMessage(sender uint32, opcode uint16, payload []byte) *Message {
	return &Message{Sender: sender, Opcode: opcode, data: payload}
}

// Err returns the first decoding error.
func (m *Message) Err() error {
	return m.err
}

// Len returns the payload size in bytes.
func (m *Message) Len() int {
	return len(m.data)
}

func (m *Message) fail(what string) {
	if m.err == nil {
		m.err = fmt.Errorf("object %d opcode %d: truncated %s at offset %d", m.Sender, m.Opcode, what, m.off)
	}
}

// Uint32 reads a uint32 argument.
func (m *Message) Uint32() uint32 {
	if m.off+4 > len(m.data) {
		m.fail("uint")
		return 0
	}
	v := binary.LittleEndian.Uint32(m.data[m.off:])
	m.off += 4
	return v
}

// Int32 reads an int32 argument.
func (m *Message) Int32() int32 {
	return int32(m.Uint32())
}

// Fixed reads a 24.8 fixed argument.
func (m *Message) Fixed() Fixed {
	return Fixed(m.Int32())
}

// Object reads an object id argument. Zero means null.
func (m *Message) Object() uint32 {
	return m.Uint32()
}

// NewID reads a new_id argument.
func (m *Message) NewID() uint32 {
	return m.Uint32()
}

// String reads a NUL terminated, padded string argument.
func (m *Message) String() string {
	n := int(m.Uint32())
	if n == 0 {
		return ""
	}
	padded := pad(n)
	if m.off+padded > len(m.data) {
		m.fail("string")
		return ""
	}
	s := string(m.data[m.off : m.off+n-1])
	m.off += padded
	return s
}

// Array reads a length prefixed, padded byte array argument.
func (m *Message) Array() []byte {
	n := int(m.Uint32())
	if n == 0 {
		return nil
	}
	padded := pad(n)
	if m.off+padded > len(m.data) {
		m.fail("array")
		return nil
	}
	out := make([]byte, n)
	copy(out, m.data[m.off:m.off+n])
	m.off += padded
	return out
}

// Fd claims the next descriptor received on the connection.
func (m *Message) Fd() int {
	if m.conn == nil {
		if m.err == nil {
			m.err = ErrNoFd
		}
		return -1
	}
	fd, ok := m.conn.popFd()
	if !ok && m.err == nil {
		m.err = ErrNoFd
	}
	return fd
}

// Uint32Array splits an array argument into native uint32 values.
func Uint32Array(b []byte) []uint32 {
	out := make([]uint32, 0, len(b)/4)
	for i := 0; i+4 <= len(b); i += 4 {
		out = append(out, binary.LittleEndian.Uint32(b[i:]))
	}
	return out
}

func pad(n int) int {
	return (n + 3) &^ 3
}
