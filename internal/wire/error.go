package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by operations on a closed connection.
	ErrClosed = errors.New("connection closed")

	// ErrShortMessage reports a header whose size field is smaller than the header itself.
	ErrShortMessage = errors.New("message size smaller than header")

	// ErrNoFd is returned when a message claims an fd argument that never arrived.
	ErrNoFd = errors.New("no file descriptor available")
)

// ProtocolError is a fatal error reported by the compositor through wl_display.error.
type ProtocolError struct {
	Object  uint32
	Code    uint32
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error on object %d (code %d): %s", e.Object, e.Code, e.Message)
}
