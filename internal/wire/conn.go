// Package wire implements the Wayland wire format over a Unix domain socket,
// including file descriptor passing with SCM_RIGHTS.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sys/unix"
)

const (
	headerSize = 8
	maxFds     = 28
	readSize   = 4096
)

func runtimeDir() string {
	if dir, ok := os.LookupEnv("XDG_RUNTIME_DIR"); ok {
		return dir
	}
	return fmt.Sprintf("/run/user/%d", os.Getuid())
}

// SocketPath resolves the compositor socket from $WAYLAND_DISPLAY, falling
// back to wayland-0 inside $XDG_RUNTIME_DIR.
func SocketPath() string {
	name, ok := os.LookupEnv("WAYLAND_DISPLAY")
	if !ok || name == "" {
		name = "wayland-0"
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(runtimeDir(), name)
}

// Conn is a connection to a compositor. It buffers partial reads and keeps
// received file descriptors queued until a message consumes them.
type Conn struct {
	fd     int
	in     []byte
	fds    []int
	closed bool
}

// NewConn wraps an already connected socket.
func NewConn(fd int) *Conn {
	return &Conn{fd: fd}
}

// Dial connects to the compositor. An empty path means: use $WAYLAND_SOCKET
// when set, otherwise SocketPath.
func Dial(path string) (*Conn, error) {
	if path == "" {
		if v, ok := os.LookupEnv("WAYLAND_SOCKET"); ok && v != "" {
			fd, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("failed to parse WAYLAND_SOCKET: %w", err)
			}
			_ = os.Unsetenv("WAYLAND_SOCKET")
			unix.CloseOnExec(fd)
			return NewConn(fd), nil
		}
		path = SocketPath()
	}

	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to create socket: %w", err)
	}
	if err := unix.Connect(fd, &unix.SockaddrUnix{Name: path}); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("failed to connect to %s: %w", path, err)
	}
	return NewConn(fd), nil
}

// Fd returns the socket descriptor for readiness polling.
func (c *Conn) Fd() int {
	return c.fd
}

// Close closes the socket and any received descriptors nobody claimed.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	for _, fd := range c.fds {
		_ = unix.Close(fd)
	}
	c.fds = nil
	return unix.Close(c.fd)
}

// WriteMessage sends one message with the given payload and descriptors.
func (c *Conn) WriteMessage(sender uint32, opcode uint16, b *Builder) error {
	if c.closed {
		return ErrClosed
	}
	data := b.encode(sender, opcode)

	var oob []byte
	if len(b.fds) > 0 {
		oob = unix.UnixRights(b.fds...)
	}
	n, err := unix.SendmsgN(c.fd, data, oob, nil, 0)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	for n < len(data) {
		m, err := unix.Write(c.fd, data[n:])
		if err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}
		n += m
	}
	return nil
}

// Fill performs a single read from the socket. Without block it returns
// (0, nil) when nothing is pending.
func (c *Conn) Fill(block bool) (int, error) {
	if c.closed {
		return 0, ErrClosed
	}
	buf := make([]byte, readSize)
	oob := make([]byte, unix.CmsgSpace(maxFds*4))

	flags := unix.MSG_CMSG_CLOEXEC
	if !block {
		flags |= unix.MSG_DONTWAIT
	}
	for {
		n, oobn, _, _, err := unix.Recvmsg(c.fd, buf, oob, flags)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			if errors.Is(err, unix.EAGAIN) {
				return 0, nil
			}
			return 0, fmt.Errorf("failed to read from socket: %w", err)
		}
		if oobn > 0 {
			if err := c.readFds(oob[:oobn]); err != nil {
				return 0, err
			}
		}
		if n == 0 {
			return 0, ErrClosed
		}
		c.in = append(c.in, buf[:n]...)
		return n, nil
	}
}

func (c *Conn) readFds(oob []byte) error {
	cmsgs, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return fmt.Errorf("failed to parse control message: %w", err)
	}
	for i := range cmsgs {
		fds, err := unix.ParseUnixRights(&cmsgs[i])
		if err != nil {
			if errors.Is(err, unix.EINVAL) {
				continue
			}
			return fmt.Errorf("failed to parse unix rights: %w", err)
		}
		c.fds = append(c.fds, fds...)
	}
	return nil
}

// Next pops one complete message from the read buffer.
func (c *Conn) Next() (*Message, error) {
	if len(c.in) < headerSize {
		return nil, nil
	}
	sender := binary.LittleEndian.Uint32(c.in[0:4])
	word := binary.LittleEndian.Uint32(c.in[4:8])
	size := int(word >> 16)
	if size < headerSize {
		return nil, ErrShortMessage
	}
	if len(c.in) < size {
		return nil, nil
	}

	payload := make([]byte, size-headerSize)
	copy(payload, c.in[headerSize:size])
	c.in = c.in[size:]

	return &Message{
		Sender: sender,
		Opcode: uint16(word & 0xffff),
		data:   payload,
		conn:   c,
	}, nil
}

func (c *Conn) popFd() (int, bool) {
	if len(c.fds) == 0 {
		return -1, false
	}
	fd := c.fds[0]
	c.fds = c.fds[1:]
	return fd, true
}
