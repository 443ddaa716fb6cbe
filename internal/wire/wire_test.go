package wire

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func socketPair(t *testing.T) (*Conn, *Conn) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	require.NoError(t, err)
	a, b := NewConn(fds[0]), NewConn(fds[1])
	t.Cleanup(func() {
		_ = a.Close()
		_ = b.Close()
	})
	return a, b
}

func readOne(t *testing.T, c *Conn) *Message {
	t.Helper()
	for {
		msg, err := c.Next()
		require.NoError(t, err)
		if msg != nil {
			return msg
		}
		_, err = c.Fill(true)
		require.NoError(t, err)
	}
}

func TestRoundTripArguments(t *testing.T) {
	client, server := socketPair(t)

	b := NewBuilder()
	b.Uint32(42)
	b.Int32(-7)
	b.Fixed(FixedFromFloat(1.5))
	b.String("zwlr_layer_shell_v1")
	b.Array([]byte{1, 2, 3})
	b.String("")
	require.NoError(t, client.WriteMessage(3, 2, b))

	msg := readOne(t, server)
	assert.Equal(t, uint32(3), msg.Sender)
	assert.Equal(t, uint16(2), msg.Opcode)
	assert.Equal(t, uint32(42), msg.Uint32())
	assert.Equal(t, int32(-7), msg.Int32())
	assert.InDelta(t, 1.5, msg.Fixed().Float(), 0.001)
	assert.Equal(t, "zwlr_layer_shell_v1", msg.String())
	assert.Equal(t, []byte{1, 2, 3}, msg.Array())
	assert.Equal(t, "", msg.String())
	assert.NoError(t, msg.Err())
}

func TestFdPassing(t *testing.T) {
	client, server := socketPair(t)

	f, err := os.CreateTemp(t.TempDir(), "keymap")
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteString("xkb")
	require.NoError(t, err)

	b := NewBuilder()
	b.Uint32(1)
	b.Fd(int(f.Fd()))
	b.Uint32(3)
	require.NoError(t, client.WriteMessage(9, 0, b))

	msg := readOne(t, server)
	assert.Equal(t, uint32(1), msg.Uint32())
	fd := msg.Fd()
	require.GreaterOrEqual(t, fd, 0)
	defer unix.Close(fd)
	assert.Equal(t, uint32(3), msg.Uint32())

	buf := make([]byte, 3)
	n, err := unix.Pread(fd, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "xkb", string(buf[:n]))
}

func TestPartialMessagesAreBuffered(t *testing.T) {
	client, server := socketPair(t)

	b := NewBuilder()
	b.String("hello")
	data := b.encode(5, 1)

	_, err := unix.Write(client.Fd(), data[:6])
	require.NoError(t, err)
	_, err = server.Fill(true)
	require.NoError(t, err)
	msg, err := server.Next()
	require.NoError(t, err)
	assert.Nil(t, msg)

	_, err = unix.Write(client.Fd(), data[6:])
	require.NoError(t, err)
	msg = readOne(t, server)
	assert.Equal(t, "hello", msg.String())
}

func TestNonBlockingFillWithoutData(t *testing.T) {
	_, server := socketPair(t)
	n, err := server.Fill(false)
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestTruncatedArgument(t *testing.T) {
	msg := NewMessage(1, 0, []byte{1, 0})
	assert.Zero(t, msg.Uint32())
	assert.Error(t, msg.Err())
	assert.Equal(t, -1, msg.Fd())
}

func TestFixed(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{10.75, 10},
		{-3.5, -4},
	}
	for _, tt := range tests {
		f := FixedFromFloat(tt.in)
		assert.InDelta(t, tt.in, f.Float(), 1.0/256)
		assert.Equal(t, tt.want, f.Int())
	}
	assert.Equal(t, 3.0, FixedFromInt(3).Float())
}

func TestUint32Array(t *testing.T) {
	b := NewBuilder()
	b.Uint32(2)
	b.Uint32(3)
	assert.Equal(t, []uint32{2, 3}, Uint32Array(b.Payload()))
}

func TestSocketPath(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	t.Setenv("WAYLAND_DISPLAY", "wayland-1")
	assert.Equal(t, "/run/user/1000/wayland-1", SocketPath())

	t.Setenv("WAYLAND_DISPLAY", "/tmp/custom")
	assert.Equal(t, "/tmp/custom", SocketPath())
}
