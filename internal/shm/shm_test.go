package shm

import (
	"encoding/binary"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestCreateAndMap(t *testing.T) {
	f, err := Create("test", 64)
	require.NoError(t, err)
	defer f.Close()

	m, err := MapShared(f, 64, unix.PROT_READ|unix.PROT_WRITE)
	require.NoError(t, err)
	m[10] = 0xab
	require.NoError(t, m.Unmap())

	buf := make([]byte, 1)
	_, err = f.ReadAt(buf, 10)
	require.NoError(t, err)
	assert.Equal(t, byte(0xab), buf[0])
}

func TestWriteSealed(t *testing.T) {
	f, size, err := WriteSealed("keymap", []byte("xkb_keymap {}"))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, uint32(len("xkb_keymap {}")+1), size)

	m, err := MapFd(int(f.Fd()), int(size), unix.PROT_READ)
	require.NoError(t, err)
	defer m.Unmap()
	assert.Equal(t, "xkb_keymap {}", string(m[:size-1]))
	assert.Zero(t, m[size-1])

	_, err = f.WriteAt([]byte("x"), 0)
	assert.Error(t, err, "sealed file must reject writes")
}

func TestBufferFill(t *testing.T) {
	f, err := Create("fill", 16)
	require.NoError(t, err)
	defer f.Close()
	m, err := MapShared(f, 16, unix.PROT_READ|unix.PROT_WRITE)
	require.NoError(t, err)

	b := &Buffer{width: 2, height: 2, mmap: m}
	b.Fill(color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff})
	for i := 0; i < 4; i++ {
		assert.Equal(t, uint32(0xff112233), binary.LittleEndian.Uint32(m[i*4:]))
	}
	assert.Equal(t, int32(8), b.Stride())
	b.Destroy()
	assert.Nil(t, b.Pixels())
}
