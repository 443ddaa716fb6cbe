// Package shm provides shared memory files and wl_shm backed buffers.
package shm

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Create returns an anonymous, sealable memory file of the given size.
func Create(name string, size int64) (*os.File, error) {
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC|unix.MFD_ALLOW_SEALING)
	if err != nil {
		return nil, fmt.Errorf("failed to create memfd: %w", err)
	}
	file := os.NewFile(uintptr(fd), name)
	if size > 0 {
		if err := file.Truncate(size); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("failed to size memfd: %w", err)
		}
	}
	return file, nil
}

// Mmap is a mapped region.
type Mmap []byte

// MapShared maps size bytes of file.
func MapShared(file *os.File, size int, prot int) (Mmap, error) {
	return MapFd(int(file.Fd()), size, prot)
}

// MapFd maps size bytes of a raw descriptor with MAP_SHARED for writable
// mappings and MAP_PRIVATE otherwise.
func MapFd(fd int, size int, prot int) (Mmap, error) {
	flags := unix.MAP_PRIVATE
	if prot&unix.PROT_WRITE != 0 {
		flags = unix.MAP_SHARED
	}
	m, err := unix.Mmap(fd, 0, size, prot, flags)
	if err != nil {
		return nil, fmt.Errorf("failed to mmap %d bytes: %w", size, err)
	}
	return Mmap(m), nil
}

// Unmap releases the mapping.
func (m Mmap) Unmap() error {
	if m == nil {
		return nil
	}
	return unix.Munmap(m)
}

// WriteSealed creates a read-only memory file holding data plus a NUL
// terminator, as keymaps are shared.
func WriteSealed(name string, data []byte) (*os.File, uint32, error) {
	size := len(data) + 1
	file, err := Create(name, int64(size))
	if err != nil {
		return nil, 0, err
	}
	if _, err := file.WriteAt(append(data, 0), 0); err != nil {
		_ = file.Close()
		return nil, 0, fmt.Errorf("failed to write memfd: %w", err)
	}
	seals := unix.F_SEAL_SHRINK | unix.F_SEAL_GROW | unix.F_SEAL_WRITE | unix.F_SEAL_SEAL
	if _, err := unix.FcntlInt(file.Fd(), unix.F_ADD_SEALS, seals); err != nil {
		_ = file.Close()
		return nil, 0, fmt.Errorf("failed to seal memfd: %w", err)
	}
	return file, uint32(size), nil
}
