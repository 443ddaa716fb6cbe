package protocols

import (
	"fmt"
	"os"

	"github.com/bnema/waylayer/internal/shm"
	"github.com/bnema/waylayer/internal/wl"
)

// Protocol interface names for virtual keyboard
const (
	VirtualKeyboardManagerInterface = "zwp_virtual_keyboard_manager_v1"
	VirtualKeyboardInterface        = "zwp_virtual_keyboard_v1"
)

// VirtualKeyboardManager manages virtual keyboard objects
type VirtualKeyboardManager struct {
	wl.BaseProxy
}

// CreateVirtualKeyboard creates a new virtual keyboard for seat
func (m *VirtualKeyboardManager) CreateVirtualKeyboard(seat *wl.Seat) (*VirtualKeyboard, error) {
	keyboard := &VirtualKeyboard{}
	m.Context().Register(keyboard)

	// Opcode 0: create_virtual_keyboard
	const opcode = 0

	if err := m.Context().SendRequest(m, opcode, seat, keyboard); err != nil {
		m.Context().Unregister(keyboard)
		return nil, err
	}
	return keyboard, nil
}

// VirtualKeyboard represents a virtual keyboard device
type VirtualKeyboard struct {
	wl.BaseProxy
	keymapSet bool
}

// Keymap sets the keyboard mapping. The compositor rejects keys sent
// before a keymap.
func (k *VirtualKeyboard) Keymap(format uint32, fd int, size uint32) error {
	// Opcode 0: keymap
	const opcode = 0

	if fd < 0 {
		return fmt.Errorf("invalid file descriptor: %d", fd)
	}
	if err := k.Context().SendRequest(k, opcode, format, wl.Fd(fd), size); err != nil {
		return err
	}
	k.keymapSet = true
	return nil
}

// HasKeymap reports whether Keymap succeeded.
func (k *VirtualKeyboard) HasKeymap() bool {
	return k.keymapSet
}

// Key sends a key press/release event. key is a raw evdev code, without the
// xkb offset of 8.
func (k *VirtualKeyboard) Key(time, key, state uint32) error {
	// Opcode 1: key
	const opcode = 1
	return k.Context().SendRequest(k, opcode, time, key, state)
}

// Modifiers updates modifier state
func (k *VirtualKeyboard) Modifiers(modsDepressed, modsLatched, modsLocked, group uint32) error {
	// Opcode 2: modifiers
	const opcode = 2
	return k.Context().SendRequest(k, opcode, modsDepressed, modsLatched, modsLocked, group)
}

// Destroy destroys the virtual keyboard
func (k *VirtualKeyboard) Destroy() error {
	// Opcode 3: destroy
	const opcode = 3
	err := k.Context().SendRequest(k, opcode)
	k.Context().Unregister(k)
	return err
}

// DefaultKeymap is the US layout keymap uploaded to virtual keyboards.
const DefaultKeymap = `xkb_keymap {
	xkb_keycodes  { include "evdev+aliases(qwerty)"	};
	xkb_types     { include "complete"	};
	xkb_compat    { include "complete"	};
	xkb_symbols   { include "pc+us+inet(evdev)"	};
	xkb_geometry  { include "pc(pc105)"	};
};`

// CreateDefaultKeymap writes DefaultKeymap into a sealed memory file. The
// returned size includes the NUL terminator.
func CreateDefaultKeymap() (*os.File, uint32, error) {
	file, size, err := shm.WriteSealed("waylayer-keymap", []byte(DefaultKeymap))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create keymap: %w", err)
	}
	return file, size, nil
}
