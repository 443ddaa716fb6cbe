// Package keymap turns wl_keyboard events into logical keys. Symbols come
// from the key definitions of the compositor keymap; keymaps without them
// fall back to a US table remapped for the detected layout.
package keymap

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bnema/waylayer/internal/logger"
	"github.com/bnema/waylayer/internal/shm"
	"golang.org/x/sys/unix"
)

// Modifiers is a bit set of active modifiers.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModLogo
	ModCapsLock
)

// Real modifier masks in the default xkb modifier map.
const (
	xkbShift   = 1 << 0
	xkbLock    = 1 << 1
	xkbControl = 1 << 2
	xkbMod1    = 1 << 3
	xkbMod4    = 1 << 6
)

// Has reports whether every bit of m2 is set in m.
func (m Modifiers) Has(m2 Modifiers) bool {
	return m&m2 == m2
}

// Empty reports whether no modifier is active.
func (m Modifiers) Empty() bool {
	return m == 0
}

func (m Modifiers) String() string {
	var parts []string
	for _, p := range []struct {
		bit  Modifiers
		name string
	}{
		{ModShift, "shift"},
		{ModCtrl, "ctrl"},
		{ModAlt, "alt"},
		{ModLogo, "logo"},
		{ModCapsLock, "caps"},
	} {
		if m.Has(p.bit) {
			parts = append(parts, p.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// FromMasks builds Modifiers from wl_keyboard.modifiers masks.
func FromMasks(depressed, latched, locked uint32) Modifiers {
	active := depressed | latched
	var m Modifiers
	if active&xkbShift != 0 {
		m |= ModShift
	}
	if active&xkbControl != 0 {
		m |= ModCtrl
	}
	if active&xkbMod1 != 0 {
		m |= ModAlt
	}
	if active&xkbMod4 != 0 {
		m |= ModLogo
	}
	if locked&xkbLock != 0 {
		m |= ModCapsLock
	}
	return m
}

// Key is a translated key event.
type Key struct {
	// Code is the evdev code as received.
	Code uint32
	// Name is the logical key name: a named key such as "Escape" or the
	// unshifted symbol for printable keys.
	Name string
	// Text is what the key types with the current modifiers. Empty for
	// named keys and for chords with ctrl or logo held.
	Text string
}

// Translator tracks keymap layout and modifier state.
type Translator struct {
	layout    string
	keymap    string
	symbols   map[uint32]symbol
	modifiers Modifiers
}

// NewTranslator returns a translator for the US layout.
func NewTranslator() *Translator {
	return &Translator{layout: "us"}
}

// Layout returns the detected layout name.
func (t *Translator) Layout() string {
	return t.layout
}

// Modifiers returns the current modifier state.
func (t *Translator) Modifiers() Modifiers {
	return t.modifiers
}

// LoadFd maps a wl_keyboard keymap fd read-only and loads it. The fd is
// always closed.
func (t *Translator) LoadFd(fd int, size uint32) error {
	defer unix.Close(fd)
	if size == 0 {
		return fmt.Errorf("empty keymap")
	}
	m, err := shm.MapFd(fd, int(size), unix.PROT_READ)
	if err != nil {
		return fmt.Errorf("failed to map keymap: %w", err)
	}
	defer func() { _ = m.Unmap() }()

	text := m
	if i := bytes.IndexByte(text, 0); i >= 0 {
		text = text[:i]
	}
	t.Load(string(text))
	return nil
}

// Load parses keymap text.
func (t *Translator) Load(keymap string) {
	t.keymap = keymap
	t.layout = Layout(keymap)
	t.symbols = parseKeymap(keymap)
	if _, ok := layoutMappings[t.layout]; t.symbols == nil && !ok && t.layout != "us" {
		logger.Debugf("No key definitions or mapping for layout %s, using us symbols", t.layout)
	}
	logger.Debug("Keymap loaded", "layout", t.layout, "keys", len(t.symbols), "bytes", len(keymap))
}

// UpdateModifiers applies a wl_keyboard.modifiers event and returns the new
// state.
func (t *Translator) UpdateModifiers(depressed, latched, locked uint32) Modifiers {
	t.modifiers = FromMasks(depressed, latched, locked)
	return t.modifiers
}

// Reset clears modifier state, as on keyboard leave.
func (t *Translator) Reset() {
	t.modifiers = 0
}

// Translate resolves an evdev code with the current modifiers.
func (t *Translator) Translate(code uint32) Key {
	key := Key{Code: code}
	if name, ok := named[code]; ok {
		key.Name = name
		return key
	}
	sym, ok := t.lookup(code)
	if !ok {
		key.Name = fmt.Sprintf("Unidentified(%d)", code)
		return key
	}
	key.Name = sym.lower
	if key.Name == "" {
		key.Name = sym.keysym
		return key
	}

	shifted := t.modifiers.Has(ModShift)
	if sym.alphabetic() && t.modifiers.Has(ModCapsLock) {
		shifted = !shifted
	}
	if t.modifiers.Has(ModCtrl) || t.modifiers.Has(ModLogo) {
		return key
	}
	if shifted {
		key.Text = sym.upper
	} else {
		key.Text = sym.lower
	}
	return key
}

// IsRepeatKey reports whether holding code should auto-repeat.
func IsRepeatKey(code uint32) bool {
	return !nonRepeating[code]
}

func (t *Translator) lookup(code uint32) (symbol, bool) {
	if t.symbols != nil {
		sym, ok := t.symbols[code]
		return sym, ok
	}
	sym, ok := printable[remap(t.layout, code)]
	return sym, ok
}

// alphabetic reports whether caps lock applies: the shifted level is the
// upper case of the plain one.
func (s symbol) alphabetic() bool {
	return s.lower != s.upper && strings.ToUpper(s.lower) == s.upper
}
