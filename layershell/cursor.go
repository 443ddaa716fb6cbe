package layershell

import (
	"fmt"

	"github.com/bnema/waylayer/internal/protocols"
	"github.com/bnema/waylayer/internal/wl"
)

// setCursorShape sets a named shape using the last pointer enter serial.
func (st *WindowState) setCursorShape(name string, pointer *wl.Pointer) error {
	if st.cursorShapeManager == nil {
		return fmt.Errorf("%s not available", protocols.CursorShapeManagerInterface)
	}
	shape, ok := protocols.CursorShape(name)
	if !ok {
		return fmt.Errorf("unknown cursor shape %q", name)
	}
	dev := st.cursorDevice
	if pointer != nil && pointer != st.pointer {
		d, err := st.cursorShapeManager.GetPointer(pointer)
		if err != nil {
			return fmt.Errorf("failed to get cursor shape device: %w", err)
		}
		defer func() { _ = d.Destroy() }()
		dev = d
	}
	if dev == nil {
		return fmt.Errorf("no pointer")
	}
	return dev.SetShape(st.enterSerial, shape)
}
