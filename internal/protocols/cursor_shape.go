package protocols

import (
	"github.com/bnema/waylayer/internal/wl"
)

const CursorShapeManagerInterface = "wp_cursor_shape_manager_v1"

// cursorShapes maps CSS cursor names to wp_cursor_shape_device_v1 shapes.
var cursorShapes = map[string]uint32{
	"default":       1,
	"context-menu":  2,
	"help":          3,
	"pointer":       4,
	"progress":      5,
	"wait":          6,
	"cell":          7,
	"crosshair":     8,
	"text":          9,
	"vertical-text": 10,
	"alias":         11,
	"copy":          12,
	"move":          13,
	"no-drop":       14,
	"not-allowed":   15,
	"grab":          16,
	"grabbing":      17,
	"e-resize":      18,
	"n-resize":      19,
	"ne-resize":     20,
	"nw-resize":     21,
	"s-resize":      22,
	"se-resize":     23,
	"sw-resize":     24,
	"w-resize":      25,
	"ew-resize":     26,
	"ns-resize":     27,
	"nesw-resize":   28,
	"nwse-resize":   29,
	"col-resize":    30,
	"row-resize":    31,
	"all-scroll":    32,
	"zoom-in":       33,
	"zoom-out":      34,
}

// CursorShape resolves a CSS cursor name. Unknown names fall back to default.
func CursorShape(name string) (uint32, bool) {
	shape, ok := cursorShapes[name]
	if !ok {
		return cursorShapes["default"], false
	}
	return shape, true
}

// CursorShapeManager is wp_cursor_shape_manager_v1.
type CursorShapeManager struct {
	wl.BaseProxy
}

func (m *CursorShapeManager) Destroy() error {
	err := m.Context().SendRequest(m, 0)
	m.Context().Unregister(m)
	return err
}

func (m *CursorShapeManager) GetPointer(pointer *wl.Pointer) (*CursorShapeDevice, error) {
	d := &CursorShapeDevice{}
	m.Context().Register(d)
	if err := m.Context().SendRequest(m, 1, d, pointer); err != nil {
		m.Context().Unregister(d)
		return nil, err
	}
	return d, nil
}

// CursorShapeDevice is wp_cursor_shape_device_v1.
type CursorShapeDevice struct {
	wl.BaseProxy
}

func (d *CursorShapeDevice) Destroy() error {
	err := d.Context().SendRequest(d, 0)
	d.Context().Unregister(d)
	return err
}

func (d *CursorShapeDevice) SetShape(serial, shape uint32) error {
	return d.Context().SendRequest(d, 1, serial, shape)
}
