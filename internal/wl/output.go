package wl

import (
	"github.com/bnema/waylayer/internal/wire"
	"golang.org/x/sys/unix"
)

// OutputHandlers groups the wl_output event callbacks.
type OutputHandlers struct {
	Geometry    func(OutputGeometryEvent)
	Mode        func(OutputModeEvent)
	Done        func()
	Scale       func(OutputScaleEvent)
	Name        func(OutputNameEvent)
	Description func(OutputDescriptionEvent)
}

type OutputGeometryEvent struct {
	X              int32
	Y              int32
	PhysicalWidth  int32
	PhysicalHeight int32
	Subpixel       int32
	Make           string
	Model          string
	Transform      int32
}

type OutputModeEvent struct {
	Flags   uint32
	Width   int32
	Height  int32
	Refresh int32
}

type OutputScaleEvent struct {
	Factor int32
}

type OutputNameEvent struct {
	Name string
}

type OutputDescriptionEvent struct {
	Description string
}

// Output is wl_output.
type Output struct {
	BaseProxy
	handlers OutputHandlers
}

func (o *Output) SetHandlers(h OutputHandlers) { o.handlers = h }

// Release destroys the output object (v3+). Older outputs are only forgotten.
func (o *Output) Release(version uint32) error {
	var err error
	if version >= 3 {
		err = o.Context().SendRequest(o, 0)
	}
	o.Context().Unregister(o)
	return err
}

func (o *Output) Dispatch(msg *wire.Message) {
	h := o.handlers
	switch msg.Opcode {
	case 0:
		ev := OutputGeometryEvent{
			X:              msg.Int32(),
			Y:              msg.Int32(),
			PhysicalWidth:  msg.Int32(),
			PhysicalHeight: msg.Int32(),
			Subpixel:       msg.Int32(),
			Make:           msg.String(),
			Model:          msg.String(),
			Transform:      msg.Int32(),
		}
		if h.Geometry != nil {
			h.Geometry(ev)
		}
	case 1:
		ev := OutputModeEvent{Flags: msg.Uint32(), Width: msg.Int32(), Height: msg.Int32(), Refresh: msg.Int32()}
		if h.Mode != nil {
			h.Mode(ev)
		}
	case 2:
		if h.Done != nil {
			h.Done()
		}
	case 3:
		ev := OutputScaleEvent{Factor: msg.Int32()}
		if h.Scale != nil {
			h.Scale(ev)
		}
	case 4:
		ev := OutputNameEvent{Name: msg.String()}
		if h.Name != nil {
			h.Name(ev)
		}
	case 5:
		ev := OutputDescriptionEvent{Description: msg.String()}
		if h.Description != nil {
			h.Description(ev)
		}
	}
}

func closeFd(fd int) {
	_ = unix.Close(fd)
}
