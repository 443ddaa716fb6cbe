package protocols

import (
	"github.com/bnema/waylayer/internal/wire"
	"github.com/bnema/waylayer/internal/wl"
)

const XdgOutputManagerInterface = "zxdg_output_manager_v1"

// XdgOutputManager is zxdg_output_manager_v1.
type XdgOutputManager struct {
	wl.BaseProxy
}

func (m *XdgOutputManager) Destroy() error {
	err := m.Context().SendRequest(m, 0)
	m.Context().Unregister(m)
	return err
}

func (m *XdgOutputManager) GetXdgOutput(output *wl.Output) (*XdgOutput, error) {
	o := &XdgOutput{}
	m.Context().Register(o)
	if err := m.Context().SendRequest(m, 1, o, output); err != nil {
		m.Context().Unregister(o)
		return nil, err
	}
	return o, nil
}

// XdgOutputHandlers groups the zxdg_output_v1 callbacks.
type XdgOutputHandlers struct {
	LogicalPosition func(x, y int32)
	LogicalSize     func(width, height int32)
	Done            func()
	Name            func(name string)
	Description     func(description string)
}

// XdgOutput is zxdg_output_v1.
type XdgOutput struct {
	wl.BaseProxy
	handlers XdgOutputHandlers
}

func (o *XdgOutput) SetHandlers(h XdgOutputHandlers) { o.handlers = h }

func (o *XdgOutput) Destroy() error {
	err := o.Context().SendRequest(o, 0)
	o.Context().Unregister(o)
	return err
}

func (o *XdgOutput) Dispatch(msg *wire.Message) {
	h := o.handlers
	switch msg.Opcode {
	case 0:
		x, y := msg.Int32(), msg.Int32()
		if h.LogicalPosition != nil {
			h.LogicalPosition(x, y)
		}
	case 1:
		w, ht := msg.Int32(), msg.Int32()
		if h.LogicalSize != nil {
			h.LogicalSize(w, ht)
		}
	case 2:
		if h.Done != nil {
			h.Done()
		}
	case 3:
		name := msg.String()
		if h.Name != nil {
			h.Name(name)
		}
	case 4:
		desc := msg.String()
		if h.Description != nil {
			h.Description(desc)
		}
	}
}
