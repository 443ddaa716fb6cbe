package protocols

import (
	"github.com/bnema/waylayer/internal/wire"
	"github.com/bnema/waylayer/internal/wl"
)

const DecorationManagerInterface = "zxdg_decoration_manager_v1"

// Decoration modes.
const (
	DecorationModeClientSide uint32 = 1
	DecorationModeServerSide uint32 = 2
)

// DecorationManager is zxdg_decoration_manager_v1.
type DecorationManager struct {
	wl.BaseProxy
}

func (m *DecorationManager) Destroy() error {
	err := m.Context().SendRequest(m, 0)
	m.Context().Unregister(m)
	return err
}

func (m *DecorationManager) GetToplevelDecoration(toplevel *XdgToplevel) (*ToplevelDecoration, error) {
	d := &ToplevelDecoration{}
	m.Context().Register(d)
	if err := m.Context().SendRequest(m, 1, d, toplevel); err != nil {
		m.Context().Unregister(d)
		return nil, err
	}
	return d, nil
}

// ToplevelDecoration is zxdg_toplevel_decoration_v1.
type ToplevelDecoration struct {
	wl.BaseProxy
	configureHandler func(mode uint32)
}

func (d *ToplevelDecoration) SetConfigureHandler(f func(mode uint32)) { d.configureHandler = f }

func (d *ToplevelDecoration) Destroy() error {
	err := d.Context().SendRequest(d, 0)
	d.Context().Unregister(d)
	return err
}

func (d *ToplevelDecoration) SetMode(mode uint32) error {
	return d.Context().SendRequest(d, 1, mode)
}

func (d *ToplevelDecoration) Dispatch(msg *wire.Message) {
	if msg.Opcode == 0 && d.configureHandler != nil {
		d.configureHandler(msg.Uint32())
	}
}
