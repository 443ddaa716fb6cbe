package layershell

import (
	"github.com/bnema/waylayer/internal/protocols"
	"github.com/bnema/waylayer/internal/wl"
)

const outputInterface = "wl_output"

// OutputInfo merges wl_output and xdg-output data.
type OutputInfo struct {
	Name        string
	Description string
	// Logical position and size from xdg-output.
	X, Y          int32
	LogicalWidth  int32
	LogicalHeight int32

	Make    string
	Model   string
	Width   int32
	Height  int32
	Refresh int32
	Scale   int32
}

// Output is one monitor announced by the compositor.
type Output struct {
	global  uint32
	version uint32
	wl      *wl.Output
	xdg     *protocols.XdgOutput
	info    OutputInfo
}

// Info returns what is known about the output so far.
func (o *Output) Info() OutputInfo { return o.info }

// Name is the xdg-output name, falling back to the wl_output name.
func (o *Output) Name() string { return o.info.Name }

// WlOutput returns the protocol object.
func (o *Output) WlOutput() *wl.Output { return o.wl }

// addOutput binds a wl_output global. After startup the new output is
// announced with NewDisplay.
func (st *WindowState) addOutput(g Global) *Output {
	o := &Output{global: g.Name, version: min(g.Version, 4), wl: &wl.Output{}, info: OutputInfo{Scale: 1}}
	if err := st.registry.Bind(g.Name, outputInterface, o.version, o.wl); err != nil {
		st.log.Warn("failed to bind output", "name", g.Name, "error", err)
		return nil
	}
	o.wl.SetHandlers(wl.OutputHandlers{
		Geometry: func(ev wl.OutputGeometryEvent) {
			o.info.Make, o.info.Model = ev.Make, ev.Model
		},
		Mode: func(ev wl.OutputModeEvent) {
			// bit 0x1 marks the current mode
			if ev.Flags&0x1 != 0 {
				o.info.Width, o.info.Height, o.info.Refresh = ev.Width, ev.Height, ev.Refresh
			}
		},
		Scale: func(ev wl.OutputScaleEvent) { o.info.Scale = ev.Factor },
		Name: func(ev wl.OutputNameEvent) {
			if o.info.Name == "" {
				o.info.Name = ev.Name
			}
		},
		Description: func(ev wl.OutputDescriptionEvent) {
			if o.info.Description == "" {
				o.info.Description = ev.Description
			}
		},
	})
	st.outputs = append(st.outputs, o)
	if st.xdgOutputManager != nil {
		st.attachXdgOutput(o)
	}
	if st.initFinished {
		st.push(NoID, NewDisplay{Output: o})
	}
	return o
}

// attachXdgOutput requests xdg-output info. Changes are reported to the
// units bound to o.
func (st *WindowState) attachXdgOutput(o *Output) {
	if o.xdg != nil {
		return
	}
	x, err := st.xdgOutputManager.GetXdgOutput(o.wl)
	if err != nil {
		st.log.Warn("failed to get xdg output", "error", err)
		return
	}
	o.xdg = x
	x.SetHandlers(protocols.XdgOutputHandlers{
		LogicalPosition: func(px, py int32) {
			o.info.X, o.info.Y = px, py
			st.notifyXdgInfo(o, XdgInfoPosition)
		},
		LogicalSize: func(w, h int32) {
			o.info.LogicalWidth, o.info.LogicalHeight = w, h
			st.notifyXdgInfo(o, XdgInfoSize)
		},
		Name: func(name string) {
			o.info.Name = name
			st.notifyXdgInfo(o, XdgInfoName)
		},
		Description: func(desc string) {
			o.info.Description = desc
			st.notifyXdgInfo(o, XdgInfoDescription)
		},
	})
}

func (st *WindowState) notifyXdgInfo(o *Output, kind XdgInfoKind) {
	for _, u := range st.units {
		if u.output == o {
			st.push(u.id, XdgInfo{Kind: kind})
		}
	}
}

// removeOutput handles global_remove. Units bound to the output are
// destroyed and reported Closed on the next tick.
func (st *WindowState) removeOutput(global uint32) bool {
	idx := -1
	for i, o := range st.outputs {
		if o.global == global {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	o := st.outputs[idx]
	st.outputs = append(st.outputs[:idx], st.outputs[idx+1:]...)

	for _, u := range st.Units() {
		if u.output == o {
			st.log.Info("output removed, closing unit", "output", o.info.Name, "unit", u.id)
			st.removeUnit(u)
			st.closed = append(st.closed, u.id)
		}
	}
	if st.lastOutput == o {
		st.lastOutput = nil
	}
	if o.xdg != nil {
		_ = o.xdg.Destroy()
	}
	_ = o.wl.Release(o.version)
	return true
}

func (st *WindowState) outputByWl(w *wl.Output) *Output {
	for _, o := range st.outputs {
		if o.wl == w {
			return o
		}
	}
	return nil
}

// OutputByName finds an output by its xdg-output or wl_output name.
func (st *WindowState) OutputByName(name string) (*Output, bool) {
	for _, o := range st.outputs {
		if o.info.Name == name {
			return o, true
		}
	}
	return nil, false
}
