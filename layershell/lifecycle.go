package layershell

import (
	"fmt"

	"github.com/bnema/waylayer/internal/protocols"
	"github.com/bnema/waylayer/internal/wl"
)

// register adds u and wires the per-surface objects every kind shares.
func (st *WindowState) register(u *Unit, binding Binding) {
	u.binding = binding
	st.units = append(st.units, u)
	u.surface.SetEnterHandler(func(ev wl.SurfaceEnterEvent) {
		if o := st.outputByWl(ev.Output); o != nil {
			u.enteredOn = o
		}
	})
	if st.fractionalScaleManager != nil {
		fs, err := st.fractionalScaleManager.GetFractionalScale(u.surface)
		if err != nil {
			st.log.Warn("failed to get fractional scale", "unit", u.id, "error", err)
		} else {
			u.fractional = fs
			fs.SetPreferredScaleHandler(func(scale uint32) { st.onPreferredScale(u, scale) })
		}
	}
	if st.viewporter != nil {
		vp, err := st.viewporter.GetViewport(u.surface)
		if err != nil {
			st.log.Warn("failed to get viewport", "unit", u.id, "error", err)
		} else {
			u.viewport = vp
		}
	}
}

func (st *WindowState) onPreferredScale(u *Unit, scale uint32) {
	if scale == 0 || scale == u.scale {
		return
	}
	u.scale = scale
	u.RequestRefresh(RefreshNextFrame)
	st.push(u.id, PreferredScale{Scale: scale, ScaleFloat: u.ScaleFloat()})
}

// configured marks the first configure of a unit and schedules a redraw.
func (st *WindowState) configured(u *Unit, width, height uint32) {
	if width > 0 {
		u.width = width
	}
	if height > 0 {
		u.height = height
	}
	u.created = true
	u.RequestRefresh(RefreshNextFrame)
}

func (st *WindowState) setEventsTransparent(s *wl.Surface) {
	region, err := st.compositor.CreateRegion()
	if err != nil {
		st.log.Warn("failed to create input region", "error", err)
		return
	}
	_ = s.SetInputRegion(region)
	_ = region.Destroy()
}

// checkID rejects an identity that already names a live unit.
func (st *WindowState) checkID(id ID) error {
	if id == NoID {
		return nil
	}
	if _, ok := st.UnitByID(id); ok {
		return fmt.Errorf("surface id %s is already in use", id)
	}
	return nil
}

// createLayer creates a layer surface on output, nil letting the
// compositor choose.
func (st *WindowState) createLayer(id ID, ls LayerSettings, output *Output, binding Binding) (*Unit, error) {
	if err := st.checkID(id); err != nil {
		return nil, err
	}
	surface, err := st.compositor.CreateSurface()
	if err != nil {
		return nil, fmt.Errorf("failed to create surface: %w", err)
	}
	var wlOut *wl.Output
	if output != nil {
		wlOut = output.wl
	}
	namespace := ls.Namespace
	if namespace == "" {
		namespace = st.settings.Namespace
	}
	layer, err := st.layerShell.GetLayerSurface(surface, wlOut, uint32(ls.Layer), namespace)
	if err != nil {
		_ = surface.Destroy()
		return nil, fmt.Errorf("failed to create layer surface: %w", err)
	}
	_ = layer.SetAnchor(uint32(ls.Anchor))
	_ = layer.SetSize(ls.Width, ls.Height)
	_ = layer.SetExclusiveZone(ls.ExclusiveZone)
	_ = layer.SetMargin(ls.Margin.Top, ls.Margin.Right, ls.Margin.Bottom, ls.Margin.Left)
	_ = layer.SetKeyboardInteractivity(uint32(ls.KeyboardInteractivity))
	if ls.EventsTransparent {
		st.setEventsTransparent(surface)
	}

	u := newUnit(id, surface, &LayerShell{surface: layer}, ls.Width, ls.Height, st)
	u.output = output
	layer.SetConfigureHandler(func(ev protocols.LayerSurfaceConfigureEvent) {
		_ = layer.AckConfigure(ev.Serial)
		st.configured(u, ev.Width, ev.Height)
	})
	layer.SetClosedHandler(u.RequestClose)

	st.register(u, binding)
	st.attachExtensions(u, ls.Blur, ls.Shadow, ls.CornerRadius)
	_ = surface.Commit()
	st.log.Debug("created layer surface", "unit", u.id, "layer", ls.Layer, "output", outputName(output))
	return u, nil
}

func outputName(o *Output) string {
	if o == nil {
		return "any"
	}
	return o.info.Name
}

// startupLayer is the layer configuration of the builder settings.
func (st *WindowState) startupLayer() LayerSettings {
	s := st.settings
	return LayerSettings{
		Namespace:             s.Namespace,
		Layer:                 s.Layer,
		Anchor:                s.Anchor,
		Width:                 s.Width,
		Height:                s.Height,
		ExclusiveZone:         s.ExclusiveZone,
		Margin:                s.Margin,
		KeyboardInteractivity: s.KeyboardInteractivity,
		EventsTransparent:     s.EventsTransparent,
		Blur:                  s.Blur,
		Shadow:                s.Shadow,
		CornerRadius:          s.CornerRadius,
	}
}

// createStartupLayer adds the auto-hide setup the builder asked for.
func (st *WindowState) createStartupLayer(output *Output) (*Unit, error) {
	u, err := st.createLayer(NoID, st.startupLayer(), output, Binding{})
	if err != nil {
		return nil, err
	}
	if ah := st.settings.AutoHide; ah != nil {
		st.SetAutoHide(u.id, ah.Edge, ah.Zone, ah.Mode)
	}
	return u, nil
}

// createBackground makes the shell-less surface of StartBackground.
func (st *WindowState) createBackground() error {
	surface, err := st.compositor.CreateSurface()
	if err != nil {
		return fmt.Errorf("failed to create surface: %w", err)
	}
	if st.settings.EventsTransparent {
		st.setEventsTransparent(surface)
	}
	st.background = surface
	return surface.Commit()
}

// resolveLayerOutput picks the output of a runtime layer surface.
func (st *WindowState) resolveLayerOutput(opt OutputOption) *Output {
	switch {
	case opt.output != nil:
		return opt.output
	case opt.last:
		return st.lastOutput
	}
	if u, ok := st.CurrentUnit(); ok {
		if u.output != nil {
			return u.output
		}
		return u.enteredOn
	}
	return nil
}

// createPopup attaches a popup to a layer or toplevel parent.
func (st *WindowState) createPopup(id ID, ps PopUpSettings, binding Binding) (*Unit, error) {
	if err := st.checkID(id); err != nil {
		return nil, err
	}
	parent, ok := st.UnitByID(ps.Parent)
	if !ok {
		return nil, fmt.Errorf("popup parent %s does not exist", ps.Parent)
	}
	var parentXdg *protocols.XdgSurface
	switch sh := parent.shell.(type) {
	case *LayerShell:
	case *TopLevel:
		parentXdg = sh.xdg
	default:
		return nil, fmt.Errorf("popup parent %s is a %s", ps.Parent, parent.shell.Kind())
	}

	surface, err := st.compositor.CreateSurface()
	if err != nil {
		return nil, fmt.Errorf("failed to create surface: %w", err)
	}
	xdg, err := st.wmBase.GetXdgSurface(surface)
	if err != nil {
		_ = surface.Destroy()
		return nil, fmt.Errorf("failed to create xdg surface: %w", err)
	}
	pos, err := st.wmBase.CreatePositioner()
	if err != nil {
		_ = xdg.Destroy()
		_ = surface.Destroy()
		return nil, fmt.Errorf("failed to create positioner: %w", err)
	}
	_ = pos.SetSize(int32(ps.Width), int32(ps.Height))
	_ = pos.SetAnchorRect(ps.X, ps.Y, 1, 1)
	_ = pos.SetAnchor(protocols.PositionerAnchorTopLeft)
	// gravity shares the anchor numbering
	_ = pos.SetGravity(protocols.PositionerAnchorBottomRight)
	popup, err := xdg.GetPopup(parentXdg, pos)
	_ = pos.Destroy()
	if err != nil {
		_ = xdg.Destroy()
		_ = surface.Destroy()
		return nil, fmt.Errorf("failed to create popup: %w", err)
	}
	if ls, ok := parent.shell.(*LayerShell); ok {
		_ = ls.surface.GetPopup(popup)
	}

	u := newUnit(id, surface, &PopUp{popup: popup, xdg: xdg}, ps.Width, ps.Height, st)
	u.output = parent.output
	xdg.SetConfigureHandler(func(serial uint32) {
		_ = xdg.AckConfigure(serial)
		st.configured(u, 0, 0)
	})
	popup.SetConfigureHandler(func(ev protocols.XdgPopupConfigureEvent) {
		if ev.Width > 0 && ev.Height > 0 {
			u.width, u.height = uint32(ev.Width), uint32(ev.Height)
		}
	})
	popup.SetPopupDoneHandler(u.RequestClose)

	st.register(u, binding)
	st.attachExtensions(u, false, false, nil)
	_ = surface.Commit()
	st.log.Debug("created popup", "unit", u.id, "parent", parent.id)
	return u, nil
}

// createXdgWindow creates a regular window with server side decorations
// when the compositor offers them.
func (st *WindowState) createXdgWindow(id ID, xs XdgWindowSettings, binding Binding) (*Unit, error) {
	if err := st.checkID(id); err != nil {
		return nil, err
	}
	width, height := xs.Width, xs.Height
	if width == 0 {
		width = defaultWindowSize
	}
	if height == 0 {
		height = defaultWindowSize
	}
	surface, err := st.compositor.CreateSurface()
	if err != nil {
		return nil, fmt.Errorf("failed to create surface: %w", err)
	}
	xdg, err := st.wmBase.GetXdgSurface(surface)
	if err != nil {
		_ = surface.Destroy()
		return nil, fmt.Errorf("failed to create xdg surface: %w", err)
	}
	toplevel, err := xdg.GetToplevel()
	if err != nil {
		_ = xdg.Destroy()
		_ = surface.Destroy()
		return nil, fmt.Errorf("failed to create toplevel: %w", err)
	}
	if xs.Title != "" {
		_ = toplevel.SetTitle(xs.Title)
	}
	if xs.AppID != "" {
		_ = toplevel.SetAppID(xs.AppID)
	}
	if xs.Maximized {
		_ = toplevel.SetMaximized()
	}
	shell := &TopLevel{toplevel: toplevel, xdg: xdg}
	if st.decorationManager != nil {
		deco, err := st.decorationManager.GetToplevelDecoration(toplevel)
		if err != nil {
			st.log.Warn("failed to get toplevel decoration", "error", err)
		} else {
			shell.decoration = deco
			_ = deco.SetMode(protocols.DecorationModeServerSide)
		}
	}

	u := newUnit(id, surface, shell, width, height, st)
	xdg.SetConfigureHandler(func(serial uint32) {
		_ = xdg.AckConfigure(serial)
		st.configured(u, 0, 0)
	})
	toplevel.SetConfigureHandler(func(ev protocols.XdgToplevelConfigureEvent) {
		if ev.Width > 0 && ev.Height > 0 {
			u.width, u.height = uint32(ev.Width), uint32(ev.Height)
			u.RequestRefresh(RefreshNextFrame)
		}
	})
	toplevel.SetCloseHandler(u.RequestClose)

	st.register(u, binding)
	st.attachExtensions(u, false, false, nil)
	_ = surface.Commit()
	st.log.Debug("created xdg window", "unit", u.id, "title", xs.Title)
	return u, nil
}

const defaultWindowSize = 300

// createInputPanel shows an input method panel. Keyboard panels need an
// output; without one the panel is skipped.
func (st *WindowState) createInputPanel(id ID, ps InputPanelSettings, binding Binding) (*Unit, error) {
	if err := st.checkID(id); err != nil {
		return nil, err
	}
	if st.inputPanel == nil {
		return nil, fmt.Errorf("%s not available", protocols.InputPanelInterface)
	}
	output := st.inputPanelOutput(ps.UseLastOutput)
	if ps.Keyboard && output == nil {
		st.log.Warn("no output for input panel, skipping")
		return nil, nil
	}
	surface, err := st.compositor.CreateSurface()
	if err != nil {
		return nil, fmt.Errorf("failed to create surface: %w", err)
	}
	ips, err := st.inputPanel.GetInputPanelSurface(surface)
	if err != nil {
		_ = surface.Destroy()
		return nil, fmt.Errorf("failed to create input panel surface: %w", err)
	}
	if ps.Keyboard {
		_ = ips.SetToplevel(output.wl, protocols.InputPanelPositionCenterBottom)
	} else {
		_ = ips.SetOverlayPanel()
	}

	u := newUnit(id, surface, &InputPanel{surface: ips}, ps.Width, ps.Height, st)
	u.output = output
	st.register(u, binding)
	st.attachExtensions(u, false, false, nil)
	_ = surface.Commit()
	// input panels have no configure handshake
	st.configured(u, 0, 0)
	return u, nil
}

func (st *WindowState) inputPanelOutput(useLast bool) *Output {
	if u, ok := st.CurrentUnit(); ok && !useLast {
		if u.output != nil {
			return u.output
		}
		if u.enteredOn != nil {
			return u.enteredOn
		}
	}
	if st.lastOutput != nil {
		return st.lastOutput
	}
	if len(st.outputs) > 0 {
		return st.outputs[0]
	}
	return nil
}

// removeUnit destroys u and every controller keyed by its id.
func (st *WindowState) removeUnit(u *Unit) {
	u.destroy()
	st.detachExtensions(u.id)
	for i, cur := range st.units {
		if cur == u {
			st.units = append(st.units[:i], st.units[i+1:]...)
			break
		}
	}
	if st.currentSurface == u.surface {
		st.currentSurface = nil
	}
	for slot, id := range st.active {
		if id == u.id {
			delete(st.active, slot)
			delete(st.fingers, slot)
		}
	}
}
