package layershell

import (
	"fmt"
	"time"

	"github.com/bnema/waylayer/internal/protocols"
	"github.com/bnema/waylayer/internal/wl"
)

const (
	compositorInterface = "wl_compositor"
	shmInterface        = "wl_shm"
)

// Builder configures and connects the engine.
type Builder struct {
	settings Settings
	display  *wl.Display
	socket   string
}

// NewBuilder starts from DefaultSettings with the given layer namespace.
func NewBuilder(namespace string) *Builder {
	s := DefaultSettings()
	if namespace != "" {
		s.Namespace = namespace
	}
	return &Builder{settings: s}
}

// WithSettings replaces every setting at once.
func (b *Builder) WithSettings(s Settings) *Builder { b.settings = s; return b }

func (b *Builder) WithLayer(l Layer) *Builder   { b.settings.Layer = l; return b }
func (b *Builder) WithAnchor(a Anchor) *Builder { b.settings.Anchor = a; return b }
func (b *Builder) WithMargin(m Margin) *Builder { b.settings.Margin = m; return b }

func (b *Builder) WithSize(width, height uint32) *Builder {
	b.settings.Width, b.settings.Height = width, height
	return b
}

func (b *Builder) WithExclusiveZone(zone int32) *Builder {
	b.settings.ExclusiveZone = zone
	return b
}

func (b *Builder) WithKeyboardInteractivity(k KeyboardInteractivity) *Builder {
	b.settings.KeyboardInteractivity = k
	return b
}

func (b *Builder) WithStartMode(m StartMode) *Builder {
	b.settings.StartMode = m
	return b
}

// WithEventsTransparent lets input pass through the startup surfaces.
func (b *Builder) WithEventsTransparent(v bool) *Builder {
	b.settings.EventsTransparent = v
	return b
}

func (b *Builder) WithBlur(v bool) *Builder   { b.settings.Blur = v; return b }
func (b *Builder) WithShadow(v bool) *Builder { b.settings.Shadow = v; return b }

// WithCornerRadius sets top-left, top-right, bottom-right and bottom-left.
func (b *Builder) WithCornerRadius(radius [4]uint32) *Builder {
	b.settings.CornerRadius = &radius
	return b
}

func (b *Builder) WithHomeOnly(v bool) *Builder        { b.settings.HomeOnly = v; return b }
func (b *Builder) WithHideOnHome(v bool) *Builder      { b.settings.HideOnHome = v; return b }
func (b *Builder) WithVoiceMode(v bool) *Builder       { b.settings.VoiceMode = v; return b }
func (b *Builder) WithForeignToplevel(v bool) *Builder { b.settings.ForeignToplevel = v; return b }

func (b *Builder) WithAutoHide(ah AutoHide) *Builder {
	b.settings.AutoHide = &ah
	return b
}

// WithUseDisplayHandle means the caller renders through its own stack. The
// engine then never emits RequestBuffer.
func (b *Builder) WithUseDisplayHandle(v bool) *Builder {
	b.settings.UseDisplayHandle = v
	return b
}

func (b *Builder) WithImeAllowed(v bool) *Builder { b.settings.ImeAllowed = v; return b }

func (b *Builder) WithTickInterval(d time.Duration) *Builder {
	b.settings.TickInterval = d
	return b
}

// WithConnection reuses an established connection.
func (b *Builder) WithConnection(d *wl.Display) *Builder { b.display = d; return b }

// WithSocket connects to an explicit socket path instead of the environment.
func (b *Builder) WithSocket(path string) *Builder { b.socket = path; return b }

// Build connects, binds the globals and creates the startup surfaces.
func (b *Builder) Build() (*WindowState, error) {
	display := b.display
	if display == nil {
		d, err := wl.Connect(b.socket)
		if err != nil {
			return nil, &Error{Kind: KindConnect, Err: err}
		}
		display = d
	}
	st, err := newWindowState(display.Context(), b.settings)
	if err != nil {
		_ = display.Context().Close()
		return nil, err
	}
	if err := st.setup(); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func (st *WindowState) setup() error {
	registry, err := st.ctx.Display().GetRegistry()
	if err != nil {
		return &Error{Kind: KindGlobal, Err: err}
	}
	st.registry = registry
	registry.SetGlobalHandler(func(ev wl.RegistryGlobalEvent) {
		st.onGlobal(Global{Name: ev.Name, Interface: ev.Interface, Version: ev.Version})
	})
	registry.SetGlobalRemoveHandler(func(ev wl.RegistryGlobalRemoveEvent) {
		st.onGlobalRemove(ev.Name)
	})
	if err := st.ctx.Roundtrip(); err != nil {
		return &Error{Kind: KindGlobal, Err: err}
	}

	if err := st.bindRequired(); err != nil {
		return err
	}
	st.bindOptional()
	for _, o := range st.outputs {
		st.attachXdgOutput(o)
	}
	if err := st.ctx.Roundtrip(); err != nil {
		return &Error{Kind: KindGlobal, Err: err}
	}

	if err := st.placeStartup(); err != nil {
		return err
	}
	st.initFinished = true
	return nil
}

func (st *WindowState) onGlobal(g Global) {
	st.globals = append(st.globals, g)
	if g.Interface == outputInterface {
		st.addOutput(g)
	}
}

func (st *WindowState) onGlobalRemove(name uint32) {
	for i, g := range st.globals {
		if g.Name == name {
			st.globals = append(st.globals[:i], st.globals[i+1:]...)
			break
		}
	}
	st.removeOutput(name)
}

func (st *WindowState) global(iface string) (Global, bool) {
	for _, g := range st.globals {
		if g.Interface == iface {
			return g, true
		}
	}
	return Global{}, false
}

// bind binds iface at the highest version in [minVersion, maxVersion].
func (st *WindowState) bind(iface string, minVersion, maxVersion uint32, p wl.Proxy) (uint32, error) {
	g, ok := st.global(iface)
	if !ok {
		return 0, fmt.Errorf("%s not advertised", iface)
	}
	if g.Version < minVersion {
		return 0, fmt.Errorf("%s version %d is older than %d", iface, g.Version, minVersion)
	}
	version := min(g.Version, maxVersion)
	if err := st.registry.Bind(g.Name, iface, version, p); err != nil {
		return 0, err
	}
	return version, nil
}

func (st *WindowState) bindRequired() error {
	st.compositor = &wl.Compositor{}
	st.shm = &wl.Shm{}
	seat := &wl.Seat{}
	st.wmBase = &protocols.XdgWmBase{}
	st.layerShell = &protocols.LayerShell{}
	st.xdgOutputManager = &protocols.XdgOutputManager{}

	required := []struct {
		iface    string
		min, max uint32
		proxy    wl.Proxy
	}{
		{compositorInterface, 1, 5, st.compositor},
		{shmInterface, 1, 1, st.shm},
		// capped at 5 so axis events keep their v5 shape
		{seatInterface, 1, 5, seat},
		{protocols.XdgWmBaseInterface, 2, 6, st.wmBase},
		{protocols.LayerShellInterface, 3, 4, st.layerShell},
		{protocols.XdgOutputManagerInterface, 1, 3, st.xdgOutputManager},
	}
	for _, r := range required {
		version, err := st.bind(r.iface, r.min, r.max, r.proxy)
		if err != nil {
			return newError(KindBind, "required global: %w", err)
		}
		switch r.iface {
		case seatInterface:
			st.bindSeat(seat, version)
		case protocols.LayerShellInterface:
			st.layerShell.SetVersion(version)
		}
		st.log.Debug("bound global", "interface", r.iface, "version", version)
	}
	return nil
}

// optional binds iface at version 1 and logs when it is missing.
func (st *WindowState) optional(iface string, p wl.Proxy, feature string) bool {
	if _, err := st.bind(iface, 1, 1, p); err != nil {
		st.log.Info(feature+" not available", "interface", iface, "reason", err)
		return false
	}
	return true
}

func (st *WindowState) bindOptional() {
	if m := (&protocols.CursorShapeManager{}); st.optional(protocols.CursorShapeManagerInterface, m, "cursor shapes") {
		st.cursorShapeManager = m
	}
	if m := (&protocols.Viewporter{}); st.optional(protocols.ViewporterInterface, m, "viewports") {
		st.viewporter = m
	}
	if m := (&protocols.DecorationManager{}); st.optional(protocols.DecorationManagerInterface, m, "server side decorations") {
		st.decorationManager = m
	}
	if m := (&protocols.FractionalScaleManager{}); st.optional(protocols.FractionalScaleManagerInterface, m, "fractional scaling") {
		st.fractionalScaleManager = m
	}
	if m := (&protocols.TextInputManager{}); st.optional(protocols.TextInputManagerInterface, m, "text input") {
		st.textInputManager = m
	}
	if m := (&protocols.VirtualKeyboardManager{}); st.optional(protocols.VirtualKeyboardManagerInterface, m, "virtual keyboard") {
		st.virtualKeyboardManager = m
	}
	if m := (&protocols.InputPanel{}); st.optional(protocols.InputPanelInterface, m, "input panels") {
		st.inputPanel = m
	}

	s := st.settings
	if s.Blur {
		if m := (&protocols.BlurManager{}); st.optional(protocols.BlurManagerInterface, m, "blur") {
			st.blur.Bind(m)
		}
	}
	if m := (&protocols.CornerRadiusManager{}); st.optional(protocols.CornerRadiusManagerInterface, m, "corner radius") {
		st.cornerRadius.Bind(m)
	}
	if m := (&protocols.ShadowManager{}); st.optional(protocols.ShadowManagerInterface, m, "shadows") {
		st.shadow.Bind(m)
	}
	if m := (&protocols.AutoHideManager{}); st.optional(protocols.AutoHideManagerInterface, m, "auto-hide") {
		st.autoHide.Bind(m)
	} else if s.AutoHide != nil {
		st.log.Warn("auto-hide requested but the compositor does not support it")
	}
	if m := (&protocols.SurfaceVisibilityManager{}); st.optional(protocols.SurfaceVisibilityManagerInterface, m, "surface visibility") {
		st.visibility.Bind(m)
	}
	if m := (&protocols.DismissManager{}); st.optional(protocols.DismissManagerInterface, m, "dismiss on outside click") {
		st.dismiss.Bind(m)
	}
	if s.HomeOnly || s.HideOnHome {
		m := &protocols.HomeVisibilityManager{}
		if st.optional(protocols.HomeVisibilityManagerInterface, m, "home visibility") {
			m.SetHomeStateHandler(func(isHome bool) {
				st.isHome = isHome
				st.homeVisibility.Emit(HomeStateChanged{IsHome: isHome})
			})
			st.homeVisibility.Bind(m)
		} else {
			st.log.Warn("home visibility requested but the compositor does not support it")
		}
	}
	if s.VoiceMode {
		if m := (&protocols.VoiceModeManager{}); st.optional(protocols.VoiceModeManagerInterface, m, "voice mode") {
			st.voice.Bind(m)
		} else {
			st.log.Warn("voice mode requested but the compositor does not support it")
		}
	}
	if s.ForeignToplevel {
		if m := (&protocols.ForeignToplevelManager{}); st.optional(protocols.ForeignToplevelManagerInterface, m, "foreign toplevels") {
			st.bindForeignToplevels(m)
		} else {
			st.log.Warn("foreign toplevel listing requested but the compositor does not support it")
		}
	}
}

// placeStartup creates the surfaces of the start mode.
func (st *WindowState) placeStartup() error {
	mode := st.settings.StartMode
	switch mode.kind {
	case startBackground:
		if err := st.createBackground(); err != nil {
			return &Error{Kind: KindGlobal, Err: err}
		}
		return nil
	case startAllScreens:
		for _, o := range st.outputs {
			if _, err := st.createStartupLayer(o); err != nil {
				return &Error{Kind: KindGlobal, Err: err}
			}
		}
		return nil
	}

	var output *Output
	switch mode.kind {
	case startTargetScreen:
		o, ok := st.OutputByName(mode.screen)
		if !ok {
			st.log.Warn("target screen not found, letting the compositor choose", "screen", mode.screen)
		}
		output = o
	case startTargetOutput:
		output = mode.output
	}
	if _, err := st.createStartupLayer(output); err != nil {
		return &Error{Kind: KindGlobal, Err: err}
	}
	return nil
}
