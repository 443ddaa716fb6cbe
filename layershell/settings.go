package layershell

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/waylayer/internal/protocols"
)

// Layer is the z-order band of a layer surface.
type Layer uint32

const (
	LayerBackground = Layer(protocols.LayerBackground)
	LayerBottom     = Layer(protocols.LayerBottom)
	LayerTop        = Layer(protocols.LayerTop)
	LayerOverlay    = Layer(protocols.LayerOverlay)
)

var layerNames = map[Layer]string{
	LayerBackground: "background",
	LayerBottom:     "bottom",
	LayerTop:        "top",
	LayerOverlay:    "overlay",
}

func (l Layer) String() string {
	if name, ok := layerNames[l]; ok {
		return name
	}
	return fmt.Sprintf("layer(%d)", uint32(l))
}

// ParseLayer accepts the lowercase layer names.
func ParseLayer(s string) (Layer, error) {
	for l, name := range layerNames {
		if strings.EqualFold(s, name) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown layer %q", s)
}

// Anchor is a set of edges a layer surface is attached to.
type Anchor uint32

const (
	AnchorTop    = Anchor(protocols.AnchorTop)
	AnchorBottom = Anchor(protocols.AnchorBottom)
	AnchorLeft   = Anchor(protocols.AnchorLeft)
	AnchorRight  = Anchor(protocols.AnchorRight)
)

var anchorNames = []struct {
	bit  Anchor
	name string
}{
	{AnchorTop, "top"},
	{AnchorBottom, "bottom"},
	{AnchorLeft, "left"},
	{AnchorRight, "right"},
}

func (a Anchor) String() string {
	var parts []string
	for _, n := range anchorNames {
		if a&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseAnchor combines edge names into an Anchor.
func ParseAnchor(edges []string) (Anchor, error) {
	var a Anchor
	for _, edge := range edges {
		found := false
		for _, n := range anchorNames {
			if strings.EqualFold(strings.TrimSpace(edge), n.name) {
				a |= n.bit
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown anchor %q", edge)
		}
	}
	return a, nil
}

// KeyboardInteractivity controls keyboard focus of layer surfaces.
type KeyboardInteractivity uint32

const (
	KeyboardNone      = KeyboardInteractivity(protocols.KeyboardInteractivityNone)
	KeyboardExclusive = KeyboardInteractivity(protocols.KeyboardInteractivityExclusive)
	KeyboardOnDemand  = KeyboardInteractivity(protocols.KeyboardInteractivityOnDemand)
)

func (k KeyboardInteractivity) String() string {
	switch k {
	case KeyboardNone:
		return "none"
	case KeyboardExclusive:
		return "exclusive"
	case KeyboardOnDemand:
		return "on_demand"
	}
	return fmt.Sprintf("keyboard(%d)", uint32(k))
}

// ParseKeyboardInteractivity accepts none, exclusive and on_demand.
func ParseKeyboardInteractivity(s string) (KeyboardInteractivity, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "_")) {
	case "none":
		return KeyboardNone, nil
	case "exclusive":
		return KeyboardExclusive, nil
	case "on_demand", "ondemand":
		return KeyboardOnDemand, nil
	}
	return 0, fmt.Errorf("unknown keyboard interactivity %q", s)
}

// Margin is the distance from anchored edges.
type Margin struct {
	Top, Right, Bottom, Left int32
}

type startKind int

const (
	startActive startKind = iota
	startBackground
	startAllScreens
	startTargetScreen
	startTargetOutput
)

// StartMode decides where the initial surfaces go.
type StartMode struct {
	kind   startKind
	screen string
	output *Output
}

var (
	// StartActive creates one surface and lets the compositor pick the output.
	StartActive = StartMode{kind: startActive}
	// StartBackground creates no shell surface at all.
	StartBackground = StartMode{kind: startBackground}
	// StartAllScreens creates one surface per output, including outputs
	// that appear later.
	StartAllScreens = StartMode{kind: startAllScreens}
)

// TargetScreen places the surface on the output with the given xdg-output name.
func TargetScreen(name string) StartMode {
	return StartMode{kind: startTargetScreen, screen: name}
}

// TargetOutput places the surface on a known output.
func TargetOutput(o *Output) StartMode {
	return StartMode{kind: startTargetOutput, output: o}
}

func (m StartMode) IsActive() bool     { return m.kind == startActive }
func (m StartMode) IsBackground() bool { return m.kind == startBackground }
func (m StartMode) IsAllScreens() bool { return m.kind == startAllScreens }

// IsWithTarget reports TargetScreen or TargetOutput.
func (m StartMode) IsWithTarget() bool {
	return m.kind == startTargetScreen || m.kind == startTargetOutput
}

// Screen returns the TargetScreen name.
func (m StartMode) Screen() string { return m.screen }

func (m StartMode) String() string {
	switch m.kind {
	case startBackground:
		return "background"
	case startAllScreens:
		return "all_screens"
	case startTargetScreen:
		return "target_screen(" + m.screen + ")"
	case startTargetOutput:
		return "target_output"
	}
	return "active"
}

// ParseStartMode reads a mode name. target_screen needs screen.
func ParseStartMode(mode, screen string) (StartMode, error) {
	switch strings.ToLower(strings.ReplaceAll(mode, "-", "_")) {
	case "", "active":
		return StartActive, nil
	case "background":
		return StartBackground, nil
	case "all_screens", "allscreens":
		return StartAllScreens, nil
	case "target_screen":
		if screen == "" {
			return StartMode{}, fmt.Errorf("start mode target_screen needs an output name")
		}
		return TargetScreen(screen), nil
	}
	return StartMode{}, fmt.Errorf("unknown start mode %q", mode)
}

// AutoHideEdge is the screen edge an auto-hidden surface slides off.
type AutoHideEdge uint32

const (
	AutoHideTop    = AutoHideEdge(protocols.AutoHideEdgeTop)
	AutoHideBottom = AutoHideEdge(protocols.AutoHideEdgeBottom)
	AutoHideLeft   = AutoHideEdge(protocols.AutoHideEdgeLeft)
	AutoHideRight  = AutoHideEdge(protocols.AutoHideEdgeRight)
)

// AutoHideMode chooses when the compositor hides the surface.
type AutoHideMode uint32

const (
	AutoHideAlways      = AutoHideMode(protocols.AutoHideModeAlways)
	AutoHideIntelligent = AutoHideMode(protocols.AutoHideModeIntelligent)
)

// ParseAutoHideEdge accepts top, bottom, left and right.
func ParseAutoHideEdge(s string) (AutoHideEdge, error) {
	switch strings.ToLower(s) {
	case "", "bottom":
		return AutoHideBottom, nil
	case "top":
		return AutoHideTop, nil
	case "left":
		return AutoHideLeft, nil
	case "right":
		return AutoHideRight, nil
	}
	return 0, fmt.Errorf("unknown auto-hide edge %q", s)
}

// ParseAutoHideMode accepts always and intelligent.
func ParseAutoHideMode(s string) (AutoHideMode, error) {
	switch strings.ToLower(s) {
	case "", "always":
		return AutoHideAlways, nil
	case "intelligent":
		return AutoHideIntelligent, nil
	}
	return 0, fmt.Errorf("unknown auto-hide mode %q", s)
}

// AutoHide configures compositor driven hiding of the startup surfaces.
type AutoHide struct {
	Edge AutoHideEdge
	// Zone is the hover detection strip in pixels.
	Zone uint32
	Mode AutoHideMode
}

// VisibilityMode is the home screen visibility of a surface.
type VisibilityMode uint32

const (
	VisibilityAlways     = VisibilityMode(protocols.VisibilityModeAlways)
	VisibilityHomeOnly   = VisibilityMode(protocols.VisibilityModeHomeOnly)
	VisibilityHideOnHome = VisibilityMode(protocols.VisibilityModeHideOnHome)
)

// Settings configures the engine and its startup surfaces.
type Settings struct {
	Namespace             string
	Layer                 Layer
	Anchor                Anchor
	Width, Height         uint32
	ExclusiveZone         int32
	Margin                Margin
	KeyboardInteractivity KeyboardInteractivity
	StartMode             StartMode
	EventsTransparent     bool

	Blur            bool
	Shadow          bool
	CornerRadius    *[4]uint32
	HomeOnly        bool
	HideOnHome      bool
	VoiceMode       bool
	ForeignToplevel bool
	AutoHide        *AutoHide
	ToplevelStates  ToplevelStateMap

	// UseDisplayHandle means the caller renders through its own stack; the
	// engine never asks for shm buffers.
	UseDisplayHandle bool
	ImeAllowed       bool
	TickInterval     time.Duration
}

// DefaultTickInterval is the period of the message pump.
const DefaultTickInterval = 50 * time.Millisecond

// DefaultSettings returns the builder defaults.
func DefaultSettings() Settings {
	return Settings{
		Namespace:             "waylayer",
		Layer:                 LayerTop,
		Anchor:                AnchorTop | AnchorLeft | AnchorRight,
		KeyboardInteractivity: KeyboardOnDemand,
		StartMode:             StartActive,
		ToplevelStates:        DefaultToplevelStateMap(),
		TickInterval:          DefaultTickInterval,
	}
}

// OutputOption selects the output of a runtime created layer surface.
type OutputOption struct {
	last   bool
	output *Output
}

// OnOutput pins a surface to o.
func OnOutput(o *Output) OutputOption { return OutputOption{output: o} }

// OnLastOutput uses the output of the most recently focused surface.
var OnLastOutput = OutputOption{last: true}

// LayerSettings describes a layer surface created at runtime. The zero
// OutputOption uses the output of the focused surface.
type LayerSettings struct {
	Namespace             string
	Layer                 Layer
	Anchor                Anchor
	Width, Height         uint32
	ExclusiveZone         int32
	Margin                Margin
	KeyboardInteractivity KeyboardInteractivity
	Output                OutputOption
	EventsTransparent     bool
	Blur                  bool
	Shadow                bool
	CornerRadius          *[4]uint32
}

// PopUpSettings describes a popup attached to Parent at X, Y.
type PopUpSettings struct {
	Parent        ID
	X, Y          int32
	Width, Height uint32
}

// XdgWindowSettings describes a regular top-level window.
type XdgWindowSettings struct {
	Title         string
	AppID         string
	Width, Height uint32
	Maximized     bool
}

// InputPanelSettings describes an input method panel. Keyboard panels are
// placed at the bottom center of an output; others are overlays.
type InputPanelSettings struct {
	Width, Height uint32
	Keyboard      bool
	UseLastOutput bool
}
