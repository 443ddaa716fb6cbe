package layershell

import "github.com/bnema/waylayer/internal/wl"

// Control tells the engine what to do after an event. A nil Control
// does nothing.
type Control interface {
	isControl()
}

// Binding is an index into a caller owned table.
type Binding struct {
	Index int
	Set   bool
}

// Bind returns a set binding for index.
func Bind(index int) Binding { return Binding{Index: index, Set: true} }

// RequestBind asks for a BindProvide event. Only valid during init.
type RequestBind struct{}

// RequestCompositor asks for a CompositorProvide event. Only valid during init.
type RequestCompositor struct{}

// NewLayerShell creates a layer surface. A NoID ID gets a fresh id.
type NewLayerShell struct {
	Settings LayerSettings
	ID       ID
	Binding  Binding
}

// NewPopUp creates a popup attached to Settings.Parent.
type NewPopUp struct {
	Settings PopUpSettings
	ID       ID
	Binding  Binding
}

// NewXdgWindow creates a regular top-level window.
type NewXdgWindow struct {
	Settings XdgWindowSettings
	ID       ID
	Binding  Binding
}

// NewInputPanel creates an input method panel.
type NewInputPanel struct {
	Settings InputPanelSettings
	ID       ID
	Binding  Binding
}

// SetCursorShape sets a named cursor shape. A nil Pointer uses the seat
// pointer.
type SetCursorShape struct {
	Shape   string
	Pointer *wl.Pointer
}

// ProvideBuffer answers RequestBuffer.
type ProvideBuffer struct {
	Buffer *Buffer
}

// Exit stops the event loop.
type Exit struct{}

func (RequestBind) isControl()       {}
func (RequestCompositor) isControl() {}
func (NewLayerShell) isControl()     {}
func (NewPopUp) isControl()          {}
func (NewXdgWindow) isControl()      {}
func (NewInputPanel) isControl()     {}
func (SetCursorShape) isControl()    {}
func (ProvideBuffer) isControl()     {}
func (Exit) isControl()              {}
