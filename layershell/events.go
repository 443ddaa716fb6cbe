package layershell

import "github.com/bnema/waylayer/internal/wl"

// Global is one advertised registry entry.
type Global struct {
	Name      uint32
	Interface string
	Version   uint32
}

// Event is what the engine hands to the caller's Handler.
type Event interface {
	isEvent()
}

// InitRequest is the first event of Run. The handler answers with
// RequestBind, RequestCompositor or nil to finish initialization.
type InitRequest struct{}

// BindProvide answers RequestBind with the advertised globals.
type BindProvide struct {
	Globals []Global
}

// CompositorProvide answers RequestCompositor.
type CompositorProvide struct {
	Compositor *wl.Compositor
}

// XdgInfoChanged reports that xdg-output info of the unit changed.
type XdgInfoChanged struct {
	Kind XdgInfoKind
}

// RequestBuffer asks the caller to fill a buffer for the unit. The handler
// must answer with ProvideBuffer.
type RequestBuffer struct {
	Pool          *BufferPool
	Width, Height uint32
}

// RequestMessages carries one demultiplexed input or lifecycle message.
type RequestMessages struct {
	Message Message
}

// NormalDispatch is emitted once per tick after the queue is drained.
type NormalDispatch struct{}

// UserEvent carries a value received on the caller's channel.
type UserEvent struct {
	Value any
}

func (InitRequest) isEvent()       {}
func (BindProvide) isEvent()       {}
func (CompositorProvide) isEvent() {}
func (XdgInfoChanged) isEvent()    {}
func (RequestBuffer) isEvent()     {}
func (RequestMessages) isEvent()   {}
func (NormalDispatch) isEvent()    {}
func (UserEvent) isEvent()         {}

// Handler receives every event. id is NoID for engine wide events.
type Handler func(ev Event, st *WindowState, id ID) Control
