package layershell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/waylayer/internal/reactor"
)

// Run drives the engine until the handler returns Exit, the connection
// fails or ctx ends. The handler always runs on the calling goroutine.
func (st *WindowState) Run(ctx context.Context, h Handler) error {
	return st.run(ctx, h)
}

// RunWithChannel is Run plus a channel whose values reach the handler as
// UserEvent, in order, on the loop goroutine.
func RunWithChannel[T any](ctx context.Context, st *WindowState, ch <-chan T, h Handler) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	reactor.AddChannel(ctx, st.loop, ch, func(v T) {
		st.apply(h(UserEvent{Value: v}, st, NoID))
	})
	return st.run(ctx, h)
}

func (st *WindowState) run(ctx context.Context, h Handler) error {
	st.initialize(h)
	if st.loop.Stopped() {
		return nil
	}

	st.loop.AddFd(st.ctx.Fd(), func() error {
		if err := st.ctx.Dispatch(); err != nil {
			return &Error{Kind: KindDispatch, Err: err}
		}
		return nil
	})
	interval := st.settings.TickInterval
	st.loop.AddTimer(0, func(time.Time) reactor.Action {
		st.tick(h)
		return reactor.After(interval)
	})

	st.log.Debug("event loop started", "tick", interval, "units", len(st.units))
	err := st.loop.Run(ctx, -1, func() error {
		if err := st.ctx.DispatchPending(); err != nil {
			return &Error{Kind: KindDispatch, Err: err}
		}
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// initialize answers InitRequest until the handler returns nil. Any other
// control ends initialization after being applied.
func (st *WindowState) initialize(h Handler) {
	ev := Event(InitRequest{})
	for {
		switch ctrl := h(ev, st, NoID).(type) {
		case nil:
			return
		case RequestBind:
			ev = BindProvide{Globals: st.Globals()}
		case RequestCompositor:
			ev = CompositorProvide{Compositor: st.compositor}
		default:
			st.apply(ctrl)
			return
		}
	}
}

// tick delivers queued messages, closes units and then redraws every unit
// whose present slot is free and whose refresh is due.
func (st *WindowState) tick(h Handler) {
	for st.messages.Length() > 0 {
		q := st.messages.Remove().(queued)
		st.deliver(h, q)
	}
	st.apply(h(NormalDispatch{}, st, NoID))

	for _, u := range st.Units() {
		if !u.closeRequested {
			continue
		}
		st.apply(h(RequestMessages{Message: Closed{}}, st, u.id))
		st.removeUnit(u)
	}
	closed := st.closed
	st.closed = nil
	for _, id := range closed {
		st.apply(h(RequestMessages{Message: Closed{}}, st, id))
	}

	for _, u := range st.Units() {
		if u.created && u.takePresentSlot() {
			st.present(h, u)
		}
	}
}

func (st *WindowState) deliver(h Handler, q queued) {
	switch msg := q.msg.(type) {
	case XdgInfo:
		st.apply(h(XdgInfoChanged{Kind: msg.Kind}, st, q.id))
	case NewDisplay:
		if st.settings.StartMode.IsAllScreens() {
			if _, err := st.createStartupLayer(msg.Output); err != nil {
				st.log.Error("failed to create surface for new output", "output", outputName(msg.Output), "error", err)
			}
		}
		st.apply(h(RequestMessages{Message: msg}, st, q.id))
	default:
		st.apply(h(RequestMessages{Message: msg}, st, q.id))
	}
}

func (st *WindowState) present(h Handler, u *Unit) {
	if !st.settings.UseDisplayHandle {
		w, ht := u.BufferSize()
		ev := RequestBuffer{Pool: &BufferPool{shm: st.shm, unit: u}, Width: w, Height: ht}
		ctrl := h(ev, st, u.id)
		pb, ok := ctrl.(ProvideBuffer)
		if !ok {
			panic(fmt.Sprintf("layershell: RequestBuffer must be answered with ProvideBuffer, got %T", ctrl))
		}
		if pb.Buffer == nil {
			u.log.Debug("no buffer provided, skipping frame")
			u.ResetPresentSlot()
			return
		}
		if u.buffer != nil && u.buffer != pb.Buffer {
			u.buffer.Destroy()
		}
		u.buffer = pb.Buffer
	}

	w, ht := u.Size()
	st.apply(h(RequestMessages{Message: RequestRefresh{
		Width:     w,
		Height:    ht,
		IsCreated: u.created,
		Scale:     u.ScaleFloat(),
	}}, st, u.id))

	if !st.settings.UseDisplayHandle {
		if err := u.Present(); err != nil {
			st.log.Warn("failed to present", "id", u.id, "error", err)
		}
	}
	u.ResetPresentSlot()
}

// apply executes a control returned outside initialization.
func (st *WindowState) apply(ctrl Control) {
	var err error
	switch c := ctrl.(type) {
	case nil:
	case NewLayerShell:
		_, err = st.createLayer(c.ID, c.Settings, st.resolveLayerOutput(c.Settings.Output), c.Binding)
	case NewPopUp:
		_, err = st.createPopup(c.ID, c.Settings, c.Binding)
	case NewXdgWindow:
		_, err = st.createXdgWindow(c.ID, c.Settings, c.Binding)
	case NewInputPanel:
		_, err = st.createInputPanel(c.ID, c.Settings, c.Binding)
	case SetCursorShape:
		if err := st.setCursorShape(c.Shape, c.Pointer); err != nil {
			st.log.Warn("failed to set cursor shape", "shape", c.Shape, "error", err)
		}
	case Exit:
		st.loop.Stop()
	case RequestBind, RequestCompositor:
		st.log.Warn("control only valid during initialization", "control", fmt.Sprintf("%T", c))
	case ProvideBuffer:
		st.log.Warn("buffer provided without a RequestBuffer")
	default:
		st.log.Warn("unknown control", "control", fmt.Sprintf("%T", c))
	}
	if err != nil {
		st.log.Error("failed to create surface", "control", fmt.Sprintf("%T", ctrl), "error", err)
	}
}
