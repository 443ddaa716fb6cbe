package layershell

import (
	"fmt"
	"time"
)

type refreshKind int

const (
	refreshWait refreshKind = iota
	refreshAt
	refreshNextFrame
)

// RefreshRequest says when a surface wants to be redrawn. The zero value
// is RefreshWait.
type RefreshRequest struct {
	kind refreshKind
	at   time.Time
}

var (
	// RefreshWait asks for nothing.
	RefreshWait = RefreshRequest{}
	// RefreshNextFrame redraws on the next present pass.
	RefreshNextFrame = RefreshRequest{kind: refreshNextFrame}
)

// RefreshAt redraws once t has passed.
func RefreshAt(t time.Time) RefreshRequest {
	return RefreshRequest{kind: refreshAt, at: t}
}

// IsWait reports whether nothing is requested.
func (r RefreshRequest) IsWait() bool { return r.kind == refreshWait }

// IsNextFrame reports whether an immediate redraw is requested.
func (r RefreshRequest) IsNextFrame() bool { return r.kind == refreshNextFrame }

// At returns the deadline of a timed request.
func (r RefreshRequest) At() (time.Time, bool) {
	return r.at, r.kind == refreshAt
}

// Merge combines two requests keeping the more urgent one: NextFrame beats
// any At, the earlier At wins, and Wait never replaces anything.
func (r RefreshRequest) Merge(other RefreshRequest) RefreshRequest {
	switch {
	case r.kind == refreshNextFrame || other.kind == refreshNextFrame:
		return RefreshNextFrame
	case r.kind == refreshWait:
		return other
	case other.kind == refreshWait:
		return r
	case other.at.Before(r.at):
		return other
	default:
		return r
	}
}

// Due reports whether the request should be served at now.
func (r RefreshRequest) Due(now time.Time) bool {
	switch r.kind {
	case refreshNextFrame:
		return true
	case refreshAt:
		return !now.Before(r.at)
	}
	return false
}

func (r RefreshRequest) String() string {
	switch r.kind {
	case refreshNextFrame:
		return "next-frame"
	case refreshAt:
		return fmt.Sprintf("at(%s)", r.at.Format("15:04:05.000"))
	}
	return "wait"
}

// PresentState tracks the frame callback handshake of a surface.
// Available -> Taken when a present pass claims the slot, Taken ->
// Requested once a frame callback is registered, and back to Available
// when the compositor signals the frame.
type PresentState int

const (
	PresentAvailable PresentState = iota
	PresentTaken
	PresentRequested
)

func (s PresentState) String() string {
	switch s {
	case PresentTaken:
		return "taken"
	case PresentRequested:
		return "requested"
	}
	return "available"
}
