package layershell

import (
	"strconv"
	"sync/atomic"
)

// ID identifies one surface for the lifetime of the process. IDs are never
// reused and are unrelated to protocol object ids.
type ID uint64

// NoID means "no surface". Events tagged with it are global.
const NoID ID = 0

var lastID atomic.Uint64

// NewID allocates a fresh identifier.
func NewID() ID {
	return ID(lastID.Add(1))
}

func (id ID) String() string {
	if id == NoID {
		return "none"
	}
	return strconv.FormatUint(uint64(id), 10)
}
