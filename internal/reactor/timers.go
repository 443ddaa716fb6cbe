package reactor

import (
	"container/heap"
	"time"
)

// Token identifies a registered timer.
type Token uint64

// Action tells the loop what to do with a timer after its callback ran.
type Action struct {
	again bool
	after time.Duration
}

// Drop removes the timer.
var Drop = Action{}

// After reschedules the timer d after now.
func After(d time.Duration) Action {
	return Action{again: true, after: d}
}

// TimerFunc runs on the loop goroutine when its deadline passes.
type TimerFunc func(now time.Time) Action

type timer struct {
	token     Token
	deadline  time.Time
	seq       uint64
	fn        TimerFunc
	index     int
	cancelled bool
}

// timerHeap orders timers by deadline, then by insertion.
type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

func (h *timerHeap) remove(t *timer) {
	if t.index >= 0 && t.index < h.Len() && (*h)[t.index] == t {
		heap.Remove(h, t.index)
	}
}
