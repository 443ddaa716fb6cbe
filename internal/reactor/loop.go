// Package reactor is a single goroutine event loop multiplexing file
// descriptor readiness, timers and callbacks posted from other goroutines.
package reactor

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/waylayer/internal/logger"
	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"
)

// FdFunc handles readiness of a registered descriptor.
type FdFunc func() error

type fdSource struct {
	fd int
	fn FdFunc
}

// Loop is not safe for concurrent use except for Post, Wake and AddChannel.
type Loop struct {
	log *log.Logger
	now func() time.Time

	sources []fdSource
	timers  timerHeap
	byToken map[Token]*timer
	staged  []Token
	inTimer bool
	nextTok Token
	seq     uint64
	stopped bool

	wakeR, wakeW int
	mu           sync.Mutex
	posted       []func()
}

// New creates a loop with its wakeup pipe.
func New() (*Loop, error) {
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		return nil, fmt.Errorf("failed to create wake pipe: %w", err)
	}
	return &Loop{
		log:     logger.WithPrefix("reactor"),
		now:     time.Now,
		byToken: make(map[Token]*timer),
		wakeR:   p[0],
		wakeW:   p[1],
	}, nil
}

// Close releases the wakeup pipe.
func (l *Loop) Close() error {
	err := unix.Close(l.wakeR)
	if werr := unix.Close(l.wakeW); err == nil {
		err = werr
	}
	return err
}

// AddFd calls fn whenever fd is readable or hung up.
func (l *Loop) AddFd(fd int, fn FdFunc) {
	l.sources = append(l.sources, fdSource{fd: fd, fn: fn})
}

// AddTimer schedules fn after d.
func (l *Loop) AddTimer(d time.Duration, fn TimerFunc) Token {
	l.nextTok++
	l.seq++
	t := &timer{token: l.nextTok, deadline: l.now().Add(d), seq: l.seq, fn: fn}
	heap.Push(&l.timers, t)
	l.byToken[t.token] = t
	return t.token
}

// RemoveTimer cancels a timer. When called while timers are being
// dispatched, the timer stops firing at once and is swept from the queue at
// the start of the next iteration.
func (l *Loop) RemoveTimer(tok Token) {
	t, ok := l.byToken[tok]
	if !ok {
		return
	}
	t.cancelled = true
	if l.inTimer {
		l.staged = append(l.staged, tok)
		return
	}
	l.timers.remove(t)
	delete(l.byToken, tok)
}

// HasTimer reports whether tok is still scheduled.
func (l *Loop) HasTimer(tok Token) bool {
	t, ok := l.byToken[tok]
	return ok && !t.cancelled
}

// Staged returns how many removals wait for the next sweep.
func (l *Loop) Staged() int {
	return len(l.staged)
}

func (l *Loop) sweep() {
	for _, tok := range l.staged {
		if t, ok := l.byToken[tok]; ok {
			l.timers.remove(t)
			delete(l.byToken, tok)
		}
	}
	l.staged = l.staged[:0]
}

// Post queues fn to run on the loop goroutine. Safe from any goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.posted = append(l.posted, fn)
	l.mu.Unlock()
	l.Wake()
}

// Wake interrupts a blocking poll.
func (l *Loop) Wake() {
	_, err := unix.Write(l.wakeW, []byte{1})
	if err != nil && !errors.Is(err, unix.EAGAIN) {
		l.log.Warn("failed to wake loop", "error", err)
	}
}

// AddChannel forwards every value received on ch to fn on the loop goroutine.
// The forwarding goroutine exits when ch is closed or ctx is done.
func AddChannel[T any](ctx context.Context, l *Loop, ch <-chan T, fn func(T)) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-ch:
				if !ok {
					return
				}
				l.Post(func() { fn(v) })
			}
		}
	}()
}

// Stop makes Run return after the current iteration.
func (l *Loop) Stop() {
	l.stopped = true
}

// Stopped reports whether Stop was called.
func (l *Loop) Stopped() bool {
	return l.stopped
}

// Run dispatches until Stop is called, ctx ends or a source fails. before
// runs at the start of each iteration; timeout bounds each poll.
func (l *Loop) Run(ctx context.Context, timeout time.Duration, before func() error) error {
	stop := context.AfterFunc(ctx, func() {
		l.Post(l.Stop)
	})
	defer stop()

	for !l.stopped {
		if before != nil {
			if err := before(); err != nil {
				return err
			}
		}
		if err := l.Dispatch(timeout); err != nil {
			return err
		}
	}
	return ctx.Err()
}

// Dispatch runs one iteration: sweep staged removals, wait for readiness up
// to timeout or the next timer, then run sources, posted callbacks and due
// timers in that order.
func (l *Loop) Dispatch(timeout time.Duration) error {
	l.sweep()

	wait := timeout
	if l.timers.Len() > 0 {
		until := l.timers[0].deadline.Sub(l.now())
		if until < 0 {
			until = 0
		}
		if wait < 0 || until < wait {
			wait = until
		}
	}
	l.mu.Lock()
	if len(l.posted) > 0 {
		wait = 0
	}
	l.mu.Unlock()

	pfds := make([]unix.PollFd, 0, len(l.sources)+1)
	pfds = append(pfds, unix.PollFd{Fd: int32(l.wakeR), Events: unix.POLLIN})
	for _, s := range l.sources {
		pfds = append(pfds, unix.PollFd{Fd: int32(s.fd), Events: unix.POLLIN})
	}

	ms := -1
	if wait >= 0 {
		ms = int((wait + time.Millisecond - 1) / time.Millisecond)
	}
	if _, err := unix.Poll(pfds, ms); err != nil && !errors.Is(err, unix.EINTR) {
		return fmt.Errorf("failed to poll: %w", err)
	}

	if pfds[0].Revents&unix.POLLIN != 0 {
		l.drainWake()
	}
	ready := unix.POLLIN | unix.POLLHUP | unix.POLLERR
	for i, s := range l.sources {
		if pfds[i+1].Revents&int16(ready) != 0 {
			if err := s.fn(); err != nil {
				return err
			}
		}
	}

	l.runPosted()
	l.runTimers()
	return nil
}

func (l *Loop) drainWake() {
	buf := make([]byte, 64)
	for {
		n, err := unix.Read(l.wakeR, buf)
		if n <= 0 || err != nil {
			return
		}
	}
}

func (l *Loop) runPosted() {
	l.mu.Lock()
	posted := l.posted
	l.posted = nil
	l.mu.Unlock()
	for _, fn := range posted {
		fn()
	}
}

func (l *Loop) runTimers() {
	now := l.now()
	var due []*timer
	for l.timers.Len() > 0 && !l.timers[0].deadline.After(now) {
		due = append(due, heap.Pop(&l.timers).(*timer))
	}

	l.inTimer = true
	defer func() { l.inTimer = false }()
	for _, t := range due {
		if t.cancelled {
			delete(l.byToken, t.token)
			continue
		}
		action := t.fn(now)
		if t.cancelled || !action.again {
			delete(l.byToken, t.token)
			continue
		}
		l.seq++
		t.seq = l.seq
		t.deadline = now.Add(action.after)
		heap.Push(&l.timers, t)
	}
}
