package reactor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newLoop(t *testing.T) (*Loop, *fakeClock) {
	t.Helper()
	l, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	clock := &fakeClock{t: time.Unix(1000, 0)}
	l.now = clock.now
	return l, clock
}

func TestTimersFireInDeadlineOrder(t *testing.T) {
	l, clock := newLoop(t)
	var order []string
	l.AddTimer(20*time.Millisecond, func(time.Time) Action { order = append(order, "b"); return Drop })
	l.AddTimer(10*time.Millisecond, func(time.Time) Action { order = append(order, "a"); return Drop })
	l.AddTimer(20*time.Millisecond, func(time.Time) Action { order = append(order, "c"); return Drop })

	clock.advance(25 * time.Millisecond)
	require.NoError(t, l.Dispatch(0))
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Zero(t, l.timers.Len())
}

func TestPeriodicTimerReschedules(t *testing.T) {
	l, clock := newLoop(t)
	ticks := 0
	tok := l.AddTimer(50*time.Millisecond, func(time.Time) Action {
		ticks++
		return After(50 * time.Millisecond)
	})

	for i := 0; i < 3; i++ {
		clock.advance(50 * time.Millisecond)
		require.NoError(t, l.Dispatch(0))
	}
	assert.Equal(t, 3, ticks)
	assert.True(t, l.HasTimer(tok))

	l.RemoveTimer(tok)
	assert.False(t, l.HasTimer(tok))
	clock.advance(time.Second)
	require.NoError(t, l.Dispatch(0))
	assert.Equal(t, 3, ticks)
}

func TestRemovalInsideOwnCallbackIsStaged(t *testing.T) {
	l, clock := newLoop(t)
	var tok Token
	fired := 0
	tok = l.AddTimer(time.Millisecond, func(time.Time) Action {
		fired++
		l.RemoveTimer(tok)
		return After(time.Millisecond)
	})

	clock.advance(time.Millisecond)
	require.NoError(t, l.Dispatch(0))
	assert.Equal(t, 1, fired)
	assert.Equal(t, 1, l.Staged())
	assert.False(t, l.HasTimer(tok))

	clock.advance(time.Millisecond)
	require.NoError(t, l.Dispatch(0))
	assert.Equal(t, 1, fired)
	assert.Zero(t, l.Staged())
}

func TestRemovalOfLaterDueTimerFromEarlierCallback(t *testing.T) {
	l, clock := newLoop(t)
	var second Token
	secondFired := false
	l.AddTimer(time.Millisecond, func(time.Time) Action {
		l.RemoveTimer(second)
		return Drop
	})
	second = l.AddTimer(time.Millisecond, func(time.Time) Action {
		secondFired = true
		return Drop
	})

	clock.advance(time.Millisecond)
	require.NoError(t, l.Dispatch(0))
	assert.False(t, secondFired)
}

func TestPostFromAnotherGoroutine(t *testing.T) {
	l, _ := newLoop(t)
	done := make(chan struct{})
	ran := false
	go func() {
		l.Post(func() { ran = true })
		close(done)
	}()
	<-done
	require.NoError(t, l.Dispatch(time.Second))
	assert.True(t, ran)
}

func TestAddChannelDeliversInOrder(t *testing.T) {
	l, _ := newLoop(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := make(chan int)
	var got []int
	AddChannel(ctx, l, ch, func(v int) { got = append(got, v) })

	go func() {
		for i := 1; i <= 3; i++ {
			ch <- i
		}
	}()
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < 3 && time.Now().Before(deadline) {
		require.NoError(t, l.Dispatch(100*time.Millisecond))
	}
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestFdSourceAndRunStop(t *testing.T) {
	l, _ := newLoop(t)
	var p [2]int
	require.NoError(t, unix.Pipe2(p[:], unix.O_CLOEXEC|unix.O_NONBLOCK))
	defer unix.Close(p[0])
	defer unix.Close(p[1])

	reads := 0
	l.AddFd(p[0], func() error {
		buf := make([]byte, 8)
		_, _ = unix.Read(p[0], buf)
		reads++
		l.Stop()
		return nil
	})

	_, err := unix.Write(p[1], []byte("x"))
	require.NoError(t, err)
	require.NoError(t, l.Run(context.Background(), time.Second, nil))
	assert.Equal(t, 1, reads)
	assert.True(t, l.Stopped())
}

func TestRunStopsOnContextCancel(t *testing.T) {
	l, _ := newLoop(t)
	ctx, cancel := context.WithCancel(context.Background())
	iterations := 0
	go cancel()
	err := l.Run(ctx, 10*time.Millisecond, func() error {
		iterations++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Positive(t, iterations)
}
