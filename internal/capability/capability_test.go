package capability

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manager struct{ name string }

type controller struct {
	key       int
	destroyed bool
}

type event struct {
	key int
	msg string
}

func newTestCapability(creates *int, events *[]event) *Capability[int, *manager, *controller, string] {
	return New[int, *manager, *controller, string]("test",
		func(m *manager, key int) (*controller, error) {
			*creates++
			if key < 0 {
				return nil, errors.New("negative key")
			}
			return &controller{key: key}, nil
		},
		func(c *controller) { c.destroyed = true },
		func(key int, ev string) { *events = append(*events, event{key: key, msg: ev}) },
	)
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	creates := 0
	var events []event
	c := newTestCapability(&creates, &events)
	c.Bind(&manager{name: "m"})

	first, ok := c.GetOrCreate(1)
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		again, ok := c.GetOrCreate(1)
		require.True(t, ok)
		assert.Same(t, first, again)
	}
	assert.Equal(t, 1, creates)
	assert.Equal(t, 1, c.Len())
}

func TestUnboundIsNoop(t *testing.T) {
	creates := 0
	var events []event
	c := newTestCapability(&creates, &events)

	assert.False(t, c.Available())
	_, ok := c.GetOrCreate(1)
	assert.False(t, ok)
	ran := c.With(1, "set radius", func(*controller) error { return nil })
	assert.False(t, ran)
	assert.Zero(t, creates)
	assert.Zero(t, c.Len())
}

func TestCreateFailureIsNotCached(t *testing.T) {
	creates := 0
	var events []event
	c := newTestCapability(&creates, &events)
	c.Bind(&manager{})

	_, ok := c.GetOrCreate(-1)
	assert.False(t, ok)
	_, ok = c.GetOrCreate(-1)
	assert.False(t, ok)
	assert.Equal(t, 2, creates)
	assert.False(t, c.Has(-1))
}

func TestRemoveDestroysAndForgets(t *testing.T) {
	creates := 0
	var events []event
	c := newTestCapability(&creates, &events)
	c.Bind(&manager{})

	a, _ := c.GetOrCreate(1)
	b, _ := c.GetOrCreate(2)
	c.Remove(1)
	assert.True(t, a.destroyed)
	assert.False(t, b.destroyed)
	assert.Equal(t, []int{2}, c.Keys())

	_, ok := c.Lookup(1)
	assert.False(t, ok)
	c.Remove(1)

	c.RemoveAll()
	assert.True(t, b.destroyed)
	assert.Zero(t, c.Len())
}

func TestWithExistingDoesNotCreate(t *testing.T) {
	creates := 0
	var events []event
	c := newTestCapability(&creates, &events)
	c.Bind(&manager{})

	assert.False(t, c.WithExisting(3, "arm", func(*controller) error { return nil }))
	assert.Zero(t, creates)

	c.GetOrCreate(3)
	called := false
	assert.True(t, c.WithExisting(3, "arm", func(*controller) error {
		called = true
		return errors.New("ignored")
	}))
	assert.True(t, called)
}

func TestEmitTagsEvents(t *testing.T) {
	creates := 0
	var events []event
	c := newTestCapability(&creates, &events)

	c.Emit("home")
	c.EmitFor(7, "dismiss")
	assert.Equal(t, []event{{key: 0, msg: "home"}, {key: 7, msg: "dismiss"}}, events)
}

func TestEachVisitsInCreationOrder(t *testing.T) {
	creates := 0
	var events []event
	c := newTestCapability(&creates, &events)
	c.Bind(&manager{})
	for _, k := range []int{5, 3, 9} {
		c.GetOrCreate(k)
	}
	var seen []int
	c.Each(func(k int, _ *controller) { seen = append(seen, k) })
	assert.Equal(t, []int{5, 3, 9}, seen)
}
