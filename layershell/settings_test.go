package layershell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayer(t *testing.T) {
	for _, name := range []string{"background", "bottom", "top", "overlay"} {
		l, err := ParseLayer(name)
		require.NoError(t, err)
		assert.Equal(t, name, l.String())
	}
	_, err := ParseLayer("middle")
	assert.Error(t, err)
}

func TestParseAnchor(t *testing.T) {
	a, err := ParseAnchor([]string{"top", " Left ", "right"})
	require.NoError(t, err)
	assert.Equal(t, AnchorTop|AnchorLeft|AnchorRight, a)
	assert.Equal(t, "top|left|right", a.String())

	a, err = ParseAnchor(nil)
	require.NoError(t, err)
	assert.Equal(t, "none", a.String())

	_, err = ParseAnchor([]string{"center"})
	assert.Error(t, err)
}

func TestParseKeyboardInteractivity(t *testing.T) {
	tests := []struct {
		in   string
		want KeyboardInteractivity
	}{
		{"none", KeyboardNone},
		{"exclusive", KeyboardExclusive},
		{"on_demand", KeyboardOnDemand},
		{"on-demand", KeyboardOnDemand},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			k, err := ParseKeyboardInteractivity(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, k)
		})
	}
	_, err := ParseKeyboardInteractivity("grab")
	assert.Error(t, err)
}

func TestParseStartMode(t *testing.T) {
	m, err := ParseStartMode("", "")
	require.NoError(t, err)
	assert.True(t, m.IsActive())

	m, err = ParseStartMode("all-screens", "")
	require.NoError(t, err)
	assert.True(t, m.IsAllScreens())

	m, err = ParseStartMode("background", "")
	require.NoError(t, err)
	assert.True(t, m.IsBackground())

	m, err = ParseStartMode("target_screen", "DP-1")
	require.NoError(t, err)
	assert.True(t, m.IsWithTarget())
	assert.Equal(t, "DP-1", m.Screen())
	assert.Equal(t, "target_screen(DP-1)", m.String())

	_, err = ParseStartMode("target_screen", "")
	assert.Error(t, err)
	_, err = ParseStartMode("everywhere", "")
	assert.Error(t, err)
}

func TestParseAutoHide(t *testing.T) {
	edge, err := ParseAutoHideEdge("")
	require.NoError(t, err)
	assert.Equal(t, AutoHideBottom, edge)
	edge, err = ParseAutoHideEdge("LEFT")
	require.NoError(t, err)
	assert.Equal(t, AutoHideLeft, edge)
	_, err = ParseAutoHideEdge("middle")
	assert.Error(t, err)

	mode, err := ParseAutoHideMode("intelligent")
	require.NoError(t, err)
	assert.Equal(t, AutoHideIntelligent, mode)
	_, err = ParseAutoHideMode("sometimes")
	assert.Error(t, err)
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, "waylayer", s.Namespace)
	assert.Equal(t, LayerTop, s.Layer)
	assert.True(t, s.StartMode.IsActive())
	assert.Equal(t, DefaultTickInterval, s.TickInterval)
	assert.Len(t, s.ToplevelStates, 4)
}

func TestBuilderChaining(t *testing.T) {
	b := NewBuilder("bar").
		WithLayer(LayerOverlay).
		WithSize(0, 32).
		WithExclusiveZone(32).
		WithCornerRadius([4]uint32{8, 8, 0, 0}).
		WithAutoHide(AutoHide{Edge: AutoHideTop, Zone: 4})

	s := b.settings
	assert.Equal(t, "bar", s.Namespace)
	assert.Equal(t, LayerOverlay, s.Layer)
	assert.Equal(t, uint32(32), s.Height)
	assert.Equal(t, int32(32), s.ExclusiveZone)
	require.NotNil(t, s.CornerRadius)
	assert.Equal(t, [4]uint32{8, 8, 0, 0}, *s.CornerRadius)
	require.NotNil(t, s.AutoHide)
	assert.Equal(t, AutoHideTop, s.AutoHide.Edge)

	assert.Equal(t, "waylayer", NewBuilder("").settings.Namespace)
}
