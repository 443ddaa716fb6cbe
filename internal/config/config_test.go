package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/waylayer/layershell"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	configPathOverride = ""
	cfg = nil
	t.Cleanup(func() {
		viper.Reset()
		configPathOverride = ""
		cfg = nil
	})
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "waylayer.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestInitDefaults(t *testing.T) {
	resetViper(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, Init())
	c := Get()
	assert.Equal(t, "waylayer", c.Shell.Namespace)
	assert.Equal(t, []string{"top", "left", "right"}, c.Shell.Anchor)
	assert.Equal(t, 50*time.Millisecond, c.Engine.TickInterval)
	assert.Empty(t, c.ToplevelStates)

	s, err := c.Settings()
	require.NoError(t, err)
	assert.Equal(t, layershell.DefaultToplevelStateMap(), s.ToplevelStates)
	assert.Equal(t, uint32(32), s.Height)
}

func TestInitReadsFile(t *testing.T) {
	resetViper(t)
	SetConfigPath(writeConfig(t, `
[shell]
namespace = "dock"
layer = "overlay"
anchor = ["bottom"]
height = 48
start_mode = "target_screen"
output = "DP-2"

[shell.margin]
bottom = 8

[engine]
tick_interval = "16ms"

[extensions]
corner_radius = [12]

[extensions.auto_hide]
enabled = true
edge = "bottom"
mode = "intelligent"
`))

	require.NoError(t, Init())
	c := Get()
	assert.Equal(t, "dock", c.Shell.Namespace)
	assert.Equal(t, int32(8), c.Shell.Margin.Bottom)
	assert.Equal(t, 16*time.Millisecond, c.Engine.TickInterval)
	assert.Equal(t, "on_demand", c.Shell.KeyboardInteractivity, "unset keys keep defaults")

	s, err := c.Settings()
	require.NoError(t, err)
	assert.Equal(t, "dock", s.Namespace)
	assert.Equal(t, layershell.LayerOverlay, s.Layer)
	assert.Equal(t, layershell.AnchorBottom, s.Anchor)
	assert.Equal(t, uint32(48), s.Height)
	assert.True(t, s.StartMode.IsWithTarget())
	assert.Equal(t, "DP-2", s.StartMode.Screen())
	assert.Equal(t, layershell.Margin{Bottom: 8}, s.Margin)
	assert.Equal(t, &[4]uint32{12, 12, 12, 12}, s.CornerRadius)
	require.NotNil(t, s.AutoHide)
	assert.Equal(t, layershell.AutoHideIntelligent, s.AutoHide.Mode)
	assert.Equal(t, 16*time.Millisecond, s.TickInterval)
}

func TestInitRejectsInvalidTOML(t *testing.T) {
	resetViper(t)
	SetConfigPath(writeConfig(t, "[shell\nlayer = top"))
	assert.Error(t, Init())
}

func TestEnvOverride(t *testing.T) {
	resetViper(t)
	SetConfigPath(writeConfig(t, "[shell]\nlayer = \"bottom\"\n"))
	t.Setenv("WAYLAYER_SHELL_LAYER", "background")

	require.NoError(t, Init())
	assert.Equal(t, "background", Get().Shell.Layer)
}

func TestSettingsValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"layer", func(c *Config) { c.Shell.Layer = "middle" }, "shell.layer"},
		{"anchor", func(c *Config) { c.Shell.Anchor = []string{"center"} }, "shell.anchor"},
		{"keyboard", func(c *Config) { c.Shell.KeyboardInteractivity = "grab" }, "shell.keyboard_interactivity"},
		{"start mode", func(c *Config) { c.Shell.StartMode = "target_screen" }, "shell.start_mode"},
		{"corner radius", func(c *Config) { c.Extensions.CornerRadius = []uint32{1, 2} }, "extensions.corner_radius"},
		{"auto-hide edge", func(c *Config) {
			c.Extensions.AutoHide = AutoHideConfig{Enabled: true, Edge: "middle"}
		}, "extensions.auto_hide.edge"},
		{"toplevel state key", func(c *Config) { c.ToplevelStates = map[string]string{"x": "maximized"} }, "toplevel_states"},
		{"toplevel state name", func(c *Config) { c.ToplevelStates = map[string]string{"4": "shaded"} }, "toplevel_states"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig
			tt.mutate(&c)
			_, err := c.Settings()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestCustomToplevelStates(t *testing.T) {
	c := DefaultConfig
	c.ToplevelStates = map[string]string{"4": "activated"}
	s, err := c.Settings()
	require.NoError(t, err)
	assert.Equal(t, layershell.ToplevelStateMap{4: layershell.ToplevelActivated}, s.ToplevelStates)
}

func TestConfigPathResolution(t *testing.T) {
	t.Run("override", func(t *testing.T) {
		resetViper(t)
		SetConfigPath("/tmp/custom.toml")
		assert.Equal(t, "/tmp/custom.toml", GetConfigPath())
	})
	t.Run("xdg config home", func(t *testing.T) {
		resetViper(t)
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
		assert.Equal(t, "/tmp/xdg/waylayer/waylayer.toml", GetConfigPath())
	})
	t.Run("home", func(t *testing.T) {
		resetViper(t)
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", "/home/testuser")
		assert.Equal(t, "/home/testuser/.config/waylayer/waylayer.toml", GetConfigPath())
	})
}

func TestUpdateAndSave(t *testing.T) {
	resetViper(t)
	path := filepath.Join(t.TempDir(), "nested", "waylayer.toml")
	SetConfigPath(path)
	require.NoError(t, Init())

	c := *Get()
	c.Shell.Namespace = "saved"
	Update(&c)
	require.NoError(t, Save())

	resetViper(t)
	SetConfigPath(path)
	require.NoError(t, Init())
	assert.Equal(t, "saved", Get().Shell.Namespace)
}

func TestInitMissingExplicitFile(t *testing.T) {
	resetViper(t)
	SetConfigPath(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, Init())
	assert.Equal(t, DefaultConfig.Shell.Height, Get().Shell.Height)
}

func TestKeys(t *testing.T) {
	c := DefaultConfig
	c.ToplevelStates = map[string]string{"0": "maximized"}
	k := c.Keys()
	assert.Equal(t, "top", k["shell.layer"])
	assert.Equal(t, "50ms", k["engine.tick_interval"])
	assert.Equal(t, "maximized", k["toplevel_states.0"])
}
