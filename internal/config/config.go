// Package config handles configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/waylayer/layershell"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Startup surface configuration
	Shell ShellConfig `mapstructure:"shell"`

	// Event loop configuration
	Engine EngineConfig `mapstructure:"engine"`

	// Optional compositor extensions
	Extensions ExtensionsConfig `mapstructure:"extensions"`

	// Foreign toplevel state array values, e.g. "0" = "maximized". Empty
	// means the wlr numbering.
	ToplevelStates map[string]string `mapstructure:"toplevel_states"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// ShellConfig describes the layer surfaces opened at startup
type ShellConfig struct {
	Namespace             string       `mapstructure:"namespace"`
	Layer                 string       `mapstructure:"layer"`  // background, bottom, top, overlay
	Anchor                []string     `mapstructure:"anchor"` // any of top, bottom, left, right
	Width                 uint32       `mapstructure:"width"`
	Height                uint32       `mapstructure:"height"`
	ExclusiveZone         int32        `mapstructure:"exclusive_zone"`
	Margin                MarginConfig `mapstructure:"margin"`
	KeyboardInteractivity string       `mapstructure:"keyboard_interactivity"` // none, exclusive, on_demand
	StartMode             string       `mapstructure:"start_mode"`             // active, background, all_screens, target_screen
	Output                string       `mapstructure:"output"`                 // Output name for target_screen
	EventsTransparent     bool         `mapstructure:"events_transparent"`
}

// MarginConfig is the distance from the anchored edges
type MarginConfig struct {
	Top    int32 `mapstructure:"top"`
	Right  int32 `mapstructure:"right"`
	Bottom int32 `mapstructure:"bottom"`
	Left   int32 `mapstructure:"left"`
}

// EngineConfig contains event loop settings
type EngineConfig struct {
	TickInterval     time.Duration `mapstructure:"tick_interval"`
	ImeAllowed       bool          `mapstructure:"ime_allowed"`
	UseDisplayHandle bool          `mapstructure:"use_display_handle"`
}

// ExtensionsConfig toggles compositor extensions
type ExtensionsConfig struct {
	Blur            bool           `mapstructure:"blur"`
	Shadow          bool           `mapstructure:"shadow"`
	CornerRadius    []uint32       `mapstructure:"corner_radius"` // top-left, top-right, bottom-right, bottom-left
	HomeOnly        bool           `mapstructure:"home_only"`
	HideOnHome      bool           `mapstructure:"hide_on_home"`
	VoiceMode       bool           `mapstructure:"voice_mode"`
	ForeignToplevel bool           `mapstructure:"foreign_toplevel"`
	AutoHide        AutoHideConfig `mapstructure:"auto_hide"`
}

// AutoHideConfig configures compositor driven hiding
type AutoHideConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Edge    string `mapstructure:"edge"` // top, bottom, left, right
	Zone    uint32 `mapstructure:"zone"` // Hover strip in pixels
	Mode    string `mapstructure:"mode"` // always, intelligent
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Override LOG_LEVEL env var
}

var (
	// DefaultConfig is a 32px bar along the top edge
	DefaultConfig = Config{
		Shell: ShellConfig{
			Namespace:             "waylayer",
			Layer:                 "top",
			Anchor:                []string{"top", "left", "right"},
			Height:                32,
			ExclusiveZone:         32,
			KeyboardInteractivity: "on_demand",
			StartMode:             "active",
		},
		Engine: EngineConfig{
			TickInterval: layershell.DefaultTickInterval,
		},
		Extensions: ExtensionsConfig{
			AutoHide: AutoHideConfig{
				Edge: "bottom",
				Zone: 4,
				Mode: "always",
			},
		},
		Logging: LoggingConfig{
			LogLevel: "", // Empty means use LOG_LEVEL env var
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("waylayer")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		for _, dir := range searchPaths() {
			viper.AddConfigPath(dir)
		}
	}

	viper.SetEnvPrefix("WAYLAYER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return nil
}

// searchPaths lists config directories, highest precedence first
func searchPaths() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "waylayer"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "waylayer"))
	}
	return append(dirs, "/etc/waylayer", ".")
}

// keys flattens c so files that set only part of a section still merge
// with the defaults.
func keys(c *Config) map[string]any {
	return map[string]any{
		"shell.namespace":              c.Shell.Namespace,
		"shell.layer":                  c.Shell.Layer,
		"shell.anchor":                 c.Shell.Anchor,
		"shell.width":                  c.Shell.Width,
		"shell.height":                 c.Shell.Height,
		"shell.exclusive_zone":         c.Shell.ExclusiveZone,
		"shell.margin.top":             c.Shell.Margin.Top,
		"shell.margin.right":           c.Shell.Margin.Right,
		"shell.margin.bottom":          c.Shell.Margin.Bottom,
		"shell.margin.left":            c.Shell.Margin.Left,
		"shell.keyboard_interactivity": c.Shell.KeyboardInteractivity,
		"shell.start_mode":             c.Shell.StartMode,
		"shell.output":                 c.Shell.Output,
		"shell.events_transparent":     c.Shell.EventsTransparent,

		"engine.tick_interval":      c.Engine.TickInterval.String(),
		"engine.ime_allowed":        c.Engine.ImeAllowed,
		"engine.use_display_handle": c.Engine.UseDisplayHandle,

		"extensions.blur":              c.Extensions.Blur,
		"extensions.shadow":            c.Extensions.Shadow,
		"extensions.corner_radius":     c.Extensions.CornerRadius,
		"extensions.home_only":         c.Extensions.HomeOnly,
		"extensions.hide_on_home":      c.Extensions.HideOnHome,
		"extensions.voice_mode":        c.Extensions.VoiceMode,
		"extensions.foreign_toplevel":  c.Extensions.ForeignToplevel,
		"extensions.auto_hide.enabled": c.Extensions.AutoHide.Enabled,
		"extensions.auto_hide.edge":    c.Extensions.AutoHide.Edge,
		"extensions.auto_hide.zone":    c.Extensions.AutoHide.Zone,
		"extensions.auto_hide.mode":    c.Extensions.AutoHide.Mode,

		"logging.log_level": c.Logging.LogLevel,
	}
}

// Keys returns the configuration as flat dotted viper keys
func (c *Config) Keys() map[string]any {
	m := keys(c)
	for k, v := range c.ToplevelStates {
		m["toplevel_states."+k] = v
	}
	return m
}

func setDefaults() {
	for k, v := range keys(&DefaultConfig) {
		viper.SetDefault(k, v)
	}
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		return &DefaultConfig
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// Update replaces the current configuration and stages it for Save
func Update(c *Config) {
	for k, v := range keys(c) {
		viper.Set(k, v)
	}
	if len(c.ToplevelStates) > 0 {
		viper.Set("toplevel_states", c.ToplevelStates)
	}
	cfg = c
}

// Save saves the current configuration to file
func Save() error {
	configPath := GetConfigPath()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		if os.IsPermission(err) && strings.HasPrefix(configPath, "/etc/") {
			return fmt.Errorf("failed to create config directory %s: permission denied. Try running with sudo", dir)
		}
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "waylayer", "waylayer.toml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "/etc/waylayer/waylayer.toml"
	}

	return filepath.Join(home, ".config", "waylayer", "waylayer.toml")
}

// Settings converts the configuration into engine settings. Enum names are
// validated here so a typo fails before connecting.
func (c *Config) Settings() (layershell.Settings, error) {
	s := layershell.DefaultSettings()
	sh := c.Shell

	if sh.Namespace != "" {
		s.Namespace = sh.Namespace
	}
	var err error
	if sh.Layer != "" {
		if s.Layer, err = layershell.ParseLayer(sh.Layer); err != nil {
			return s, fmt.Errorf("shell.layer: %w", err)
		}
	}
	if sh.Anchor != nil {
		if s.Anchor, err = layershell.ParseAnchor(sh.Anchor); err != nil {
			return s, fmt.Errorf("shell.anchor: %w", err)
		}
	}
	if sh.KeyboardInteractivity != "" {
		if s.KeyboardInteractivity, err = layershell.ParseKeyboardInteractivity(sh.KeyboardInteractivity); err != nil {
			return s, fmt.Errorf("shell.keyboard_interactivity: %w", err)
		}
	}
	if s.StartMode, err = layershell.ParseStartMode(sh.StartMode, sh.Output); err != nil {
		return s, fmt.Errorf("shell.start_mode: %w", err)
	}
	s.Width, s.Height = sh.Width, sh.Height
	s.ExclusiveZone = sh.ExclusiveZone
	s.Margin = layershell.Margin{Top: sh.Margin.Top, Right: sh.Margin.Right, Bottom: sh.Margin.Bottom, Left: sh.Margin.Left}
	s.EventsTransparent = sh.EventsTransparent

	ext := c.Extensions
	s.Blur = ext.Blur
	s.Shadow = ext.Shadow
	s.HomeOnly = ext.HomeOnly
	s.HideOnHome = ext.HideOnHome
	s.VoiceMode = ext.VoiceMode
	s.ForeignToplevel = ext.ForeignToplevel
	switch len(ext.CornerRadius) {
	case 0:
	case 1:
		r := ext.CornerRadius[0]
		s.CornerRadius = &[4]uint32{r, r, r, r}
	case 4:
		s.CornerRadius = &[4]uint32{ext.CornerRadius[0], ext.CornerRadius[1], ext.CornerRadius[2], ext.CornerRadius[3]}
	default:
		return s, fmt.Errorf("extensions.corner_radius: want 1 or 4 values, got %d", len(ext.CornerRadius))
	}
	if ah := ext.AutoHide; ah.Enabled {
		edge, err := layershell.ParseAutoHideEdge(ah.Edge)
		if err != nil {
			return s, fmt.Errorf("extensions.auto_hide.edge: %w", err)
		}
		mode, err := layershell.ParseAutoHideMode(ah.Mode)
		if err != nil {
			return s, fmt.Errorf("extensions.auto_hide.mode: %w", err)
		}
		s.AutoHide = &layershell.AutoHide{Edge: edge, Zone: ah.Zone, Mode: mode}
	}

	if len(c.ToplevelStates) > 0 {
		states, err := parseToplevelStates(c.ToplevelStates)
		if err != nil {
			return s, fmt.Errorf("toplevel_states: %w", err)
		}
		s.ToplevelStates = states
	}

	if c.Engine.TickInterval > 0 {
		s.TickInterval = c.Engine.TickInterval
	}
	s.ImeAllowed = c.Engine.ImeAllowed
	s.UseDisplayHandle = c.Engine.UseDisplayHandle
	return s, nil
}

func parseToplevelStates(raw map[string]string) (layershell.ToplevelStateMap, error) {
	m := make(layershell.ToplevelStateMap, len(raw))
	for key, name := range raw {
		v, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("state value %q is not a number", key)
		}
		state, err := layershell.ParseToplevelState(name)
		if err != nil {
			return nil, err
		}
		m[uint32(v)] = state
	}
	return m, nil
}
