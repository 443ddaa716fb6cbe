package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bnema/waylayer/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs root with args and returns what it printed
func executeCommand(t *testing.T, root *cobra.Command, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := executeCommand(t, rootCmd, "version", "--config", filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Contains(t, out, "waylayer "+Version)
	assert.Contains(t, out, "commit: ")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "waylayer.toml")

	t.Run("creates config file when it doesn't exist", func(t *testing.T) {
		_, err := executeCommand(t, rootCmd, "config", "init", "--defaults", "--force=false", "--config", path)
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "namespace")
		assert.Contains(t, string(content), "tick_interval")
	})

	t.Run("doesn't overwrite existing config without force", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("[shell]\nnamespace = \"keep\"\n"), 0644))

		_, err := executeCommand(t, rootCmd, "config", "init", "--defaults", "--force=false", "--config", path)
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[shell]\nnamespace = \"keep\"\n", string(content))
	})

	t.Run("overwrites with force flag", func(t *testing.T) {
		_, err := executeCommand(t, rootCmd, "config", "init", "--defaults", "--force", "--config", path)
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "keep")
		assert.Contains(t, string(content), "keyboard_interactivity")
	})
}

func TestConfigInitRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waylayer.toml")
	require.NoError(t, os.WriteFile(path, []byte("[shell]\nlayer = \"sideways\"\n"), 0644))

	_, err := executeCommand(t, rootCmd, "config", "init", "--defaults", "--force", "--config", path)
	assert.ErrorContains(t, err, "shell.layer")
}

func TestConfigShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waylayer.toml")
	require.NoError(t, os.WriteFile(path, []byte("[shell]\nlayer = \"overlay\"\nheight = 48\n"), 0644))

	t.Run("json", func(t *testing.T) {
		out, err := executeCommand(t, rootCmd, "config", "show", "--format", "json", "--config", path)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "overlay", got["shell.layer"])
		assert.Equal(t, float64(48), got["shell.height"])
		assert.Equal(t, "waylayer", got["shell.namespace"])
	})

	t.Run("table", func(t *testing.T) {
		out, err := executeCommand(t, rootCmd, "config", "show", "--format", "table", "--config", path)
		require.NoError(t, err)
		assert.Contains(t, out, "KEY")
		assert.Contains(t, out, "shell.layer")
		assert.Contains(t, out, "overlay")
		assert.Less(t, strings.Index(out, "engine.tick_interval"), strings.Index(out, "shell.layer"))
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := executeCommand(t, rootCmd, "config", "show", "--format", "xml", "--config", path)
		assert.ErrorContains(t, err, "unknown output format")
	})
}

func TestConfigPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	out, err := executeCommand(t, rootCmd, "config", "path", "--format", "table", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path, strings.TrimSpace(out))
}

func TestShellFormApply(t *testing.T) {
	tests := []struct {
		name    string
		form    shellForm
		wantErr string
	}{
		{"valid", shellForm{width: "0", height: "32", exclusive: "-1"}, ""},
		{"negative width", shellForm{width: "-1", height: "32", exclusive: "0"}, "width"},
		{"bad height", shellForm{width: "0", height: "tall", exclusive: "0"}, "height"},
		{"bad zone", shellForm{width: "0", height: "1", exclusive: "x"}, "exclusive zone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig
			err := tt.form.apply(&cfg)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint32(32), cfg.Shell.Height)
			assert.Equal(t, int32(-1), cfg.Shell.ExclusiveZone)
		})
	}
	assert.NoError(t, validateUint("12"))
	assert.Error(t, validateUint("-3"))
	assert.NoError(t, validateInt("-3"))
	assert.Error(t, validateInt("3.5"))
}
