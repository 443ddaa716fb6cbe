package ui

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type sampleOutput struct {
	Name  string `json:"name" yaml:"name"`
	Width int32  `json:"width" yaml:"width"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"yaml", FormatYAML, false},
		{"json", FormatJSON, false},
		{"xml", "", true},
		{"JSON", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrinterStructured(t *testing.T) {
	data := []sampleOutput{{Name: "DP-1", Width: 2560}, {Name: "HDMI-A-1", Width: 1920}}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		p := &Printer{Format: FormatJSON, Out: &buf}
		require.NoError(t, p.Print(data, nil, nil))

		var got []sampleOutput
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, data, got)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		p := &Printer{Format: FormatYAML, Out: &buf}
		require.NoError(t, p.Print(data, nil, nil))
		assert.Contains(t, buf.String(), "- name: DP-1")

		var got []sampleOutput
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, data, got)
	})
}

func TestPrinterTable(t *testing.T) {
	headers := []string{"NAME", "WIDTH"}
	rows := [][]string{{"DP-1", "2560"}, {"HDMI-A-1", "1920"}}

	for _, styled := range []bool{false, true} {
		name := "plain"
		if styled {
			name = "styled"
		}
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			p := &Printer{Format: FormatTable, Out: &buf, Styled: styled}
			require.NoError(t, p.Print(nil, headers, rows))

			out := buf.String()
			for _, s := range []string{"NAME", "WIDTH", "DP-1", "HDMI-A-1", "1920"} {
				assert.Contains(t, out, s)
			}
			if !styled {
				assert.NotContains(t, out, "╭")
			}
			assert.Less(t, strings.Index(out, "DP-1"), strings.Index(out, "HDMI-A-1"))
		})
	}
}

func TestIsTTY(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTTY(f))
	assert.False(t, NewPrinter(FormatTable, f).Styled)
	assert.False(t, NewPrinter(FormatTable, &bytes.Buffer{}).Styled)
}
