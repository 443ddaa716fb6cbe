package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Format selects how list commands print their results
type Format string

const (
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatYAML, FormatJSON:
		return f, nil
	case "":
		return FormatTable, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, yaml or json)", s)
}

// IsTTY reports whether f is an interactive terminal
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Printer writes command results. Tables are styled only when Styled is set.
type Printer struct {
	Format Format
	Out    io.Writer
	Styled bool
}

// NewPrinter prints to out, styling tables when out is a terminal
func NewPrinter(format Format, out io.Writer) *Printer {
	f, ok := out.(*os.File)
	return &Printer{Format: format, Out: out, Styled: ok && IsTTY(f)}
}

// Print writes data as YAML or JSON, or headers and rows as a table.
func (p *Printer) Print(data any, headers []string, rows [][]string) error {
	switch p.Format {
	case FormatJSON:
		enc := json.NewEncoder(p.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(p.Out)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(p.Out, p.table(headers, rows))
		return err
	}
}

func (p *Printer) table(headers []string, rows [][]string) string {
	t := table.New().
		Headers(headers...).
		Rows(rows...)

	if !p.Styled {
		return t.Border(lipgloss.HiddenBorder()).
			BorderTop(false).
			BorderBottom(false).
			BorderLeft(false).
			BorderRight(false).
			BorderColumn(false).
			BorderHeader(false).
			StyleFunc(func(row, col int) lipgloss.Style {
				return lipgloss.NewStyle().PaddingRight(2)
			}).
			String()
	}

	return t.Border(lipgloss.RoundedBorder()).
		BorderStyle(TableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		}).
		String()
}
