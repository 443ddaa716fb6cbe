package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/waylayer/internal/wayland"
	"github.com/spf13/cobra"
)

var globalsTimeout time.Duration

var globalsCmd = &cobra.Command{
	Use:   "globals",
	Short: "List globals advertised by the compositor",
	Long: `List every global the compositor advertises, with its version.
Useful to check which optional extensions (blur, cursor shape, foreign
toplevel, ...) a compositor supports before enabling them in the config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		printer, err := newPrinter(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), globalsTimeout)
		defer cancel()

		globals, err := wayland.ListGlobals(ctx, socketPath)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(globals))
		for _, g := range globals {
			rows = append(rows, []string{fmt.Sprint(g.Name), g.Interface, fmt.Sprint(g.Version)})
		}
		return printer.Print(globals, []string{"NAME", "INTERFACE", "VERSION"}, rows)
	},
}

func init() {
	globalsCmd.Flags().DurationVar(&globalsTimeout, "timeout", 5*time.Second, "Give up when the compositor does not answer")
	rootCmd.AddCommand(globalsCmd)
}
