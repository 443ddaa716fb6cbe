package cmd

import (
	"fmt"

	"github.com/bnema/waylayer/layershell"
	"github.com/spf13/cobra"
)

// outputRow is the structured form of one output
type outputRow struct {
	Name          string  `json:"name" yaml:"name"`
	Description   string  `json:"description" yaml:"description"`
	Make          string  `json:"make" yaml:"make"`
	Model         string  `json:"model" yaml:"model"`
	Width         int32   `json:"width" yaml:"width"`
	Height        int32   `json:"height" yaml:"height"`
	RefreshHz     float64 `json:"refresh_hz" yaml:"refresh_hz"`
	Scale         int32   `json:"scale" yaml:"scale"`
	X             int32   `json:"x" yaml:"x"`
	Y             int32   `json:"y" yaml:"y"`
	LogicalWidth  int32   `json:"logical_width" yaml:"logical_width"`
	LogicalHeight int32   `json:"logical_height" yaml:"logical_height"`
}

var outputsCmd = &cobra.Command{
	Use:   "outputs",
	Short: "List compositor outputs",
	Long:  `List outputs as seen by the engine, merging wl_output modes with xdg-output names and logical geometry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		printer, err := newPrinter(cmd)
		if err != nil {
			return err
		}

		st, err := newEngine(func(s *layershell.Settings) {
			s.StartMode = layershell.StartBackground
		})
		if err != nil {
			return err
		}
		defer st.Close()

		data := outputRows(st.Outputs())
		rows := make([][]string, 0, len(data))
		for _, o := range data {
			rows = append(rows, []string{
				o.Name,
				orDash(o.Description),
				fmt.Sprintf("%dx%d@%.2f", o.Width, o.Height, o.RefreshHz),
				fmt.Sprintf("%dx%d", o.LogicalWidth, o.LogicalHeight),
				fmt.Sprintf("%d,%d", o.X, o.Y),
				fmt.Sprintf("%d", o.Scale),
			})
		}
		return printer.Print(data, []string{"NAME", "DESCRIPTION", "MODE", "LOGICAL", "POSITION", "SCALE"}, rows)
	},
}

func outputRows(outputs []*layershell.Output) []outputRow {
	data := make([]outputRow, 0, len(outputs))
	for _, o := range outputs {
		info := o.Info()
		data = append(data, outputRow{
			Name:          info.Name,
			Description:   info.Description,
			Make:          info.Make,
			Model:         info.Model,
			Width:         info.Width,
			Height:        info.Height,
			RefreshHz:     float64(info.Refresh) / 1000,
			Scale:         info.Scale,
			X:             info.X,
			Y:             info.Y,
			LogicalWidth:  info.LogicalWidth,
			LogicalHeight: info.LogicalHeight,
		})
	}
	return data
}

func init() {
	rootCmd.AddCommand(outputsCmd)
}
