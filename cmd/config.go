package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/bnema/waylayer/internal/config"
	"github.com/bnema/waylayer/internal/logger"
	"github.com/bnema/waylayer/internal/ui"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage waylayer configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		printer, err := newPrinter(cmd)
		if err != nil {
			return err
		}

		values := config.Get().Keys()
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, []string{k, fmt.Sprint(values[k])})
		}
		return printer.Print(values, []string{"KEY", "VALUE"}, rows)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.GetConfigPath())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file",
	Long: `Create a configuration file. On a terminal an interactive form asks for
the main surface settings; use --defaults to write the defaults directly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := config.GetConfigPath()
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(configPath); err == nil && !force {
			logger.Infof("Configuration file already exists at: %s", configPath)
			logger.Info("Use --force to overwrite")
			return nil
		}

		c := *config.Get()
		useDefaults, _ := cmd.Flags().GetBool("defaults")
		if !useDefaults && ui.IsTTY(os.Stdin) && ui.IsTTY(os.Stdout) {
			if err := runConfigForm(&c); err != nil {
				return err
			}
		}
		if _, err := c.Settings(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		config.Update(&c)
		if err := config.Save(); err != nil {
			return err
		}
		logger.Infof("Configuration initialized at: %s", configPath)
		return nil
	},
}

// shellForm holds the form fields that are not plain strings in Config
type shellForm struct {
	width, height, exclusive string
}

func runConfigForm(c *config.Config) error {
	f := shellForm{
		width:     strconv.FormatUint(uint64(c.Shell.Width), 10),
		height:    strconv.FormatUint(uint64(c.Shell.Height), 10),
		exclusive: strconv.FormatInt(int64(c.Shell.ExclusiveZone), 10),
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Namespace").
				Description("Identifies the surfaces to the compositor").
				Value(&c.Shell.Namespace),
			huh.NewSelect[string]().
				Title("Layer").
				Options(huh.NewOptions("background", "bottom", "top", "overlay")...).
				Value(&c.Shell.Layer),
			huh.NewMultiSelect[string]().
				Title("Anchor").
				Description("Edges the surface sticks to").
				Options(huh.NewOptions("top", "bottom", "left", "right")...).
				Value(&c.Shell.Anchor),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Width").
				Description("0 stretches between the left and right anchors").
				Validate(validateUint).
				Value(&f.width),
			huh.NewInput().
				Title("Height").
				Description("0 stretches between the top and bottom anchors").
				Validate(validateUint).
				Value(&f.height),
			huh.NewInput().
				Title("Exclusive zone").
				Description("Space reserved from other windows, -1 to ignore others").
				Validate(validateInt).
				Value(&f.exclusive),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Keyboard interactivity").
				Options(huh.NewOptions("none", "exclusive", "on_demand")...).
				Value(&c.Shell.KeyboardInteractivity),
			huh.NewSelect[string]().
				Title("Start mode").
				Options(huh.NewOptions("active", "background", "all_screens", "target_screen")...).
				Value(&c.Shell.StartMode),
			huh.NewInput().
				Title("Output").
				Description("Output name for target_screen, e.g. DP-1").
				Value(&c.Shell.Output),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("configuration cancelled: %w", err)
	}
	return f.apply(c)
}

func (f shellForm) apply(c *config.Config) error {
	width, err := strconv.ParseUint(f.width, 10, 32)
	if err != nil {
		return fmt.Errorf("width: %w", err)
	}
	height, err := strconv.ParseUint(f.height, 10, 32)
	if err != nil {
		return fmt.Errorf("height: %w", err)
	}
	exclusive, err := strconv.ParseInt(f.exclusive, 10, 32)
	if err != nil {
		return fmt.Errorf("exclusive zone: %w", err)
	}
	c.Shell.Width = uint32(width)
	c.Shell.Height = uint32(height)
	c.Shell.ExclusiveZone = int32(exclusive)
	return nil
}

func validateUint(s string) error {
	if _, err := strconv.ParseUint(s, 10, 32); err != nil {
		return fmt.Errorf("must be a non-negative number")
	}
	return nil
}

func validateInt(s string) error {
	if _, err := strconv.ParseInt(s, 10, 32); err != nil {
		return fmt.Errorf("must be a number")
	}
	return nil
}

func init() {
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing configuration file")
	configInitCmd.Flags().Bool("defaults", false, "Write the defaults without asking")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
