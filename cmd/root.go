package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/waylayer/internal/config"
	"github.com/bnema/waylayer/internal/logger"
	"github.com/bnema/waylayer/internal/ui"
	"github.com/bnema/waylayer/layershell"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFile   string
	outputFormat string
	socketPath   string

	rootCmd = &cobra.Command{
		Use:   "waylayer",
		Short: "waylayer - Wayland layer shell surfaces",
		Long: `waylayer opens layer shell surfaces (bars, overlays, wallpapers) on
wlroots style compositors and drives them from a single event loop.
It also inspects the compositor: outputs, globals and open windows.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context, which ends the event loop cleanly.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default $XDG_CONFIG_HOME/waylayer/waylayer.toml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "", "Compositor socket path (default $XDG_RUNTIME_DIR/$WAYLAND_DISPLAY)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "o", string(ui.FormatTable), "Output format: table, yaml, json")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		config.SetConfigPath(configFile)
	}
	if err := config.Init(); err != nil {
		return err
	}
	if level := config.Get().Logging.LogLevel; level != "" {
		logger.SetLevel(level)
	}
	return nil
}

// newPrinter validates --format and prints to the command's output
func newPrinter(cmd *cobra.Command) (*ui.Printer, error) {
	format, err := ui.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	return ui.NewPrinter(format, cmd.OutOrStdout()), nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// newEngine builds the engine from the loaded configuration. adjust may
// override settings for commands that only inspect the compositor.
func newEngine(adjust func(*layershell.Settings)) (*layershell.WindowState, error) {
	s, err := config.Get().Settings()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if adjust != nil {
		adjust(&s)
	}
	return layershell.NewBuilder("").
		WithSettings(s).
		WithSocket(socketPath).
		Build()
}
