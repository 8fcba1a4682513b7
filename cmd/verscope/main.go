package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/verscope/verscope/internal/app"
	"github.com/verscope/verscope/internal/config"
	"github.com/verscope/verscope/internal/version"
)

var cyan = color.New(color.FgHiCyan).SprintFunc()

var rootCmd = &cobra.Command{
	Use:           "verscope",
	Short:         "Browse file histories across synced folder pairs",
	Long:          "verscope finds every known copy of a file across the folder pairs maintained by your file sync tool: the source, its mirror and the timestamped snapshots in the versioning folder.",
	Version:       version.Detailed(),
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return setup()
	}
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultConfigPath, "app config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		historyCmd,
		configCmd,
		remarkCmd,
		watchCmd,
		versionCmd,
	)
}

// setup binds the persistent flags to viper so VERSCOPE_CONFIG and
// VERSCOPE_VERBOSE override the flag defaults, then configures logging.
func setup() error {
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		return err
	}
	if err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		return err
	}
	viper.SetEnvPrefix("VERSCOPE")
	viper.AutomaticEnv()

	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}

	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
	slog.SetDefault(slog.New(handler))
	return nil
}

// newApp loads the config named by --config (or VERSCOPE_CONFIG) and builds
// the app context. Callers must Close it.
func newApp() (*app.App, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
