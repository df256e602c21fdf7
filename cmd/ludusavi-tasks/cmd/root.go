package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/ludusavi-restic-tasks/internal/config"
	"github.com/oshokin/ludusavi-restic-tasks/internal/domain/release"
	"github.com/oshokin/ludusavi-restic-tasks/internal/logger"
	"github.com/oshokin/ludusavi-restic-tasks/internal/version"
)

var (
	// configPath to the optional settings YAML file.
	configPath string
	// rootDir overrides the repository root from the settings file.
	rootDir string
	// logLevel overrides the log level from the settings file.
	logLevel string

	// settings is loaded before any subcommand runs.
	settings *config.Config

	// rootCmd represents the base command; every task is a subcommand.
	rootCmd = &cobra.Command{
		Use:           "ludusavi-tasks",
		Short:         "Build, format, pack and clean the Ludusavi Restic Playnite extension",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadSettings(cmd)
		},
	}
)

// Execute runs the CLI and exits with the status of the failed step.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		code := release.ExitCode(err)

		logger.ErrorKV(ctx, "Task failed", "error", err, "exit_code", code)
		os.Exit(code)
	}
}

// loadSettings resolves settings: defaults, then the settings file, then flags.
func loadSettings(cmd *cobra.Command) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("root") {
		cfg.Root = rootDir

		if err = config.Validate(cfg); err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	level, ok := logger.ParseLogLevel(cfg.LogLevel)
	if !ok {
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}

	logger.SetLevel(level)

	settings = cfg

	return nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to settings file (default "+config.DefaultConfigFilename+" if present)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "r", ".", "repository root")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
}
