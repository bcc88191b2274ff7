// Package cli defines the cutlist command-line interface.
package cli

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/cutlist/internal/config"
	"github.com/piwi3910/cutlist/internal/logging"
)

const defaultEnvFile = ".env"

// Options stores global CLI options shared between commands.
type Options struct {
	ConfigPath string
	EnvFile    string
	LogLevel   logging.Level

	// Config is resolved before any subcommand runs.
	Config config.Config
}

// Execute builds the root command, runs it with the provided args and logger, and returns any error.
func Execute(args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, logging.LevelInfo)
	}

	opts := &Options{
		ConfigPath: config.DefaultPath(),
		LogLevel:   logging.LevelInfo,
	}

	rootCmd := newRootCommand(opts, logger)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.WithValue(context.Background(), loggerKey{}, logger))
}

func newRootCommand(opts *Options, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cutlist",
		Short:         "cutlist plans how to cut project parts from lumber",
		Long:          "cutlist turns a woodworking project's parts list into per-board cutting layouts, a purchase estimate and printable reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			opts.Config = cfg
			opts.LogLevel = logging.ParseLevel(cfg.LogLevel)

			logger = logging.NewLogger(cmd.ErrOrStderr(), opts.LogLevel)
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			logger.Debug("logger initialized", "level", opts.LogLevel, "config", opts.ConfigPath)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", opts.ConfigPath, "Path to the JSON config file")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "Load environment variables from this file (default .env if present)")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newGenerateCommand(opts),
		newCompareCommand(opts),
		newEstimateCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
		newValidateCommand(opts),
		newServeCommand(opts),
	)

	return cmd
}

// resolveConfig layers the config file, .env files, CUTLIST_* variables and
// the --log-level flag, in that order.
func resolveConfig(cmd *cobra.Command, opts *Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}

	envFile := opts.EnvFile
	if envFile == "" {
		if _, err := os.Stat(defaultEnvFile); err == nil {
			envFile = defaultEnvFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return config.Config{}, err
		}
	}
	if err := config.LoadEnvFiles(envFile); err != nil {
		return config.Config{}, err
	}
	if err := config.ApplyEnv(&cfg, nil); err != nil {
		return config.Config{}, err
	}

	if f := cmd.Flag("log-level"); f != nil && f.Changed {
		cfg.LogLevel = f.Value.String()
	}
	return cfg, nil
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}
