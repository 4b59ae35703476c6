// Package main provides the CLI entrypoint for gestura.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ayusman/gestura/internal/config"
	"github.com/ayusman/gestura/internal/engine"
	"github.com/ayusman/gestura/internal/store"
)

// options are the flags shared by every command.
type options struct {
	configPath string
	dbPath     string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "gestura",
		Short: "Pointer gesture recognition engine",
		Long: `Gestura recognizes mouse, trackpad, touch, rocker and wheel gestures
from pointer strokes and maps them to browser actions.

Run "gestura serve" to start the configuration API, the tray menu and
the action plugins.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(cmd, opts.logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path (default: $XDG_CONFIG_HOME/gestura/config.toml)")
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database path (overrides [storage] path)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))
	rootCmd.AddCommand(newImportCmd(opts))
	rootCmd.AddCommand(newResetCmd(opts))
	rootCmd.AddCommand(newPresetCmd(opts))
	rootCmd.AddCommand(newStatsCmd(opts))

	return rootCmd
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func setupLogging(cmd *cobra.Command, level string) {
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: parseLevel(level)}))
	slog.SetDefault(logger)
}

// loadConfig reads the config file and applies the flag overrides.
func (o *options) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	if o.dbPath != "" {
		cfg.Storage.Path = o.dbPath
	}
	return cfg, nil
}

// openEngine opens the store and returns an engine restored from it with
// the [gestures] overrides applied. The caller closes the store.
func openEngine(cfg config.Config, opts ...func(*engine.Config)) (*engine.Engine, *store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	st, err := store.New(cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}

	ecfg := engine.Config{Store: st, Logger: slog.Default()}
	for _, opt := range opts {
		opt(&ecfg)
	}

	e := engine.New(ecfg)
	if err := e.Load(); err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("failed to load gestures: %w", err)
	}
	if !cfg.Gestures.Empty() {
		e.ModifySettings(cfg.Gestures.Apply)
	}
	return e, st, nil
}

// withEngine runs fn against an engine opened from the configured store.
func (o *options) withEngine(fn func(*engine.Engine) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}

	e, st, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			slog.Warn("Failed to close db", "error", cerr)
		}
	}()

	return fn(e)
}
