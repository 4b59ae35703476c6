package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/ayusman/gestura/internal/config"
	"github.com/ayusman/gestura/internal/engine"
	"github.com/ayusman/gestura/internal/plugin"
	"github.com/ayusman/gestura/internal/server"
	"github.com/ayusman/gestura/internal/tray"
)

type serveFlags struct {
	addr      string
	pluginDir string
	staticDir string
	noTray    bool
}

func newServeCmd(opts *options) *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gesture engine with its HTTP API, tray menu and plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts, flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", "", "listen address (overrides [server] addr)")
	cmd.Flags().StringVar(&flags.pluginDir, "plugins", "", "plugin directory (overrides [plugins] dir)")
	cmd.Flags().StringVar(&flags.staticDir, "static", "", "directory of static files for the settings UI")
	cmd.Flags().BoolVar(&flags.noTray, "no-tray", false, "do not show the system tray menu")
	return cmd
}

func runServe(cmd *cobra.Command, opts *options, flags *serveFlags) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	if flags.pluginDir != "" {
		cfg.Plugins.Dir = flags.pluginDir
	}
	if flags.noTray {
		cfg.Tray.Enabled = false
	}

	logger := slog.Default()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	e, st, err := openEngine(cfg, func(c *engine.Config) { c.Registerer = reg })
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("Failed to close db", "error", cerr)
		}
	}()

	mgr := plugin.NewManager(cfg.Plugins.Dir, logger)
	if err := mgr.Discover(); err != nil {
		logger.Warn("Plugin discovery failed", "dir", cfg.Plugins.Dir, "error", err)
	}
	dispatcher := plugin.NewDispatcher(mgr, plugin.NewExecutor(cfg.Plugins.TimeoutMs), logger)
	defer dispatcher.Close()
	e.OnMatch(dispatcher.Handle)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	watcher := startConfigWatcher(ctx, opts.configPath, e, logger)
	if watcher != nil {
		defer watcher.Stop()
	}

	srv := server.New(server.Config{
		StaticDir: flags.staticDir,
		Engine:    e,
		Plugins:   mgr,
		Gatherer:  reg,
		Logger:    logger,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(ctx, cfg.Server.Addr)
		cancel()
	}()

	if cfg.Tray.Enabled {
		t := tray.New(e, logger)
		e.OnMatch(t.HandleMatch)
		e.OnSettingsChange(t.HandleSettings)
		t.OnSettings(func() {
			if err := openBrowser("http://" + cfg.Server.Addr); err != nil {
				logger.Warn("Failed to open settings", "error", err)
			}
		})
		t.OnQuit(cancel)
		go func() {
			<-ctx.Done()
			t.Quit()
		}()

		// The tray event loop must own the main goroutine on macOS.
		t.Run()
		cancel()
	}

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server failed: %w", err)
	}
	logger.Info("Gestura shutdown complete")
	return nil
}

// startConfigWatcher re-applies the [gestures] section whenever the config
// file changes. Watch failures are logged and leave hot reload disabled.
func startConfigWatcher(ctx context.Context, path string, e *engine.Engine, logger *slog.Logger) *config.Watcher {
	if path == "" {
		path = config.DefaultConfigPath()
	}

	w, err := config.NewWatcher(path, func(cfg config.Config) {
		s := e.ModifySettings(cfg.Gestures.Apply)
		logger.Info("Applied gesture settings from config",
			"enabled", s.Enabled,
			"sensitivity", s.Sensitivity)
	}, logger)
	if err != nil {
		logger.Warn("Config hot reload disabled", "error", err)
		return nil
	}
	if err := w.Start(ctx); err != nil {
		logger.Warn("Config hot reload disabled", "path", path, "error", err)
		w.Stop()
		return nil
	}
	return w
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
