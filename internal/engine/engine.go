// Package engine wires the recorder, registry, recognizer, settings and
// statistics into the single service the host application talks to.
package engine

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ayusman/gestura/internal/gesture"
	"github.com/ayusman/gestura/internal/settings"
	"github.com/ayusman/gestura/internal/stats"
	"github.com/ayusman/gestura/internal/store"
)

// settingsKey is the settings table key the gesture settings live under.
const settingsKey = "gestures"

// Config holds configuration options for the engine.
type Config struct {
	// Store mirrors registry and settings mutations when set.
	Store *store.Store
	// Settings is the initial settings record. Nil means defaults.
	Settings *settings.Settings
	// Registerer receives the recognition metrics when set.
	Registerer prometheus.Registerer
	Logger     *slog.Logger
}

// MatchHandler is called after every successful recognition.
type MatchHandler func(gesture.Result)

// SettingsHandler is called with the new settings after every change.
type SettingsHandler func(settings.Settings)

// Engine is the gesture service. Each component guards its own state, so
// readers of one structure never wait on writers of another.
type Engine struct {
	registry   *gesture.Registry
	recorder   *gesture.Recorder
	recognizer *gesture.Recognizer
	settings   *settings.Store
	stats      *stats.Tracker
	store      *store.Store
	logger     *slog.Logger

	// persistMu serializes store writes; each write re-reads the state it
	// mirrors while holding it.
	persistMu sync.Mutex

	hooksMu       sync.RWMutex
	hooks         []MatchHandler
	settingsHooks []SettingsHandler
}

// New creates an Engine seeded with the builtin gestures.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	initial := settings.Default()
	if cfg.Settings != nil {
		initial = *cfg.Settings
	}

	e := &Engine{
		registry: gesture.NewRegistry(),
		settings: settings.NewStore(initial),
		store:    cfg.Store,
		logger:   logger,
	}

	var opts []stats.Option
	if cfg.Registerer != nil {
		opts = append(opts, stats.WithRegisterer(cfg.Registerer))
	}
	e.stats = stats.NewTracker(e.registry, opts...)
	e.recorder = gesture.NewRecorder(e.settings.ChannelEnabled)
	e.recognizer = gesture.NewRecognizer(e.registry, e.stats)

	return e
}

// Load restores gestures and settings from the store. Builtins keep their
// current definitions and only take back enabled state and usage.
func (e *Engine) Load() error {
	if e.store == nil {
		return nil
	}

	gestures, err := e.store.Gestures().List()
	if err != nil {
		return err
	}

	restored := 0
	for _, g := range gestures {
		if e.registry.Restore(g) {
			restored++
			continue
		}
		e.logger.Debug("Skipping retired builtin", slog.String("id", g.ID))
	}

	var s settings.Settings
	switch err := e.store.Settings().Load(settingsKey, &s); {
	case err == nil:
		e.settings.Replace(s)
	case errors.Is(err, store.ErrNotFound):
		e.persistSettings()
	default:
		return err
	}

	// Write back so rows exist for builtins added since the last run.
	e.syncGestures(ids(e.registry.All())...)

	e.logger.Info("Loaded gestures from database",
		slog.Int("restored", restored),
		slog.Int("total", e.registry.Len()))
	return nil
}

// OnMatch registers fn to be called after each successful recognition.
func (e *Engine) OnMatch(fn MatchHandler) {
	e.hooksMu.Lock()
	defer e.hooksMu.Unlock()
	e.hooks = append(e.hooks, fn)
}

func (e *Engine) notify(result gesture.Result) {
	e.hooksMu.RLock()
	hooks := append([]MatchHandler(nil), e.hooks...)
	e.hooksMu.RUnlock()

	for _, fn := range hooks {
		fn(result)
	}
}

// OnSettingsChange registers fn to be called after each settings change.
func (e *Engine) OnSettingsChange(fn SettingsHandler) {
	e.hooksMu.Lock()
	defer e.hooksMu.Unlock()
	e.settingsHooks = append(e.settingsHooks, fn)
}

// settingsChanged mirrors the settings to the store and notifies listeners.
func (e *Engine) settingsChanged() {
	s := e.persistSettings()

	e.hooksMu.RLock()
	hooks := append([]SettingsHandler(nil), e.settingsHooks...)
	e.hooksMu.RUnlock()

	for _, fn := range hooks {
		fn(s)
	}
}

// Registry returns the gesture registry.
func (e *Engine) Registry() *gesture.Registry {
	return e.registry
}

// StatsTracker returns the statistics tracker.
func (e *Engine) StatsTracker() *stats.Tracker {
	return e.stats
}
