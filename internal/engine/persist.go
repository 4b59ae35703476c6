package engine

import (
	"errors"
	"log/slog"

	"github.com/ayusman/gestura/internal/gesture"
	"github.com/ayusman/gestura/internal/settings"
	"github.com/ayusman/gestura/internal/store"
)

// Persistence is best effort: the in-memory state is authoritative and a
// failed write is logged, never returned.

func ids(gs []gesture.Gesture) []string {
	out := make([]string, len(gs))
	for i, g := range gs {
		out[i] = g.ID
	}
	return out
}

// syncGestures mirrors the current registry state of ids to the store.
// Gestures no longer registered are deleted. The state is read under
// persistMu, so concurrent writers cannot leave an older snapshot behind.
func (e *Engine) syncGestures(ids ...string) {
	if e.store == nil || len(ids) == 0 {
		return
	}

	e.persistMu.Lock()
	defer e.persistMu.Unlock()

	var save []gesture.Gesture
	for _, id := range ids {
		g, err := e.registry.Get(id)
		if errors.Is(err, gesture.ErrNotFound) {
			e.forgetLocked(id)
			continue
		}
		if err != nil {
			e.logger.Warn("Failed to read gesture for persistence",
				slog.String("id", id),
				slog.String("error", err.Error()))
			continue
		}
		save = append(save, g)
	}
	if len(save) == 0 {
		return
	}

	if err := e.store.Gestures().SaveAll(save); err != nil {
		e.logger.Warn("Failed to persist gestures",
			slog.Int("count", len(save)),
			slog.String("error", err.Error()))
	}
}

func (e *Engine) forgetLocked(id string) {
	err := e.store.Gestures().Delete(id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		e.logger.Warn("Failed to delete persisted gesture",
			slog.String("id", id),
			slog.String("error", err.Error()))
	}
}

// persistSettings mirrors the current settings and returns what was written.
func (e *Engine) persistSettings() settings.Settings {
	e.persistMu.Lock()
	defer e.persistMu.Unlock()

	s := e.settings.Get()
	if e.store == nil {
		return s
	}
	if err := e.store.Settings().Save(settingsKey, s); err != nil {
		e.logger.Warn("Failed to persist settings", slog.String("error", err.Error()))
	}
	return s
}
