package engine

import (
	"log/slog"

	"github.com/ayusman/gestura/internal/gesture"
)

// Gestures returns every registered gesture in registration order.
func (e *Engine) Gestures() []gesture.Gesture {
	return e.registry.All()
}

// GesturesByChannel returns the enabled gestures of channel.
func (e *Engine) GesturesByChannel(channel gesture.Channel) []gesture.Gesture {
	return e.registry.ListByChannel(channel)
}

// Gesture returns the gesture with the given id.
func (e *Engine) Gesture(id string) (gesture.Gesture, error) {
	return e.registry.Get(id)
}

// CreateGesture registers a custom gesture.
func (e *Engine) CreateGesture(g gesture.Gesture) (gesture.Gesture, error) {
	g.IsBuiltin = false
	created, err := e.registry.Create(g)
	if err != nil {
		return gesture.Gesture{}, err
	}
	e.syncGestures(created.ID)
	return created, nil
}

// UpdateGesture applies a partial update.
func (e *Engine) UpdateGesture(id string, u gesture.Update) (gesture.Gesture, error) {
	updated, err := e.registry.Update(id, u)
	if err != nil {
		return gesture.Gesture{}, err
	}
	e.syncGestures(id)
	return updated, nil
}

// DeleteGesture removes a custom gesture.
func (e *Engine) DeleteGesture(id string) error {
	if err := e.registry.Delete(id); err != nil {
		return err
	}
	e.syncGestures(id)
	return nil
}

// ToggleGesture flips a gesture's enabled flag and returns the new value.
func (e *Engine) ToggleGesture(id string) (bool, error) {
	enabled, err := e.registry.Toggle(id)
	if err != nil {
		return false, err
	}
	e.syncGestures(id)
	return enabled, nil
}

// ResetGestures restores the builtin gestures to their factory state.
// Custom gestures are kept.
func (e *Engine) ResetGestures() {
	e.registry.ResetToDefaults()
	e.syncGestures(ids(e.registry.All())...)
}

// ExportGestures serializes the custom gestures.
func (e *Engine) ExportGestures(f gesture.Format) ([]byte, error) {
	return e.registry.Export(f)
}

// ImportGestures adds the gestures in data as new custom gestures.
func (e *Engine) ImportGestures(data []byte, f gesture.Format) ([]gesture.Gesture, error) {
	imported, err := e.registry.Import(data, f)
	if err != nil {
		return nil, err
	}
	e.syncGestures(ids(imported)...)
	return imported, nil
}

// LoadPreset imports a named preset pack. Builtins drawn with the same
// pattern as a preset gesture are disabled so the preset takes effect.
func (e *Engine) LoadPreset(name string) ([]gesture.Gesture, error) {
	gs, err := gesture.Preset(name)
	if err != nil {
		return nil, err
	}
	inserted, disabled := e.registry.InsertOverriding(gs...)
	for _, b := range disabled {
		e.logger.Info("Preset overrides builtin gesture",
			slog.String("preset", name),
			slog.String("builtin", b.Name))
	}
	e.syncGestures(append(ids(inserted), ids(disabled)...)...)
	return inserted, nil
}
