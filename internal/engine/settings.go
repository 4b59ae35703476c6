package engine

import (
	"github.com/ayusman/gestura/internal/gesture"
	"github.com/ayusman/gestura/internal/settings"
	"github.com/ayusman/gestura/internal/stats"
)

// Settings returns the current settings.
func (e *Engine) Settings() settings.Settings {
	return e.settings.Get()
}

// UpdateSettings replaces the whole settings record without validation.
func (e *Engine) UpdateSettings(s settings.Settings) {
	e.settings.Replace(s)
	e.settingsChanged()
}

// ModifySettings applies fn under the settings write lock.
func (e *Engine) ModifySettings(fn func(*settings.Settings)) settings.Settings {
	e.settings.Modify(fn)
	e.settingsChanged()
	return e.settings.Get()
}

// Enabled reports the global enable flag.
func (e *Engine) Enabled() bool {
	return e.settings.Get().Enabled
}

// ToggleEnabled flips the global enable flag and returns the new value.
func (e *Engine) ToggleEnabled() bool {
	enabled := e.settings.ToggleEnabled()
	e.settingsChanged()
	return enabled
}

// SetEnabled sets the global enable flag.
func (e *Engine) SetEnabled(enabled bool) {
	e.settings.SetEnabled(enabled)
	e.settingsChanged()
}

// SetChannelEnabled switches a single channel on or off.
func (e *Engine) SetChannelEnabled(channel gesture.Channel, enabled bool) error {
	if err := e.settings.SetChannelEnabled(channel, enabled); err != nil {
		return err
	}
	e.settingsChanged()
	return nil
}

// SetSensitivity sets the segmentation sensitivity, which must lie in [0, 1].
func (e *Engine) SetSensitivity(v float64) error {
	if err := e.settings.SetSensitivity(v); err != nil {
		return err
	}
	e.settingsChanged()
	return nil
}

// SetGestureButton selects the mouse button that draws gestures.
func (e *Engine) SetGestureButton(button uint8) error {
	if err := e.settings.SetGestureButton(button); err != nil {
		return err
	}
	e.settingsChanged()
	return nil
}

// SetMinStrokeLength sets the minimum stroke length in pixels.
func (e *Engine) SetMinStrokeLength(px float64) {
	e.settings.SetMinStrokeLength(px)
	e.settingsChanged()
}

// SetRecognitionTimeout sets the advisory recognition timeout.
func (e *Engine) SetRecognitionTimeout(ms int64) {
	e.settings.SetRecognitionTimeout(ms)
	e.settingsChanged()
}

// SetTrail sets the trail color, width and opacity.
func (e *Engine) SetTrail(color string, width, opacity float64) {
	e.settings.SetTrail(color, width, opacity)
	e.settingsChanged()
}

// ShowTrail turns trail rendering on or off.
func (e *Engine) ShowTrail(show bool) {
	e.settings.ShowTrail(show)
	e.settingsChanged()
}

// ShowActionPreview turns the action preview on or off.
func (e *Engine) ShowActionPreview(show bool) {
	e.settings.ShowActionPreview(show)
	e.settingsChanged()
}

// Stats returns a statistics report.
func (e *Engine) Stats() stats.Report {
	return e.stats.Snapshot()
}

// ResetStats clears the recognition counters.
func (e *Engine) ResetStats() {
	e.stats.Reset()
}
