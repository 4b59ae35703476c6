// Package settings holds the process-wide gesture settings.
package settings

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ayusman/gestura/internal/gesture"
)

// ErrOutOfRange is returned by the validating setters.
var ErrOutOfRange = errors.New("value out of range")

// Settings is the user-facing gesture configuration. Trail and preview
// fields are presentation preferences; the engine stores them untouched.
type Settings struct {
	Enabled                 bool    `json:"enabled"`
	MouseGesturesEnabled    bool    `json:"mouse_gestures_enabled"`
	TrackpadGesturesEnabled bool    `json:"trackpad_gestures_enabled"`
	TouchGesturesEnabled    bool    `json:"touch_gestures_enabled"`
	RockerGesturesEnabled   bool    `json:"rocker_gestures_enabled"`
	WheelGesturesEnabled    bool    `json:"wheel_gestures_enabled"`
	ShowGestureTrail        bool    `json:"show_gesture_trail"`
	TrailColor              string  `json:"trail_color"`
	TrailWidth              float64 `json:"trail_width"`
	TrailOpacity            float64 `json:"trail_opacity"`
	ShowActionPreview       bool    `json:"show_action_preview"`
	GestureButton           uint8   `json:"gesture_button"`
	MinStrokeLength         float64 `json:"min_stroke_length"`
	Sensitivity             float64 `json:"sensitivity"`
	RecognitionTimeoutMs    int64   `json:"recognition_timeout"`
}

// Default returns the factory settings.
func Default() Settings {
	return Settings{
		Enabled:                 true,
		MouseGesturesEnabled:    true,
		TrackpadGesturesEnabled: true,
		TouchGesturesEnabled:    true,
		RockerGesturesEnabled:   true,
		WheelGesturesEnabled:    true,
		ShowGestureTrail:        true,
		TrailColor:              "#3b82f6",
		TrailWidth:              3.0,
		TrailOpacity:            0.8,
		ShowActionPreview:       true,
		GestureButton:           2,
		MinStrokeLength:         30.0,
		Sensitivity:             0.7,
		RecognitionTimeoutMs:    2000,
	}
}

// ChannelEnabled reports whether strokes on channel are accepted. The global
// flag overrides every channel flag.
func (s Settings) ChannelEnabled(c gesture.Channel) bool {
	if !s.Enabled {
		return false
	}
	switch c {
	case gesture.ChannelMouse:
		return s.MouseGesturesEnabled
	case gesture.ChannelTrackpad:
		return s.TrackpadGesturesEnabled
	case gesture.ChannelTouch:
		return s.TouchGesturesEnabled
	case gesture.ChannelRocker:
		return s.RockerGesturesEnabled
	case gesture.ChannelWheel:
		return s.WheelGesturesEnabled
	}
	return false
}

// Params returns the values the recognizer consults.
func (s Settings) Params() gesture.Params {
	return gesture.Params{
		Sensitivity:     s.Sensitivity,
		MinStrokeLength: s.MinStrokeLength,
	}
}

func (s *Settings) channelFlag(c gesture.Channel) *bool {
	switch c {
	case gesture.ChannelMouse:
		return &s.MouseGesturesEnabled
	case gesture.ChannelTrackpad:
		return &s.TrackpadGesturesEnabled
	case gesture.ChannelTouch:
		return &s.TouchGesturesEnabled
	case gesture.ChannelRocker:
		return &s.RockerGesturesEnabled
	case gesture.ChannelWheel:
		return &s.WheelGesturesEnabled
	}
	return nil
}

// Store guards a single Settings record.
type Store struct {
	mu       sync.RWMutex
	settings Settings
}

// NewStore creates a Store holding s.
func NewStore(s Settings) *Store {
	return &Store{settings: s}
}

// Get returns a copy of the current settings.
func (st *Store) Get() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.settings
}

// Replace swaps in a whole record without validation.
func (st *Store) Replace(s Settings) {
	st.mu.Lock()
	st.settings = s
	st.mu.Unlock()
}

// Modify applies fn to the settings under the write lock and returns the result.
func (st *Store) Modify(fn func(*Settings)) Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	fn(&st.settings)
	return st.settings
}

// ChannelEnabled reports whether strokes on c are currently accepted.
func (st *Store) ChannelEnabled(c gesture.Channel) bool {
	return st.Get().ChannelEnabled(c)
}

// ToggleEnabled flips the global flag and returns the new value.
func (st *Store) ToggleEnabled() bool {
	return st.Modify(func(s *Settings) { s.Enabled = !s.Enabled }).Enabled
}

// SetEnabled sets the global flag.
func (st *Store) SetEnabled(enabled bool) {
	st.Modify(func(s *Settings) { s.Enabled = enabled })
}

// SetChannelEnabled sets the per-channel flag.
func (st *Store) SetChannelEnabled(c gesture.Channel, enabled bool) error {
	if !c.Valid() {
		return fmt.Errorf("unknown channel %q", c)
	}
	st.Modify(func(s *Settings) { *s.channelFlag(c) = enabled })
	return nil
}

// SetSensitivity sets the sensitivity, which must lie in [0, 1].
func (st *Store) SetSensitivity(v float64) error {
	if !(v >= 0 && v <= 1) {
		return fmt.Errorf("%w: sensitivity must be between 0.0 and 1.0, got %v", ErrOutOfRange, v)
	}
	st.Modify(func(s *Settings) { s.Sensitivity = v })
	return nil
}

// SetGestureButton sets the gesture button: 0 left, 1 middle, 2 right.
func (st *Store) SetGestureButton(button uint8) error {
	if button > 2 {
		return fmt.Errorf("%w: button must be 0 (left), 1 (middle), or 2 (right), got %d", ErrOutOfRange, button)
	}
	st.Modify(func(s *Settings) { s.GestureButton = button })
	return nil
}

// SetMinStrokeLength sets the minimum stroke length in pixels.
func (st *Store) SetMinStrokeLength(px float64) {
	st.Modify(func(s *Settings) { s.MinStrokeLength = px })
}

// SetRecognitionTimeout sets the advisory recognition timeout.
func (st *Store) SetRecognitionTimeout(ms int64) {
	st.Modify(func(s *Settings) { s.RecognitionTimeoutMs = ms })
}

// SetTrail sets the trail appearance.
func (st *Store) SetTrail(color string, width, opacity float64) {
	st.Modify(func(s *Settings) {
		s.TrailColor = color
		s.TrailWidth = width
		s.TrailOpacity = opacity
	})
}

// ShowTrail toggles trail rendering.
func (st *Store) ShowTrail(show bool) {
	st.Modify(func(s *Settings) { s.ShowGestureTrail = show })
}

// ShowActionPreview toggles the action preview.
func (st *Store) ShowActionPreview(show bool) {
	st.Modify(func(s *Settings) { s.ShowActionPreview = show })
}
