// Package config loads the TOML configuration file and watches it for changes.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ayusman/gestura/internal/settings"
)

// Config holds all gestura configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Storage  StorageConfig  `toml:"storage"`
	Plugins  PluginsConfig  `toml:"plugins"`
	Tray     TrayConfig     `toml:"tray"`
	Gestures GesturesConfig `toml:"gestures"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type StorageConfig struct {
	Path string `toml:"path"`
}

type PluginsConfig struct {
	Dir       string `toml:"dir"`
	TimeoutMs int    `toml:"timeout_ms"`
}

type TrayConfig struct {
	Enabled bool `toml:"enabled"`
}

// GesturesConfig overrides individual settings fields. Unset keys leave the
// stored value alone.
type GesturesConfig struct {
	Enabled                 *bool    `toml:"enabled"`
	MouseGesturesEnabled    *bool    `toml:"mouse_gestures_enabled"`
	TrackpadGesturesEnabled *bool    `toml:"trackpad_gestures_enabled"`
	TouchGesturesEnabled    *bool    `toml:"touch_gestures_enabled"`
	RockerGesturesEnabled   *bool    `toml:"rocker_gestures_enabled"`
	WheelGesturesEnabled    *bool    `toml:"wheel_gestures_enabled"`
	ShowGestureTrail        *bool    `toml:"show_gesture_trail"`
	TrailColor              *string  `toml:"trail_color"`
	TrailWidth              *float64 `toml:"trail_width"`
	TrailOpacity            *float64 `toml:"trail_opacity"`
	ShowActionPreview       *bool    `toml:"show_action_preview"`
	GestureButton           *int     `toml:"gesture_button"`
	MinStrokeLength         *float64 `toml:"min_stroke_length"`
	Sensitivity             *float64 `toml:"sensitivity"`
	RecognitionTimeoutMs    *int64   `toml:"recognition_timeout"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr: "127.0.0.1:7373",
		},
		Storage: StorageConfig{
			Path: DefaultDBPath(),
		},
		Plugins: PluginsConfig{
			Dir:       DefaultPluginDir(),
			TimeoutMs: 5000,
		},
		Tray: TrayConfig{
			Enabled: true,
		},
	}
}

// Load reads the TOML config at path over the defaults. An empty path means
// DefaultConfigPath. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultConfigPath()
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to stat config: %w", err)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("parse config %s: unknown key %q", path, undecoded[0].String())
	}

	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Plugins.Dir = expandHome(cfg.Plugins.Dir)

	if err := cfg.Gestures.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate applies the same range checks as the settings setters.
func (g GesturesConfig) Validate() error {
	if g.Sensitivity != nil && !(*g.Sensitivity >= 0 && *g.Sensitivity <= 1) {
		return fmt.Errorf("%w: gestures.sensitivity must be between 0.0 and 1.0, got %v",
			settings.ErrOutOfRange, *g.Sensitivity)
	}
	if g.GestureButton != nil && (*g.GestureButton < 0 || *g.GestureButton > 2) {
		return fmt.Errorf("%w: gestures.gesture_button must be 0, 1 or 2, got %d",
			settings.ErrOutOfRange, *g.GestureButton)
	}
	return nil
}

// Empty reports whether no override is set.
func (g GesturesConfig) Empty() bool {
	return g == GesturesConfig{}
}

// Apply writes every set override into s.
func (g GesturesConfig) Apply(s *settings.Settings) {
	setBool(&s.Enabled, g.Enabled)
	setBool(&s.MouseGesturesEnabled, g.MouseGesturesEnabled)
	setBool(&s.TrackpadGesturesEnabled, g.TrackpadGesturesEnabled)
	setBool(&s.TouchGesturesEnabled, g.TouchGesturesEnabled)
	setBool(&s.RockerGesturesEnabled, g.RockerGesturesEnabled)
	setBool(&s.WheelGesturesEnabled, g.WheelGesturesEnabled)
	setBool(&s.ShowGestureTrail, g.ShowGestureTrail)
	setBool(&s.ShowActionPreview, g.ShowActionPreview)
	if g.TrailColor != nil {
		s.TrailColor = *g.TrailColor
	}
	setFloat(&s.TrailWidth, g.TrailWidth)
	setFloat(&s.TrailOpacity, g.TrailOpacity)
	setFloat(&s.MinStrokeLength, g.MinStrokeLength)
	setFloat(&s.Sensitivity, g.Sensitivity)
	if g.GestureButton != nil {
		s.GestureButton = uint8(*g.GestureButton)
	}
	if g.RecognitionTimeoutMs != nil {
		s.RecognitionTimeoutMs = *g.RecognitionTimeoutMs
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
