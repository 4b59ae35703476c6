// Package gesture provides pointer-gesture recording, segmentation and matching.
package gesture

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Channel identifies the input modality a gesture applies to.
type Channel string

const (
	// ChannelMouse is a mouse drag with the gesture button held.
	ChannelMouse Channel = "Mouse"
	// ChannelTrackpad is a multi-finger trackpad swipe.
	ChannelTrackpad Channel = "Trackpad"
	// ChannelTouch is a touch screen swipe.
	ChannelTouch Channel = "Touch"
	// ChannelRocker is a left+right button rocker gesture.
	ChannelRocker Channel = "Rocker"
	// ChannelWheel is a wheel scroll while the gesture button is held.
	ChannelWheel Channel = "Wheel"
)

// Channels lists every supported channel in display order.
var Channels = []Channel{ChannelMouse, ChannelTrackpad, ChannelTouch, ChannelRocker, ChannelWheel}

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	return slices.Contains(Channels, c)
}

// ParseChannel parses a channel name case-insensitively.
func ParseChannel(s string) (Channel, error) {
	for _, c := range Channels {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown channel %q", s)
}

// Direction is one segment of a gesture pattern.
type Direction string

const (
	Right     Direction = "Right"
	DownRight Direction = "DownRight"
	Down      Direction = "Down"
	DownLeft  Direction = "DownLeft"
	Left      Direction = "Left"
	UpLeft    Direction = "UpLeft"
	Up        Direction = "Up"
	UpRight   Direction = "UpRight"

	// Circle and Zigzag are never produced by segmentation. They are kept so
	// patterns that name them still round-trip.
	Circle Direction = "Circle"
	Zigzag Direction = "Zigzag"
)

const customPrefix = "Custom:"

// CustomDirection returns the custom direction variant carrying name.
func CustomDirection(name string) Direction {
	return Direction(customPrefix + name)
}

// CustomName returns the name carried by a custom direction.
func (d Direction) CustomName() (string, bool) {
	return strings.CutPrefix(string(d), customPrefix)
}

// Valid reports whether d is a compass point, a reserved shape or a custom variant.
func (d Direction) Valid() bool {
	switch d {
	case Right, DownRight, Down, DownLeft, Left, UpLeft, Up, UpRight, Circle, Zigzag:
		return true
	}
	name, ok := d.CustomName()
	return ok && name != ""
}

// Pattern describes the shape of a gesture.
type Pattern struct {
	Directions []Direction `json:"directions" yaml:"directions"`
	// MinDistance is carried for compatibility; recognition uses the global
	// minimum stroke length instead.
	MinDistance   float64 `json:"min_distance" yaml:"min_distance"`
	MaxDurationMs int64   `json:"max_duration" yaml:"max_duration"`
	// AngleTolerance is carried but not consulted: matching compares buckets exactly.
	AngleTolerance float64 `json:"tolerance" yaml:"tolerance"`
}

// Pattern defaults.
const (
	DefaultMinDistance    = 30.0
	DefaultMaxDurationMs  = 2000
	DefaultAngleTolerance = 30.0
)

// NewPattern returns a pattern with default constraints.
func NewPattern(dirs ...Direction) Pattern {
	return Pattern{
		Directions:     dirs,
		MinDistance:    DefaultMinDistance,
		MaxDurationMs:  DefaultMaxDurationMs,
		AngleTolerance: DefaultAngleTolerance,
	}
}

// Gesture is a registered gesture definition.
type Gesture struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Channel     Channel    `json:"gesture_type" yaml:"gesture_type"`
	Pattern     Pattern    `json:"pattern" yaml:"pattern"`
	Action      Action     `json:"action" yaml:"action"`
	Enabled     bool       `json:"enabled" yaml:"enabled"`
	IsBuiltin   bool       `json:"is_default" yaml:"is_default"`
	UsageCount  uint64     `json:"usage_count" yaml:"usage_count"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	LastUsed    *time.Time `json:"last_used,omitempty" yaml:"last_used,omitempty"`
}

// NewGesture creates an enabled custom gesture with a fresh identifier.
func NewGesture(name string, channel Channel, pattern Pattern, action Action) Gesture {
	return Gesture{
		ID:        NewID(),
		Name:      name,
		Channel:   channel,
		Pattern:   pattern,
		Action:    action,
		Enabled:   true,
		CreatedAt: time.Now().UTC(),
	}
}

// NewID returns a fresh gesture identifier.
func NewID() string {
	return "gesture_" + uuid.New().String()
}

// clone returns a deep copy so callers never share slices or pointers with the registry.
func (g Gesture) clone() Gesture {
	g.Pattern.Directions = slices.Clone(g.Pattern.Directions)
	if g.LastUsed != nil {
		t := *g.LastUsed
		g.LastUsed = &t
	}
	return g
}

// Update holds the optional fields applied by Registry.Update.
type Update struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Pattern     *Pattern `json:"pattern,omitempty"`
	Action      *Action  `json:"action,omitempty"`
	Enabled     *bool    `json:"enabled,omitempty"`
}
