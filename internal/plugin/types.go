// Package plugin discovers external action handlers and runs them when a
// gesture is recognized.
package plugin

import (
	"encoding/json"
	"slices"
)

// WildcardAction in a manifest claims every action kind.
const WildcardAction = "*"

// Manifest describes a plugin's metadata and the action kinds it handles.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Actions     []string `json:"actions"`
	// Priority orders plugins claiming the same action; higher runs first.
	Priority int `json:"priority,omitempty"`
}

// Handles reports whether the manifest claims action kind.
func (m Manifest) Handles(kind string) bool {
	return slices.Contains(m.Actions, kind) || slices.Contains(m.Actions, WildcardAction)
}

// GestureRef identifies the gesture that triggered a request.
type GestureRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Channel string `json:"channel"`
}

// Request is written to a plugin's stdin as a single JSON document.
type Request struct {
	Action     string     `json:"action"`
	Payload    string     `json:"payload,omitempty"`
	Gesture    GestureRef `json:"gesture"`
	Confidence float64    `json:"confidence"`
}

// Response is read from a plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
