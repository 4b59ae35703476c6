package gesture

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an import/export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name; an empty name selects JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Export encodes every custom gesture in the registry.
func (r *Registry) Export(f Format) ([]byte, error) {
	return Encode(r.Custom(), f)
}

// Import decodes gestures and inserts them as custom gestures with fresh ids.
// It returns the inserted snapshots.
func (r *Registry) Import(data []byte, f Format) ([]Gesture, error) {
	gs, err := Decode(data, f)
	if err != nil {
		return nil, err
	}
	return r.Insert(gs...), nil
}

// Encode serializes gestures.
func Encode(gs []Gesture, f Format) ([]byte, error) {
	if gs == nil {
		gs = []Gesture{}
	}
	switch f {
	case FormatYAML:
		return yaml.Marshal(gs)
	case FormatJSON, "":
		return json.MarshalIndent(gs, "", "  ")
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

// Decode parses a list of gestures. Malformed input yields ErrDecode.
func Decode(data []byte, f Format) ([]Gesture, error) {
	var gs []Gesture
	var err error
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(data, &gs)
	case FormatJSON, "":
		err = json.Unmarshal(data, &gs)
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	for i, g := range gs {
		if !g.Channel.Valid() {
			return nil, fmt.Errorf("%w: gesture %d: unknown channel %q", ErrDecode, i, g.Channel)
		}
		if err := g.Action.Validate(); err != nil {
			return nil, fmt.Errorf("%w: gesture %d: %v", ErrDecode, i, err)
		}
		for _, d := range g.Pattern.Directions {
			if !d.Valid() {
				return nil, fmt.Errorf("%w: gesture %d: unknown direction %q", ErrDecode, i, d)
			}
		}
	}
	return gs, nil
}
