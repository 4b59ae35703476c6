// Package fixtures provides recorded strokes for tests.
package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/ayusman/gestura/internal/gesture"
)

//go:embed strokes/*.json
var strokesFS embed.FS

// LoadStroke loads a recorded stroke by name, without the .json suffix.
func LoadStroke(name string) (gesture.Stroke, error) {
	data, err := strokesFS.ReadFile("strokes/" + name + ".json")
	if err != nil {
		return gesture.Stroke{}, fmt.Errorf("load stroke %s: %w", name, err)
	}

	var s gesture.Stroke
	if err := json.Unmarshal(data, &s); err != nil {
		return gesture.Stroke{}, fmt.Errorf("decode stroke %s: %w", name, err)
	}
	return s, nil
}

// Names lists the recorded strokes in lexical order.
func Names() ([]string, error) {
	entries, err := strokesFS.ReadDir("strokes")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
	}
	sort.Strings(names)
	return names, nil
}
