package gesture

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ActionKind names a browser operation a gesture can trigger.
type ActionKind string

// Navigation.
const (
	GoBack            ActionKind = "GoBack"
	GoForward         ActionKind = "GoForward"
	Reload            ActionKind = "Reload"
	ReloadBypassCache ActionKind = "ReloadBypassCache"
	Stop              ActionKind = "Stop"
	Home              ActionKind = "Home"
)

// Tabs.
const (
	NewTab          ActionKind = "NewTab"
	CloseTab        ActionKind = "CloseTab"
	ReopenClosedTab ActionKind = "ReopenClosedTab"
	NextTab         ActionKind = "NextTab"
	PreviousTab     ActionKind = "PreviousTab"
	DuplicateTab    ActionKind = "DuplicateTab"
	PinTab          ActionKind = "PinTab"
	MuteTab         ActionKind = "MuteTab"
)

// Scrolling and zoom.
const (
	ScrollToTop    ActionKind = "ScrollToTop"
	ScrollToBottom ActionKind = "ScrollToBottom"
	ScrollPageUp   ActionKind = "ScrollPageUp"
	ScrollPageDown ActionKind = "ScrollPageDown"
	ZoomIn         ActionKind = "ZoomIn"
	ZoomOut        ActionKind = "ZoomOut"
	ZoomReset      ActionKind = "ZoomReset"
)

// Window.
const (
	NewWindow        ActionKind = "NewWindow"
	CloseWindow      ActionKind = "CloseWindow"
	Minimize         ActionKind = "Minimize"
	Maximize         ActionKind = "Maximize"
	ToggleFullscreen ActionKind = "ToggleFullscreen"
)

// Features.
const (
	ToggleSidebar      ActionKind = "ToggleSidebar"
	ToggleBookmarksBar ActionKind = "ToggleBookmarksBar"
	ToggleDevTools     ActionKind = "ToggleDevTools"
	ToggleReaderMode   ActionKind = "ToggleReaderMode"
	OpenDownloads      ActionKind = "OpenDownloads"
	OpenHistory        ActionKind = "OpenHistory"
	OpenBookmarks      ActionKind = "OpenBookmarks"
	OpenSettings       ActionKind = "OpenSettings"
	TakeScreenshot     ActionKind = "TakeScreenshot"
)

// Kinds carrying a string payload.
const (
	OpenURL        ActionKind = "OpenUrl"
	RunScript      ActionKind = "RunScript"
	ExecuteCommand ActionKind = "ExecuteCommand"
)

var actionKinds = map[ActionKind]bool{
	GoBack: false, GoForward: false, Reload: false, ReloadBypassCache: false, Stop: false, Home: false,
	NewTab: false, CloseTab: false, ReopenClosedTab: false, NextTab: false, PreviousTab: false,
	DuplicateTab: false, PinTab: false, MuteTab: false,
	ScrollToTop: false, ScrollToBottom: false, ScrollPageUp: false, ScrollPageDown: false,
	ZoomIn: false, ZoomOut: false, ZoomReset: false,
	NewWindow: false, CloseWindow: false, Minimize: false, Maximize: false, ToggleFullscreen: false,
	ToggleSidebar: false, ToggleBookmarksBar: false, ToggleDevTools: false, ToggleReaderMode: false,
	OpenDownloads: false, OpenHistory: false, OpenBookmarks: false, OpenSettings: false, TakeScreenshot: false,
	OpenURL: true, RunScript: true, ExecuteCommand: true,
}

// HasPayload reports whether the kind carries a string payload.
func (k ActionKind) HasPayload() bool {
	return actionKinds[k]
}

// Valid reports whether k is a known action kind.
func (k ActionKind) Valid() bool {
	_, ok := actionKinds[k]
	return ok
}

// Action is the operation a matched gesture resolves to. Only OpenURL,
// RunScript and ExecuteCommand carry a payload.
//
// On the wire a plain action is its kind name ("GoBack") and a payload action
// is a single-key object ({"OpenUrl": "https://example.com"}).
type Action struct {
	Kind    ActionKind
	Payload string
}

// Do returns a payload-free action.
func Do(kind ActionKind) Action {
	return Action{Kind: kind}
}

// OpenURLAction returns an action that opens url.
func OpenURLAction(url string) Action {
	return Action{Kind: OpenURL, Payload: url}
}

// RunScriptAction returns an action that runs script in the page.
func RunScriptAction(script string) Action {
	return Action{Kind: RunScript, Payload: script}
}

// ExecuteCommandAction returns an action that executes a host command.
func ExecuteCommandAction(command string) Action {
	return Action{Kind: ExecuteCommand, Payload: command}
}

// Validate checks that the kind is known and the payload matches it.
func (a Action) Validate() error {
	if !a.Kind.Valid() {
		return fmt.Errorf("unknown action %q", a.Kind)
	}
	if a.Kind.HasPayload() && a.Payload == "" {
		return fmt.Errorf("action %s requires a payload", a.Kind)
	}
	if !a.Kind.HasPayload() && a.Payload != "" {
		return fmt.Errorf("action %s does not take a payload", a.Kind)
	}
	return nil
}

func (a Action) String() string {
	if a.Kind.HasPayload() {
		return fmt.Sprintf("%s(%s)", a.Kind, a.Payload)
	}
	return string(a.Kind)
}

// wireValue is the JSON/YAML shape of the action.
func (a Action) wireValue() any {
	if a.Kind.HasPayload() {
		return map[string]string{string(a.Kind): a.Payload}
	}
	return string(a.Kind)
}

func actionFromWire(name string, payload string) (Action, error) {
	a := Action{Kind: ActionKind(name), Payload: payload}
	if err := a.Validate(); err != nil {
		return Action{}, err
	}
	return a, nil
}

// MarshalJSON implements json.Marshaler.
func (a Action) MarshalJSON() ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(a.wireValue())
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Action) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, err := actionFromWire(name, "")
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	}

	var tagged map[string]string
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("action must be a name or a single-key object: %w", err)
	}
	if len(tagged) != 1 {
		return fmt.Errorf("action object must have exactly one key, got %d", len(tagged))
	}
	for name, payload := range tagged {
		parsed, err := actionFromWire(name, payload)
		if err != nil {
			return err
		}
		*a = parsed
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a Action) MarshalYAML() (any, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a.wireValue(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Action) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := actionFromWire(node.Value, "")
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	case yaml.MappingNode:
		var tagged map[string]string
		if err := node.Decode(&tagged); err != nil {
			return err
		}
		if len(tagged) != 1 {
			return fmt.Errorf("action mapping must have exactly one key, got %d", len(tagged))
		}
		for name, payload := range tagged {
			parsed, err := actionFromWire(name, payload)
			if err != nil {
				return err
			}
			*a = parsed
		}
		return nil
	default:
		return fmt.Errorf("line %d: action must be a name or a single-key mapping", node.Line)
	}
}
