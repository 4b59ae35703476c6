package gesture

import (
	"fmt"
	"time"
)

type builtinDef struct {
	id          string
	name        string
	description string
	channel     Channel
	directions  []Direction
	action      ActionKind
}

var builtinDefs = []builtinDef{
	// Navigation
	{"builtin_go_back", "Go Back", "Swipe left to go back", ChannelMouse, []Direction{Left}, GoBack},
	{"builtin_go_forward", "Go Forward", "Swipe right to go forward", ChannelMouse, []Direction{Right}, GoForward},
	{"builtin_reload", "Reload", "Swipe up then down to reload", ChannelMouse, []Direction{Up, Down}, Reload},
	{"builtin_reload_bypass_cache", "Reload Bypass Cache", "Triple swipe to hard reload", ChannelMouse, []Direction{Up, Down, Up}, ReloadBypassCache},

	// Tabs
	{"builtin_new_tab", "New Tab", "Swipe down then right for new tab", ChannelMouse, []Direction{Down, Right}, NewTab},
	{"builtin_close_tab", "Close Tab", "Swipe down then left to close tab", ChannelMouse, []Direction{Down, Left}, CloseTab},
	{"builtin_reopen_closed_tab", "Reopen Closed Tab", "Swipe left then up to reopen tab", ChannelMouse, []Direction{Left, Up}, ReopenClosedTab},
	{"builtin_next_tab", "Next Tab", "Swipe up then right for next tab", ChannelMouse, []Direction{Up, Right}, NextTab},
	{"builtin_previous_tab", "Previous Tab", "Swipe up then left for previous tab", ChannelMouse, []Direction{Up, Left}, PreviousTab},

	// Scrolling
	{"builtin_scroll_to_top", "Scroll to Top", "Swipe right then up to scroll to top", ChannelMouse, []Direction{Right, Up}, ScrollToTop},
	{"builtin_scroll_to_bottom", "Scroll to Bottom", "Swipe right then down to scroll to bottom", ChannelMouse, []Direction{Right, Down}, ScrollToBottom},

	// Zoom
	{"builtin_zoom_in", "Zoom In", "Two-finger pinch out to zoom in", ChannelTrackpad, []Direction{Up}, ZoomIn},
	{"builtin_zoom_out", "Zoom Out", "Two-finger pinch in to zoom out", ChannelTrackpad, []Direction{Down}, ZoomOut},

	// Features
	{"builtin_toggle_sidebar", "Toggle Sidebar", "Triple swipe to toggle sidebar", ChannelMouse, []Direction{Left, Right, Left}, ToggleSidebar},
	{"builtin_toggle_reader_mode", "Toggle Reader Mode", "Triple vertical swipe for reader mode", ChannelMouse, []Direction{Down, Up, Down}, ToggleReaderMode},
	{"builtin_take_screenshot", "Take Screenshot", "Double swipe down to screenshot", ChannelMouse, []Direction{Down, Down}, TakeScreenshot},

	// Window
	{"builtin_toggle_fullscreen", "Toggle Fullscreen", "Double swipe up for fullscreen", ChannelMouse, []Direction{Up, Up}, ToggleFullscreen},
	{"builtin_new_window", "New Window", "Draw N shape for new window", ChannelMouse, []Direction{Up, Right, Down}, NewWindow},

	// Rocker
	{"builtin_rocker_back", "Rocker Back", "Left click while holding right button", ChannelRocker, []Direction{Left}, GoBack},
	{"builtin_rocker_forward", "Rocker Forward", "Right click while holding left button", ChannelRocker, []Direction{Right}, GoForward},

	// Wheel
	{"builtin_wheel_tab_up", "Wheel Tab Switch Up", "Scroll up with right button to previous tab", ChannelWheel, []Direction{Up}, PreviousTab},
	{"builtin_wheel_tab_down", "Wheel Tab Switch Down", "Scroll down with right button to next tab", ChannelWheel, []Direction{Down}, NextTab},
}

// Builtins returns a fresh copy of the builtin gesture set. Builtin ids are
// stable so persisted state can be re-attached after a restart.
func Builtins() []Gesture {
	now := time.Now().UTC()
	out := make([]Gesture, 0, len(builtinDefs))
	for _, d := range builtinDefs {
		dirs := make([]Direction, len(d.directions))
		copy(dirs, d.directions)
		out = append(out, Gesture{
			ID:          d.id,
			Name:        d.name,
			Description: d.description,
			Channel:     d.channel,
			Pattern:     NewPattern(dirs...),
			Action:      Do(d.action),
			Enabled:     true,
			IsBuiltin:   true,
			CreatedAt:   now,
		})
	}
	return out
}

// presetDef builds a preset entry. Presets go through the import path, so
// their ids are assigned on load.
func presetDef(name string, dirs []Direction, minDistance float64, action ActionKind) Gesture {
	p := NewPattern(dirs...)
	p.MinDistance = minDistance
	return Gesture{
		Name:    name,
		Channel: ChannelMouse,
		Pattern: p,
		Action:  Do(action),
		Enabled: true,
	}
}

var presets = map[string][]Gesture{
	"vivaldi": {
		presetDef("Close Tab (Vivaldi)", []Direction{Down, Right}, 30, CloseTab),
		presetDef("New Tab (Vivaldi)", []Direction{Up}, 50, NewTab),
	},
	"opera": {
		presetDef("Home (Opera)", []Direction{Left, Up}, 30, Home),
		presetDef("Minimize (Opera)", []Direction{Down, Left}, 30, Minimize),
	},
}

// PresetNames lists the available preset packs.
func PresetNames() []string {
	return []string{"opera", "vivaldi"}
}

// Preset returns the gestures of a named preset pack.
func Preset(name string) ([]Gesture, error) {
	pack, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", name)
	}
	out := make([]Gesture, len(pack))
	for i, g := range pack {
		out[i] = g.clone()
	}
	return out, nil
}
