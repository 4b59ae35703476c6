// Package main provides a browser navigation plugin.
// It turns gesture actions into keyboard shortcuts, sent with AppleScript on
// macOS and xdotool elsewhere.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action  string `json:"action"`
	Payload string `json:"payload,omitempty"`
	Gesture struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Channel string `json:"channel"`
	} `json:"gesture"`
	Confidence float64 `json:"confidence"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// shortcut is a key plus modifiers. "primary" is command on macOS and
// control elsewhere.
type shortcut struct {
	Key       string
	Modifiers []string
}

var shortcuts = map[string]shortcut{
	"GoBack":             {"[", []string{"primary"}},
	"GoForward":          {"]", []string{"primary"}},
	"Reload":             {"r", []string{"primary"}},
	"ReloadBypassCache":  {"r", []string{"primary", "shift"}},
	"Stop":               {".", []string{"primary"}},
	"Home":               {"h", []string{"primary", "shift"}},
	"NewTab":             {"t", []string{"primary"}},
	"CloseTab":           {"w", []string{"primary"}},
	"ReopenClosedTab":    {"t", []string{"primary", "shift"}},
	"NextTab":            {"]", []string{"primary", "shift"}},
	"PreviousTab":        {"[", []string{"primary", "shift"}},
	"DuplicateTab":       {"d", []string{"primary", "shift"}},
	"ScrollToTop":        {"Home", nil},
	"ScrollToBottom":     {"End", nil},
	"ScrollPageUp":       {"Prior", nil},
	"ScrollPageDown":     {"Next", nil},
	"ZoomIn":             {"=", []string{"primary"}},
	"ZoomOut":            {"-", []string{"primary"}},
	"ZoomReset":          {"0", []string{"primary"}},
	"NewWindow":          {"n", []string{"primary"}},
	"CloseWindow":        {"w", []string{"primary", "shift"}},
	"Minimize":           {"m", []string{"primary"}},
	"ToggleFullscreen":   {"f", []string{"primary", "control"}},
	"ToggleBookmarksBar": {"b", []string{"primary", "shift"}},
	"ToggleDevTools":     {"i", []string{"primary", "alt"}},
	"OpenDownloads":      {"j", []string{"primary", "shift"}},
	"OpenHistory":        {"y", []string{"primary"}},
	"OpenBookmarks":      {"o", []string{"primary", "shift"}},
}

// appleKeyCodes covers the named keys AppleScript cannot type.
var appleKeyCodes = map[string]int{
	"Home":  115,
	"End":   119,
	"Prior": 116,
	"Next":  121,
}

var appleModifiers = map[string]string{
	"primary": "command down",
	"control": "control down",
	"alt":     "option down",
	"shift":   "shift down",
}

var xdotoolModifiers = map[string]string{
	"primary": "ctrl",
	"control": "ctrl",
	"alt":     "alt",
	"shift":   "shift",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	sc, ok := shortcuts[req.Action]
	if !ok {
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	if err := send(sc); err != nil {
		writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}

	writeSuccessResponse()
}

func send(sc shortcut) error {
	if runtime.GOOS == "darwin" {
		return runCommand("osascript", "-e", buildAppleScript(sc))
	}
	return runCommand("xdotool", "key", buildXdotoolKey(sc))
}

// buildAppleScript generates an AppleScript for the given shortcut.
func buildAppleScript(sc shortcut) string {
	var mods []string
	for _, m := range sc.Modifiers {
		if am, ok := appleModifiers[m]; ok {
			mods = append(mods, am)
		}
	}

	var press string
	if code, ok := appleKeyCodes[sc.Key]; ok {
		press = fmt.Sprintf("key code %d", code)
	} else {
		press = fmt.Sprintf("keystroke %q", sc.Key)
	}

	if len(mods) == 0 {
		return fmt.Sprintf(`tell application "System Events" to %s`, press)
	}
	return fmt.Sprintf(`tell application "System Events" to %s using {%s}`, press, strings.Join(mods, ", "))
}

// buildXdotoolKey renders the shortcut as an xdotool key chord.
func buildXdotoolKey(sc shortcut) string {
	key := sc.Key
	switch key {
	case "[":
		key = "bracketleft"
	case "]":
		key = "bracketright"
	case ".":
		key = "period"
	case "=":
		key = "equal"
	case "-":
		key = "minus"
	}

	parts := make([]string, 0, len(sc.Modifiers)+1)
	for _, m := range sc.Modifiers {
		if xm, ok := xdotoolModifiers[m]; ok {
			parts = append(parts, xm)
		}
	}
	return strings.Join(append(parts, key), "+")
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

func runCommand(name string, args ...string) error {
	output, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
