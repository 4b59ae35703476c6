// Package main provides a plugin that opens a gesture's URL in the default browser.
package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action  string `json:"action"`
	Payload string `json:"payload,omitempty"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("failed to decode request: %v", err)})
		return
	}

	if req.Action != "OpenUrl" {
		writeResponse(Response{Error: fmt.Sprintf("unknown action: %s", req.Action)})
		return
	}

	target, err := validateURL(req.Payload)
	if err != nil {
		writeResponse(Response{Error: err.Error()})
		return
	}

	if err := exec.Command(opener(), target).Run(); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("open %s: %v", target, err)})
		return
	}

	writeResponse(Response{Success: true})
}

// validateURL accepts absolute http, https and file URLs only.
func validateURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "file":
		return u.String(), nil
	default:
		return "", fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
}

func opener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}

func writeResponse(resp Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}
