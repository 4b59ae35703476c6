// Package tray provides a system tray interface for the gestura engine.
package tray

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/gestura/internal/gesture"
	"github.com/ayusman/gestura/internal/settings"
)

// Controller is the part of the engine the tray drives.
type Controller interface {
	Settings() settings.Settings
	ToggleEnabled() bool
	SetChannelEnabled(channel gesture.Channel, enabled bool) error
}

// Tray represents the system tray application.
type Tray struct {
	ctrl       Controller
	logger     *slog.Logger
	onSettings func()
	onQuit     func()
	lastName   string
	shown      settings.Settings
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuToggle      *systray.MenuItem
	menuLastGesture *systray.MenuItem
	menuChannels    map[gesture.Channel]*systray.MenuItem
}

// New creates a new Tray driving ctrl.
func New(ctrl Controller, logger *slog.Logger) *Tray {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tray{
		ctrl:         ctrl,
		logger:       logger,
		menuChannels: make(map[gesture.Channel]*systray.MenuItem),
	}
}

// OnSettings sets the callback function to be called when the settings menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit stops the tray event loop.
func (t *Tray) Quit() {
	systray.Quit()
}

func statusTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

func channelTitle(c gesture.Channel, enabled bool) string {
	if enabled {
		return fmt.Sprintf("  ● %s gestures", c)
	}
	return fmt.Sprintf("  ○ %s gestures", c)
}

func lastGestureTitle(name string) string {
	if name == "" {
		return "Last: none"
	}
	return "Last: " + name
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Gestura")
	systray.SetTooltip("Gestura Pointer Gestures")

	s := t.ctrl.Settings()

	t.mu.Lock()
	t.shown = s
	t.menuToggle = systray.AddMenuItem(statusTitle(s.Enabled), "Toggle gesture recognition")
	systray.AddSeparator()

	for _, c := range gesture.Channels {
		t.menuChannels[c] = systray.AddMenuItem(channelTitle(c, channelFlag(s, c)), "Toggle "+string(c)+" gestures")
	}
	systray.AddSeparator()

	t.menuLastGesture = systray.AddMenuItem(lastGestureTitle(t.lastName), "Last recognized gesture")
	t.menuLastGesture.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Gestura")

	for c, item := range t.menuChannels {
		go func() {
			for range item.ClickedCh {
				t.handleChannel(c)
			}
		}()
	}

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
	t.logger.Debug("Tray exited")
}

// channelFlag reads the per-channel flag, ignoring the global switch.
func channelFlag(s settings.Settings, c gesture.Channel) bool {
	s.Enabled = true
	return s.ChannelEnabled(c)
}

// HandleSettings redraws the status and channel items from s. It has the
// signature of an engine settings handler, so changes made through the API
// or the config file show up in the menu.
func (t *Tray) HandleSettings(s settings.Settings) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.shown = s
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(statusTitle(s.Enabled))
	}
	for c, item := range t.menuChannels {
		item.SetTitle(channelTitle(c, channelFlag(s, c)))
	}
}

// Shown returns the settings the menu currently displays.
func (t *Tray) Shown() settings.Settings {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.shown
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	enabled := t.ctrl.ToggleEnabled()
	t.logger.Info("Gestures toggled from tray", "enabled", enabled)
	t.HandleSettings(t.ctrl.Settings())
}

// handleChannel flips one channel's flag.
func (t *Tray) handleChannel(c gesture.Channel) {
	enabled := !channelFlag(t.ctrl.Settings(), c)
	if err := t.ctrl.SetChannelEnabled(c, enabled); err != nil {
		t.logger.Warn("Failed to toggle channel", "channel", c, "error", err)
		return
	}
	t.HandleSettings(t.ctrl.Settings())
}

// handleSettings handles the settings menu item click.
func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastGesture updates the last gesture display in the menu.
func (t *Tray) SetLastGesture(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastName = name
	if t.menuLastGesture != nil {
		t.menuLastGesture.SetTitle(lastGestureTitle(name))
	}
}

// LastGesture returns the name shown in the last gesture item.
func (t *Tray) LastGesture() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastName
}

// HandleMatch records a recognized gesture. It has the signature of an
// engine match handler.
func (t *Tray) HandleMatch(result gesture.Result) {
	if result.Matched() {
		t.SetLastGesture(result.Gesture.Name)
	}
}
