// Package tray provides a system tray status item for a running pantrack session.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/pantrack/internal/app"
)

// Tray represents the system tray application. It implements app.Publisher
// so the title follows the control loop.
type Tray struct {
	onOpen  func()
	onQuit  func()
	mu      sync.RWMutex
	ready   bool
	title   string
	gesture string

	// Native setters, bound in onReady and replaced in tests.
	setTitle   func(string)
	setGesture func(string)
}

// New creates a new Tray instance.
func New() *Tray {
	return &Tray{
		title:    "pantrack",
		gesture:  "Gesture: none",
		setTitle: systray.SetTitle,
	}
}

// OnOpen sets the callback function to be called when the dashboard menu item is clicked.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called and must run on the main thread.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle(t.Title())
	systray.SetTooltip("pantrack pan tracking")

	t.mu.Lock()
	menuGesture := systray.AddMenuItem(t.gesture, "Last classified gesture")
	menuGesture.Disable()
	t.setGesture = menuGesture.SetTitle
	t.ready = true
	t.mu.Unlock()
	systray.AddSeparator()

	menuOpen := systray.AddMenuItem("Open Dashboard...", "Open the status page in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Stop tracking and quit")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
	t.mu.Lock()
	t.ready = false
	t.mu.Unlock()
}

func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
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

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback()
	}

	systray.Quit()
}

// Publish updates the tray title from a cycle snapshot. The title is only
// pushed to the menu bar when its text changes.
func (t *Tray) Publish(tel app.Telemetry) {
	title := StatusTitle(tel)

	gesture := "Gesture: " + tel.Gesture

	t.mu.Lock()
	titleChanged := title != t.title
	gestureChanged := gesture != t.gesture
	t.title = title
	t.gesture = gesture
	ready := t.ready
	setTitle, setGesture := t.setTitle, t.setGesture
	t.mu.Unlock()

	if !ready {
		return
	}
	if titleChanged {
		setTitle(title)
	}
	if gestureChanged {
		setGesture(gesture)
	}
}

// Title returns the current title text.
func (t *Tray) Title() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.title
}

// StatusTitle formats the menu bar text, e.g. "TRACK · 1.54x · 90°".
func StatusTitle(tel app.Telemetry) string {
	return fmt.Sprintf("%s · %.2fx · %d°", tel.Mode, tel.Zoom, tel.Angle)
}
