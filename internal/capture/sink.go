package capture

import (
	"gocv.io/x/gocv"
)

// Keys that end the session from the display window.
const (
	keyEscape = 27
	keyQuit   = 'q'
)

// FrameSink receives every displayed frame. Show reports whether the user
// asked to quit. Sinks must not keep a reference to frame.
type FrameSink interface {
	Show(frame gocv.Mat) (quit bool)
}

// Window shows frames in a desktop window and polls the keyboard.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a named display window.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Show displays frame and waits 1 ms for a key. ESC or q quits.
func (w *Window) Show(frame gocv.Mat) bool {
	w.win.IMShow(frame)
	return isQuitKey(w.win.WaitKey(1))
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}

func isQuitKey(key int) bool {
	if key < 0 {
		return false
	}
	k := key & 0xFF
	return k == keyEscape || k == keyQuit
}

// MultiSink fans a frame out to several sinks. It quits when any of them does.
type MultiSink []FrameSink

func (m MultiSink) Show(frame gocv.Mat) bool {
	quit := false
	for _, s := range m {
		if s == nil {
			continue
		}
		if s.Show(frame) {
			quit = true
		}
	}
	return quit
}

// Discard is a sink that drops frames, used in headless mode.
type Discard struct{}

func (Discard) Show(gocv.Mat) bool { return false }
