// Package smoothing provides fixed-capacity moving-average windows.
package smoothing

import "gonum.org/v1/gonum/stat"

// Window is a bounded FIFO of the most recent samples. Pushing into a full
// window evicts the oldest sample. The zero value is not usable; use NewWindow.
type Window struct {
	buf  []float64
	next int
	full bool
}

// NewWindow creates a window holding at most size samples.
// Sizes below 1 are treated as 1.
func NewWindow(size int) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{buf: make([]float64, 0, size)}
}

// Push appends v, evicting the oldest sample when the window is at capacity.
func (w *Window) Push(v float64) {
	if !w.full {
		w.buf = append(w.buf, v)
		if len(w.buf) == cap(w.buf) {
			w.full = true
		}
		return
	}
	w.buf[w.next] = v
	w.next = (w.next + 1) % len(w.buf)
}

// Add pushes v and returns the new mean.
func (w *Window) Add(v float64) float64 {
	w.Push(v)
	return w.Mean()
}

// Mean returns the arithmetic mean of the samples, or 0 when empty.
func (w *Window) Mean() float64 {
	if len(w.buf) == 0 {
		return 0
	}
	return stat.Mean(w.buf, nil)
}

// Len returns the number of samples held.
func (w *Window) Len() int {
	return len(w.buf)
}

// Cap returns the window capacity.
func (w *Window) Cap() int {
	return cap(w.buf)
}

// Values returns the samples oldest first.
func (w *Window) Values() []float64 {
	out := make([]float64, 0, len(w.buf))
	if !w.full {
		return append(out, w.buf...)
	}
	out = append(out, w.buf[w.next:]...)
	return append(out, w.buf[:w.next]...)
}

// Reset empties the window.
func (w *Window) Reset() {
	w.buf = w.buf[:0]
	w.next = 0
	w.full = false
}
