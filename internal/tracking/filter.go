package tracking

import "github.com/ayusman/pantrack/internal/smoothing"

// DefaultFilterWindow is the number of recent positions averaged.
const DefaultFilterWindow = 5

// Filter is a moving average over the most recent target positions.
type Filter struct {
	window *smoothing.Window
}

// NewFilter creates a filter averaging up to size positions.
func NewFilter(size int) *Filter {
	return &Filter{window: smoothing.NewWindow(size)}
}

// Update pushes x and returns the filtered position.
func (f *Filter) Update(x float64) float64 {
	return f.window.Add(x)
}

// Value returns the current filtered position, or 0 before any update.
func (f *Filter) Value() float64 {
	return f.window.Mean()
}

// Len returns the number of positions held.
func (f *Filter) Len() int {
	return f.window.Len()
}
