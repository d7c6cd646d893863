package gesture

import "github.com/ayusman/pantrack/internal/smoothing"

// ZoomConfig bounds and paces the digital zoom.
type ZoomConfig struct {
	Min    float64
	Max    float64
	Speed  float64 // factor change per qualifying frame
	Window int     // smoothing window size
}

// DefaultZoomConfig returns the stock zoom settings.
func DefaultZoomConfig() ZoomConfig {
	return ZoomConfig{
		Min:    1.0,
		Max:    3.0,
		Speed:  0.18,
		Window: 5,
	}
}

// ZoomController accumulates a bounded zoom factor from sustained zoom
// gestures and smooths it with a moving average. Without a qualifying
// gesture the last smoothed value is held; there is no decay.
type ZoomController struct {
	cfg      ZoomConfig
	factor   float64
	window   *smoothing.Window
	smoothed float64
}

// NewZoomController creates a controller at the minimum zoom.
func NewZoomController(cfg ZoomConfig) *ZoomController {
	return &ZoomController{
		cfg:      cfg,
		factor:   cfg.Min,
		window:   smoothing.NewWindow(cfg.Window),
		smoothed: cfg.Min,
	}
}

// Update applies one frame's gesture and returns the smoothed factor.
// Patterns other than exactly one of zoom-in or zoom-out leave the state
// untouched.
func (z *ZoomController) Update(state State) float64 {
	in, out := state.ZoomIn(), state.ZoomOut()
	if in == out {
		return z.smoothed
	}

	if in {
		z.factor += z.cfg.Speed
	} else {
		z.factor -= z.cfg.Speed
	}
	z.factor = clamp(z.factor, z.cfg.Min, z.cfg.Max)

	z.smoothed = z.window.Add(z.factor)
	return z.smoothed
}

// Factor returns the smoothed, externally visible zoom factor.
func (z *ZoomController) Factor() float64 {
	return z.smoothed
}

// Raw returns the clamped, unsmoothed accumulator.
func (z *ZoomController) Raw() float64 {
	return z.factor
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
