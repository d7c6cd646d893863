package app

import (
	"github.com/ayusman/pantrack/internal/config"
	"github.com/ayusman/pantrack/internal/detector"
	"github.com/ayusman/pantrack/internal/gesture"
	"github.com/ayusman/pantrack/internal/servo"
	"github.com/ayusman/pantrack/internal/tracking"
)

// Session owns the controller state of one run: mode, zoom, tracking filter
// and servo angle. Step is the whole per-frame decision; it does no I/O.
// A Session is not safe for concurrent use.
type Session struct {
	mode    *gesture.ModeController
	zoom    *gesture.ZoomController
	locator *tracking.Locator
	filter  *tracking.Filter
	servo   *servo.Controller
}

// Output is what one Step decided.
type Output struct {
	Mode  gesture.Mode
	Zoom  float64
	Angle int
	// Command is set when Angle must be sent to the actuator this cycle.
	// Every TRACK cycle sends, even without a target; HOLD never does.
	Command bool
	Target  tracking.Target
	Gesture gesture.Kind
	Toggled bool
}

// NewSession creates controllers in their start state: TRACK, minimum zoom,
// empty filter and the configured start angle.
func NewSession(t config.Tuning) *Session {
	return &Session{
		mode:    gesture.NewModeController(),
		zoom:    gesture.NewZoomController(t.Zoom()),
		locator: tracking.NewLocator(t.ShoulderVisibility),
		filter:  tracking.NewFilter(t.TrackWindow),
		servo:   servo.NewController(t.Servo()),
	}
}

// Step runs one frame cycle: classify, mode, zoom, then locate, filter and
// steer when tracking.
func (s *Session) Step(r detector.Result) Output {
	state, present := gesture.Classify(r.RightHand)

	toggled := s.mode.Update(state, present)

	// The toggle frame never zooms.
	if present && !toggled && !state.ToggleOpen() {
		s.zoom.Update(state)
	}

	out := Output{
		Mode:    s.mode.Mode(),
		Zoom:    s.zoom.Factor(),
		Angle:   s.servo.Angle(),
		Toggled: toggled,
	}
	if present {
		out.Gesture = state.Kind()
	}

	if out.Mode == gesture.Hold {
		return out
	}

	out.Target = s.locator.Locate(r.Face, r.Pose)
	if out.Target.Found() {
		s.servo.Update(s.filter.Update(out.Target.X))
	}

	out.Angle = s.servo.Angle()
	out.Command = true
	return out
}

// Mode returns the current mode.
func (s *Session) Mode() gesture.Mode {
	return s.mode.Mode()
}

// Zoom returns the smoothed zoom factor.
func (s *Session) Zoom() float64 {
	return s.zoom.Factor()
}

// Angle returns the current servo angle.
func (s *Session) Angle() int {
	return s.servo.Angle()
}

// Filtered returns the tracking filter's current value and how many samples
// it holds.
func (s *Session) Filtered() (float64, int) {
	return s.filter.Value(), s.filter.Len()
}
