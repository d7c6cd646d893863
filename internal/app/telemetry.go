package app

import (
	"time"
)

// Telemetry is a snapshot of one frame cycle, pushed to observers.
type Telemetry struct {
	Cycle   int       `json:"cycle"`
	At      time.Time `json:"at"`
	Session string    `json:"session,omitempty"`
	Mode    string    `json:"mode"`
	Zoom    float64   `json:"zoom"`
	Angle   int       `json:"angle"`
	Command bool      `json:"command"`
	Source  string    `json:"source"`
	TargetX float64   `json:"target_x,omitempty"`
	Gesture string    `json:"gesture"`
	Toggled bool      `json:"toggled,omitempty"`
}

// Publisher receives telemetry after every cycle. Publish must not block
// the control loop.
type Publisher interface {
	Publish(t Telemetry)
}

// Stats are the loop counters.
type Stats struct {
	Cycles   int `json:"cycles"`
	Skipped  int `json:"skipped"`
	Commands int `json:"commands"`
	Toggles  int `json:"toggles"`
}

func newTelemetry(cycle int, sessionID string, out Output) Telemetry {
	t := Telemetry{
		Cycle:   cycle,
		At:      time.Now(),
		Session: sessionID,
		Mode:    out.Mode.String(),
		Zoom:    out.Zoom,
		Angle:   out.Angle,
		Command: out.Command,
		Source:  out.Target.Source.String(),
		Gesture: out.Gesture.String(),
		Toggled: out.Toggled,
	}
	if out.Target.Found() {
		t.TargetX = out.Target.X
	}
	return t
}
