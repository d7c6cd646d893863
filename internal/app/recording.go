package app

import (
	"sync"

	"github.com/ayusman/pantrack/internal/actuator"
)

// RecordingSink is an actuator.Sink that keeps every angle it is sent.
// Setting Err makes Send fail once FailAfter angles have been accepted.
type RecordingSink struct {
	mu        sync.Mutex
	angles    []int
	closed    bool
	Err       error
	FailAfter int
}

var _ actuator.Sink = (*RecordingSink)(nil)

func (r *RecordingSink) Send(angle int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return actuator.ErrPortClosed
	}
	if r.Err != nil && len(r.angles) >= r.FailAfter {
		return r.Err
	}
	r.angles = append(r.angles, angle)
	return nil
}

func (r *RecordingSink) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Angles returns a copy of the angles sent so far.
func (r *RecordingSink) Angles() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.angles...)
}

// RecordingPublisher keeps every telemetry snapshot.
type RecordingPublisher struct {
	mu    sync.Mutex
	items []Telemetry
}

func (p *RecordingPublisher) Publish(t Telemetry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, t)
}

// Items returns a copy of the published snapshots.
func (p *RecordingPublisher) Items() []Telemetry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Telemetry(nil), p.items...)
}
