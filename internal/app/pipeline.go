package app

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/pantrack/internal/capture"
	"github.com/ayusman/pantrack/internal/detector"
	"github.com/ayusman/pantrack/internal/gesture"
	"github.com/ayusman/pantrack/internal/store"
	"github.com/ayusman/pantrack/internal/tracking"
)

// cycle processes one frame. It reports stop when the source ended or the
// display asked to quit, and returns an error only for actuator failures.
//
// Order within a cycle:
//  1. read a frame (failure skips the cycle with no state change)
//  2. detect landmarks (failure counts as an empty frame)
//  3. step the session
//  4. send the angle on TRACK cycles
//  5. draw the overlay, zoom and show
//  6. publish telemetry
func (a *App) cycle() (stop bool, err error) {
	frame, err := a.config.Camera.ReadFrame()
	if err != nil {
		if errors.Is(err, capture.ErrEndOfStream) {
			a.log.Info("frame source exhausted")
			return true, nil
		}
		a.skip(err)
		return false, nil
	}
	defer frame.Close()

	result, err := a.config.Detector.Detect(frame)
	if err != nil {
		a.log.WithError(err).Warn("landmark detection failed")
		result = detector.Result{}
	}

	out := a.session.Step(result)

	a.mu.Lock()
	a.stats.Cycles++
	cycle := a.stats.Cycles
	if out.Toggled {
		a.stats.Toggles++
	}
	sessionID := a.sessionID
	a.mu.Unlock()

	if out.Toggled {
		a.log.WithFields(logrus.Fields{
			"mode":  out.Mode,
			"zoom":  out.Zoom,
			"angle": out.Angle,
		}).Info("mode toggled")
		a.record(store.EventToggle)
	}

	if out.Command {
		if err := a.config.Actuator.Send(out.Angle); err != nil {
			return true, fmt.Errorf("send angle %d: %w", out.Angle, err)
		}
		a.mu.Lock()
		a.stats.Commands++
		a.mu.Unlock()
	}

	quit := a.show(frame, out)

	t := newTelemetry(cycle, sessionID, out)
	a.mu.Lock()
	a.last = t
	a.mu.Unlock()
	for _, p := range a.config.Publishers {
		p.Publish(t)
	}

	if quit {
		a.log.Info("quit requested from display")
	}
	return quit, nil
}

// show annotates the frame, applies the zoom crop and hands it to the display.
func (a *App) show(frame *gocv.Mat, out Output) bool {
	overlay := capture.Overlay{Mode: out.Mode, Zoom: out.Zoom}
	if out.Mode == gesture.Track && out.Target.Source == tracking.SourceFace {
		overlay.Nose = &detector.Landmark{X: out.Target.X, Y: out.Target.Y}
	}
	capture.DrawOverlay(frame, overlay)

	zoomed := capture.Zoom(*frame, out.Zoom)
	defer zoomed.Close()

	return a.config.Display.Show(zoomed)
}

func (a *App) skip(err error) {
	a.mu.Lock()
	a.stats.Skipped++
	n := a.stats.Skipped
	a.mu.Unlock()

	if n == 1 || n%skipLogEvery == 0 {
		a.log.WithError(err).WithField("skipped", n).Debug("frame read failed, skipping cycle")
	}
}
