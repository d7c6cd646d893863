// Package app runs the pan tracking control loop: it reads frames, asks the
// detector for landmarks, steps the controller session, drives the actuator
// and feeds the display and observers.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/pantrack/internal/actuator"
	"github.com/ayusman/pantrack/internal/capture"
	"github.com/ayusman/pantrack/internal/config"
	"github.com/ayusman/pantrack/internal/detector"
	"github.com/ayusman/pantrack/internal/store"
)

// skipLogEvery limits how often repeated frame read failures are logged.
const skipLogEvery = 100

// Config holds the collaborators and settings of the control loop.
// Camera, Detector and Actuator are required.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Actuator actuator.Sink

	// Display receives the annotated, zoomed frame. Nil means headless.
	Display capture.FrameSink
	// Store journals the session when set.
	Store *store.Store
	// Publishers observe every cycle.
	Publishers []Publisher

	Tuning config.Tuning
	// PortName is recorded in the journal.
	PortName string
	Logger   logrus.FieldLogger
}

// App is the control loop. Run may be called once.
type App struct {
	config    Config
	session   *Session
	log       logrus.FieldLogger
	sessionID string

	mu    sync.RWMutex
	stats Stats
	last  Telemetry
}

// New creates a new App with a fresh controller session.
func New(config Config) (*App, error) {
	if config.Camera == nil {
		return nil, errors.New("app: camera is required")
	}
	if config.Detector == nil {
		return nil, errors.New("app: detector is required")
	}
	if config.Actuator == nil {
		return nil, errors.New("app: actuator is required")
	}
	if config.Display == nil {
		config.Display = capture.Discard{}
	}

	log := config.Logger
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		log = l
	}

	return &App{
		config:  config,
		session: NewSession(config.Tuning),
		log:     log,
	}, nil
}

// Run opens the camera and processes frames until ctx is cancelled, the
// source ends, or the display asks to quit; those all return nil. An
// actuator failure stops the loop and is returned.
func (a *App) Run(ctx context.Context) error {
	if err := a.config.Camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer func() {
		if err := a.config.Camera.Close(); err != nil {
			a.log.WithError(err).Warn("error closing camera")
		}
	}()

	a.startJournal()
	defer a.finishJournal()

	w, h := a.config.Camera.Size()
	a.log.WithFields(logrus.Fields{
		"width":   w,
		"height":  h,
		"angle":   a.session.Angle(),
		"session": a.sessionID,
	}).Info("control loop started")

	for {
		// Cancellation is only observed between cycles.
		select {
		case <-ctx.Done():
			a.log.Info("control loop cancelled")
			return nil
		default:
		}

		stop, err := a.cycle()
		if err != nil {
			a.log.WithError(err).Error("control loop aborted")
			return err
		}
		if stop {
			return nil
		}
	}
}

// Stats returns a copy of the loop counters.
func (a *App) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stats
}

// Last returns the most recent telemetry snapshot.
func (a *App) Last() Telemetry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last
}

// Session returns the controller session. It must not be stepped from
// outside the loop.
func (a *App) Session() *Session {
	return a.session
}

// SessionID returns the journal id of this run, or "" without a store.
func (a *App) SessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sessionID
}

func (a *App) startJournal() {
	if a.config.Store == nil {
		return
	}

	sess, err := a.config.Store.Sessions().Start(a.config.PortName)
	if err != nil {
		a.log.WithError(err).Warn("failed to start session journal")
		return
	}

	a.mu.Lock()
	a.sessionID = sess.ID
	a.mu.Unlock()

	a.record(store.EventStart)
}

func (a *App) finishJournal() {
	stats := a.Stats()
	a.log.WithFields(logrus.Fields{
		"cycles":   stats.Cycles,
		"skipped":  stats.Skipped,
		"commands": stats.Commands,
		"toggles":  stats.Toggles,
		"angle":    a.session.Angle(),
	}).Info("control loop stopped")

	if a.config.Store == nil || a.sessionID == "" {
		return
	}

	a.record(store.EventStop)

	err := a.config.Store.Sessions().Finish(a.sessionID, store.Stats{
		Cycles:     stats.Cycles,
		Skipped:    stats.Skipped,
		Commands:   stats.Commands,
		Toggles:    stats.Toggles,
		FinalAngle: a.session.Angle(),
	})
	if err != nil {
		a.log.WithError(err).Warn("failed to finish session journal")
	}
}

// record journals a controller snapshot. Journal failures never stop the loop.
func (a *App) record(kind store.EventKind) {
	if a.config.Store == nil || a.sessionID == "" {
		return
	}

	err := a.config.Store.Events().Record(&store.Event{
		SessionID: a.sessionID,
		Kind:      kind,
		Mode:      a.session.Mode().String(),
		Zoom:      a.session.Zoom(),
		Angle:     a.session.Angle(),
	})
	if err != nil {
		a.log.WithError(err).WithField("kind", kind).Warn("failed to record event")
	}
}
