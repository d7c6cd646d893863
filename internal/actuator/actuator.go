// Package actuator delivers pan angle commands to the servo board over a
// serial byte stream.
package actuator

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"

	"github.com/ayusman/pantrack/internal/servo"
)

var (
	// ErrPortClosed is returned when sending on a closed sink.
	ErrPortClosed = errors.New("actuator port is closed")
	// ErrWriteFailed wraps transport write failures.
	ErrWriteFailed = errors.New("failed to write to actuator port")
)

// Sink accepts angle commands.
type Sink interface {
	// Send transmits one angle command.
	Send(angle int) error
	// Close releases the transport.
	Close() error
}

// Porter is the minimal interface needed for a serial port.
type Porter interface {
	io.Writer
	io.Closer
}

// Opener opens a port at a path. It is replaced in tests.
type Opener func(path string, mode *serial.Mode) (Porter, error)

func openSerial(path string, mode *serial.Mode) (Porter, error) {
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, err
	}
	return port, nil
}

// Serial writes `ANGLE:<n>` lines to a serial port.
type Serial struct {
	port   Porter
	mu     sync.Mutex
	closed bool
	sent   int
	last   int
}

// Open opens the serial port at path and waits for the board to settle.
func Open(path string, opts PortOptions) (*Serial, error) {
	return OpenWith(openSerial, path, opts)
}

// OpenWith is Open with an explicit opener.
func OpenWith(open Opener, path string, opts PortOptions) (*Serial, error) {
	normalized, err := opts.Normalize()
	if err != nil {
		return nil, err
	}

	mode, err := normalized.SerialMode()
	if err != nil {
		return nil, err
	}

	port, err := open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", path, err)
	}

	if normalized.SettleDelay > 0 {
		time.Sleep(normalized.SettleDelay)
	}

	return NewSerial(port), nil
}

// NewSerial wraps an already open port.
func NewSerial(port Porter) *Serial {
	return &Serial{port: port, last: -1}
}

// Send writes the command line for angle.
func (s *Serial) Send(angle int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrPortClosed
	}

	if _, err := io.WriteString(s.port, servo.Command(angle)); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	s.sent++
	s.last = angle
	return nil
}

// Sent returns the number of commands written.
func (s *Serial) Sent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent
}

// Last returns the last angle written, or -1 before the first command.
func (s *Serial) Last() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Close closes the port. Closing twice is a no-op.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.port.Close()
}

// DryRun logs commands instead of sending them.
type DryRun struct {
	log  logrus.FieldLogger
	mu   sync.Mutex
	last int
}

// NewDryRun creates a sink that logs each command at debug level.
func NewDryRun(log logrus.FieldLogger) *DryRun {
	return &DryRun{log: log, last: -1}
}

// Send logs the command line.
func (d *DryRun) Send(angle int) error {
	d.mu.Lock()
	changed := angle != d.last
	d.last = angle
	d.mu.Unlock()

	if changed {
		d.log.WithField("angle", angle).Debug("dry-run actuator command")
	}
	return nil
}

// Close is a no-op.
func (d *DryRun) Close() error {
	return nil
}
