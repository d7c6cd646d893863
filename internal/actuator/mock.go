package actuator

import (
	"bytes"
	"errors"
	"strings"
	"sync"
)

// MockPort implements Porter for testing. It records everything written
// and can inject write and close errors.
type MockPort struct {
	mu sync.Mutex

	// WriteBuffer captures data written to the port
	WriteBuffer bytes.Buffer

	// WriteError is returned by every Write call while set
	WriteError error

	// CloseError is returned by Close if set
	CloseError error

	// Closed indicates whether Close was called
	Closed bool

	// WriteCalls records the number of Write calls
	WriteCalls int
}

// NewMockPort creates an empty MockPort.
func NewMockPort() *MockPort {
	return &MockPort{}
}

// Write appends p to the write buffer.
func (m *MockPort) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCalls++
	if m.Closed {
		return 0, errors.New("mock port closed")
	}
	if m.WriteError != nil {
		return 0, m.WriteError
	}
	return m.WriteBuffer.Write(p)
}

// Close marks the port as closed.
func (m *MockPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return m.CloseError
}

// Lines returns the written command lines without their newlines.
func (m *MockPort) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := strings.TrimSuffix(m.WriteBuffer.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
