package actuator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

func TestPortOptions_Normalize_Defaults(t *testing.T) {
	got, err := PortOptions{}.Normalize()
	require.NoError(t, err)

	assert.Equal(t, 115200, got.BaudRate)
	assert.Equal(t, 8, got.DataBits)
	assert.Equal(t, 1, got.StopBits)
	assert.Equal(t, "N", got.Parity)
	assert.Equal(t, time.Duration(0), got.SettleDelay)
}

func TestPortOptions_Normalize_ExplicitValues(t *testing.T) {
	opts := PortOptions{BaudRate: 9600, DataBits: 7, StopBits: 2, Parity: "even", SettleDelay: time.Second}
	got, err := opts.Normalize()
	require.NoError(t, err)

	assert.Equal(t, 9600, got.BaudRate)
	assert.Equal(t, 7, got.DataBits)
	assert.Equal(t, 2, got.StopBits)
	assert.Equal(t, "E", got.Parity)
	assert.Equal(t, time.Second, got.SettleDelay)
}

func TestPortOptions_Normalize_Invalid(t *testing.T) {
	tests := []struct {
		name string
		opts PortOptions
	}{
		{"data bits too low", PortOptions{DataBits: 4}},
		{"data bits too high", PortOptions{DataBits: 9}},
		{"stop bits", PortOptions{StopBits: 3}},
		{"parity", PortOptions{Parity: "mark"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.opts.Normalize()
			assert.Error(t, err)
		})
	}
}

func TestPortOptions_SerialMode(t *testing.T) {
	mode, err := PortOptions{BaudRate: 115200, StopBits: 2, Parity: "O"}.SerialMode()
	require.NoError(t, err)

	assert.Equal(t, 115200, mode.BaudRate)
	assert.Equal(t, 8, mode.DataBits)
	assert.Equal(t, serial.TwoStopBits, mode.StopBits)
	assert.Equal(t, serial.OddParity, mode.Parity)

	mode, err = PortOptions{}.SerialMode()
	require.NoError(t, err)
	assert.Equal(t, serial.OneStopBit, mode.StopBits)
	assert.Equal(t, serial.NoParity, mode.Parity)
}
