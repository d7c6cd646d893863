package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/pantrack/internal/app"
)

const (
	// clientBuffer is how many snapshots may queue per client before
	// further ones are dropped for that client.
	clientBuffer = 32
	writeWait    = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// TelemetryHub fans cycle telemetry out to WebSocket clients. It is an
// app.Publisher; Publish never blocks the control loop.
type TelemetryHub struct {
	log     logrus.FieldLogger
	clients map[string]chan []byte
	last    app.Telemetry
	mu      sync.RWMutex
}

var _ app.Publisher = (*TelemetryHub)(nil)

// NewTelemetryHub creates a hub with no clients.
func NewTelemetryHub(log logrus.FieldLogger) *TelemetryHub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &TelemetryHub{
		log:     log,
		clients: make(map[string]chan []byte),
	}
}

// Publish records t as the latest snapshot and queues it for every client.
func (h *TelemetryHub) Publish(t app.Telemetry) {
	h.mu.Lock()
	h.last = t
	h.mu.Unlock()

	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(t)
	if err != nil {
		h.log.WithError(err).WithField("cycle", t.Cycle).Debug("failed to encode telemetry")
		return
	}
	for _, ch := range h.clients {
		select {
		case ch <- msg:
		default:
			// Slow client; it will catch up with later snapshots.
		}
	}
}

// Last returns the most recent snapshot.
func (h *TelemetryHub) Last() app.Telemetry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last
}

// Clients returns the number of connected clients.
func (h *TelemetryHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *TelemetryHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade error")
		return
	}
	defer conn.Close()

	id := uuid.New().String()
	ch := make(chan []byte, clientBuffer)

	h.mu.Lock()
	h.clients[id] = ch
	h.mu.Unlock()
	h.log.WithField("client", id).Debug("telemetry client connected")

	defer func() {
		h.mu.Lock()
		delete(h.clients, id)
		h.mu.Unlock()
		h.log.WithField("client", id).Debug("telemetry client disconnected")
	}()

	// Reads only detect the close; clients send nothing meaningful.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case msg := <-ch:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}
