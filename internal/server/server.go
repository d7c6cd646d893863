// Package server provides the read-only HTTP surface for watching a
// running pantrack session.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/pantrack/internal/app"
	"github.com/ayusman/pantrack/internal/server/api"
	"github.com/ayusman/pantrack/internal/store"
)

// shutdownGrace bounds how long in-flight requests get on shutdown.
const shutdownGrace = 3 * time.Second

// Config holds the server configuration. Every field is optional; routes
// whose backing component is missing are not registered.
type Config struct {
	StaticDir string
	Store     *store.Store
	Frames    *FrameBuffer
	Telemetry *TelemetryHub
	// Stats reports the control loop counters for /api/status.
	Stats  func() app.Stats
	Logger logrus.FieldLogger
}

// Server represents the HTTP server for the pantrack application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	log    logrus.FieldLogger
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	log := config.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		log:    log,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Telemetry != nil || s.config.Stats != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
	}

	if s.config.Telemetry != nil {
		s.mux.Handle("/api/telemetry", s.config.Telemetry)
	}

	if s.config.Frames != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Frames))
	}

	if s.config.Store != nil {
		sessions := api.NewSessionHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessions)
		s.mux.Handle("/api/sessions/", sessions)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	writeJSON(w, response)
}

type statusResponse struct {
	Telemetry *app.Telemetry `json:"telemetry,omitempty"`
	Stats     *app.Stats     `json:"stats,omitempty"`
	Clients   int            `json:"clients"`
}

// handleStatus handles GET /api/status with the latest cycle snapshot.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var response statusResponse
	if s.config.Telemetry != nil {
		last := s.config.Telemetry.Last()
		if last.Cycle > 0 {
			response.Telemetry = &last
		}
		response.Clients = s.config.Telemetry.Clients()
	}
	if s.config.Stats != nil {
		stats := s.config.Stats()
		response.Stats = &stats
	}

	writeJSON(w, response)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		// Streams and websockets are long-lived; force them closed.
		srv.Close()
	}
	return nil
}
