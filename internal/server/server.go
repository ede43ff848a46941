// Package server provides the HTTP surface of the Heliosphere globe
// service.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/renderix/heliosphere/internal/app"
	"github.com/renderix/heliosphere/internal/control"
	"github.com/renderix/heliosphere/internal/server/api"
	"github.com/renderix/heliosphere/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
}

// Server is the HTTP server for the Heliosphere application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.Handler())

	if s.config.Store != nil {
		stationsHandler := api.NewStationsHandler(s.config.Store, s.stationPlacements())
		s.mux.Handle("/api/stations", stationsHandler)
		s.mux.Handle("/api/stations/", stationsHandler)
	}

	if s.config.App != nil {
		s.mux.HandleFunc("/api/status", s.handleStatus)
		s.mux.HandleFunc("/api/status/retry", s.handleRetry)
		s.mux.HandleFunc("/api/control", s.handleControl)
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.App.Camera()))
		s.mux.Handle("/api/gestures", NewGestureStreamHandler(s.config.App))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// stationPlacements collects the precomputed instance positions keyed by
// station id, so the catalog endpoint can serve them alongside the records.
func (s *Server) stationPlacements() map[string][]float32 {
	if s.config.App == nil {
		return nil
	}

	stations := s.config.App.Stations()
	records := stations.Records()
	positions := stations.Positions()

	placements := make(map[string][]float32, len(records))
	for i := range records {
		placements[records[i].ID] = []float32{positions[i].X, positions[i].Y, positions[i].Z}
	}
	return placements
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

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// statusResponse reports the gesture subsystem state alongside whether
// gesture control is enabled at all.
type statusResponse struct {
	Gesture app.Status `json:"gesture"`
	Enabled bool       `json:"enabled"`
}

// handleStatus handles GET /api/status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Gesture: s.config.App.Status(),
		Enabled: s.config.App.IsEnabled(),
	})
}

// handleRetry handles POST /api/status/retry: a manual restart of a failed
// gesture subsystem.
func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.config.App.Retry(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, statusResponse{
			Gesture: s.config.App.Status(),
			Enabled: s.config.App.IsEnabled(),
		})
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Gesture: s.config.App.Status(),
		Enabled: s.config.App.IsEnabled(),
	})
}

// handleControl handles GET and PUT on /api/control. PUT routes through the
// same write path the gesture binding uses, so manual and gesture-driven
// changes stay consistent and both reach subscribers.
func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.config.App.Controls().Snapshot())

	case http.MethodPut:
		var snapshot control.Snapshot
		if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		s.config.App.ApplyManual(snapshot)
		writeJSON(w, http.StatusOK, s.config.App.Controls().Snapshot())

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
