// Package api provides HTTP API handlers for the Heliosphere globe
// service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/renderix/heliosphere/internal/globe"
	"github.com/renderix/heliosphere/internal/store"
)

// StationsHandler serves the persisted PV station catalog. The catalog is
// read-only over HTTP: it is generated and persisted at startup, and the
// renderer only ever fetches it. When placements are provided, each station
// carries its precomputed position on the render sphere so the browser
// never re-derives the projection.
type StationsHandler struct {
	store      *store.Store
	placements map[string][]float32
}

// NewStationsHandler creates a StationsHandler backed by the given store.
// placements maps station id to its projected [x, y, z] and may be nil.
func NewStationsHandler(s *store.Store, placements map[string][]float32) *StationsHandler {
	return &StationsHandler{store: s, placements: placements}
}

// ServeHTTP routes /api/stations and /api/stations/{id}.
func (h *StationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/stations")
	path = strings.TrimPrefix(path, "/")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if path == "" {
		h.list(w, r)
		return
	}
	h.get(w, r, path)
}

type stationResponse struct {
	ID      string  `json:"id"`
	Lat     float32 `json:"lat"`
	Lon     float32 `json:"lon"`
	AreaKm2 float64 `json:"areaKm2"`
	Size    string  `json:"size"`

	// Position is the projected [x, y, z] on the render sphere, present
	// when the globe placements are wired in.
	Position []float32 `json:"position,omitempty"`
}

type listStationsResponse struct {
	Stations []stationResponse `json:"stations"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *StationsHandler) toResponse(rec *globe.StationRecord) stationResponse {
	return stationResponse{
		ID:       rec.ID,
		Lat:      rec.Coord.Lat,
		Lon:      rec.Coord.Lon,
		AreaKm2:  rec.AreaKm2,
		Size:     string(rec.Size),
		Position: h.placements[rec.ID],
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

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/stations.
func (h *StationsHandler) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.Stations().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list stations")
		return
	}

	response := listStationsResponse{
		Stations: make([]stationResponse, 0, len(records)),
	}
	for i := range records {
		response.Stations = append(response.Stations, h.toResponse(&records[i]))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/stations/{id}.
func (h *StationsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := h.store.Stations().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Station not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get station")
		return
	}

	writeJSON(w, http.StatusOK, h.toResponse(rec))
}
