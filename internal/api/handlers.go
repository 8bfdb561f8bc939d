package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skylive/airportal/internal/airports"
	"github.com/skylive/airportal/internal/config"
	"github.com/skylive/airportal/internal/snapshot"
	"github.com/skylive/airportal/internal/weather"
	"github.com/skylive/airportal/pkg/logger"
)

// Handler contains the API handlers
type Handler struct {
	store           *airports.Store
	snapshotService *snapshot.Service
	weatherService  *weather.Service
	config          *config.Config
	logger          *logger.Logger
	startedAt       time.Time
}

// NewHandler creates a new API handler
func NewHandler(store *airports.Store, snapshotService *snapshot.Service, weatherService *weather.Service, cfg *config.Config, log *logger.Logger) *Handler {
	return &Handler{
		store:           store,
		snapshotService: snapshotService,
		weatherService:  weatherService,
		config:          cfg,
		logger:          log.Named("api-handler"),
		startedAt:       time.Now().UTC(),
	}
}

// GetAirport returns the static airport model for the detail page
func (h *Handler) GetAirport(w http.ResponseWriter, r *http.Request) {
	icao := strings.ToUpper(chi.URLParam(r, "icao"))

	airport, err := h.store.GetAirport(icao)
	if err != nil {
		h.logger.Debug("Airport lookup failed",
			logger.String("icao", icao), logger.Error(err))
		WriteError(w, http.StatusNotFound, "airport not found")
		return
	}

	WriteJSON(w, http.StatusOK, airport)
}

// GetAirportLive returns the poll payload for the live panels. Feed
// failures degrade individual facets; the endpoint itself only fails when
// the airport is unknown.
func (h *Handler) GetAirportLive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	icao := strings.ToUpper(chi.URLParam(r, "icao"))

	snap, err := h.snapshotService.Snapshot(r.Context(), icao)
	if err != nil {
		h.logger.Debug("Live snapshot failed",
			logger.String("icao", icao), logger.Error(err))
		WriteError(w, http.StatusNotFound, "airport not found")
		return
	}

	h.logger.Debug("Live snapshot served",
		logger.String("icao", icao),
		logger.Duration("duration", time.Since(start)),
		logger.Bool("has_traffic", snap.HasTrafficData))

	WriteJSON(w, http.StatusOK, snap.Payload())
}

// GetAirportSnapshot returns the full snapshot, decoded weather included,
// for the server-rendered airport detail view
func (h *Handler) GetAirportSnapshot(w http.ResponseWriter, r *http.Request) {
	icao := strings.ToUpper(chi.URLParam(r, "icao"))

	snap, err := h.snapshotService.Snapshot(r.Context(), icao)
	if err != nil {
		WriteError(w, http.StatusNotFound, "airport not found")
		return
	}

	WriteJSON(w, http.StatusOK, snap)
}

// GetAirspace returns the live activity overview across all airports
func (h *Handler) GetAirspace(w http.ResponseWriter, r *http.Request) {
	activities, err := h.snapshotService.AirspaceOverview(r.Context())
	if err != nil {
		h.logger.Error("Airspace overview failed", logger.Error(err))
		WriteError(w, http.StatusInternalServerError, "failed to build airspace overview")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"timestamp": time.Now().UTC(),
		"airports":  activities,
	})
}

// GetHealth reports process health and weather cache statistics
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
		"weather_cache":  h.weatherService.CacheStats(),
	})
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}
