package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"airwidget-service/models"
	"airwidget-service/resolver"
	"airwidget-service/service"
)

// Refresher is the part of service.Service the handlers need
type Refresher interface {
	Refresh(ctx context.Context, opts service.Options) (service.Result, error)
	Nearby(ctx context.Context, opts service.Options) (models.Coordinate, []models.RankedStation, error)
}

// Server represents the API server
type Server struct {
	refresher Refresher
	server    *http.Server
}

// NewServer creates a new API server
func NewServer(refresher Refresher, port int) *Server {
	server := &Server{
		refresher: refresher,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			ReadHeaderTimeout: 5 * time.Second,
			// Fallback may walk several stations
			WriteTimeout: 60 * time.Second,
		},
	}
	server.server.Handler = server.Handler()

	return server
}

// Handler returns the routed handler, mainly for tests
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/aqi/nearest", s.handleNearestReading)
	mux.HandleFunc("/api/stations/nearby", s.handleNearbyStations)

	// Health check
	mux.HandleFunc("/api/health", s.handleHealthCheck)

	return mux
}

// Start begins the API server
func (s *Server) Start() error {
	log.Printf("Starting API server on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleNearestReading resolves the user's nearby stations and returns the first available reading
func (s *Server) handleNearestReading(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	opts, err := optionsFromQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := s.refresher.Refresh(r.Context(), opts)
	if err != nil {
		writeError(w, err, map[string]interface{}{
			"refreshID": result.RefreshID,
			"attempts":  result.Attempts,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"refreshID":  result.RefreshID,
		"location":   result.Location,
		"station":    result.Station,
		"reading":    result.Reading,
		"level":      result.Reading.Level(),
		"candidates": result.Candidates,
		"attempts":   result.Attempts,
		"timestamp":  time.Now(),
	})
}

// handleNearbyStations returns the ranked candidate stations without fetching readings
func (s *Server) handleNearbyStations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	opts, err := optionsFromQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	location, ranked, err := s.refresher.Nearby(r.Context(), opts)
	if err != nil {
		writeError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"location":  location,
		"stations":  ranked,
		"count":     len(ranked),
		"timestamp": time.Now(),
	})
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// optionsFromQuery reads an optional lat/lon pair; both or neither must be given
func optionsFromQuery(r *http.Request) (service.Options, error) {
	q := r.URL.Query()
	lat, lon := q.Get("lat"), q.Get("lon")

	if lat == "" && lon == "" {
		return service.Options{}, nil
	}
	if lat == "" || lon == "" {
		return service.Options{}, errors.New("lat and lon must be given together")
	}

	c, err := models.ParseCoordinate(lat, lon)
	if err != nil {
		return service.Options{}, err
	}

	return service.Options{Location: &c}, nil
}

// statusFor maps an error kind onto an HTTP status
func statusFor(err error) int {
	switch resolver.KindOf(err) {
	case resolver.KindLocationUnavailable:
		return http.StatusServiceUnavailable
	case resolver.KindNoStationsAvailable, resolver.KindNoReadingAvailable:
		return http.StatusBadGateway
	case resolver.KindNoStationsInRange:
		return http.StatusNotFound
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error, extra map[string]interface{}) {
	body := map[string]interface{}{
		"error": err.Error(),
		"kind":  resolver.KindOf(err).String(),
	}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, statusFor(err), body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
