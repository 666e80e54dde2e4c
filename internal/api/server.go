// Package api exposes the tracker's monitoring and debugging HTTP surface.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/muratams/cabot/internal/db"
	"github.com/muratams/cabot/internal/monitoring"
	"github.com/muratams/cabot/internal/people"
	"github.com/muratams/cabot/internal/people/viz"
	"github.com/muratams/cabot/internal/units"
	"github.com/muratams/cabot/internal/version"
)

// RateTolerance is the fractional deviation from the target batch rate the
// health endpoint accepts before reporting a warning.
const RateTolerance = 0.2

// Server serves registry snapshots, health, and debug plots over HTTP.
type Server struct {
	registry     *people.Registry
	store        *db.TrackStore
	displayUnits string
	targetFPS    float64
	server       *http.Server
}

// ServerConfig contains configuration options for the server.
type ServerConfig struct {
	Address      string
	Registry     *people.Registry
	Store        *db.TrackStore // optional; history endpoint 404s when nil
	DisplayUnits string
	TargetFPS    float64
}

// NewServer creates a server with the provided configuration.
func NewServer(config ServerConfig) *Server {
	s := &Server{
		registry:     config.Registry,
		store:        config.Store,
		displayUnits: config.DisplayUnits,
		targetFPS:    config.TargetFPS,
	}
	if !units.IsValid(s.displayUnits) {
		s.displayUnits = units.MPS
	}
	s.server = &http.Server{
		Addr:    config.Address,
		Handler: s.ServeMux(),
	}
	return s
}

// ServeMux configures the HTTP routes and handlers.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tracks", s.handleTracks)
	mux.HandleFunc("/api/tracks/history", s.handleTrackHistory)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/debug/tracks/plot", s.handleTrackPlot)
	return mux
}

// Start runs the server until the context is cancelled, then shuts it down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		monitoring.Logf("starting HTTP server on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			monitoring.Logf("HTTP server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		monitoring.Logf("HTTP server shutdown error: %v", err)
		return s.server.Close()
	}
	return nil
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// trackJSON is the wire form of one registry snapshot entry.
type trackJSON struct {
	ID           int     `json:"id"`
	Class        string  `json:"class"`
	Phase        string  `json:"phase"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	VelocityX    float64 `json:"velocity_x"`
	VelocityY    float64 `json:"velocity_y"`
	Speed        float64 `json:"speed"`
	SpeedUnits   string  `json:"speed_units"`
	EstimatedFPS float64 `json:"estimated_fps"`
	Observations int     `json:"observations"`
	LastSeen     string  `json:"last_seen"`
	MissingSince string  `json:"missing_since,omitempty"`
}

func (s *Server) handleTracks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}

	snaps := s.registry.Snapshot()
	out := make([]trackJSON, 0, len(snaps))
	for _, snap := range snaps {
		tj := trackJSON{
			ID:           snap.ID,
			Class:        string(snap.Class),
			Phase:        string(snap.Phase),
			X:            snap.Position.X,
			Y:            snap.Position.Y,
			VelocityX:    snap.Velocity.VX,
			VelocityY:    snap.Velocity.VY,
			Speed:        units.ConvertSpeed(snap.Velocity.Speed(), s.displayUnits),
			SpeedUnits:   s.displayUnits,
			EstimatedFPS: snap.EstimatedFPS,
			Observations: snap.ObservationCount,
			LastSeen:     snap.LastSeen.Format(time.RFC3339Nano),
		}
		if !snap.MissingSince.IsZero() {
			tj.MissingSince = snap.MissingSince.Format(time.RFC3339Nano)
		}
		out = append(out, tj)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (s *Server) handleTrackHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeJSONError(w, http.StatusNotFound, "no persistence store configured")
		return
	}

	trackID, err := strconv.Atoi(r.URL.Query().Get("track_id"))
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "track_id must be an integer")
		return
	}
	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 10000 {
			limit = v
		}
	}

	obs, err := s.store.Observations(trackID, limit)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("query observations: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(obs)
}

// healthJSON reports the observed batch rate against the configured target.
type healthJSON struct {
	Status         string         `json:"status"`
	Version        string         `json:"version"`
	TargetFPS      float64        `json:"target_fps"`
	ObservedFPS    float64        `json:"observed_fps"`
	CycleCount     uint64         `json:"cycle_count"`
	RetainedTracks int            `json:"retained_tracks"`
	PhaseCounts    map[string]int `json:"phase_counts"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := healthJSON{
		Status:         "ok",
		Version:        version.Version,
		TargetFPS:      s.targetFPS,
		CycleCount:     s.registry.CycleCount(),
		RetainedTracks: s.registry.Len(),
		PhaseCounts:    make(map[string]int),
	}
	for phase, n := range s.registry.PhaseCounts() {
		h.PhaseCounts[string(phase)] = n
	}

	rate, ok := s.registry.BatchRate()
	if ok {
		h.ObservedFPS = rate
	}
	if s.targetFPS > 0 {
		switch {
		case !ok:
			h.Status = "warn"
		case rate < s.targetFPS*(1-RateTolerance) || rate > s.targetFPS*(1+RateTolerance):
			h.Status = "warn"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.registry.Config()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"input_time":                        cfg.InputTime,
		"fps_est_time":                      cfg.FPSEstTime,
		"duration_inactive_to_stop_publish": cfg.DurationInactiveToStopPublish.String(),
		"duration_inactive_to_remove":       cfg.DurationInactiveToRemove.String(),
		"display_units":                     s.displayUnits,
		"target_fps":                        s.targetFPS,
	})
}

// handleTrackPlot renders a quick scatter (HTML) of current track positions
// using go-echarts. Debugging-only endpoint, no auth.
func (s *Server) handleTrackPlot(w http.ResponseWriter, r *http.Request) {
	snaps := s.registry.Snapshot()
	if len(snaps) == 0 {
		s.writeJSONError(w, http.StatusNotFound, "no tracks to plot")
		return
	}

	scatter := viz.BuildTrackScatter(snaps, s.displayUnits)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := scatter.Render(w); err != nil {
		monitoring.Logf("render track plot: %v", err)
	}
}
