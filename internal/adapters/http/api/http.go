// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/triago/internal/adapters/registry"
	"github.com/okian/triago/internal/domain/model"
	"github.com/okian/triago/internal/domain/ranking"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// ClassifyTriage produces a triage verdict for one presentation.
	ClassifyTriage(ctx context.Context, req model.TriageRequest) (model.TriageVerdict, error)

	// RankFacilities routes a patient to the best facility for their severity.
	RankFacilities(ctx context.Context, user model.Coordinate, severity model.Severity) (ranking.Result, error)

	// Facility directory operations.
	PutFacility(ctx context.Context, f model.Facility) error
	SetQueueLength(ctx context.Context, id string, length int) error
	ListFacilities(ctx context.Context) ([]model.Facility, error)
	GetFacility(ctx context.Context, id string) (model.Facility, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	triageHandler     *TriageHandler
	facilitiesHandler *FacilitiesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		triageHandler:     NewTriageHandler(deps),
		facilitiesHandler: NewFacilitiesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux, deps Dependencies) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/triage", MetricsMiddleware(s.triageHandler.HandlePostTriage, "triage"))
	mux.HandleFunc("/facilities/rank", MetricsMiddleware(s.facilitiesHandler.HandleRank, "facilities_rank"))
	mux.HandleFunc("/facilities/", MetricsMiddleware(s.facilitiesHandler.HandleFacilityByID, "facility"))
	mux.HandleFunc("/facilities", MetricsMiddleware(s.facilitiesHandler.HandleFacilities, "facilities"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates directory not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, registry.ErrNotFound)
}

// decodeJSON decodes a request body into v, rejecting unknown shapes lazily;
// handlers validate the decoded value themselves.
func decodeJSON(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return ErrBadRequest
	}
	return nil
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
