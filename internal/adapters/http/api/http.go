// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/verasim/verasim/internal/app"
	"github.com/verasim/verasim/internal/domain/stats"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	GroupCompetenceLevels(ctx context.Context, groupID string, sel app.Selection) ([]stats.CompetenceLevelGroup, error)
	GroupItems(ctx context.Context, groupID string, sel app.Selection) ([]stats.ItemGroup, error)
	GroupAggregations(ctx context.Context, groupID string, sel app.Selection) ([]stats.AggregationGroup, error)

	SchoolCompetenceLevels(ctx context.Context, schoolID string) ([]stats.CompetenceLevelGroup, error)
	SchoolItems(ctx context.Context, schoolID string) ([]stats.ItemGroup, error)
	SchoolAggregations(ctx context.Context, schoolID string) ([]stats.AggregationGroup, error)

	StateCompetenceLevels(ctx context.Context, stateID string) ([]stats.CompetenceLevelGroup, error)
	StateItems(ctx context.Context, stateID string) ([]stats.ItemGroup, error)
	StateAggregations(ctx context.Context, stateID string) ([]stats.AggregationGroup, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	groupsHandler  *GroupsHandler
	schoolsHandler *SchoolsHandler
	statesHandler  *StatesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		groupsHandler:  NewGroupsHandler(deps),
		schoolsHandler: NewSchoolsHandler(deps),
		statesHandler:  NewStatesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/groups/", MetricsMiddleware(s.groupsHandler.HandleGroups, "groups"))
	mux.HandleFunc("/schools/", MetricsMiddleware(s.schoolsHandler.HandleSchools, "schools"))
	mux.HandleFunc("/states/", MetricsMiddleware(s.statesHandler.HandleStates, "states"))
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

// writeResult translates service errors into HTTP responses.
func writeResult(w http.ResponseWriter, v any, err error) {
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
