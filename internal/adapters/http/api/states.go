package api

import (
	"net/http"
)

// StatesHandler serves the per-state report endpoints. State reports
// carry one record per booklet assigned to the state.
type StatesHandler struct {
	deps Dependencies
}

// NewStatesHandler creates a new states handler.
func NewStatesHandler(deps Dependencies) *StatesHandler {
	return &StatesHandler{deps: deps}
}

// HandleStates dispatches GET /states/{id}/{report} requests.
func (h *StatesHandler) HandleStates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	id, report, ok := splitEntityPath(r.URL.Path, "/states/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrInvalidPath)
		return
	}

	switch report {
	case "competence-levels":
		res, err := h.deps.StateCompetenceLevels(r.Context(), id)
		writeResult(w, res, err)
	case "items":
		res, err := h.deps.StateItems(r.Context(), id)
		writeResult(w, res, err)
	case "aggregations":
		res, err := h.deps.StateAggregations(r.Context(), id)
		writeResult(w, res, err)
	default:
		writeError(w, http.StatusNotFound, "not_found", ErrUnknownReport)
	}
}
