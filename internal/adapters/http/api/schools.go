package api

import (
	"net/http"
)

// SchoolsHandler serves the per-school report endpoints. School reports
// contain the merged school-level records followed by the records of
// every member group.
type SchoolsHandler struct {
	deps Dependencies
}

// NewSchoolsHandler creates a new schools handler.
func NewSchoolsHandler(deps Dependencies) *SchoolsHandler {
	return &SchoolsHandler{deps: deps}
}

// HandleSchools dispatches GET /schools/{id}/{report} requests.
func (h *SchoolsHandler) HandleSchools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	id, report, ok := splitEntityPath(r.URL.Path, "/schools/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrInvalidPath)
		return
	}

	switch report {
	case "competence-levels":
		res, err := h.deps.SchoolCompetenceLevels(r.Context(), id)
		writeResult(w, res, err)
	case "items":
		res, err := h.deps.SchoolItems(r.Context(), id)
		writeResult(w, res, err)
	case "aggregations":
		res, err := h.deps.SchoolAggregations(r.Context(), id)
		writeResult(w, res, err)
	default:
		writeError(w, http.StatusNotFound, "not_found", ErrUnknownReport)
	}
}
