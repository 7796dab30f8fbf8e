package api

import (
	"net/http"
	"strings"

	"github.com/verasim/verasim/internal/app"
)

// GroupsHandler serves the per-group report endpoints.
type GroupsHandler struct {
	deps Dependencies
}

// NewGroupsHandler creates a new groups handler.
func NewGroupsHandler(deps Dependencies) *GroupsHandler {
	return &GroupsHandler{deps: deps}
}

// HandleGroups dispatches GET /groups/{id}/{report} requests.
//
// The optional "type" query parameter selects group-level records,
// per-student records, or both. The "comparison" and "aggregation"
// parameters are accepted for client compatibility and have no effect
// on the response.
func (h *GroupsHandler) HandleGroups(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	id, report, ok := splitEntityPath(r.URL.Path, "/groups/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrInvalidPath)
		return
	}

	sel := app.ParseTypes(r.URL.Query().Get("type"))

	switch report {
	case "competence-levels":
		res, err := h.deps.GroupCompetenceLevels(r.Context(), id, sel)
		writeResult(w, res, err)
	case "items":
		res, err := h.deps.GroupItems(r.Context(), id, sel)
		writeResult(w, res, err)
	case "aggregations":
		res, err := h.deps.GroupAggregations(r.Context(), id, sel)
		writeResult(w, res, err)
	default:
		writeError(w, http.StatusNotFound, "not_found", ErrUnknownReport)
	}
}

// splitEntityPath extracts the entity id and report name from a path of
// the form {prefix}{id}/{report}. Entity ids must be non-empty and may
// not contain further path separators.
func splitEntityPath(path, prefix string) (id, report string, ok bool) {
	rest := strings.TrimPrefix(path, prefix)
	if rest == path {
		return "", "", false
	}
	id, report, found := strings.Cut(rest, "/")
	if !found || id == "" || report == "" || strings.Contains(report, "/") {
		return "", "", false
	}
	return id, report, true
}
