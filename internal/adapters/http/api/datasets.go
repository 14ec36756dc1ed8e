// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// handleDatasets handles POST /datasets uploads.
//
// The request body is the delimited dataset itself (text/csv or
// text/tab-separated-values). A re-upload of known bytes answers with
// the memoized dataset and duplicate=true.
func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	defer func() { _ = r.Body.Close() }()

	info, err := s.deps.LoadDataset(r.Context(), r.Body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	status := http.StatusCreated
	if info.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, info)
}

// handleGetDataset handles GET /datasets/{id}.
func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request, id string) {
	info, err := s.deps.Dataset(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// handleOptions handles GET /datasets/{id}/options: the distinct years,
// countries and sports available for filtering.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request, id string) {
	opts, err := s.deps.Options(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// handleSummary handles GET /datasets/{id}/summary with optional filters.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, id string) {
	sel, err := parseSelection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	summary, err := s.deps.Summary(r.Context(), id, sel)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
