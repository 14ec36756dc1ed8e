// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
)

// handleExport handles GET /datasets/{id}/export?scope=table|summary,
// writing the filtered dataset (default) or its summary as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, id string) {
	sel, err := parseSelection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = "table"
	}

	// Validate the dataset before committing to a CSV response so schema
	// and not-found errors still surface as JSON.
	if _, err := s.deps.Dataset(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	switch scope {
	case "table":
		w.Header().Set("Content-Disposition", `attachment; filename="medals_filtered.csv"`)
		err = s.deps.ExportTable(r.Context(), id, sel, w)
	case "summary":
		w.Header().Set("Content-Disposition", `attachment; filename="medals_summary.csv"`)
		err = s.deps.ExportSummary(r.Context(), id, sel, w)
	default:
		w.Header().Del("Content-Type")
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("unknown export scope: "+scope))
		return
	}
	if err != nil {
		// Headers are already out; the broken stream is the signal.
		return
	}
}
