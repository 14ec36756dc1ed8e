// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// handleImprovement handles GET /datasets/{id}/improvement: one row per
// country with its greatest year-over-year medal gain, descending by
// delta. Countries with a single Olympic appearance are absent.
func (s *Server) handleImprovement(w http.ResponseWriter, r *http.Request, id string) {
	sel, err := parseSelection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	rows, err := s.deps.Improvement(r.Context(), id, sel)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleTrend handles GET /datasets/{id}/trend?countries=a,b: per-country
// medal totals by year for line series. No countries parameter means all.
func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request, id string) {
	sel, err := parseSelection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	// The trend country list is separate from the selection filters so a
	// caller can compare specific countries inside a wider filter.
	countries := splitParam(r.URL.Query()["trend_countries"])
	if len(countries) == 0 {
		countries = sel.Countries
	}
	points, err := s.deps.Trend(r.Context(), id, sel, countries)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}
