// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strconv"
)

// Ranking kinds accepted by GET /datasets/{id}/rankings/{kind}.
const (
	kindCountries          = "countries"
	kindAthletes           = "athletes"
	kindSports             = "sports"
	kindGoldShare          = "gold-share"
	kindAthletesPerCountry = "athletes-per-country"
	kindYear               = "year"
)

// handleRanking handles GET /datasets/{id}/rankings/{kind}?limit=N&year=Y
// plus the usual filter parameters. The "year" kind requires the year
// parameter; "gold-share" values are fractions, everything else integers.
func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request, id, kind string) {
	sel, err := parseSelection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	n, err := s.parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	ctx := r.Context()
	var out any
	switch kind {
	case kindCountries:
		out, err = s.deps.TopCountries(ctx, id, sel, n)
	case kindAthletes:
		out, err = s.deps.TopAthletes(ctx, id, sel, n)
	case kindSports:
		out, err = s.deps.MedalsBySport(ctx, id, sel)
	case kindGoldShare:
		out, err = s.deps.GoldProportion(ctx, id, sel)
	case kindAthletesPerCountry:
		out, err = s.deps.AthletesPerCountry(ctx, id, sel)
	case kindYear:
		year, yerr := strconv.Atoi(r.URL.Query().Get("year"))
		if yerr != nil {
			writeError(w, http.StatusBadRequest, "bad_request", errors.New("year parameter required for the year ranking"))
			return
		}
		out, err = s.deps.MedalsInYear(ctx, id, sel, year)
	default:
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("unknown ranking kind: "+kind))
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleBreakdown handles GET /datasets/{id}/breakdown/{countries|sports}.
func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request, id, kind string) {
	sel, err := parseSelection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	n, err := s.parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	ctx := r.Context()
	var out any
	switch kind {
	case kindCountries:
		out, err = s.deps.CountryMedalBreakdown(ctx, id, sel, n)
	case kindSports:
		out, err = s.deps.SportMedalBreakdown(ctx, id, sel, n)
	default:
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("unknown breakdown kind: "+kind))
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
