// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/podiumhq/podium/internal/adapters/repository"
	"github.com/podiumhq/podium/internal/app"
	"github.com/podiumhq/podium/internal/domain/filter"
	"github.com/podiumhq/podium/internal/domain/model"
	"github.com/podiumhq/podium/internal/domain/schema"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	LoadDataset(ctx context.Context, r io.Reader) (app.DatasetInfo, error)
	Dataset(ctx context.Context, id string) (app.DatasetInfo, error)
	Options(ctx context.Context, id string) (app.FilterOptions, error)

	Summary(ctx context.Context, id string, sel filter.Selection) (model.Summary, error)
	TopCountries(ctx context.Context, id string, sel filter.Selection, n int) (model.Ranking, error)
	TopAthletes(ctx context.Context, id string, sel filter.Selection, n int) ([]model.AthleteEntry, error)
	MedalsBySport(ctx context.Context, id string, sel filter.Selection) (model.Ranking, error)
	GoldProportion(ctx context.Context, id string, sel filter.Selection) ([]model.ProportionEntry, error)
	AthletesPerCountry(ctx context.Context, id string, sel filter.Selection) (model.Ranking, error)
	MedalsInYear(ctx context.Context, id string, sel filter.Selection, year int) (model.Ranking, error)
	Improvement(ctx context.Context, id string, sel filter.Selection) ([]model.ImprovementRow, error)
	CountryMedalBreakdown(ctx context.Context, id string, sel filter.Selection, n int) ([]model.MedalBreakdown, error)
	SportMedalBreakdown(ctx context.Context, id string, sel filter.Selection, n int) ([]model.MedalBreakdown, error)
	Trend(ctx context.Context, id string, sel filter.Selection, countries []string) ([]model.TrendPoint, error)

	ExportTable(ctx context.Context, id string, sel filter.Selection, w io.Writer) error
	ExportSummary(ctx context.Context, id string, sel filter.Selection, w io.Writer) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps          Dependencies
	statsHandler  *StatsHandler
	healthHandler *HealthHandler
	maxLimit      int
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxRankingLimit caps the limit query parameter on ranking requests.
func WithMaxRankingLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

const defaultMaxRankingLimit = 500

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		deps:          deps,
		statsHandler:  NewStatsHandler(statsProvider),
		healthHandler: NewHealthHandler(),
		maxLimit:      defaultMaxRankingLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/datasets", MetricsMiddleware(s.handleDatasets, "datasets"))
	mux.HandleFunc("/datasets/", MetricsMiddleware(s.handleDatasetSubtree, "datasets"))
}

// handleDatasetSubtree routes /datasets/{id}[/subresource...] requests.
func (s *Server) handleDatasetSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/datasets/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	id := parts[0]
	sub := parts[1:]

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	switch {
	case len(sub) == 0:
		s.handleGetDataset(w, r, id)
	case len(sub) == 1 && sub[0] == "options":
		s.handleOptions(w, r, id)
	case len(sub) == 1 && sub[0] == "summary":
		s.handleSummary(w, r, id)
	case len(sub) == 2 && sub[0] == "rankings":
		s.handleRanking(w, r, id, sub[1])
	case len(sub) == 2 && sub[0] == "breakdown":
		s.handleBreakdown(w, r, id, sub[1])
	case len(sub) == 1 && sub[0] == "improvement":
		s.handleImprovement(w, r, id)
	case len(sub) == 1 && sub[0] == "trend":
		s.handleTrend(w, r, id)
	case len(sub) == 1 && sub[0] == "export":
		s.handleExport(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// Populated for schema errors so callers can show required vs found
	// columns.
	RequiredColumns []string `json:"required_columns,omitempty"`
	FoundColumns    []string `json:"found_columns,omitempty"`
	MissingColumns  []string `json:"missing_columns,omitempty"`
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

// writeServiceError translates upstream errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var schemaErr *schema.Error
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.As(err, &schemaErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:            "schema_error",
			Message:         schemaErr.Error(),
			RequiredColumns: schemaErr.Required,
			FoundColumns:    schemaErr.Found,
			MissingColumns:  schemaErr.Missing,
		})
	case errors.Is(err, app.ErrUploadTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "upload_too_large", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// parseSelection reads the years/countries/sports filter query
// parameters. Values are comma-separated and the parameters may repeat;
// an absent parameter leaves its dimension unrestricted.
func parseSelection(r *http.Request) (filter.Selection, error) {
	q := r.URL.Query()
	var sel filter.Selection
	for _, raw := range splitParam(q["years"]) {
		y, err := strconv.Atoi(raw)
		if err != nil {
			return filter.Selection{}, errors.New("invalid years filter; must be integers")
		}
		sel.Years = append(sel.Years, y)
	}
	sel.Countries = splitParam(q["countries"])
	sel.Sports = splitParam(q["sports"])
	return sel, nil
}

func splitParam(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// parseLimit reads the limit query parameter. Zero means "use the
// service default"; values above maxLimit are rejected.
func (s *Server) parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New("invalid limit; must be a positive integer")
	}
	if n > s.maxLimit {
		return 0, errors.New("limit exceeds maximum of " + strconv.Itoa(s.maxLimit))
	}
	return n, nil
}
