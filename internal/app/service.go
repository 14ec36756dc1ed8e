// Package app provides the core business service that implements
// the dependencies required by the HTTP API.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"

	"github.com/podiumhq/podium/internal/adapters/codec"
	"github.com/podiumhq/podium/internal/adapters/repository"
	"github.com/podiumhq/podium/internal/domain/filter"
	"github.com/podiumhq/podium/internal/domain/model"
	"github.com/podiumhq/podium/internal/domain/schema"
	"github.com/podiumhq/podium/internal/domain/stats"
	"github.com/podiumhq/podium/pkg/logger"
	"github.com/podiumhq/podium/pkg/metrics"
)

// Sentinel kinds for service errors.
var (
	ErrUploadTooLarge = errors.New("upload too large")
	ErrNotStarted     = errors.New("service not started")
)

// DatasetInfo is the metadata returned for a loaded dataset.
type DatasetInfo struct {
	ID        string    `json:"id"`
	Hash      string    `json:"hash"`
	Rows      int       `json:"rows"`
	CreatedAt time.Time `json:"created_at"`
	// Duplicate is true when the upload matched a memoized dataset and
	// normalization was skipped.
	Duplicate bool `json:"duplicate"`
}

// FilterOptions lists the distinct values available for the three filter
// dimensions of a dataset.
type FilterOptions struct {
	Years     []int    `json:"years"`
	Countries []string `json:"countries"`
	Sports    []string `json:"sports"`
}

// Service implements the dataset and aggregation API over the registry.
type Service struct {
	mu sync.RWMutex

	store          repository.Store
	maxUploadBytes int64
	defaultTopN    int
	cacheSize      int
	schemaOpts     []schema.Option

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the dataset registry implementation.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithMaxUploadBytes caps the accepted upload size.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithDefaultTopN sets the ranking length used when the caller passes no limit.
func WithDefaultTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultTopN = n
		}
	}
}

// WithCacheSize bounds the dataset registry created by Start when no
// store was injected.
func WithCacheSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.cacheSize = n
		}
	}
}

// WithHeaderAliases merges extra header aliases into the normalizer.
func WithHeaderAliases(aliases map[string]string) Option {
	return func(s *Service) {
		if len(aliases) > 0 {
			s.schemaOpts = append(s.schemaOpts, schema.WithAliases(aliases))
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// Default sizing when no options are given.
const (
	defaultMaxUploadBytes = 32 << 20
	defaultTopN           = 10
	defaultCacheSize      = 64
)

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxUploadBytes: defaultMaxUploadBytes,
		defaultTopN:    defaultTopN,
		cacheSize:      defaultCacheSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		s.store = repository.NewMemStore(repository.WithCapacity(s.cacheSize))
	}
	s.started = true
	s.logger.Info(ctx, "analytics service started",
		logger.Int("cacheSize", s.cacheSize),
		logger.Int("defaultTopN", s.defaultTopN),
	)
	return nil
}

// Stop releases service state.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "analytics service stopped")
}

// LoadDataset reads a delimited byte stream, normalizes it and registers
// the result. Uploads whose content hash matches a held dataset are
// answered from the registry without re-running normalization.
func (s *Service) LoadDataset(ctx context.Context, r io.Reader) (DatasetInfo, error) {
	s.mu.RLock()
	store, started := s.store, s.started
	maxBytes := s.maxUploadBytes
	opts := s.schemaOpts
	s.mu.RUnlock()
	if !started {
		return DatasetInfo{}, ErrNotStarted
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return DatasetInfo{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return DatasetInfo{}, ErrUploadTooLarge
	}

	// Memoization key: content hash of the bytes seeded with the
	// normalization version, so a rules change invalidates old entries.
	hash := xxh3.HashSeed(data, schema.Version)
	if ds, ok := store.FindByHash(ctx, hash); ok {
		metrics.RecordDatasetDuplicate()
		return infoFor(ds, true), nil
	}

	start := time.Now()
	raw, err := codec.Decode(bytes.NewReader(data))
	if err != nil {
		return DatasetInfo{}, err
	}
	table, err := schema.Normalize(raw, opts...)
	if err != nil {
		var schemaErr *schema.Error
		if errors.As(err, &schemaErr) {
			metrics.RecordSchemaError()
		}
		return DatasetInfo{}, err
	}
	metrics.RecordNormalizeDuration(float64(time.Since(start).Milliseconds()))
	metrics.RecordRowsNormalized(table.Len())
	metrics.RecordRowsDropped(len(raw.Rows) - table.Len())

	ds := repository.Dataset{
		ID:        uuid.NewString(),
		Hash:      hash,
		Rows:      table.Len(),
		CreatedAt: time.Now().UTC(),
		Table:     table,
	}
	if err := store.Put(ctx, ds); err != nil {
		return DatasetInfo{}, fmt.Errorf("register dataset: %w", err)
	}
	metrics.RecordDatasetLoaded()
	s.logger.Info(ctx, "dataset loaded",
		logger.String("id", ds.ID),
		logger.Int("rows", ds.Rows),
		logger.Int("dropped", len(raw.Rows)-table.Len()),
		logger.Uint64("hash", hash),
	)
	return infoFor(ds, false), nil
}

// Dataset returns metadata for a held dataset.
func (s *Service) Dataset(ctx context.Context, id string) (DatasetInfo, error) {
	ds, err := s.dataset(ctx, id)
	if err != nil {
		return DatasetInfo{}, err
	}
	return infoFor(ds, false), nil
}

// Options returns the distinct filter values of a dataset, for the
// caller's selection widgets.
func (s *Service) Options(ctx context.Context, id string) (FilterOptions, error) {
	ds, err := s.dataset(ctx, id)
	if err != nil {
		return FilterOptions{}, err
	}
	return FilterOptions{
		Years:     ds.Table.Years(),
		Countries: ds.Table.Countries(),
		Sports:    ds.Table.Sports(),
	}, nil
}

// Summary computes the medal summary of a filtered dataset.
func (s *Service) Summary(ctx context.Context, id string, sel filter.Selection) (model.Summary, error) {
	t, err := s.filtered(ctx, id, sel)
	if err != nil {
		return model.Summary{}, err
	}
	defer timeAggregation("summary")()
	return stats.Summarize(t), nil
}

// TopCountries ranks countries by total medals.
func (s *Service) TopCountries(ctx context.Context, id string, sel filter.Selection, n int) (model.Ranking, error) {
	t, err := s.filtered(ctx, id, sel)
	if err != nil {
		return nil, err
	}
	defer timeAggregation("top_countries")()
	return stats.TopCountries(t, s.limit(n)), nil
}

// TopAthletes ranks athletes by total medals with per-type sums.
func (s *Service) TopAthletes(ctx context.Context, id string, sel filter.Selection, n int) ([]model.AthleteEntry, error) {
	t, err := s.filtered(ctx, id, sel)
	if err != nil {
		return nil, err
	}
	defer timeAggregation("top_athletes")()
	return stats.TopAthletes(t, s.limit(n)), nil
}

// MedalsBySport ranks sports by total medals.
func (s *Service) MedalsBySport(ctx context.Context, id string, sel filter.Selection) (model.Ranking, error) {
	t, err := s.filtered(ctx, id, sel)
	if err != nil {
		return nil, err
	}
	defer timeAggregation("medals_by_sport")()
	return stats.MedalsBySport(t), nil
}

// GoldProportion ranks countries by their gold medal share.
func (s *Service) GoldProportion(ctx context.Context, id string, sel filter.Selection) ([]model.ProportionEntry, error) {
	t, err := s.filtered(ctx, id, sel)
	if err != nil {
		return nil, err
	}
	defer timeAggregation("gold_proportion")()
	return stats.GoldProportion(t), nil
}

// AthletesPerCountry ranks countries by distinct athlete count.
func (s *Service) AthletesPerCountry(ctx context.Context, id string, sel filter.Selection) (model.Ranking, error) {
	t, err := s.filtered(ctx, id, sel)
	if err != nil {
		return nil, err
	}
	defer timeAggregation("athletes_per_country")()
	return stats.AthletesPerCountry(t), nil
}

// MedalsInYear ranks countries by medals won in one year.
func (s *Service) MedalsInYear(ctx context.Context, id string, sel filter.Selection, year int) (model.Ranking, error) {
	t, err := s.filtered(ctx, id, sel)
	if err != nil {
		return nil, err
	}
	defer timeAggregation("medals_in_year")()
	return stats.MedalsInYear(t, year), nil
}

// Improvement computes each country's greatest year-over-year gain.
func (s *Service) Improvement(ctx context.Context, id string, sel filter.Selection) ([]model.ImprovementRow, error) {
	t, err := s.filtered(ctx, id, sel)
	if err != nil {
		return nil, err
	}
	defer timeAggregation("improvement")()
	return stats.Improvement(t), nil
}

// CountryMedalBreakdown returns per-type sums for the top n countries.
func (s *Service) CountryMedalBreakdown(ctx context.Context, id string, sel filter.Selection, n int) ([]model.MedalBreakdown, error) {
	t, err := s.filtered(ctx, id, sel)
	if err != nil {
		return nil, err
	}
	defer timeAggregation("country_breakdown")()
	return stats.CountryMedalBreakdown(t, s.limit(n)), nil
}

// SportMedalBreakdown returns per-type sums for the top n sports.
func (s *Service) SportMedalBreakdown(ctx context.Context, id string, sel filter.Selection, n int) ([]model.MedalBreakdown, error) {
	t, err := s.filtered(ctx, id, sel)
	if err != nil {
		return nil, err
	}
	defer timeAggregation("sport_breakdown")()
	return stats.SportMedalBreakdown(t, s.limit(n)), nil
}

// Trend returns (country, year) medal totals for the given countries.
func (s *Service) Trend(ctx context.Context, id string, sel filter.Selection, countries []string) ([]model.TrendPoint, error) {
	t, err := s.filtered(ctx, id, sel)
	if err != nil {
		return nil, err
	}
	defer timeAggregation("trend")()
	return stats.Trend(t, countries), nil
}

// ExportTable writes the filtered dataset back in the canonical
// delimited format.
func (s *Service) ExportTable(ctx context.Context, id string, sel filter.Selection, w io.Writer) error {
	t, err := s.filtered(ctx, id, sel)
	if err != nil {
		return err
	}
	return codec.EncodeTable(w, t)
}

// ExportSummary writes the filtered dataset's summary as one CSV row.
func (s *Service) ExportSummary(ctx context.Context, id string, sel filter.Selection, w io.Writer) error {
	t, err := s.filtered(ctx, id, sel)
	if err != nil {
		return err
	}
	return codec.EncodeSummary(w, stats.Summarize(t))
}

// GetStats returns service statistics for the stats endpoint.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]interface{}{
		"started":        s.started,
		"cacheSize":      s.cacheSize,
		"defaultTopN":    s.defaultTopN,
		"maxUploadBytes": s.maxUploadBytes,
	}
	if s.store != nil {
		out["datasetCount"] = s.store.Len(context.Background())
	}
	return out
}

func (s *Service) dataset(ctx context.Context, id string) (repository.Dataset, error) {
	s.mu.RLock()
	store, started := s.store, s.started
	s.mu.RUnlock()
	if !started {
		return repository.Dataset{}, ErrNotStarted
	}
	return store.Get(ctx, id)
}

func (s *Service) filtered(ctx context.Context, id string, sel filter.Selection) (model.Table, error) {
	ds, err := s.dataset(ctx, id)
	if err != nil {
		return model.Table{}, err
	}
	return filter.Apply(ds.Table, sel), nil
}

func (s *Service) limit(n int) int {
	if n > 0 {
		return n
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultTopN
}

func infoFor(ds repository.Dataset, duplicate bool) DatasetInfo {
	return DatasetInfo{
		ID:        ds.ID,
		Hash:      fmt.Sprintf("%016x", ds.Hash),
		Rows:      ds.Rows,
		CreatedAt: ds.CreatedAt,
		Duplicate: duplicate,
	}
}

func timeAggregation(kind string) func() {
	start := time.Now()
	return func() {
		metrics.RecordAggregation(kind, float64(time.Since(start).Milliseconds()))
	}
}
