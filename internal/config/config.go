// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Default sizing constants.
const (
	defaultMaxUploadBytes   = 32 << 20 // 32 MiB upload cap
	defaultDatasetCacheSize = 64
	defaultTopN             = 10
	defaultMaxRankingLimit  = 500
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MaxUploadBytes caps the size of an uploaded dataset.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// DatasetCacheSize bounds the in-memory dataset registry.
	DatasetCacheSize int `koanf:"dataset_cache_size"`

	// DefaultTopN is the ranking length used when a request gives no limit.
	DefaultTopN int `koanf:"default_top_n"`

	// MaxRankingLimit caps the limit query parameter on ranking requests.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// HeaderAliases maps extra header spellings to canonical column
	// names, merged over the built-in alias table.
	HeaderAliases map[string]string `koanf:"header_aliases"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		MaxUploadBytes:   defaultMaxUploadBytes,
		DatasetCacheSize: defaultDatasetCacheSize,
		DefaultTopN:      defaultTopN,
		MaxRankingLimit:  defaultMaxRankingLimit,
		HeaderAliases:    map[string]string{},
	}
}
