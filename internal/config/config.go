// Package config provides environment-driven configuration for the recommender.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	Port         string
	MetricsPort  string
	ListenHost   string
	CORSOrigins  []string
	CORSAllowAll bool
	LogLevel     string

	ArtifactDir  string
	WarmOnStart  bool
	CatalogLimit int

	DefaultTopN        int
	MaxTopN            int
	MatchMinScore      float64
	RecommendCacheSize int

	ScraperEnabled bool
	ScraperBaseURL string
	ScraperTimeout time.Duration

	ArtifactBucket      string
	ArtifactPrefix      string
	ArtifactSyncTimeout time.Duration
	S3Endpoint          string
	S3AccessKey         Secret
	S3SecretKey         Secret
	S3UseSSL            bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           envOrDefault("PORT", "8000"),
		MetricsPort:    envOrDefault("METRICS_PORT", "9091"),
		ListenHost:     envOrDefault("LISTEN_HOST", "127.0.0.1"),
		CORSAllowAll:   envOrDefault("CORS_ALLOW_ALL", "false") == "true",
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		ArtifactDir:    envOrDefault("ARTIFACT_DIR", "."),
		WarmOnStart:    envOrDefault("WARM_ON_START", "false") == "true",
		ScraperEnabled: envOrDefault("SCRAPER_ENABLED", "true") == "true",
		ScraperBaseURL: envOrDefault("SCRAPER_BASE_URL", "https://www.amazon.in/dp/"),
		ArtifactBucket: envOrDefault("ARTIFACT_BUCKET", ""),
		ArtifactPrefix: envOrDefault("ARTIFACT_PREFIX", ""),
		S3Endpoint:     envOrDefault("S3_ENDPOINT", ""),
		S3AccessKey:    Secret(envOrDefault("S3_ACCESS_KEY", "")),
		S3SecretKey:    Secret(envOrDefault("S3_SECRET_KEY", "")),
		S3UseSSL:       envOrDefault("S3_USE_SSL", "true") == "true",
	}

	var err error

	if cfg.CatalogLimit, err = envInt("CATALOG_LIMIT", 2000, 1, 1_000_000); err != nil {
		return nil, err
	}

	if cfg.DefaultTopN, err = envInt("DEFAULT_TOP_N", 10, 1, 1000); err != nil {
		return nil, err
	}

	if cfg.MaxTopN, err = envInt("MAX_TOP_N", 100, 1, 1000); err != nil {
		return nil, err
	}

	if cfg.RecommendCacheSize, err = envInt("RECOMMEND_CACHE_SIZE", 1024, 0, 1_000_000); err != nil {
		return nil, err
	}

	minScore, err := strconv.ParseFloat(envOrDefault("MATCH_MIN_SCORE", "0"), 64)
	if err != nil || minScore < 0 || minScore >= 100 {
		return nil, fmt.Errorf("MATCH_MIN_SCORE must be a number in [0, 100)")
	}
	cfg.MatchMinScore = minScore

	timeout, err := time.ParseDuration(envOrDefault("SCRAPER_TIMEOUT", "5s"))
	if err != nil || timeout <= 0 || timeout > time.Minute {
		return nil, fmt.Errorf("SCRAPER_TIMEOUT must be a duration between 0 and 1m")
	}
	cfg.ScraperTimeout = timeout

	syncTimeout, err := time.ParseDuration(envOrDefault("ARTIFACT_SYNC_TIMEOUT", "2m"))
	if err != nil || syncTimeout <= 0 || syncTimeout > time.Hour {
		return nil, fmt.Errorf("ARTIFACT_SYNC_TIMEOUT must be a duration between 0 and 1h")
	}
	cfg.ArtifactSyncTimeout = syncTimeout

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3000")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// MetricsAddr returns the metrics listen address in host:port format.
func (c *Config) MetricsAddr() string {
	return c.ListenHost + ":" + c.MetricsPort
}

// BucketSyncEnabled reports whether snapshots are pulled from object storage.
func (c *Config) BucketSyncEnabled() bool {
	return c.ArtifactBucket != ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func envInt(key string, fallback, lo, hi int) (int, error) {
	v, err := strconv.Atoi(envOrDefault(key, strconv.Itoa(fallback)))
	if err != nil || v < lo || v > hi {
		return 0, fmt.Errorf("%s must be an integer between %d and %d", key, lo, hi)
	}

	return v, nil
}
