package config_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/persistorai/recommender/internal/config"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ARTIFACT_DIR", t.TempDir())
	t.Setenv("CORS_ORIGINS", "http://localhost:3000")
	for _, k := range []string{
		"PORT", "METRICS_PORT", "LISTEN_HOST", "CORS_ALLOW_ALL", "CATALOG_LIMIT", "DEFAULT_TOP_N",
		"MAX_TOP_N", "MATCH_MIN_SCORE", "RECOMMEND_CACHE_SIZE", "SCRAPER_ENABLED", "SCRAPER_BASE_URL",
		"SCRAPER_TIMEOUT", "ARTIFACT_BUCKET", "ARTIFACT_PREFIX", "S3_ENDPOINT", "S3_ACCESS_KEY",
		"S3_SECRET_KEY", "S3_USE_SSL", "WARM_ON_START", "ARTIFACT_SYNC_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	setValidEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}

	if cfg.Addr() != "127.0.0.1:8000" {
		t.Errorf("expected addr 127.0.0.1:8000, got %s", cfg.Addr())
	}

	if cfg.MetricsAddr() != "127.0.0.1:9091" {
		t.Errorf("expected metrics addr 127.0.0.1:9091, got %s", cfg.MetricsAddr())
	}
}

func TestLoad_Defaults(t *testing.T) {
	setValidEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.CatalogLimit != 2000 {
		t.Errorf("unexpected CatalogLimit default: %d", cfg.CatalogLimit)
	}

	if cfg.DefaultTopN != 10 || cfg.MaxTopN != 100 {
		t.Errorf("unexpected top_n defaults: %d/%d", cfg.DefaultTopN, cfg.MaxTopN)
	}

	if cfg.MatchMinScore != 0 {
		t.Errorf("unexpected MatchMinScore default: %v", cfg.MatchMinScore)
	}

	if cfg.RecommendCacheSize != 1024 {
		t.Errorf("unexpected RecommendCacheSize default: %d", cfg.RecommendCacheSize)
	}

	if !cfg.ScraperEnabled || cfg.ScraperTimeout != 5*time.Second {
		t.Errorf("unexpected scraper defaults: %v %v", cfg.ScraperEnabled, cfg.ScraperTimeout)
	}

	if cfg.BucketSyncEnabled() {
		t.Error("expected bucket sync disabled by default")
	}

	if cfg.ArtifactSyncTimeout != 2*time.Minute {
		t.Errorf("unexpected ArtifactSyncTimeout default: %v", cfg.ArtifactSyncTimeout)
	}

	if cfg.CORSAllowAll || cfg.WarmOnStart {
		t.Error("expected CORSAllowAll and WarmOnStart to default to false")
	}
}

func TestLoad_CORSAllowAll(t *testing.T) {
	setValidEnv(t)
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_ALL", "true")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("expected wildcard to be accepted with CORS_ALLOW_ALL, got %v", err)
	}
	if !cfg.CORSAllowAll {
		t.Error("expected CORSAllowAll=true")
	}
}

func TestLoad_BucketSync(t *testing.T) {
	setValidEnv(t)
	t.Setenv("ARTIFACT_DIR", filepath.Join(t.TempDir(), "not-yet-synced"))
	t.Setenv("ARTIFACT_BUCKET", "snapshots")
	t.Setenv("S3_ENDPOINT", "minio.local:9000")
	t.Setenv("S3_ACCESS_KEY", "access")
	t.Setenv("S3_SECRET_KEY", "secret")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.BucketSyncEnabled() {
		t.Error("expected bucket sync enabled")
	}
	if got := fmt.Sprintf("%v", cfg.S3SecretKey); got != "[REDACTED]" {
		t.Errorf("secret leaked through formatting: %q", got)
	}
	if cfg.S3SecretKey.Value() != "secret" {
		t.Error("expected secret value to be retrievable")
	}
}

func TestLoad_ErrorCases(t *testing.T) {
	notDir := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(notDir, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name         string
		envOverrides map[string]string
		wantErr      string
	}{
		{
			name:         "invalid PORT zero",
			envOverrides: map[string]string{"PORT": "0"},
			wantErr:      "PORT must be between 1 and 65535",
		},
		{
			name:         "invalid PORT non-numeric",
			envOverrides: map[string]string{"PORT": "abc"},
			wantErr:      "PORT must be a valid integer",
		},
		{
			name:         "invalid LISTEN_HOST",
			envOverrides: map[string]string{"LISTEN_HOST": "192.168.1.1"},
			wantErr:      "LISTEN_HOST must be a loopback address or 0.0.0.0/:: for containers",
		},
		{
			name:         "METRICS_PORT same as PORT",
			envOverrides: map[string]string{"METRICS_PORT": "8000"},
			wantErr:      "METRICS_PORT must differ from PORT",
		},
		{
			name:         "CORS wildcard",
			envOverrides: map[string]string{"CORS_ORIGINS": "*"},
			wantErr:      "CORS_ORIGINS must not contain wildcard",
		},
		{
			name:         "CORS invalid origin",
			envOverrides: map[string]string{"CORS_ORIGINS": "not-a-url"},
			wantErr:      "CORS_ORIGINS contains invalid origin",
		},
		{
			name:         "artifact dir missing",
			envOverrides: map[string]string{"ARTIFACT_DIR": "/definitely/not/here"},
			wantErr:      "ARTIFACT_DIR",
		},
		{
			name:         "artifact dir is a file",
			envOverrides: map[string]string{"ARTIFACT_DIR": notDir},
			wantErr:      "is not a directory",
		},
		{
			name:         "catalog limit zero",
			envOverrides: map[string]string{"CATALOG_LIMIT": "0"},
			wantErr:      "CATALOG_LIMIT must be an integer between 1 and 1000000",
		},
		{
			name:         "default top_n above max",
			envOverrides: map[string]string{"DEFAULT_TOP_N": "50", "MAX_TOP_N": "20"},
			wantErr:      "DEFAULT_TOP_N (50) must not exceed MAX_TOP_N (20)",
		},
		{
			name:         "max top_n non-numeric",
			envOverrides: map[string]string{"MAX_TOP_N": "lots"},
			wantErr:      "MAX_TOP_N must be an integer",
		},
		{
			name:         "negative cache size",
			envOverrides: map[string]string{"RECOMMEND_CACHE_SIZE": "-1"},
			wantErr:      "RECOMMEND_CACHE_SIZE must be an integer",
		},
		{
			name:         "match score out of range",
			envOverrides: map[string]string{"MATCH_MIN_SCORE": "100"},
			wantErr:      "MATCH_MIN_SCORE must be a number in [0, 100)",
		},
		{
			name:         "scraper timeout invalid",
			envOverrides: map[string]string{"SCRAPER_TIMEOUT": "soon"},
			wantErr:      "SCRAPER_TIMEOUT must be a duration",
		},
		{
			name:         "scraper plain http remote",
			envOverrides: map[string]string{"SCRAPER_BASE_URL": "http://shop.example.com/dp/"},
			wantErr:      "SCRAPER_BASE_URL must use HTTPS",
		},
		{
			name:         "sync timeout invalid",
			envOverrides: map[string]string{"ARTIFACT_SYNC_TIMEOUT": "0s"},
			wantErr:      "ARTIFACT_SYNC_TIMEOUT must be a duration",
		},
		{
			name:         "bucket without endpoint",
			envOverrides: map[string]string{"ARTIFACT_BUCKET": "snapshots"},
			wantErr:      "S3_ENDPOINT is required",
		},
		{
			name:         "endpoint with scheme",
			envOverrides: map[string]string{"ARTIFACT_BUCKET": "snapshots", "S3_ENDPOINT": "https://s3.local"},
			wantErr:      "S3_ENDPOINT must be host[:port]",
		},
		{
			name:         "half credentials",
			envOverrides: map[string]string{"ARTIFACT_BUCKET": "snapshots", "S3_ENDPOINT": "s3.local", "S3_ACCESS_KEY": "a"},
			wantErr:      "S3_ACCESS_KEY and S3_SECRET_KEY must be set together",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setValidEnv(t)
			for k, v := range tc.envOverrides {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %q", tc.wantErr, err.Error())
			}
		})
	}
}

func TestLoad_ScraperDisabledSkipsURLCheck(t *testing.T) {
	setValidEnv(t)
	t.Setenv("SCRAPER_ENABLED", "false")
	t.Setenv("SCRAPER_BASE_URL", "http://shop.example.com/dp/")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ScraperEnabled {
		t.Error("expected scraper disabled")
	}
}
