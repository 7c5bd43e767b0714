package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

func (c *Config) validate() error {
	if err := c.validateNetwork(); err != nil {
		return err
	}

	if err := c.validateCORS(); err != nil {
		return err
	}

	if err := c.validateArtifacts(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateScraper(); err != nil {
		return err
	}

	if err := c.validateBucket(); err != nil {
		return err
	}

	return nil
}

func (c *Config) validateNetwork() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid integer: %w", err)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	// Loopback for local runs, 0.0.0.0/:: for containers where the network
	// boundary is enforced externally.
	validHosts := map[string]bool{
		"127.0.0.1": true,
		"::1":       true,
		"localhost": true,
		"0.0.0.0":   true,
		"::":        true,
	}
	if !validHosts[c.ListenHost] {
		return fmt.Errorf("LISTEN_HOST must be a loopback address or 0.0.0.0/:: for containers (got %q)", c.ListenHost)
	}

	metricsPort, err := strconv.Atoi(c.MetricsPort)
	if err != nil {
		return fmt.Errorf("METRICS_PORT must be a valid integer: %w", err)
	}

	if metricsPort < 1 || metricsPort > 65535 {
		return fmt.Errorf("METRICS_PORT must be between 1 and 65535")
	}

	if metricsPort == port {
		return fmt.Errorf("METRICS_PORT must differ from PORT")
	}

	return nil
}

func (c *Config) validateCORS() error {
	if c.CORSAllowAll {
		return nil
	}

	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGINS must not contain wildcard '*' (set CORS_ALLOW_ALL=true to allow every origin)")
		}
		if strings.ContainsAny(origin, "*?[]") {
			return fmt.Errorf("CORS_ORIGINS must not contain glob characters (*?[]), got %q", origin)
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("CORS_ORIGINS contains invalid origin %q (must have scheme and host)", origin)
		}
	}

	return nil
}

func (c *Config) validateArtifacts() error {
	if c.ArtifactDir == "" {
		return fmt.Errorf("ARTIFACT_DIR is required")
	}

	info, err := os.Stat(c.ArtifactDir)
	if err != nil {
		if os.IsNotExist(err) && c.BucketSyncEnabled() {
			return nil
		}
		return fmt.Errorf("ARTIFACT_DIR %q is not accessible: %w", c.ArtifactDir, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("ARTIFACT_DIR %q is not a directory", c.ArtifactDir)
	}

	return nil
}

func (c *Config) validateRecommend() error {
	if c.DefaultTopN > c.MaxTopN {
		return fmt.Errorf("DEFAULT_TOP_N (%d) must not exceed MAX_TOP_N (%d)", c.DefaultTopN, c.MaxTopN)
	}

	return nil
}

func (c *Config) validateScraper() error {
	if !c.ScraperEnabled {
		return nil
	}

	u, err := url.ParseRequestURI(c.ScraperBaseURL)
	if err != nil {
		return fmt.Errorf("SCRAPER_BASE_URL is not a valid URL: %w", err)
	}

	if u.Scheme != "https" && !isLocalhost(c.ScraperBaseURL) {
		return fmt.Errorf("SCRAPER_BASE_URL must use HTTPS for non-localhost hosts")
	}

	return nil
}

func (c *Config) validateBucket() error {
	if !c.BucketSyncEnabled() {
		return nil
	}

	if c.S3Endpoint == "" {
		return fmt.Errorf("S3_ENDPOINT is required when ARTIFACT_BUCKET is set")
	}

	if strings.Contains(c.S3Endpoint, "://") {
		return fmt.Errorf("S3_ENDPOINT must be host[:port] without a scheme, got %q", c.S3Endpoint)
	}

	if (c.S3AccessKey.Value() == "") != (c.S3SecretKey.Value() == "") {
		return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY must be set together")
	}

	return nil
}

// isLocalhost returns true if the given address points to a loopback address.
func isLocalhost(addr string) bool {
	u, err := url.Parse(addr)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
