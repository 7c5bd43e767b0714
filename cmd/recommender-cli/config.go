package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// profileConfig holds connection settings for a single profile.
type profileConfig struct {
	URL string `yaml:"url"`
}

// configFile is ~/.recommender/config.yaml. A flat top-level url is accepted
// for hand-written files; profiles take precedence.
type configFile struct {
	URL           string                   `yaml:"url,omitempty"`
	Profiles      map[string]profileConfig `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

// profileURL returns the URL for name, the active profile when name is empty.
func (c *configFile) profileURL(name string) string {
	if name == "" {
		name = c.ActiveProfile
	}
	if name == "" {
		name = "default"
	}
	if p, ok := c.Profiles[name]; ok && p.URL != "" {
		return p.URL
	}
	return c.URL
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".recommender", "config.yaml"), nil
}

func loadConfigFile() (string, *configFile, error) {
	path, err := configPath()
	if err != nil {
		return "", nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is under the user's home.
	if err != nil {
		return path, nil, err
	}

	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return path, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return path, &cfg, nil
}

// saveProfile writes url under profile, keeping other profiles, and makes it active.
func saveProfile(profile, url string) (string, error) {
	path, cfg, err := loadConfigFile()
	if err != nil {
		if path == "" || !os.IsNotExist(err) {
			return "", err
		}
		cfg = &configFile{}
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]profileConfig{}
	}

	cfg.Profiles[profile] = profileConfig{URL: url}
	cfg.ActiveProfile = profile

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
