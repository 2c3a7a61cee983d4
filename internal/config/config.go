package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Site is the merged configuration fed into template rendering: every
// top-level key from the site's YAML configuration files.
type Site map[string]any

// ReadFile reads one YAML configuration file into a Site map.
func ReadFile(path string) (Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	site := Site{}
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return site, nil
}

// ReadDir merges every *.yaml file in dir, in sorted filename order. Later
// files overwrite earlier top-level keys. A directory with no configuration
// files yields an empty Site, not an error.
func ReadDir(dir string) (Site, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob config dir %s: %w", dir, err)
	}
	sort.Strings(paths)

	merged := Site{}
	for _, p := range paths {
		site, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		for k, v := range site {
			merged[k] = v
		}
	}
	return merged, nil
}

// Serve holds the preview server settings, taken from the environment.
type Serve struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	WatchDebounce   time.Duration
	ShutdownTimeout time.Duration
}

// LoadServe reads the preview server configuration from the environment,
// falling back to defaults suitable for local use.
func LoadServe() Serve {
	return Serve{
		Port:            envOr("PUBLISHER_PORT", "8099"),
		ReadTimeout:     envDuration("PUBLISHER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    envDuration("PUBLISHER_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:     envDuration("PUBLISHER_IDLE_TIMEOUT", 60*time.Second),
		WatchDebounce:   envDuration("PUBLISHER_WATCH_DEBOUNCE", 250*time.Millisecond),
		ShutdownTimeout: envDuration("PUBLISHER_SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
