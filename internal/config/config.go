// Package config loads the CLI configuration file and agent data
// snapshots.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the qacoach configuration, read from a YAML file. Zero
// values fall back to defaults.
type Config struct {
	// BackendURL is the base URL of the gamification backend.
	BackendURL string `yaml:"backend_url"`
	// AgentID identifies the agent whose data is reconciled.
	AgentID string `yaml:"agent_id"`
	// SnapshotPath points at the agent data snapshot JSON file.
	SnapshotPath string `yaml:"snapshot_path"`

	// SyncDebounceMS is the settle window for snapshot updates.
	SyncDebounceMS int `yaml:"sync_debounce_ms"`
	// CelebrationDisplayMS is how long a celebration stays on screen.
	CelebrationDisplayMS int `yaml:"celebration_display_ms"`
	// CelebrationPauseMS separates consecutive celebrations.
	CelebrationPauseMS int `yaml:"celebration_pause_ms"`

	// RequestTimeoutMS bounds each backend request.
	RequestTimeoutMS int `yaml:"request_timeout_ms"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BackendURL:           "http://localhost:8000",
		SyncDebounceMS:       1000,
		CelebrationDisplayMS: 4000,
		CelebrationPauseMS:   500,
		RequestTimeoutMS:     10000,
	}
}

// Load reads a YAML config file and overlays it on the defaults. A
// missing file is not an error: the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// SyncDebounce returns the debounce window as a duration.
func (c Config) SyncDebounce() time.Duration {
	return time.Duration(c.SyncDebounceMS) * time.Millisecond
}

// CelebrationDisplay returns the display duration.
func (c Config) CelebrationDisplay() time.Duration {
	return time.Duration(c.CelebrationDisplayMS) * time.Millisecond
}

// CelebrationPause returns the inter-celebration pause.
func (c Config) CelebrationPause() time.Duration {
	return time.Duration(c.CelebrationPauseMS) * time.Millisecond
}

// RequestTimeout returns the backend request timeout.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}
