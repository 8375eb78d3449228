// Package config loads the rmsctl configuration file. The backend base
// address and request timeout are fixed configuration: they are resolved
// once at startup and never vary per call.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file is absent or partial.
const (
	DefaultBaseURL = "http://127.0.0.1:8000"
	DefaultTimeout = 10 * time.Second
)

// Config is the on-disk configuration, usually ~/.rmsctl/config.yaml.
type Config struct {
	// BaseURL is the backend API address.
	BaseURL string `yaml:"base_url"`

	// Timeout is the fixed per-request timeout.
	Timeout time.Duration `yaml:"timeout"`

	// SessionFile overrides where the credential is persisted.
	SessionFile string `yaml:"session_file"`

	// CacheDir enables disk caching for public website reads when set.
	CacheDir string `yaml:"cache_dir"`
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".rmsctl", "config.yaml"), nil
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file yields the defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	log.Debug().
		Str("path", path).
		Str("base_url", cfg.BaseURL).
		Dur("timeout", cfg.Timeout).
		Msg("config loaded")

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}
