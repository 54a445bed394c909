package internal

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the engine's runtime settings.
type Config struct {
	BackendURL            string `yaml:"backend_url"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	StoragePath           string `yaml:"storage_path"`
	DefaultModel          string `yaml:"default_model"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		BackendURL:            "http://localhost:3001/api/chat",
		RequestTimeoutSeconds: 60,
		StoragePath:           "casechat.db",
	}
}

// LoadConfig reads a YAML config file, filling unset fields with defaults.
// An absent file is not an error; it yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.BackendURL == "" {
		cfg.BackendURL = DefaultConfig().BackendURL
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = DefaultConfig().RequestTimeoutSeconds
	}
	if cfg.StoragePath == "" {
		cfg.StoragePath = DefaultConfig().StoragePath
	}

	return cfg, nil
}

// RequestTimeout returns the gateway timeout as a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
