package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	DefaultFormat string   `yaml:"default_format,omitempty" json:"default_format,omitempty"`
	Usernames     []string `yaml:"usernames,omitempty" json:"usernames,omitempty"`

	// WindowDays is the default summary window when no explicit dates are
	// given: the last N days up to today, inclusive.
	WindowDays int `yaml:"window_days,omitempty" json:"window_days,omitempty"`

	// EnrichDelayMS is the pause between sequential detail fetches, in
	// milliseconds.
	EnrichDelayMS int `yaml:"enrich_delay_ms,omitempty" json:"enrich_delay_ms,omitempty"`

	// MaxEventPages bounds activity-feed pagination per user.
	MaxEventPages int `yaml:"max_event_pages,omitempty" json:"max_event_pages,omitempty"`
}

// Defaults applied when the config file leaves a field unset.
const (
	DefaultFormat        = "table"
	DefaultWindowDays    = 7
	DefaultEnrichDelayMS = 500
	DefaultMaxEventPages = 3
)

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".ghrecap"
	}
	return filepath.Join(configDir, "ghrecap")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".ghrecap.yaml"
}

// Load loads the configuration from disk.
// It first loads the global config from the XDG config directory, then
// merges any local .ghrecap.yaml config on top (local values take
// precedence).
func Load() (*Config, error) {
	cfg := &Config{}

	globalPath := ConfigPath()
	if _, err := os.Stat(globalPath); err == nil {
		data, err := os.ReadFile(globalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read global config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse global config file: %w", err)
		}
	}

	localPath := LocalConfigPath()
	if _, err := os.Stat(localPath); err == nil {
		data, err := os.ReadFile(localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read local config file: %w", err)
		}

		var localCfg Config
		if err := yaml.Unmarshal(data, &localCfg); err != nil {
			return nil, fmt.Errorf("failed to parse local config file: %w", err)
		}

		cfg = mergeConfig(cfg, &localCfg)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DefaultFormat == "" {
		c.DefaultFormat = DefaultFormat
	}
	if c.WindowDays <= 0 {
		c.WindowDays = DefaultWindowDays
	}
	if c.EnrichDelayMS <= 0 {
		c.EnrichDelayMS = DefaultEnrichDelayMS
	}
	if c.MaxEventPages <= 0 {
		c.MaxEventPages = DefaultMaxEventPages
	}
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := *global

	if local.DefaultFormat != "" {
		result.DefaultFormat = local.DefaultFormat
	}
	if len(local.Usernames) > 0 {
		result.Usernames = local.Usernames
	}
	if local.WindowDays > 0 {
		result.WindowDays = local.WindowDays
	}
	if local.EnrichDelayMS > 0 {
		result.EnrichDelayMS = local.EnrichDelayMS
	}
	if local.MaxEventPages > 0 {
		result.MaxEventPages = local.MaxEventPages
	}

	return &result
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	configDir := DefaultConfigDir()

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetGitHubToken returns the GitHub token from the GITHUB_TOKEN environment
// variable. Following 12-factor app practice, tokens are only read from the
// environment.
func (c *Config) GetGitHubToken() string {
	return os.Getenv("GITHUB_TOKEN")
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}
