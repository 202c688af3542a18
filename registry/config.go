// CLAUDE:SUMMARY Configuration struct, defaults, and YAML loading for the expert registry.
package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config configures the expert registry.
type Config struct {
	// ExpertsDir is the directory holding the expert files (default: "experts").
	ExpertsDir string `yaml:"experts_dir"`

	// MaxFileSize is the largest expert file read into a snapshot, in
	// bytes (default: 4 MB). Oversized files are skipped with a warning.
	MaxFileSize int64 `yaml:"max_file_size"`

	// SummaryMaxLen is the display length cap for role summaries in
	// listings (default: 250 runes). Consultation output is never capped.
	SummaryMaxLen int `yaml:"summary_max_len"`

	// FallbackLen is the content-prefix length used as a placeholder
	// summary when no role could be extracted (default: 80 runes).
	FallbackLen int `yaml:"fallback_len"`
}

func (c *Config) defaults() {
	if c.ExpertsDir == "" {
		c.ExpertsDir = "experts"
	}
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 4 * 1024 * 1024
	}
	if c.SummaryMaxLen <= 0 {
		c.SummaryMaxLen = 250
	}
	if c.FallbackLen <= 0 {
		c.FallbackLen = 80
	}
}

// Validate checks that configured values are sane.
func (c *Config) Validate() error {
	if c.SummaryMaxLen <= 3 {
		return fmt.Errorf("summary_max_len must be > 3, got %d", c.SummaryMaxLen)
	}
	return nil
}

// LoadConfigFile reads and parses a YAML config file, merged over defaults.
func LoadConfigFile(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.defaults()
	return cfg, cfg.Validate()
}
