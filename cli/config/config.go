package config

import (
	"fmt"
	"time"
)

// Config represents a caseforge.yaml configuration file.
// All values are optional and act as defaults for caseforge run flags.
// CLI flags always override config values.
type Config struct {
	Model    ModelConfig    `yaml:"model"`
	Scrape   ScrapeConfig   `yaml:"scrape"`
	Storage  StorageConfig  `yaml:"storage"`
	Adapter  AdapterConfig  `yaml:"adapter"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// ModelConfig holds generative model defaults from the config file.
type ModelConfig struct {
	// BaseURL is an OpenAI-compatible endpoint (optional).
	BaseURL string `yaml:"base_url"`
	Name    string `yaml:"name"`
	// APIKey usually arrives via ${CASEFORGE_API_KEY} expansion rather
	// than a literal value.
	APIKey string `yaml:"api_key"`
}

// ScrapeConfig holds browser extraction defaults from the config file.
type ScrapeConfig struct {
	Timeout     Duration `yaml:"timeout"`
	SettleDelay Duration `yaml:"settle_delay"`
	UserAgent   string   `yaml:"user_agent"`
	Headful     bool     `yaml:"headful"`
}

// StorageConfig holds artifact storage defaults from the config file.
type StorageConfig struct {
	// Backend is "fs" or "s3".
	Backend string `yaml:"backend"`
	// Path is the output directory (fs) or "bucket/prefix" (s3).
	Path        string `yaml:"path"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// AdapterConfig holds notification adapter defaults from the config file.
type AdapterConfig struct {
	Type    string            `yaml:"type"`
	URL     string            `yaml:"url"`
	Channel string            `yaml:"channel,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Retries *int              `yaml:"retries,omitempty"`
}

// DefaultsConfig holds run parameter defaults from the config file.
type DefaultsConfig struct {
	// Cases is the default requested test case count.
	Cases int `yaml:"cases"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}
