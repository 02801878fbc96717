// Package config provides settings management for the scraper.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Source modes.
const (
	ModeOffline = "offline"
	ModeOnline  = "online"
)

// Defaults applied before the settings file is decoded.
const (
	DefaultMode        = ModeOffline
	DefaultConcurrency = 4
	DefaultOutputPath  = "data/output.json"
	DefaultHTTPTimeout = 15
)

// Settings validation errors.
var (
	ErrSettingsNotFound  = errors.New("settings file not found")
	ErrUnsupportedFormat = errors.New("settings file must be .json, .yaml, .yml or .toml")
	ErrInvalidMaxPages   = errors.New("maxPages must be non-negative")
	ErrMissingOutputPath = errors.New("output.path is required")
	ErrInvalidTimeout    = errors.New("http.timeout must be at least 1 second")
	ErrInvalidLogLevel   = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete scraper settings.
type Config struct {
	Mode        string        `json:"mode" yaml:"mode" toml:"mode"`
	MaxPages    int           `json:"maxPages" yaml:"maxPages" toml:"maxPages"`
	Concurrency int           `json:"concurrency" yaml:"concurrency" toml:"concurrency"`
	Output      OutputConfig  `json:"output" yaml:"output" toml:"output"`
	HTTP        HTTPConfig    `json:"http" yaml:"http" toml:"http"`
	Logging     LoggingConfig `json:"logging" yaml:"logging" toml:"logging"`
}

// OutputConfig defines where results are written.
type OutputConfig struct {
	Path       string `json:"path" yaml:"path" toml:"path"`
	SQLitePath string `json:"sqlitePath" yaml:"sqlitePath" toml:"sqlitePath"`
	ReportPath string `json:"reportPath" yaml:"reportPath" toml:"reportPath"`
}

// HTTPConfig holds settings reserved for the online mode.
type HTTPConfig struct {
	// Timeout is in seconds.
	Timeout int `json:"timeout" yaml:"timeout" toml:"timeout"`
}

// LoggingConfig defines logging behavior. An empty level defers to the CLI verbosity.
type LoggingConfig struct {
	Level string `json:"level" yaml:"level" toml:"level"`
}

// Default returns the settings used for every key the file leaves out.
func Default() *Config {
	return &Config{
		Mode:        DefaultMode,
		Concurrency: DefaultConcurrency,
		Output:      OutputConfig{Path: DefaultOutputPath},
		HTTP:        HTTPConfig{Timeout: DefaultHTTPTimeout},
	}
}

// LoadConfig loads settings from a JSON, YAML or TOML file chosen by extension.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSettingsNotFound, path)
		}

		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("settings validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes settings in the format named by ext on top of Default.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Default()

	var err error

	switch strings.ToLower(ext) {
	case ".json":
		err = json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to parse %s settings: %w", strings.TrimPrefix(ext, "."), err)
	}

	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	if cfg.Mode == "" {
		cfg.Mode = DefaultMode
	}

	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))

	return cfg, nil
}

// Validate validates the settings.
func (c *Config) Validate() error {
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	if strings.TrimSpace(c.Output.Path) == "" {
		return ErrMissingOutputPath
	}

	if c.HTTP.Timeout < 1 {
		return ErrInvalidTimeout
	}

	if c.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[c.Logging.Level] {
			return ErrInvalidLogLevel
		}
	}

	return nil
}

// IsOffline reports whether ads come from the bundled sample only.
func (c *Config) IsOffline() bool {
	return c.Mode == ModeOffline
}

// Workers returns the number of advertisers processed in parallel, at least 1.
func (c *Config) Workers() int {
	if c.Concurrency < 1 {
		return 1
	}

	return c.Concurrency
}

// GetTimeout returns the HTTP timeout duration.
func (c *HTTPConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Mode: %s, MaxPages: %d, Concurrency: %d, Output: %s}",
		c.Mode,
		c.MaxPages,
		c.Concurrency,
		c.Output.Path,
	)
}
