// Package config loads the application configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/postforge/internal/document"
	ferrors "git.home.luguber.info/inful/postforge/internal/errors"
)

// Config represents the application configuration.
type Config struct {
	Content   ContentConfig   `yaml:"content"`
	Index     IndexConfig     `yaml:"index"`
	Permalink PermalinkConfig `yaml:"permalink"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Watch     WatchConfig     `yaml:"watch"`
}

// ContentConfig locates post sources.
type ContentConfig struct {
	// Dir is the directory walked for post sources.
	Dir string `yaml:"dir"`
	// Extensions lists the file extensions treated as posts.
	Extensions []string `yaml:"extensions,omitempty"`
	// Workers bounds parallel per-document processing (0 = NumCPU).
	Workers int `yaml:"workers,omitempty"`
}

// IndexConfig controls index persistence.
type IndexConfig struct {
	// Path of the SQLite index file. Empty keeps the index in memory only.
	Path string `yaml:"path,omitempty"`
}

// PermalinkConfig controls identifier derivation.
type PermalinkConfig struct {
	// CategoryOrder picks the canonical ordering of a post's categories:
	// "insertion" (default) or "alphabetical". The primary category feeds
	// the permalink, so this is part of identifier derivation.
	CategoryOrder string `yaml:"category_order,omitempty"`
}

// MetricsConfig controls the optional Prometheus listener in watch mode.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen,omitempty"`
}

// WatchConfig controls watch mode behavior.
type WatchConfig struct {
	// Debounce delays re-renders after a burst of file events.
	Debounce Duration `yaml:"debounce,omitempty"`
	// RescanInterval schedules periodic full rescans (negative disables).
	RescanInterval Duration `yaml:"rescan_interval,omitempty"`
}

// Default values applied by Load and Normalize.
const (
	DefaultContentDir     = "./_posts"
	DefaultDebounce       = 2 * time.Second
	DefaultRescanInterval = 5 * time.Minute
	DefaultMetricsListen  = ":9090"
)

// DefaultExtensions are the post source extensions used when none configured.
var DefaultExtensions = []string{".md", ".markdown"}

// Load loads configuration from the specified file, after loading any
// .env/.env.local files and expanding environment variables in the YAML.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a config with all defaults applied, for callers running
// without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.Normalize()
	return cfg
}

// Normalize applies defaults in place.
func (c *Config) Normalize() {
	if c.Content.Dir == "" {
		c.Content.Dir = DefaultContentDir
	}
	if len(c.Content.Extensions) == 0 {
		c.Content.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if c.Permalink.CategoryOrder == "" {
		c.Permalink.CategoryOrder = string(document.OrderInsertion)
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = Duration(DefaultDebounce)
	}
	if c.Watch.RescanInterval < 0 {
		c.Watch.RescanInterval = 0
	} else if c.Watch.RescanInterval == 0 {
		c.Watch.RescanInterval = Duration(DefaultRescanInterval)
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		c.Metrics.Listen = DefaultMetricsListen
	}
}

// Validate rejects configurations the pipeline cannot honor.
func (c *Config) Validate() error {
	switch document.CategoryOrder(c.Permalink.CategoryOrder) {
	case document.OrderInsertion, document.OrderAlphabetical:
	default:
		return ferrors.ConfigInvalid("permalink.category_order",
			fmt.Sprintf("unknown policy %q (want insertion or alphabetical)", c.Permalink.CategoryOrder))
	}
	if c.Content.Workers < 0 {
		return ferrors.ConfigInvalid("content.workers", "must not be negative")
	}
	return nil
}

// CategoryOrder returns the typed category ordering policy.
func (c *Config) CategoryOrder() document.CategoryOrder {
	return document.CategoryOrder(c.Permalink.CategoryOrder)
}
