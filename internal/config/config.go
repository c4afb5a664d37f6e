// Package config reads and writes ApiLens configuration. Supports both
// global (~/.apilens/config.yaml) and local (.apilens/config.yaml) scope.
// Reading: uses local if it exists, otherwise global.
// Writing: defaults to global, use --local for local.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoConfigPath is returned when the config path cannot be determined.
	ErrNoConfigPath = errors.New("cannot determine config path")
	// ErrInvalidValue is returned when a config value is invalid.
	ErrInvalidValue = errors.New("invalid config value")
)

// Scope represents the configuration scope (global or local).
type Scope int

const (
	// ScopeGlobal is machine-wide config in ~/.apilens/config.yaml (default).
	ScopeGlobal Scope = iota
	// ScopeLocal is directory-specific config in .apilens/config.yaml.
	ScopeLocal
)

// Default tunables applied when not configured, matching spec §4.4.
const DefaultBatchSize = 50_000

// Validation bounds for configuration values.
const (
	MinBatchSize   = 1
	MaxBatchSize   = 1_000_000
	MinConcurrency = 1
	MaxConcurrency = 1024
)

// Config contains configuration for an ApiLens index.
type Config struct {
	IndexPath   string `yaml:"index_path,omitempty"`
	CacheRoot   string `yaml:"cache_root,omitempty"`
	LatestOnly  bool   `yaml:"latest_only,omitempty"`
	BatchSize   int    `yaml:"batch_size,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty"`

	// path is the file this config was loaded from (for Save).
	path  string
	scope Scope
}

// Validate checks that all configured values are within acceptable bounds.
// Returns nil if all values are valid or not set (defaults will be used).
func (c *Config) Validate() error {
	if c.BatchSize != 0 {
		if c.BatchSize < MinBatchSize || c.BatchSize > MaxBatchSize {
			return fmt.Errorf("%w: batch_size must be between %d and %d, got %d",
				ErrInvalidValue, MinBatchSize, MaxBatchSize, c.BatchSize)
		}
	}
	if c.Concurrency != 0 {
		if c.Concurrency < MinConcurrency || c.Concurrency > MaxConcurrency {
			return fmt.Errorf("%w: concurrency must be between %d and %d, got %d",
				ErrInvalidValue, MinConcurrency, MaxConcurrency, c.Concurrency)
		}
	}
	return nil
}

// EffectiveBatchSize returns BatchSize, or DefaultBatchSize if unset.
func (c *Config) EffectiveBatchSize() int {
	if c.BatchSize == 0 {
		return DefaultBatchSize
	}
	return c.BatchSize
}

// EffectiveConcurrency returns Concurrency, or runtime.NumCPU() if unset.
func (c *Config) EffectiveConcurrency() int {
	if c.Concurrency == 0 {
		return runtime.NumCPU()
	}
	return c.Concurrency
}

// LocalPath returns the path to the local (directory-scoped) config file.
func LocalPath() string {
	return filepath.Join(".apilens", "config.yaml")
}

// GlobalPath returns the path to the global (machine) config file:
// ~/.apilens/config.yaml.
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".apilens", "config.yaml")
}

// Load reads configuration: uses local if it exists, otherwise global.
func Load() (*Config, error) {
	if _, err := os.Stat(LocalPath()); err == nil {
		return LoadScope(ScopeLocal)
	}
	return LoadScope(ScopeGlobal)
}

// LoadScope reads configuration from a specific scope.
func LoadScope(scope Scope) (*Config, error) {
	path := pathForScope(scope)
	if path == "" {
		return &Config{scope: scope}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{path: path, scope: scope}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed config file %s: %w\n\nTo fix: edit the file to correct the YAML syntax, or delete it to use defaults", path, err)
	}
	cfg.path = path
	cfg.scope = scope

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Scope returns which scope this config was loaded from.
func (c *Config) Scope() Scope {
	return c.scope
}

// Save writes the configuration to its original location.
func (c *Config) Save() error {
	if c.path == "" {
		c.path = pathForScope(c.scope)
	}
	if c.path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(c.path)
}

// SaveScope writes the configuration to the specified scope.
func (c *Config) SaveScope(scope Scope) error {
	path := pathForScope(scope)
	if path == "" {
		return ErrNoConfigPath
	}
	return c.saveToPath(path)
}

// saveToPath writes configuration to a specific filesystem path.
// Creates parent directories as needed with mode 0755.
func (c *Config) saveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// pathForScope returns the filesystem path for a given scope.
func pathForScope(scope Scope) string {
	switch scope {
	case ScopeLocal:
		return LocalPath()
	case ScopeGlobal:
		return GlobalPath()
	default:
		return ""
	}
}
