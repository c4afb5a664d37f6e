// config_keys.go provides key-value access to configuration settings.
//
// Separated from config.go to isolate the key enumeration and string-based
// get/set logic, the interface the CLI's "config get/set" subcommands use.
package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrUnknownKey is returned when getting/setting an unknown config key.
var ErrUnknownKey = fmt.Errorf("unknown config key")

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		"index_path", "cache_root", "latest_only", "batch_size", "concurrency",
	}
}

// IsValidKey returns true if the key is a valid configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(ValidKeys(), key)
}

// Get returns the value of a configuration key as a string.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "index_path":
		return c.IndexPath, nil
	case "cache_root":
		return c.CacheRoot, nil
	case "latest_only":
		return strconv.FormatBool(c.LatestOnly), nil
	case "batch_size":
		return strconv.Itoa(c.EffectiveBatchSize()), nil
	case "concurrency":
		return strconv.Itoa(c.EffectiveConcurrency()), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set sets the value of a configuration key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "index_path":
		c.IndexPath = value
	case "cache_root":
		c.CacheRoot = value
	case "latest_only":
		v := strings.ToLower(value)
		if v != "true" && v != "false" {
			return fmt.Errorf("%w: latest_only must be true or false", ErrInvalidValue)
		}
		c.LatestOnly = v == "true"
	case "batch_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: batch_size must be an integer", ErrInvalidValue)
		}
		c.BatchSize = n
	case "concurrency":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: concurrency must be an integer", ErrInvalidValue)
		}
		c.Concurrency = n
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return c.Validate()
}

// All returns all configuration values as a map.
func (c *Config) All() map[string]string {
	return map[string]string{
		"index_path":  c.IndexPath,
		"cache_root":  c.CacheRoot,
		"latest_only": strconv.FormatBool(c.LatestOnly),
		"batch_size":  strconv.Itoa(c.EffectiveBatchSize()),
		"concurrency": strconv.Itoa(c.EffectiveConcurrency()),
	}
}

// IsSet returns true if the key has an explicit, non-default value.
func (c *Config) IsSet(key string) bool {
	switch key {
	case "index_path":
		return c.IndexPath != ""
	case "cache_root":
		return c.CacheRoot != ""
	case "latest_only":
		return c.LatestOnly
	case "batch_size":
		return c.BatchSize != 0
	case "concurrency":
		return c.Concurrency != 0
	default:
		return false
	}
}
