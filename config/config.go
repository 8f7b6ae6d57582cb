// Package config provides configuration loading and validation for dbroute
// pool sets. Supports YAML files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Recognized pool roles.
const (
	RoleWrite = "write"
	RoleRead  = "read"
)

// Config describes the full pool set and the routing policy.
type Config struct {
	Pools   []PoolConfig  `yaml:"pools"`
	Routing RoutingConfig `yaml:"routing"`
}

// PoolConfig describes a single named connection pool.
type PoolConfig struct {
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// RoutingConfig configures operation classification. ReadPrefixes extends
// the default read-indicating prefix set.
type RoutingConfig struct {
	ReadPrefixes []string `yaml:"readPrefixes"`
}

// Default returns an empty Config for Parse to fill in. Pools carry no
// defaults: every pool must be named and given a role and a DSN explicitly.
func Default() *Config {
	return &Config{}
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	return Parse(data)
}

// Parse unmarshals and validates YAML configuration bytes.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the pool set: exactly one write pool, unique non-empty
// names, recognized roles and non-empty DSNs. A process must not start on a
// config that fails validation.
func (c *Config) Validate() error {
	writes := 0
	seen := make(map[string]struct{}, len(c.Pools))

	for _, pool := range c.Pools {
		if pool.Name == "" {
			return fmt.Errorf("pool with empty name")
		}
		if _, found := seen[pool.Name]; found {
			return fmt.Errorf("duplicate pool name %q", pool.Name)
		}
		seen[pool.Name] = struct{}{}

		switch pool.Role {
		case RoleWrite:
			writes++
		case RoleRead:
		default:
			return fmt.Errorf("pool %q: unknown role %q", pool.Name, pool.Role)
		}

		if pool.DSN == "" {
			return fmt.Errorf("pool %q: dsn is required", pool.Name)
		}
	}

	if writes == 0 {
		return fmt.Errorf("exactly one write pool is required, got none")
	}
	if writes > 1 {
		return fmt.Errorf("exactly one write pool is required, got %d", writes)
	}

	return nil
}
