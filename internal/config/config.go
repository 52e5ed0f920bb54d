// Package config defines the configuration structure for the bench CLI.
// It uses strict YAML decoding and explicit defaults, following
// vinq1911-nonchalant's internal/config package.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete bench run configuration.
type Config struct {
	Ring RingConfig `yaml:"ring"`
	Run  RunConfig  `yaml:"run"`
}

// RingConfig configures the ring.Ring under test.
type RingConfig struct {
	Capacity uint64 `yaml:"capacity"` // must be a power of two >= 2
}

// RunConfig configures the benchmark harness itself.
type RunConfig struct {
	Producers       int `yaml:"producers"`
	DurationSeconds int `yaml:"duration_seconds"`
	Iterations      int `yaml:"iterations"`
}

// Duration returns the configured run length as a time.Duration.
func (r RunConfig) Duration() time.Duration {
	return time.Duration(r.DurationSeconds) * time.Second
}

// Load reads configuration from a YAML file at path, rejecting unknown
// fields, and applies defaults for anything left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.setDefaults()
	return &cfg, nil
}

// setDefaults applies explicit default values to unset fields.
func (c *Config) setDefaults() {
	if c.Ring.Capacity == 0 {
		c.Ring.Capacity = 1024
	}
	if c.Run.Producers == 0 {
		c.Run.Producers = 4
	}
	if c.Run.DurationSeconds == 0 {
		c.Run.DurationSeconds = 5
	}
	if c.Run.Iterations == 0 {
		c.Run.Iterations = 3
	}
}

// Validate reports whether the config's ring capacity is a usable power of
// two, matching ring.New's own admission rule without importing ring (kept
// dependency-free so config can be unit tested in isolation), and whether at
// least one producer is configured.
func (c *Config) Validate() error {
	capacity := c.Ring.Capacity
	if capacity < 2 || capacity&(capacity-1) != 0 {
		return fmt.Errorf("config: ring.capacity %d must be a power of two >= 2", capacity)
	}
	if c.Run.Producers < 1 {
		return fmt.Errorf("config: run.producers must be >= 1")
	}
	return nil
}
