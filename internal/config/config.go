// Package config loads runtime settings from BUDDY_* environment
// variables. Flags layer on top of these in the CLI; code defaults sit
// underneath.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/abhisek/buddy/internal/store"
)

// Config is the environment-derived runtime configuration.
type Config struct {
	// DBPath overrides the default database location. Empty means the
	// XDG resolution in store.DefaultDBPath applies.
	DBPath string `env:"BUDDY_DB"`

	// ActivitiesPath points at a custom activity catalog file. Empty
	// means the embedded sample catalog is used.
	ActivitiesPath string `env:"BUDDY_ACTIVITIES"`

	// ProfilesPath points at a custom child profiles file. Empty means
	// the embedded sample profiles are used.
	ProfilesPath string `env:"BUDDY_PROFILES"`

	// LearningRate overrides the skill-update step size. Zero means the
	// built-in default.
	LearningRate float64 `env:"BUDDY_LEARNING_RATE"`

	// BatchSize is the default number of recommendations per session.
	BatchSize int `env:"BUDDY_BATCH_SIZE" envDefault:"3"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.LearningRate < 0 || cfg.LearningRate > 1 {
		return nil, fmt.Errorf("BUDDY_LEARNING_RATE must be in [0,1], got %v", cfg.LearningRate)
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("BUDDY_BATCH_SIZE must be positive, got %d", cfg.BatchSize)
	}
	return &cfg, nil
}

// ResolveDBPath returns the configured database path, falling back to
// the XDG default, and ensures its directory exists.
func (c *Config) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, store.EnsureDir(c.DBPath)
	}
	return store.DefaultDBPath()
}
