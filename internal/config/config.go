// Package config defines service configuration and how it is loaded.
package config

import "strings"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the live fan-out queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of fan-out workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many client message ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// StrictWinner only lets the active battle take a winner.
	StrictWinner bool `koanf:"strict_winner"`

	// SeedBattles preloads the two sample battles at startup.
	SeedBattles bool `koanf:"seed_battles"`

	// AvatarPool lists avatar URLs for contacts created without one.
	AvatarPool []string `koanf:"avatar_pool"`

	// CORSOrigins lists origins allowed to call the API.
	CORSOrigins []string `koanf:"cors_origins"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		LogFormat:   "text",
		Addr:        ":9080",
		QueueSize:   1024,
		WorkerCount: 4,
		DedupeSize:  50_000,
		SeedBattles: true,
		CORSOrigins: []string{"*"},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return wrapInvalid("addr must not be empty")
	case c.QueueSize <= 0:
		return wrapInvalid("queue_size must be positive")
	case c.WorkerCount <= 0:
		return wrapInvalid("worker_count must be positive")
	case c.DedupeSize <= 0:
		return wrapInvalid("dedupe_size must be positive")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return wrapInvalid("unknown log_level " + c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return wrapInvalid("unknown log_format " + c.LogFormat)
	}
	return nil
}
