package inmem

import (
	"fmt"
	"time"

	"github.com/dverbeek/mockmate/internal/memory"
)

const (
	defaultPruneAfter    = "24h"
	defaultPruneSchedule = "0 * * * *" // hourly, on the hour
)

// Config holds the memory.history module configuration.
type Config struct {
	// MaxExchanges is the number of user/assistant pairs kept per session.
	MaxExchanges int `yaml:"max_exchanges"`

	// PruneAfter is the idle duration after which a session is discarded.
	PruneAfter string `yaml:"prune_after"`

	// PruneSchedule is a five-field cron expression for the prune job.
	PruneSchedule string `yaml:"prune_schedule"`
}

func (c *Config) defaults() {
	if c.MaxExchanges <= 0 {
		c.MaxExchanges = memory.DefaultMaxExchanges
	}
	if c.PruneAfter == "" {
		c.PruneAfter = defaultPruneAfter
	}
	if c.PruneSchedule == "" {
		c.PruneSchedule = defaultPruneSchedule
	}
}

// parsedPruneAfter returns the idle allowance as a time.Duration.
// Assumes the value has been validated.
func (c *Config) parsedPruneAfter() time.Duration {
	d, err := time.ParseDuration(c.PruneAfter)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

func (c *Config) validate() error {
	d, err := time.ParseDuration(c.PruneAfter)
	if err != nil {
		return fmt.Errorf("memory.history: invalid prune_after %q: %w", c.PruneAfter, err)
	}
	if d <= 0 {
		return fmt.Errorf("memory.history: prune_after must be positive, got %s", d)
	}
	return nil
}
