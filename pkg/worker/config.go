package worker

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

var (
	// ErrInvalidConcurrency is returned when concurrency is not positive
	ErrInvalidConcurrency = errors.New("concurrency must be positive")
)

// Config contains background refresh worker settings
type Config struct {
	Enabled     bool `yaml:"enabled" default:"true"`
	Concurrency int  `yaml:"concurrency" default:"10"`

	// QuotaResetSchedule is a cron expression marking when the metrics
	// source's daily quota resets. Deferred refresh tasks run at the next
	// occurrence.
	QuotaResetSchedule string `yaml:"quotaResetSchedule" default:"0 0 * * *"`

	// QuotaResetTimezone is the IANA zone the schedule is evaluated in.
	QuotaResetTimezone string `yaml:"quotaResetTimezone" default:"America/Los_Angeles"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if _, err := cron.ParseStandard(c.QuotaResetSchedule); err != nil {
		return fmt.Errorf("invalid quota reset schedule: %w", err)
	}

	if _, err := time.LoadLocation(c.QuotaResetTimezone); err != nil {
		return fmt.Errorf("invalid quota reset timezone: %w", err)
	}

	return nil
}
