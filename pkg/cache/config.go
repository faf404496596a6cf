package cache

import (
	"errors"
	"time"
)

// Define static errors
var (
	ErrTTLInvalid = errors.New("cache ttl must be positive")
)

// Config holds response cache configuration
type Config struct {
	// TTL is how long a cached payload is considered fresh.
	TTL time.Duration `yaml:"ttl" default:"30m"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.TTL <= 0 {
		return ErrTTLInvalid
	}

	return nil
}
