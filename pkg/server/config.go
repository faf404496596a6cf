// Package server provides server configuration and management
package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/creasty/defaults"

	"github.com/echotube/echotube/pkg/api"
	"github.com/echotube/echotube/pkg/cache"
	"github.com/echotube/echotube/pkg/redis"
	"github.com/echotube/echotube/pkg/worker"
	"github.com/echotube/echotube/pkg/youtube"
)

// Define static errors
var (
	ErrRedisConfigRequired = errors.New("redis configuration is required")
)

// Config holds server configuration
type Config struct {
	// MetricsAddr is the address to listen on for metrics.
	MetricsAddr string `yaml:"metricsAddr" default:":9090"`
	// HealthCheckAddr is the address to listen on for healthcheck.
	HealthCheckAddr *string `yaml:"healthCheckAddr"`
	// PProfAddr is the address to listen on for pprof.
	PProfAddr *string `yaml:"pprofAddr"`
	// Logging is the logging level to use.
	Logging string `yaml:"logging" default:"info"`
	// SessionLifetime is how long issued session tokens stay valid.
	SessionLifetime time.Duration `yaml:"sessionLifetime" default:"24h"`
	// ShutdownTimeout is the timeout for shutting down the server.
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" default:"10s"`

	// Redis is the redis configuration.
	Redis *redis.Config `yaml:"redis"`
	// Cache is the response cache configuration.
	Cache *cache.Config `yaml:"cache"`
	// YouTube is the metrics source configuration.
	YouTube *youtube.Config `yaml:"youtube"`
	// API is the HTTP API configuration.
	API *api.Config `yaml:"api"`
	// Worker is the background refresh worker configuration.
	Worker *worker.Config `yaml:"worker"`
}

// NewConfig returns a Config with every component allocated and its defaults
// applied. Unmarshaling a config file over it overrides only the fields the
// file names, so an explicit `enabled: false` sticks.
func NewConfig() (*Config, error) {
	config := &Config{
		Redis:   &redis.Config{},
		Cache:   &cache.Config{},
		YouTube: &youtube.Config{},
		API:     &api.Config{},
		Worker:  &worker.Config{},
	}

	if err := defaults.Set(config); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Redis == nil {
		return ErrRedisConfigRequired
	}

	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("invalid redis configuration: %w", err)
	}

	if c.Cache != nil {
		if err := c.Cache.Validate(); err != nil {
			return fmt.Errorf("invalid cache configuration: %w", err)
		}
	}

	if c.YouTube != nil {
		if err := c.YouTube.Validate(); err != nil {
			return fmt.Errorf("invalid youtube configuration: %w", err)
		}
	}

	if c.API != nil {
		if err := c.API.Validate(); err != nil {
			return fmt.Errorf("invalid api configuration: %w", err)
		}
	}

	if c.Worker != nil {
		if err := c.Worker.Validate(); err != nil {
			return fmt.Errorf("invalid worker configuration: %w", err)
		}
	}

	return nil
}
