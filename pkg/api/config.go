// Package api exposes the dashboard over HTTP.
package api

import "errors"

// ErrAPIAddrRequired is returned when the API is enabled but no address is configured
var (
	ErrAPIAddrRequired = errors.New("api address is required when API is enabled")
)

// Config represents API service configuration
type Config struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Addr    string `yaml:"addr" default:":8080"`

	// AllowedOrigins are the dashboard origins permitted by CORS.
	AllowedOrigins []string `yaml:"allowedOrigins"`

	// SessionCookie is the cookie the session token is read from.
	SessionCookie string `yaml:"sessionCookie" default:"echotube_session"`
}

// Validate validates the API configuration
func (c *Config) Validate() error {
	if c.Enabled && c.Addr == "" {
		return ErrAPIAddrRequired
	}

	return nil
}
