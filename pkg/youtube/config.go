// Package youtube provides the typed metrics-source client for the platform
// Data API.
package youtube

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

// Define static errors
var (
	ErrBaseURLRequired = errors.New("youtube base URL is required")
	ErrOAuthUnset      = errors.New("oauth client credentials are not set")
)

// Config holds source client configuration
type Config struct {
	// BaseURL is the Data API endpoint.
	BaseURL string `yaml:"baseURL" default:"https://www.googleapis.com/youtube/v3"`
	// Timeout bounds every source call.
	Timeout time.Duration `yaml:"timeout" default:"10s"`
	// VideoCategoryID filters niche searches. The default targets the music
	// category, matching the product's current niche.
	VideoCategoryID string `yaml:"videoCategoryId" default:"10"`
	// SearchWindowDays bounds how far back niche searches look.
	SearchWindowDays int `yaml:"searchWindowDays" default:"90"`
	// NicheSearchResults is the page size for topic/keyword searches.
	NicheSearchResults int `yaml:"nicheSearchResults" default:"50"`
	// RecentVideoResults is the page size for the caller's own recent videos.
	RecentVideoResults int `yaml:"recentVideoResults" default:"10"`
	// UploadsPlaylistResults is how many uploads to scan for comments.
	UploadsPlaylistResults int `yaml:"uploadsPlaylistResults" default:"5"`
	// CommentsPerVideo is the comment thread page size per video.
	CommentsPerVideo int `yaml:"commentsPerVideo" default:"20"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrBaseURLRequired
	}

	return nil
}

// OAuthSecrets holds the platform OAuth client credentials, sourced from the
// environment.
type OAuthSecrets struct {
	ClientID     string `env:"ECHOTUBE_OAUTH_CLIENT_ID"`
	ClientSecret string `env:"ECHOTUBE_OAUTH_CLIENT_SECRET"`
}

// LoadOAuthSecrets reads OAuth client credentials from the environment.
func LoadOAuthSecrets() (*OAuthSecrets, error) {
	secrets := &OAuthSecrets{}
	if err := env.Parse(secrets); err != nil {
		return nil, err
	}

	if secrets.ClientID == "" || secrets.ClientSecret == "" {
		return nil, ErrOAuthUnset
	}

	return secrets, nil
}
