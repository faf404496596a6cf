// Package session issues and verifies the signed session tokens that identify
// dashboard callers and carry their platform credentials.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Define static errors
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSigningKeyUnset  = errors.New("session signing key is not set")
)

// Secrets holds session secrets sourced from the environment.
type Secrets struct {
	SigningKey string `env:"ECHOTUBE_SESSION_SECRET"`
}

// LoadSecrets reads session secrets from the environment.
func LoadSecrets() (*Secrets, error) {
	secrets := &Secrets{}
	if err := env.Parse(secrets); err != nil {
		return nil, err
	}

	if secrets.SigningKey == "" {
		return nil, ErrSigningKeyUnset
	}

	return secrets, nil
}

// Session is one authenticated caller session.
type Session struct {
	// ID is minted once at session creation and never changes afterwards,
	// so cache entries keyed on it survive token refreshes. Distinct
	// sessions always get distinct IDs.
	ID string

	// Token is the caller's platform OAuth token.
	Token *oauth2.Token

	raw string
}

// CallerKey returns the stable cache key identity for this session.
func (s *Session) CallerKey() string {
	return s.ID
}

// Raw returns the encoded session token the session was parsed from, for
// handing to background refresh tasks.
func (s *Session) Raw() string {
	return s.raw
}

type claims struct {
	jwt.RegisteredClaims
	SessionID    string    `json:"sid"`
	AccessToken  string    `json:"at"`
	RefreshToken string    `json:"rt,omitempty"`
	TokenExpiry  time.Time `json:"exp_at,omitzero"`
}

// Manager signs and verifies session tokens.
type Manager struct {
	signingKey []byte
	lifetime   time.Duration
}

// NewManager creates a session manager with the given secrets.
func NewManager(secrets *Secrets, lifetime time.Duration) (*Manager, error) {
	if secrets == nil || secrets.SigningKey == "" {
		return nil, ErrSigningKeyUnset
	}
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}

	return &Manager{
		signingKey: []byte(secrets.SigningKey),
		lifetime:   lifetime,
	}, nil
}

// Issue creates a new session around the given OAuth token and returns its
// encoded form. A fresh session ID is minted on every call.
func (m *Manager) Issue(token *oauth2.Token) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
		},
		SessionID:   uuid.NewString(),
		AccessToken: token.AccessToken,
	}
	if token.RefreshToken != "" {
		c.RefreshToken = token.RefreshToken
	}
	if !token.Expiry.IsZero() {
		c.TokenExpiry = token.Expiry
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, nil
}

// Refresh re-encodes an existing session with updated OAuth token material,
// keeping the session ID unchanged.
func (m *Manager) Refresh(sess *Session, token *oauth2.Token) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
		},
		SessionID:    sess.ID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExpiry:  token.Expiry,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, nil
}

// Parse verifies an encoded session token. Any verification failure is
// reported as ErrNotAuthenticated.
func (m *Manager) Parse(raw string) (*Session, error) {
	if raw == "" {
		return nil, ErrNotAuthenticated
	}

	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(_ *jwt.Token) (interface{}, error) {
		return m.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}

	if c.SessionID == "" || c.AccessToken == "" {
		return nil, ErrNotAuthenticated
	}

	return &Session{
		ID: c.SessionID,
		Token: &oauth2.Token{
			AccessToken:  c.AccessToken,
			RefreshToken: c.RefreshToken,
			Expiry:       c.TokenExpiry,
		},
		raw: raw,
	}, nil
}
