// Package credstore persists the bearer token and the profile snapshot.
//
// It is a dumb key/value boundary: no network, no token validation. Only
// the session service writes to it.
package credstore

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentui/agentui/pkg/domain"
)

// Well-known entry names.
const (
	KeyToken   = "access_token"
	KeyProfile = "user_details"
)

// Backend is a string key/value medium that survives process restarts
// (or not, for the in-memory backing).
type Backend interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Remove deletes key; removing an absent key is not an error.
	Remove(key string) error
}

// Store reads and writes the two session entries on a Backend.
type Store struct {
	backend Backend
	log     zerolog.Logger
}

// New creates a Store over backend.
func New(backend Backend, log zerolog.Logger) *Store {
	return &Store{backend: backend, log: log.With().Str("component", "credstore").Logger()}
}

// SetToken stores the raw bearer token.
func (s *Store) SetToken(token string) error {
	if err := s.backend.Set(KeyToken, token); err != nil {
		return fmt.Errorf("credstore.SetToken: %w", err)
	}
	return nil
}

// Token returns the stored token. An empty or unreadable entry is absent.
func (s *Store) Token() (string, bool) {
	v, ok, err := s.backend.Get(KeyToken)
	if err != nil {
		s.log.Debug().Err(err).Msg("read token")
		return "", false
	}
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// ClearToken removes the token.
func (s *Store) ClearToken() error {
	if err := s.backend.Remove(KeyToken); err != nil {
		return fmt.Errorf("credstore.ClearToken: %w", err)
	}
	return nil
}

// SetProfile stores the profile as JSON.
func (s *Store) SetProfile(u *domain.UserDetails) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("credstore.SetProfile: marshal: %w", err)
	}
	if err := s.backend.Set(KeyProfile, string(data)); err != nil {
		return fmt.Errorf("credstore.SetProfile: %w", err)
	}
	return nil
}

// Profile returns the stored profile. Missing, unreadable or malformed data
// is reported as absent, never as an error.
func (s *Store) Profile() (*domain.UserDetails, bool) {
	v, ok, err := s.backend.Get(KeyProfile)
	if err != nil {
		s.log.Debug().Err(err).Msg("read profile")
		return nil, false
	}
	if !ok || v == "" {
		return nil, false
	}
	var u *domain.UserDetails
	if err := json.Unmarshal([]byte(v), &u); err != nil {
		s.log.Debug().Err(err).Msg("stored profile is malformed, treating as absent")
		return nil, false
	}
	if u == nil {
		// the literal "null"
		return nil, false
	}
	return u, true
}

// ClearProfile removes the profile.
func (s *Store) ClearProfile() error {
	if err := s.backend.Remove(KeyProfile); err != nil {
		return fmt.Errorf("credstore.ClearProfile: %w", err)
	}
	return nil
}
