// Package session owns the signed-in state of the console: it is the only
// writer of the credential store and the only source of permission truth.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/agentui/agentui/internal/credstore"
	"github.com/agentui/agentui/pkg/client"
	"github.com/agentui/agentui/pkg/domain"
)

// LoginPath is where a signed-out user is sent.
const LoginPath = "/login"

// Navigator moves the user to another screen.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Service is the session core. It re-reads the credential store on every
// check and keeps no cached copy of the profile.
type Service struct {
	store    *credstore.Store
	api      *client.Client
	nav      Navigator
	log      zerolog.Logger
	inFlight atomic.Bool
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for session transitions.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithNavigator sets where Logout sends the user.
func WithNavigator(n Navigator) Option {
	return func(s *Service) { s.nav = n }
}

// New creates a Service. api must carry no credentials; the service
// attaches the stored bearer itself.
func New(store *credstore.Store, api *client.Client, opts ...Option) *Service {
	s := &Service{
		store: store,
		api:   api,
		log:   zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With().Str("component", "session").Logger()
	return s
}

// SetNavigator replaces the navigator. Used when the navigator is built
// after the service, as in the TUI.
func (s *Service) SetNavigator(n Navigator) {
	s.nav = n
}

// Login exchanges credentials for a token, stores it, then fetches and
// stores the profile. It succeeds only once both are stored. On a profile
// fetch failure the token is left in place; IsLoggedIn stays false because
// any earlier profile is cleared as soon as the new token arrives.
func (s *Service) Login(ctx context.Context, email, password string) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return ErrLoginInProgress
	}
	defer s.inFlight.Store(false)

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		le := classifyLogin(err)
		s.log.Info().Str("email", email).Str("kind", le.Kind.String()).Err(err).Msg("login rejected")
		return le
	}

	if err := s.store.ClearProfile(); err != nil {
		s.log.Error().Err(err).Msg("clear previous profile")
		return &LoginError{Kind: KindStorage, Message: DefaultLoginMessage, Err: err}
	}
	if err := s.store.SetToken(resp.AccessToken); err != nil {
		s.log.Error().Err(err).Msg("store token")
		return &LoginError{Kind: KindStorage, Message: DefaultLoginMessage, Err: err}
	}

	if _, err := s.fetchProfile(ctx, resp.AccessToken); err != nil {
		if IsKind(err, KindStorage) {
			return err
		}
		s.log.Warn().Err(err).Msg("profile fetch failed")
		return &LoginError{Kind: KindProfileFetch, Message: DefaultLoginMessage, Err: err}
	}

	s.log.Info().Str("email", email).Msg("login ok")
	return nil
}

// RefreshProfile fetches the profile again with the stored token and
// overwrites the stored copy.
func (s *Service) RefreshProfile(ctx context.Context) error {
	tok, _ := s.store.Token()
	if _, err := s.fetchProfile(ctx, tok); err != nil {
		return fmt.Errorf("session.RefreshProfile: %w", err)
	}
	return nil
}

func (s *Service) fetchProfile(ctx context.Context, token string) (*domain.UserDetails, error) {
	u, err := s.api.WithAuthorization(bearer(token)).GetUserDetails(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetProfile(u); err != nil {
		s.log.Error().Err(err).Msg("store profile")
		return nil, &LoginError{Kind: KindStorage, Message: DefaultLoginMessage, Err: err}
	}
	return u, nil
}

// Logout notifies the backend, then clears the store and navigates to the
// login screen whatever the backend said. Backend failures are logged and
// dropped.
func (s *Service) Logout(ctx context.Context) {
	if err := s.api.WithAuthorization(s.AuthHeader()).Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("logout notify failed")
	}
	s.clear()
	if s.nav != nil {
		s.nav.Navigate(LoginPath)
	}
}

func (s *Service) clear() {
	if err := s.store.ClearToken(); err != nil {
		s.log.Error().Err(err).Msg("clear token")
	}
	if err := s.store.ClearProfile(); err != nil {
		s.log.Error().Err(err).Msg("clear profile")
	}
}

// IsLoggedIn reports whether both the token and a decodable profile are
// stored.
func (s *Service) IsLoggedIn() bool {
	_, hasToken := s.store.Token()
	_, hasProfile := s.store.Profile()
	s.log.Debug().Bool("has_token", hasToken).Bool("has_profile", hasProfile).Msg("is logged in check")
	return hasToken && hasProfile
}

// HasPermission reports whether the stored profile holds a valid grant for
// screen. False when no profile is stored.
func (s *Service) HasPermission(screen string) bool {
	u, ok := s.store.Profile()
	if !ok {
		s.log.Debug().Str("screen", screen).Msg("permission check without profile")
		return false
	}
	granted := u.HasPermission(screen)
	s.log.Debug().Str("screen", screen).Bool("granted", granted).Msg("permission check")
	return granted
}

// HasRole reports whether the stored profile has role. False when no
// profile is stored.
func (s *Service) HasRole(role string) bool {
	u, ok := s.store.Profile()
	if !ok {
		return false
	}
	return u.HasRole(role)
}

// Profile returns the stored profile for display.
func (s *Service) Profile() (*domain.UserDetails, bool) {
	return s.store.Profile()
}

// Token returns the stored bearer token.
func (s *Service) Token() (string, bool) {
	return s.store.Token()
}

// AuthHeader returns the Authorization value for the stored token. It does
// not check that a token exists; with none stored the result is "Bearer "
// and the backend rejects it.
func (s *Service) AuthHeader() string {
	tok, _ := s.store.Token()
	return bearer(tok)
}

// Client returns an API client that carries the current auth header.
func (s *Service) Client() *client.Client {
	return s.api.WithAuthorization(s.AuthHeader())
}

func bearer(token string) string {
	return "Bearer " + token
}

func classifyLogin(err error) *LoginError {
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		msg := httpErr.Detail
		if msg == "" {
			msg = DefaultLoginMessage
		}
		kind := KindServer
		switch httpErr.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
			http.StatusNotFound, http.StatusUnprocessableEntity:
			kind = KindInvalidCredentials
		}
		return &LoginError{Kind: kind, Message: msg, Err: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &LoginError{Kind: KindNetwork, Message: DefaultLoginMessage, Err: err}
	}
	return &LoginError{Kind: KindServer, Message: DefaultLoginMessage, Err: err}
}
