package tui

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentui/agentui/pkg/client"
	"github.com/agentui/agentui/pkg/domain"
)

// Session is the view of the session core the console needs.
type Session interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context)
	IsLoggedIn() bool
	HasPermission(screen string) bool
	HasRole(role string) bool
	Profile() (*domain.UserDetails, bool)
	AuthHeader() string
}

// env is shared by every view.
type env struct {
	sess    Session
	api     *client.Client
	apiURL  string
	perPage int
	log     zerolog.Logger
}

// client returns an API client carrying the session's current auth header.
// Call it inside commands so the header is read at request time.
func (e env) client() *client.Client {
	return e.api.WithAuthorization(e.sess.AuthHeader())
}
