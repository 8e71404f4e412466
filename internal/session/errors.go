package session

import (
	"errors"
	"fmt"
)

// Kind classifies why a login failed.
type Kind int

const (
	// KindInvalidCredentials means the backend rejected the email/password.
	KindInvalidCredentials Kind = iota + 1
	// KindNetwork means the backend could not be reached.
	KindNetwork
	// KindServer means the backend answered the login call with an
	// unexpected failure.
	KindServer
	// KindProfileFetch means a token was issued but the profile could not
	// be fetched. The token stays stored.
	KindProfileFetch
	// KindStorage means the credential store refused a write.
	KindStorage
	// KindInProgress means another login was already pending.
	KindInProgress
)

func (k Kind) String() string {
	switch k {
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindProfileFetch:
		return "profile_fetch"
	case KindStorage:
		return "storage"
	case KindInProgress:
		return "in_progress"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DefaultLoginMessage is shown when the backend gave no reason.
const DefaultLoginMessage = "Login failed"

// LoginError is the single failure returned by Service.Login. Error()
// yields the human-readable message; Kind is there for callers that want
// to branch.
type LoginError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *LoginError) Error() string {
	if e.Message == "" {
		return DefaultLoginMessage
	}
	return e.Message
}

func (e *LoginError) Unwrap() error {
	return e.Err
}

// Is matches another *LoginError with the same Kind, so sentinels such as
// ErrLoginInProgress work with errors.Is.
func (e *LoginError) Is(target error) bool {
	t, ok := target.(*LoginError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// ErrLoginInProgress is returned when Login is called while another login
// is still pending.
var ErrLoginInProgress = &LoginError{Kind: KindInProgress, Message: "Login already in progress"}

// IsKind reports whether err is a *LoginError of kind k.
func IsKind(err error, k Kind) bool {
	var le *LoginError
	if errors.As(err, &le) {
		return le.Kind == k
	}
	return false
}
