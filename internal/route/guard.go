package route

// Authenticator answers whether a user is signed in.
type Authenticator interface {
	IsLoggedIn() bool
}

// Decision is the outcome of a guard check. When Allowed is false,
// Redirect names where to go instead.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Guard gates protected paths on the signed-in state only. Per-screen
// permissions are left to the destination view.
type Guard struct {
	auth Authenticator
}

// NewGuard creates a Guard.
func NewGuard(auth Authenticator) Guard {
	return Guard{auth: auth}
}

// CanActivate allows entry when the user is signed in and otherwise
// redirects to Login.
func (g Guard) CanActivate(path string) Decision {
	if g.auth != nil && g.auth.IsLoggedIn() {
		return Decision{Allowed: true}
	}
	return Decision{Redirect: Login}
}
