package route

// Router resolves paths, applies the guard to protected routes and keeps
// a back stack.
type Router struct {
	guard   Guard
	current Match
	history []Match
}

// NewRouter creates a Router positioned at Login.
func NewRouter(g Guard) *Router {
	m, _ := Resolve(Login)
	return &Router{guard: g, current: m}
}

// Current returns the active match.
func (r *Router) Current() Match {
	return r.current
}

// Navigate moves to path and returns the match actually entered. Empty and
// unknown paths land on Login, as does a protected path the guard denies.
func (r *Router) Navigate(path string) Match {
	m := r.resolve(path)
	if m.Path != r.current.Path {
		r.history = append(r.history, r.current)
	}
	r.current = m
	return m
}

// Back returns to the previous route, re-checking the guard. It reports
// false when there is nothing to go back to.
func (r *Router) Back() (Match, bool) {
	if len(r.history) == 0 {
		return r.current, false
	}
	prev := r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	r.current = r.resolve(prev.Path)
	return r.current, true
}

// Reset clears the back stack and moves to Login.
func (r *Router) Reset() Match {
	r.history = nil
	r.current, _ = Resolve(Login)
	return r.current
}

func (r *Router) resolve(path string) Match {
	m, err := Resolve(path)
	if err != nil {
		m, _ = Resolve(Login)
		return m
	}
	if m.Protected {
		if d := r.guard.CanActivate(m.Path); !d.Allowed {
			m, _ = Resolve(d.Redirect)
		}
	}
	return m
}
