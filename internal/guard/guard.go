// Package guard protects dashboard routes behind the identity
// collaborator. It is a three-state machine: while the identity check
// is still resolving a placeholder is rendered and no redirect may
// fire; once resolved without a user, a one-time navigation to the
// login entry point fires; with a user, the protected content passes
// through untouched.
package guard

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
)

// State of the guard for a given mount.
type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

// Identity is the asynchronous report from the identity collaborator.
type Identity struct {
	IsLoading       bool
	IsAuthenticated bool
	UserID          uint64
	Role            string
}

// Resolver reports the current identity for a request. Implementations
// may consult a session cache or a remote auth service; while they
// have not resolved yet they report IsLoading=true.
type Resolver func(c echo.Context) Identity

// Guard tracks one mount of a protected route. The navigate side
// effect fires at most once per Guard, and never while the identity is
// still loading — that guards against redirecting during the async gap
// before resolution.
type Guard struct {
	mu        sync.Mutex
	navigated bool
	navigate  func()
}

// New returns a Guard whose navigation side effect is navigate.
func New(navigate func()) *Guard {
	return &Guard{navigate: navigate}
}

// Observe feeds the latest identity report into the machine and
// returns the resulting state.
func (g *Guard) Observe(id Identity) State {
	if id.IsLoading {
		return StateLoading
	}
	if !id.IsAuthenticated {
		g.mu.Lock()
		fire := !g.navigated
		g.navigated = true
		g.mu.Unlock()
		if fire && g.navigate != nil {
			g.navigate()
		}
		return StateUnauthenticated
	}
	return StateAuthenticated
}

// Middleware adapts the guard to echo. Loading renders a retryable
// placeholder, unauthenticated redirects to loginPath, authenticated
// falls through to the protected handler with the user id and role in
// context.
func Middleware(resolve Resolver, loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var redirectErr error
			g := New(func() {
				redirectErr = c.Redirect(http.StatusFound, loginPath)
			})
			id := resolve(c)
			switch g.Observe(id) {
			case StateLoading:
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "loading"})
			case StateUnauthenticated:
				return redirectErr
			default:
				c.Set("user_id", id.UserID)
				c.Set("role", id.Role)
				return next(c)
			}
		}
	}
}
