package middleware

// identity.go implements the identity collaborator behind the route
// guard. The bearer token's signature is verified synchronously, but
// the account check (does the user still exist and is it active) runs
// against the database in the background: the first request carrying a
// token reports loading, later requests see the resolved identity.

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cabin-booking-api/internal/guard"
	"github.com/iliyamo/cabin-booking-api/internal/repository"
)

// IdentitySource resolves bearer tokens to staff identities for the
// route guard. Resolved entries are kept per token hash so the loading
// state is observed at most once per session.
type IdentitySource struct {
	secret string
	users  *repository.UserRepo

	mu     sync.Mutex
	states map[string]*identityState
}

type identityState struct {
	resolved bool
	id       guard.Identity
}

// NewIdentitySource builds the identity source. users may be nil in
// tests; the account check then succeeds vacuously.
func NewIdentitySource(secret string, users *repository.UserRepo) *IdentitySource {
	return &IdentitySource{
		secret: secret,
		users:  users,
		states: make(map[string]*identityState),
	}
}

// Resolve implements guard.Resolver. A missing or invalid token is a
// resolved unauthenticated identity, not a loading one: there is
// nothing left to wait for.
func (s *IdentitySource) Resolve(c echo.Context) guard.Identity {
	raw := bearerToken(c)
	if raw == "" {
		return guard.Identity{}
	}
	uid, role, ok := s.parseToken(raw)
	if !ok {
		return guard.Identity{}
	}

	sum := sha256.Sum256([]byte(raw))
	key := hex.EncodeToString(sum[:])

	s.mu.Lock()
	st, seen := s.states[key]
	if !seen {
		st = &identityState{}
		s.states[key] = st
		s.mu.Unlock()
		go s.check(key, uid, role)
		return guard.Identity{IsLoading: true}
	}
	defer s.mu.Unlock()
	if !st.resolved {
		return guard.Identity{IsLoading: true}
	}
	return st.id
}

// check completes the async half of the identity report.
func (s *IdentitySource) check(key string, uid uint64, role string) {
	id := guard.Identity{IsAuthenticated: true, UserID: uid, Role: role}
	if s.users != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		u, err := s.users.GetByID(ctx, uid)
		if err != nil || !u.IsActive {
			id = guard.Identity{}
		}
	}
	s.mu.Lock()
	s.states[key] = &identityState{resolved: true, id: id}
	s.mu.Unlock()
}

// parseToken validates an HS256 JWT and extracts the subject and role
// claims. Tokens signed with any other method are rejected.
func (s *IdentitySource) parseToken(raw string) (uint64, string, bool) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(s.secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, "", false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", false
	}
	var uid uint64
	switch sub := claims["sub"].(type) {
	case float64:
		uid = uint64(sub)
	case string:
		if n, err := strconv.ParseUint(sub, 10, 64); err == nil {
			uid = n
		}
	}
	if uid == 0 {
		return 0, "", false
	}
	role, _ := claims["role"].(string)
	return uid, role, true
}

func bearerToken(c echo.Context) string {
	const prefix = "Bearer "
	auth := c.Request().Header.Get("Authorization")
	if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix {
		return ""
	}
	return auth[len(prefix):]
}
