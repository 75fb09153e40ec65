package guard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestLoadingNeverNavigates(t *testing.T) {
	navigations := 0
	g := New(func() { navigations++ })

	// Unauthenticated but still loading: the redirect must not fire
	// during the async gap before the identity check resolves.
	for i := 0; i < 5; i++ {
		if st := g.Observe(Identity{IsLoading: true, IsAuthenticated: false}); st != StateLoading {
			t.Fatalf("state = %v, want loading", st)
		}
	}
	if navigations != 0 {
		t.Errorf("navigation fired while loading: %d times", navigations)
	}
}

func TestResolvedUnauthenticatedNavigatesExactlyOnce(t *testing.T) {
	navigations := 0
	g := New(func() { navigations++ })

	g.Observe(Identity{IsLoading: true})
	for i := 0; i < 3; i++ {
		if st := g.Observe(Identity{IsLoading: false, IsAuthenticated: false}); st != StateUnauthenticated {
			t.Fatalf("state = %v, want unauthenticated", st)
		}
	}
	if navigations != 1 {
		t.Errorf("navigation fired %d times, want exactly 1", navigations)
	}
}

func TestAuthenticatedPassesThrough(t *testing.T) {
	navigations := 0
	g := New(func() { navigations++ })

	if st := g.Observe(Identity{IsAuthenticated: true, UserID: 7}); st != StateAuthenticated {
		t.Fatalf("state = %v, want authenticated", st)
	}
	if navigations != 0 {
		t.Errorf("no navigation expected, got %d", navigations)
	}
}

// staticResolver resolves every request to a fixed identity.
func staticResolver(id Identity) Resolver {
	return func(echo.Context) Identity { return id }
}

func TestMiddlewareStates(t *testing.T) {
	cases := []struct {
		name       string
		id         Identity
		wantStatus int
		wantLoc    string
	}{
		{"loading", Identity{IsLoading: true}, http.StatusServiceUnavailable, ""},
		{"unauthenticated", Identity{}, http.StatusFound, "/login"},
		{"authenticated", Identity{IsAuthenticated: true, UserID: 3}, http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var sawUser uint64
			h := Middleware(staticResolver(tc.id), "/login")(func(c echo.Context) error {
				sawUser, _ = c.Get("user_id").(uint64)
				return c.NoContent(http.StatusOK)
			})
			if err := h(c); err != nil {
				t.Fatalf("handler: %v", err)
			}
			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if tc.wantLoc != "" && rec.Header().Get("Location") != tc.wantLoc {
				t.Errorf("location = %q, want %q", rec.Header().Get("Location"), tc.wantLoc)
			}
			if tc.id.IsAuthenticated && sawUser != tc.id.UserID {
				t.Errorf("user_id = %d, want %d", sawUser, tc.id.UserID)
			}
		})
	}
}
