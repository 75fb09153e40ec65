package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cabin-booking-api/internal/utils"
)

const testSecret = "test-secret"

func requestWithToken(t *testing.T, token string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestResolveNoToken(t *testing.T) {
	s := NewIdentitySource(testSecret, nil)
	id := s.Resolve(requestWithToken(t, ""))
	if id.IsLoading || id.IsAuthenticated {
		t.Fatalf("missing token should resolve unauthenticated immediately, got %+v", id)
	}
}

func TestResolveBadToken(t *testing.T) {
	s := NewIdentitySource(testSecret, nil)
	tok, err := utils.NewAccessToken("other-secret", 7, "STAFF", 5)
	if err != nil {
		t.Fatal(err)
	}
	id := s.Resolve(requestWithToken(t, tok.Token))
	if id.IsLoading || id.IsAuthenticated {
		t.Fatalf("bad signature should resolve unauthenticated immediately, got %+v", id)
	}
}

func TestResolveLoadsThenAuthenticates(t *testing.T) {
	s := NewIdentitySource(testSecret, nil)
	tok, err := utils.NewAccessToken(testSecret, 7, "ADMIN", 5)
	if err != nil {
		t.Fatal(err)
	}

	// First sight of the token: the account check is still running.
	id := s.Resolve(requestWithToken(t, tok.Token))
	if !id.IsLoading {
		t.Fatalf("first resolve should report loading, got %+v", id)
	}
	if id.IsAuthenticated {
		t.Fatal("loading identity must not also be authenticated")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		id = s.Resolve(requestWithToken(t, tok.Token))
		if !id.IsLoading {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("identity never resolved")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !id.IsAuthenticated || id.UserID != 7 || id.Role != "ADMIN" {
		t.Fatalf("resolved identity = %+v, want authenticated user 7 ADMIN", id)
	}
}
