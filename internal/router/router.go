package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cabin-booking-api/internal/config"
	"github.com/iliyamo/cabin-booking-api/internal/guard"
	"github.com/iliyamo/cabin-booking-api/internal/handler"
	"github.com/iliyamo/cabin-booking-api/internal/middleware"
)

// LoginPath is where the guard sends resolved-unauthenticated requests.
const LoginPath = "/v1/auth/login"

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints under /v1/auth.
// These live outside the guard: they are how a session comes to exist
// in the first place. The rate limiter protects the credential
// endpoints against brute forcing.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1/auth", middleware.NewTokenBucket(rlCfg, rdb))
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
}

// RegisterStaff registers the dashboard endpoints under /v1. Every
// route sits behind the guard (loading / unauthenticated /
// authenticated) and requires a staff role. The Redis response cache
// is attached only to the booked-dates read: it is hit on every date
// picker interaction and tolerates its short TTL. The other reads go
// through the read cache, which mutations reconcile explicitly; a
// route-keyed response cache on top would break read-your-writes, and
// /v1/me is per-user besides.
func RegisterStaff(e *echo.Echo, s *handler.StaffHandler, resolve guard.Resolver, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group(
		"/v1",
		guard.Middleware(resolve, LoginPath),
		middleware.RequireRole("STAFF", "ADMIN"),
	)
	cached := middleware.NewRedisCache(cacheCfg, rdb)

	// ---- Cabins ----
	g.GET("/cabins", s.ListCabins)
	g.POST("/cabins", s.CreateCabin)
	g.GET("/cabins/:id", s.GetCabin)
	g.PUT("/cabins/:id", s.UpdateCabin)
	g.PATCH("/cabins/:id", s.UpdateCabin)
	g.DELETE("/cabins/:id", s.DeleteCabin)
	g.GET("/cabins/:id/booked-dates", s.BookedDates, cached)

	// ---- Bookings ----
	g.GET("/bookings", s.ListBookings)
	g.POST("/bookings", s.CreateBooking)
	g.GET("/bookings/:id", s.GetBooking)
	g.PATCH("/bookings/:id/status", s.UpdateBookingStatus)
	g.DELETE("/bookings/:id", s.DeleteBooking)
	g.POST("/bookings/quote", s.Quote)

	// ---- Settings ----
	g.GET("/settings", s.GetSettings)
	g.PUT("/settings", s.UpdateSettings)

	// ---- Profile ----
	g.GET("/me", s.Me)
	g.PATCH("/me", s.UpdateMe)
}
