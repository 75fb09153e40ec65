package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cabin-booking-api/internal/assets"
	"github.com/iliyamo/cabin-booking-api/internal/cache"
	"github.com/iliyamo/cabin-booking-api/internal/config"
	"github.com/iliyamo/cabin-booking-api/internal/database"
	"github.com/iliyamo/cabin-booking-api/internal/handler"
	"github.com/iliyamo/cabin-booking-api/internal/middleware"
	"github.com/iliyamo/cabin-booking-api/internal/notify"
	"github.com/iliyamo/cabin-booking-api/internal/queue"
	"github.com/iliyamo/cabin-booking-api/internal/repository"
	"github.com/iliyamo/cabin-booking-api/internal/router"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the read cache, the response cache and the rate
	// limiter. Without it the read cache degrades to process memory and
	// the other two middlewares disable themselves.
	rdb := config.NewRedisClient()
	var readStore cache.Store
	if rdb != nil {
		readStore = cache.NewRedisStore(rdb, "readcache")
	} else {
		log.Println("redis unavailable; using in-memory read cache")
		readStore = cache.NewMemoryStore()
	}
	cacheSvc := cache.New(readStore, 5*time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := assets.OpenFromEnv(ctx)
	cancel()
	if err != nil {
		log.Fatalf("asset store: %v", err)
	}

	notifier := notify.Notifier(notify.NewAMQPNotifier())
	go func() {
		if err := queue.StartConsumers(); err != nil {
			log.Printf("queue consumers stopped: %v", err)
		}
	}()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	cabins := repository.NewCabinRepo(db)
	bookings := repository.NewBookingRepo(db)
	guests := repository.NewGuestRepo(db)
	settings := repository.NewSettingRepo(db)

	auth := handler.NewAuthHandler(cfg, users, tokens)
	staff := handler.NewStaffHandler(cfg, cabins, bookings, guests, settings, users, cacheSvc, store, notifier)
	identity := middleware.NewIdentitySource(cfg.JWTSecret, users)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, config.LoadRateLimitConfig(), rdb)
	router.RegisterStaff(e, staff, identity.Resolve, config.LoadCacheConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
