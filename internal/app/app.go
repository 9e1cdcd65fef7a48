// Package app assembles the HTTP server: store, services, notifiers,
// middleware and routes.
package app

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/router"
	"github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// Options carries the optional collaborators.  A nil Redis client turns
// off caching and rate limiting; a nil Events notifier publishes nothing.
type Options struct {
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Events    service.Notifier
}

// New builds the echo server for cfg over db.
func New(cfg config.Config, db *sql.DB, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	if cfg.Env == "dev" {
		e.Logger.SetLevel(log.DEBUG)
	} else {
		e.Logger.SetLevel(log.INFO)
	}
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.LoggerWithConfig(echomw.LoggerConfig{
		Format: `${time_rfc3339} ${id} ${remote_ip} ${method} ${uri} ${status} ${latency_human}` + "\n",
	}))

	store := repository.NewStore(db, cfg.DB.Driver)

	var notifiers service.Notifiers
	if v := middleware.NewCacheVersion(opts.Cache, opts.Redis, e.Logger); v != nil {
		notifiers = append(notifiers, v)
	}
	if opts.Events != nil {
		notifiers = append(notifiers, opts.Events)
	}

	queries := service.NewQueries(store)
	booking := service.NewBooking(store, notifiers, cfg.EnforceAvailability)
	lifecycle := service.NewLifecycle(store, notifiers)
	tables := service.NewTables(store, notifiers)
	accounts := service.NewAccounts(store, cfg.BcryptCost)

	router.Register(e, db, router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, accounts),
		Tables:    handler.NewTableHandler(queries, tables),
		Customer:  handler.NewCustomerHandler(booking, lifecycle, queries),
		Admin:     handler.NewAdminHandler(lifecycle, queries),
		JWTSecret: cfg.JWTSecret,
		Cache:     middleware.NewRedisCache(opts.Cache, opts.Redis),
		RateLimit: middleware.NewTokenBucket(opts.RateLimit, opts.Redis),
	})
	return e
}
