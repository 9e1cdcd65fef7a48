package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-table-reservation/internal/utils"
)

// Handlers is everything the route table needs.  Cache and RateLimit
// default to pass-through when nil.
type Handlers struct {
	Auth      *handler.AuthHandler
	Tables    *handler.TableHandler
	Customer  *handler.CustomerHandler
	Admin     *handler.AdminHandler
	JWTSecret string

	Cache     echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
}

// Register wires every route group onto e.
func Register(e *echo.Echo, db *sql.DB, h Handlers) {
	if h.Cache == nil {
		h.Cache = noop
	}
	if h.RateLimit == nil {
		h.RateLimit = noop
	}
	RegisterRoutes(e, db)
	RegisterAuth(e, h.Auth, h.JWTSecret, h.RateLimit)
	RegisterPublic(e, h.Tables, h.Cache)
	RegisterCustomer(e, h.Customer, h.JWTSecret, h.RateLimit)
	RegisterAdmin(e, h.Admin, h.Tables, h.JWTSecret)
}

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers the unauthenticated /v1/auth group and the
// protected /v1/me endpoint.  Credential endpoints are rate limited.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limit)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/admin/login", a.AdminLogin)

	e.GET("/v1/me", a.Me,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleCustomer, utils.RoleAdmin),
	)
}

// RegisterPublic registers the guest-facing table status endpoint.  Its
// responses are cached until the next reservation change.
func RegisterPublic(e *echo.Echo, t *handler.TableHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/tables", t.Status, cache)
}

func noop(next echo.HandlerFunc) echo.HandlerFunc { return next }
