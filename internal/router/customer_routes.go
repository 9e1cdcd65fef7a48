package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-table-reservation/internal/utils"
)

// RegisterCustomer registers the booking endpoints under /v1.  Creating a
// reservation accepts an optional token so guests can book; listing and
// cancelling need a token and the handler checks ownership.  Staff pass
// the same checks.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	e.POST("/v1/reservations", h.CreateReservation, middleware.OptionalJWT(jwtSecret), limit)

	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleCustomer, utils.RoleAdmin),
	)
	g.GET("/users/:id/reservations", h.ListForUser)
	g.PUT("/reservations/:id/cancel", h.CancelReservation)
}
