package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-table-reservation/internal/utils"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, t *handler.TableHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleAdmin),
	)

	// ---- Reservations ----
	g.GET("/reservations", a.ListReservations)
	g.PUT("/reservations/:id/status", a.UpdateStatus)
	g.DELETE("/reservations/:id", a.DeleteReservation)

	// ---- Tables ----
	g.GET("/tables", t.List)
	g.POST("/tables", t.Create)
	g.DELETE("/tables/:id", t.Delete)
}
