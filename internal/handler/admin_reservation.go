package handler

// Staff endpoints for reviewing and removing reservations.  The ADMIN
// role is enforced by middleware.

import (
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// AdminHandler groups the services staff use to manage reservations.
type AdminHandler struct {
    Lifecycle *service.Lifecycle
    Queries   *service.Queries
}

func NewAdminHandler(l *service.Lifecycle, q *service.Queries) *AdminHandler {
    if l == nil || q == nil {
        panic("nil service passed to NewAdminHandler")
    }
    return &AdminHandler{Lifecycle: l, Queries: q}
}

// ListReservations handles GET /v1/admin/reservations.
func (h *AdminHandler) ListReservations(c echo.Context) error {
    list, err := h.Queries.All(c.Request().Context())
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, items(list))
}

// UpdateStatus handles PUT /v1/admin/reservations/:id/status with body
// {"status": "Accepted" | "Rejected"}.
func (h *AdminHandler) UpdateStatus(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    var body struct {
        Status string `json:"status"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    target, ok := model.ParseStatus(body.Status)
    if !ok {
        return fail(c, service.ErrInvalidStatus)
    }
    r, err := h.Lifecycle.Review(c.Request().Context(), id, target)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message": fmt.Sprintf("Reservation #%d status updated to %s", id, r.Status),
        "item":    r,
    })
}

// DeleteReservation handles DELETE /v1/admin/reservations/:id.  The
// reservation is removed whatever its status.
func (h *AdminHandler) DeleteReservation(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    if err := h.Lifecycle.Delete(c.Request().Context(), id); err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": fmt.Sprintf("Reservation #%d deleted successfully.", id)})
}
