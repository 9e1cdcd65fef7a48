package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-table-reservation/internal/middleware"
    "github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// CustomerHandler serves the booking side of the API: creating
// reservations, listing a customer's own reservations and cancelling
// them.  Creating works anonymously; the other endpoints require a
// token and are checked for ownership here.
type CustomerHandler struct {
    Booking   *service.Booking
    Lifecycle *service.Lifecycle
    Queries   *service.Queries
}

// NewCustomerHandler constructs a CustomerHandler.  All dependencies must
// be non-nil.
func NewCustomerHandler(b *service.Booking, l *service.Lifecycle, q *service.Queries) *CustomerHandler {
    if b == nil || l == nil || q == nil {
        panic("nil service passed to NewCustomerHandler")
    }
    return &CustomerHandler{Booking: b, Lifecycle: l, Queries: q}
}

type createReservationReq struct {
    Name     string   `json:"name"`
    Contact  string   `json:"contact"`
    Date     string   `json:"date"`
    Time     string   `json:"time"`
    TableIDs []uint64 `json:"table_ids"`
}

// CreateReservation handles POST /v1/reservations.  The reservation is
// owned by the authenticated customer when a token is sent and anonymous
// otherwise.  It returns 201 with the new id.
func (h *CustomerHandler) CreateReservation(c echo.Context) error {
    var req createReservationReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    breq := service.BookingRequest{
        Name:     req.Name,
        Contact:  req.Contact,
        Date:     req.Date,
        Time:     req.Time,
        TableIDs: req.TableIDs,
    }
    if uid, ok := middleware.UserID(c); ok {
        breq.UserID = &uid
    }
    id, err := h.Booking.Create(c.Request().Context(), breq)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"message": "Reservation successful!", "id": id})
}

// ListForUser handles GET /v1/users/:id/reservations.  Customers may only
// list their own reservations; staff may list anyone's.
func (h *CustomerHandler) ListForUser(c echo.Context) error {
    userID, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
    }
    if caller, _ := middleware.UserID(c); caller != userID && !middleware.IsAdmin(c) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    list, err := h.Queries.ForUser(c.Request().Context(), userID)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, items(list))
}

// CancelReservation handles PUT /v1/reservations/:id/cancel for the
// reservation's owner or staff.  Anonymous reservations can only be
// cancelled by staff.
func (h *CustomerHandler) CancelReservation(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    ctx := c.Request().Context()
    if !middleware.IsAdmin(c) {
        r, err := h.Queries.Get(ctx, id)
        if err != nil {
            return fail(c, err)
        }
        caller, _ := middleware.UserID(c)
        if r.UserID == nil || *r.UserID != caller {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
    }
    if _, err := h.Lifecycle.Cancel(ctx, id); err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Reservation cancelled successfully"})
}
