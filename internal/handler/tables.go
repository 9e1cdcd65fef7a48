package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// TableHandler serves table status to everyone and table management to
// staff.
type TableHandler struct {
    Queries *service.Queries
    Tables  *service.Tables
}

func NewTableHandler(q *service.Queries, t *service.Tables) *TableHandler {
    if q == nil || t == nil {
        panic("nil service passed to NewTableHandler")
    }
    return &TableHandler{Queries: q, Tables: t}
}

// Status handles GET /v1/tables?date=YYYY-MM-DD&time=HH:MM.  Every table
// is listed by id with is_booked for that slot.
func (h *TableHandler) Status(c echo.Context) error {
    date, clock := strings.TrimSpace(c.QueryParam("date")), strings.TrimSpace(c.QueryParam("time"))
    if date == "" || clock == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date and time query parameters are required"})
    }
    list, err := h.Queries.TableStatus(c.Request().Context(), date, clock)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, items(list))
}

// List handles GET /v1/admin/tables.
func (h *TableHandler) List(c echo.Context) error {
    list, err := h.Tables.List(c.Request().Context())
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, items(list))
}

type createTableReq struct {
    TableNumber string `json:"table_number"`
    Capacity    int64  `json:"capacity"`
}

// Create handles POST /v1/admin/tables.
func (h *TableHandler) Create(c echo.Context) error {
    var req createTableReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.Capacity <= 0 || req.Capacity > 1<<16 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be a positive integer"})
    }
    t, err := h.Tables.Create(c.Request().Context(), req.TableNumber, uint32(req.Capacity))
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, t)
}

// Delete handles DELETE /v1/admin/tables/:id.  Tables still referenced
// by a reservation cannot be removed.
func (h *TableHandler) Delete(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
    }
    if err := h.Tables.Delete(c.Request().Context(), id); err != nil {
        return fail(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
