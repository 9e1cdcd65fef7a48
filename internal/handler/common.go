package handler // handler defines http handlers

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    return id, err == nil && id != 0
}

// fail writes the JSON error response for err.  Service errors carry a
// client-safe message and map to 400, 404 or 409 by kind; anything else
// is logged and reported as a generic 500.
func fail(c echo.Context, err error) error {
    var svcErr *service.Error
    if errors.As(err, &svcErr) {
        return c.JSON(statusFor(err), echo.Map{"error": err.Error()})
    }
    c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

func statusFor(err error) int {
    switch {
    case errors.Is(err, service.ErrValidation):
        return http.StatusBadRequest
    case errors.Is(err, service.ErrNotFound):
        return http.StatusNotFound
    case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrInvalidTransition):
        return http.StatusConflict
    }
    return http.StatusInternalServerError
}

// items wraps a list in the {"items": [...], "count": n} envelope.
func items[T any](list []T) echo.Map {
    return echo.Map{"items": list, "count": len(list)}
}
