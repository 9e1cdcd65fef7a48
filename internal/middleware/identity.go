package middleware

// identity.go exposes the caller identity stored by JWTAuth and
// OptionalJWT.  Anonymous requests have no user id and an empty role.

import (
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-table-reservation/internal/utils"
)

// UserID returns the authenticated customer id, if any.
func UserID(c echo.Context) (uint64, bool) {
    id, ok := c.Get(CtxUserID).(uint64)
    return id, ok && id != 0
}

// Role returns the caller's role claim or "" for anonymous requests.
func Role(c echo.Context) string {
    r, _ := c.Get(CtxRole).(string)
    return r
}

// IsAdmin reports whether the caller holds the ADMIN role.
func IsAdmin(c echo.Context) bool { return Role(c) == utils.RoleAdmin }

// userKey identifies the caller in rate-limit keys: the user id for
// customers, "admin" for staff and "anon" otherwise.
func userKey(c echo.Context) string {
    if id, ok := UserID(c); ok {
        return strconv.FormatUint(id, 10)
    }
    if IsAdmin(c) {
        return "admin"
    }
    return "anon"
}
