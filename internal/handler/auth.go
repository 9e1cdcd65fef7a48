package handler

import (
    "crypto/subtle"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-table-reservation/internal/config"
    "github.com/iliyamo/restaurant-table-reservation/internal/middleware"
    "github.com/iliyamo/restaurant-table-reservation/internal/service"
    "github.com/iliyamo/restaurant-table-reservation/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Cfg      config.Config
    Accounts *service.Accounts
}

func NewAuthHandler(cfg config.Config, a *service.Accounts) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Accounts: a}
}

// ----- DTOs -----

type registerReq struct {
    Username string `json:"username"`
    Password string `json:"password"`
    Email    string `json:"email"`
    Phone    string `json:"phone"`
}
type loginReq struct {
    Username string `json:"username"`
    Password string `json:"password"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}
type userPart struct {
    ID       uint64 `json:"id"`
    Username string `json:"username"`
    Role     string `json:"role"`
}
type authResp struct {
    Message string    `json:"message"`
    User    userPart  `json:"user"`
    Access  tokenPart `json:"access"`
}

// Register: POST /v1/auth/register.  All four fields are required.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    u, err := h.Accounts.Register(c.Request().Context(), service.Registration{
        Username: req.Username,
        Email:    req.Email,
        Phone:    req.Phone,
        Password: req.Password,
    })
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "message": "User registered successfully",
        "user":    userPart{ID: u.ID, Username: u.Username, Role: utils.RoleCustomer},
    })
}

// Login: POST /v1/auth/login.  Returns an access token for a customer.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if strings.TrimSpace(req.Username) == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
    }
    u, err := h.Accounts.Login(c.Request().Context(), req.Username, req.Password)
    if err != nil {
        if errors.Is(err, service.ErrBadCredentials) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid username or password"})
        }
        return fail(c, err)
    }
    return h.issue(c, "Client login successful", utils.Claims{UserID: u.ID, Role: utils.RoleCustomer, Username: u.Username})
}

// AdminLogin: POST /v1/auth/admin/login.  Staff authenticate against the
// configured admin credentials.
func (h *AuthHandler) AdminLogin(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.Username == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
    }
    userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.Cfg.AdminUsername)) == 1
    passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.Cfg.AdminPassword)) == 1
    if !userOK || !passOK {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid admin credentials"})
    }
    return h.issue(c, "Admin login successful", utils.Claims{Role: utils.RoleAdmin, Username: h.Cfg.AdminUsername})
}

func (h *AuthHandler) issue(c echo.Context, msg string, claims utils.Claims) error {
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, claims, h.Cfg.AccessTTLMin)
    if err != nil {
        c.Logger().Errorf("issue access token: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
    }
    return c.JSON(http.StatusOK, authResp{
        Message: msg,
        User:    userPart{ID: claims.UserID, Username: claims.Username, Role: claims.Role},
        Access:  tokenPart{Token: access.Token, Expires: access.Exp},
    })
}

// Me: simple protected endpoint.
func (h *AuthHandler) Me(c echo.Context) error {
    id, _ := middleware.UserID(c)
    return c.JSON(http.StatusOK, echo.Map{
        "user_id":  id,
        "username": c.Get(middleware.CtxUsername),
        "role":     middleware.Role(c),
    })
}
