package utils // package utils provides helper functions for token creation and hashing

import (
    "errors"
    "strconv"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// Roles carried in the "role" claim.
const (
    RoleCustomer = "CUSTOMER"
    RoleAdmin    = "ADMIN"
)

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are short-lived and sent in the Authorization header when
// calling protected endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// Claims is what the API reads back from a verified token.  UserID is
// zero for the admin principal, which is not a stored user.
type Claims struct {
    UserID   uint64
    Role     string
    Username string
}

// NewAccessToken builds and signs an HS256 JWT.  The subject is the
// decimal user id ("0" for admin), and the role and username travel as
// extra claims.
func NewAccessToken(secret string, c Claims, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":      strconv.FormatUint(c.UserID, 10),
        "role":     c.Role,
        "username": c.Username,
        "exp":      exp.Unix(),
        "iat":      now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ErrInvalidToken is returned by ParseAccessToken for any token that
// fails signature, expiry or claim checks.
var ErrInvalidToken = errors.New("invalid token")

// ParseAccessToken verifies raw with secret and extracts its claims.
// Only HMAC-signed tokens are accepted.
func ParseAccessToken(secret, raw string) (Claims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    }, jwt.WithExpirationRequired())
    if err != nil || !tok.Valid {
        return Claims{}, ErrInvalidToken
    }
    mc, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return Claims{}, ErrInvalidToken
    }
    var c Claims
    switch sub := mc["sub"].(type) {
    case string:
        id, err := strconv.ParseUint(sub, 10, 64)
        if err != nil {
            return Claims{}, ErrInvalidToken
        }
        c.UserID = id
    case float64:
        c.UserID = uint64(sub)
    default:
        return Claims{}, ErrInvalidToken
    }
    c.Role, _ = mc["role"].(string)
    c.Username, _ = mc["username"].(string)
    if c.Role != RoleCustomer && c.Role != RoleAdmin {
        return Claims{}, ErrInvalidToken
    }
    return c, nil
}
