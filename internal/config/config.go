package config // package config loads application configuration from environment variables

import (
    "fmt"
    "os"
    "strconv"
    "strings"
)

// DBConfig describes how to reach the relational store.  Driver is
// "mysql" (production) or "sqlite3" (local development and tests).  For
// sqlite3 only Path is used.
type DBConfig struct {
    Driver string
    User   string
    Pass   string
    Host   string
    Port   string
    Name   string
    Path   string
}

// Config holds all runtime configuration values.  It is built once by
// Load and handed to constructors explicitly; nothing reads the
// environment after startup.
type Config struct {
    Env          string   // application environment (e.g. "dev", "prod")
    Port         string   // HTTP port to listen on
    DB           DBConfig // store location and credentials
    JWTSecret    string   // secret used to sign JWTs
    AccessTTLMin int      // access token time-to-live in minutes
    BcryptCost   int      // bcrypt cost for password hashing

    // Staff credentials.  Staff identity is not stored in the database;
    // a successful admin login yields a token with the ADMIN role.
    AdminUsername string
    AdminPassword string

    // EnforceAvailability re-checks table occupancy inside the booking
    // transaction and rejects overlapping bookings with 409.  Off by
    // default: availability is advisory.
    EnforceAvailability bool
}

// Load reads configuration values from environment variables.  Missing
// required variables or malformed numbers are reported as an error.
func Load() (Config, error) {
    var missing []string
    must := func(key string) string {
        v := strings.TrimSpace(os.Getenv(key))
        if v == "" {
            missing = append(missing, key)
        }
        return v
    }

    cfg := Config{
        Env:                 envStr("APP_ENV", "dev"),
        Port:                envStr("APP_PORT", "8080"),
        JWTSecret:           must("JWT_SECRET"),
        AdminUsername:       envStr("ADMIN_USERNAME", "admin"),
        AdminPassword:       must("ADMIN_PASSWORD"),
        EnforceAvailability: envBool("BOOKING_ENFORCE_AVAILABILITY", false),
    }
    cfg.DB = DBConfig{Driver: strings.ToLower(envStr("DB_DRIVER", "mysql"))}
    switch cfg.DB.Driver {
    case "mysql":
        cfg.DB.User = must("DB_USER")
        cfg.DB.Pass = os.Getenv("DB_PASS") // empty allowed
        cfg.DB.Host = envStr("DB_HOST", "localhost")
        cfg.DB.Port = envStr("DB_PORT", "3306")
        cfg.DB.Name = must("DB_NAME")
    case "sqlite3", "sqlite":
        cfg.DB.Driver = "sqlite3"
        cfg.DB.Path = envStr("DB_PATH", "tablebook.db")
    default:
        return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
    }
    if len(missing) > 0 {
        return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
    }

    var err error
    if cfg.AccessTTLMin, err = intVar("ACCESS_TOKEN_TTL_MIN", 60); err != nil {
        return Config{}, err
    }
    if cfg.BcryptCost, err = intVar("BCRYPT_COST", 10); err != nil {
        return Config{}, err
    }
    return cfg, nil
}

// intVar is like envInt but reports malformed values instead of
// silently falling back to the default.
func intVar(key string, def int) (int, error) {
    s := strings.TrimSpace(os.Getenv(key))
    if s == "" {
        return def, nil
    }
    n, err := strconv.Atoi(s)
    if err != nil || n <= 0 {
        return 0, fmt.Errorf("invalid int for %s: %q", key, s)
    }
    return n, nil
}
