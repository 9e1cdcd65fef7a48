package config

import (
    "strings"
    "testing"
    "time"
)

func TestLoadMySQL(t *testing.T) {
    t.Setenv("JWT_SECRET", "s3cret")
    t.Setenv("ADMIN_PASSWORD", "admin123")
    t.Setenv("DB_DRIVER", "mysql")
    t.Setenv("DB_USER", "root")
    t.Setenv("DB_NAME", "restaurant_db")
    t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
    t.Setenv("BOOKING_ENFORCE_AVAILABILITY", "yes")

    cfg, err := Load()
    if err != nil {
        t.Fatalf("Load: %v", err)
    }
    if cfg.DB.Host != "localhost" || cfg.DB.Port != "3306" {
        t.Errorf("unexpected db defaults: %+v", cfg.DB)
    }
    if cfg.AccessTTLMin != 15 || cfg.BcryptCost != 10 {
        t.Errorf("ttl=%d cost=%d", cfg.AccessTTLMin, cfg.BcryptCost)
    }
    if !cfg.EnforceAvailability {
        t.Error("expected EnforceAvailability to be on")
    }
    if cfg.AdminUsername != "admin" {
        t.Errorf("admin username = %q", cfg.AdminUsername)
    }
}

func TestLoadReportsMissingVars(t *testing.T) {
    t.Setenv("JWT_SECRET", "")
    t.Setenv("ADMIN_PASSWORD", "")
    t.Setenv("DB_DRIVER", "mysql")
    t.Setenv("DB_USER", "")
    t.Setenv("DB_NAME", "")

    _, err := Load()
    if err == nil {
        t.Fatal("expected error")
    }
    for _, key := range []string{"JWT_SECRET", "ADMIN_PASSWORD", "DB_USER", "DB_NAME"} {
        if !strings.Contains(err.Error(), key) {
            t.Errorf("error %q does not mention %s", err, key)
        }
    }
}

func TestLoadSQLite(t *testing.T) {
    t.Setenv("JWT_SECRET", "s3cret")
    t.Setenv("ADMIN_PASSWORD", "pw")
    t.Setenv("DB_DRIVER", "sqlite")
    t.Setenv("DB_PATH", "/tmp/x.db")

    cfg, err := Load()
    if err != nil {
        t.Fatalf("Load: %v", err)
    }
    if cfg.DB.Driver != "sqlite3" || cfg.DB.Path != "/tmp/x.db" {
        t.Errorf("unexpected db config: %+v", cfg.DB)
    }
}

func TestLoadRejectsBadInt(t *testing.T) {
    t.Setenv("JWT_SECRET", "s3cret")
    t.Setenv("ADMIN_PASSWORD", "pw")
    t.Setenv("DB_DRIVER", "sqlite3")
    t.Setenv("BCRYPT_COST", "ten")
    if _, err := Load(); err == nil {
        t.Fatal("expected error for malformed BCRYPT_COST")
    }
}

func TestLoadCacheConfig(t *testing.T) {
    t.Setenv("CACHE_METHODS", "get, head,")
    t.Setenv("CACHE_TTL", "not-a-duration")
    t.Setenv("CACHE_ENABLED", "off")

    c := LoadCacheConfig()
    if c.Enabled {
        t.Error("expected cache to be disabled")
    }
    if !c.Methods["GET"] || !c.Methods["HEAD"] || len(c.Methods) != 2 {
        t.Errorf("methods = %v", c.Methods)
    }
    if c.TTL != 30*time.Second {
        t.Errorf("ttl = %v, want default", c.TTL)
    }
    if c.GenerationKey() != "tablebook:cache:gen" {
        t.Errorf("generation key = %q", c.GenerationKey())
    }
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
    t.Setenv("RATE_LIMIT_CAPACITY", "0")
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
    t.Setenv("RATE_LIMIT_TTL", "1s")

    rl := LoadRateLimitConfig()
    if rl.Capacity != 1 || rl.RefillTokens != 1 {
        t.Errorf("capacity=%d refill=%d", rl.Capacity, rl.RefillTokens)
    }
    if rl.TTL != 10*time.Second {
        t.Errorf("ttl = %v, want 10s", rl.TTL)
    }
}
