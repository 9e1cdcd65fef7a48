package config

import "time"

// RateLimitConfig configures the Redis token bucket placed in front of
// the booking and auth endpoints.  KeyStrategy is one of "ip",
// "ip_route", "user" or "ip_user_route".
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration // idle buckets expire after this long
    KeyStrategy    string
    Prefix         string
    Debug          bool // log every limiter decision
}

// LoadRateLimitConfig reads the RATE_LIMIT_* variables.  Out of range
// values are clamped rather than rejected.
func LoadRateLimitConfig() RateLimitConfig {
    rl := RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Capacity:       envInt("RATE_LIMIT_CAPACITY", 20),
        RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", 3*time.Second),
        TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
        KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_route"),
        Prefix:         envStr("RATE_LIMIT_PREFIX", "tablebook:rl"),
        Debug:          envBool("RATE_LIMIT_DEBUG", false),
    }
    rl.Capacity = max(rl.Capacity, 1)
    rl.RefillTokens = max(rl.RefillTokens, 1)
    if rl.RefillInterval <= 0 {
        rl.RefillInterval = time.Second
    }
    // a bucket must survive long enough to refill completely
    rl.TTL = max(rl.TTL, 5*rl.RefillInterval)
    return rl
}
