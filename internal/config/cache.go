package config

import "time"

// CacheConfig configures the Redis cache in front of the public table
// listing.  Entries live under Prefix+":g<generation>:" and the
// generation counter is bumped after every committed reservation or
// table change, so a cached body never outlives the data it shows.
type CacheConfig struct {
    Enabled      bool
    Methods      map[string]bool // HTTP methods eligible for caching
    TTL          time.Duration
    Prefix       string
    MaxBodyBytes int // larger responses are passed through uncached
}

// GenerationKey is the Redis key holding the current cache generation.
func (c CacheConfig) GenerationKey() string { return c.Prefix + ":gen" }

// LoadCacheConfig reads the CACHE_* variables.
func LoadCacheConfig() CacheConfig {
    c := CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        Methods:      envSet("CACHE_METHODS", "GET"),
        TTL:          envDur("CACHE_TTL", 30*time.Second),
        Prefix:       envStr("CACHE_PREFIX", "tablebook:cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
    if c.TTL <= 0 {
        c.TTL = 30 * time.Second
    }
    return c
}
