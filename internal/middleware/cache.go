package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/restaurant-table-reservation/internal/config"
    "github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// captureWriter tees the response body (up to limit bytes) while
// forwarding it to the client.
type captureWriter struct {
    http.ResponseWriter
    status   int
    buf      bytes.Buffer
    limit    int
    overflow bool
}

func (cw *captureWriter) WriteHeader(code int) {
    cw.status = code
    cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
    if !cw.overflow {
        if cw.limit > 0 && cw.buf.Len()+len(b) > cw.limit {
            cw.overflow = true
            cw.buf.Reset()
        } else {
            cw.buf.Write(b)
        }
    }
    return cw.ResponseWriter.Write(b)
}

// cachedResponse is the value stored in Redis.
type cachedResponse struct {
    Status      int    `json:"s"`
    ContentType string `json:"ct"`
    Body        []byte `json:"b"`
}

// generation reads the current cache generation.  A missing counter is
// generation 0.
func generation(ctx context.Context, rdb *redis.Client, cfg config.CacheConfig) (int64, error) {
    n, err := rdb.Get(ctx, cfg.GenerationKey()).Int64()
    if errors.Is(err, redis.Nil) {
        return 0, nil
    }
    return n, err
}

// cacheKey combines the generation with a digest of method, route and
// query so bumping the generation orphans every earlier entry.
func cacheKey(cfg config.CacheConfig, gen int64, c echo.Context) string {
    r := c.Request()
    sum := sha1.Sum([]byte(r.Method + " " + c.Path() + "?" + r.URL.RawQuery))
    return fmt.Sprintf("%s:g%d:%x", cfg.Prefix, gen, sum[:])
}

// NewRedisCache caches successful responses of the wrapped routes.  Only
// methods listed in cfg.Methods are cached.  Entries expire after cfg.TTL
// and are invalidated early by CacheVersion.  When Redis is unavailable
// requests are served directly.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return passThrough
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 30 * time.Second
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
                return next(c)
            }
            ctx := c.Request().Context()
            gen, err := generation(ctx, rdb, cfg)
            if err != nil {
                c.Logger().Warnf("[cache] generation: %v", err)
                return next(c)
            }
            key := cacheKey(cfg, gen, c)

            if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
                var hit cachedResponse
                if json.Unmarshal(bs, &hit) == nil {
                    res := c.Response()
                    if hit.ContentType != "" {
                        res.Header().Set(echo.HeaderContentType, hit.ContentType)
                    }
                    res.Header().Set("X-Cache", "HIT")
                    res.WriteHeader(hit.Status)
                    _, err := res.Write(hit.Body)
                    return err
                }
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")
            if err := next(c); err != nil {
                return err
            }
            if cw.status != http.StatusOK || cw.overflow {
                return nil
            }
            payload, err := json.Marshal(cachedResponse{
                Status:      cw.status,
                ContentType: c.Response().Header().Get(echo.HeaderContentType),
                Body:        cw.buf.Bytes(),
            })
            if err == nil {
                // the request context may already be done once the body is written
                _ = rdb.Set(context.Background(), key, payload, ttl).Err()
            }
            return nil
        }
    }
}

// CacheVersion bumps the cache generation whenever reservations or
// tables change.  It implements service.Notifier.
type CacheVersion struct {
    rdb *redis.Client
    cfg config.CacheConfig
    log echo.Logger
}

// NewCacheVersion returns a notifier for rdb.  It returns nil when the
// cache is disabled.
func NewCacheVersion(cfg config.CacheConfig, rdb *redis.Client, log echo.Logger) *CacheVersion {
    if !cfg.Enabled || rdb == nil {
        return nil
    }
    return &CacheVersion{rdb: rdb, cfg: cfg, log: log}
}

// ReservationChanged increments the generation counter.
func (v *CacheVersion) ReservationChanged(ctx context.Context, ch service.Change) {
    if v == nil {
        return
    }
    gen, err := v.rdb.Incr(context.WithoutCancel(ctx), v.cfg.GenerationKey()).Result()
    if err != nil {
        v.log.Errorf("[cache] bump generation after %s: %v", ch.Kind, err)
        return
    }
    v.log.Debugf("[cache] generation=%d after %s", gen, ch.Kind)
}
