package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// Lenient environment readers.  A missing or malformed value yields the
// default; Load uses intVar instead where a bad value must be reported.

func envStr(k, d string) string {
    if v := strings.TrimSpace(os.Getenv(k)); v != "" {
        return v
    }
    return d
}

func envBool(k string, d bool) bool {
    switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
    case "1", "true", "yes", "on":
        return true
    case "0", "false", "no", "off":
        return false
    }
    return d
}

func envInt(k string, d int) int {
    if n, err := strconv.Atoi(envStr(k, "")); err == nil {
        return n
    }
    return d
}

func envDur(k string, d time.Duration) time.Duration {
    if dur, err := time.ParseDuration(envStr(k, "")); err == nil {
        return dur
    }
    return d
}

// envSet splits a comma separated value into an upper-cased set.
func envSet(k, d string) map[string]bool {
    set := map[string]bool{}
    for _, p := range strings.Split(envStr(k, d), ",") {
        if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
            set[p] = true
        }
    }
    return set
}
