package config

import (
	"os"
	"strconv"
	"time"
)

// CacheConfig defines settings for the response cache middleware.
// When Enabled is false or no Redis client is configured, caching will be disabled.
// TTL defines the lifetime of cache entries.  Prefix and MaxBodyBytes allow
// control over namespacing and the maximum size of responses to cache.
// Showtime data is reloaded in bulk, so a short TTL keeps responses fresh
// enough without invalidation hooks.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.  Defaults
// are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          parseDur(getenv("CACHE_TTL", "60s")),
		Prefix:       getenv("CACHE_PREFIX", "showtimes:cache"),
		MaxBodyBytes: atoi(getenv("CACHE_MAX_BODY_BYTES", "1048576")),
	}
}

// Helper functions reused from redis.go, ratelimit.go and queue.go
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
