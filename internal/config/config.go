// Package config loads the proxy configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Cache backend selection values.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds the process configuration.
type Config struct {
	// Port is the inbound listen port.
	Port string

	// APIKey is the upstream credential. Deliberately not validated at
	// startup: calls without it simply fail upstream with a 401.
	APIKey string

	// UpstreamBaseURL is the recipe API root.
	UpstreamBaseURL string

	// CacheBackend selects "memory" (default) or "redis".
	CacheBackend string

	// RedisURL is the Redis address, used when CacheBackend is "redis".
	RedisURL string

	// SweepInterval is the memory store janitor interval.
	SweepInterval time.Duration

	// SingleFlight enables per-key coalescing of concurrent cache misses.
	SingleFlight bool

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string

	// LogPretty enables human-readable console logs.
	LogPretty bool
}

// Load reads the configuration from the environment, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "3000"),
		APIKey:          getEnv("RECIPE_API_KEY", ""),
		UpstreamBaseURL: getEnv("UPSTREAM_BASE_URL", "https://api.spoonacular.com"),
		CacheBackend:    getEnv("CACHE_BACKEND", BackendMemory),
		RedisURL:        getEnv("REDIS_URL", "localhost:6379"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogPretty:       getEnvBool("LOG_PRETTY", false),
		SingleFlight:    getEnvBool("SINGLE_FLIGHT", false),
	}

	sweep, err := getEnvDuration("CACHE_SWEEP_INTERVAL", time.Minute)
	if err != nil {
		return Config{}, err
	}
	cfg.SweepInterval = sweep

	switch cfg.CacheBackend {
	case BackendMemory, BackendRedis:
	default:
		return Config{}, fmt.Errorf("invalid CACHE_BACKEND %q (want %q or %q)",
			cfg.CacheBackend, BackendMemory, BackendRedis)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}
