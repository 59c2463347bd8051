package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port               string
	DatabaseURL        string
	RedisURL           string
	SnapshotTTL        time.Duration
	SeedFile           string
	DefaultPageLimit   int
	RateLimitCustomers RateLimitConfig
	LogLevel           string
	LogFormat          string
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "3001"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		SnapshotTTL: parseDuration(getEnv("SNAPSHOT_TTL", "30s"), 30*time.Second),
		SeedFile:    getEnv("SEED_FILE", "data/customers.json"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
	}

	limit, err := strconv.Atoi(strings.TrimSpace(getEnv("DEFAULT_PAGE_LIMIT", "10")))
	if err != nil || limit <= 0 {
		return nil, fmt.Errorf("invalid DEFAULT_PAGE_LIMIT value: must be a positive integer")
	}
	cfg.DefaultPageLimit = limit

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_CUSTOMERS", "600/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_CUSTOMERS value: %w", err)
	}
	cfg.RateLimitCustomers = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
