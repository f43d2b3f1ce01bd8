package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration derived from environment variables.
type Config struct {
	ServiceName string
	Environment string
	// Engine defaults applied to placements that leave them unset
	NetworkID int64
	SiteID    int64
	Endpoint  string
	// View history store
	RedisAddr         string
	ViewHistoryWindow time.Duration
	ViewHistoryMax    int
	// Tracing configuration
	TracingEnabled    bool
	TempoEndpoint     string
	TracingSampleRate float64
}

// Load parses environment variables and returns a Config populated with
// defaults when variables are absent.
func Load() Config {
	cfg := Config{}

	cfg.ServiceName = getenv("SERVICE_NAME", "adzerk-codec")
	cfg.Environment = getenv("ENV", "production")

	cfg.NetworkID = envInt64("ADZERK_NETWORK_ID", 0)
	cfg.SiteID = envInt64("ADZERK_SITE_ID", 0)
	cfg.Endpoint = getenv("ADZERK_ENDPOINT", "https://engine.adzerk.net")

	cfg.RedisAddr = getenv("REDIS_ADDR", "localhost:6379")
	// the engine ignores views older than 30 days
	cfg.ViewHistoryWindow = envDuration("VIEW_HISTORY_WINDOW", 720*time.Hour)
	cfg.ViewHistoryMax = envInt("VIEW_HISTORY_MAX", 50)

	cfg.TracingEnabled = envBool("TRACING_ENABLED", false)
	cfg.TempoEndpoint = getenv("TEMPO_ENDPOINT", "tempo:4317")
	cfg.TracingSampleRate = envFloat("TRACING_SAMPLE_RATE", 1.0)

	return cfg
}

// getenv returns the value of the environment variable if set, otherwise def.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envDuration parses an environment variable into a time.Duration.
// The value can be a duration string (e.g. "5s") or a number of seconds.
// If the variable is unset or invalid, def is returned.
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

// envBool parses a boolean environment variable. Accepted values are those
// supported by strconv.ParseBool. When unset or invalid, def is returned.
func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return def
}

// envInt parses an integer environment variable. When unset or invalid, def is returned.
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	return def
}

// envInt64 parses a 64-bit integer environment variable. When unset or invalid, def is returned.
func envInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return i
	}
	return def
}

// envFloat parses a float64 environment variable. When unset or invalid, def is returned.
func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return def
}
