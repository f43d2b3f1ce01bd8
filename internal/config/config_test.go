package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"SERVICE_NAME", "ENV", "ADZERK_NETWORK_ID", "ADZERK_SITE_ID", "ADZERK_ENDPOINT",
		"REDIS_ADDR", "VIEW_HISTORY_WINDOW", "VIEW_HISTORY_MAX",
		"TRACING_ENABLED", "TEMPO_ENDPOINT", "TRACING_SAMPLE_RATE",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "adzerk-codec", cfg.ServiceName)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, int64(0), cfg.NetworkID)
	assert.Equal(t, "https://engine.adzerk.net", cfg.Endpoint)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 720*time.Hour, cfg.ViewHistoryWindow)
	assert.Equal(t, 50, cfg.ViewHistoryMax)
	assert.False(t, cfg.TracingEnabled)
	assert.Equal(t, 1.0, cfg.TracingSampleRate)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADZERK_NETWORK_ID", "9792")
	t.Setenv("ADZERK_SITE_ID", "306998")
	t.Setenv("VIEW_HISTORY_WINDOW", "3600")
	t.Setenv("VIEW_HISTORY_MAX", "10")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("TRACING_SAMPLE_RATE", "0.25")

	cfg := Load()
	assert.Equal(t, int64(9792), cfg.NetworkID)
	assert.Equal(t, int64(306998), cfg.SiteID)
	assert.Equal(t, time.Hour, cfg.ViewHistoryWindow)
	assert.Equal(t, 10, cfg.ViewHistoryMax)
	assert.True(t, cfg.TracingEnabled)
	assert.Equal(t, 0.25, cfg.TracingSampleRate)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("ADZERK_NETWORK_ID", "not-a-number")
	t.Setenv("VIEW_HISTORY_WINDOW", "soon")
	t.Setenv("TRACING_ENABLED", "maybe")

	cfg := Load()
	assert.Equal(t, int64(0), cfg.NetworkID)
	assert.Equal(t, 720*time.Hour, cfg.ViewHistoryWindow)
	assert.False(t, cfg.TracingEnabled)
}
