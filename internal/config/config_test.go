package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.MongoDB.URI)
	assert.Equal(t, "stream_backend", cfg.Database.MongoDB.Database)
	assert.Equal(t, PlaybackModeReplace, cfg.Playback.UpdateMode)
	assert.Equal(t, RelayBackboneNone, cfg.Relay.Backbone)
	assert.Equal(t, "stream:relay", cfg.Relay.Channel)
	assert.Equal(t, 24, cfg.Security.JWT.ExpiryHour)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, time.Minute, cfg.Security.RateLimit.Window)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PLAYBACK_UPDATE_MODE", PlaybackModeMerge)
	t.Setenv("RELAY_BACKBONE", RelayBackboneRedis)
	t.Setenv("RATE_LIMIT_REQUESTS", "42")
	t.Setenv("HTTP_READ_TIMEOUT", "15s")
	t.Setenv("CORS_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg := Load()

	assert.Equal(t, PlaybackModeMerge, cfg.Playback.UpdateMode)
	assert.Equal(t, RelayBackboneRedis, cfg.Relay.Backbone)
	assert.Equal(t, 42, cfg.Security.RateLimit.Requests)
	assert.Equal(t, 15*time.Second, cfg.Server.HTTP.ReadTimeout)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.CORS.AllowedOrigins)
}

func TestLoadIgnoresUnparseableEnv(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS", "many")
	t.Setenv("HTTP_READ_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 100, cfg.Security.RateLimit.Requests)
	assert.Equal(t, 30*time.Second, cfg.Server.HTTP.ReadTimeout)
}

func TestValidate(t *testing.T) {
	cfg := Load()
	require.NoError(t, cfg.Validate())

	cfg.Playback.UpdateMode = "patch"
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.Relay.Backbone = "kafka"
	assert.Error(t, cfg.Validate())
}

func TestValidateProductionSecret(t *testing.T) {
	cfg := Load()
	cfg.App.Environment = "production"

	// The default secret is refused in production
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.Security.JWT.Secret = "a-real-secret"
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnvironmentOverrides(t *testing.T) {
	cfg := Load()
	cfg.App.Environment = "production"
	cfg.ApplyEnvironmentOverrides()

	assert.False(t, cfg.App.Debug)
	assert.Equal(t, 50, cfg.Security.RateLimit.Requests)

	cfg = Load()
	cfg.App.Environment = "development"
	cfg.ApplyEnvironmentOverrides()

	assert.True(t, cfg.App.Debug)
	assert.Contains(t, cfg.Server.CORS.AllowedOrigins, "http://localhost:5173")
}
