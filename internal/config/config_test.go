package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/lancerhub_test")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := Load()

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 10080, cfg.JWTExpiresMin)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendBaseURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/lancerhub_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_EXPIRES_MIN", "60")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, 60, cfg.JWTExpiresMin)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadPanicsOnMissingSecret(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/lancerhub_test")
	t.Setenv("JWT_SECRET", "")

	assert.Panics(t, func() { Load() })
}
