package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults with required values set", func(t *testing.T) {
		t.Setenv("LEADSTAR_DATABASE_URL", "postgres://localhost/leadstar")
		t.Setenv("LEADSTAR_JWT_SECRET", "s3cret")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "postgres://localhost/leadstar", cfg.DatabaseURL)
		assert.Equal(t, "s3cret", cfg.JWTSecret)
		assert.Equal(t, "leadstar-go", cfg.JWTIssuer)
		assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
		assert.Equal(t, "UTC", cfg.Timezone)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "https://api.openai.com/v1", cfg.CoachBaseURL)
		assert.Equal(t, "gpt-4o-mini", cfg.CoachModel)
		assert.Equal(t, 30*time.Second, cfg.CoachTimeout)
		assert.Equal(t, "0 7 * * *", cfg.ReminderSpec)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("LEADSTAR_DATABASE_URL", "postgres://db/leadstar")
		t.Setenv("LEADSTAR_JWT_SECRET", "s3cret")
		t.Setenv("LEADSTAR_PORT", "9090")
		t.Setenv("LEADSTAR_JWT_TTL_HOURS", "2")
		t.Setenv("LEADSTAR_TIMEZONE", "Europe/Oslo")
		t.Setenv("LEADSTAR_COACH_BASE_URL", "https://llm.internal/v1/")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
		assert.Equal(t, "Europe/Oslo", cfg.Timezone)
		// Trailing slash is stripped so URL joining stays predictable
		assert.Equal(t, "https://llm.internal/v1", cfg.CoachBaseURL)
	})

	t.Run("missing database url fails", func(t *testing.T) {
		t.Setenv("LEADSTAR_DATABASE_URL", "")
		t.Setenv("LEADSTAR_JWT_SECRET", "s3cret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LEADSTAR_DATABASE_URL")
	})

	t.Run("missing jwt secret fails", func(t *testing.T) {
		t.Setenv("LEADSTAR_DATABASE_URL", "postgres://localhost/leadstar")
		t.Setenv("LEADSTAR_JWT_SECRET", "  ")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LEADSTAR_JWT_SECRET")
	})
}
