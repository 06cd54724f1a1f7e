package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService(t *testing.T) {
	svc := NewJWTService("test-secret", "leadstar-go", time.Hour)
	userID := uuid.New()

	t.Run("round trip", func(t *testing.T) {
		token, err := svc.GenerateToken(userID, "kari")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, "kari", claims.Username)
		assert.Equal(t, "leadstar-go", claims.Issuer)
	})

	t.Run("expired token", func(t *testing.T) {
		short := NewJWTService("test-secret", "leadstar-go", time.Nanosecond)
		// ttl <= 0 falls back to the default, so use the smallest positive value
		token, err := short.GenerateToken(userID, "kari")
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)

		_, err = short.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := svc.GenerateToken(userID, "kari")
		require.NoError(t, err)

		other := NewJWTService("different-secret", "leadstar-go", time.Hour)
		_, err = other.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("zero ttl uses the default", func(t *testing.T) {
		def := NewJWTService("test-secret", "leadstar-go", 0)
		token, err := def.GenerateToken(userID, "kari")
		require.NoError(t, err)

		claims, err := def.ValidateToken(token)
		require.NoError(t, err)
		expiry := claims.ExpiresAt.Time
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiry, time.Minute)
	})
}
