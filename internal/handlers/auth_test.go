package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "kari", normalizeUsername("  Kari "))
	assert.Equal(t, "kari", normalizeUsername("KARI"))
	assert.Equal(t, "kari", normalizeUsername("kari"))
}

func TestDefaultDisplayName(t *testing.T) {
	t.Run("explicit name wins", func(t *testing.T) {
		assert.Equal(t, "Kari Nordmann", defaultDisplayName("Kari Nordmann", "kari"))
	})

	t.Run("empty falls back to the stored username", func(t *testing.T) {
		// The fallback must match what is persisted, not the raw input
		username := normalizeUsername("  Kari ")
		assert.Equal(t, "kari", defaultDisplayName("", username))
		assert.Equal(t, "kari", defaultDisplayName("   ", username))
	})
}
