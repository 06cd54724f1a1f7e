package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegenerationDue(t *testing.T) {
	now := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	tmplDate := now.AddDate(0, 0, -30)

	t.Run("no instances left reads as due", func(t *testing.T) {
		assert.True(t, regenerationDue(tmplDate, nil, now))
	})

	t.Run("furthest instance inside the window is due", func(t *testing.T) {
		dates := []time.Time{
			now.AddDate(0, 0, 2),
			now.AddDate(0, 0, 9),
		}
		assert.True(t, regenerationDue(tmplDate, dates, now))
	})

	t.Run("furthest instance beyond the window is not due", func(t *testing.T) {
		dates := []time.Time{
			now.AddDate(0, 0, 2),
			now.AddDate(0, 0, 40),
		}
		assert.False(t, regenerationDue(tmplDate, dates, now))
	})

	t.Run("future template date alone can satisfy the window", func(t *testing.T) {
		farFuture := now.AddDate(0, 1, 0)
		assert.False(t, regenerationDue(farFuture, nil, now))
	})
}
