package handlers

import (
	"time"

	"github.com/KristianFossum/leadstar-go/internal/progression"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// awardAndStreak gives XP for a category and touches the daily streak.
// It is called after the originating write has already committed, so a
// failed award can never lose the user's entry; the failure is reported
// inside the returned payload instead.
func awardAndStreak(c *gin.Context, engine *progression.Engine, userID uuid.UUID, category progression.Category) gin.H {
	award := engine.Award(c.Request.Context(), userID, category)
	streak := engine.TouchStreak(c.Request.Context(), userID, time.Now())
	return gin.H{
		"award":  award,
		"streak": streak,
	}
}
