package handlers

import (
	"net/http"
	"time"

	"github.com/KristianFossum/leadstar-go/internal/middleware"
	"github.com/KristianFossum/leadstar-go/internal/repository"
	"github.com/gin-gonic/gin"
)

// GetWeeklyReport returns the caller's activity summary for the trailing
// seven days: XP earned per category, journal and task counts, goal
// completions and current streak
func GetWeeklyReport(repo *repository.ProgressionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		db, ok := middleware.GetDB(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
			return
		}

		userID, ok := middleware.GetAuthUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		since := time.Now().AddDate(0, 0, -7)

		// XP per category
		rows, err := db.Query(c.Request.Context(), `
			SELECT category, SUM(points) as points, COUNT(*) as events
			FROM xp_events
			WHERE user_id = $1 AND created_at >= $2
			GROUP BY category
			ORDER BY points DESC
		`, userID, since)

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query XP events", "details": err.Error()})
			return
		}
		defer rows.Close()

		type categoryTotal struct {
			Category string `json:"category"`
			Points   int    `json:"points"`
			Events   int    `json:"events"`
		}

		byCategory := []categoryTotal{}
		weeklyXP := 0
		for rows.Next() {
			var ct categoryTotal
			if err := rows.Scan(&ct.Category, &ct.Points, &ct.Events); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse XP data", "details": err.Error()})
				return
			}
			weeklyXP += ct.Points
			byCategory = append(byCategory, ct)
		}
		rows.Close()

		var journalEntries int
		err = db.QueryRow(c.Request.Context(), `
			SELECT COUNT(*) FROM journal_entries WHERE user_id = $1 AND created_at >= $2
		`, userID, since).Scan(&journalEntries)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count journal entries", "details": err.Error()})
			return
		}

		var tasksCompleted int
		err = db.QueryRow(c.Request.Context(), `
			SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND completed = true AND completed_at >= $2
		`, userID, since).Scan(&tasksCompleted)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count tasks", "details": err.Error()})
			return
		}

		var goalsCompleted int
		err = db.QueryRow(c.Request.Context(), `
			SELECT COUNT(*) FROM goals WHERE user_id = $1 AND completed = true AND completed_at >= $2
		`, userID, since).Scan(&goalsCompleted)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count goals", "details": err.Error()})
			return
		}

		rec, err := repo.Get(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query progression", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"period_start":    since.Format("2006-01-02"),
			"period_end":      time.Now().Format("2006-01-02"),
			"weekly_xp":       weeklyXP,
			"xp_by_category":  byCategory,
			"journal_entries": journalEntries,
			"tasks_completed": tasksCompleted,
			"goals_completed": goalsCompleted,
			"total_xp":        rec.TotalXP,
			"level":           rec.Level,
			"streak_days":     rec.StreakDays,
			"badges_earned":   len(rec.Badges),
		})
	}
}
