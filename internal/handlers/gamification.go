package handlers

import (
	"net/http"

	"github.com/KristianFossum/leadstar-go/internal/middleware"
	"github.com/KristianFossum/leadstar-go/internal/models"
	"github.com/KristianFossum/leadstar-go/internal/progression"
	"github.com/KristianFossum/leadstar-go/internal/repository"
	"github.com/gin-gonic/gin"
)

// GetMyProgression returns the caller's XP, level, streak and badges
func GetMyProgression(repo *repository.ProgressionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetAuthUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		rec, err := repo.Get(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query progression", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"progression":   rec,
			"next_level_at": progression.NextLevelAt(rec.TotalXP),
		})
	}
}

// GetLeaderboard returns the XP leaderboard for ?period=week or alltime
// (default). Weekly ranking sums xp_events from the trailing seven days
// so it reflects recent effort, not accumulated history.
func GetLeaderboard(c *gin.Context) {
	db, ok := middleware.GetDB(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection not found"})
		return
	}

	period := c.DefaultQuery("period", "alltime")
	if period != "week" && period != "alltime" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period, must be 'week' or 'alltime'"})
		return
	}

	var query string
	if period == "week" {
		query = `
			SELECT
				u.id as user_id,
				u.username,
				u.display_name,
				u.avatar_url,
				p.total_xp,
				COALESCE(w.weekly_xp, 0) as weekly_xp,
				p.level,
				p.streak_days
			FROM users u
			JOIN progression p ON p.user_id = u.id
			LEFT JOIN (
				SELECT user_id, SUM(points) as weekly_xp
				FROM xp_events
				WHERE created_at >= NOW() - INTERVAL '7 days'
				GROUP BY user_id
			) w ON w.user_id = u.id
			WHERE u.is_active = true
			ORDER BY weekly_xp DESC, p.total_xp DESC, u.username ASC
			LIMIT 100
		`
	} else {
		query = `
			SELECT
				u.id as user_id,
				u.username,
				u.display_name,
				u.avatar_url,
				p.total_xp,
				0 as weekly_xp,
				p.level,
				p.streak_days
			FROM users u
			JOIN progression p ON p.user_id = u.id
			WHERE u.is_active = true
			ORDER BY p.total_xp DESC, u.username ASC
			LIMIT 100
		`
	}

	rows, err := db.Query(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query leaderboard", "details": err.Error()})
		return
	}
	defer rows.Close()

	leaderboard := []models.LeaderboardEntry{}
	rank := 1

	for rows.Next() {
		var entry models.LeaderboardEntry
		err := rows.Scan(
			&entry.UserID,
			&entry.Username,
			&entry.DisplayName,
			&entry.AvatarURL,
			&entry.TotalXP,
			&entry.WeeklyXP,
			&entry.Level,
			&entry.StreakDays,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse leaderboard data", "details": err.Error()})
			return
		}

		entry.Rank = rank
		rank++
		leaderboard = append(leaderboard, entry)
	}

	c.JSON(http.StatusOK, models.LeaderboardResponse{
		Period:      period,
		Leaderboard: leaderboard,
		TotalUsers:  len(leaderboard),
	})
}
