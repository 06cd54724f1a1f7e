package handlers

import (
	"net/http"

	"github.com/KristianFossum/leadstar-go/internal/middleware"
	"github.com/KristianFossum/leadstar-go/internal/models"
	"github.com/KristianFossum/leadstar-go/internal/progression"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListGoals returns the user's goals, active first
func ListGoals(c *gin.Context) {
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

	rows, err := db.Query(c.Request.Context(), `
		SELECT id, user_id, title, description, category, target_date, progress, completed, completed_at, created_at, updated_at
		FROM goals
		WHERE user_id = $1
		ORDER BY completed ASC, created_at DESC
		LIMIT 100
	`, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query goals", "details": err.Error()})
		return
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		var g models.Goal
		err := rows.Scan(
			&g.ID,
			&g.UserID,
			&g.Title,
			&g.Description,
			&g.Category,
			&g.TargetDate,
			&g.Progress,
			&g.Completed,
			&g.CompletedAt,
			&g.CreatedAt,
			&g.UpdatedAt,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse goal data", "details": err.Error()})
			return
		}
		goals = append(goals, g)
	}

	c.JSON(http.StatusOK, gin.H{
		"goals": goals,
		"count": len(goals),
	})
}

// CreateGoal creates a new goal at zero progress
func CreateGoal(c *gin.Context) {
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

	var req models.GoalCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if req.Category == "" {
		req.Category = "general"
	}

	goal := models.Goal{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		TargetDate:  req.TargetDate,
	}

	err := db.QueryRow(c.Request.Context(), `
		INSERT INTO goals (id, user_id, title, description, category, target_date, progress, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, false, NOW(), NOW())
		RETURNING created_at, updated_at
	`, goal.ID, goal.UserID, goal.Title, goal.Description, goal.Category, goal.TargetDate).Scan(&goal.CreatedAt, &goal.UpdatedAt)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create goal", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, goal)
}

// UpdateGoal updates a goal's title, description or target date
func UpdateGoal(c *gin.Context) {
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

	goalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal ID format"})
		return
	}

	var req models.GoalUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result, err := db.Exec(c.Request.Context(), `
		UPDATE goals
		SET title = COALESCE($1, title),
			description = COALESCE($2, description),
			category = COALESCE($3, category),
			target_date = COALESCE($4, target_date),
			updated_at = NOW()
		WHERE id = $5 AND user_id = $6
	`, req.Title, req.Description, req.Category, req.TargetDate, goalID, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update goal", "details": err.Error()})
		return
	}

	if result.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Goal updated"})
}

// DeleteGoal removes a goal
func DeleteGoal(c *gin.Context) {
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

	goalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal ID format"})
		return
	}

	result, err := db.Exec(c.Request.Context(), `
		DELETE FROM goals WHERE id = $1 AND user_id = $2
	`, goalID, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete goal", "details": err.Error()})
		return
	}

	if result.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted"})
}

// UpdateGoalProgress sets a goal's progress percentage. Reaching 100
// marks the goal completed and awards XP exactly once; lowering progress
// afterwards never un-completes it or claws the award back.
func UpdateGoalProgress(engine *progression.Engine) gin.HandlerFunc {
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

		goalID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal ID format"})
			return
		}

		var req models.GoalProgressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		var wasCompleted bool
		err = db.QueryRow(c.Request.Context(), `
			SELECT completed FROM goals WHERE id = $1 AND user_id = $2
		`, goalID, userID).Scan(&wasCompleted)

		if err != nil {
			if err.Error() == "no rows in result set" {
				c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query goal", "details": err.Error()})
			}
			return
		}

		nowCompleted := wasCompleted || req.Progress >= 100

		_, err = db.Exec(c.Request.Context(), `
			UPDATE goals
			SET progress = $1,
				completed = $2,
				completed_at = CASE WHEN $2 AND completed_at IS NULL THEN NOW() ELSE completed_at END,
				updated_at = NOW()
			WHERE id = $3 AND user_id = $4
		`, req.Progress, nowCompleted, goalID, userID)

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update progress", "details": err.Error()})
			return
		}

		resp := gin.H{
			"goal_id":   goalID,
			"progress":  req.Progress,
			"completed": nowCompleted,
		}

		if nowCompleted && !wasCompleted {
			for k, v := range awardAndStreak(c, engine, userID, progression.CategoryGoalComplete) {
				resp[k] = v
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}
