package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/KristianFossum/leadstar-go/internal/middleware"
	"github.com/KristianFossum/leadstar-go/internal/models"
	"github.com/gin-gonic/gin"
)

// GetMe returns the authenticated user's profile
func GetMe(c *gin.Context) {
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

	query := `
		SELECT id, username, display_name, email, avatar_url, timezone,
		       focus_area, preferences, last_login, is_active, created_at, updated_at
		FROM users
		WHERE id = $1 AND is_active = true
	`

	var user models.User
	err := db.QueryRow(c.Request.Context(), query, userID).Scan(
		&user.ID,
		&user.Username,
		&user.DisplayName,
		&user.Email,
		&user.AvatarURL,
		&user.Timezone,
		&user.FocusArea,
		&user.Preferences,
		&user.LastLogin,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err.Error() == "no rows in result set" {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query user", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, user.ToProfileResponse())
}

// UpdateMe updates the authenticated user's profile fields
func UpdateMe(c *gin.Context) {
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

	var req models.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	// Build dynamic update from the provided fields
	query := "UPDATE users SET updated_at = NOW()"
	params := []interface{}{}
	paramCount := 0

	addParam := func(column string, value interface{}) {
		paramCount++
		query += fmt.Sprintf(", %s = $%d", column, paramCount)
		params = append(params, value)
	}

	if req.DisplayName != nil {
		addParam("display_name", *req.DisplayName)
	}
	if req.Email != nil {
		addParam("email", *req.Email)
	}
	if req.AvatarURL != nil {
		addParam("avatar_url", *req.AvatarURL)
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid timezone", "details": err.Error()})
			return
		}
		addParam("timezone", *req.Timezone)
	}
	if req.FocusArea != nil {
		addParam("focus_area", *req.FocusArea)
	}
	if req.Preferences != nil {
		addParam("preferences", *req.Preferences)
	}

	if paramCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	paramCount++
	query += fmt.Sprintf(" WHERE id = $%d", paramCount)
	params = append(params, userID)

	result, err := db.Exec(c.Request.Context(), query, params...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user", "details": err.Error()})
		return
	}

	if result.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}
