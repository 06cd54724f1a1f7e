package handlers

import (
	"net/http"
	"time"

	"github.com/KristianFossum/leadstar-go/internal/middleware"
	"github.com/KristianFossum/leadstar-go/internal/models"
	"github.com/KristianFossum/leadstar-go/internal/progression"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListJournalEntries returns the user's entries, newest first
func ListJournalEntries(c *gin.Context) {
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
		SELECT id, user_id, title, content, mood, tags, entry_date, created_at, updated_at
		FROM journal_entries
		WHERE user_id = $1
		ORDER BY entry_date DESC, created_at DESC
		LIMIT 100
	`

	rows, err := db.Query(c.Request.Context(), query, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query journal entries", "details": err.Error()})
		return
	}
	defer rows.Close()

	entries := []models.JournalEntry{}
	for rows.Next() {
		var entry models.JournalEntry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Title,
			&entry.Content,
			&entry.Mood,
			&entry.Tags,
			&entry.EntryDate,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse journal data", "details": err.Error()})
			return
		}
		entries = append(entries, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

// CreateJournalEntry saves a new entry, then awards XP and touches the
// streak. The XP award runs after the entry is committed; a failed
// award never blocks the entry itself.
func CreateJournalEntry(engine *progression.Engine) gin.HandlerFunc {
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

		var req models.JournalCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		entry := models.JournalEntry{
			ID:        uuid.New(),
			UserID:    userID,
			Title:     req.Title,
			Content:   req.Content,
			Mood:      req.Mood,
			Tags:      req.Tags,
			EntryDate: time.Now(),
		}

		err := db.QueryRow(c.Request.Context(), `
			INSERT INTO journal_entries (id, user_id, title, content, mood, tags, entry_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, CURRENT_DATE, NOW(), NOW())
			RETURNING entry_date, created_at, updated_at
		`, entry.ID, entry.UserID, entry.Title, entry.Content, entry.Mood, entry.Tags).Scan(
			&entry.EntryDate, &entry.CreatedAt, &entry.UpdatedAt,
		)

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create journal entry", "details": err.Error()})
			return
		}

		resp := gin.H{"entry": entry}
		for k, v := range awardAndStreak(c, engine, userID, progression.CategoryJournalSubmit) {
			resp[k] = v
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// GetJournalEntry returns one entry by ID
func GetJournalEntry(c *gin.Context) {
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

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID format"})
		return
	}

	var entry models.JournalEntry
	err = db.QueryRow(c.Request.Context(), `
		SELECT id, user_id, title, content, mood, tags, entry_date, created_at, updated_at
		FROM journal_entries
		WHERE id = $1 AND user_id = $2
	`, entryID, userID).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Title,
		&entry.Content,
		&entry.Mood,
		&entry.Tags,
		&entry.EntryDate,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)

	if err != nil {
		if err.Error() == "no rows in result set" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query journal entry", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, entry)
}

// UpdateJournalEntry updates an entry's editable fields
func UpdateJournalEntry(c *gin.Context) {
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

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID format"})
		return
	}

	var req models.JournalUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result, err := db.Exec(c.Request.Context(), `
		UPDATE journal_entries
		SET title = COALESCE($1, title),
			content = COALESCE($2, content),
			mood = COALESCE($3, mood),
			tags = COALESCE($4, tags),
			updated_at = NOW()
		WHERE id = $5 AND user_id = $6
	`, req.Title, req.Content, req.Mood, req.Tags, entryID, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update journal entry", "details": err.Error()})
		return
	}

	if result.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Journal entry updated"})
}

// DeleteJournalEntry removes an entry
func DeleteJournalEntry(c *gin.Context) {
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

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID format"})
		return
	}

	result, err := db.Exec(c.Request.Context(), `
		DELETE FROM journal_entries WHERE id = $1 AND user_id = $2
	`, entryID, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete journal entry", "details": err.Error()})
		return
	}

	if result.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Journal entry deleted"})
}
