package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/KristianFossum/leadstar-go/internal/middleware"
	"github.com/KristianFossum/leadstar-go/internal/models"
	"github.com/KristianFossum/leadstar-go/internal/progression"
	"github.com/KristianFossum/leadstar-go/internal/recurrence"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const taskColumns = `
	id, user_id, template_id, title, description, scheduled_at,
	repeat_kind, repeat_interval, repeat_until,
	completed, completed_at, reminder, sort_order, created_at, updated_at
`

// regenerationDue reports whether a repeating series is running out of
// future instances. With no instances left the template's own date seeds
// the check, so an emptied series reads as due rather than dormant.
func regenerationDue(templateScheduled time.Time, instanceDates []time.Time, now time.Time) bool {
	last := templateScheduled
	for _, d := range instanceDates {
		if d.After(last) {
			last = d
		}
	}
	return recurrence.NeedsRegeneration(last, now, recurrence.DefaultRegenWindowDays)
}

func scanTask(row pgx.Row) (models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.TemplateID,
		&t.Title,
		&t.Description,
		&t.ScheduledAt,
		&t.RepeatKind,
		&t.RepeatInterval,
		&t.RepeatUntil,
		&t.Completed,
		&t.CompletedAt,
		&t.Reminder,
		&t.SortOrder,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

// ListTasks returns the user's tasks with optional date/completion filters
func ListTasks(c *gin.Context) {
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

	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	completedParam := c.Query("completed")

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	params := []interface{}{userID}
	paramCount := 1

	if startDate != "" {
		paramCount++
		query += fmt.Sprintf(" AND scheduled_at >= $%d", paramCount)
		params = append(params, startDate)
	}
	if endDate != "" {
		paramCount++
		query += fmt.Sprintf(" AND scheduled_at <= $%d", paramCount)
		params = append(params, endDate)
	}
	if completedParam != "" {
		paramCount++
		query += fmt.Sprintf(" AND completed = $%d", paramCount)
		params = append(params, completedParam == "true")
	}

	query += ` ORDER BY sort_order ASC, scheduled_at ASC LIMIT 200`

	rows, err := db.Query(c.Request.Context(), query, params...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query tasks", "details": err.Error()})
		return
	}
	defer rows.Close()

	tasks := []models.TaskListResponse{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse task data", "details": err.Error()})
			return
		}
		resp := t.ToListResponse()
		if t.IsRepeating() {
			resp.RepeatLabel = recurrence.Describe(t.RepeatKind, t.RepeatInterval, t.RepeatUntil)
		}
		tasks = append(tasks, resp)
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// CreateTask persists a task template and, for repeating tasks, its
// derived instances as independent sibling records in one transaction.
func CreateTask(c *gin.Context) {
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

	var req models.TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if req.RepeatKind == "" {
		req.RepeatKind = models.RepeatNone
	}

	template := models.Task{
		ID:             uuid.New(),
		UserID:         userID,
		Title:          req.Title,
		Description:    req.Description,
		ScheduledAt:    req.ScheduledAt,
		RepeatKind:     req.RepeatKind,
		RepeatInterval: req.RepeatInterval,
		RepeatUntil:    req.RepeatUntil,
		Reminder:       req.Reminder,
		SortOrder:      req.SortOrder,
	}

	instances := recurrence.Expand(template, recurrence.DefaultMaxInstances)

	tx, err := db.Begin(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback(c.Request.Context())

	insert := `
		INSERT INTO tasks (
			id, user_id, template_id, title, description, scheduled_at,
			repeat_kind, repeat_interval, repeat_until, completed, reminder, sort_order,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, false, $10, $11, NOW(), NOW())
	`

	_, err = tx.Exec(c.Request.Context(), insert,
		template.ID, template.UserID, nil, template.Title, template.Description,
		template.ScheduledAt, template.RepeatKind, template.RepeatInterval,
		template.RepeatUntil, template.Reminder, template.SortOrder,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task", "details": err.Error()})
		return
	}

	for _, inst := range instances {
		_, err = tx.Exec(c.Request.Context(), insert,
			inst.ID, inst.UserID, inst.TemplateID, inst.Title, inst.Description,
			inst.ScheduledAt, inst.RepeatKind, inst.RepeatInterval,
			inst.RepeatUntil, inst.Reminder, inst.SortOrder,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task instances", "details": err.Error()})
			return
		}
	}

	if err = tx.Commit(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	resp := gin.H{
		"task":            template.ToListResponse(),
		"instances_count": len(instances),
	}
	if template.IsRepeating() {
		resp["repeat_label"] = recurrence.Describe(template.RepeatKind, template.RepeatInterval, template.RepeatUntil)
	}

	c.JSON(http.StatusCreated, resp)
}

// GetTask returns one task by ID
func GetTask(c *gin.Context) {
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

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	t, err := scanTask(db.QueryRow(c.Request.Context(),
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`, taskID, userID))
	if err != nil {
		if err.Error() == "no rows in result set" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query task", "details": err.Error()})
		}
		return
	}

	resp := t.ToListResponse()
	if t.IsRepeating() {
		resp.RepeatLabel = recurrence.Describe(t.RepeatKind, t.RepeatInterval, t.RepeatUntil)
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateTask updates an individual task's editable fields. Recurrence
// rules are immutable after creation; instances are edited one by one.
func UpdateTask(c *gin.Context) {
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

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	var req models.TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result, err := db.Exec(c.Request.Context(), `
		UPDATE tasks
		SET title = COALESCE($1, title),
			description = COALESCE($2, description),
			scheduled_at = COALESCE($3, scheduled_at),
			reminder = COALESCE($4, reminder),
			sort_order = COALESCE($5, sort_order),
			updated_at = NOW()
		WHERE id = $6 AND user_id = $7
	`, req.Title, req.Description, req.ScheduledAt, req.Reminder, req.SortOrder, taskID, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task", "details": err.Error()})
		return
	}

	if result.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task updated"})
}

// DeleteTask removes a task. Deleting a repeating template cascades to
// its instances through the template_id foreign key.
func DeleteTask(c *gin.Context) {
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

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	result, err := db.Exec(c.Request.Context(), `
		DELETE FROM tasks WHERE id = $1 AND user_id = $2
	`, taskID, userID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task", "details": err.Error()})
		return
	}

	if result.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// CompleteTask marks a task completed and awards XP. Completion acts on
// the individual instance, never the template abstractly.
func CompleteTask(engine *progression.Engine) gin.HandlerFunc {
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

		taskID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
			return
		}

		var alreadyCompleted bool
		err = db.QueryRow(c.Request.Context(), `
			SELECT completed FROM tasks WHERE id = $1 AND user_id = $2
		`, taskID, userID).Scan(&alreadyCompleted)

		if err != nil {
			if err.Error() == "no rows in result set" {
				c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query task", "details": err.Error()})
			}
			return
		}

		if alreadyCompleted {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Task is already completed"})
			return
		}

		_, err = db.Exec(c.Request.Context(), `
			UPDATE tasks
			SET completed = true, completed_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND user_id = $2
		`, taskID, userID)

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete task", "details": err.Error()})
			return
		}

		resp := gin.H{
			"message": "Task completed",
			"task_id": taskID,
		}
		for k, v := range awardAndStreak(c, engine, userID, progression.CategoryTaskComplete) {
			resp[k] = v
		}

		c.JSON(http.StatusOK, resp)
	}
}

// ReorderTasks applies a new sort order to the given task IDs
func ReorderTasks(c *gin.Context) {
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

	var req models.TaskReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	tx, err := db.Begin(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback(c.Request.Context())

	for position, taskID := range req.Order {
		_, err = tx.Exec(c.Request.Context(), `
			UPDATE tasks SET sort_order = $1, updated_at = NOW()
			WHERE id = $2 AND user_id = $3
		`, position, taskID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder tasks", "details": err.Error()})
			return
		}
	}

	if err = tx.Commit(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tasks reordered", "count": len(req.Order)})
}

// ListTaskInstances returns the derived instances of a repeating task
// plus whether more should be generated (furthest instance inside the
// 14-day look-ahead window)
func ListTaskInstances(c *gin.Context) {
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

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	template, err := scanTask(db.QueryRow(c.Request.Context(),
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`, taskID, userID))
	if err != nil {
		if err.Error() == "no rows in result set" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query task", "details": err.Error()})
		}
		return
	}

	if !template.IsRepeating() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task is not repeating"})
		return
	}

	rows, err := db.Query(c.Request.Context(),
		`SELECT `+taskColumns+` FROM tasks WHERE template_id = $1 ORDER BY scheduled_at ASC`, taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query instances", "details": err.Error()})
		return
	}
	defer rows.Close()

	instances := []models.TaskListResponse{}
	instanceDates := []time.Time{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse instance data", "details": err.Error()})
			return
		}
		instanceDates = append(instanceDates, t.ScheduledAt)
		instances = append(instances, t.ToListResponse())
	}

	needsRegen := regenerationDue(template.ScheduledAt, instanceDates, time.Now())

	c.JSON(http.StatusOK, gin.H{
		"template":           template.ToListResponse(),
		"repeat_label":       recurrence.Describe(template.RepeatKind, template.RepeatInterval, template.RepeatUntil),
		"instances":          instances,
		"count":              len(instances),
		"needs_regeneration": needsRegen,
	})
}

// GenerateTaskInstances extends a repeating task with the next batch of
// instances, continuing from the furthest existing one
func GenerateTaskInstances(c *gin.Context) {
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

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	template, err := scanTask(db.QueryRow(c.Request.Context(),
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`, taskID, userID))
	if err != nil {
		if err.Error() == "no rows in result set" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query task", "details": err.Error()})
		}
		return
	}

	if !template.IsRepeating() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task is not repeating"})
		return
	}

	// Continue from the furthest existing instance, if any
	var lastScheduled *time.Time
	err = db.QueryRow(c.Request.Context(), `
		SELECT MAX(scheduled_at) FROM tasks WHERE template_id = $1
	`, taskID).Scan(&lastScheduled)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query instances", "details": err.Error()})
		return
	}

	seed := template
	if lastScheduled != nil {
		seed.ScheduledAt = *lastScheduled
	}

	instances := recurrence.Expand(seed, recurrence.DefaultMaxInstances)

	tx, err := db.Begin(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback(c.Request.Context())

	for _, inst := range instances {
		_, err = tx.Exec(c.Request.Context(), `
			INSERT INTO tasks (
				id, user_id, template_id, title, description, scheduled_at,
				repeat_kind, repeat_interval, repeat_until, completed, reminder, sort_order,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, false, $10, $11, NOW(), NOW())
		`, inst.ID, inst.UserID, inst.TemplateID, inst.Title, inst.Description,
			inst.ScheduledAt, inst.RepeatKind, inst.RepeatInterval,
			inst.RepeatUntil, inst.Reminder, inst.SortOrder,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create instances", "details": err.Error()})
			return
		}
	}

	if err = tx.Commit(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":         "Instances generated",
		"task_id":         taskID,
		"instances_count": len(instances),
	})
}
