package models

import (
	"time"

	"github.com/google/uuid"
)

// RepeatKind describes how a task recurs
type RepeatKind string

const (
	RepeatNone    RepeatKind = "none"
	RepeatDaily   RepeatKind = "daily"
	RepeatWeekly  RepeatKind = "weekly"
	RepeatMonthly RepeatKind = "monthly"
	RepeatCustom  RepeatKind = "custom" // interval counted in days
)

// Task represents a schedulable, optionally repeating unit of work.
// A repeating template owns derived instances; instances reference the
// template through TemplateID and never repeat themselves.
type Task struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	UserID         uuid.UUID  `json:"user_id" db:"user_id"`
	TemplateID     *uuid.UUID `json:"template_id,omitempty" db:"template_id"`
	Title          string     `json:"title" db:"title"`
	Description    *string    `json:"description,omitempty" db:"description"`
	ScheduledAt    time.Time  `json:"scheduled_at" db:"scheduled_at"`
	RepeatKind     RepeatKind `json:"repeat_kind" db:"repeat_kind"`
	RepeatInterval int        `json:"repeat_interval" db:"repeat_interval"`
	RepeatUntil    *time.Time `json:"repeat_until,omitempty" db:"repeat_until"`
	Completed      bool       `json:"completed" db:"completed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	Reminder       bool       `json:"reminder" db:"reminder"`
	SortOrder      int        `json:"sort_order" db:"sort_order"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// IsRepeating reports whether the task is a repeating template
func (t *Task) IsRepeating() bool {
	switch t.RepeatKind {
	case RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatCustom:
		return true
	}
	return false
}

// TaskCreateRequest is the request body for POST /api/tasks
type TaskCreateRequest struct {
	Title          string     `json:"title" binding:"required"`
	Description    *string    `json:"description,omitempty"`
	ScheduledAt    time.Time  `json:"scheduled_at" binding:"required"`
	RepeatKind     RepeatKind `json:"repeat_kind"`
	RepeatInterval int        `json:"repeat_interval"`
	RepeatUntil    *time.Time `json:"repeat_until,omitempty"`
	Reminder       bool       `json:"reminder"`
	SortOrder      int        `json:"sort_order"`
}

// TaskUpdateRequest is the request body for PATCH /api/tasks/:id
type TaskUpdateRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Reminder    *bool      `json:"reminder,omitempty"`
	SortOrder   *int       `json:"sort_order,omitempty"`
}

// TaskReorderRequest is the request body for POST /api/tasks/reorder
type TaskReorderRequest struct {
	Order []uuid.UUID `json:"order" binding:"required"`
}

// TaskListResponse is the list item shape for task endpoints
type TaskListResponse struct {
	ID             uuid.UUID  `json:"id"`
	TemplateID     *uuid.UUID `json:"template_id,omitempty"`
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	ScheduledAt    string     `json:"scheduled_at"`
	RepeatKind     RepeatKind `json:"repeat_kind"`
	RepeatInterval int        `json:"repeat_interval"`
	RepeatUntil    *string    `json:"repeat_until,omitempty"`
	RepeatLabel    string     `json:"repeat_label,omitempty"`
	Completed      bool       `json:"completed"`
	CompletedAt    *string    `json:"completed_at,omitempty"`
	Reminder       bool       `json:"reminder"`
	SortOrder      int        `json:"sort_order"`
	CreatedAt      string     `json:"created_at"`
}

// ToListResponse converts Task to TaskListResponse
func (t *Task) ToListResponse() TaskListResponse {
	resp := TaskListResponse{
		ID:             t.ID,
		TemplateID:     t.TemplateID,
		Title:          t.Title,
		Description:    t.Description,
		ScheduledAt:    t.ScheduledAt.Format(time.RFC3339),
		RepeatKind:     t.RepeatKind,
		RepeatInterval: t.RepeatInterval,
		Completed:      t.Completed,
		Reminder:       t.Reminder,
		SortOrder:      t.SortOrder,
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
	}
	if t.RepeatUntil != nil {
		str := t.RepeatUntil.Format("2006-01-02")
		resp.RepeatUntil = &str
	}
	if t.CompletedAt != nil {
		str := t.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &str
	}
	return resp
}
