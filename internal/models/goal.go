package models

import (
	"time"

	"github.com/google/uuid"
)

// Goal represents a longer-horizon objective tracked by progress percent
type Goal struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	Category    string     `json:"category" db:"category"` // e.g. "career", "health", "relationships"
	TargetDate  *time.Time `json:"target_date,omitempty" db:"target_date"`
	Progress    int        `json:"progress" db:"progress"` // 0-100
	Completed   bool       `json:"completed" db:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// GoalCreateRequest is the request body for POST /api/goals
type GoalCreateRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description,omitempty"`
	Category    string     `json:"category"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
}

// GoalUpdateRequest is the request body for PATCH /api/goals/:id
type GoalUpdateRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Category    *string    `json:"category,omitempty"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
}

// GoalProgressRequest is the request body for POST /api/goals/:id/progress
type GoalProgressRequest struct {
	Progress int `json:"progress" binding:"min=0,max=100"`
}
