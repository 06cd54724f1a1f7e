package models

import (
	"time"

	"github.com/google/uuid"
)

// Group is a skill-sharing group
type Group struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Skill       string    `json:"skill" db:"skill"` // e.g. "public speaking"
	CreatedBy   uuid.UUID `json:"created_by" db:"created_by"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// GroupMember ties a user to a group
type GroupMember struct {
	GroupID  uuid.UUID `json:"group_id" db:"group_id"`
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	Role     string    `json:"role" db:"role"` // "owner" or "member"
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`
}

// GroupPost is a shared skill tip or update inside a group
type GroupPost struct {
	ID         uuid.UUID `json:"id" db:"id"`
	GroupID    uuid.UUID `json:"group_id" db:"group_id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// GroupCreateRequest is the request body for POST /api/groups
type GroupCreateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
	Skill       string  `json:"skill" binding:"required"`
}

// GroupPostCreateRequest is the request body for POST /api/groups/:id/posts
type GroupPostCreateRequest struct {
	Content string `json:"content" binding:"required"`
}
