package models

import (
	"time"

	"github.com/google/uuid"
)

// JournalEntry represents one reflection entry
type JournalEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Title     *string   `json:"title,omitempty" db:"title"`
	Content   string    `json:"content" db:"content"`
	Mood      *string   `json:"mood,omitempty" db:"mood"` // e.g. "energized", "drained"
	Tags      []string  `json:"tags,omitempty" db:"tags"`
	EntryDate time.Time `json:"entry_date" db:"entry_date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// JournalCreateRequest is the request body for POST /api/journal
type JournalCreateRequest struct {
	Title   *string  `json:"title,omitempty"`
	Content string   `json:"content" binding:"required"`
	Mood    *string  `json:"mood,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// JournalUpdateRequest is the request body for PATCH /api/journal/:id
type JournalUpdateRequest struct {
	Title   *string  `json:"title,omitempty"`
	Content *string  `json:"content,omitempty"`
	Mood    *string  `json:"mood,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}
