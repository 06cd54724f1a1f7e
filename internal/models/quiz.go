package models

import (
	"time"

	"github.com/google/uuid"
)

// QuizQuestion is one personality quiz question with fixed choices.
// Each choice index maps onto an archetype in the scorer.
type QuizQuestion struct {
	ID      int      `json:"id"`
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices"`
}

// QuizResult stores a scored personality quiz submission
type QuizResult struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	QuizKey   string    `json:"quiz_key" db:"quiz_key"` // e.g. "personality"
	Archetype string    `json:"archetype" db:"archetype"`
	Scores    string    `json:"scores" db:"scores"` // JSONB stored as string
	TakenAt   time.Time `json:"taken_at" db:"taken_at"`
}

// QuizSubmitRequest is the request body for POST /api/quizzes/personality.
// Answers holds the selected choice index per question, in question order.
type QuizSubmitRequest struct {
	Answers []int `json:"answers" binding:"required"`
}
