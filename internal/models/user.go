package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account in the coaching platform
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	DisplayName  string     `json:"display_name" db:"display_name"`
	Email        *string    `json:"email,omitempty" db:"email"`
	PasswordHash *string    `json:"-" db:"password_hash"`
	AvatarURL    *string    `json:"avatar_url,omitempty" db:"avatar_url"`
	Timezone     string     `json:"timezone" db:"timezone"`
	FocusArea    *string    `json:"focus_area,omitempty" db:"focus_area"`     // e.g. "leadership", "communication"
	Preferences  *string    `json:"preferences,omitempty" db:"preferences"`   // JSONB stored as string
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// UserProfileResponse is the response for profile endpoints
type UserProfileResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Email       *string    `json:"email,omitempty"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	Timezone    string     `json:"timezone"`
	FocusArea   *string    `json:"focus_area,omitempty"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// UserUpdateRequest is the request body for PATCH /api/users/me
type UserUpdateRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	Timezone    *string `json:"timezone,omitempty"`
	FocusArea   *string `json:"focus_area,omitempty"`
	Preferences *string `json:"preferences,omitempty"`
}

// ToProfileResponse converts User to UserProfileResponse
func (u *User) ToProfileResponse() UserProfileResponse {
	return UserProfileResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		AvatarURL:   u.AvatarURL,
		Timezone:    u.Timezone,
		FocusArea:   u.FocusArea,
		LastLogin:   u.LastLogin,
		CreatedAt:   u.CreatedAt,
	}
}
