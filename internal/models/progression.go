package models

import (
	"time"

	"github.com/google/uuid"
)

// ProgressionRecord is the per-user row holding total experience points,
// level, streak, and badges. Level is always recomputed from TotalXP on
// every award; the stored column exists only for cheap leaderboard reads.
type ProgressionRecord struct {
	UserID           uuid.UUID  `json:"user_id" db:"user_id"`
	TotalXP          int        `json:"total_xp" db:"total_xp"`
	Level            int        `json:"level" db:"level"`
	StreakDays       int        `json:"streak_days" db:"streak_days"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty" db:"last_activity_date"`
	Badges           []Badge    `json:"badges"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// HasBadge reports whether a badge with the given name is already unlocked
func (r *ProgressionRecord) HasBadge(name string) bool {
	for _, b := range r.Badges {
		if b.Name == name {
			return true
		}
	}
	return false
}

// Badge is an immutable, one-time-unlockable achievement marker.
// Identity is the milestone-derived name; the same milestone always
// produces the same badge.
type Badge struct {
	Name     string    `json:"name" db:"name"`
	Icon     string    `json:"icon" db:"icon"`
	EarnedAt time.Time `json:"earned_at" db:"earned_at"`
}

// XPEvent records a single award for history, reports and weekly rankings
type XPEvent struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Category  string    `json:"category" db:"category"`
	Points    int       `json:"points" db:"points"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LeaderboardEntry represents a user's position on the XP leaderboard
type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	TotalXP     int       `json:"total_xp"`
	WeeklyXP    int       `json:"weekly_xp"`
	Level       int       `json:"level"`
	StreakDays  int       `json:"streak_days"`
}

// LeaderboardResponse is the API response for leaderboards
type LeaderboardResponse struct {
	Period      string             `json:"period"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	TotalUsers  int                `json:"total_users"`
}
