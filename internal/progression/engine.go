package progression

import (
	"context"
	"time"

	"github.com/KristianFossum/leadstar-go/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store gives the engine row-locked access to a user's progression
// record. WithRecord loads the record (creating a zeroed one if absent),
// runs fn while the row stays locked, and persists the mutated record
// plus any returned XP event in the same transaction.
type Store interface {
	WithRecord(ctx context.Context, userID uuid.UUID, fn func(rec *models.ProgressionRecord) (*models.XPEvent, error)) error
}

// AwardResult reports the outcome of one XP award. Awarded is false when
// the backing store failed; the caller surfaces that as a non-fatal
// notification and never blocks the originating action on it.
type AwardResult struct {
	Awarded   bool           `json:"awarded"`
	Category  Category       `json:"category"`
	Points    int            `json:"points"`
	TotalXP   int            `json:"total_xp"`
	Level     int            `json:"level"`
	LeveledUp bool           `json:"leveled_up"`
	NewBadges []models.Badge `json:"new_badges,omitempty"`
}

// StreakResult reports the outcome of a streak touch
type StreakResult struct {
	Updated    bool           `json:"updated"`
	StreakDays int            `json:"streak_days"`
	Extended   bool           `json:"extended"`
	NewBadges  []models.Badge `json:"new_badges,omitempty"`
}

// Engine applies awards and streak transitions to progression records
type Engine struct {
	store  Store
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine creates a progression engine. loc is the calendar-day
// timezone for streaks; nil falls back to UTC.
func NewEngine(store Store, loc *time.Location, logger *zap.Logger) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:  store,
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
}

// Award adds the category's fixed point value to the user's total,
// recomputes level, unlocks any newly crossed badge milestones, and
// persists the record. Store failures are logged and reported as
// Awarded=false rather than returned as an error.
func (e *Engine) Award(ctx context.Context, userID uuid.UUID, category Category) AwardResult {
	pts, ok := Points(category)
	if !ok {
		e.logger.Warn("award for unknown category skipped",
			zap.String("user_id", userID.String()),
			zap.String("category", string(category)))
		return AwardResult{Category: category}
	}

	var res AwardResult
	err := e.store.WithRecord(ctx, userID, func(rec *models.ProgressionRecord) (*models.XPEvent, error) {
		now := e.now()
		before := snapshot{TotalXP: rec.TotalXP, Level: Level(rec.TotalXP), StreakDays: rec.StreakDays}

		rec.TotalXP += pts
		rec.Level = Level(rec.TotalXP)
		rec.UpdatedAt = now

		after := snapshot{TotalXP: rec.TotalXP, Level: rec.Level, StreakDays: rec.StreakDays}
		unlocked := newlyUnlocked(rec, before, after, now)
		rec.Badges = append(rec.Badges, unlocked...)

		res = AwardResult{
			Awarded:   true,
			Category:  category,
			Points:    pts,
			TotalXP:   rec.TotalXP,
			Level:     rec.Level,
			LeveledUp: after.Level > before.Level,
			NewBadges: unlocked,
		}

		return &models.XPEvent{
			ID:        uuid.New(),
			UserID:    userID,
			Category:  string(category),
			Points:    pts,
			CreatedAt: now,
		}, nil
	})

	if err != nil {
		e.logger.Error("xp award failed",
			zap.String("user_id", userID.String()),
			zap.String("category", string(category)),
			zap.Error(err))
		return AwardResult{Category: category, Points: pts}
	}

	return res
}

// TouchStreak records qualifying activity for the calendar day of now.
// Same day twice is a no-op, a one-day gap extends the streak, a longer
// gap (or first activity) resets it to 1. Streak badge milestones
// unlock once, on crossing.
func (e *Engine) TouchStreak(ctx context.Context, userID uuid.UUID, now time.Time) StreakResult {
	var res StreakResult
	err := e.store.WithRecord(ctx, userID, func(rec *models.ProgressionRecord) (*models.XPEvent, error) {
		today := civilDate(now, e.loc)
		before := snapshot{TotalXP: rec.TotalXP, Level: Level(rec.TotalXP), StreakDays: rec.StreakDays}

		if rec.LastActivityDate != nil {
			// Stored as a date-only value (UTC midnight); read it back as-is
			gap := daysBetween(civilDate(*rec.LastActivityDate, time.UTC), today)
			switch {
			case gap == 0:
				// Already counted today; idempotent
				res = StreakResult{Updated: true, StreakDays: rec.StreakDays}
				return nil, nil
			case gap == 1:
				rec.StreakDays++
				res.Extended = true
			default:
				rec.StreakDays = 1
			}
		} else {
			rec.StreakDays = 1
		}

		rec.LastActivityDate = &today
		rec.UpdatedAt = e.now()

		after := snapshot{TotalXP: rec.TotalXP, Level: Level(rec.TotalXP), StreakDays: rec.StreakDays}
		unlocked := newlyUnlocked(rec, before, after, e.now())
		rec.Badges = append(rec.Badges, unlocked...)

		res.Updated = true
		res.StreakDays = rec.StreakDays
		res.NewBadges = unlocked
		return nil, nil
	})

	if err != nil {
		e.logger.Error("streak update failed",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return StreakResult{}
	}

	return res
}

// civilDate truncates a moment to midnight of its calendar day in loc,
// expressed in UTC so day arithmetic is DST-proof
func civilDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns b - a in whole calendar days
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
