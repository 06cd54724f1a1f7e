package progression

import (
	"time"

	"github.com/KristianFossum/leadstar-go/internal/models"
)

// snapshot captures the progression values a milestone predicate can see
type snapshot struct {
	TotalXP    int
	Level      int
	StreakDays int
}

// milestone is a one-time-unlockable badge predicate. Name and icon are
// derived from the milestone, so the same milestone always yields the
// same badge.
type milestone struct {
	name      string
	icon      string
	satisfied func(s snapshot) bool
}

var milestones = []milestone{
	{"Momentum", "🚀", func(s snapshot) bool { return s.TotalXP >= 1000 }},
	{"Trailblazer", "🌟", func(s snapshot) bool { return s.TotalXP >= 5000 }},
	{"Luminary", "💎", func(s snapshot) bool { return s.TotalXP >= 10000 }},
	{"High Achiever", "🏔️", func(s snapshot) bool { return s.Level >= 5 }},
	{"Summit", "👑", func(s snapshot) bool { return s.Level >= 10 }},
	{"Warming Up", "✨", func(s snapshot) bool { return s.StreakDays >= 3 }},
	{"On Fire", "🔥", func(s snapshot) bool { return s.StreakDays >= 7 }},
	{"Unstoppable", "⚡", func(s snapshot) bool { return s.StreakDays >= 30 }},
}

// newlyUnlocked returns one badge per milestone predicate that
// transitions from false to true between before and after. Predicates
// already satisfied before never re-fire, and badges the record already
// holds are skipped so a milestone unlocks at most once.
func newlyUnlocked(rec *models.ProgressionRecord, before, after snapshot, now time.Time) []models.Badge {
	var unlocked []models.Badge
	for _, m := range milestones {
		if m.satisfied(before) || !m.satisfied(after) {
			continue
		}
		if rec.HasBadge(m.name) {
			continue
		}
		unlocked = append(unlocked, models.Badge{
			Name:     m.name,
			Icon:     m.icon,
			EarnedAt: now,
		})
	}
	return unlocked
}
