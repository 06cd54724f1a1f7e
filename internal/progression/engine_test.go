package progression

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KristianFossum/leadstar-go/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore holds a single in-memory progression record
type memStore struct {
	rec    models.ProgressionRecord
	events []models.XPEvent
	fail   bool
}

func (s *memStore) WithRecord(ctx context.Context, userID uuid.UUID, fn func(rec *models.ProgressionRecord) (*models.XPEvent, error)) error {
	if s.fail {
		return errors.New("store unavailable")
	}
	s.rec.UserID = userID
	ev, err := fn(&s.rec)
	if err != nil {
		return err
	}
	if ev != nil {
		s.events = append(s.events, *ev)
	}
	return nil
}

func newTestEngine(store *memStore) *Engine {
	return NewEngine(store, time.UTC, nil)
}

func TestAward(t *testing.T) {
	userID := uuid.New()

	t.Run("accumulates points and records events", func(t *testing.T) {
		store := &memStore{}
		engine := newTestEngine(store)

		res := engine.Award(context.Background(), userID, CategoryJournalSubmit)
		require.True(t, res.Awarded)
		assert.Equal(t, 50, res.Points)
		assert.Equal(t, 50, res.TotalXP)
		assert.Equal(t, 1, res.Level)
		assert.False(t, res.LeveledUp)
		assert.Empty(t, res.NewBadges)

		res = engine.Award(context.Background(), userID, CategoryJournalSubmit)
		require.True(t, res.Awarded)
		assert.Equal(t, 100, res.TotalXP)
		assert.Equal(t, 1, res.Level)

		require.Len(t, store.events, 2)
		assert.Equal(t, "journal_submit", store.events[0].Category)
		assert.Equal(t, 50, store.events[0].Points)
	})

	t.Run("level up is reported", func(t *testing.T) {
		store := &memStore{rec: models.ProgressionRecord{TotalXP: 480, Level: 1}}
		engine := newTestEngine(store)

		res := engine.Award(context.Background(), userID, CategoryJournalSubmit)
		require.True(t, res.Awarded)
		assert.Equal(t, 530, res.TotalXP)
		assert.Equal(t, 2, res.Level)
		assert.True(t, res.LeveledUp)
	})

	t.Run("xp badge unlocks once on crossing", func(t *testing.T) {
		store := &memStore{rec: models.ProgressionRecord{TotalXP: 990, Level: 2}}
		engine := newTestEngine(store)

		res := engine.Award(context.Background(), userID, CategoryTaskComplete)
		require.True(t, res.Awarded)
		require.Len(t, res.NewBadges, 1)
		assert.Equal(t, "Momentum", res.NewBadges[0].Name)
		assert.Equal(t, "🚀", res.NewBadges[0].Icon)

		// Further awards past the threshold never re-fire the milestone
		res = engine.Award(context.Background(), userID, CategoryTaskComplete)
		require.True(t, res.Awarded)
		assert.Empty(t, res.NewBadges)
	})

	t.Run("crossing 5000 unlocks xp and level badges together", func(t *testing.T) {
		store := &memStore{rec: models.ProgressionRecord{TotalXP: 4980, Level: 4}}
		engine := newTestEngine(store)

		// Level 5 begins exactly at 5000 XP, the same threshold as the
		// Trailblazer milestone, so both badges always land in one award
		res := engine.Award(context.Background(), userID, CategoryGroupShare)
		require.True(t, res.Awarded)
		assert.Equal(t, 5020, res.TotalXP)
		assert.Equal(t, 5, res.Level)
		assert.True(t, res.LeveledUp)
		require.Len(t, res.NewBadges, 2)
		assert.Equal(t, "Trailblazer", res.NewBadges[0].Name)
		assert.Equal(t, "High Achiever", res.NewBadges[1].Name)
	})

	t.Run("unknown category awards nothing", func(t *testing.T) {
		store := &memStore{}
		engine := newTestEngine(store)

		res := engine.Award(context.Background(), userID, Category("mystery"))
		assert.False(t, res.Awarded)
		assert.Zero(t, res.Points)
		assert.Empty(t, store.events)
	})

	t.Run("store failure reports Awarded=false", func(t *testing.T) {
		store := &memStore{fail: true}
		engine := newTestEngine(store)

		res := engine.Award(context.Background(), userID, CategoryGoalComplete)
		assert.False(t, res.Awarded)
		assert.Zero(t, res.TotalXP)
	})
}

func TestTouchStreak(t *testing.T) {
	userID := uuid.New()
	day1 := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

	t.Run("first activity starts at one", func(t *testing.T) {
		store := &memStore{}
		engine := newTestEngine(store)

		res := engine.TouchStreak(context.Background(), userID, day1)
		require.True(t, res.Updated)
		assert.Equal(t, 1, res.StreakDays)
		assert.False(t, res.Extended)
		require.NotNil(t, store.rec.LastActivityDate)
	})

	t.Run("same day is idempotent", func(t *testing.T) {
		store := &memStore{}
		engine := newTestEngine(store)

		engine.TouchStreak(context.Background(), userID, day1)
		res := engine.TouchStreak(context.Background(), userID, day1.Add(5*time.Hour))
		require.True(t, res.Updated)
		assert.Equal(t, 1, res.StreakDays)
		assert.False(t, res.Extended)
	})

	t.Run("next day extends", func(t *testing.T) {
		store := &memStore{}
		engine := newTestEngine(store)

		engine.TouchStreak(context.Background(), userID, day1)
		res := engine.TouchStreak(context.Background(), userID, day1.AddDate(0, 0, 1))
		require.True(t, res.Updated)
		assert.Equal(t, 2, res.StreakDays)
		assert.True(t, res.Extended)
	})

	t.Run("gap resets to one", func(t *testing.T) {
		store := &memStore{}
		engine := newTestEngine(store)

		engine.TouchStreak(context.Background(), userID, day1)
		engine.TouchStreak(context.Background(), userID, day1.AddDate(0, 0, 1))
		res := engine.TouchStreak(context.Background(), userID, day1.AddDate(0, 0, 5))
		require.True(t, res.Updated)
		assert.Equal(t, 1, res.StreakDays)
		assert.False(t, res.Extended)
	})

	t.Run("streak badge unlocks once", func(t *testing.T) {
		store := &memStore{}
		engine := newTestEngine(store)

		engine.TouchStreak(context.Background(), userID, day1)
		engine.TouchStreak(context.Background(), userID, day1.AddDate(0, 0, 1))
		res := engine.TouchStreak(context.Background(), userID, day1.AddDate(0, 0, 2))
		assert.Equal(t, 3, res.StreakDays)
		require.Len(t, res.NewBadges, 1)
		assert.Equal(t, "Warming Up", res.NewBadges[0].Name)

		// Same milestone never fires again, even after a reset and re-climb
		engine.TouchStreak(context.Background(), userID, day1.AddDate(0, 0, 10))
		engine.TouchStreak(context.Background(), userID, day1.AddDate(0, 0, 11))
		res = engine.TouchStreak(context.Background(), userID, day1.AddDate(0, 0, 12))
		assert.Equal(t, 3, res.StreakDays)
		assert.Empty(t, res.NewBadges)
	})

	t.Run("calendar day follows the configured timezone", func(t *testing.T) {
		oslo, err := time.LoadLocation("Europe/Oslo")
		require.NoError(t, err)

		store := &memStore{}
		engine := NewEngine(store, oslo, nil)

		// 23:30 UTC on March 10 is already March 11 in Oslo
		late := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
		engine.TouchStreak(context.Background(), userID, late)

		// 22:00 UTC on March 11 is March 11 in Oslo too: same civil day
		res := engine.TouchStreak(context.Background(), userID, time.Date(2025, 3, 11, 22, 0, 0, 0, time.UTC))
		assert.Equal(t, 1, res.StreakDays)

		// 22:00 UTC on March 12 is March 12 in Oslo: consecutive day
		res = engine.TouchStreak(context.Background(), userID, time.Date(2025, 3, 12, 22, 0, 0, 0, time.UTC))
		assert.Equal(t, 2, res.StreakDays)
	})

	t.Run("stale stored level never unlocks a level badge", func(t *testing.T) {
		// Level is always recomputed from TotalXP; a stored Level column
		// out of sync with the XP total must not be trusted
		store := &memStore{rec: models.ProgressionRecord{TotalXP: 4999, Level: 5}}
		engine := newTestEngine(store)

		res := engine.TouchStreak(context.Background(), userID, day1)
		require.True(t, res.Updated)
		assert.Empty(t, res.NewBadges)
	})

	t.Run("store failure reports nothing updated", func(t *testing.T) {
		store := &memStore{fail: true}
		engine := newTestEngine(store)

		res := engine.TouchStreak(context.Background(), userID, day1)
		assert.False(t, res.Updated)
		assert.Zero(t, res.StreakDays)
	})
}
