package recurrence

import (
	"testing"
	"time"

	"github.com/KristianFossum/leadstar-go/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}

func weeklyTemplate() models.Task {
	return models.Task{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Title:          "Weekly review",
		ScheduledAt:    date(2025, time.January, 1),
		RepeatKind:     models.RepeatWeekly,
		RepeatInterval: 1,
	}
}

func TestExpand(t *testing.T) {
	t.Run("weekly produces consecutive weeks", func(t *testing.T) {
		tmpl := weeklyTemplate()
		until := date(2025, time.January, 25)
		tmpl.RepeatUntil = &until

		instances := Expand(tmpl, DefaultMaxInstances)
		require.Len(t, instances, 3)
		assert.Equal(t, date(2025, time.January, 8), instances[0].ScheduledAt)
		assert.Equal(t, date(2025, time.January, 15), instances[1].ScheduledAt)
		assert.Equal(t, date(2025, time.January, 22), instances[2].ScheduledAt)
	})

	t.Run("instances are fresh uncompleted copies", func(t *testing.T) {
		tmpl := weeklyTemplate()
		tmpl.Completed = true
		done := time.Now()
		tmpl.CompletedAt = &done

		instances := Expand(tmpl, 5)
		require.Len(t, instances, 5)
		seen := map[uuid.UUID]bool{tmpl.ID: true}
		for _, inst := range instances {
			assert.False(t, seen[inst.ID], "instance IDs must be unique")
			seen[inst.ID] = true

			require.NotNil(t, inst.TemplateID)
			assert.Equal(t, tmpl.ID, *inst.TemplateID)
			assert.Equal(t, models.RepeatNone, inst.RepeatKind)
			assert.False(t, inst.Completed)
			assert.Nil(t, inst.CompletedAt)
			assert.Equal(t, tmpl.Title, inst.Title)
			assert.Equal(t, tmpl.UserID, inst.UserID)
		}
	})

	t.Run("non-repeating yields nothing", func(t *testing.T) {
		tmpl := weeklyTemplate()
		tmpl.RepeatKind = models.RepeatNone
		assert.Empty(t, Expand(tmpl, DefaultMaxInstances))

		tmpl.RepeatKind = models.RepeatKind("fortnightly")
		assert.Empty(t, Expand(tmpl, DefaultMaxInstances))
	})

	t.Run("end date equal to start yields nothing", func(t *testing.T) {
		tmpl := weeklyTemplate()
		until := tmpl.ScheduledAt
		tmpl.RepeatUntil = &until
		assert.Empty(t, Expand(tmpl, DefaultMaxInstances))
	})

	t.Run("end date is exclusive", func(t *testing.T) {
		tmpl := weeklyTemplate()
		// Exactly on the second occurrence
		until := date(2025, time.January, 15)
		tmpl.RepeatUntil = &until

		instances := Expand(tmpl, DefaultMaxInstances)
		require.Len(t, instances, 1)
		assert.Equal(t, date(2025, time.January, 8), instances[0].ScheduledAt)
	})

	t.Run("open-ended rule stops at the instance cap", func(t *testing.T) {
		tmpl := weeklyTemplate()
		instances := Expand(tmpl, DefaultMaxInstances)
		assert.Len(t, instances, DefaultMaxInstances)
	})

	t.Run("interval below one is treated as one", func(t *testing.T) {
		for _, interval := range []int{0, -3} {
			tmpl := weeklyTemplate()
			tmpl.RepeatInterval = interval

			instances := Expand(tmpl, 2)
			require.Len(t, instances, 2, "interval=%d", interval)
			assert.Equal(t, date(2025, time.January, 8), instances[0].ScheduledAt)
			assert.Equal(t, date(2025, time.January, 15), instances[1].ScheduledAt)
		}
	})

	t.Run("dates are strictly increasing", func(t *testing.T) {
		tmpl := weeklyTemplate()
		tmpl.RepeatKind = models.RepeatDaily
		tmpl.RepeatInterval = 3

		instances := Expand(tmpl, 10)
		require.Len(t, instances, 10)
		prev := tmpl.ScheduledAt
		for _, inst := range instances {
			assert.True(t, inst.ScheduledAt.After(prev))
			prev = inst.ScheduledAt
		}
	})

	t.Run("monthly overflow normalizes, not clamps", func(t *testing.T) {
		tmpl := weeklyTemplate()
		tmpl.ScheduledAt = date(2025, time.January, 31)
		tmpl.RepeatKind = models.RepeatMonthly
		tmpl.RepeatInterval = 1

		instances := Expand(tmpl, 2)
		require.Len(t, instances, 2)
		// Jan 31 + 1 month overflows February into March 3 (2025 is not a leap year)
		assert.Equal(t, date(2025, time.March, 3), instances[0].ScheduledAt)
		assert.Equal(t, date(2025, time.April, 3), instances[1].ScheduledAt)
	})

	t.Run("custom kind counts days", func(t *testing.T) {
		tmpl := weeklyTemplate()
		tmpl.RepeatKind = models.RepeatCustom
		tmpl.RepeatInterval = 10

		instances := Expand(tmpl, 3)
		require.Len(t, instances, 3)
		assert.Equal(t, date(2025, time.January, 11), instances[0].ScheduledAt)
		assert.Equal(t, date(2025, time.January, 21), instances[1].ScheduledAt)
		assert.Equal(t, date(2025, time.January, 31), instances[2].ScheduledAt)
	})

	t.Run("non-positive cap falls back to the default", func(t *testing.T) {
		tmpl := weeklyTemplate()
		assert.Len(t, Expand(tmpl, 0), DefaultMaxInstances)
	})
}

func TestNeedsRegeneration(t *testing.T) {
	now := date(2025, time.June, 1)

	t.Run("inside the window", func(t *testing.T) {
		assert.True(t, NeedsRegeneration(now.AddDate(0, 0, 5), now, DefaultRegenWindowDays))
	})

	t.Run("exactly at the horizon", func(t *testing.T) {
		assert.True(t, NeedsRegeneration(now.AddDate(0, 0, DefaultRegenWindowDays), now, DefaultRegenWindowDays))
	})

	t.Run("beyond the window", func(t *testing.T) {
		assert.False(t, NeedsRegeneration(now.AddDate(0, 0, 15), now, DefaultRegenWindowDays))
	})

	t.Run("already past is overdue", func(t *testing.T) {
		assert.True(t, NeedsRegeneration(now.AddDate(0, 0, -2), now, DefaultRegenWindowDays))
	})

	t.Run("non-positive window uses the default", func(t *testing.T) {
		assert.True(t, NeedsRegeneration(now.AddDate(0, 0, 10), now, 0))
		assert.False(t, NeedsRegeneration(now.AddDate(0, 0, 20), now, -1))
	})
}

func TestDescribe(t *testing.T) {
	until := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		kind     models.RepeatKind
		interval int
		until    *time.Time
		want     string
	}{
		{"none", models.RepeatNone, 1, nil, "Does not repeat"},
		{"unknown kind", models.RepeatKind("yearly"), 1, nil, "Does not repeat"},
		{"daily singular", models.RepeatDaily, 1, nil, "Every day"},
		{"daily plural", models.RepeatDaily, 3, nil, "Every 3 days"},
		{"weekly singular", models.RepeatWeekly, 1, nil, "Every week"},
		{"weekly plural with end", models.RepeatWeekly, 2, &until, "Every 2 weeks until Dec 31, 2025"},
		{"monthly singular", models.RepeatMonthly, 1, nil, "Every month"},
		{"custom counts days", models.RepeatCustom, 10, nil, "Every 10 days"},
		{"zero interval reads as singular", models.RepeatDaily, 0, nil, "Every day"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Describe(tc.kind, tc.interval, tc.until))
		})
	}
}
