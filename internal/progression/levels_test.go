package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	t.Run("breakpoints", func(t *testing.T) {
		cases := []struct {
			xp    int
			level int
		}{
			{0, 1},
			{499, 1},
			{500, 2},
			{1199, 2},
			{1200, 3},
			{2499, 3},
			{2500, 4},
			{4999, 4},
			{5000, 5},
			{6999, 5},
			{7000, 6},
			{25000, 15},
		}
		for _, tc := range cases {
			assert.Equal(t, tc.level, Level(tc.xp), "xp=%d", tc.xp)
		}
	})

	t.Run("monotonic", func(t *testing.T) {
		prev := Level(0)
		for xp := 1; xp <= 30000; xp += 17 {
			cur := Level(xp)
			assert.GreaterOrEqual(t, cur, prev, "xp=%d", xp)
			prev = cur
		}
	})
}

func TestNextLevelAt(t *testing.T) {
	cases := []struct {
		xp   int
		next int
	}{
		{0, 500},
		{499, 500},
		{500, 1200},
		{1200, 2500},
		{2500, 5000},
		{4999, 5000},
		{5000, 7000},
		{6999, 7000},
		{7000, 9000},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.next, NextLevelAt(tc.xp), "xp=%d", tc.xp)
		// Crossing the boundary always raises the level
		assert.Greater(t, Level(tc.next), Level(tc.xp), "xp=%d", tc.xp)
	}
}

func TestPoints(t *testing.T) {
	t.Run("known categories", func(t *testing.T) {
		cases := map[Category]int{
			CategoryJournalSubmit: 50,
			CategoryTaskComplete:  25,
			CategoryGoalComplete:  150,
			CategoryQuizComplete:  75,
			CategoryGroupShare:    40,
		}
		for cat, want := range cases {
			pts, ok := Points(cat)
			assert.True(t, ok, string(cat))
			assert.Equal(t, want, pts, string(cat))
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		pts, ok := Points(Category("bribery"))
		assert.False(t, ok)
		assert.Zero(t, pts)
	})
}
