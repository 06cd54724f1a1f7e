// Package progression converts raw experience-point awards into level,
// streak, and badge state. The level and badge functions are pure; the
// Engine wraps them around a Store for the per-user record.
package progression

// Category identifies an XP-awarding event type
type Category string

const (
	CategoryJournalSubmit Category = "journal_submit"
	CategoryTaskComplete  Category = "task_complete"
	CategoryGoalComplete  Category = "goal_complete"
	CategoryQuizComplete  Category = "quiz_complete"
	CategoryGroupShare    Category = "group_share"
)

// pointValues is the fixed points-per-category table
var pointValues = map[Category]int{
	CategoryJournalSubmit: 50,
	CategoryTaskComplete:  25,
	CategoryGoalComplete:  150,
	CategoryQuizComplete:  75,
	CategoryGroupShare:    40,
}

// Points returns the fixed point value for a category. Unknown
// categories return false rather than awarding anything.
func Points(c Category) (int, bool) {
	pts, ok := pointValues[c]
	return pts, ok
}

// Level maps a non-negative XP total to a level. Fixed breakpoints up
// to level 4, then a constant 2000-point band per further level. The
// function is monotonic and Level(0) == 1.
func Level(totalXP int) int {
	switch {
	case totalXP < 500:
		return 1
	case totalXP < 1200:
		return 2
	case totalXP < 2500:
		return 3
	case totalXP < 5000:
		return 4
	}
	return 5 + (totalXP-5000)/2000
}

// NextLevelAt returns the XP total at which the next level is reached
func NextLevelAt(totalXP int) int {
	switch {
	case totalXP < 500:
		return 500
	case totalXP < 1200:
		return 1200
	case totalXP < 2500:
		return 2500
	case totalXP < 5000:
		return 5000
	}
	// Next 2000-point band boundary past the current total
	return 5000 + ((totalXP-5000)/2000+1)*2000
}
