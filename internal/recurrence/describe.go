package recurrence

import (
	"fmt"
	"time"

	"github.com/KristianFossum/leadstar-go/internal/models"
)

// Describe renders a recurrence rule as display text, e.g.
// "Every 2 weeks until Dec 31, 2025". Interval 1 uses the singular
// form ("Every week"); anything below 1 is treated as 1.
func Describe(kind models.RepeatKind, interval int, until *time.Time) string {
	if interval < 1 {
		interval = 1
	}

	var unit string
	switch kind {
	case models.RepeatDaily, models.RepeatCustom:
		unit = "day"
	case models.RepeatWeekly:
		unit = "week"
	case models.RepeatMonthly:
		unit = "month"
	default:
		return "Does not repeat"
	}

	var label string
	if interval == 1 {
		label = fmt.Sprintf("Every %s", unit)
	} else {
		label = fmt.Sprintf("Every %d %ss", interval, unit)
	}

	if until != nil {
		label += " until " + until.Format("Jan 2, 2006")
	}

	return label
}
