// Package recurrence expands repeating task templates into concrete,
// dated instances. All functions are pure; persistence of the produced
// instances is the caller's job.
package recurrence

import (
	"time"

	"github.com/KristianFossum/leadstar-go/internal/models"
	"github.com/google/uuid"
)

const (
	// DefaultMaxInstances bounds a single expansion so an open-ended
	// rule always terminates.
	DefaultMaxInstances = 30

	// DefaultRegenWindowDays is the look-ahead window used to decide
	// whether a repeating task is running out of future instances.
	DefaultRegenWindowDays = 14
)

// Expand produces up to maxInstances future occurrences of a repeating
// template. Each instance copies the template's fields, gets a fresh ID,
// references the template, and starts uncompleted regardless of the
// template's own completed flag.
//
// A template with kind "none" (or any unrecognized kind) yields no
// instances. An interval below 1 is treated as 1 so a step is never
// zero-length or backward. Expansion stops when the next date is no
// longer strictly before the end date.
//
// Monthly steps use calendar-month arithmetic via time.Time.AddDate,
// which normalizes overflow: Jan 31 plus one month lands in early March,
// not on Feb 28. See the package tests for the pinned behavior.
func Expand(tmpl models.Task, maxInstances int) []models.Task {
	if maxInstances <= 0 {
		maxInstances = DefaultMaxInstances
	}

	interval := tmpl.RepeatInterval
	if interval < 1 {
		interval = 1
	}

	instances := []models.Task{}

	switch tmpl.RepeatKind {
	case models.RepeatDaily, models.RepeatWeekly, models.RepeatMonthly, models.RepeatCustom:
	default:
		// Non-repeating or malformed kind: no instances, no error
		return instances
	}

	templateID := tmpl.ID
	date := tmpl.ScheduledAt

	for len(instances) < maxInstances {
		date = step(date, tmpl.RepeatKind, interval)

		if tmpl.RepeatUntil != nil && !date.Before(*tmpl.RepeatUntil) {
			break
		}

		inst := tmpl
		inst.ID = uuid.New()
		inst.TemplateID = &templateID
		inst.ScheduledAt = date
		inst.RepeatKind = models.RepeatNone
		inst.RepeatInterval = 0
		inst.RepeatUntil = nil
		inst.Completed = false
		inst.CompletedAt = nil

		instances = append(instances, inst)
	}

	return instances
}

// step advances a date by one recurrence step
func step(t time.Time, kind models.RepeatKind, interval int) time.Time {
	switch kind {
	case models.RepeatWeekly:
		return t.AddDate(0, 0, 7*interval)
	case models.RepeatMonthly:
		return t.AddDate(0, interval, 0)
	default:
		// daily and custom both count days
		return t.AddDate(0, 0, interval)
	}
}

// NeedsRegeneration reports whether the furthest-future existing instance
// of a repeating task falls within the look-ahead window of now, meaning
// the caller should generate another batch. windowDays <= 0 uses the
// default. This is a synchronous check for callers, not a scheduler.
func NeedsRegeneration(lastScheduled, now time.Time, windowDays int) bool {
	if windowDays <= 0 {
		windowDays = DefaultRegenWindowDays
	}
	horizon := now.AddDate(0, 0, windowDays)
	return !lastScheduled.After(horizon)
}
