// Package recurrence expands recurrence rules into concrete due dates.
//
// Expansion is a pure function of the rule and the window, so identical
// inputs always yield the identical sequence. The inclusion tests use
// calendar-unit modulus arithmetic: a DAILY rule with interval 2 fires on
// even days of the month regardless of when the task was created, a MONTHLY
// rule tests the zero-based month index, a YEARLY rule the year itself. The
// pattern therefore resets at each calendar-unit boundary instead of
// counting elapsed units from some anchor date.
package recurrence

import (
	"iter"
	"time"

	"teamtasks/internal/model"
)

// Expand yields the due timestamps produced by rule within [start, end] in
// ascending order. Each included calendar day maps to a due timestamp at
// 00:00:00 of that day; days whose midnight falls before start are skipped
// so every yielded value satisfies start <= due <= end. The sequence is lazy
// and restartable; callers may stop early.
func Expand(rule model.RecurrenceRule, start, end time.Time) iter.Seq[time.Time] {
	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	return func(yield func(time.Time) bool) {
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			if !matches(rule, interval, day) {
				continue
			}
			due := midnight(day)
			if due.Before(start) || due.After(end) {
				continue
			}
			if !yield(due) {
				return
			}
		}
	}
}

func matches(rule model.RecurrenceRule, interval int, day time.Time) bool {
	switch rule.Frequency {
	case model.FrequencyDaily:
		return day.Day()%interval == 0
	case model.FrequencyWeekly:
		return rule.DaysOfWeek.Contains(int(day.Weekday())) &&
			(day.Day()/7)%interval == 0
	case model.FrequencyMonthly:
		// Zero-based month index: January contributes 0.
		return rule.DaysOfMonth.Contains(day.Day()) &&
			(int(day.Month())-1)%interval == 0
	case model.FrequencyYearly:
		return rule.MonthsOfYear.Contains(int(day.Month())) &&
			day.Year()%interval == 0
	default:
		return false
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
