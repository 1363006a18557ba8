package schedule

import (
	"fmt"
	"time"
)

// DateOf truncates t to its UTC calendar date. All period math works on
// these midnight-UTC values.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MondayOf returns the Monday on or before date (weeks start Monday).
func MondayOf(date time.Time) time.Time {
	date = DateOf(date)
	offset := (int(date.Weekday()) + 6) % 7
	return date.AddDate(0, 0, -offset)
}

// DayKey formats a calendar-date period key, e.g. "2024-02-13".
func DayKey(date time.Time) string {
	return DateOf(date).Format("2006-01-02")
}

// WeekKey formats an ISO-8601 week period key, e.g. "2024-W07". ISO weeks
// start Monday; week 1 is the first week containing at least four days of
// the new year.
func WeekKey(date time.Time) string {
	year, week := DateOf(date).ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// DueDate computes an Interval chore's next due date: one cycle after the
// last completion, or one cycle after the effective start if the chore has
// never been completed. Inputs are truncated to UTC dates.
func (f Frequency) DueDate(lastCompletion *time.Time, effectiveStart time.Time) time.Time {
	anchor := DateOf(effectiveStart)
	if lastCompletion != nil {
		anchor = DateOf(*lastCompletion)
	}
	return anchor.AddDate(0, 0, f.EveryDays)
}
