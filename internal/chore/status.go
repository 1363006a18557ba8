package chore

import (
	"fmt"
	"time"

	"github.com/mossburrow/hearth/internal/model"
	"github.com/mossburrow/hearth/internal/schedule"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
)

// Current is a chore's current-period answer for one member.
type Current struct {
	Status Status `json:"status"`
	// CompletedAt is the completion that satisfied the current period, when
	// one exists. An interval chore inside its cycle with no completion yet
	// (never completed, due date still ahead) reports completed with no
	// timestamp.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	// DueDate is the next due date for interval chores.
	DueDate *time.Time `json:"due_date,omitempty"`
}

// Overdue reports a missed previous period.
type Overdue struct {
	Label     string `json:"label"`
	PeriodKey string `json:"period_key"`
}

// CurrentStatus answers "is this chore done for the current period" for one
// member. completions must be the member's own completions of this chore
// (any member's for shared once-off semantics is the caller's choice). The
// function is pure: now is always supplied, never read from a clock.
func CurrentStatus(c model.Chore, completions []model.Completion, now time.Time) Current {
	today := schedule.DateOf(now)
	start := schedule.DateOf(c.EffectiveStart())

	// A chore cannot be due before it exists.
	if start.After(today) {
		return Current{Status: StatusPending}
	}

	switch c.Frequency.Kind {
	case schedule.Once:
		if last := latestCompletion(completions); last != nil {
			return Current{Status: StatusCompleted, CompletedAt: &last.CompletedAt}
		}
		return Current{Status: StatusPending}

	case schedule.Daily:
		if comp := latestOn(completions, today); comp != nil {
			return Current{Status: StatusCompleted, CompletedAt: &comp.CompletedAt}
		}
		return Current{Status: StatusPending}

	case schedule.Weekly:
		// Any completion this calendar week satisfies the chore, even for
		// a specific-days restriction.
		weekStart := schedule.MondayOf(today)
		if comp := latestOnOrAfter(completions, weekStart); comp != nil {
			return Current{Status: StatusCompleted, CompletedAt: &comp.CompletedAt}
		}
		return Current{Status: StatusPending}

	case schedule.Interval:
		last := latestCompletion(completions)
		due := intervalDueDate(c, last)
		if !today.After(due) {
			cur := Current{Status: StatusCompleted, DueDate: &due}
			if last != nil {
				cur.CompletedAt = &last.CompletedAt
			}
			return cur
		}
		return Current{Status: StatusPending, DueDate: &due}
	}

	return Current{Status: StatusPending}
}

// PriorOverdue answers "was this chore missed in the previous period" for
// one member. acks must be the member's acknowledged period keys for this
// chore; an acknowledged period is never reported. Optional chores are
// never overdue. Returns nil when nothing was missed.
func PriorOverdue(c model.Chore, completions []model.Completion, acks AckSet, now time.Time) *Overdue {
	if c.Optional {
		return nil
	}

	today := schedule.DateOf(now)
	start := schedule.DateOf(c.EffectiveStart())
	if start.After(today) {
		return nil
	}

	switch c.Frequency.Kind {
	case schedule.Once:
		return nil

	case schedule.Daily:
		yesterday := today.AddDate(0, 0, -1)
		if start.After(yesterday) {
			return nil
		}
		if completedOn(completions, yesterday) {
			return nil
		}
		key := schedule.DayKey(yesterday)
		if acks.Contains(key) {
			return nil
		}
		return &Overdue{Label: "yesterday", PeriodKey: key}

	case schedule.Weekly:
		currentMonday := schedule.MondayOf(today)
		previousMonday := currentMonday.AddDate(0, 0, -7)

		if len(c.Frequency.Days) == 0 {
			if !start.Before(currentMonday) {
				return nil
			}
			if completedWithin(completions, previousMonday, currentMonday) {
				return nil
			}
			key := schedule.WeekKey(previousMonday)
			if acks.Contains(key) {
				return nil
			}
			return &Overdue{Label: "last week", PeriodKey: key}
		}

		// Specific days: the first required day of the previous week that
		// the chore existed for and that no completion covers wins. At
		// most one miss is reported per week.
		for i := 0; i < 7; i++ {
			day := previousMonday.AddDate(0, 0, i)
			if !c.Frequency.OnDay(day.Weekday()) || day.Before(start) {
				continue
			}
			if latestOnOrAfter(completions, day) != nil {
				return nil
			}
			key := schedule.WeekKey(day)
			if acks.Contains(key) {
				return nil
			}
			return &Overdue{
				Label:     "last " + day.Weekday().String(),
				PeriodKey: key,
			}
		}
		return nil

	case schedule.Interval:
		due := intervalDueDate(c, latestCompletion(completions))
		if !today.After(due) {
			return nil
		}
		// One extra cycle of grace; beyond it the miss is forgiven and the
		// chore goes back to plain pending.
		grace := due.AddDate(0, 0, c.Frequency.EveryDays)
		if today.After(grace) {
			return nil
		}
		key := schedule.DayKey(due)
		if acks.Contains(key) {
			return nil
		}
		late := int(today.Sub(due).Hours() / 24)
		label := "yesterday"
		if late != 1 {
			label = fmt.Sprintf("%d days ago", late)
		}
		return &Overdue{Label: label, PeriodKey: key}
	}

	return nil
}

func intervalDueDate(c model.Chore, last *model.Completion) time.Time {
	var lastAt *time.Time
	if last != nil {
		lastAt = &last.CompletedAt
	}
	return c.Frequency.DueDate(lastAt, c.EffectiveStart())
}

func latestCompletion(completions []model.Completion) *model.Completion {
	var latest *model.Completion
	for i := range completions {
		if latest == nil || completions[i].CompletedAt.After(latest.CompletedAt) {
			latest = &completions[i]
		}
	}
	return latest
}

// latestOnOrAfter returns the latest completion whose calendar date is on
// or after day.
func latestOnOrAfter(completions []model.Completion, day time.Time) *model.Completion {
	var latest *model.Completion
	for i := range completions {
		if schedule.DateOf(completions[i].CompletedAt).Before(day) {
			continue
		}
		if latest == nil || completions[i].CompletedAt.After(latest.CompletedAt) {
			latest = &completions[i]
		}
	}
	return latest
}

func completedOn(completions []model.Completion, day time.Time) bool {
	for _, c := range completions {
		if schedule.DateOf(c.CompletedAt).Equal(day) {
			return true
		}
	}
	return false
}

// latestOn returns the latest completion whose calendar date equals day.
func latestOn(completions []model.Completion, day time.Time) *model.Completion {
	var latest *model.Completion
	for i := range completions {
		if !schedule.DateOf(completions[i].CompletedAt).Equal(day) {
			continue
		}
		if latest == nil || completions[i].CompletedAt.After(latest.CompletedAt) {
			latest = &completions[i]
		}
	}
	return latest
}

// completedWithin reports a completion with calendar date in [from, to).
func completedWithin(completions []model.Completion, from, to time.Time) bool {
	for _, c := range completions {
		d := schedule.DateOf(c.CompletedAt)
		if !d.Before(from) && d.Before(to) {
			return true
		}
	}
	return false
}
