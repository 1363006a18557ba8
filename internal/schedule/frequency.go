package schedule

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Kind int

const (
	Once Kind = iota
	Daily
	Weekly
	Interval
)

var kindNames = map[Kind]string{
	Daily:    "DAILY",
	Weekly:   "WEEKLY",
	Interval: "INTERVAL",
}

var dayNames = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

var dayAbbrev = map[time.Weekday]string{
	time.Sunday:    "SU",
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
}

// Frequency describes how often a chore recurs. The zero value is Once
// (a one-off chore with no schedule).
type Frequency struct {
	Kind Kind
	// Days restricts a Weekly chore to specific weekdays. Empty means any
	// day of the week satisfies the chore.
	Days []time.Weekday
	// EveryDays is the cycle length in days for Interval chores. Always
	// positive after Parse.
	EveryDays int
}

// Parse parses a frequency string like "FREQ=WEEKLY;BYDAY=MO,TH" or
// "FREQ=INTERVAL;DAYS=3". The empty string is a one-off chore.
func Parse(s string) (Frequency, error) {
	if s == "" {
		return Frequency{Kind: Once}, nil
	}

	var f Frequency
	var hasFreq bool
	var days []time.Weekday
	everyDays := 0

	for _, part := range strings.Split(s, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return Frequency{}, fmt.Errorf("invalid frequency part: %q", part)
		}
		key, val := kv[0], kv[1]

		switch key {
		case "FREQ":
			switch val {
			case "DAILY":
				f.Kind = Daily
			case "WEEKLY":
				f.Kind = Weekly
			case "INTERVAL":
				f.Kind = Interval
			default:
				return Frequency{}, fmt.Errorf("unknown frequency: %q", val)
			}
			hasFreq = true

		case "BYDAY":
			seen := map[time.Weekday]bool{}
			for _, d := range strings.Split(val, ",") {
				wd, ok := dayNames[strings.TrimSpace(d)]
				if !ok {
					return Frequency{}, fmt.Errorf("unknown day: %q", d)
				}
				if !seen[wd] {
					seen[wd] = true
					days = append(days, wd)
				}
			}

		case "DAYS":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return Frequency{}, fmt.Errorf("invalid interval days: %q", val)
			}
			everyDays = n

		default:
			return Frequency{}, fmt.Errorf("unknown frequency key: %q", key)
		}
	}

	if !hasFreq {
		return Frequency{}, fmt.Errorf("missing FREQ in %q", s)
	}
	if len(days) > 0 && f.Kind != Weekly {
		return Frequency{}, fmt.Errorf("BYDAY only valid with FREQ=WEEKLY")
	}
	if f.Kind == Interval {
		if everyDays == 0 {
			return Frequency{}, fmt.Errorf("FREQ=INTERVAL requires DAYS")
		}
		f.EveryDays = everyDays
	} else if everyDays != 0 {
		return Frequency{}, fmt.Errorf("DAYS only valid with FREQ=INTERVAL")
	}
	f.Days = days
	return f, nil
}

// String renders the frequency in the same form Parse accepts. Once renders
// as the empty string.
func (f Frequency) String() string {
	if f.Kind == Once {
		return ""
	}
	s := "FREQ=" + kindNames[f.Kind]
	if f.Kind == Weekly && len(f.Days) > 0 {
		abbrevs := make([]string, len(f.Days))
		for i, d := range f.Days {
			abbrevs[i] = dayAbbrev[d]
		}
		s += ";BYDAY=" + strings.Join(abbrevs, ",")
	}
	if f.Kind == Interval {
		s += ";DAYS=" + strconv.Itoa(f.EveryDays)
	}
	return s
}

func (f Frequency) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *Frequency) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// OnDay reports whether a Weekly frequency's day restriction includes wd.
// A weekly frequency with no restriction matches every day.
func (f Frequency) OnDay(wd time.Weekday) bool {
	if len(f.Days) == 0 {
		return true
	}
	for _, d := range f.Days {
		if d == wd {
			return true
		}
	}
	return false
}

// PeriodKey returns the stable acknowledgment key for the period containing
// date: the calendar date for Daily and Interval chores, the ISO week for
// Weekly chores. Once chores have no periods and return "".
func (f Frequency) PeriodKey(date time.Time) string {
	switch f.Kind {
	case Daily, Interval:
		return DayKey(date)
	case Weekly:
		return WeekKey(date)
	default:
		return ""
	}
}
