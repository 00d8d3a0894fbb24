package clock

import (
	"time"

	"triday/internal/model"
)

// periodKeyLayout anchors a period to the calendar date of its start, so
// recurring titles and quota buckets de-duplicate across renders.
const periodKeyLayout = "2006-01-02"

// Period is one recurrence/quota cycle: [Start, End) plus its stable key.
type Period struct {
	Start time.Time
	End   time.Time
	Key   string
}

// Location resolves an IANA timezone name. The second return is false when
// the name was invalid and UTC was substituted; callers log, we don't.
func Location(tz string) (*time.Location, bool) {
	if tz == "" {
		return time.UTC, true
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC, false
	}
	return loc, true
}

// PeriodBounds computes the period containing at, for the given frequency,
// in the given location. Weekly periods start on weekStartDay (0=Sunday …
// 6=Saturday); monthly on the 1st; annual on Jan 1; daily at local
// midnight. Pure: same inputs, same period.
func PeriodBounds(at time.Time, loc *time.Location, weekStartDay int, freq model.Frequency) Period {
	local := at.In(loc)
	var start, end time.Time

	switch freq {
	case model.FreqWeekly:
		back := (int(local.Weekday()) - normalizeWeekStart(weekStartDay) + 7) % 7
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		start = day.AddDate(0, 0, -back)
		end = start.AddDate(0, 0, 7)
	case model.FreqMonthly:
		start = time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0)
	case model.FreqAnnually:
		start = time.Date(local.Year(), time.January, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(1, 0, 0)
	default: // daily
		start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, 1)
	}

	return Period{Start: start, End: end, Key: start.Format(periodKeyLayout)}
}

// Contains reports whether at falls inside [Start, End).
func (p Period) Contains(at time.Time) bool {
	return !at.Before(p.Start) && at.Before(p.End)
}

func normalizeWeekStart(d int) int {
	if d < 0 || d > 6 {
		return 0
	}
	return d
}
