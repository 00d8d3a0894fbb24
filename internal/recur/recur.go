package recur

import (
	"errors"
	"fmt"
	"time"

	"triday/internal/clock"
	"triday/internal/model"
)

var ErrInvalidRecurrence = errors.New("invalid recurrence")

// Advancement is the result of rolling a recurring series forward by one
// occurrence.
type Advancement struct {
	NextDueAt     time.Time
	NextPeriodKey string
	Exhausted     bool
	// Settings carries the incremented occurrence counter. The caller must
	// call Advance at most once per logical completion event; gating on the
	// status transition is its job, not ours.
	Settings model.RecurrenceSettings
}

// Advance computes the next occurrence after from. A capped series whose
// counter has reached the cap is exhausted: no next due date, terminal
// forever. Arithmetic runs in the recurrence's timezone so DST transitions
// don't shift the wall-clock hour, and monthly/annual steps are calendar
// steps with day-of-month clamping, not fixed durations.
func Advance(rec model.RecurrenceSettings, from time.Time, weekStartDay int) (Advancement, error) {
	if !rec.Frequency.Valid() {
		return Advancement{}, fmt.Errorf("%w: frequency %q", ErrInvalidRecurrence, rec.Frequency)
	}
	if rec.Exhausted() {
		return Advancement{Exhausted: true, Settings: rec}, nil
	}

	// Interval 0 means "every period", never "off".
	interval := rec.Interval
	if interval < 1 {
		interval = 1
	}

	loc, _ := clock.Location(rec.Timezone)
	local := from.In(loc)

	var next time.Time
	switch rec.Frequency {
	case model.FreqDaily:
		next = addDaysClamped(local, interval)
	case model.FreqWeekly:
		next = addDaysClamped(local, 7*interval)
	case model.FreqMonthly:
		next = addMonthsClamped(local, interval)
	case model.FreqAnnually:
		next = addMonthsClamped(local, 12*interval)
	}

	out := rec
	out.Interval = interval
	out.CompletedOccurrences++

	// The completion that lands exactly on the cap is recorded but spawns
	// nothing: a series capped at N produces N occurrences, not N+1.
	if out.Exhausted() {
		out.NextDueAt = nil
		return Advancement{Exhausted: true, Settings: out}, nil
	}

	out.NextDueAt = &next
	period := clock.PeriodBounds(next, loc, weekStartDay, rec.Frequency)

	return Advancement{
		NextDueAt:     next,
		NextPeriodKey: period.Key,
		Settings:      out,
	}, nil
}

// addDaysClamped steps by calendar days, preserving the wall-clock time of
// day across DST boundaries.
func addDaysClamped(t time.Time, days int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+days,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// addMonthsClamped steps by calendar months keeping the day-of-month, but
// clamps to the last valid day when the target month is shorter
// (Jan 31 + 1 month = Feb 28/29, not Mar 2/3).
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	target := time.Date(y, m+time.Month(months), 1,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(target.Year(), target.Month(), t.Location()); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
