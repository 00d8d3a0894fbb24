package timetrack

import (
	"errors"
	"time"

	"triday/internal/clock"
	"triday/internal/model"
)

var (
	ErrAlreadyRunning = errors.New("timer already running")
	ErrNotRunning     = errors.New("timer not running")
	ErrNotTimeItem    = errors.New("item has no time budget")
)

// Tracker owns timer start/stop and per-period minute accumulation for
// spendMyTime items. All methods mutate the passed item in place and leave
// it untouched on error.
type Tracker struct {
	Loc          *time.Location
	WeekStartDay int
	// AllowConcurrent permits timers on several items at once. A single
	// item still never has more than one running timer.
	AllowConcurrent bool
}

// StopResult reports what a Stop call credited.
type StopResult struct {
	ElapsedMinutes  int
	CreditedMinutes int
	// Truncated is set when the session crossed a period boundary and the
	// post-boundary remainder was discarded.
	Truncated bool
}

func (tr *Tracker) period(at time.Time) clock.Period {
	return clock.PeriodBounds(at, tr.Loc, tr.WeekStartDay, model.FreqWeekly)
}

// RolloverIfNeeded resets the quota bucket when now has left the item's
// [PeriodStart, PeriodEnd) window. Runs before every read and every
// start/stop, and is idempotent: a second call with the same now is a
// no-op. A running timer survives the rollover untouched.
func (tr *Tracker) RolloverIfNeeded(it *model.Item, now time.Time) bool {
	if it.Time == nil {
		return false
	}
	tb := it.Time
	current := clock.Period{Start: tb.PeriodStart, End: tb.PeriodEnd}
	if !tb.PeriodStart.IsZero() && current.Contains(now) {
		return false
	}
	next := tr.period(now)
	tb.PeriodStart = next.Start
	tb.PeriodEnd = next.End
	tb.CompletedMinutes = 0
	it.PeriodKey = next.Key
	if it.Status == model.StatusDone {
		it.Status = model.StatusActive
	}
	return true
}

// Start begins a timer on the item. otherRunning is how many other items
// currently have a running timer; when concurrent timers are disabled any
// other running timer rejects the start.
func (tr *Tracker) Start(it *model.Item, now time.Time, otherRunning int) error {
	if it.Time == nil {
		return ErrNotTimeItem
	}
	if it.Time.TimerStartedAt != nil {
		return ErrAlreadyRunning
	}
	if !tr.AllowConcurrent && otherRunning > 0 {
		return ErrAlreadyRunning
	}
	tr.RolloverIfNeeded(it, now)
	start := now
	it.Time.TimerStartedAt = &start
	return nil
}

// Stop ends the running timer and credits elapsed whole minutes to the
// period the session started in. A session that crossed the period
// boundary is split there: only the portion inside the starting period
// counts, the post-boundary remainder is discarded, and the rollover
// resets the bucket so the new period begins at zero. Negative elapsed
// (clock moved backward) clamps to zero.
func (tr *Tracker) Stop(it *model.Item, now time.Time) (StopResult, error) {
	if it.Time == nil {
		return StopResult{}, ErrNotTimeItem
	}
	tb := it.Time
	if tb.TimerStartedAt == nil {
		return StopResult{}, ErrNotRunning
	}
	started := *tb.TimerStartedAt

	// Split against the period the session started in, not the stored
	// bucket: a read may have rolled the bucket while the timer ran.
	session := tr.period(started)

	elapsed := wholeMinutes(started, now)
	credited := elapsed
	truncated := false
	if now.After(session.End) {
		credited = wholeMinutes(started, session.End)
		truncated = true
	}

	// Credit lands in the session's own bucket. When the bucket already
	// rolled past it that tally is closed and nothing is added; the new
	// period never inherits pre-boundary minutes.
	if tb.PeriodStart.IsZero() || tb.PeriodStart.Equal(session.Start) {
		tb.CompletedMinutes += credited
	}
	tb.TimerStartedAt = nil

	// Crossing sessions leave the new period at zero.
	tr.RolloverIfNeeded(it, now)

	return StopResult{
		ElapsedMinutes:  elapsed,
		CreditedMinutes: credited,
		Truncated:       truncated,
	}, nil
}

func wholeMinutes(from, to time.Time) int {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}
