package model

import "time"

// Frequency is the recurrence period unit.
type Frequency string

const (
	FreqDaily    Frequency = "daily"
	FreqWeekly   Frequency = "weekly"
	FreqMonthly  Frequency = "monthly"
	FreqAnnually Frequency = "annually"
)

func (f Frequency) Valid() bool {
	switch f {
	case FreqDaily, FreqWeekly, FreqMonthly, FreqAnnually:
		return true
	default:
		return false
	}
}

type RecurrenceSettings struct {
	Frequency Frequency `json:"frequency"`
	// Interval repeats every N periods. Values below 1 are floored to 1.
	Interval int `json:"interval"`
	// TotalOccurrences caps the series; nil means unbounded.
	TotalOccurrences     *int `json:"totalOccurrences,omitempty"`
	CompletedOccurrences int  `json:"completedOccurrences"`
	// Timezone is an IANA identifier; invalid values fall back to UTC.
	Timezone  string     `json:"timezone,omitempty"`
	StartAt   time.Time  `json:"startAt"`
	NextDueAt *time.Time `json:"nextDueAt,omitempty"`
}

// Exhausted reports whether the capped series has produced its last
// occurrence. Unbounded series never exhaust.
func (r *RecurrenceSettings) Exhausted() bool {
	return r.TotalOccurrences != nil && r.CompletedOccurrences >= *r.TotalOccurrences
}
