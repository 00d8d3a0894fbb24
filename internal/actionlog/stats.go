package actionlog

import (
	"time"

	"triday/internal/model"
)

// Thresholds tune the cleanup projection. Zero values are replaced by the
// defaults below.
type Thresholds struct {
	StaleAfterDays          int     `yaml:"stale_after_days" json:"stale_after_days"`
	LowProgressPercent      float64 `yaml:"low_progress_percent" json:"low_progress_percent"`
	LowProgressAfterPeriods int     `yaml:"low_progress_after_periods" json:"low_progress_after_periods"`
	LongDoneAfterDays       int     `yaml:"long_done_after_days" json:"long_done_after_days"`
	InactiveAfterDays       int     `yaml:"inactive_after_days" json:"inactive_after_days"`
}

func (t Thresholds) withDefaults() Thresholds {
	if t.StaleAfterDays <= 0 {
		t.StaleAfterDays = 30
	}
	if t.LowProgressPercent <= 0 {
		t.LowProgressPercent = 25
	}
	if t.LowProgressAfterPeriods <= 0 {
		t.LowProgressAfterPeriods = 3
	}
	if t.LongDoneAfterDays <= 0 {
		t.LongDoneAfterDays = 14
	}
	if t.InactiveAfterDays <= 0 {
		t.InactiveAfterDays = 45
	}
	return t
}

// Candidate is one item flagged by the cleanup projection, with just
// enough evidence for the external suggestion service to phrase a reason.
type Candidate struct {
	ID    model.ItemID `json:"id"`
	Tab   model.Tab    `json:"tab"`
	Title string       `json:"title"`

	AgeDays         int     `json:"age_days,omitempty"`
	ProgressPercent float64 `json:"progress_percent,omitempty"`
	DoneForDays     int     `json:"done_for_days,omitempty"`
	IdleDays        int     `json:"idle_days,omitempty"`
}

// CleanupStats is the read-only projection consumed by the AI cleanup
// endpoint. Applying a suggestion re-enters through the lifecycle
// manager's archive/softDelete operations; nothing here mutates state.
type CleanupStats struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Stale       []Candidate `json:"stale"`
	LowProgress []Candidate `json:"low_progress"`
	LongDone    []Candidate `json:"long_done"`
	Inactive    []Candidate `json:"inactive"`
}

// BuildCleanupStats derives cleanup candidates from a snapshot and its
// action log. Archived and deleted items are already out of the way and
// are skipped.
func BuildCleanupStats(state model.AppState, now time.Time, th Thresholds) CleanupStats {
	th = th.withDefaults()

	lastTouch := map[model.ItemID]time.Time{}
	for _, e := range state.Log {
		if e.At.After(lastTouch[e.ItemID]) {
			lastTouch[e.ItemID] = e.At
		}
	}

	stats := CleanupStats{
		GeneratedAt: now,
		Stale:       []Candidate{},
		LowProgress: []Candidate{},
		LongDone:    []Candidate{},
		Inactive:    []Candidate{},
	}

	for _, it := range state.Items {
		if !it.Visible() {
			continue
		}
		base := Candidate{ID: it.ID, Tab: it.Tab, Title: it.DisplayTitle()}
		ageDays := daysBetween(it.CreatedAt, now)

		// Stale: checklist items that stayed active and never completed.
		if it.Tab.IsChecklist() && it.Checklist != nil &&
			!it.Checklist.Completed && ageDays >= th.StaleAfterDays {
			c := base
			c.AgeDays = ageDays
			stats.Stale = append(stats.Stale, c)
		}

		// Low progress: quota items far below target after several periods.
		if it.Tab == model.TabSpendMyTime && it.Time != nil && it.Time.RequiredMinutes > 0 {
			periods := ageDays / 7
			pct := float64(it.Time.CompletedMinutes) / float64(it.Time.RequiredMinutes) * 100
			if periods >= th.LowProgressAfterPeriods && pct < th.LowProgressPercent {
				c := base
				c.ProgressPercent = pct
				stats.LowProgress = append(stats.LowProgress, c)
			}
		}

		// Long done: completed long ago but never archived.
		if it.Checklist != nil && it.Checklist.Completed && it.Checklist.CompletedAt != nil {
			if d := daysBetween(*it.Checklist.CompletedAt, now); d >= th.LongDoneAfterDays {
				c := base
				c.DoneForDays = d
				stats.LongDone = append(stats.LongDone, c)
			}
		}

		// Inactive: no log entry in a long while.
		touched, ok := lastTouch[it.ID]
		if !ok {
			touched = it.UpdatedAt
		}
		if d := daysBetween(touched, now); d >= th.InactiveAfterDays {
			c := base
			c.IdleDays = d
			stats.Inactive = append(stats.Inactive, c)
		}
	}

	return stats
}

func daysBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from) / (24 * time.Hour))
}
