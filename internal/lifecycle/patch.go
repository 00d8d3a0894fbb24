package lifecycle

import (
	"time"

	"triday/internal/model"
	"triday/internal/recur"
)

// Patch is a partial update; nil pointer means "no change". DueAt and
// Recurrence use a second level of pointer so JSON null can clear them.
type Patch struct {
	Title      *string `json:"title,omitempty"`
	CategoryID *string `json:"categoryId,omitempty"`
	SortKey    *int    `json:"sortKey,omitempty"`

	DueAt      **time.Time                `json:"dueAt,omitempty"`
	Recurrence **model.RecurrenceSettings `json:"recurrence,omitempty"`

	RequiredMinutes *int `json:"requiredMinutes,omitempty"`
}

// UpdateFields applies a partial edit. Tab is immutable and absent from
// Patch on purpose; completion and timer state change only through their
// dedicated operations.
func (m *Manager) UpdateFields(id model.ItemID, p Patch) (model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it := m.state.FindItem(id)
	if it == nil {
		return model.Item{}, ErrNotFound
	}
	if it.Deleted {
		return model.Item{}, ErrDeleted
	}
	if p.CategoryID != nil && !m.cats.ValidRef(*p.CategoryID) {
		return model.Item{}, ErrBadCategory
	}
	if p.Recurrence != nil && *p.Recurrence != nil && !(*p.Recurrence).Frequency.Valid() {
		return model.Item{}, recur.ErrInvalidRecurrence
	}

	now := m.clk.Now()
	prev := map[string]any{}
	next := map[string]any{}

	if p.Title != nil && *p.Title != it.Title {
		prev["title"], next["title"] = it.Title, *p.Title
		it.Title = *p.Title
		if it.BaseTitle != "" {
			it.BaseTitle = *p.Title
			it.Title = suffixTitle(*p.Title, it.PeriodKey)
			next["title"] = it.Title
		}
	}
	if p.CategoryID != nil && *p.CategoryID != it.CategoryID {
		prev["categoryId"], next["categoryId"] = it.CategoryID, *p.CategoryID
		it.CategoryID = *p.CategoryID
	}
	if p.SortKey != nil && *p.SortKey != it.SortKey {
		prev["sortKey"], next["sortKey"] = it.SortKey, *p.SortKey
		it.SortKey = *p.SortKey
	}
	if p.DueAt != nil {
		prev["dueAt"], next["dueAt"] = it.DueAt, *p.DueAt
		it.DueAt = *p.DueAt
	}
	if p.Recurrence != nil {
		rec := *p.Recurrence
		if rec != nil && rec.Interval < 1 {
			floored := *rec
			floored.Interval = 1
			rec = &floored
		}
		prev["recurrence"], next["recurrence"] = it.Recurrence, rec
		it.Recurrence = rec
		if rec == nil {
			it.BaseTitle = ""
		}
	}
	if p.RequiredMinutes != nil && it.Time != nil && *p.RequiredMinutes != it.Time.RequiredMinutes {
		prev["requiredMinutes"], next["requiredMinutes"] = it.Time.RequiredMinutes, *p.RequiredMinutes
		it.Time.RequiredMinutes = *p.RequiredMinutes
	}

	if len(next) == 0 {
		return m.cloneOf(*it), nil
	}

	it.UpdatedAt = now
	m.refreshLocked(it, now)

	m.appendLocked(it, model.ActionUpdate, now, map[string]any{
		"prev": prev,
		"new":  next,
	})
	err := m.persistLocked()
	return m.cloneOf(*it), err
}
