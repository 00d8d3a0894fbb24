package lifecycle

import (
	"time"

	"github.com/google/uuid"

	"triday/internal/clock"
	"triday/internal/model"
	"triday/internal/recur"
	"triday/internal/status"
)

// CreateParams describes a new item. Tab picks the variant: checklist tabs
// get a completion flag, spendMyTime gets a minute quota.
type CreateParams struct {
	Tab        model.Tab                 `json:"tab"`
	Title      string                    `json:"title"`
	CategoryID string                    `json:"categoryId,omitempty"`
	SortKey    int                       `json:"sortKey"`
	DueAt      *time.Time                `json:"dueAt,omitempty"`
	Recurrence *model.RecurrenceSettings `json:"recurrence,omitempty"`

	RequiredMinutes int `json:"requiredMinutes,omitempty"`
}

// CreateItem builds and stores a new active item.
func (m *Manager) CreateItem(p CreateParams) (model.Item, error) {
	if !p.Tab.Valid() {
		return model.Item{}, ErrUnknownTab
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cats.ValidRef(p.CategoryID) {
		return model.Item{}, ErrBadCategory
	}

	now := m.clk.Now()
	it := model.Item{
		ID:         model.ItemID(uuid.NewString()),
		Tab:        p.Tab,
		Title:      p.Title,
		CategoryID: p.CategoryID,
		SortKey:    p.SortKey,
		Status:     model.StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
		DueAt:      p.DueAt,
	}

	if p.Tab.IsChecklist() {
		it.Checklist = &model.Checklist{}
	} else {
		it.Time = &model.TimeBudget{RequiredMinutes: p.RequiredMinutes}
		m.tracker.RolloverIfNeeded(&it, now)
	}

	if p.Recurrence != nil {
		rec := *p.Recurrence
		if !rec.Frequency.Valid() {
			return model.Item{}, recur.ErrInvalidRecurrence
		}
		if rec.Interval < 1 {
			rec.Interval = 1
		}
		if rec.StartAt.IsZero() {
			rec.StartAt = now
		}
		loc, ok := clock.Location(rec.Timezone)
		if !ok {
			m.logger.Printf("item %s: invalid recurrence timezone %q, using UTC", it.ID, rec.Timezone)
		}
		anchor := now
		if it.DueAt != nil {
			anchor = *it.DueAt
		}
		period := clock.PeriodBounds(anchor, loc, m.weekDay, rec.Frequency)
		it.PeriodKey = period.Key
		it.BaseTitle = p.Title
		it.Title = suffixTitle(p.Title, period.Key)
		it.Recurrence = &rec
	}

	m.state.Items = append(m.state.Items, it)
	stored := m.state.FindItem(it.ID)
	m.appendLocked(stored, model.ActionCreate, now, map[string]any{
		"title": stored.Title,
	})
	err := m.persistLocked()
	return m.cloneOf(*stored), err
}

// ToggleComplete flips a checklist item. Completing a recurring item rolls
// it over into a fresh active occurrence unless the series is exhausted;
// un-completing is the explicit user undo back to active.
func (m *Manager) ToggleComplete(id model.ItemID) (model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it := m.state.FindItem(id)
	if it == nil {
		return model.Item{}, ErrNotFound
	}
	if it.Deleted {
		return model.Item{}, ErrDeleted
	}
	if !it.Tab.IsChecklist() || it.Checklist == nil {
		return model.Item{}, ErrNotChecklist
	}

	now := m.clk.Now()
	m.refreshLocked(it, now)

	if it.Checklist.Completed && status.CanReopen(it) {
		// Reopen: done → active (or back to missed on the next read if the
		// due date already lapsed).
		it.Checklist.Completed = false
		it.Checklist.CompletedAt = nil
		it.UpdatedAt = now
		status.Refresh(it, now)
		m.appendLocked(it, model.ActionUpdate, now, map[string]any{
			"completed": map[string]any{"prev": true, "new": false},
		})
		err := m.persistLocked()
		return m.cloneOf(*it), err
	}

	if !status.CanComplete(it) {
		return m.cloneOf(*it), nil
	}

	// Completing at the due instant is on-time; Derive treats the due
	// comparison as inclusive, so a completion here always lands on done.
	it.Checklist.Completed = true
	at := now
	it.Checklist.CompletedAt = &at
	it.UpdatedAt = now
	status.Refresh(it, now)

	payload := map[string]any{"completedAt": at}
	if it.Recurrence != nil {
		m.rollRecurrenceLocked(it, now, payload)
	}

	m.appendLocked(it, model.ActionComplete, now, payload)
	err := m.persistLocked()
	return m.cloneOf(*it), err
}

// rollRecurrenceLocked advances a just-completed recurring item into its
// next occurrence. Called exactly once per completion event; the
// completion gate above is what keeps Advance idempotent per event.
func (m *Manager) rollRecurrenceLocked(it *model.Item, now time.Time, payload map[string]any) {
	anchor := now
	if it.DueAt != nil {
		anchor = *it.DueAt
	}
	adv, err := recur.Advance(*it.Recurrence, anchor, m.weekDay)
	if err != nil {
		m.logger.Printf("item %s: recurrence advance: %v", it.ID, err)
		return
	}

	rec := adv.Settings
	it.Recurrence = &rec
	if adv.Exhausted {
		// Series over: the item stays in its terminal state and no further
		// occurrence is generated.
		payload["seriesExhausted"] = true
		return
	}

	// Fresh cycle: back to active with the next period's key and due date.
	due := adv.NextDueAt
	it.DueAt = &due
	it.PeriodKey = adv.NextPeriodKey
	it.Title = suffixTitle(it.DisplayTitle(), adv.NextPeriodKey)
	it.Checklist.Completed = false
	it.Checklist.CompletedAt = nil
	it.Status = model.StatusActive
	payload["nextDueAt"] = due
	payload["nextPeriodKey"] = adv.NextPeriodKey
}

// Archive hides an item from normal listings; reversible via Unarchive.
func (m *Manager) Archive(id model.ItemID) (model.Item, error) {
	return m.setArchived(id, true)
}

func (m *Manager) Unarchive(id model.ItemID) (model.Item, error) {
	return m.setArchived(id, false)
}

func (m *Manager) setArchived(id model.ItemID, archived bool) (model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it := m.state.FindItem(id)
	if it == nil {
		return model.Item{}, ErrNotFound
	}

	now := m.clk.Now()
	kind := model.ActionArchive
	if archived {
		at := now
		it.ArchivedAt = &at
	} else {
		kind = model.ActionUnarchive
		it.ArchivedAt = nil
	}
	it.Archived = archived
	it.UpdatedAt = now

	m.appendLocked(it, kind, now, nil)
	err := m.persistLocked()
	return m.cloneOf(*it), err
}

// SoftDelete marks the item deleted, keeping the record and its history.
// Archive and delete are orthogonal: deleting an archived item keeps its
// archived-at timestamp. No programmatic reversal is exposed.
func (m *Manager) SoftDelete(id model.ItemID) (model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it := m.state.FindItem(id)
	if it == nil {
		return model.Item{}, ErrNotFound
	}
	if it.Deleted {
		// Already deleted: the timestamp and log stay as they are.
		return m.cloneOf(*it), nil
	}

	now := m.clk.Now()
	it.Deleted = true
	at := now
	it.DeletedAt = &at
	it.UpdatedAt = now

	m.appendLocked(it, model.ActionDelete, now, nil)
	err := m.persistLocked()
	return m.cloneOf(*it), err
}

// StartTimer begins accumulating time on a spendMyTime item.
func (m *Manager) StartTimer(id model.ItemID) (model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it := m.state.FindItem(id)
	if it == nil {
		return model.Item{}, ErrNotFound
	}
	if it.Deleted {
		return model.Item{}, ErrDeleted
	}

	now := m.clk.Now()
	if err := m.tracker.Start(it, now, m.runningTimersLocked(id)); err != nil {
		return model.Item{}, err
	}
	it.UpdatedAt = now

	m.appendLocked(it, model.ActionTimerStart, now, nil)
	err := m.persistLocked()
	return m.cloneOf(*it), err
}

// StopTimer ends the running timer, credits whole minutes to the current
// period, and re-derives status (hitting the quota is the active→done
// transition for this period).
func (m *Manager) StopTimer(id model.ItemID) (model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it := m.state.FindItem(id)
	if it == nil {
		return model.Item{}, ErrNotFound
	}

	now := m.clk.Now()
	res, err := m.tracker.Stop(it, now)
	if err != nil {
		return model.Item{}, err
	}
	it.UpdatedAt = now
	status.Refresh(it, now)

	m.appendLocked(it, model.ActionTimerStop, now, map[string]any{
		"elapsedMinutes":  res.ElapsedMinutes,
		"creditedMinutes": res.CreditedMinutes,
		"truncated":       res.Truncated,
	})
	perr := m.persistLocked()
	return m.cloneOf(*it), perr
}
