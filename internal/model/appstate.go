package model

import "time"

// AppState is the single consistency unit: the three collections are
// persisted and merged together as one snapshot.
type AppState struct {
	Items      []Item        `json:"items"`
	Log        []ActionEntry `json:"log"`
	Categories []Category    `json:"categories"`
}

func NewAppState() AppState {
	return AppState{
		Items:      []Item{},
		Log:        []ActionEntry{},
		Categories: []Category{},
	}
}

// FindItem returns a pointer into Items for in-place mutation by the
// lifecycle manager, or nil when absent.
func (s *AppState) FindItem(id ItemID) *Item {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i]
		}
	}
	return nil
}

// Clone deep-copies the snapshot so read-only consumers can hold it
// without observing later mutations.
func (s AppState) Clone() AppState {
	out := AppState{
		Items:      make([]Item, len(s.Items)),
		Log:        make([]ActionEntry, len(s.Log)),
		Categories: make([]Category, len(s.Categories)),
	}
	for i, it := range s.Items {
		out.Items[i] = cloneItem(it)
	}
	for i, e := range s.Log {
		out.Log[i] = cloneEntry(e)
	}
	for i, c := range s.Categories {
		cc := c
		cc.Subcategories = append([]Subcategory(nil), c.Subcategories...)
		out.Categories[i] = cc
	}
	return out
}

func cloneItem(it Item) Item {
	out := it
	out.ArchivedAt = cloneTimePtr(it.ArchivedAt)
	out.DeletedAt = cloneTimePtr(it.DeletedAt)
	out.DueAt = cloneTimePtr(it.DueAt)
	if it.Recurrence != nil {
		r := *it.Recurrence
		r.NextDueAt = cloneTimePtr(it.Recurrence.NextDueAt)
		if it.Recurrence.TotalOccurrences != nil {
			n := *it.Recurrence.TotalOccurrences
			r.TotalOccurrences = &n
		}
		out.Recurrence = &r
	}
	if it.Checklist != nil {
		c := *it.Checklist
		c.CompletedAt = cloneTimePtr(it.Checklist.CompletedAt)
		out.Checklist = &c
	}
	if it.Time != nil {
		tb := *it.Time
		tb.TimerStartedAt = cloneTimePtr(it.Time.TimerStartedAt)
		out.Time = &tb
	}
	return out
}

func cloneEntry(e ActionEntry) ActionEntry {
	out := e
	if e.Payload != nil {
		p := make(map[string]any, len(e.Payload))
		for k, v := range e.Payload {
			p[k] = v
		}
		out.Payload = p
	}
	return out
}

func cloneTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
