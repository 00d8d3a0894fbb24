package model

import (
	"time"
)

type ItemID string

// Tab discriminates the item variants. It is immutable after creation.
type Tab string

const (
	TabDayToDay    Tab = "dayToDay"
	TabHitMyGoal   Tab = "hitMyGoal"
	TabSpendMyTime Tab = "spendMyTime"
)

func (t Tab) Valid() bool {
	switch t {
	case TabDayToDay, TabHitMyGoal, TabSpendMyTime:
		return true
	default:
		return false
	}
}

// IsChecklist reports whether items on this tab carry completion state.
// spendMyTime items carry a minute quota instead.
func (t Tab) IsChecklist() bool {
	return t == TabDayToDay || t == TabHitMyGoal
}

type Status string

const (
	StatusActive Status = "active"
	StatusDone   Status = "done"
	StatusMissed Status = "missed"
)

// Checklist is the variant payload for dayToDay/hitMyGoal items.
type Checklist struct {
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// TimeBudget is the variant payload for spendMyTime items: a per-period
// minute quota with an optional running timer.
type TimeBudget struct {
	RequiredMinutes  int        `json:"requiredMinutes"`
	CompletedMinutes int        `json:"completedMinutes"`
	TimerStartedAt   *time.Time `json:"timerStartedAt,omitempty"`
	PeriodStart      time.Time  `json:"periodStart"`
	PeriodEnd        time.Time  `json:"periodEnd"`
}

// Item is the tagged union over the three tabs. Exactly one of Checklist
// or Time is populated, selected by Tab; the other stays nil in snapshots.
type Item struct {
	ID        ItemID `json:"id"`
	Tab       Tab    `json:"tab"`
	Title     string `json:"title"`
	// BaseTitle is the title without the recurring period suffix, kept so
	// the next occurrence can be re-suffixed from a stable root.
	BaseTitle  string `json:"baseTitle,omitempty"`
	CategoryID string `json:"categoryId,omitempty"` // always a subcategory id
	SortKey    int    `json:"sortKey"`
	Status     Status `json:"status"`

	Archived bool `json:"archived"`
	Deleted  bool `json:"deleted"`

	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty"`

	DueAt      *time.Time          `json:"dueAt,omitempty"`
	Recurrence *RecurrenceSettings `json:"recurrence,omitempty"`
	PeriodKey  string              `json:"periodKey,omitempty"`

	Checklist *Checklist  `json:"checklist,omitempty"`
	Time      *TimeBudget `json:"time,omitempty"`
}

func (i *Item) IsRecurring() bool {
	return i.Recurrence != nil
}

// Visible reports whether the item appears in normal listings.
func (i *Item) Visible() bool {
	return !i.Archived && !i.Deleted
}

// DisplayTitle is BaseTitle when set, otherwise Title.
func (i *Item) DisplayTitle() string {
	if i.BaseTitle != "" {
		return i.BaseTitle
	}
	return i.Title
}
