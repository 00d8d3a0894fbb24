package model

import "time"

type ActionKind string

const (
	ActionCreate     ActionKind = "create"
	ActionUpdate     ActionKind = "update"
	ActionArchive    ActionKind = "archive"
	ActionUnarchive  ActionKind = "unarchive"
	ActionDelete     ActionKind = "delete"
	ActionComplete   ActionKind = "complete"
	ActionTimerStart ActionKind = "timer_start"
	ActionTimerStop  ActionKind = "timer_stop"
)

// ActionEntry is an immutable audit record. Entries are only ever appended;
// nothing edits or removes them short of a full data clear.
type ActionEntry struct {
	ID      string         `json:"id"`
	ItemID  ItemID         `json:"itemId"`
	Tab     Tab            `json:"tab"`
	Kind    ActionKind     `json:"kind"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload,omitempty"`
}
