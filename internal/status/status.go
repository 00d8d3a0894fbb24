package status

import (
	"time"

	"triday/internal/model"
)

// Derive computes the lifecycle status of an item at now. It is pure: the
// same (item, now) always yields the same status. "Missed" detection lives
// here and only here; every read path re-derives instead of relying on a
// background timer having fired at the due instant.
//
// Completion exactly at the due instant is on-time: the lapse comparison is
// strictly after the due date, the completion comparison is inclusive.
func Derive(it *model.Item, now time.Time) model.Status {
	switch it.Tab {
	case model.TabSpendMyTime:
		if it.Time != nil && it.Time.RequiredMinutes > 0 &&
			it.Time.CompletedMinutes >= it.Time.RequiredMinutes {
			return model.StatusDone
		}
	default:
		if it.Checklist != nil && it.Checklist.Completed {
			return model.StatusDone
		}
	}

	if it.DueAt != nil && now.After(*it.DueAt) {
		return model.StatusMissed
	}
	return model.StatusActive
}

// Refresh writes the derived status back onto the item. Callers that
// materialize items for reading run this first.
func Refresh(it *model.Item, now time.Time) {
	it.Status = Derive(it, now)
}

// CanComplete gates the active→done transition: only non-deleted items
// that are not already done may complete. Missed items may still be
// completed late; they land on done, not back on missed.
func CanComplete(it *model.Item) bool {
	return !it.Deleted && Deriveable(it) && it.Status != model.StatusDone
}

// CanReopen gates the explicit user undo, done→active or missed→active.
func CanReopen(it *model.Item) bool {
	return !it.Deleted && (it.Status == model.StatusDone || it.Status == model.StatusMissed)
}

// Deriveable reports whether the item carries the variant payload its tab
// requires. A malformed item is left untouched rather than transitioned.
func Deriveable(it *model.Item) bool {
	if it.Tab == model.TabSpendMyTime {
		return it.Time != nil
	}
	return it.Checklist != nil
}
