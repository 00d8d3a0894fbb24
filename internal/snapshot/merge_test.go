package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triday/internal/model"
)

func stateWith(items []model.Item, log []model.ActionEntry) model.AppState {
	s := model.NewAppState()
	s.Items = items
	s.Log = log
	return s
}

func TestMerge_Overwrite(t *testing.T) {
	existing := stateWith([]model.Item{{ID: "a", Title: "old"}}, nil)
	incoming := stateWith([]model.Item{{ID: "b", Title: "new"}}, nil)

	got := Merge(existing, incoming, MergeOverwrite)
	require.Len(t, got.Items, 1)
	assert.Equal(t, model.ItemID("b"), got.Items[0].ID)
}

func TestMerge_CombineKeepsLaterUpdate(t *testing.T) {
	older := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(48 * time.Hour)

	existing := stateWith(
		[]model.Item{{ID: "a", Title: "stale title", UpdatedAt: older}},
		[]model.ActionEntry{
			{ID: "log-1", ItemID: "a", Kind: model.ActionCreate, At: older},
		},
	)
	incoming := stateWith(
		[]model.Item{
			{ID: "a", Title: "fresh title", UpdatedAt: newer},
			{ID: "b", Title: "only incoming", UpdatedAt: newer},
		},
		[]model.ActionEntry{
			{ID: "log-1", ItemID: "a", Kind: model.ActionCreate, At: older}, // duplicate
			{ID: "log-2", ItemID: "a", Kind: model.ActionUpdate, At: newer},
		},
	)

	got := Merge(existing, incoming, MergeCombine)

	require.Len(t, got.Items, 2)
	assert.Equal(t, "fresh title", got.Items[0].Title, "id collision resolved by updatedAt")
	assert.Equal(t, model.ItemID("b"), got.Items[1].ID)

	require.Len(t, got.Log, 2, "action log deduplicated by id")
	assert.Equal(t, "log-1", got.Log[0].ID)
	assert.Equal(t, "log-2", got.Log[1].ID)
}

func TestMerge_CombineKeepsExistingWhenNewer(t *testing.T) {
	older := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	existing := stateWith([]model.Item{{ID: "a", Title: "keep me", UpdatedAt: newer}}, nil)
	incoming := stateWith([]model.Item{{ID: "a", Title: "discard me", UpdatedAt: older}}, nil)

	got := Merge(existing, incoming, MergeCombine)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "keep me", got.Items[0].Title)
}

func TestMerge_CombineOrdersLogByTimestamp(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	existing := stateWith(nil, []model.ActionEntry{
		{ID: "log-c", At: t0.Add(2 * time.Hour)},
	})
	incoming := stateWith(nil, []model.ActionEntry{
		{ID: "log-a", At: t0},
		{ID: "log-b", At: t0.Add(time.Hour)},
	})

	got := Merge(existing, incoming, MergeCombine)
	require.Len(t, got.Log, 3)
	assert.Equal(t, "log-a", got.Log[0].ID)
	assert.Equal(t, "log-b", got.Log[1].ID)
	assert.Equal(t, "log-c", got.Log[2].ID)
}

func TestMerge_PureInputsUntouched(t *testing.T) {
	older := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	existing := stateWith([]model.Item{{ID: "a", Title: "original", UpdatedAt: older}}, nil)
	incoming := stateWith([]model.Item{{ID: "a", Title: "replacement", UpdatedAt: older.Add(time.Hour)}}, nil)

	_ = Merge(existing, incoming, MergeCombine)

	assert.Equal(t, "original", existing.Items[0].Title)
	assert.Equal(t, "replacement", incoming.Items[0].Title)
}

func TestMergeMode_Valid(t *testing.T) {
	assert.True(t, MergeCombine.Valid())
	assert.True(t, MergeOverwrite.Valid())
	assert.False(t, MergeMode("append").Valid())
}
