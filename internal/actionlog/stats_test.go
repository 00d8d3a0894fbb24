package actionlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triday/internal/model"
)

func TestMemoryRepo_AppendAssignsIDAndKeepsOrder(t *testing.T) {
	repo := NewMemoryRepo()

	first := repo.Append(model.ActionEntry{ItemID: "a", Kind: model.ActionCreate})
	second := repo.Append(model.ActionEntry{ItemID: "a", Kind: model.ActionComplete})

	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)

	entries := repo.List()
	require.Len(t, entries, 2)
	assert.Equal(t, model.ActionCreate, entries[0].Kind)
	assert.Equal(t, model.ActionComplete, entries[1].Kind)
}

func TestMemoryRepo_ListByItem(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Append(model.ActionEntry{ItemID: "a", Kind: model.ActionCreate})
	repo.Append(model.ActionEntry{ItemID: "b", Kind: model.ActionCreate})
	repo.Append(model.ActionEntry{ItemID: "a", Kind: model.ActionArchive})

	got := repo.ListByItem("a")
	require.Len(t, got, 2)
	assert.Equal(t, model.ActionArchive, got[1].Kind)
}

func TestMemoryRepo_ListReturnsCopy(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Append(model.ActionEntry{ItemID: "a", Kind: model.ActionCreate})

	got := repo.List()
	got[0].Kind = model.ActionDelete

	assert.Equal(t, model.ActionCreate, repo.List()[0].Kind, "the log itself is immutable")
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestBuildCleanupStats_StaleChecklist(t *testing.T) {
	now := fixedNow()
	state := model.NewAppState()
	state.Items = []model.Item{
		{
			ID: "old", Tab: model.TabDayToDay, Title: "forgotten",
			CreatedAt: now.AddDate(0, 0, -60), UpdatedAt: now,
			Checklist: &model.Checklist{},
		},
		{
			ID: "young", Tab: model.TabDayToDay, Title: "recent",
			CreatedAt: now.AddDate(0, 0, -3), UpdatedAt: now,
			Checklist: &model.Checklist{},
		},
	}
	state.Log = []model.ActionEntry{
		{ID: "l1", ItemID: "old", Kind: model.ActionCreate, At: now.AddDate(0, 0, -1)},
		{ID: "l2", ItemID: "young", Kind: model.ActionCreate, At: now.AddDate(0, 0, -1)},
	}

	stats := BuildCleanupStats(state, now, Thresholds{StaleAfterDays: 30})
	require.Len(t, stats.Stale, 1)
	assert.Equal(t, model.ItemID("old"), stats.Stale[0].ID)
	assert.Equal(t, 60, stats.Stale[0].AgeDays)
}

func TestBuildCleanupStats_LowProgressQuota(t *testing.T) {
	now := fixedNow()
	state := model.NewAppState()
	state.Items = []model.Item{
		{
			ID: "slacking", Tab: model.TabSpendMyTime, Title: "read papers",
			CreatedAt: now.AddDate(0, 0, -28), UpdatedAt: now,
			Time:      &model.TimeBudget{RequiredMinutes: 100, CompletedMinutes: 10},
		},
		{
			ID: "on-track", Tab: model.TabSpendMyTime, Title: "gym",
			CreatedAt: now.AddDate(0, 0, -28), UpdatedAt: now,
			Time:      &model.TimeBudget{RequiredMinutes: 100, CompletedMinutes: 80},
		},
	}
	state.Log = []model.ActionEntry{
		{ID: "l1", ItemID: "slacking", At: now},
		{ID: "l2", ItemID: "on-track", At: now},
	}

	stats := BuildCleanupStats(state, now, Thresholds{
		LowProgressPercent:      25,
		LowProgressAfterPeriods: 3,
	})
	require.Len(t, stats.LowProgress, 1)
	assert.Equal(t, model.ItemID("slacking"), stats.LowProgress[0].ID)
	assert.InDelta(t, 10.0, stats.LowProgress[0].ProgressPercent, 0.001)
}

func TestBuildCleanupStats_LongDoneAndInactive(t *testing.T) {
	now := fixedNow()
	doneAt := now.AddDate(0, 0, -20)
	state := model.NewAppState()
	state.Items = []model.Item{
		{
			ID: "lingering", Tab: model.TabHitMyGoal, Title: "ship the thing",
			CreatedAt: now.AddDate(0, 0, -40), UpdatedAt: doneAt,
			Checklist: &model.Checklist{Completed: true, CompletedAt: &doneAt},
		},
		{
			ID: "ghost", Tab: model.TabDayToDay, Title: "untouched",
			CreatedAt: now.AddDate(0, -4, 0), UpdatedAt: now.AddDate(0, -4, 0),
			Checklist: &model.Checklist{Completed: true, CompletedAt: &doneAt},
		},
	}
	state.Log = []model.ActionEntry{
		{ID: "l1", ItemID: "lingering", At: now.AddDate(0, 0, -1)},
		{ID: "l2", ItemID: "ghost", At: now.AddDate(0, 0, -90)},
	}

	stats := BuildCleanupStats(state, now, Thresholds{})
	require.Len(t, stats.LongDone, 2)
	assert.Equal(t, 20, stats.LongDone[0].DoneForDays)

	require.Len(t, stats.Inactive, 1)
	assert.Equal(t, model.ItemID("ghost"), stats.Inactive[0].ID)
	assert.Equal(t, 90, stats.Inactive[0].IdleDays)
}

func TestBuildCleanupStats_SkipsArchivedAndDeleted(t *testing.T) {
	now := fixedNow()
	state := model.NewAppState()
	state.Items = []model.Item{
		{
			ID: "archived", Tab: model.TabDayToDay, Title: "a",
			Archived: true, CreatedAt: now.AddDate(0, 0, -90), UpdatedAt: now.AddDate(0, 0, -90),
			Checklist: &model.Checklist{},
		},
		{
			ID: "deleted", Tab: model.TabDayToDay, Title: "d",
			Deleted: true, CreatedAt: now.AddDate(0, 0, -90), UpdatedAt: now.AddDate(0, 0, -90),
			Checklist: &model.Checklist{},
		},
	}

	stats := BuildCleanupStats(state, now, Thresholds{})
	assert.Empty(t, stats.Stale)
	assert.Empty(t, stats.Inactive)
}
