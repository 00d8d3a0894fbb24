package snapshot

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triday/internal/model"
)

func sampleState() model.AppState {
	due := time.Date(2026, 1, 12, 18, 0, 0, 0, time.UTC)
	completedAt := time.Date(2026, 1, 6, 9, 30, 0, 0, time.UTC)
	total := 5

	return model.AppState{
		Items: []model.Item{
			{
				ID:        "item-1",
				Tab:       model.TabDayToDay,
				Title:     "water the plants (2026-01-05)",
				BaseTitle: "water the plants",
				Status:    model.StatusDone,
				CreatedAt: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
				UpdatedAt: completedAt,
				DueAt:     &due,
				PeriodKey: "2026-01-05",
				Recurrence: &model.RecurrenceSettings{
					Frequency:            model.FreqWeekly,
					Interval:             1,
					TotalOccurrences:     &total,
					CompletedOccurrences: 2,
					Timezone:             "Europe/Berlin",
					StartAt:              time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
					NextDueAt:            &due,
				},
				Checklist: &model.Checklist{Completed: true, CompletedAt: &completedAt},
			},
			{
				ID:        "item-2",
				Tab:       model.TabSpendMyTime,
				Title:     "practice guitar",
				Status:    model.StatusActive,
				CreatedAt: time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC),
				UpdatedAt: time.Date(2026, 1, 7, 8, 0, 0, 0, time.UTC),
				PeriodKey: "2026-01-05",
				Time: &model.TimeBudget{
					RequiredMinutes:  120,
					CompletedMinutes: 45,
					PeriodStart:      time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
					PeriodEnd:        time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
				},
			},
		},
		Log: []model.ActionEntry{
			{ID: "log-1", ItemID: "item-1", Tab: model.TabDayToDay, Kind: model.ActionCreate,
				At: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)},
			{ID: "log-2", ItemID: "item-1", Tab: model.TabDayToDay, Kind: model.ActionComplete,
				At: completedAt, Payload: map[string]any{"completedAt": "2026-01-06T09:30:00Z"}},
		},
		Categories: []model.Category{
			{ID: "cat-1", Name: "Home", Subcategories: []model.Subcategory{
				{ID: "sub-1", Name: "Chores"},
			}},
		},
	}
}

func TestMarshalUnmarshal_RoundTrip(t *testing.T) {
	state := sampleState()

	b, err := Marshal(state)
	require.NoError(t, err)

	got, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, state, got, "round-trip must preserve structure, action-log order included")
}

func TestUnmarshal_NormalizesNilCollections(t *testing.T) {
	got, err := Unmarshal([]byte(`{}`))
	require.NoError(t, err)
	assert.NotNil(t, got.Items)
	assert.NotNil(t, got.Log)
	assert.NotNil(t, got.Categories)
}

func TestFileStore_LoadMissingFileIsEmptyState(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	got, err := fs.Load()
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.Empty(t, got.Log)
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "triday.json"), fs.Path())

	state := sampleState()
	require.NoError(t, fs.Save(state))

	got, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, state, got)
}
