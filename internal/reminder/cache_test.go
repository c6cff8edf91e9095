package reminder_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/reminderd/internal/reminder"
)

func newTestCache(t *testing.T) *reminder.Cache {
	t.Helper()
	cache, err := reminder.OpenCache(filepath.Join(t.TempDir(), "reminders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestCache_ReplaceAndLoad(t *testing.T) {
	cache := newTestCache(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	reminders := []reminder.Reminder{
		{
			ID:        "r2",
			Title:     "Later task",
			DueDate:   now.Add(2 * time.Hour),
			Priority:  reminder.PriorityLow,
			Status:    reminder.StatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:                 "r1",
			Title:              "Daily check-in",
			Description:        "post the summary",
			DueDate:            now.Add(time.Hour),
			Priority:           reminder.PriorityHigh,
			Status:             reminder.StatusPending,
			IsRecurring:        true,
			RecurrenceType:     reminder.RecurrenceDaily,
			RecurrenceInterval: 1,
			Tags:               []string{"work", "standup"},
			CreatedAt:          now,
			UpdatedAt:          now,
		},
	}

	require.NoError(t, cache.Replace(reminders))

	got, err := cache.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by due date.
	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, "r2", got[1].ID)

	assert.Equal(t, "post the summary", got[0].Description)
	assert.True(t, got[0].IsRecurring)
	assert.Equal(t, reminder.RecurrenceDaily, got[0].RecurrenceType)
	assert.Equal(t, []string{"work", "standup"}, got[0].Tags)
	assert.True(t, got[0].DueDate.Equal(now.Add(time.Hour)))
}

func TestCache_ReplaceDropsPreviousSnapshot(t *testing.T) {
	cache := newTestCache(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, cache.Replace([]reminder.Reminder{
		{ID: "old", Title: "Old", DueDate: now, CreatedAt: now, UpdatedAt: now},
	}))
	require.NoError(t, cache.Replace([]reminder.Reminder{
		{ID: "new", Title: "New", DueDate: now, CreatedAt: now, UpdatedAt: now},
	}))

	got, err := cache.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].ID)
}

func TestCache_LoadEmpty(t *testing.T) {
	cache := newTestCache(t)

	got, err := cache.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}
