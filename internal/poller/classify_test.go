package poller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/notexe/reminderd/internal/notify"
	"github.com/notexe/reminderd/internal/reminder"
)

func allTypes() notify.TypeSettings {
	return notify.TypeSettings{Overdue: true, Upcoming: true, Recurrence: true}
}

func dueIn(now time.Time, minutes int) reminder.Reminder {
	return reminder.Reminder{
		ID:       "r1",
		Title:    "Pay rent",
		DueDate:  now.Add(time.Duration(minutes) * time.Minute),
		Priority: reminder.PriorityMedium,
		Status:   reminder.StatusPending,
	}
}

func TestClassify_Upcoming(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		minutes int
		want    bool
	}{
		{"15 minutes out", 15, true},
		{"5 minutes out", 5, true},
		{"1 minute out", 1, true},
		{"due now", 0, true},
		{"7 minutes out", 7, false},
		{"14 minutes out", 14, false},
		{"30 minutes out, medium priority", 30, false},
		{"2 hours out", 120, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, ok := Classify(dueIn(now, tt.minutes), now, allTypes())
			assert.Equal(t, tt.want, ok)
			if ok {
				assert.Equal(t, notify.TypeUpcoming, typ)
			}
		})
	}
}

func TestClassify_HighPriorityEarlyWarning(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for _, priority := range []string{reminder.PriorityHigh, reminder.PriorityUrgent} {
		r := dueIn(now, 30)
		r.Priority = priority

		typ, ok := Classify(r, now, allTypes())
		assert.True(t, ok, priority)
		assert.Equal(t, notify.TypeUpcoming, typ)
	}

	r := dueIn(now, 30)
	r.Priority = reminder.PriorityLow
	_, ok := Classify(r, now, allTypes())
	assert.False(t, ok)
}

func TestClassify_Overdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		overdue int
		want    bool
	}{
		{"15 minutes overdue", 15, true},
		{"30 minutes overdue", 30, true},
		{"45 minutes overdue", 45, true},
		{"60 minutes overdue", 60, true},
		{"16 minutes overdue", 16, false},
		{"50 minutes overdue", 50, false},
		{"90 minutes overdue", 90, false},
		{"2 hours overdue", 120, true},
		{"3 hours overdue", 180, true},
		{"7 minutes overdue", 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, ok := Classify(dueIn(now, -tt.overdue), now, allTypes())
			assert.Equal(t, tt.want, ok)
			if ok {
				assert.Equal(t, notify.TypeOverdue, typ)
			}
		})
	}
}

func TestClassify_OverdueIsExclusiveWithUpcoming(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// With overdue disabled an overdue reminder stays silent rather than
	// leaking into the upcoming branch.
	types := allTypes()
	types.Overdue = false

	_, ok := Classify(dueIn(now, -15), now, types)
	assert.False(t, ok)
}

func TestClassify_TypeOptOuts(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	types := allTypes()
	types.Upcoming = false
	_, ok := Classify(dueIn(now, 15), now, types)
	assert.False(t, ok)

	types = allTypes()
	types.Overdue = false
	_, ok = Classify(dueIn(now, -30), now, types)
	assert.False(t, ok)
}

func TestClassify_PartialMinutesRoundDown(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// 30 seconds past due floors to one minute overdue, which is not a
	// notification moment.
	r := dueIn(now, 0)
	r.DueDate = now.Add(-30 * time.Second)
	_, ok := Classify(r, now, allTypes())
	assert.False(t, ok)

	// 15m30s before due floors to 15 minutes, which is.
	r.DueDate = now.Add(15*time.Minute + 30*time.Second)
	typ, ok := Classify(r, now, allTypes())
	assert.True(t, ok)
	assert.Equal(t, notify.TypeUpcoming, typ)
}
