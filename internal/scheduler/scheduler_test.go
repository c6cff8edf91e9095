package scheduler

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notexe/reminderd/internal/api"
	"github.com/notexe/reminderd/internal/config"
	"github.com/notexe/reminderd/internal/events"
	"github.com/notexe/reminderd/internal/notify"
	"github.com/notexe/reminderd/internal/reminder"
)

type fakeLister struct {
	reminders []reminder.Reminder
	err       error
}

func (f *fakeLister) List(context.Context) ([]reminder.Reminder, error) {
	return f.reminders, f.err
}

type fakeProvider struct {
	content string
	err     error
}

func (f *fakeProvider) SendMessage(context.Context, api.MessageRequest) (*api.MessageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &api.MessageResponse{Content: f.content}, nil
}

func (f *fakeProvider) Name() string { return "fake" }
func (f *fakeProvider) Close() error { return nil }

func newTestScheduler(t *testing.T, provider api.Provider, lister *fakeLister) (*Scheduler, *bytes.Buffer) {
	t.Helper()

	clk := clock.NewFake()
	clk.Set(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))

	log := zap.NewNop().Sugar()
	out := &bytes.Buffer{}
	sink := notify.NewConsoleSink(out)

	store := notify.NewSettingsStore(filepath.Join(t.TempDir(), "settings.json"))
	manager := notify.NewManager(store, sink, log)
	require.True(t, manager.RequestPermission(context.Background()))

	dispatcher := notify.NewDispatcher(manager, sink, nil, events.NewBus(), clk, log)

	cfg := config.DigestConfig{
		Schedule:       "0 8 * * *",
		PromptTemplate: "Summarize:\n%s",
	}
	return New(provider, lister, dispatcher, cfg, clk, log), out
}

func someReminders(now time.Time) []reminder.Reminder {
	return []reminder.Reminder{
		{ID: "r1", Title: "Late one", Priority: reminder.PriorityHigh,
			DueDate: now.Add(-time.Hour), Status: reminder.StatusPending},
		{ID: "r2", Title: "Soon one", Priority: reminder.PriorityLow,
			DueDate: now.Add(2 * time.Hour), Status: reminder.StatusPending},
		{ID: "r3", Title: "Done one", Priority: reminder.PriorityMedium,
			DueDate: now.Add(-2 * time.Hour), Status: reminder.StatusCompleted},
	}
}

func TestComposePlain_GroupsByStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	s, _ := newTestScheduler(t, nil, &fakeLister{})

	got := s.composePlain(someReminders(now))

	assert.Contains(t, got, "Due/Overdue:")
	assert.Contains(t, got, "Late one")
	assert.Contains(t, got, "Pending:")
	assert.Contains(t, got, "Soon one")
	assert.Contains(t, got, "Completed:")
	assert.Contains(t, got, "Done one")
	assert.Contains(t, got, "[HIGH]")
}

func TestTick_SendsDigestWithoutProvider(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	s, out := newTestScheduler(t, nil, &fakeLister{reminders: someReminders(now)})

	s.tick(context.Background())

	assert.Contains(t, out.String(), "Reminder digest")
	assert.Contains(t, out.String(), "Late one")
}

func TestTick_UsesProviderContent(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	provider := &fakeProvider{content: "<b>Morning!</b>\nOne reminder pending."}
	s, out := newTestScheduler(t, provider, &fakeLister{reminders: someReminders(now)})

	s.tick(context.Background())

	assert.Contains(t, out.String(), "One reminder pending.")
}

func TestTick_ProviderNoRemindersSkips(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	provider := &fakeProvider{content: "NO_REMINDERS"}
	s, out := newTestScheduler(t, provider, &fakeLister{reminders: someReminders(now)})

	s.tick(context.Background())
	assert.Empty(t, out.String())
}

func TestTick_ProviderFailureFallsBackToPlain(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	provider := &fakeProvider{err: assert.AnError}
	s, out := newTestScheduler(t, provider, &fakeLister{reminders: someReminders(now)})

	s.tick(context.Background())

	assert.Contains(t, out.String(), "Late one")
}

func TestTick_EmptyListSkips(t *testing.T) {
	s, out := newTestScheduler(t, nil, &fakeLister{})

	s.tick(context.Background())
	assert.Empty(t, out.String())
}

func TestTick_ListFailureSkips(t *testing.T) {
	s, out := newTestScheduler(t, nil, &fakeLister{err: assert.AnError})

	s.tick(context.Background())
	assert.Empty(t, out.String())
}

func TestRun_RejectsInvalidSchedule(t *testing.T) {
	s, _ := newTestScheduler(t, nil, &fakeLister{})
	s.cfg.Schedule = "not a cron expression"

	err := s.Run(context.Background())
	assert.Error(t, err)
}
