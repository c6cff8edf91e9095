// Package scheduler runs the periodic reminder digest: on a cron schedule
// it fetches the reminder list, composes a summary (via the configured LLM
// provider when available), and delivers it through the notification path.
package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmhodges/clock"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/notexe/reminderd/internal/api"
	"github.com/notexe/reminderd/internal/config"
	"github.com/notexe/reminderd/internal/notify"
	"github.com/notexe/reminderd/internal/reminder"
)

// Lister supplies the full reminder list. Satisfied by *reminder.Client.
type Lister interface {
	List(ctx context.Context) ([]reminder.Reminder, error)
}

// Scheduler owns the digest cron job.
type Scheduler struct {
	provider   api.Provider // nil means plain-text digests
	source     Lister
	dispatcher *notify.Dispatcher
	cfg        config.DigestConfig
	clk        clock.Clock
	log        *zap.SugaredLogger
}

// New creates a digest scheduler. The provider may be nil.
func New(provider api.Provider, source Lister, dispatcher *notify.Dispatcher,
	cfg config.DigestConfig, clk clock.Clock, log *zap.SugaredLogger) *Scheduler {

	return &Scheduler{
		provider:   provider,
		source:     source,
		dispatcher: dispatcher,
		cfg:        cfg,
		clk:        clk,
		log:        log,
	}
}

// Run blocks until ctx is cancelled, firing a digest on each cron tick.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.cfg.Schedule == "" {
		return fmt.Errorf("digest schedule must not be empty")
	}

	c := cron.New()
	_, err := c.AddFunc(s.cfg.Schedule, func() {
		s.tick(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid digest schedule %q: %w", s.cfg.Schedule, err)
	}

	c.Start()
	s.log.Infow("digest scheduler started", "schedule", s.cfg.Schedule)

	<-ctx.Done()
	s.log.Info("digest scheduler shutting down")
	<-c.Stop().Done()
	return nil
}

// RunOnce composes and sends a digest immediately, outside the cron
// schedule.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.tick(ctx)
}

func (s *Scheduler) tick(ctx context.Context) {
	s.log.Debug("composing reminder digest")

	reminders, err := s.source.List(ctx)
	if err != nil {
		s.log.Warnw("digest skipped: failed to fetch reminders", "err", err)
		return
	}

	if len(reminders) == 0 {
		s.log.Debug("no reminders, digest skipped")
		return
	}

	body, err := s.compose(ctx, reminders)
	if err != nil {
		s.log.Warnw("digest composition failed, using plain summary", "err", err)
		body = s.composePlain(reminders)
	}
	if body == "" {
		return
	}

	sent := s.dispatcher.Send(ctx, notify.Intent{
		ReminderID: "digest",
		Type:       "digest",
		Title:      "Reminder digest",
		Body:       body,
		Tag:        "digest",
	})
	if !sent {
		s.log.Debug("digest not dispatched")
	}
}

// compose builds the digest text, via the LLM provider when configured.
// An empty return means there is nothing worth sending.
func (s *Scheduler) compose(ctx context.Context, reminders []reminder.Reminder) (string, error) {
	plain := s.composePlain(reminders)
	if s.provider == nil {
		return plain, nil
	}

	req := api.MessageRequest{
		Messages: []api.Message{
			{Role: "user", Content: fmt.Sprintf(s.cfg.PromptTemplate, plain)},
		},
		System:      s.cfg.SystemPrompt,
		Model:       s.cfg.Model.Name,
		MaxTokens:   s.cfg.Model.MaxTokens,
		Temperature: s.cfg.Model.Temperature,
	}

	resp, err := s.provider.SendMessage(ctx, req)
	if err != nil {
		return "", fmt.Errorf("digest prompt failed: %w", err)
	}

	trimmed := strings.TrimSpace(resp.Content)
	if trimmed == "NO_REMINDERS" {
		return "", nil
	}
	return trimmed, nil
}

// composePlain is the deterministic fallback digest.
func (s *Scheduler) composePlain(reminders []reminder.Reminder) string {
	now := s.clk.Now()
	var overdue, pending, completed []string

	for _, r := range reminders {
		line := fmt.Sprintf("• %s [%s] — due %s", r.Title, strings.ToUpper(r.Priority),
			r.DueDate.Local().Format("Mon Jan 2 15:04"))

		switch {
		case r.Status == reminder.StatusCompleted:
			completed = append(completed, "• "+r.Title)
		case r.IsPending() && r.DueDate.Before(now):
			overdue = append(overdue, line)
		case r.IsPending():
			pending = append(pending, line)
		}
	}

	var b strings.Builder
	writeSection(&b, "Due/Overdue", overdue)
	writeSection(&b, "Pending", pending)
	writeSection(&b, "Completed", completed)
	return strings.TrimSpace(b.String())
}

func writeSection(b *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n%s\n\n", title, strings.Join(lines, "\n"))
}
