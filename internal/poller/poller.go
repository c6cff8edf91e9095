// Package poller runs the temporal core: on a fixed interval it re-reads
// the reminder list, classifies each pending reminder against "now", and
// dispatches notifications with time-bucketed de-duplication.
package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmhodges/clock"
	"go.uber.org/zap"

	"github.com/notexe/reminderd/internal/notify"
	"github.com/notexe/reminderd/internal/reminder"
)

// Source supplies the pending reminder list. Satisfied by *reminder.Client.
type Source interface {
	Pending(ctx context.Context) ([]reminder.Reminder, error)
}

// Poller owns the classification loop state: the reminder snapshot, the
// notified-key set, and both timers. It runs until its context is
// cancelled.
type Poller struct {
	source     Source
	cache      *reminder.Cache // optional
	manager    *notify.Manager
	dispatcher *notify.Dispatcher
	clk        clock.Clock
	log        *zap.SugaredLogger

	checkInterval   time.Duration
	refreshInterval time.Duration

	wake            chan struct{}
	settingsChanged chan struct{}

	mu        sync.Mutex
	reminders []reminder.Reminder
	notified  *NotifiedSet
}

// New creates a Poller. The cache may be nil; when present it is updated
// on every successful refresh and used as the startup fallback.
func New(source Source, cache *reminder.Cache, manager *notify.Manager, dispatcher *notify.Dispatcher,
	clk clock.Clock, log *zap.SugaredLogger, checkInterval, refreshInterval time.Duration) *Poller {

	p := &Poller{
		source:          source,
		cache:           cache,
		manager:         manager,
		dispatcher:      dispatcher,
		clk:             clk,
		log:             log,
		checkInterval:   checkInterval,
		refreshInterval: refreshInterval,
		wake:            make(chan struct{}, 1),
		settingsChanged: make(chan struct{}, 1),
		notified:        NewNotifiedSet(),
	}

	manager.OnChange(func(notify.Settings) {
		select {
		case p.settingsChanged <- struct{}{}:
		default:
		}
	})

	return p
}

// Poke requests an immediate classification pass, e.g. after the host
// wakes from suspend. Never blocks.
func (p *Poller) Poke() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Reminders returns the current snapshot.
func (p *Poller) Reminders() []reminder.Reminder {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]reminder.Reminder, len(p.reminders))
	copy(out, p.reminders)
	return out
}

// Run blocks, refreshing the list every refreshInterval and classifying
// every checkInterval while the manager's gate holds. The classification
// ticker is stopped the moment the gate turns false and restarted (with an
// immediate pass) when it turns true. Run exits when ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	if p.checkInterval <= 0 {
		return fmt.Errorf("check interval must be positive, got %v", p.checkInterval)
	}
	if p.refreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %v", p.refreshInterval)
	}

	p.log.Infow("poller started",
		"check_interval", p.checkInterval, "refresh_interval", p.refreshInterval)

	if !p.refresh(ctx) {
		p.loadFromCache()
	}

	checking := p.manager.CanSend()
	if checking {
		p.checkPass(ctx)
	}

	checkTicker := time.NewTicker(p.checkInterval)
	defer checkTicker.Stop()
	if !checking {
		checkTicker.Stop()
	}

	refreshTicker := time.NewTicker(p.refreshInterval)
	defer refreshTicker.Stop()

	lastPass := p.clk.Now()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("poller shutting down")
			return nil

		case <-checkTicker.C:
			if !p.manager.CanSend() {
				continue
			}
			// A gap much longer than the interval means the host was
			// suspended; the pass below catches anything that came due.
			if gap := p.clk.Now().Sub(lastPass); gap > 2*p.checkInterval {
				p.log.Debugw("timer drift detected", "gap", gap)
			}
			lastPass = p.clk.Now()
			p.checkPass(ctx)

		case <-refreshTicker.C:
			p.refresh(ctx)

		case <-p.wake:
			if p.manager.CanSend() {
				lastPass = p.clk.Now()
				p.checkPass(ctx)
			}

		case <-p.settingsChanged:
			canSend := p.manager.CanSend()
			if canSend && !checking {
				checkTicker.Reset(p.checkInterval)
				checking = true
				lastPass = p.clk.Now()
				p.checkPass(ctx)
			} else if !canSend && checking {
				checkTicker.Stop()
				checking = false
			}
		}
	}
}

// refresh re-fetches the reminder list. Fire-and-forget: a failure leaves
// the previous list in place for the next pass.
func (p *Poller) refresh(ctx context.Context) bool {
	list, err := p.source.Pending(ctx)
	if err != nil {
		p.log.Warnw("reminder refresh failed; keeping last known list", "err", err)
		return false
	}

	p.mu.Lock()
	p.reminders = list
	p.mu.Unlock()

	if p.cache != nil {
		if err := p.cache.Replace(list); err != nil {
			p.log.Warnw("failed to update reminder cache", "err", err)
		}
	}
	return true
}

func (p *Poller) loadFromCache() {
	if p.cache == nil {
		return
	}
	list, err := p.cache.Load()
	if err != nil {
		p.log.Warnw("failed to load cached reminders", "err", err)
		return
	}

	p.mu.Lock()
	p.reminders = list
	p.mu.Unlock()

	p.log.Infow("starting from cached reminder snapshot", "count", len(list))
}

// checkPass classifies every pending reminder in the snapshot against
// "now". A reminder already notified in the current 5-minute bucket is
// skipped before classification. One failed dispatch never aborts the
// remaining reminders.
func (p *Poller) checkPass(ctx context.Context) {
	p.mu.Lock()
	snapshot := p.reminders
	notified := p.notified
	p.mu.Unlock()

	now := p.clk.Now()
	types := p.manager.Settings().NotificationTypes

	for _, r := range snapshot {
		if !r.IsPending() {
			continue
		}

		key := notifiedKey(r.ID, now)
		if notified.Seen(key) {
			continue
		}

		typ, ok := Classify(r, now, types)
		if !ok {
			continue
		}

		notified.Add(key)
		if !p.dispatcher.SendReminder(ctx, r, typ) {
			p.log.Debugw("notification not dispatched", "reminder", r.ID, "type", typ)
		}
		notified.Prune(now)
	}
}
