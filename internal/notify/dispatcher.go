package notify

import (
	"context"
	"sync"
	"time"

	"github.com/jmhodges/clock"
	"go.uber.org/zap"

	"github.com/notexe/reminderd/internal/events"
	"github.com/notexe/reminderd/internal/reminder"
)

const defaultAutoClose = 10 * time.Second

// Dispatcher turns a reminder plus classification into a concrete alert
// and owns its interactive lifecycle. Dispatch is always best-effort:
// failures are logged and reported as a false return, never raised.
type Dispatcher struct {
	manager   *Manager
	sink      Sink
	sound     SoundPlayer
	bus       *events.Bus
	clk       clock.Clock
	log       *zap.SugaredLogger
	autoClose time.Duration

	mu     sync.Mutex
	active map[string]*trackedNotification
}

type trackedNotification struct {
	delivery Delivery
	timer    *time.Timer
}

// NewDispatcher wires a dispatcher to the manager's gate and the given
// sink. Disabling notifications through the manager closes everything the
// dispatcher currently has on display.
func NewDispatcher(manager *Manager, sink Sink, sound SoundPlayer, bus *events.Bus, clk clock.Clock, log *zap.SugaredLogger) *Dispatcher {
	d := &Dispatcher{
		manager:   manager,
		sink:      sink,
		sound:     sound,
		bus:       bus,
		clk:       clk,
		log:       log,
		autoClose: defaultAutoClose,
		active:    make(map[string]*trackedNotification),
	}

	manager.OnChange(func(s Settings) {
		if !s.Enabled {
			d.CloseAll()
		}
	})

	return d
}

// SendReminder dispatches a notification for the reminder under the given
// classification. The classification-level opt-out is checked here, not by
// the caller.
func (d *Dispatcher) SendReminder(ctx context.Context, r reminder.Reminder, typ string) bool {
	if !d.manager.TypeEnabled(typ) {
		return false
	}
	return d.Send(ctx, BuildIntent(r, typ, d.clk.Now()))
}

// SendTest pushes a fixed test notification through the regular dispatch
// path so the user can validate their settings.
func (d *Dispatcher) SendTest(ctx context.Context) bool {
	return d.Send(ctx, TestIntent())
}

// Send delivers a composed intent. It is a no-op returning false unless
// the manager's CanSend gate holds.
func (d *Dispatcher) Send(ctx context.Context, intent Intent) bool {
	if !d.manager.CanSend() {
		return false
	}

	settings := d.manager.Settings()
	if settings.SoundEnabled && d.sound != nil {
		if err := d.sound.Play(settings.SoundVolume); err != nil {
			d.log.Warnw("notification sound failed", "err", err)
		}
	}

	// A second alert for the same reminder replaces the first.
	d.closeTag(intent.Tag)

	tag := intent.Tag
	hooks := Hooks{
		OnClick: func() {
			d.closeTag(tag)
			d.bus.Publish(events.ClickEvent{
				ReminderID: intent.ReminderID,
				Type:       intent.Type,
			})
		},
		OnClosed: func() {
			d.release(tag)
		},
	}

	delivery, err := d.sink.Deliver(ctx, intent, hooks)
	if err != nil {
		d.log.Warnw("notification dispatch failed", "tag", tag, "err", err)
		return false
	}

	tracked := &trackedNotification{delivery: delivery}
	if !intent.RequireInteraction {
		tracked.timer = time.AfterFunc(d.autoClose, func() {
			d.closeTag(tag)
		})
	}

	d.mu.Lock()
	d.active[tag] = tracked
	d.mu.Unlock()

	return true
}

// CloseAll dismisses every notification the dispatcher is tracking.
func (d *Dispatcher) CloseAll() {
	d.mu.Lock()
	tracked := make([]*trackedNotification, 0, len(d.active))
	for tag, t := range d.active {
		tracked = append(tracked, t)
		delete(d.active, tag)
	}
	d.mu.Unlock()

	for _, t := range tracked {
		t.dismiss()
	}
}

// ActiveCount returns the number of notifications currently on display.
func (d *Dispatcher) ActiveCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.active)
}

// closeTag dismisses the notification tracked under tag, if any. The
// delivery is closed outside the lock: closing may re-enter release.
func (d *Dispatcher) closeTag(tag string) {
	d.mu.Lock()
	tracked, ok := d.active[tag]
	if ok {
		delete(d.active, tag)
	}
	d.mu.Unlock()

	if ok {
		tracked.dismiss()
	}
}

// release drops tracking after the host reports the notification closed.
func (d *Dispatcher) release(tag string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.active, tag)
}

func (t *trackedNotification) dismiss() {
	if t.timer != nil {
		t.timer.Stop()
	}
	t.delivery.Close()
}
