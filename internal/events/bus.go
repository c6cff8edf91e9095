// Package events carries notification interaction events to the rest of
// the application. Any component may subscribe to react to a clicked
// notification, e.g. to open or refresh the reminder in question.
package events

import "sync"

// ClickEvent is emitted when the user interacts with a delivered
// notification.
type ClickEvent struct {
	ReminderID string
	Type       string
}

// Bus is a small in-process fan-out for click events. Publish never
// blocks; a subscriber that lags simply misses events.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan ClickEvent
	next int
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[int]chan ClickEvent),
	}
}

// Subscribe registers a new subscriber and returns its channel along with
// an unsubscribe function.
func (b *Bus) Subscribe() (<-chan ClickEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++

	ch := make(chan ClickEvent, 8)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers the event to all current subscribers without blocking.
func (b *Bus) Publish(ev ClickEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
