package events_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/reminderd/internal/events"
)

func TestBus_PublishReachesAllSubscribers(t *testing.T) {
	bus := events.NewBus()

	ch1, cancel1 := bus.Subscribe()
	defer cancel1()
	ch2, cancel2 := bus.Subscribe()
	defer cancel2()

	bus.Publish(events.ClickEvent{ReminderID: "r1", Type: "upcoming"})

	for _, ch := range []<-chan events.ClickEvent{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, "r1", ev.ReminderID)
		default:
			t.Fatal("expected a buffered event")
		}
	}
}

func TestBus_UnsubscribeClosesChannel(t *testing.T) {
	bus := events.NewBus()

	ch, cancel := bus.Subscribe()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Publishing after unsubscribe must not panic.
	bus.Publish(events.ClickEvent{ReminderID: "r1"})

	// Cancel is idempotent.
	cancel()
}

func TestBus_PublishNeverBlocks(t *testing.T) {
	bus := events.NewBus()

	_, cancel := bus.Subscribe()
	defer cancel()

	// Overflow the subscriber buffer; Publish drops rather than blocks.
	for i := 0; i < 100; i++ {
		bus.Publish(events.ClickEvent{ReminderID: "r1"})
	}
}

func TestBus_PublishWithNoSubscribers(t *testing.T) {
	bus := events.NewBus()
	require.NotPanics(t, func() {
		bus.Publish(events.ClickEvent{ReminderID: "r1"})
	})
}
