package poller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotifiedKey_BucketsByFiveMinutes(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// Times inside the same 5-minute bucket share a key.
	assert.Equal(t, notifiedKey("r1", base), notifiedKey("r1", base.Add(4*time.Minute)))

	// The next bucket produces a different key.
	assert.NotEqual(t, notifiedKey("r1", base), notifiedKey("r1", base.Add(5*time.Minute)))

	// Different reminders never collide.
	assert.NotEqual(t, notifiedKey("r1", base), notifiedKey("r2", base))
}

func TestNotifiedSet_SeenAfterAdd(t *testing.T) {
	s := NewNotifiedSet()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	key := notifiedKey("r1", now)
	assert.False(t, s.Seen(key))

	s.Add(key)
	assert.True(t, s.Seen(key))
	assert.Equal(t, 1, s.Len())
}

func TestNotifiedSet_PruneDropsExpiredKeys(t *testing.T) {
	s := NewNotifiedSet()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	fresh := notifiedKey("r1", now)
	stale := notifiedKey("r2", now.Add(-25*time.Hour))
	s.Add(fresh)
	s.Add(stale)

	s.Prune(now)

	assert.True(t, s.Seen(fresh))
	assert.False(t, s.Seen(stale))
	assert.Equal(t, 1, s.Len())
}

func TestNotifiedSet_PruneKeepsExactBoundary(t *testing.T) {
	s := NewNotifiedSet()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// Exactly 24 hours old sits on the cutoff bucket and survives; one
	// bucket older does not.
	boundary := notifiedKey("r1", now.Add(-24*time.Hour))
	past := notifiedKey("r2", now.Add(-24*time.Hour-5*time.Minute))
	s.Add(boundary)
	s.Add(past)

	s.Prune(now)

	assert.True(t, s.Seen(boundary))
	assert.False(t, s.Seen(past))
}

func TestNotifiedSet_PruneHandlesDashedIDs(t *testing.T) {
	s := NewNotifiedSet()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// UUID-style IDs contain dashes; only the suffix after the last dash
	// is the bucket index.
	key := notifiedKey("a1b2-c3d4-e5f6", now)
	s.Add(key)

	s.Prune(now)
	assert.True(t, s.Seen(key))
}

func TestNotifiedSet_PruneDropsMalformedKeys(t *testing.T) {
	s := NewNotifiedSet()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	s.Add("nodash")
	s.Add("r1-notanumber")

	s.Prune(now)
	assert.Equal(t, 0, s.Len())
}
