package poller

import (
	"strconv"
	"strings"
	"time"
)

const (
	// bucketSize is the de-duplication window: a reminder notifies at most
	// once per bucket regardless of how often the loop runs.
	bucketSize = 5 * time.Minute

	// retention is how long notified keys are kept before pruning,
	// measured in bucket-relative age.
	retention = 24 * time.Hour
)

const bucketsRetained = int64(retention / bucketSize)

// bucketIndex returns the 5-minute bucket the given time falls into.
func bucketIndex(t time.Time) int64 {
	return t.Unix() / int64(bucketSize/time.Second)
}

// notifiedKey builds the composite de-dup key for a reminder at a time.
func notifiedKey(id string, t time.Time) string {
	return id + "-" + strconv.FormatInt(bucketIndex(t), 10)
}

// NotifiedSet is the session-local set of (reminder, bucket) pairs that
// have already produced a notification. It is owned by the poller, never
// persisted, and dies with the process.
type NotifiedSet struct {
	keys map[string]struct{}
}

func NewNotifiedSet() *NotifiedSet {
	return &NotifiedSet{keys: make(map[string]struct{})}
}

func (s *NotifiedSet) Seen(key string) bool {
	_, ok := s.keys[key]
	return ok
}

func (s *NotifiedSet) Add(key string) {
	s.keys[key] = struct{}{}
}

func (s *NotifiedSet) Len() int {
	return len(s.keys)
}

// Prune drops keys whose bucket is older than the retention window. The
// bucket index is parsed back out of the key suffix and compared in bucket
// units, so the cutoff arithmetic never mixes units. Reminder IDs may
// themselves contain dashes; only the suffix after the last dash is the
// bucket.
func (s *NotifiedSet) Prune(now time.Time) {
	cutoff := bucketIndex(now) - bucketsRetained

	for key := range s.keys {
		idx := strings.LastIndex(key, "-")
		if idx < 0 {
			delete(s.keys, key)
			continue
		}
		bucket, err := strconv.ParseInt(key[idx+1:], 10, 64)
		if err != nil || bucket < cutoff {
			delete(s.keys, key)
		}
	}
}
