package poller

import (
	"time"

	"github.com/notexe/reminderd/internal/notify"
	"github.com/notexe/reminderd/internal/reminder"
)

// Standard lead times (minutes before due) at which an upcoming reminder
// notifies. High and urgent priority reminders get one extra, earlier
// warning at 30 minutes.
var upcomingLeadTimes = map[int]bool{15: true, 5: true, 1: true, 0: true}

const highPriorityLeadTime = 30

// Classify decides whether "now" is a moment that warrants a notification
// for the reminder, and with which type. The overdue check runs first and
// is exclusive with upcoming. Recurring reminders follow the same due-date
// logic as one-shot ones.
func Classify(r reminder.Reminder, now time.Time, types notify.TypeSettings) (string, bool) {
	minutes := notify.MinutesUntilDue(r, now)

	if minutes < 0 && types.Overdue {
		overdue := -minutes
		// Every 15 minutes for the first hour overdue, hourly after.
		if overdue <= 60 {
			return notify.TypeOverdue, overdue%15 == 0
		}
		return notify.TypeOverdue, overdue%60 == 0
	}

	if types.Upcoming {
		if upcomingLeadTimes[minutes] {
			return notify.TypeUpcoming, true
		}
		if minutes == highPriorityLeadTime && r.IsHighPriority() {
			return notify.TypeUpcoming, true
		}
	}

	return "", false
}
