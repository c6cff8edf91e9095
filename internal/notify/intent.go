package notify

import (
	"fmt"
	"math"
	"time"

	"github.com/notexe/reminderd/internal/reminder"
)

const descriptionLimit = 100

// Intent is the composed, not-yet-delivered notification. Building it is
// pure; only the dispatcher touches the outside world.
type Intent struct {
	ReminderID         string
	Type               string
	Title              string
	Body               string
	Tag                string
	RequireInteraction bool
}

// MinutesUntilDue returns the whole minutes between now and the due date,
// rounded down (so 30 seconds overdue counts as one minute overdue).
func MinutesUntilDue(r reminder.Reminder, now time.Time) int {
	return int(math.Floor(r.DueDate.Sub(now).Minutes()))
}

// BuildIntent composes the title and body for a reminder notification of
// the given type, evaluated at the given time.
func BuildIntent(r reminder.Reminder, typ string, now time.Time) Intent {
	intent := Intent{
		ReminderID: r.ID,
		Type:       typ,
		Tag:        "reminder-" + r.ID,
	}

	minutes := MinutesUntilDue(r, now)

	switch typ {
	case TypeOverdue:
		overdue := minutes
		if overdue < 0 {
			overdue = -overdue
		}
		intent.Title = fmt.Sprintf("Overdue: %s", r.Title)
		intent.Body = fmt.Sprintf("Was due %d minutes ago", overdue)
		intent.RequireInteraction = true

	case TypeUpcoming:
		intent.Title = fmt.Sprintf("Reminder: %s", r.Title)
		switch {
		case minutes <= 0:
			intent.Body = "Due now"
			intent.RequireInteraction = true
		case minutes <= 5:
			intent.Body = fmt.Sprintf("Due in %d minute(s)", minutes)
		default:
			intent.Body = "Due soon"
		}

	case TypeRecurrence:
		intent.Title = fmt.Sprintf("Reminder: %s", r.Title)
		intent.Body = "Next occurrence coming up"
	}

	if r.Description != "" {
		intent.Body += "\n" + truncate(r.Description, descriptionLimit)
	}

	return intent
}

// TestIntent is the fixed notification used to validate settings without
// waiting for a real reminder.
func TestIntent() Intent {
	return Intent{
		ReminderID: "test",
		Type:       TypeUpcoming,
		Title:      "Test Notification",
		Body:       "Notifications are working.",
		Tag:        "reminder-test",
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
