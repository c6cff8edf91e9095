package reminder

import "time"

// Priority levels for reminders.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Status values for reminders.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusSnoozed   = "snoozed"
	StatusCancelled = "cancelled"
)

// Recurrence type values. Empty means one-shot.
const (
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
	RecurrenceYearly  = "yearly"
)

// Reminder represents a scheduled reminder item as served by the backend.
// The ID is opaque; the backend owns the record, and this process only
// triggers status transitions through the API.
type Reminder struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	DueDate            time.Time `json:"due_date"`
	Priority           string    `json:"priority"`
	Status             string    `json:"status"`
	IsRecurring        bool      `json:"is_recurring"`
	RecurrenceType     string    `json:"recurrence_type,omitempty"`
	RecurrenceInterval int       `json:"recurrence_interval,omitempty"`
	Tags               []string  `json:"tags,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// IsPending reports whether the reminder still participates in
// notification classification.
func (r Reminder) IsPending() bool {
	return r.Status == StatusPending
}

// IsHighPriority reports whether the reminder qualifies for the extra
// early warning lead time.
func (r Reminder) IsHighPriority() bool {
	return r.Priority == PriorityHigh || r.Priority == PriorityUrgent
}

// UpdateFields holds optional fields for a partial update.
type UpdateFields struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
}
