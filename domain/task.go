package domain

import "time"

// Priority classifies a task by urgency.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ParsePriority validates a raw priority value against the enum.
func ParsePriority(value string) (Priority, bool) {
	switch Priority(value) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(value), true
	default:
		return "", false
	}
}

// Task represents a user-owned activity item. Every read and mutation is
// scoped by UserID; a task never crosses its owner's boundary.
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	EndDate     time.Time `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *Task) IsOverdue(reference time.Time) bool {
	return t != nil && !t.EndDate.IsZero() && t.EndDate.Before(reference)
}
