package models

import "time"

// Event represents an entry in a user's activity feed.
type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	TaskID    *string   `json:"taskId,omitempty"` // Nullable for account-level events
	Type      string    `json:"type"`             // e.g. "task.created", "task.deadline.overdue"
	Level     string    `json:"level"`            // "info" or "warn"
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
