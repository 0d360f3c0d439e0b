package models

import "time"

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
