package models

import "time"

const (
	SyncStatusUnsynced = "unsynced"
	SyncStatusSynced   = "synced"
	SyncStatusError    = "error"
)

type Event struct {
	ID            string
	UserID        string
	Title         string
	Description   string
	StartsAt      time.Time
	EndsAt        time.Time
	Reminder      bool
	ProjectID     *string
	IsExternal    bool
	GoogleEventID *string
	SyncStatus    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Notification is what the reminder poller raises for a due event.
type Notification struct {
	EventID  string    `json:"event_id"`
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
	RaisedAt time.Time `json:"raised_at"`
}
