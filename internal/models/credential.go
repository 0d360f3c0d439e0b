package models

import "time"

// GoogleCredential holds the OAuth token obtained by the
// consent callback. One row per user.
type GoogleCredential struct {
	UserID       string
	AccessToken  string
	RefreshToken string
	TokenType    string
	Expiry       time.Time
	LastSyncAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SyncStatus is the derived aggregate reported for the current
// connection. It is recomputed from the events table on request,
// never persisted.
type SyncStatus struct {
	Connected     bool       `json:"connected"`
	TotalEvents   int        `json:"total_events"`
	SyncedEvents  int        `json:"synced_events"`
	PendingEvents int        `json:"pending_events"`
	ErrorEvents   int        `json:"error_events"`
	LastSync      *time.Time `json:"last_sync,omitempty"`
}
