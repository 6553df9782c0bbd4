package entities

import "time"

// NotificationKind represents the banner style of a notification
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationInfo    NotificationKind = "info"
)

// Notification is an entry in the session notification log.
type Notification struct {
	ID        int64            `json:"id"`
	Kind      NotificationKind `json:"type"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
}

// NotificationEvent is what the event bus carries for one session.
type NotificationEvent struct {
	SessionID    string       `json:"session_id"`
	Notification Notification `json:"notification"`
}
