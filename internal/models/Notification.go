package models

import "time"

type NotificationState string

const (
	NotificationUnread NotificationState = "unread"
	NotificationRead   NotificationState = "read"
)

type Notification struct {
	ID        string            `json:"id"`
	State     NotificationState `json:"state"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"createdAt"`
	Data      map[string]string `json:"data,omitempty"`
}

// NotificationPayload is what callers provide; id, state and timestamp are assigned by the store.
type NotificationPayload struct {
	Type    string            `json:"type"`
	Title   string            `json:"title"`
	Message string            `json:"message"`
	Data    map[string]string `json:"data,omitempty"`
}
