package model

import "time"

// Notification kind constants.
const (
	KindInfo    = "info"
	KindSuccess = "success"
	KindWarning = "warning"
	KindError   = "error"
)

// Notification is an alert surfaced to the user, either by the
// due-date scanner or by the outcome of a user action.
type Notification struct {
	// ID is unique and monotonically increasing (time-based).
	ID int64 `json:"id"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// Kind is one of the Kind* constants.
	Kind string `json:"kind"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"read"`

	// Timestamp is when this notification was created. Immutable.
	Timestamp time.Time `json:"timestamp"`
}
