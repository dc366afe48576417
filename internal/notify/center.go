// Package notify holds the in-memory notification center and the
// periodic due-date scanner that feeds it.
package notify

import (
	"sync"
	"time"

	"github.com/mzurek/taskflow/internal/model"
)

// Center is an ordered, mutable list of user-facing alerts with
// read/unread state. Entries are kept newest first.
type Center struct {
	mu            sync.Mutex
	notifications []model.Notification
	lastID        int64
}

// NewCenter creates an empty notification center.
func NewCenter() *Center {
	return &Center{}
}

// Add prepends a new unread notification and returns its identifier.
// Identifiers are time-based and strictly increasing, even for calls
// within the same nanosecond.
func (c *Center) Add(message, kind string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	id := now.UnixNano()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id

	n := model.Notification{
		ID:        id,
		Message:   message,
		Kind:      kind,
		Read:      false,
		Timestamp: now,
	}
	c.notifications = append([]model.Notification{n}, c.notifications...)
	return id
}

// MarkRead sets read=true for the matching entry. Idempotent; no-op
// if the id is absent.
func (c *Center) MarkRead(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.notifications {
		if c.notifications[i].ID == id {
			c.notifications[i].Read = true
			return
		}
	}
}

// Dismiss removes the matching entry. No-op if the id is absent.
func (c *Center) Dismiss(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.notifications {
		if c.notifications[i].ID == id {
			c.notifications = append(c.notifications[:i], c.notifications[i+1:]...)
			return
		}
	}
}

// UnreadCount returns the number of unread entries.
func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, n := range c.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// List returns a snapshot copy of all entries, newest first.
func (c *Center) List() []model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.Notification, len(c.notifications))
	copy(out, c.notifications)
	return out
}
