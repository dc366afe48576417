package model

import "time"

// Task status constants.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Task priority constants.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// PriorityRank maps priority labels to a comparable weight
// (higher number = more urgent).
var PriorityRank = map[string]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
}

// ValidStatus reports whether s is one of the known status labels.
func ValidStatus(s string) bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusCompleted
}

// ValidPriority reports whether p is one of the known priority labels.
func ValidPriority(p string) bool {
	_, ok := PriorityRank[p]
	return ok
}

// Task is a single tracked work item owned by one user.
type Task struct {
	// ID is the unique identifier, assigned at creation and immutable.
	ID string `json:"id" db:"id"`

	// Title is the human-readable summary. Never empty.
	Title string `json:"title" db:"title"`

	// Description is the optional full body text.
	Description string `json:"description" db:"description"`

	// Status is one of the Status* constants.
	Status string `json:"status" db:"status"`

	// Priority is one of the Priority* constants.
	Priority string `json:"priority" db:"priority"`

	// DueDate is the optional deadline. Nil means no deadline;
	// undated tasks always sort after dated ones.
	DueDate *time.Time `json:"dueDate,omitempty" db:"due_date"`

	// OwnerID references the owning user. Tasks are visible and
	// editable only by their owner.
	OwnerID string `json:"ownerId" db:"owner_id"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is refreshed on every mutation.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Overdue reports whether the task has a due date strictly before now
// and has not been completed.
func (t Task) Overdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != StatusCompleted
}

// TaskInput carries the user-supplied fields for creating a task.
type TaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// TaskPatch carries an update to a subset of task fields.
// Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`

	// ClearDueDate removes the deadline. Distinct from a nil DueDate,
	// which means "leave unchanged".
	ClearDueDate bool `json:"clearDueDate,omitempty"`
}

// Apply returns a copy of t with the patch's non-nil fields merged in.
// Only the enumerated fields are updatable; identity, owner, and
// timestamps are never touched by a patch.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	return t
}
