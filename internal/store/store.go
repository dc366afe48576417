package store

import (
	"context"
	"errors"
	"time"

	"github.com/mzurek/taskflow/internal/model"
)

// ErrNotFound is returned when the requested row does not exist
// (or belongs to a different owner).
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint is violated,
// such as registering an already-taken email or username.
var ErrDuplicate = errors.New("already exists")

// TaskFilter controls filtering and sorting for task queries.
// OwnerID is mandatory: tasks are only ever visible to their owner.
type TaskFilter struct {
	OwnerID  string
	Status   *string // exact status label, or nil (all)
	Priority *string // exact priority label, or nil (all)
	Search   *string // case-insensitive substring over title + description
}

// Credential pairs a user profile with its stored password hash.
// Only the login path reads it; the hash never leaves the server.
type Credential struct {
	User         model.User
	PasswordHash string
}

// Session is a server-side record of an issued session token.
type Session struct {
	Token     string    `db:"token"`
	UserID    string    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// Expired reports whether the session is past its expiry.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store defines the persistence interface for users, sessions, and tasks.
type Store interface {
	// === Users ===

	CreateUser(ctx context.Context, user model.User, passwordHash string) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetCredentialByEmail(ctx context.Context, email string) (*Credential, error)
	UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.User, error)

	// === Sessions ===

	CreateSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) error

	// === Tasks ===

	CreateTask(ctx context.Context, task model.Task) error
	UpdateTask(ctx context.Context, task model.Task) error
	DeleteTask(ctx context.Context, ownerID, id string) error
	GetTaskByID(ctx context.Context, ownerID, id string) (*model.Task, error)
	GetTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error)
}
