package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateSession inserts a new session token record.
func (s *SQLiteStore) CreateSession(ctx context.Context, sess Session) error {
	if sess.Token == "" || sess.UserID == "" {
		return fmt.Errorf("session token and user id must not be empty")
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)`,
		sess.Token, sess.UserID, sess.ExpiresAt.UTC(), sess.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by token. Expired sessions are
// still returned; the caller decides how to treat them.
func (s *SQLiteStore) GetSession(
	ctx context.Context,
	token string,
) (*Session, error) {
	var sess Session
	err := s.db.GetContext(ctx, &sess,
		"SELECT * FROM sessions WHERE token = ?", token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return &sess, nil
}

// DeleteSession removes a session by token. No-op if absent.
func (s *SQLiteStore) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE token = ?", token)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all sessions whose expiry is at or
// before now.
func (s *SQLiteStore) DeleteExpiredSessions(
	ctx context.Context,
	now time.Time,
) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE expires_at <= ?", now.UTC())
	if err != nil {
		return fmt.Errorf("deleting expired sessions: %w", err)
	}
	return nil
}
