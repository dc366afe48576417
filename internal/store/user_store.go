package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mzurek/taskflow/internal/model"
)

// CreateUser inserts a new user with the given password hash.
// Returns ErrDuplicate when the email or username is already taken.
func (s *SQLiteStore) CreateUser(
	ctx context.Context,
	user model.User,
	passwordHash string,
) error {
	if strings.TrimSpace(user.Email) == "" || strings.TrimSpace(user.Username) == "" {
		return fmt.Errorf("username and email must not be empty")
	}
	if passwordHash == "" {
		return fmt.Errorf("password hash must not be empty")
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	var existing int
	err := s.db.GetContext(ctx, &existing,
		"SELECT COUNT(*) FROM users WHERE email = ? OR username = ?",
		user.Email, user.Username,
	)
	if err != nil {
		return fmt.Errorf("checking existing user: %w", err)
	}
	if existing > 0 {
		return fmt.Errorf("user with email %s or username %s: %w",
			user.Email, user.Username, ErrDuplicate)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (
			id, username, email, password_hash,
			first_name, last_name, phone, location, avatar,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, passwordHash,
		user.FirstName, user.LastName, user.Phone, user.Location, user.Avatar,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user profile by ID.
func (s *SQLiteStore) GetUserByID(
	ctx context.Context,
	id string,
) (*model.User, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM users WHERE id = ?", id)

	user, _, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}
	return &user, nil
}

// GetCredentialByEmail retrieves a user profile together with its
// stored password hash, for the login path.
func (s *SQLiteStore) GetCredentialByEmail(
	ctx context.Context,
	email string,
) (*Credential, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM users WHERE email = ?", email)

	user, hash, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("getting credential for %s: %w", email, err)
	}
	return &Credential{User: user, PasswordHash: hash}, nil
}

// UpdateProfile merges the allow-listed patch fields into the user's
// profile and returns the updated profile.
func (s *SQLiteStore) UpdateProfile(
	ctx context.Context,
	id string,
	patch model.ProfilePatch,
) (*model.User, error) {
	current, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(*current)
	updated.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE users SET
			first_name = ?, last_name = ?, phone = ?,
			location = ?, avatar = ?, updated_at = ?
		WHERE id = ?`,
		updated.FirstName, updated.LastName, updated.Phone,
		updated.Location, updated.Avatar, updated.UpdatedAt,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating profile %s: %w", id, err)
	}

	return &updated, nil
}

// scanUser scans a user row, returning the profile and password hash.
func scanUser(row rowScanner) (model.User, string, error) {
	var (
		user model.User
		hash string
	)

	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &hash,
		&user.FirstName, &user.LastName, &user.Phone,
		&user.Location, &user.Avatar,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, "", err
		}
		return model.User{}, "", fmt.Errorf("scanning user row: %w", err)
	}

	return user, hash, nil
}
