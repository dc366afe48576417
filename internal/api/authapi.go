package api

import (
	"context"
	"fmt"

	"github.com/mzurek/taskflow/internal/model"
)

// AuthResult is the outcome of a successful login or registration.
type AuthResult struct {
	Token string
	User  model.User
}

// authEnvelope is the login/register response shape.
type authEnvelope struct {
	Success bool       `json:"success"`
	Token   string     `json:"token"`
	User    model.User `json:"user"`
	Message string     `json:"message,omitempty"`
}

// userEnvelope is the profile response shape.
type userEnvelope struct {
	Success bool       `json:"success"`
	User    model.User `json:"user"`
	Message string     `json:"message,omitempty"`
}

// loginRequest is the credentials payload for login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session token and user profile.
func (c *Client) Login(
	ctx context.Context,
	email, password string,
) (*AuthResult, error) {
	var env authEnvelope
	err := c.post(ctx, "/api/users/login", loginRequest{Email: email, Password: password}, &env)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	return &AuthResult{Token: env.Token, User: env.User}, nil
}

// Register creates a new account and returns its first session.
// A taken email or username surfaces as ErrConflict.
func (c *Client) Register(
	ctx context.Context,
	reg model.Registration,
) (*AuthResult, error) {
	var env authEnvelope
	if err := c.post(ctx, "/api/users/register", reg, &env); err != nil {
		return nil, fmt.Errorf("registering: %w", err)
	}
	return &AuthResult{Token: env.Token, User: env.User}, nil
}

// UpdateProfile applies an allow-listed profile patch and returns the
// updated profile.
func (c *Client) UpdateProfile(
	ctx context.Context,
	patch model.ProfilePatch,
) (*model.User, error) {
	var env userEnvelope
	if err := c.put(ctx, "/api/users/profile", patch, &env); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return &env.User, nil
}

// Profile fetches the signed-in user's profile.
func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var env userEnvelope
	if err := c.get(ctx, "/api/users/profile", &env); err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	return &env.User, nil
}
