// Package session holds the client's authentication state machine and
// the persisted credential that backs it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mzurek/taskflow/internal/api"
	"github.com/mzurek/taskflow/internal/credential"
	"github.com/mzurek/taskflow/internal/model"
)

// State is the authentication state of the client.
type State int

const (
	// Unauthenticated means no valid credential is held.
	Unauthenticated State = iota

	// Authenticating covers the outbound login/register call.
	Authenticating

	// Authenticated means a token and user snapshot are held and
	// trusted until the first rejected boundary call.
	Authenticated
)

// String returns the state label.
func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// ErrNotAuthenticated is returned by operations that are only legal
// while signed in.
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthAPI is the narrow boundary contract the session store consumes.
// *api.Client satisfies it.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*api.AuthResult, error)
	Register(ctx context.Context, reg model.Registration) (*api.AuthResult, error)
	UpdateProfile(ctx context.Context, patch model.ProfilePatch) (*model.User, error)
}

// Store gates access to the rest of the client: it owns the session
// token and user profile, persists them across restarts, and drives
// the login/register/logout/expire transitions.
type Store struct {
	mu    sync.Mutex
	state State
	token string
	user  *model.User

	auth    AuthAPI
	creds   credential.Store
	onToken func(token string)
}

// New constructs a session store. onToken is invoked with the current
// token on every transition so the API client can send it (an empty
// token on logout/expiry). Construction reads the persisted
// credential: if both token and user are present the store starts
// Authenticated, trusting them until the first rejected call.
func New(auth AuthAPI, creds credential.Store, onToken func(token string)) *Store {
	s := &Store{
		auth:    auth,
		creds:   creds,
		onToken: onToken,
		state:   Unauthenticated,
	}

	token, user, err := creds.Load()
	if err == nil && token != "" && user != nil {
		s.state = Authenticated
		s.token = token
		s.user = user
		s.notifyToken(token)
	}

	return s
}

// State returns the current authentication state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns a copy of the signed-in user's profile, or nil.
func (s *Store) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the current session token, or empty.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Login exchanges credentials for a session. On success the token and
// user are persisted and the store becomes Authenticated; on failure
// the store returns to its prior state, nothing is persisted, and the
// error is surfaced to the caller.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	prev := s.state
	s.state = Authenticating
	s.mu.Unlock()

	result, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.setState(prev)
		return fmt.Errorf("login failed: %w", err)
	}

	s.establish(result.Token, result.User)
	return nil
}

// Register creates a new account and signs it in. A taken email or
// username surfaces as api.ErrConflict, distinct from server errors;
// an existing session is left untouched on failure.
func (s *Store) Register(ctx context.Context, reg model.Registration) error {
	s.mu.Lock()
	prev := s.state
	s.state = Authenticating
	s.mu.Unlock()

	result, err := s.auth.Register(ctx, reg)
	if err != nil {
		s.setState(prev)
		return fmt.Errorf("registration failed: %w", err)
	}

	s.establish(result.Token, result.User)
	return nil
}

// Logout clears the session and the persisted credential
// unconditionally.
func (s *Store) Logout() {
	s.clear()
}

// Expire handles a rejected token from the boundary: it clears the
// session and the persisted credential, returning the store to
// Unauthenticated so the caller can redirect to the login entry point.
func (s *Store) Expire() {
	s.clear()
}

// HandleAuthFailure inspects a boundary-call error: if it is an
// authorization failure the session is expired and true is returned.
func (s *Store) HandleAuthFailure(err error) bool {
	if !api.IsAuthError(err) {
		return false
	}
	s.Expire()
	return true
}

// UpdateProfile merges an allow-listed patch into the signed-in
// user's profile. Only legal while Authenticated.
func (s *Store) UpdateProfile(ctx context.Context, patch model.ProfilePatch) error {
	s.mu.Lock()
	if s.state != Authenticated {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	token := s.token
	s.mu.Unlock()

	updated, err := s.auth.UpdateProfile(ctx, patch)
	if err != nil {
		if s.HandleAuthFailure(err) {
			return fmt.Errorf("profile update rejected: %w", err)
		}
		return fmt.Errorf("profile update failed: %w", err)
	}

	s.mu.Lock()
	s.user = updated
	s.mu.Unlock()

	if err := s.creds.Save(token, *updated); err != nil {
		return fmt.Errorf("persisting updated profile: %w", err)
	}
	return nil
}

// establish records a fresh session and persists it.
func (s *Store) establish(token string, user model.User) {
	s.mu.Lock()
	s.state = Authenticated
	s.token = token
	u := user
	s.user = &u
	s.mu.Unlock()

	s.notifyToken(token)

	// Persistence failure does not invalidate the in-memory session;
	// the user is simply asked to sign in again next start.
	_ = s.creds.Save(token, user)
}

// clear drops the in-memory session and the persisted credential.
func (s *Store) clear() {
	s.mu.Lock()
	s.state = Unauthenticated
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	s.notifyToken("")
	_ = s.creds.Clear()
}

func (s *Store) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Store) notifyToken(token string) {
	if s.onToken != nil {
		s.onToken(token)
	}
}
