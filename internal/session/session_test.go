package session

import (
	"context"
	"errors"
	"testing"

	"github.com/mzurek/taskflow/internal/api"
	"github.com/mzurek/taskflow/internal/credential"
	"github.com/mzurek/taskflow/internal/model"
)

// fakeAuthAPI is a scriptable AuthAPI implementation.
type fakeAuthAPI struct {
	loginResult    *api.AuthResult
	loginErr       error
	registerResult *api.AuthResult
	registerErr    error
	updateResult   *model.User
	updateErr      error

	registered map[string]bool
}

func (f *fakeAuthAPI) Login(ctx context.Context, email, password string) (*api.AuthResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResult, nil
}

func (f *fakeAuthAPI) Register(ctx context.Context, reg model.Registration) (*api.AuthResult, error) {
	if f.registered[reg.Email] {
		return nil, api.ErrConflict
	}
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	if f.registered == nil {
		f.registered = make(map[string]bool)
	}
	f.registered[reg.Email] = true
	return f.registerResult, nil
}

func (f *fakeAuthAPI) UpdateProfile(ctx context.Context, patch model.ProfilePatch) (*model.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateResult, nil
}

// memCreds is an in-memory credential.Store.
type memCreds struct {
	token string
	user  *model.User
}

func (m *memCreds) Load() (string, *model.User, error) {
	if m.token == "" || m.user == nil {
		return "", nil, credential.ErrNotStored
	}
	u := *m.user
	return m.token, &u, nil
}

func (m *memCreds) Save(token string, user model.User) error {
	m.token = token
	m.user = &user
	return nil
}

func (m *memCreds) Clear() error {
	m.token = ""
	m.user = nil
	return nil
}

var testUser = model.User{ID: "u1", Username: "anna", Email: "anna@example.com"}

func TestStartsUnauthenticatedWithoutCredential(t *testing.T) {
	s := New(&fakeAuthAPI{}, &memCreds{}, nil)
	if s.State() != Unauthenticated {
		t.Errorf("state = %v, want unauthenticated", s.State())
	}
}

func TestStartsAuthenticatedFromPersistedCredential(t *testing.T) {
	creds := &memCreds{token: "stored", user: &testUser}

	var gotToken string
	s := New(&fakeAuthAPI{}, creds, func(tok string) { gotToken = tok })

	if s.State() != Authenticated {
		t.Fatalf("state = %v, want authenticated", s.State())
	}
	if gotToken != "stored" {
		t.Errorf("onToken received %q, want %q", gotToken, "stored")
	}
	if u := s.User(); u == nil || u.ID != "u1" {
		t.Errorf("user = %v", u)
	}
}

func TestLoginSuccessPersists(t *testing.T) {
	auth := &fakeAuthAPI{
		loginResult: &api.AuthResult{Token: "fresh", User: testUser},
	}
	creds := &memCreds{}
	s := New(auth, creds, nil)

	if err := s.Login(context.Background(), "anna@example.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if s.State() != Authenticated {
		t.Errorf("state = %v, want authenticated", s.State())
	}
	if creds.token != "fresh" || creds.user == nil {
		t.Error("credential was not persisted")
	}
}

func TestLoginFailureDoesNotPersist(t *testing.T) {
	auth := &fakeAuthAPI{loginErr: errors.New("invalid email or password")}
	creds := &memCreds{}
	s := New(auth, creds, nil)

	err := s.Login(context.Background(), "anna@example.com", "wrong")
	if err == nil {
		t.Fatal("expected login error")
	}
	if s.State() != Unauthenticated {
		t.Errorf("state = %v, want unauthenticated", s.State())
	}
	if creds.token != "" {
		t.Error("credential must not be persisted on failure")
	}
}

func TestLoginFailureRestoresPriorSession(t *testing.T) {
	auth := &fakeAuthAPI{loginErr: errors.New("invalid email or password")}
	creds := &memCreds{token: "stored", user: &testUser}
	s := New(auth, creds, nil)

	if err := s.Login(context.Background(), "other@example.com", "wrong"); err == nil {
		t.Fatal("expected login error")
	}

	if s.State() != Authenticated {
		t.Errorf("state = %v, want the prior session back", s.State())
	}
	if s.Token() != "stored" {
		t.Errorf("token = %q, want the stored one", s.Token())
	}
	if u := s.User(); u == nil || u.ID != "u1" {
		t.Errorf("user = %v, want the stored profile", u)
	}
}

func TestRegisterConflictLeavesSessionUntouched(t *testing.T) {
	auth := &fakeAuthAPI{
		registerResult: &api.AuthResult{Token: "first", User: testUser},
	}
	creds := &memCreds{}
	s := New(auth, creds, nil)

	reg := model.Registration{Username: "anna", Email: "anna@example.com", Password: "pw"}
	if err := s.Register(context.Background(), reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if s.State() != Authenticated {
		t.Fatalf("state = %v, want authenticated", s.State())
	}

	// Second registration with the same email must fail with the
	// conflict error and leave the existing session alone.
	err := s.Register(context.Background(), reg)
	if !errors.Is(err, api.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if s.State() != Authenticated {
		t.Errorf("existing session disturbed: state = %v", s.State())
	}
	if s.Token() != "first" {
		t.Errorf("token = %q, want %q", s.Token(), "first")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	creds := &memCreds{token: "stored", user: &testUser}

	var tokens []string
	s := New(&fakeAuthAPI{}, creds, func(tok string) { tokens = append(tokens, tok) })

	s.Logout()

	if s.State() != Unauthenticated {
		t.Errorf("state = %v, want unauthenticated", s.State())
	}
	if creds.token != "" || creds.user != nil {
		t.Error("persisted credential not cleared")
	}
	if len(tokens) != 2 || tokens[1] != "" {
		t.Errorf("onToken calls = %v, want trailing empty token", tokens)
	}
}

func TestAuthFailureForcesExpiry(t *testing.T) {
	creds := &memCreds{token: "stored", user: &testUser}
	s := New(&fakeAuthAPI{}, creds, nil)

	handled := s.HandleAuthFailure(&api.AuthError{Message: "token expired"})
	if !handled {
		t.Fatal("auth error not recognized")
	}
	if s.State() != Unauthenticated {
		t.Errorf("state = %v, want unauthenticated", s.State())
	}
	if creds.token != "" {
		t.Error("persisted credential not cleared on expiry")
	}

	// Non-auth errors must be left to the caller.
	if s.HandleAuthFailure(errors.New("network down")) {
		t.Error("transport error treated as auth failure")
	}
}

func TestUpdateProfileRequiresAuthenticated(t *testing.T) {
	s := New(&fakeAuthAPI{}, &memCreds{}, nil)

	err := s.UpdateProfile(context.Background(), model.ProfilePatch{})
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestUpdateProfileMergesAndPersists(t *testing.T) {
	updated := testUser
	updated.Location = "Warsaw"

	auth := &fakeAuthAPI{updateResult: &updated}
	creds := &memCreds{token: "stored", user: &testUser}
	s := New(auth, creds, nil)

	loc := "Warsaw"
	if err := s.UpdateProfile(context.Background(), model.ProfilePatch{Location: &loc}); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	if u := s.User(); u.Location != "Warsaw" {
		t.Errorf("location = %q, want Warsaw", u.Location)
	}
	if creds.user.Location != "Warsaw" {
		t.Error("updated profile not persisted")
	}
}
