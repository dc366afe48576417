package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mzurek/taskflow/internal/model"
	"github.com/mzurek/taskflow/internal/store"
	"github.com/mzurek/taskflow/tests/testutil"
)

func createUser(t *testing.T, s *store.SQLiteStore, username, email string) model.User {
	t.Helper()
	user := model.User{ID: "user-" + username, Username: username, Email: email}
	if err := s.CreateUser(context.Background(), user, "hash-"+username); err != nil {
		t.Fatalf("creating user %s: %v", username, err)
	}
	return user
}

func createTask(t *testing.T, s *store.SQLiteStore, task model.Task) model.Task {
	t.Helper()
	if err := s.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("creating task %s: %v", task.Title, err)
	}
	return task
}

func strp(s string) *string { return &s }

func TestCreateUserAndGetByID(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	user := createUser(t, s, "alice", "alice@example.com")

	got, err := s.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got.Username != "alice" || got.Email != "alice@example.com" {
		t.Errorf("got user %q/%q, want alice/alice@example.com",
			got.Username, got.Email)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not set on created user")
	}
}

func TestCreateUserDuplicate(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	createUser(t, s, "alice", "alice@example.com")

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"same email", "bob", "alice@example.com"},
		{"same username", "alice", "other@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CreateUser(ctx,
				model.User{ID: "u2", Username: tt.username, Email: tt.email}, "hash")
			if !errors.Is(err, store.ErrDuplicate) {
				t.Errorf("got %v, want ErrDuplicate", err)
			}
		})
	}
}

func TestGetCredentialByEmail(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	user := createUser(t, s, "alice", "alice@example.com")

	cred, err := s.GetCredentialByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetCredentialByEmail: %v", err)
	}
	if cred.User.ID != user.ID {
		t.Errorf("got user %s, want %s", cred.User.ID, user.ID)
	}
	if cred.PasswordHash != "hash-alice" {
		t.Errorf("got hash %q, want hash-alice", cred.PasswordHash)
	}

	if _, err := s.GetCredentialByEmail(ctx, "nobody@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown email: got %v, want ErrNotFound", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	user := createUser(t, s, "alice", "alice@example.com")

	updated, err := s.UpdateProfile(ctx, user.ID, model.ProfilePatch{
		FirstName: strp("Alice"),
		Location:  strp("Berlin"),
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.FirstName != "Alice" || updated.Location != "Berlin" {
		t.Errorf("patch not applied: %+v", updated)
	}
	if updated.Email != "alice@example.com" || updated.Username != "alice" {
		t.Error("identity fields changed by profile patch")
	}

	// A later partial patch leaves earlier fields alone.
	updated, err = s.UpdateProfile(ctx, user.ID, model.ProfilePatch{Phone: strp("123")})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.FirstName != "Alice" || updated.Phone != "123" {
		t.Errorf("partial patch clobbered fields: %+v", updated)
	}

	if _, err := s.UpdateProfile(ctx, "missing", model.ProfilePatch{}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown user: got %v, want ErrNotFound", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	user := createUser(t, s, "alice", "alice@example.com")
	expiry := time.Now().Add(time.Hour).UTC()

	err := s.CreateSession(ctx, store.Session{
		Token:     "tok-1",
		UserID:    user.ID,
		ExpiresAt: expiry,
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	sess, err := s.GetSession(ctx, "tok-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if sess.UserID != user.ID {
		t.Errorf("got user %s, want %s", sess.UserID, user.ID)
	}
	if sess.Expired(time.Now()) {
		t.Error("fresh session reported expired")
	}
	if !sess.Expired(expiry.Add(time.Second)) {
		t.Error("past-expiry session not reported expired")
	}

	if err := s.DeleteSession(ctx, "tok-1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := s.GetSession(ctx, "tok-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("deleted session: got %v, want ErrNotFound", err)
	}

	// Deleting again is a no-op.
	if err := s.DeleteSession(ctx, "tok-1"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	user := createUser(t, s, "alice", "alice@example.com")
	now := time.Now().UTC()

	for _, sess := range []store.Session{
		{Token: "old", UserID: user.ID, ExpiresAt: now.Add(-time.Hour)},
		{Token: "fresh", UserID: user.ID, ExpiresAt: now.Add(time.Hour)},
	} {
		if err := s.CreateSession(ctx, sess); err != nil {
			t.Fatalf("CreateSession %s: %v", sess.Token, err)
		}
	}

	if err := s.DeleteExpiredSessions(ctx, now); err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}

	if _, err := s.GetSession(ctx, "old"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expired session survived: %v", err)
	}
	if _, err := s.GetSession(ctx, "fresh"); err != nil {
		t.Errorf("live session removed: %v", err)
	}
}

func TestCreateTaskDefaults(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	user := createUser(t, s, "alice", "alice@example.com")

	createTask(t, s, model.Task{ID: "t1", Title: "Write report", OwnerID: user.ID})

	got, err := s.GetTaskByID(ctx, user.ID, "t1")
	if err != nil {
		t.Fatalf("GetTaskByID: %v", err)
	}
	if got.Status != model.StatusTodo {
		t.Errorf("got status %q, want todo", got.Status)
	}
	if got.Priority != model.PriorityMedium {
		t.Errorf("got priority %q, want medium", got.Priority)
	}
	if got.DueDate != nil {
		t.Errorf("got due date %v, want nil", got.DueDate)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if err := s.CreateTask(ctx, model.Task{Title: "  ", OwnerID: "u1"}); err == nil {
		t.Error("blank title accepted")
	}
	if err := s.CreateTask(ctx, model.Task{Title: "ok"}); err == nil {
		t.Error("missing owner accepted")
	}
}

func TestUpdateTask(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	user := createUser(t, s, "alice", "alice@example.com")
	task := createTask(t, s, model.Task{
		ID: "t1", Title: "Write report", OwnerID: user.ID,
		Status: model.StatusTodo, Priority: model.PriorityLow,
	})

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	task.Title = "Write final report"
	task.Status = model.StatusInProgress
	task.DueDate = &due
	if err := s.UpdateTask(ctx, task); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	got, err := s.GetTaskByID(ctx, user.ID, "t1")
	if err != nil {
		t.Fatalf("GetTaskByID: %v", err)
	}
	if got.Title != "Write final report" || got.Status != model.StatusInProgress {
		t.Errorf("update not applied: %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("got due date %v, want %v", got.DueDate, due)
	}

	// Clearing the due date persists as NULL.
	task.DueDate = nil
	if err := s.UpdateTask(ctx, task); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	got, err = s.GetTaskByID(ctx, user.ID, "t1")
	if err != nil {
		t.Fatalf("GetTaskByID: %v", err)
	}
	if got.DueDate != nil {
		t.Errorf("due date not cleared: %v", got.DueDate)
	}
}

func TestTaskOwnerScoping(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	alice := createUser(t, s, "alice", "alice@example.com")
	bob := createUser(t, s, "bob", "bob@example.com")
	createTask(t, s, model.Task{ID: "t1", Title: "Alice's task", OwnerID: alice.ID})

	if _, err := s.GetTaskByID(ctx, bob.ID, "t1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("cross-owner get: got %v, want ErrNotFound", err)
	}

	stolen := model.Task{ID: "t1", Title: "Hijacked", OwnerID: bob.ID,
		Status: model.StatusTodo, Priority: model.PriorityLow}
	if err := s.UpdateTask(ctx, stolen); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("cross-owner update: got %v, want ErrNotFound", err)
	}
	if err := s.DeleteTask(ctx, bob.ID, "t1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("cross-owner delete: got %v, want ErrNotFound", err)
	}

	got, err := s.GetTaskByID(ctx, alice.ID, "t1")
	if err != nil {
		t.Fatalf("owner's task gone: %v", err)
	}
	if got.Title != "Alice's task" {
		t.Errorf("task modified across owners: %q", got.Title)
	}
}

func TestDeleteTask(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	user := createUser(t, s, "alice", "alice@example.com")
	createTask(t, s, model.Task{ID: "t1", Title: "Temp", OwnerID: user.ID})

	if err := s.DeleteTask(ctx, user.ID, "t1"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := s.GetTaskByID(ctx, user.ID, "t1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("deleted task: got %v, want ErrNotFound", err)
	}
	if err := s.DeleteTask(ctx, user.ID, "t1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestGetTasksFiltering(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	alice := createUser(t, s, "alice", "alice@example.com")
	bob := createUser(t, s, "bob", "bob@example.com")

	seed := []model.Task{
		{ID: "t1", Title: "Write report", Description: "quarterly numbers",
			Status: model.StatusTodo, Priority: model.PriorityHigh, OwnerID: alice.ID},
		{ID: "t2", Title: "Review PR", Description: "",
			Status: model.StatusInProgress, Priority: model.PriorityMedium, OwnerID: alice.ID},
		{ID: "t3", Title: "Ship release", Description: "includes REPORT appendix",
			Status: model.StatusCompleted, Priority: model.PriorityHigh, OwnerID: alice.ID},
		{ID: "t4", Title: "Bob's report", Status: model.StatusTodo,
			Priority: model.PriorityLow, OwnerID: bob.ID},
	}
	for _, task := range seed {
		createTask(t, s, task)
	}

	tests := []struct {
		name   string
		filter store.TaskFilter
		want   []string
	}{
		{"owner only", store.TaskFilter{OwnerID: alice.ID}, []string{"t1", "t2", "t3"}},
		{"by status", store.TaskFilter{OwnerID: alice.ID, Status: strp(model.StatusTodo)},
			[]string{"t1"}},
		{"by priority", store.TaskFilter{OwnerID: alice.ID, Priority: strp(model.PriorityHigh)},
			[]string{"t1", "t3"}},
		{"search title and description", store.TaskFilter{OwnerID: alice.ID, Search: strp("report")},
			[]string{"t1", "t3"}},
		{"search is case-insensitive", store.TaskFilter{OwnerID: alice.ID, Search: strp("REVIEW")},
			[]string{"t2"}},
		{"combined", store.TaskFilter{OwnerID: alice.ID,
			Priority: strp(model.PriorityHigh), Search: strp("report"),
			Status: strp(model.StatusCompleted)}, []string{"t3"}},
		{"no match", store.TaskFilter{OwnerID: alice.ID, Search: strp("zzz")}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := s.GetTasks(ctx, tt.filter)
			if err != nil {
				t.Fatalf("GetTasks: %v", err)
			}
			var got []string
			for _, task := range tasks {
				got = append(got, task.ID)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			seen := map[string]bool{}
			for _, id := range got {
				seen[id] = true
			}
			for _, id := range tt.want {
				if !seen[id] {
					t.Errorf("missing %s in %v", id, got)
				}
			}
		})
	}
}
