// Package server implements the TaskFlow REST service: account
// registration and login, session-token authentication, and per-owner
// task CRUD with filtered queries.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mzurek/taskflow/internal/store"
)

// Server holds the handler dependencies.
type Server struct {
	store      store.Store
	sessionTTL time.Duration
}

// New creates a Server backed by the given store. Session tokens
// issued by login/register expire after sessionTTL.
func New(s store.Store, sessionTTL time.Duration) *Server {
	return &Server{store: s, sessionTTL: sessionTTL}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/users/register", s.handleRegister)
	mux.HandleFunc("POST /api/users/login", s.handleLogin)
	mux.HandleFunc("GET /api/users/profile", s.requireAuth(s.handleGetProfile))
	mux.HandleFunc("PUT /api/users/profile", s.requireAuth(s.handleUpdateProfile))

	mux.HandleFunc("GET /api/tasks", s.requireAuth(s.handleListTasks))
	mux.HandleFunc("GET /api/tasks/filter", s.requireAuth(s.handleFilterTasks))
	mux.HandleFunc("POST /api/tasks", s.requireAuth(s.handleCreateTask))
	mux.HandleFunc("GET /api/tasks/{id}", s.requireAuth(s.handleGetTask))
	mux.HandleFunc("PUT /api/tasks/{id}", s.requireAuth(s.handleUpdateTask))
	mux.HandleFunc("DELETE /api/tasks/{id}", s.requireAuth(s.handleDeleteTask))

	return mux
}

// issueSession creates and stores a fresh opaque session token for
// the user.
func (s *Server) issueSession(ctx context.Context, userID string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	now := time.Now().UTC()
	err := s.store.CreateSession(ctx, store.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError writes the service's failure envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}
