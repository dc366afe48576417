package server

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// ctxKey is the private context key type for request-scoped values.
type ctxKey int

const ctxKeyUserID ctxKey = iota

// ownerID extracts the authenticated user's id from the request
// context. Only valid inside requireAuth-wrapped handlers.
func ownerID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKeyUserID).(string)
	return id
}

// requireAuth resolves the Bearer token to a live session and attaches
// the owner id to the request context. Missing, unknown, or expired
// tokens yield 401; expired sessions are deleted on sight.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Authorization token required")
			return
		}

		sess, err := s.store.GetSession(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if sess.Expired(time.Now()) {
			_ = s.store.DeleteSession(r.Context(), token)
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUserID, sess.UserID)
		next(w, r.WithContext(ctx))
	}
}
