package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mzurek/taskflow/internal/model"
	"github.com/mzurek/taskflow/internal/store"
)

// handleRegister creates a new account and issues its first session.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg model.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(reg.Username) == "" ||
		strings.TrimSpace(reg.Email) == "" ||
		reg.Password == "" {
		writeError(w, http.StatusBadRequest, "Username, email, and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error during registration")
		return
	}

	user := model.User{
		Username:  reg.Username,
		Email:     reg.Email,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
	}

	if err := s.store.CreateUser(r.Context(), user, string(hash)); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict,
				"User with this email or username already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error during registration")
		return
	}

	cred, err := s.store.GetCredentialByEmail(r.Context(), reg.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error during registration")
		return
	}

	token, err := s.issueSession(r.Context(), cred.User.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error during registration")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    cred.User,
	})
}

// handleLogin verifies credentials and issues a session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cred, err := s.store.GetCredentialByEmail(r.Context(), creds.Email)
	if err != nil {
		// Unknown email and wrong password are indistinguishable
		// to the caller.
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(creds.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.issueSession(r.Context(), cred.User.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error during login")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    cred.User,
	})
}

// handleGetProfile returns the signed-in user's profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUserByID(r.Context(), ownerID(r))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error fetching profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// handleUpdateProfile merges an allow-listed patch into the profile.
// Fields outside the allow-list (email, username, password) are
// rejected rather than silently dropped.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var patch model.ProfilePatch
	if err := dec.Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest,
			"Only firstName, lastName, phone, location, and avatar may be updated")
		return
	}

	user, err := s.store.UpdateProfile(r.Context(), ownerID(r), patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error updating profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}
