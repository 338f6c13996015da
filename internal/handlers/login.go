package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	applog "sekisan/internal/log"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type sessionResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Login processes sign-in submissions and establishes a session.
func Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if sessionManager == nil || database == nil {
		applog.Debug(r.Context(), "authentication dependencies unavailable",
			"hasSession", sessionManager != nil, "hasDatabase", database != nil)
		writeJSONError(w, http.StatusServiceUnavailable, "authentication not available")
		return
	}

	var payload credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(r.Context(), "invalid login payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	email := strings.TrimSpace(payload.Email)
	if email == "" || payload.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if !authenticate(r, email, payload.Password) {
		applog.Debug(r.Context(), "authentication failed", "email", strings.ToLower(email))
		writeJSONError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	applog.Info(r.Context(), "user signed in", "email", strings.ToLower(email))
	writeJSON(w, http.StatusOK, sessionResponse{
		Email: sessionManager.GetString(r.Context(), sessionUserEmailKey),
		Name:  sessionManager.GetString(r.Context(), sessionUserNameKey),
	})
}
