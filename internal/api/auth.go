package api

import (
	"net/http"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Username == "" || body.Password == "" {
		writeFailure(w, http.StatusBadRequest, "Missing required fields: 'username' and 'password'.")
		return
	}

	session, err := s.auth.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, "Login successful.", map[string]any{
		"session_cookies": session,
	})
}

func (s *Server) handleGoogleAuth(w http.ResponseWriter, r *http.Request) {
	var body struct {
		GoogleId string `json:"google_id"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.GoogleId == "" {
		writeFailure(w, http.StatusBadRequest, "Missing required field: 'google_id'.")
		return
	}
	// PUT is the explicit linking call, credentials are not optional
	if r.Method == http.MethodPut && (body.Username == "" || body.Password == "") {
		writeFailure(w, http.StatusBadRequest, "Missing 'username' or 'password' for account linking.")
		return
	}

	session, err := s.auth.GoogleLogin(r.Context(), body.GoogleId, body.Username, body.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, "Google login successful.", map[string]any{
		"session_cookies": session,
	})
}

func (s *Server) handleValidateSession(w http.ResponseWriter, r *http.Request) {
	var body sessionBody
	if !decodeBody(w, r, &body) {
		return
	}
	session, ok := body.session(w)
	if !ok {
		return
	}

	valid := s.auth.ValidateSession(r.Context(), session)
	writeData(w, "Session check completed.", map[string]any{
		"isSessionValid": valid,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var body sessionBody
	if !decodeBody(w, r, &body) {
		return
	}
	session, ok := body.session(w)
	if !ok {
		return
	}

	if err := s.auth.Logout(r.Context(), session); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, "Logged out successfully.", nil)
}
