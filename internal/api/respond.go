package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"bmu-backend/lib/scrapers/gnums"
	"bmu-backend/services/auth"
	"bmu-backend/services/departments"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Warn("failed to encode response", "err", err)
	}
}

func writeData(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{
		Success: false,
		Message: message,
	})
}

// writeError maps a downstream failure onto the envelope. Portal
// rejections keep their message, everything unexpected is hidden
// behind a generic message with the cause in `details`.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var link *auth.LinkError
	if errors.As(err, &link) {
		// linking states are expected outcomes, the client switches on
		// `code` to drive its onboarding flow
		writeJSON(w, http.StatusOK, envelope{
			Success: true,
			Message: link.Message,
			Code:    link.Code,
		})
		return
	}

	if errors.Is(err, departments.ErrNotFound) {
		writeFailure(w, http.StatusNotFound, "Department not found.")
		return
	}

	var portal *gnums.PortalError
	if errors.As(err, &portal) {
		switch portal.Kind {
		case gnums.KindAuthentication, gnums.KindSession:
			writeFailure(w, http.StatusUnauthorized, portal.Message)
			return
		case gnums.KindValidation:
			writeFailure(w, http.StatusBadRequest, portal.Message)
			return
		case gnums.KindExternal:
			slog.ErrorContext(r.Context(), "external service error", "err", err)
			writeJSON(w, http.StatusBadGateway, envelope{
				Success: false,
				Message: "External service unavailable.",
				Details: err.Error(),
			})
			return
		}
	}

	slog.ErrorContext(r.Context(), "unexpected error", "path", r.URL.Path, "err", err)
	writeJSON(w, http.StatusInternalServerError, envelope{
		Success: false,
		Message: "Internal server error.",
		Details: err.Error(),
	})
}

// decodeBody rejects anything that is not a JSON object. A nil target
// still consumes and validates the body.
func decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	if target == nil {
		target = &map[string]any{}
	}
	err := json.NewDecoder(r.Body).Decode(target)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "Request body must be valid JSON.")
		return false
	}
	return true
}

type sessionBody struct {
	SessionCookies map[string]string `json:"session_cookies"`
}

func (b sessionBody) session(w http.ResponseWriter) (gnums.Session, bool) {
	if b.SessionCookies == nil {
		writeFailure(w, http.StatusBadRequest, "Missing 'session_cookies' in request body.")
		return nil, false
	}
	return gnums.Session(b.SessionCookies), true
}
