package webhook

import (
	"encoding/json"
	"net/http"

	"github.com/nickustinov/homebar/internal/action"
)

// Response is the body of every command response.
type Response struct {
	Status  action.Status `json:"status"`
	Message string        `json:"message,omitempty"`
}

// Fixed error messages.
const (
	msgNotConfigured = "Server not configured"
	msgProRequired   = "Pro required"
	msgEmptyPath     = "Empty path"
	msgRateLimited   = "Rate limit exceeded"
	msgInternal      = "Internal server error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes {"status":"error","message":...}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Status: action.StatusError, Message: message})
}
