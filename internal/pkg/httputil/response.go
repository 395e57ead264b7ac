package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/ignite/users-server/internal/pkg/logger"
)

// ErrorResponse is the standard error envelope for ops errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("httputil: JSON encode failed", "error", err)
	}
}

// OK writes a 200 response with the given data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string, details any) {
	JSON(w, status, ErrorResponse{Error: message, Details: details})
}

// Unavailable writes a 503 carrying per-dependency details.
func Unavailable(w http.ResponseWriter, details any) {
	Error(w, http.StatusServiceUnavailable, "unavailable", details)
}
