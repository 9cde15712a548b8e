package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Machine-readable error codes returned in the "code" field of error bodies.
const (
	codeValidation  = "validation_error"
	codeNotFound    = "not_found"
	codeConflict    = "conflict"
	codeAuthFailed  = "auth_failed"
	codeRateLimited = "rate_limited"
	codeInternal    = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// writeMessage sends a 200 response carrying only a message.
func writeMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

// writeError sends a JSON error response with the given status code, code, and message.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Message: message, Code: code})
}

// writeInternalError logs err under op and sends a generic 500.
func writeInternalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	slog.Error(op, "error", err, "request_id", RequestIDFromContext(r.Context()))
	writeError(w, http.StatusInternalServerError, codeInternal, "An unexpected error occurred. Please try again.")
}

// readJSON decodes the request body into the given destination.
func readJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
