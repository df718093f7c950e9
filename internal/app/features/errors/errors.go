// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// errorResponse is the JSON envelope every error reply uses.
type errorResponse struct {
	Error string `json:"error"`
}

// Write sends a JSON error with the given status.
func Write(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

// BadRequest rejects malformed or invalid input. 400.
func BadRequest(w http.ResponseWriter, msg string) {
	Write(w, http.StatusBadRequest, msg)
}

// Unauthorized tells the caller to sign in. 401.
func Unauthorized(w http.ResponseWriter) {
	Write(w, http.StatusUnauthorized, "sign in required")
}

// Forbidden rejects an action the signed-in user may not perform. 403.
func Forbidden(w http.ResponseWriter, msg string) {
	Write(w, http.StatusForbidden, msg)
}

// NotFound reports a missing resource. 404.
func NotFound(w http.ResponseWriter, msg string) {
	Write(w, http.StatusNotFound, msg)
}

// Conflict reports a state clash such as a duplicate email. 409.
func Conflict(w http.ResponseWriter, msg string) {
	Write(w, http.StatusConflict, msg)
}

// Internal logs the underlying error and returns a generic 500. The
// detail stays server-side.
func Internal(w http.ResponseWriter, log *zap.Logger, err error) {
	log.Error("internal error", zap.Error(err))
	Write(w, http.StatusInternalServerError, "something went wrong")
}

// BadGateway logs a failure talking to an upstream (Google, SMTP) and
// returns 502 with a caller-safe message.
func BadGateway(w http.ResponseWriter, log *zap.Logger, err error, msg string) {
	log.Error("upstream error", zap.Error(err))
	Write(w, http.StatusBadGateway, msg)
}
