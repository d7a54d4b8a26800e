package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bananamirror/relay"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// WriteStatus writes a generic error response for code. The body only names the
// status so that callers cannot learn which check failed.
func WriteStatus(w http.ResponseWriter, code int) {
	text := http.StatusText(code)
	WriteError(w, code, strings.ToLower(strings.ReplaceAll(text, " ", "_")), text)
}

// HandleError writes appropriate error response based on error type
func HandleError(w http.ResponseWriter, err error) {
	var authErr *relay.AuthError
	if errors.As(err, &authErr) && authErr.Status != 0 {
		WriteStatus(w, authErr.Status)
		return
	}

	if errors.Is(err, relay.ErrInvalidInput) {
		slog.Info("rejected request body", "error", err)
		WriteStatus(w, http.StatusBadRequest)
		return
	}

	if errors.Is(err, relay.ErrUnauthorized) {
		slog.Info("rejected request", "error", err)
		WriteStatus(w, http.StatusForbidden)
		return
	}

	slog.Error("request error", "error", err)
	WriteStatus(w, http.StatusInternalServerError)
}

// WriteText writes a plain text response
func WriteText(w http.ResponseWriter, code int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write([]byte(text)); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
