package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/taskflow/taskflow-api/internal/redact"
)

// ErrorResponse defines the standard error response structure. The body
// carries only the sanitized detail message; internal error content never
// leaves the log stream.
type ErrorResponse struct {
	Detail    string `json:"detail"`
	RequestID string `json:"request_id,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes a JSON error response with the given status code
// and message. It also sets the request ID from the context if available.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	requestID := GetRequestID(r.Context())

	slog.Debug("sending error response",
		"status_code", status,
		"detail", detail,
		"request_id", requestID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, ErrorResponse{Detail: detail, RequestID: requestID})
}

// RespondWithErrorAndLog writes a JSON error response and also logs the
// detailed error. The full error is logged (redacted) while only the
// sanitized detail message reaches the client.
//
// Log level strategy: 5xx errors are logged at ERROR level, 4xx at DEBUG.
func RespondWithErrorAndLog(w http.ResponseWriter, r *http.Request, status int, detail string, err error) {
	requestID := GetRequestID(r.Context())

	logAttrs := []slog.Attr{
		slog.String("request_id", requestID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("detail", detail),
	}

	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}

	slog.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, ErrorResponse{Detail: detail, RequestID: requestID})
}
