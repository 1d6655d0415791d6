package api

// responses.go provides helper functions for sending HTTP responses from the
// gateway handlers.

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sphere-wallet/sphere-gateway/internal/logger"
)

// MsgUnauthorized is the response body message for requests with a missing,
// invalid or expired identity token.
const MsgUnauthorized = "Unauthorised Access: Invalid or Expired Token. Please Login Again!"

// ErrorResponse is the error payload returned by every gateway endpoint.
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// RespondWithError sends an ErrorResponse as JSON and logs the failure
// server-side with the request-scoped logger.
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	reqLogger := logger.ContextRequestLogger(r.Context())
	reqLogger.Warn("Request failed",
		slog.Int("status_code", statusCode),
		slog.String("message", message),
	)

	RespondWithJSON(w, statusCode, ErrorResponse{Message: message, Status: statusCode})
}

// RespondWithJSON sends a JSON response with the given status code.
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			// headers are already written, log and move on
			slog.Error("Failed to encode JSON response",
				slog.String("error", err.Error()),
			)
		}
	}
}
