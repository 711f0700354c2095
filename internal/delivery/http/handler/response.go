package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"darion/internal/infrastructure/logging"
)

// Response is the envelope every JSON endpoint answers with. Endpoints
// with a richer body embed it so success and message stay at the top level.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// SendJSON writes data with the given status. The status line is already
// out when encoding fails, so the failure is only logged.
func SendJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.L().Warn("failed to write response", zap.Int("status", statusCode), zap.Error(err))
	}
}

// SendSuccess wraps data in a successful envelope
func SendSuccess(w http.ResponseWriter, message string, data any) {
	SendJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// SendError answers with a failed envelope carrying only message
func SendError(w http.ResponseWriter, message string, statusCode int) {
	SendJSON(w, statusCode, Response{Message: message})
}
