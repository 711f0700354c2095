package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"darion/internal/application/assistant"
	"darion/internal/domain/conversation"
	"darion/internal/infrastructure/logging"
)

type AssistantHandler struct {
	service assistant.Service
}

func NewAssistantHandler(service assistant.Service) *AssistantHandler {
	return &AssistantHandler{service: service}
}

// Query handles POST /api/ai-query
func (h *AssistantHandler) Query(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req conversation.QueryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		SendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	reply, sessionID, err := h.service.Query(r.Context(), SessionFromRequest(r), req.Query)
	if sessionID != "" {
		setSession(w, sessionID)
	}
	if err != nil {
		switch {
		case errors.Is(err, conversation.ErrEmptyQuery):
			SendError(w, "No query provided", http.StatusBadRequest)
		case errors.Is(err, conversation.ErrAssistantUnavailable):
			SendError(w, "AI assistant is not configured", http.StatusServiceUnavailable)
		case errors.Is(err, conversation.ErrCompletionFailed):
			SendError(w, "Failed to get AI response", http.StatusBadGateway)
		default:
			logging.WithContext(r.Context()).Error("query failed", zap.Error(err))
			SendError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	SendJSON(w, http.StatusOK, conversation.QueryResponse{Response: reply})
}

// Reset handles POST /api/conversation/reset
func (h *AssistantHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.service.Reset(SessionFromRequest(r)); err != nil {
		logging.WithContext(r.Context()).Error("reset failed", zap.Error(err))
		SendError(w, "Failed to reset conversation", http.StatusInternalServerError)
		return
	}

	SendSuccess(w, "Conversation history reset successfully", nil)
}
