package handler

import (
	"errors"
	"net/http"
	"strings"

	syncService "darion/internal/application/sync"
	"darion/internal/domain/integration"
)

type SyncHandler struct {
	service syncService.Service
}

func NewSyncHandler(service syncService.Service) *SyncHandler {
	return &SyncHandler{service: service}
}

type syncResponse struct {
	Response string `json:"response"`
}

// Sync handles GET /api/sync/{target}
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	target := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/sync/"), "/")
	if target == "" {
		target = integration.TargetAll
	}

	reply, err := h.service.Sync(r.Context(), target)
	if err != nil {
		if errors.Is(err, integration.ErrUnknownTarget) {
			SendError(w, "Unknown sync target", http.StatusNotFound)
			return
		}
		SendError(w, "Failed to sync data", http.StatusInternalServerError)
		return
	}

	SendJSON(w, http.StatusOK, syncResponse{Response: reply})
}
