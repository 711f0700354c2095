package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	sortService "darion/internal/application/sorter"
	domain "darion/internal/domain/sorter"
)

type SortHandler struct {
	service sortService.Service
}

func NewSortHandler(service sortService.Service) *SortHandler {
	return &SortHandler{service: service}
}

// sortRequest is the body of POST /api/sort-files
type sortRequest struct {
	SourceDir string `json:"source_dir"`
	DestDir   string `json:"dest_dir"`
	Criteria  string `json:"criteria"`
	Recursive *bool  `json:"recursive"`
	DryRun    bool   `json:"dry_run"`
}

// sortResponse extends the common envelope with the job outcome
type sortResponse struct {
	Response
	Statistics domain.Statistics `json:"statistics"`
	Failures   []domain.Failure  `json:"failures"`
	Moves      []domain.Move     `json:"moves,omitempty"`
}

func (req sortRequest) toDomain() domain.SortRequest {
	criterion := domain.Criterion(req.Criteria)
	if criterion == "" {
		criterion = domain.CriterionType
	}
	recursive := true
	if req.Recursive != nil {
		recursive = *req.Recursive
	}
	return domain.SortRequest{
		SourceDir: req.SourceDir,
		DestDir:   req.DestDir,
		Criterion: criterion,
		Recursive: recursive,
		DryRun:    req.DryRun,
	}
}

// Sort handles POST /api/sort-files
func (h *SortHandler) Sort(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req sortRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		SendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Sort(r.Context(), req.toDomain())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			SendError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrDestinationBusy):
			SendError(w, "Another sort job is writing to this destination", http.StatusConflict)
		case errors.Is(err, domain.ErrTraversal):
			SendError(w, "Failed to read source directory", http.StatusInternalServerError)
		default:
			SendError(w, "Failed to sort files", http.StatusInternalServerError)
		}
		return
	}

	resp := sortResponse{
		Response:   Response{Success: true},
		Statistics: result.Statistics,
		Failures:   result.Failures,
	}
	if result.Statistics.DryRun {
		resp.Message = fmt.Sprintf("Planned %d moves by %s", result.Placed(), result.Statistics.Criteria)
		resp.Moves = result.Moves
	} else {
		resp.Message = fmt.Sprintf("Successfully sorted %d files by %s", result.Placed(), result.Statistics.Criteria)
	}
	if len(result.Failures) > 0 {
		resp.Message += fmt.Sprintf(", %d skipped", len(result.Failures))
	}

	SendJSON(w, http.StatusOK, resp)
}

// History handles GET /api/sort-files/history?limit=N
func (h *SortHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			SendError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	jobs, err := h.service.History(limit)
	if err != nil {
		SendError(w, "Failed to load sort history", http.StatusInternalServerError)
		return
	}

	SendSuccess(w, "", jobs)
}
