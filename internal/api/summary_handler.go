package api

import (
	"net/http"

	"github.com/taskwire/taskwire/internal/api/shared"
	"github.com/taskwire/taskwire/internal/service"
)

// SummaryHandler handles summarization HTTP requests
type SummaryHandler struct {
	taskService service.TaskService
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(taskService service.TaskService) *SummaryHandler {
	return &SummaryHandler{taskService: taskService}
}

// Summarize handles POST /summarize requests.
// The operation never fails: the service degrades through the fallback
// chain and always hands back a non-empty summary string.
func (h *SummaryHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	summary := h.taskService.Summarize(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, SummaryResponse{Summary: summary})
}
