package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jvilloslada/taskdeck-be/internal/auth"
	"github.com/jvilloslada/taskdeck-be/internal/monitoring"
	"github.com/jvilloslada/taskdeck-be/internal/services"
)

// SystemHandler reports process and host health alongside the caller's task
// counts.
type SystemHandler struct {
	tasks     services.TaskServiceProvider
	startedAt time.Time
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(tasks services.TaskServiceProvider, startedAt time.Time) *SystemHandler {
	return &SystemHandler{tasks: tasks, startedAt: startedAt}
}

// Status returns uptime, host resource usage, and the caller's task tallies.
func (h *SystemHandler) Status(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r.Context())

	counts, err := h.tasks.CountByStatus(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	snapshot, err := monitoring.TakeSnapshot(r.Context())
	if err != nil {
		// Host stats are best-effort; the endpoint still reports task counts.
		log.Warn().Err(err).Msg("Failed to collect host stats")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
		"tasks":  counts,
		"host":   snapshot,
	})
}
