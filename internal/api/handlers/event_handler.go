package handlers

import (
	"net/http"
	"strconv"

	"github.com/jvilloslada/taskdeck-be/internal/auth"
	"github.com/jvilloslada/taskdeck-be/internal/models"
	"github.com/jvilloslada/taskdeck-be/internal/services"
)

// EventHandler serves the caller's activity feed.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// Recent returns the caller's most recent activity events.
func (h *EventHandler) Recent(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r.Context())

	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 200 {
		limit = 200
	}

	events, err := h.service.Recent(r.Context(), user.ID, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	respondJSON(w, http.StatusOK, events)
}
