package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jvilloslada/taskdeck-be/internal/apperr"
	"github.com/jvilloslada/taskdeck-be/internal/auth"
	"github.com/jvilloslada/taskdeck-be/internal/models"
	"github.com/jvilloslada/taskdeck-be/internal/services"
)

// TaskHandler handles HTTP requests for task management.
type TaskHandler struct {
	service services.TaskServiceProvider
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider) *TaskHandler {
	return &TaskHandler{service: service}
}

// taskPayload is shared by create and update. Pointer fields distinguish
// "absent" from "zero"; Deadline keeps the raw JSON so an explicit null
// (clear the deadline) is distinguishable from the field being omitted.
type taskPayload struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Status      *string         `json:"status"`
	Deadline    json.RawMessage `json:"deadline"`
	Progress    *int            `json:"progress"`
}

// parseDeadline accepts RFC 3339 timestamps and bare dates.
func parseDeadline(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// deadlineFromJSON interprets the raw deadline field: (nil, false) when the
// field was omitted or null, the parsed time otherwise.
func deadlineFromJSON(raw json.RawMessage) (*time.Time, bool, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, len(raw) != 0, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, apperr.Validation("Invalid deadline")
	}
	t, err := parseDeadline(s)
	if err != nil {
		return nil, false, apperr.Validation("Invalid deadline")
	}
	return &t, true, nil
}

// List returns the caller's tasks, newest first.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r.Context())
	tasks, err := h.service.ListTasks(r.Context(), user.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

// Create handles the request to create a new task for the caller.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r.Context())

	var payload taskPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, r, err)
		return
	}

	deadline, _, err := deadlineFromJSON(payload.Deadline)
	if err != nil {
		respondError(w, r, err)
		return
	}

	input := services.CreateTaskInput{
		Deadline: deadline,
		Progress: payload.Progress,
	}
	if payload.Title != nil {
		input.Title = *payload.Title
	}
	if payload.Description != nil {
		input.Description = *payload.Description
	}
	if payload.Status != nil {
		input.Status = models.TaskStatus(*payload.Status)
	}

	task, err := h.service.CreateTask(r.Context(), user.ID, input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

// Update applies a partial update to one of the caller's tasks.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r.Context())
	id := chi.URLParam(r, "id")

	var payload taskPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, r, err)
		return
	}

	deadline, deadlineSet, err := deadlineFromJSON(payload.Deadline)
	if err != nil {
		respondError(w, r, err)
		return
	}

	input := services.UpdateTaskInput{
		Title:       payload.Title,
		Description: payload.Description,
		Deadline:    deadline,
		DeadlineSet: deadlineSet,
		Progress:    payload.Progress,
	}
	if payload.Status != nil {
		status := models.TaskStatus(*payload.Status)
		input.Status = &status
	}

	task, err := h.service.UpdateTask(r.Context(), user.ID, id, input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// Delete removes one of the caller's tasks.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteTask(r.Context(), user.ID, id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
