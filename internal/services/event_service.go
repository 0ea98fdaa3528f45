package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/jvilloslada/taskdeck-be/internal/apperr"
	"github.com/jvilloslada/taskdeck-be/internal/models"
)

// EventServiceProvider defines the interface for the activity feed.
type EventServiceProvider interface {
	Record(ctx context.Context, userID string, taskID *string, eventType, level, message string) error
	Recent(ctx context.Context, userID string, limit int) ([]models.Event, error)
}

// EventService persists per-user activity events.
type EventService struct {
	db *sql.DB
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db}
}

// Record appends an event to a user's activity feed.
func (s *EventService) Record(ctx context.Context, userID string, taskID *string, eventType, level, message string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, user_id, task_id, type, level, message, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		uuid.New().String(), userID, taskID, eventType, level, message, time.Now().UTC())
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// Recent retrieves the most recent events for a user, newest first.
func (s *EventService) Recent(ctx context.Context, userID string, limit int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, task_id, type, level, message, created_at FROM events WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		var taskID sql.NullString
		if err := rows.Scan(&event.ID, &event.UserID, &taskID, &event.Type, &event.Level, &event.Message, &event.CreatedAt); err != nil {
			return nil, apperr.Storage(err)
		}
		if taskID.Valid {
			event.TaskID = &taskID.String
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err)
	}
	return events, nil
}
