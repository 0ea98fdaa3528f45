package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jvilloslada/taskdeck-be/internal/apperr"
	"github.com/jvilloslada/taskdeck-be/internal/models"
)

// CreateTaskInput carries the fields accepted when creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus // empty means "todo"
	Deadline    *time.Time
	Progress    *int
}

// UpdateTaskInput carries a partial update. Nil fields are left unchanged.
// DeadlineSet distinguishes clearing the deadline from not touching it.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Deadline    *time.Time
	DeadlineSet bool
	Progress    *int
}

// TaskServiceProvider defines the interface for task services. Every
// operation is scoped to the owning user; a task id belonging to someone else
// behaves exactly like a missing one.
type TaskServiceProvider interface {
	ListTasks(ctx context.Context, userID string) ([]models.Task, error)
	CreateTask(ctx context.Context, userID string, input CreateTaskInput) (models.Task, error)
	UpdateTask(ctx context.Context, userID, id string, input UpdateTaskInput) (models.Task, error)
	DeleteTask(ctx context.Context, userID, id string) error
	CountByStatus(ctx context.Context, userID string) (map[models.TaskStatus]int, error)
}

// TaskService provides business logic for task management.
type TaskService struct {
	db     *sql.DB
	events EventServiceProvider
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *sql.DB, events EventServiceProvider) *TaskService {
	return &TaskService{db: db, events: events}
}

// ListTasks returns all tasks owned by a user, newest first.
func (s *TaskService) ListTasks(ctx context.Context, userID string) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, description, status, deadline, progress, created_at, updated_at
		 FROM tasks WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, apperr.Storage(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err)
	}
	return tasks, nil
}

// CreateTask validates the input and persists a new task owned by userID.
func (s *TaskService) CreateTask(ctx context.Context, userID string, input CreateTaskInput) (models.Task, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" {
		return models.Task{}, apperr.Validation("Title is required")
	}
	if description == "" {
		return models.Task{}, apperr.Validation("Description is required")
	}

	status := input.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !status.Valid() {
		return models.Task{}, apperr.Validation("Invalid status")
	}

	progress := models.DefaultProgress(status)
	if input.Progress != nil {
		progress = models.ClampProgress(*input.Progress)
	}

	now := time.Now().UTC()
	task := models.Task{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      status,
		Deadline:    input.Deadline,
		Progress:    progress,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, user_id, title, description, status, deadline, progress, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.UserID, task.Title, task.Description, string(task.Status),
		nullableTime(task.Deadline), task.Progress, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return models.Task{}, apperr.Storage(err)
	}

	s.recordEvent(ctx, userID, task.ID, "task.created", "info", "Created task \""+task.Title+"\"")
	return task, nil
}

// UpdateTask applies a partial update to a task owned by userID. The lookup
// and the write both carry the ownership predicate and run in one
// transaction, so a concurrent delete loses cleanly instead of resurrecting
// the row.
func (s *TaskService) UpdateTask(ctx context.Context, userID, id string, input UpdateTaskInput) (models.Task, error) {
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return models.Task{}, apperr.Validation("Title is required")
	}
	if input.Description != nil && strings.TrimSpace(*input.Description) == "" {
		return models.Task{}, apperr.Validation("Description is required")
	}
	if input.Status != nil && !input.Status.Valid() {
		return models.Task{}, apperr.Validation("Invalid status")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Task{}, apperr.Storage(err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, status, deadline, progress, created_at, updated_at
		 FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	task, err := scanTask(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Task{}, apperr.NotFound("Task not found")
		}
		return models.Task{}, apperr.Storage(err)
	}

	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.DeadlineSet {
		task.Deadline = input.Deadline
	}

	switch {
	case input.Status != nil && *input.Status != task.Status:
		task.Progress = models.ResolveProgress(task.Progress, *input.Status, input.Progress)
		task.Status = *input.Status
	case input.Progress != nil:
		task.Progress = models.ClampProgress(*input.Progress)
	}

	task.UpdatedAt = time.Now().UTC()

	res, err := tx.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, status = ?, deadline = ?, progress = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		task.Title, task.Description, string(task.Status), nullableTime(task.Deadline),
		task.Progress, task.UpdatedAt, id, userID)
	if err != nil {
		return models.Task{}, apperr.Storage(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Task{}, apperr.Storage(err)
	}
	if affected == 0 {
		return models.Task{}, apperr.NotFound("Task not found")
	}

	if err := tx.Commit(); err != nil {
		return models.Task{}, apperr.Storage(err)
	}

	s.recordEvent(ctx, userID, task.ID, "task.updated", "info", "Updated task \""+task.Title+"\"")
	return task, nil
}

// DeleteTask permanently removes a task owned by userID. The ownership check
// and the delete are a single conditional statement.
func (s *TaskService) DeleteTask(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return apperr.Storage(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperr.Storage(err)
	}
	if affected == 0 {
		return apperr.NotFound("Task not found")
	}

	s.recordEvent(ctx, userID, id, "task.deleted", "info", "Deleted task")
	return nil
}

// CountByStatus tallies a user's tasks per status.
func (s *TaskService) CountByStatus(ctx context.Context, userID string) (map[models.TaskStatus]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM tasks WHERE user_id = ? GROUP BY status", userID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rows.Close()

	counts := map[models.TaskStatus]int{}
	for rows.Next() {
		var status models.TaskStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, apperr.Storage(err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err)
	}
	return counts, nil
}

// recordEvent logs activity without making the mutation depend on it.
func (s *TaskService) recordEvent(ctx context.Context, userID, taskID, eventType, level, message string) {
	if s.events == nil {
		return
	}
	if err := s.events.Record(ctx, userID, &taskID, eventType, level, message); err != nil {
		log.Warn().Err(err).Str("task_id", taskID).Msg("Failed to record activity event")
	}
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads a task row, resolving a NULL progress to the status default.
func scanTask(r rowScanner) (models.Task, error) {
	var task models.Task
	var status string
	var deadline sql.NullTime
	var progress sql.NullInt64
	err := r.Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &status,
		&deadline, &progress, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return models.Task{}, err
	}
	task.Status = models.TaskStatus(status)
	if deadline.Valid {
		t := deadline.Time
		task.Deadline = &t
	}
	if progress.Valid {
		p := int(progress.Int64)
		task.Progress = models.DisplayProgress(&p, task.Status)
	} else {
		task.Progress = models.DisplayProgress(nil, task.Status)
	}
	return task, nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
