package monitoring

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/jvilloslada/taskdeck-be/internal/services"
)

// DeadlineWatcher periodically scans for tasks whose deadline has passed
// while they are still open, and records a one-time overdue event for each.
type DeadlineWatcher struct {
	db     *sql.DB
	events services.EventServiceProvider
	every  time.Duration
	cron   *cron.Cron
}

// NewDeadlineWatcher creates a watcher that sweeps at the given interval.
func NewDeadlineWatcher(db *sql.DB, events services.EventServiceProvider, every time.Duration) *DeadlineWatcher {
	return &DeadlineWatcher{db: db, events: events, every: every}
}

// Start begins the periodic sweep. The first sweep runs immediately.
func (w *DeadlineWatcher) Start() error {
	w.cron = cron.New()
	if _, err := w.cron.AddFunc(fmt.Sprintf("@every %s", w.every), w.sweep); err != nil {
		return err
	}
	log.Info().Dur("interval", w.every).Msg("Starting deadline watcher")
	w.sweep()
	w.cron.Start()
	return nil
}

// Stop halts the sweep loop and waits for a running sweep to finish.
func (w *DeadlineWatcher) Stop() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
	log.Info().Msg("Stopped deadline watcher")
}

// sweep flags overdue tasks exactly once. The marker update carries the same
// IS NULL predicate as the select, so two overlapping sweeps cannot both
// record an event for one task.
func (w *DeadlineWatcher) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().UTC()
	rows, err := w.db.QueryContext(ctx,
		`SELECT id, user_id, title FROM tasks
		 WHERE deadline IS NOT NULL AND deadline < ? AND status != 'done' AND overdue_notified_at IS NULL`, now)
	if err != nil {
		log.Error().Err(err).Msg("Deadline sweep query failed")
		return
	}
	defer rows.Close()

	type overdueTask struct{ id, userID, title string }
	var due []overdueTask
	for rows.Next() {
		var t overdueTask
		if err := rows.Scan(&t.id, &t.userID, &t.title); err != nil {
			log.Error().Err(err).Msg("Deadline sweep scan failed")
			return
		}
		due = append(due, t)
	}
	if err := rows.Err(); err != nil {
		log.Error().Err(err).Msg("Deadline sweep iteration failed")
		return
	}

	for _, t := range due {
		res, err := w.db.ExecContext(ctx,
			"UPDATE tasks SET overdue_notified_at = ? WHERE id = ? AND overdue_notified_at IS NULL", now, t.id)
		if err != nil {
			log.Error().Err(err).Str("task_id", t.id).Msg("Failed to mark task overdue")
			continue
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			continue
		}
		taskID := t.id
		msg := fmt.Sprintf("Task \"%s\" is past its deadline", t.title)
		if err := w.events.Record(ctx, t.userID, &taskID, "task.deadline.overdue", "warn", msg); err != nil {
			log.Warn().Err(err).Str("task_id", t.id).Msg("Failed to record overdue event")
		}
	}
}
