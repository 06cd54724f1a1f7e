// Package reminder runs the daily sweep over reminder-flagged tasks.
// Instance generation for repeating tasks is deliberately not done
// here; that stays a synchronous, caller-driven operation.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Service sweeps for upcoming reminder-flagged tasks on a cron spec
type Service struct {
	db     *pgxpool.Pool
	logger *zap.Logger
	cron   *cron.Cron
}

// New creates the reminder service. spec is a standard 5-field cron
// expression evaluated in loc.
func New(db *pgxpool.Pool, logger *zap.Logger, spec string, loc *time.Location) (*Service, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := &Service{
		db:     db,
		logger: logger,
		cron:   cron.New(cron.WithLocation(loc)),
	}

	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		return nil, fmt.Errorf("invalid reminder spec %q: %w", spec, err)
	}

	return s, nil
}

// Start begins the cron schedule
func (s *Service) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// sweep finds uncompleted reminder tasks due within the next day and
// dispatches them. Dispatch is currently a structured log per task; the
// notification channel hangs off this one point.
func (s *Service) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT t.id, t.user_id, t.title, t.scheduled_at, u.username
		FROM tasks t
		JOIN users u ON t.user_id = u.id
		WHERE t.reminder = true
		  AND t.completed = false
		  AND t.scheduled_at >= NOW()
		  AND t.scheduled_at < NOW() + INTERVAL '1 day'
		ORDER BY t.scheduled_at ASC
	`)
	if err != nil {
		s.logger.Error("reminder sweep query failed", zap.Error(err))
		return
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var (
			taskID      uuid.UUID
			userID      uuid.UUID
			title       string
			scheduledAt time.Time
			username    string
		)
		if err := rows.Scan(&taskID, &userID, &title, &scheduledAt, &username); err != nil {
			s.logger.Error("reminder sweep scan failed", zap.Error(err))
			return
		}

		s.logger.Info("task reminder due",
			zap.String("task_id", taskID.String()),
			zap.String("user_id", userID.String()),
			zap.String("username", username),
			zap.String("title", title),
			zap.Time("scheduled_at", scheduledAt),
		)
		count++
	}

	if err := rows.Err(); err != nil {
		s.logger.Error("reminder sweep failed", zap.Error(err))
		return
	}

	s.logger.Info("reminder sweep complete", zap.Int("due_tasks", count))
}
