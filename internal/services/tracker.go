package services

import (
	"context"
	"errors"
	"time"

	"worklog/internal/domain"
	"worklog/internal/logging"
	"worklog/internal/ports"
)

// TrackerService drives the work-session state machine. Every status change
// on a task passes through Apply, which opens a session when the task enters
// in_progress and closes the open one when it leaves.
//
// Session bookkeeping is a best-effort secondary effect of the task update:
// Apply never returns an error, it reports problems through the log. A task
// update must not fail or roll back because the session history is already
// inconsistent.
type TrackerService struct {
	now      func() time.Time
	sessions ports.SessionTracker
}

// NewTrackerService creates a new TrackerService
func NewTrackerService(sessions ports.SessionTracker) *TrackerService {
	return &TrackerService{
		now:      time.Now,
		sessions: sessions,
	}
}

// Apply runs the transition rule for a task whose status changed from old to
// new. For newly created tasks old is the empty status ("no task"), so a task
// created directly as in_progress opens its session here too.
func (t *TrackerService) Apply(ctx context.Context, taskID int64, oldStatus, newStatus domain.Status) {
	if oldStatus == newStatus {
		return
	}

	now := t.now()

	switch {
	case newStatus == domain.StatusInProgress && oldStatus != domain.StatusInProgress:
		session, err := t.sessions.Open(ctx, taskID, now)
		if err != nil {
			if errors.Is(err, domain.ErrSessionAlreadyOpen) {
				logging.Logger.Warn("Task already has an open session, not opening another",
					"task_id", taskID)
				return
			}
			logging.Logger.Error("Failed to open work session",
				"task_id", taskID, "error", err)
			return
		}
		logging.Logger.Info("Opened work session",
			"task_id", taskID, "session_id", session.ID, "start_time", session.StartTime)

	case oldStatus == domain.StatusInProgress && newStatus != domain.StatusInProgress:
		session, err := t.sessions.CloseOpen(ctx, taskID, now)
		if err != nil {
			if errors.Is(err, domain.ErrNoOpenSession) {
				// Historical data may already be inconsistent; record it and
				// move on without fabricating a session.
				logging.Logger.Warn("No open work session found to close",
					"task_id", taskID)
				return
			}
			logging.Logger.Error("Failed to close work session",
				"task_id", taskID, "error", err)
			return
		}
		logging.Logger.Info("Closed work session",
			"task_id", taskID, "session_id", session.ID, "end_time", now)
	}
}
