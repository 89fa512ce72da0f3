package services

import (
	"context"
	"time"

	"worklog/internal/domain"
	"worklog/internal/logging"
	"worklog/internal/ports"
)

// SessionService exposes recorded work sessions for inspection and explicit
// manual correction. The state machine itself lives in TrackerService;
// everything here operates on history.
type SessionService struct {
	sessions ports.SessionRepository
}

// NewSessionService creates a new SessionService
func NewSessionService(sessions ports.SessionRepository) *SessionService {
	return &SessionService{sessions: sessions}
}

// List returns sessions matching the filter, ordered by start time ascending
func (s *SessionService) List(ctx context.Context, filter ports.SessionFilter) ([]domain.WorkSession, error) {
	return s.sessions.ListSessions(ctx, filter)
}

// Correct overwrites a session's recorded start and end times
func (s *SessionService) Correct(ctx context.Context, id int64, start time.Time, end *time.Time) (*domain.WorkSession, error) {
	session, err := s.sessions.SetTimes(ctx, id, start, end)
	if err != nil {
		return nil, err
	}
	logging.Logger.Info("Work session corrected",
		"session_id", id, "start_time", start, "end_time", end)
	return session, nil
}

// Delete removes a recorded session
func (s *SessionService) Delete(ctx context.Context, id int64) error {
	if err := s.sessions.DeleteSession(ctx, id); err != nil {
		return err
	}
	logging.Logger.Info("Work session deleted", "session_id", id)
	return nil
}
