package ports

import (
	"context"
	"time"

	"worklog/internal/domain"
)

// SessionFilter narrows session listings. Nil fields match everything.
type SessionFilter struct {
	ActiveOnly bool
	From       *time.Time
	TaskID     *int64
	To         *time.Time
}

// SessionTracker opens and closes work sessions in response to task status
// transitions. Both operations check the at-most-one-open-session invariant
// atomically with their write.
type SessionTracker interface {
	// Open starts a new session for the task. Returns
	// domain.ErrSessionAlreadyOpen if one is already open.
	Open(ctx context.Context, taskID int64, start time.Time) (*domain.WorkSession, error)
	// CloseOpen closes the most recently opened open session for the task.
	// Returns domain.ErrNoOpenSession when there is none.
	CloseOpen(ctx context.Context, taskID int64, end time.Time) (*domain.WorkSession, error)
}

// SessionReader lists sessions and the joined rows the daily summary needs
type SessionReader interface {
	ListSessions(ctx context.Context, filter SessionFilter) ([]domain.WorkSession, error)
	// ListForDate returns sessions whose start time falls on the given
	// calendar date, joined with their owning task. Sessions of deleted
	// tasks are omitted.
	ListForDate(ctx context.Context, date time.Time) ([]domain.SessionWithTask, error)
}

// SessionEditor supports explicit manual corrections of recorded sessions
type SessionEditor interface {
	SetTimes(ctx context.Context, id int64, start time.Time, end *time.Time) (*domain.WorkSession, error)
	DeleteSession(ctx context.Context, id int64) error
}

// SessionRepository is the composite interface
type SessionRepository interface {
	SessionTracker
	SessionReader
	SessionEditor
}
