package domain

import "time"

// WorkSession is a single open-to-close timed interval of active work on a
// task. A nil EndTime means the session is still open (the task is currently
// in progress). Sessions are created and closed solely by status transitions
// into and out of in_progress, plus explicit manual corrections.
type WorkSession struct {
	EndTime   *time.Time
	ID        int64
	StartTime time.Time
	TaskID    int64
}

// Open reports whether the session has not been closed yet
func (s WorkSession) Open() bool {
	return s.EndTime == nil
}

// SessionWithTask joins a work session with its owning task's descriptive
// fields, as needed by the daily summary. Sessions whose task no longer
// exists do not produce such a row.
type SessionWithTask struct {
	Session WorkSession
	Task    Task
}
