package domain

import "time"

// Status represents the kanban status of a task
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusArchive    Status = "archive"
)

// Statuses lists the closed set of valid task statuses
var Statuses = []Status{StatusPending, StatusInProgress, StatusDone, StatusArchive}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone, StatusArchive:
		return true
	}
	return false
}

// Task represents a trackable unit of work (domain entity)
type Task struct {
	CreatedAt   time.Time
	Description string
	ID          int64
	OrderIndex  int
	ProjectCode string
	Status      Status
	TaskType    string
}

// TaskFields holds the mutable fields of a task for updates
type TaskFields struct {
	Description string
	ProjectCode string
	Status      Status
	TaskType    string
}
