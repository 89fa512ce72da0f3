package ports

import (
	"context"

	"worklog/internal/domain"
)

// TaskReader reads task data
type TaskReader interface {
	Get(ctx context.Context, id int64) (*domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
}

// TaskWriter creates, updates, and deletes tasks.
// Create assigns the id and the next order index; order index assignment is
// atomic with respect to concurrent creates.
type TaskWriter interface {
	Create(ctx context.Context, fields domain.TaskFields) (*domain.Task, error)
	Update(ctx context.Context, id int64, fields domain.TaskFields) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
}

// TaskRepository is the composite interface
type TaskRepository interface {
	TaskReader
	TaskWriter
}
