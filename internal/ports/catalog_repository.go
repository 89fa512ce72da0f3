package ports

import "context"

// CatalogRepository manages the project-code and task-type string sets used
// to label tasks. Both are plain ordered lists; deletes are idempotent.
type CatalogRepository interface {
	ListProjectCodes(ctx context.Context) ([]string, error)
	AddProjectCode(ctx context.Context, code string) error
	DeleteProjectCode(ctx context.Context, code string) error

	ListTaskTypes(ctx context.Context) ([]string, error)
	AddTaskType(ctx context.Context, taskType string) error
	DeleteTaskType(ctx context.Context, taskType string) error
}
