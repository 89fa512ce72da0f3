package services

import (
	"context"
	"fmt"

	"worklog/internal/domain"
	"worklog/internal/logging"
	"worklog/internal/ports"
)

// TaskService handles task lifecycle operations and feeds status transitions
// to the session tracker
type TaskService struct {
	tasks   ports.TaskRepository
	tracker *TrackerService
}

// NewTaskService creates a new TaskService
func NewTaskService(tasks ports.TaskRepository, tracker *TrackerService) *TaskService {
	return &TaskService{
		tasks:   tasks,
		tracker: tracker,
	}
}

// Create validates the input and stores a new task. A task created directly
// as in_progress gets its work session opened immediately.
func (s *TaskService) Create(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	fields, err := validateFields(params.ProjectCode, params.TaskType, params.Description, params.Status)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.Create(ctx, *fields)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	logging.Logger.Info("Task created",
		"task_id", task.ID, "order_index", task.OrderIndex, "status", task.Status)

	// "No task" counts as a non-in_progress state, so creation with
	// in_progress enters the tracking state like any other transition.
	s.tracker.Apply(ctx, task.ID, "", task.Status)

	return task, nil
}

// Update persists new field values for a task and then runs the session
// transition for the old/new status pair. The old status is read before the
// write; the tracker's own failures are reported in the log and never undo
// the committed task update.
func (s *TaskService) Update(ctx context.Context, id int64, params UpdateTaskParams) (*domain.Task, error) {
	existing, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStatus := existing.Status

	fields, err := validateFields(params.ProjectCode, params.TaskType, params.Description, params.Status)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.Update(ctx, id, *fields)
	if err != nil {
		return nil, err
	}

	logging.Logger.Info("Task updated",
		"task_id", task.ID, "old_status", oldStatus, "new_status", task.Status)

	s.tracker.Apply(ctx, task.ID, oldStatus, task.Status)

	return task, nil
}

// Delete removes a task. Open or historical work sessions are left untouched.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	logging.Logger.Info("Task deleted", "task_id", id)
	return nil
}

// Get retrieves a single task
func (s *TaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	return s.tasks.Get(ctx, id)
}

// List returns all tasks ordered by order index
func (s *TaskService) List(ctx context.Context) ([]domain.Task, error) {
	return s.tasks.List(ctx)
}

// validateFields checks the required fields and the status value
func validateFields(projectCode, taskType, description, status string) (*domain.TaskFields, error) {
	if projectCode == "" {
		return nil, domain.NewMissingFieldError("project_code")
	}
	if taskType == "" {
		return nil, domain.NewMissingFieldError("task_type")
	}

	st := domain.Status(status)
	if status == "" {
		st = domain.StatusPending
	} else if !st.Valid() {
		return nil, &domain.ValidationError{Field: "status", Reason: fmt.Sprintf("must be one of %v", domain.Statuses)}
	}

	return &domain.TaskFields{
		Description: description,
		ProjectCode: projectCode,
		Status:      st,
		TaskType:    taskType,
	}, nil
}
