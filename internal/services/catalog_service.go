package services

import (
	"context"
	"fmt"

	"worklog/internal/domain"
	"worklog/internal/ports"
)

// CatalogService manages the project-code and task-type label sets
type CatalogService struct {
	catalogs ports.CatalogRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(catalogs ports.CatalogRepository) *CatalogService {
	return &CatalogService{catalogs: catalogs}
}

// ListProjectCodes returns all project codes sorted ascending
func (s *CatalogService) ListProjectCodes(ctx context.Context) ([]string, error) {
	return s.catalogs.ListProjectCodes(ctx)
}

// AddProjectCode adds a new project code
func (s *CatalogService) AddProjectCode(ctx context.Context, code string) error {
	if code == "" {
		return domain.NewMissingFieldError("code")
	}
	if err := s.catalogs.AddProjectCode(ctx, code); err != nil {
		return fmt.Errorf("failed to add project code: %w", err)
	}
	return nil
}

// DeleteProjectCode removes a project code
func (s *CatalogService) DeleteProjectCode(ctx context.Context, code string) error {
	return s.catalogs.DeleteProjectCode(ctx, code)
}

// ListTaskTypes returns all task types sorted ascending
func (s *CatalogService) ListTaskTypes(ctx context.Context) ([]string, error) {
	return s.catalogs.ListTaskTypes(ctx)
}

// AddTaskType adds a new task type
func (s *CatalogService) AddTaskType(ctx context.Context, taskType string) error {
	if taskType == "" {
		return domain.NewMissingFieldError("type")
	}
	if err := s.catalogs.AddTaskType(ctx, taskType); err != nil {
		return fmt.Errorf("failed to add task type: %w", err)
	}
	return nil
}

// DeleteTaskType removes a task type
func (s *CatalogService) DeleteTaskType(ctx context.Context, taskType string) error {
	return s.catalogs.DeleteTaskType(ctx, taskType)
}
