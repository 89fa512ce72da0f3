package cmd

import (
	"worklog/internal/adapters/storage"
	"worklog/internal/config"
	"worklog/internal/services"
)

// Container holds all dependencies for the application
type Container struct {
	// Services
	CatalogService *services.CatalogService
	SessionService *services.SessionService
	SummaryService *services.SummaryService
	TaskService    *services.TaskService

	// Internal - for cleanup only
	repo *storage.SQLiteRepository
}

// NewContainer creates a new Container with all dependencies wired
func NewContainer(settings *config.Settings) (*Container, error) {
	repo, err := storage.NewSQLiteRepository(settings.GetDBPath())
	if err != nil {
		return nil, err
	}

	tracker := services.NewTrackerService(repo)

	return &Container{
		CatalogService: services.NewCatalogService(repo),
		SessionService: services.NewSessionService(repo),
		SummaryService: services.NewSummaryService(repo),
		TaskService:    services.NewTaskService(repo, tracker),
		repo:           repo,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.repo != nil {
		return c.repo.Close()
	}
	return nil
}
