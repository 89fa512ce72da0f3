package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"worklog/internal/domain"
	"worklog/internal/logging"
	"worklog/internal/ports"
	"worklog/internal/services"
)

// TaskAPI is the slice of the task service the handlers call
type TaskAPI interface {
	Create(ctx context.Context, params services.CreateTaskParams) (*domain.Task, error)
	Update(ctx context.Context, id int64, params services.UpdateTaskParams) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Task, error)
}

// SessionAPI exposes session listing and manual corrections
type SessionAPI interface {
	List(ctx context.Context, filter ports.SessionFilter) ([]domain.WorkSession, error)
	Correct(ctx context.Context, id int64, start time.Time, end *time.Time) (*domain.WorkSession, error)
	Delete(ctx context.Context, id int64) error
}

// SummaryAPI computes the per-task daily time summary
type SummaryAPI interface {
	Daily(ctx context.Context, date time.Time) ([]domain.DailySummaryEntry, error)
}

// CatalogAPI manages the project-code and task-type label sets
type CatalogAPI interface {
	ListProjectCodes(ctx context.Context) ([]string, error)
	AddProjectCode(ctx context.Context, code string) error
	DeleteProjectCode(ctx context.Context, code string) error
	ListTaskTypes(ctx context.Context) ([]string, error)
	AddTaskType(ctx context.Context, taskType string) error
	DeleteTaskType(ctx context.Context, taskType string) error
}

// Server is the worklog HTTP API server
type Server struct {
	catalogs CatalogAPI
	router   *gin.Engine
	sessions SessionAPI
	summary  SummaryAPI
	tasks    TaskAPI
}

// NewServer creates a new API server over the given services
func NewServer(tasks TaskAPI, sessions SessionAPI, summary SummaryAPI, catalogs CatalogAPI) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(), gin.Recovery())

	s := &Server{
		catalogs: catalogs,
		router:   router,
		sessions: sessions,
		summary:  summary,
		tasks:    tasks,
	}

	api := router.Group("/api")
	{
		api.GET("/todos", s.handleListTasks)
		api.POST("/todos", s.handleCreateTask)
		api.PUT("/todos/:id", s.handleUpdateTask)
		api.DELETE("/todos/:id", s.handleDeleteTask)

		api.GET("/sessions", s.handleListSessions)
		api.PUT("/sessions/:id", s.handleCorrectSession)
		api.DELETE("/sessions/:id", s.handleDeleteSession)

		api.GET("/project_codes", s.handleListProjectCodes)
		api.POST("/project_codes", s.handleAddProjectCode)
		api.DELETE("/project_codes/:code", s.handleDeleteProjectCode)

		api.GET("/task_types", s.handleListTaskTypes)
		api.POST("/task_types", s.handleAddTaskType)
		api.DELETE("/task_types/:type", s.handleDeleteTaskType)

		api.GET("/summary/today", s.handleDailySummary)
	}

	return s
}

// requestLogger logs every request with method and path
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Logger.Info("Handled request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// Start serves the API and blocks until an interrupt or termination signal
func (s *Server) Start(host, port string) error {
	addr := fmt.Sprintf("%s:%s", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logging.Logger.Info("Starting API server", "address", addr)
	fmt.Printf("worklog API listening on %s\n", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Error("API server error", "error", err)
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-done:
	}
	logging.Logger.Info("Shutting down API server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown API server: %w", err)
	}

	logging.Logger.Info("API server stopped")
	return nil
}
