package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"worklog/internal/domain"
	"worklog/internal/ports"
	"worklog/internal/services"
)

// writeError maps service errors onto HTTP status codes: validation
// failures are the caller's fault, unknown ids are 404, the rest is a
// server-side failure.
func writeError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrTaskNotFound), errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// Task handlers

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.tasks.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponses(tasks))
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var payload taskPayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := s.tasks.Create(c.Request.Context(), services.CreateTaskParams{
		Description: payload.Description,
		ProjectCode: payload.ProjectCode,
		Status:      payload.Status,
		TaskType:    payload.TaskType,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var payload taskPayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := s.tasks.Update(c.Request.Context(), id, services.UpdateTaskParams{
		Description: payload.Description,
		ProjectCode: payload.ProjectCode,
		Status:      payload.Status,
		TaskType:    payload.TaskType,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.tasks.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Session handlers

// parseTime accepts RFC 3339 timestamps as well as bare dates
func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", value, time.Local)
}

func (s *Server) handleListSessions(c *gin.Context) {
	var filter ports.SessionFilter

	if raw := c.Query("todo_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid todo_id"})
			return
		}
		filter.TaskID = &id
	}
	if raw := c.Query("from"); raw != "" {
		t, err := parseTime(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
			return
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := parseTime(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
			return
		}
		filter.To = &t
	}
	filter.ActiveOnly = c.Query("active") == "true"

	sessions, err := s.sessions.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponses(sessions))
}

func (s *Server) handleCorrectSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var payload sessionPayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := s.sessions.Correct(c.Request.Context(), id, payload.StartTime, payload.EndTime)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(session))
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.sessions.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Catalog handlers

func (s *Server) handleListProjectCodes(c *gin.Context) {
	codes, err := s.catalogs.ListProjectCodes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if codes == nil {
		codes = []string{}
	}
	c.JSON(http.StatusOK, codes)
}

func (s *Server) handleAddProjectCode(c *gin.Context) {
	var payload projectCodePayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.catalogs.AddProjectCode(c.Request.Context(), payload.Code); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleDeleteProjectCode(c *gin.Context) {
	if err := s.catalogs.DeleteProjectCode(c.Request.Context(), c.Param("code")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleListTaskTypes(c *gin.Context) {
	types, err := s.catalogs.ListTaskTypes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if types == nil {
		types = []string{}
	}
	c.JSON(http.StatusOK, types)
}

func (s *Server) handleAddTaskType(c *gin.Context) {
	var payload taskTypePayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.catalogs.AddTaskType(c.Request.Context(), payload.Type); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleDeleteTaskType(c *gin.Context) {
	if err := s.catalogs.DeleteTaskType(c.Request.Context(), c.Param("type")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Summary handler

func (s *Server) handleDailySummary(c *gin.Context) {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	entries, err := s.summary.Daily(c.Request.Context(), date)
	if err != nil {
		writeError(c, err)
		return
	}
	if entries == nil {
		entries = []domain.DailySummaryEntry{}
	}
	c.JSON(http.StatusOK, entries)
}
