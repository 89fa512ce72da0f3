package web

import (
	"time"

	"worklog/internal/domain"
)

type taskPayload struct {
	Description string `json:"description"`
	ProjectCode string `json:"project_code"`
	Status      string `json:"status"`
	TaskType    string `json:"task_type"`
}

type taskResponse struct {
	ID          int64     `json:"id"`
	ProjectCode string    `json:"project_code"`
	TaskType    string    `json:"task_type"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		ProjectCode: t.ProjectCode,
		TaskType:    t.TaskType,
		Description: t.Description,
		Status:      string(t.Status),
		OrderIndex:  t.OrderIndex,
		CreatedAt:   t.CreatedAt,
	}
}

func toTaskResponses(tasks []domain.Task) []taskResponse {
	out := make([]taskResponse, len(tasks))
	for i := range tasks {
		out[i] = toTaskResponse(&tasks[i])
	}
	return out
}

type sessionPayload struct {
	StartTime time.Time  `json:"start_time" binding:"required"`
	EndTime   *time.Time `json:"end_time"`
}

type sessionResponse struct {
	ID        int64      `json:"id"`
	TodoID    int64      `json:"todo_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

func toSessionResponse(s *domain.WorkSession) sessionResponse {
	return sessionResponse{
		ID:        s.ID,
		TodoID:    s.TaskID,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
	}
}

func toSessionResponses(sessions []domain.WorkSession) []sessionResponse {
	out := make([]sessionResponse, len(sessions))
	for i := range sessions {
		out[i] = toSessionResponse(&sessions[i])
	}
	return out
}

type projectCodePayload struct {
	Code string `json:"code"`
}

type taskTypePayload struct {
	Type string `json:"type"`
}
