package storage

import (
	"worklog/internal/domain"
)

// taskModelToDomain converts a TaskModel (GORM) to domain.Task
func taskModelToDomain(m TaskModel) domain.Task {
	return domain.Task{
		CreatedAt:   m.CreatedAt,
		Description: m.Description,
		ID:          m.ID,
		OrderIndex:  m.OrderIndex,
		ProjectCode: m.ProjectCode,
		Status:      domain.Status(m.Status),
		TaskType:    m.TaskType,
	}
}

// sessionModelToDomain converts a WorkSessionModel (GORM) to domain.WorkSession
func sessionModelToDomain(m WorkSessionModel) domain.WorkSession {
	return domain.WorkSession{
		EndTime:   m.EndTime,
		ID:        m.ID,
		StartTime: m.StartTime,
		TaskID:    m.TaskID,
	}
}
