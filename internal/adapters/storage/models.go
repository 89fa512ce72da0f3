package storage

import "time"

// TaskModel is the GORM model for the todos table
type TaskModel struct {
	CreatedAt   time.Time
	Description string `gorm:"default:''"`
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	OrderIndex  int    `gorm:"not null;uniqueIndex:idx_order_index"`
	ProjectCode string `gorm:"not null"`
	Status      string `gorm:"not null;default:'pending';check:status IN ('pending','in_progress','done','archive')"`
	TaskType    string `gorm:"not null"`
	UpdatedAt   time.Time
}

// TableName specifies the table name for GORM
func (TaskModel) TableName() string { return "todos" }

// WorkSessionModel is the GORM model for the work_sessions table.
// No foreign key constraint on task_id: sessions outlive task deletion and
// keep their history.
type WorkSessionModel struct {
	CreatedAt time.Time
	EndTime   *time.Time `gorm:"default:null;index:idx_sessions_open"`
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	StartTime time.Time  `gorm:"not null;index:idx_sessions_start"`
	TaskID    int64      `gorm:"not null;index:idx_sessions_task"`
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (WorkSessionModel) TableName() string { return "work_sessions" }

// ProjectCodeModel is the GORM model for the project_codes catalog
type ProjectCodeModel struct {
	Code      string `gorm:"not null;uniqueIndex"`
	CreatedAt time.Time
	ID        int64 `gorm:"primaryKey;autoIncrement"`
}

// TableName specifies the table name for GORM
func (ProjectCodeModel) TableName() string { return "project_codes" }

// TaskTypeModel is the GORM model for the task_types catalog
type TaskTypeModel struct {
	CreatedAt time.Time
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Type      string `gorm:"not null;uniqueIndex"`
}

// TableName specifies the table name for GORM
func (TaskTypeModel) TableName() string { return "task_types" }
