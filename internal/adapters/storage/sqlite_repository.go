package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"worklog/internal/domain"
	"worklog/internal/logging"
	"worklog/internal/ports"
)

// SQLiteRepository implements the task, session, and catalog repositories
// using GORM over a single sqlite database
type SQLiteRepository struct {
	db *gorm.DB
}

// Verify interface compliance at compile time
var (
	_ ports.TaskRepository    = (*SQLiteRepository)(nil)
	_ ports.SessionRepository = (*SQLiteRepository)(nil)
	_ ports.CatalogRepository = (*SQLiteRepository)(nil)
)

// Catalog defaults inserted on first run, when the tables are empty
var (
	defaultProjectCodes = []string{"SuperCloud Composer", "ProjectX", "DemoProject"}
	defaultTaskTypes    = []string{
		"Implement", "Meeting", "Test", "Survey", "Bug Fix", "Support",
		"Trouble Shooting", "Take Leave", "Document", "Operation", "Design",
		"Misc", "Training", "Project Management", "Manager Task", "POC",
	}
)

// gormLogger wraps the worklog logger for GORM
type gormLogger struct {
	level logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Error("gorm query error",
			"error", err,
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else if elapsed > 200*time.Millisecond {
		logging.Logger.Warn("slow query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else {
		logging.Logger.Debug("gorm query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	}
}

func newGormLogger() logger.Interface {
	if os.Getenv("WORKLOG_DEBUG") == "1" {
		return (&gormLogger{}).LogMode(logger.Info)
	}
	return (&gormLogger{}).LogMode(logger.Silent)
}

// NewSQLiteRepository creates a new SQLiteRepository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Expand home directory if present
	if len(dbPath) > 0 && dbPath[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(homeDir, dbPath[1:])
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// Open database with WAL mode. No NowFunc override: summary dates are
	// matched in local time, so timestamps are stored the same way.
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		PrepareStmt: false,
		Logger:      newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for concurrent access
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA synchronous=NORMAL")

	if err := db.AutoMigrate(
		&TaskModel{},
		&WorkSessionModel{},
		&ProjectCodeModel{},
		&TaskTypeModel{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	repo := &SQLiteRepository{db: db}
	if err := repo.seedCatalogs(); err != nil {
		return nil, fmt.Errorf("failed to seed catalogs: %w", err)
	}

	// SQLite with WAL mode can handle multiple readers + 1 writer
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	return repo, nil
}

// seedCatalogs inserts the default project codes and task types when the
// catalogs are empty
func (r *SQLiteRepository) seedCatalogs() error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&ProjectCodeModel{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			for _, code := range defaultProjectCodes {
				if err := tx.Create(&ProjectCodeModel{Code: code}).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Model(&TaskTypeModel{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			for _, taskType := range defaultTaskTypes {
				if err := tx.Create(&TaskTypeModel{Type: taskType}).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// Create inserts a new task, assigning the next order index. The max lookup
// and the insert run in one transaction so concurrent creates never share an
// index.
func (r *SQLiteRepository) Create(ctx context.Context, fields domain.TaskFields) (*domain.Task, error) {
	var model TaskModel

	err := withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var maxIndex int
			if err := tx.Model(&TaskModel{}).
				Select("COALESCE(MAX(order_index), 0)").
				Scan(&maxIndex).Error; err != nil {
				return fmt.Errorf("failed to read max order index: %w", err)
			}

			model = TaskModel{
				Description: fields.Description,
				OrderIndex:  maxIndex + 1,
				ProjectCode: fields.ProjectCode,
				Status:      string(fields.Status),
				TaskType:    fields.TaskType,
			}
			if err := tx.Create(&model).Error; err != nil {
				return fmt.Errorf("failed to create task: %w", err)
			}
			return nil
		})
	}, 3)
	if err != nil {
		return nil, err
	}

	task := taskModelToDomain(model)
	return &task, nil
}

// Get retrieves a task by id
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*domain.Task, error) {
	var model TaskModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task := taskModelToDomain(model)
	return &task, nil
}

// List returns all tasks ordered by order index ascending
func (r *SQLiteRepository) List(ctx context.Context) ([]domain.Task, error) {
	var models []TaskModel
	if err := r.db.WithContext(ctx).Order("order_index ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, len(models))
	for i, m := range models {
		tasks[i] = taskModelToDomain(m)
	}
	return tasks, nil
}

// Update overwrites the mutable fields of a task
func (r *SQLiteRepository) Update(ctx context.Context, id int64, fields domain.TaskFields) (*domain.Task, error) {
	var model TaskModel

	err := withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&TaskModel{}).Where("id = ?", id).
				Select("project_code", "task_type", "description", "status").
				Updates(TaskModel{
					Description: fields.Description,
					ProjectCode: fields.ProjectCode,
					Status:      string(fields.Status),
					TaskType:    fields.TaskType,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return domain.ErrTaskNotFound
			}
			return tx.First(&model, id).Error
		})
	}, 3)
	if err != nil {
		return nil, err
	}

	task := taskModelToDomain(model)
	return &task, nil
}

// Delete removes a task. Its historical work sessions are kept.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	return withRetry(func() error {
		result := r.db.WithContext(ctx).Delete(&TaskModel{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrTaskNotFound
		}
		return nil
	}, 3)
}

// Open starts a new work session for a task. The open-session check and the
// insert run in one transaction: a task can never hold two open sessions.
func (r *SQLiteRepository) Open(ctx context.Context, taskID int64, start time.Time) (*domain.WorkSession, error) {
	var model WorkSessionModel

	err := withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var open WorkSessionModel
			err := tx.Where("task_id = ? AND end_time IS NULL", taskID).First(&open).Error
			if err == nil {
				return domain.ErrSessionAlreadyOpen
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			model = WorkSessionModel{
				StartTime: start,
				TaskID:    taskID,
			}
			return tx.Create(&model).Error
		})
	}, 3)
	if err != nil {
		return nil, err
	}

	session := sessionModelToDomain(model)
	return &session, nil
}

// CloseOpen closes the most recently opened open session for a task
func (r *SQLiteRepository) CloseOpen(ctx context.Context, taskID int64, end time.Time) (*domain.WorkSession, error) {
	var model WorkSessionModel

	err := withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			err := tx.Where("task_id = ? AND end_time IS NULL", taskID).
				Order("start_time DESC").
				First(&model).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrNoOpenSession
				}
				return err
			}

			model.EndTime = &end
			return tx.Save(&model).Error
		})
	}, 3)
	if err != nil {
		return nil, err
	}

	session := sessionModelToDomain(model)
	return &session, nil
}

// ListSessions returns sessions matching the filter, ordered by start time
// ascending
func (r *SQLiteRepository) ListSessions(ctx context.Context, filter ports.SessionFilter) ([]domain.WorkSession, error) {
	query := r.db.WithContext(ctx).Model(&WorkSessionModel{})

	if filter.TaskID != nil {
		query = query.Where("task_id = ?", *filter.TaskID)
	}
	if filter.From != nil {
		query = query.Where("start_time >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("start_time <= ?", *filter.To)
	}
	if filter.ActiveOnly {
		query = query.Where("end_time IS NULL")
	}

	var models []WorkSessionModel
	if err := query.Order("start_time ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	sessions := make([]domain.WorkSession, len(models))
	for i, m := range models {
		sessions[i] = sessionModelToDomain(m)
	}
	return sessions, nil
}

// ListForDate returns the sessions starting on the given calendar date joined
// with their owning task. Date attribution uses the start time only: a
// session crossing midnight belongs entirely to its start date.
func (r *SQLiteRepository) ListForDate(ctx context.Context, date time.Time) ([]domain.SessionWithTask, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var sessions []WorkSessionModel
	var tasks []TaskModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("start_time >= ? AND start_time < ?", dayStart, dayEnd).
			Order("start_time ASC").
			Find(&sessions).Error; err != nil {
			return err
		}

		taskIDs := make([]int64, 0, len(sessions))
		seen := make(map[int64]bool)
		for _, s := range sessions {
			if !seen[s.TaskID] {
				seen[s.TaskID] = true
				taskIDs = append(taskIDs, s.TaskID)
			}
		}
		if len(taskIDs) == 0 {
			return nil
		}

		return tx.Where("id IN ?", taskIDs).Find(&tasks).Error
	})
	if err != nil {
		return nil, err
	}

	taskMap := make(map[int64]TaskModel, len(tasks))
	for _, t := range tasks {
		taskMap[t.ID] = t
	}

	rows := make([]domain.SessionWithTask, 0, len(sessions))
	for _, s := range sessions {
		task, ok := taskMap[s.TaskID]
		if !ok {
			continue // task deleted, session kept as history only
		}
		rows = append(rows, domain.SessionWithTask{
			Session: sessionModelToDomain(s),
			Task:    taskModelToDomain(task),
		})
	}

	return rows, nil
}

// SetTimes overwrites a session's start and end times (manual correction)
func (r *SQLiteRepository) SetTimes(ctx context.Context, id int64, start time.Time, end *time.Time) (*domain.WorkSession, error) {
	var model WorkSessionModel

	err := withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&model, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrSessionNotFound
				}
				return err
			}

			model.StartTime = start
			model.EndTime = end
			return tx.Save(&model).Error
		})
	}, 3)
	if err != nil {
		return nil, err
	}

	session := sessionModelToDomain(model)
	return &session, nil
}

// DeleteSession removes a recorded session
func (r *SQLiteRepository) DeleteSession(ctx context.Context, id int64) error {
	return withRetry(func() error {
		result := r.db.WithContext(ctx).Delete(&WorkSessionModel{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrSessionNotFound
		}
		return nil
	}, 3)
}

// ListProjectCodes returns all project codes sorted ascending
func (r *SQLiteRepository) ListProjectCodes(ctx context.Context) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Model(&ProjectCodeModel{}).
		Order("code ASC").
		Pluck("code", &codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// AddProjectCode inserts a project code
func (r *SQLiteRepository) AddProjectCode(ctx context.Context, code string) error {
	return withRetry(func() error {
		return r.db.WithContext(ctx).Create(&ProjectCodeModel{Code: code}).Error
	}, 3)
}

// DeleteProjectCode removes a project code; removing an unknown code is a no-op
func (r *SQLiteRepository) DeleteProjectCode(ctx context.Context, code string) error {
	return withRetry(func() error {
		return r.db.WithContext(ctx).Where("code = ?", code).Delete(&ProjectCodeModel{}).Error
	}, 3)
}

// ListTaskTypes returns all task types sorted ascending
func (r *SQLiteRepository) ListTaskTypes(ctx context.Context) ([]string, error) {
	var types []string
	err := r.db.WithContext(ctx).Model(&TaskTypeModel{}).
		Order("type ASC").
		Pluck("type", &types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

// AddTaskType inserts a task type
func (r *SQLiteRepository) AddTaskType(ctx context.Context, taskType string) error {
	return withRetry(func() error {
		return r.db.WithContext(ctx).Create(&TaskTypeModel{Type: taskType}).Error
	}, 3)
}

// DeleteTaskType removes a task type; removing an unknown type is a no-op
func (r *SQLiteRepository) DeleteTaskType(ctx context.Context, taskType string) error {
	return withRetry(func() error {
		return r.db.WithContext(ctx).Where("type = ?", taskType).Delete(&TaskTypeModel{}).Error
	}, 3)
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// withRetry retries operations on SQLITE_BUSY with exponential backoff
func withRetry(fn func() error, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
			time.Sleep(time.Millisecond * time.Duration(50*(i+1)))
			continue
		}

		return err
	}
	return fmt.Errorf("operation failed after %d retries", maxRetries)
}
