package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worklog/internal/adapters/storage"
	"worklog/internal/domain"
	"worklog/internal/ports"
)

// testEnv wires the services against a real sqlite store, with a controllable
// clock on the tracker
type testEnv struct {
	catalogs *CatalogService
	clock    *time.Time
	repo     *storage.SQLiteRepository
	sessions *SessionService
	summary  *SummaryService
	tasks    *TaskService
	tracker  *TrackerService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "worklog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	clock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

	env := &testEnv{clock: &clock, repo: repo}
	env.tracker = NewTrackerService(repo)
	env.tracker.now = func() time.Time { return *env.clock }
	env.tasks = NewTaskService(repo, env.tracker)
	env.sessions = NewSessionService(repo)
	env.summary = NewSummaryService(repo)
	env.catalogs = NewCatalogService(repo)
	return env
}

// advance moves the tracker clock forward
func (e *testEnv) advance(d time.Duration) {
	*e.clock = e.clock.Add(d)
}

func (e *testEnv) openSessions(t *testing.T, taskID int64) []domain.WorkSession {
	t.Helper()
	sessions, err := e.sessions.List(context.Background(), ports.SessionFilter{TaskID: &taskID, ActiveOnly: true})
	require.NoError(t, err)
	return sessions
}

func (e *testEnv) allSessions(t *testing.T, taskID int64) []domain.WorkSession {
	t.Helper()
	sessions, err := e.sessions.List(context.Background(), ports.SessionFilter{TaskID: &taskID})
	require.NoError(t, err)
	return sessions
}

func validCreate(status string) CreateTaskParams {
	return CreateTaskParams{
		ProjectCode: "ProjectX",
		TaskType:    "Implement",
		Description: "write the thing",
		Status:      status,
	}
}

func toUpdate(task *domain.Task, status string) UpdateTaskParams {
	return UpdateTaskParams{
		ProjectCode: task.ProjectCode,
		TaskType:    task.TaskType,
		Description: task.Description,
		Status:      status,
	}
}

func TestCreate_RequiresProjectCodeAndTaskType(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.tasks.Create(ctx, CreateTaskParams{TaskType: "Implement", Status: "pending"})
	assert.True(t, domain.IsValidation(err), "missing project_code must be a validation error")

	_, err = env.tasks.Create(ctx, CreateTaskParams{ProjectCode: "ProjectX", Status: "pending"})
	assert.True(t, domain.IsValidation(err), "missing task_type must be a validation error")

	// No task was persisted
	tasks, err := env.tasks.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCreate_RejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.tasks.Create(context.Background(), validCreate("paused"))
	assert.True(t, domain.IsValidation(err))
}

func TestCreate_DefaultsToPending(t *testing.T) {
	env := newTestEnv(t)

	task, err := env.tasks.Create(context.Background(), validCreate(""))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, task.Status)
	assert.Empty(t, env.allSessions(t, task.ID))
}

func TestCreate_InProgressOpensSessionImmediately(t *testing.T) {
	env := newTestEnv(t)

	task, err := env.tasks.Create(context.Background(), validCreate("in_progress"))
	require.NoError(t, err)

	open := env.openSessions(t, task.ID)
	require.Len(t, open, 1)
	assert.True(t, open[0].StartTime.Equal(*env.clock))
	assert.Len(t, env.allSessions(t, task.ID), 1)
}

func TestUpdate_UnknownTask(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.tasks.Update(context.Background(), 42, UpdateTaskParams{
		ProjectCode: "ProjectX", TaskType: "Implement", Status: "pending",
	})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestUpdate_EnterAndLeaveInProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	task, err := env.tasks.Create(ctx, validCreate("pending"))
	require.NoError(t, err)

	_, err = env.tasks.Update(ctx, task.ID, toUpdate(task, "in_progress"))
	require.NoError(t, err)
	require.Len(t, env.openSessions(t, task.ID), 1)

	env.advance(90 * time.Minute)
	_, err = env.tasks.Update(ctx, task.ID, toUpdate(task, "done"))
	require.NoError(t, err)

	assert.Empty(t, env.openSessions(t, task.ID))
	all := env.allSessions(t, task.ID)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].EndTime)
	assert.Equal(t, 90*time.Minute, all[0].EndTime.Sub(all[0].StartTime))
}

func TestUpdate_TransitionsNotTouchingInProgressHaveNoSessionEffect(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	task, err := env.tasks.Create(ctx, validCreate("pending"))
	require.NoError(t, err)

	_, err = env.tasks.Update(ctx, task.ID, toUpdate(task, "done"))
	require.NoError(t, err)
	_, err = env.tasks.Update(ctx, task.ID, toUpdate(task, "archive"))
	require.NoError(t, err)

	assert.Empty(t, env.allSessions(t, task.ID))
}

func TestUpdate_SameStatusHasNoSessionEffect(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	task, err := env.tasks.Create(ctx, validCreate("in_progress"))
	require.NoError(t, err)
	require.Len(t, env.allSessions(t, task.ID), 1)

	// Editing description while staying in_progress must not open another
	params := toUpdate(task, "in_progress")
	params.Description = "reworded"
	_, err = env.tasks.Update(ctx, task.ID, params)
	require.NoError(t, err)

	assert.Len(t, env.allSessions(t, task.ID), 1)
}

func TestUpdate_RapidReentryProducesSeparateSessions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	task, err := env.tasks.Create(ctx, validCreate("pending"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = env.tasks.Update(ctx, task.ID, toUpdate(task, "in_progress"))
		require.NoError(t, err)
		env.advance(10 * time.Minute)
		_, err = env.tasks.Update(ctx, task.ID, toUpdate(task, "pending"))
		require.NoError(t, err)
		env.advance(5 * time.Minute)
	}

	all := env.allSessions(t, task.ID)
	assert.Len(t, all, 3, "each entry/exit pair produces its own session")
	for _, session := range all {
		assert.NotNil(t, session.EndTime)
	}
}

func TestUpdate_AtMostOneOpenSessionAcrossSequence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	task, err := env.tasks.Create(ctx, validCreate("in_progress"))
	require.NoError(t, err)

	sequence := []string{"pending", "in_progress", "done", "in_progress", "archive", "in_progress", "in_progress", "done"}
	for _, status := range sequence {
		env.advance(7 * time.Minute)
		_, err = env.tasks.Update(ctx, task.ID, toUpdate(task, status))
		require.NoError(t, err)
		assert.LessOrEqual(t, len(env.openSessions(t, task.ID)), 1)
	}
}

func TestUpdate_MissingOpenSessionDoesNotFailTheUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	task, err := env.tasks.Create(ctx, validCreate("in_progress"))
	require.NoError(t, err)

	// Sabotage the session history: remove the open session behind the
	// tracker's back.
	open := env.openSessions(t, task.ID)
	require.Len(t, open, 1)
	require.NoError(t, env.sessions.Delete(ctx, open[0].ID))

	updated, err := env.tasks.Update(ctx, task.ID, toUpdate(task, "done"))
	require.NoError(t, err, "the anomaly must not surface to the caller")
	assert.Equal(t, domain.StatusDone, updated.Status)

	persisted, err := env.tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, persisted.Status, "the status change must be committed")
}

func TestDelete_LeavesSessionsInPlace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	task, err := env.tasks.Create(ctx, validCreate("in_progress"))
	require.NoError(t, err)

	require.NoError(t, env.tasks.Delete(ctx, task.ID))
	assert.ErrorIs(t, env.tasks.Delete(ctx, task.ID), domain.ErrTaskNotFound)

	// The open session is orphaned, not closed or removed
	assert.Len(t, env.openSessions(t, task.ID), 1)
}

func TestValidateFields(t *testing.T) {
	fields, err := validateFields("P", "T", "", "archive")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusArchive, fields.Status)

	_, err = validateFields("P", "T", "", "bogus")
	assert.True(t, domain.IsValidation(err))
}
