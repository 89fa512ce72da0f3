package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worklog/internal/domain"
	"worklog/internal/ports"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "worklog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newTestTask(t *testing.T, repo *SQLiteRepository, status domain.Status) *domain.Task {
	t.Helper()
	task, err := repo.Create(context.Background(), domain.TaskFields{
		ProjectCode: "ProjectX",
		TaskType:    "Implement",
		Description: "test task",
		Status:      status,
	})
	require.NoError(t, err)
	return task
}

func TestCreate_AssignsSequentialOrderIndexes(t *testing.T) {
	repo := newTestRepo(t)

	for i := 1; i <= 5; i++ {
		task := newTestTask(t, repo, domain.StatusPending)
		assert.Equal(t, i, task.OrderIndex)
	}
}

func TestCreate_ConcurrentCreatesNeverShareAnIndex(t *testing.T) {
	repo := newTestRepo(t)

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(context.Background(), domain.TaskFields{
				ProjectCode: "ProjectX",
				TaskType:    "Implement",
				Status:      domain.StatusPending,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	tasks, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, n)

	seen := make(map[int]bool)
	for _, task := range tasks {
		assert.False(t, seen[task.OrderIndex], "duplicate order index %d", task.OrderIndex)
		seen[task.OrderIndex] = true
	}
	for i := 1; i <= n; i++ {
		assert.True(t, seen[i], "order index %d missing", i)
	}
}

func TestList_OrderedByOrderIndex(t *testing.T) {
	repo := newTestRepo(t)

	newTestTask(t, repo, domain.StatusPending)
	newTestTask(t, repo, domain.StatusDone)
	newTestTask(t, repo, domain.StatusPending)

	tasks, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	for i, task := range tasks {
		assert.Equal(t, i+1, task.OrderIndex)
	}
}

func TestUpdate_OverwritesFields(t *testing.T) {
	repo := newTestRepo(t)
	task := newTestTask(t, repo, domain.StatusPending)

	updated, err := repo.Update(context.Background(), task.ID, domain.TaskFields{
		ProjectCode: "DemoProject",
		TaskType:    "Meeting",
		Description: "",
		Status:      domain.StatusDone,
	})
	require.NoError(t, err)
	assert.Equal(t, "DemoProject", updated.ProjectCode)
	assert.Equal(t, "Meeting", updated.TaskType)
	assert.Equal(t, "", updated.Description, "empty description must overwrite, not be skipped")
	assert.Equal(t, domain.StatusDone, updated.Status)
	assert.Equal(t, task.OrderIndex, updated.OrderIndex, "order index never changes on update")
}

func TestUpdate_UnknownTask(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Update(context.Background(), 42, domain.TaskFields{
		ProjectCode: "X", TaskType: "Y", Status: domain.StatusPending,
	})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestGet_UnknownTask(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestDelete_KeepsSessions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	task := newTestTask(t, repo, domain.StatusPending)

	start := time.Now().Add(-time.Hour)
	_, err := repo.Open(ctx, task.ID, start)
	require.NoError(t, err)
	_, err = repo.CloseOpen(ctx, task.ID, time.Now())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, task.ID))
	assert.ErrorIs(t, repo.Delete(ctx, task.ID), domain.ErrTaskNotFound)

	sessions, err := repo.ListSessions(ctx, ports.SessionFilter{TaskID: &task.ID})
	require.NoError(t, err)
	assert.Len(t, sessions, 1, "sessions survive task deletion")

	// but the summary join drops them
	rows, err := repo.ListForDate(ctx, start)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestOpen_RejectsSecondOpenSession(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	task := newTestTask(t, repo, domain.StatusInProgress)

	_, err := repo.Open(ctx, task.ID, time.Now())
	require.NoError(t, err)

	_, err = repo.Open(ctx, task.ID, time.Now())
	assert.ErrorIs(t, err, domain.ErrSessionAlreadyOpen)
}

func TestCloseOpen_ClosesMostRecentlyOpened(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	task := newTestTask(t, repo, domain.StatusPending)

	// Two historical intervals plus one open session
	t0 := time.Now().Add(-3 * time.Hour)
	_, err := repo.Open(ctx, task.ID, t0)
	require.NoError(t, err)
	_, err = repo.CloseOpen(ctx, task.ID, t0.Add(30*time.Minute))
	require.NoError(t, err)

	t1 := t0.Add(time.Hour)
	open, err := repo.Open(ctx, task.ID, t1)
	require.NoError(t, err)

	closed, err := repo.CloseOpen(ctx, task.ID, t1.Add(20*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, open.ID, closed.ID)
	require.NotNil(t, closed.EndTime)

	// No open session remains
	sessions, err := repo.ListSessions(ctx, ports.SessionFilter{TaskID: &task.ID, ActiveOnly: true})
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestCloseOpen_NoOpenSession(t *testing.T) {
	repo := newTestRepo(t)
	task := newTestTask(t, repo, domain.StatusPending)

	_, err := repo.CloseOpen(context.Background(), task.ID, time.Now())
	assert.ErrorIs(t, err, domain.ErrNoOpenSession)
}

func TestListSessions_Filters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	taskA := newTestTask(t, repo, domain.StatusPending)
	taskB := newTestTask(t, repo, domain.StatusPending)

	t0 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	_, err := repo.Open(ctx, taskA.ID, t0)
	require.NoError(t, err)
	_, err = repo.CloseOpen(ctx, taskA.ID, t0.Add(time.Hour))
	require.NoError(t, err)

	_, err = repo.Open(ctx, taskB.ID, t0.Add(2*time.Hour))
	require.NoError(t, err)

	all, err := repo.ListSessions(ctx, ports.SessionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.True(t, all[0].StartTime.Before(all[1].StartTime))

	byTask, err := repo.ListSessions(ctx, ports.SessionFilter{TaskID: &taskA.ID})
	require.NoError(t, err)
	assert.Len(t, byTask, 1)

	active, err := repo.ListSessions(ctx, ports.SessionFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, taskB.ID, active[0].TaskID)

	from := t0.Add(time.Hour)
	later, err := repo.ListSessions(ctx, ports.SessionFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, later, 1)
	assert.Equal(t, taskB.ID, later[0].TaskID)

	to := t0.Add(time.Minute)
	earlier, err := repo.ListSessions(ctx, ports.SessionFilter{To: &to})
	require.NoError(t, err)
	require.Len(t, earlier, 1)
	assert.Equal(t, taskA.ID, earlier[0].TaskID)
}

func TestListForDate_MatchesStartDateOnly(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	task := newTestTask(t, repo, domain.StatusPending)

	// Session crossing midnight: starts on the 10th, ends on the 11th
	start := time.Date(2025, 3, 10, 23, 0, 0, 0, time.Local)
	_, err := repo.Open(ctx, task.ID, start)
	require.NoError(t, err)
	_, err = repo.CloseOpen(ctx, task.ID, start.Add(2*time.Hour))
	require.NoError(t, err)

	onStart, err := repo.ListForDate(ctx, start)
	require.NoError(t, err)
	require.Len(t, onStart, 1)
	assert.Equal(t, task.ID, onStart[0].Task.ID)
	assert.Equal(t, task.ProjectCode, onStart[0].Task.ProjectCode)

	onEnd, err := repo.ListForDate(ctx, start.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, onEnd, "session belongs entirely to its start date")
}

func TestSetTimes_CorrectsSession(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	task := newTestTask(t, repo, domain.StatusPending)

	session, err := repo.Open(ctx, task.ID, time.Now())
	require.NoError(t, err)

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	end := start.Add(90 * time.Minute)
	fixed, err := repo.SetTimes(ctx, session.ID, start, &end)
	require.NoError(t, err)
	assert.True(t, fixed.StartTime.Equal(start))
	require.NotNil(t, fixed.EndTime)
	assert.True(t, fixed.EndTime.Equal(end))

	_, err = repo.SetTimes(ctx, 999, start, &end)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestDeleteSession(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	task := newTestTask(t, repo, domain.StatusPending)

	session, err := repo.Open(ctx, task.ID, time.Now())
	require.NoError(t, err)

	require.NoError(t, repo.DeleteSession(ctx, session.ID))
	assert.ErrorIs(t, repo.DeleteSession(ctx, session.ID), domain.ErrSessionNotFound)
}

func TestSeedCatalogs_DefaultsOnFirstRun(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	codes, err := repo.ListProjectCodes(ctx)
	require.NoError(t, err)
	assert.Contains(t, codes, "ProjectX")
	assert.Contains(t, codes, "DemoProject")

	types, err := repo.ListTaskTypes(ctx)
	require.NoError(t, err)
	assert.Contains(t, types, "Implement")
	assert.Contains(t, types, "Bug Fix")
	assert.Len(t, types, 16)
}

func TestCatalogs_AddListDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddProjectCode(ctx, "Apollo"))
	codes, err := repo.ListProjectCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Apollo", codes[0], "codes are sorted ascending")

	require.NoError(t, repo.DeleteProjectCode(ctx, "Apollo"))
	require.NoError(t, repo.DeleteProjectCode(ctx, "Apollo"), "deleting an unknown code is a no-op")

	require.NoError(t, repo.AddTaskType(ctx, "Archeology"))
	types, err := repo.ListTaskTypes(ctx)
	require.NoError(t, err)
	assert.Contains(t, types, "Archeology")
	require.NoError(t, repo.DeleteTaskType(ctx, "Archeology"))
}
