package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskflow/taskflow-api/internal/domain"
	"github.com/taskflow/taskflow-api/internal/store"
)

// newTestDB opens a migrated database file in a per-test temp directory.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(context.Background(), DBConfig{
		Path: filepath.Join(t.TempDir(), "taskflow_test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// mustCreateTask inserts a pending task with the given due date (nil for no
// deadline) and returns it.
func mustCreateTask(t *testing.T, s *TaskStore, title string, status domain.TaskStatus, due *time.Time) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(title, "", status, domain.TaskPriorityMedium, due, nil)
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), task))
	return task
}

func TestTaskCRUD(t *testing.T) {
	db := newTestDB(t)
	s := NewTaskStore(db)
	ctx := context.Background()

	due := time.Date(2025, 10, 10, 14, 0, 0, 0, time.UTC)
	userID := int64(2)
	task, err := domain.NewTask("Setup CI/CD pipeline", "Configure GitHub Actions", domain.TaskStatusPending, domain.TaskPriorityHigh, &due, &userID)
	require.NoError(t, err)

	require.NoError(t, s.Create(ctx, task))
	require.Positive(t, task.ID)
	require.False(t, task.CreatedAt.IsZero())

	got, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, "Setup CI/CD pipeline", got.Title)
	require.NotNil(t, got.DueDate)
	require.True(t, got.DueDate.Equal(due))
	require.NotNil(t, got.UserID)
	require.Equal(t, userID, *got.UserID)

	got.Status = domain.TaskStatusInProgress
	require.NoError(t, s.Update(ctx, got))

	updated, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TaskStatusInProgress, updated.Status)

	require.NoError(t, s.Delete(ctx, task.ID))

	_, err = s.GetByID(ctx, task.ID)
	require.ErrorIs(t, err, store.ErrTaskNotFound)

	// Soft delete keeps the row but hides it from List as well.
	tasks, err := s.List(ctx, store.TaskFilter{})
	require.NoError(t, err)
	require.Empty(t, tasks)

	require.ErrorIs(t, s.Delete(ctx, task.ID), store.ErrTaskNotFound)
}

func TestListFilters(t *testing.T) {
	db := newTestDB(t)
	s := NewTaskStore(db)
	ctx := context.Background()

	mustCreateTask(t, s, "pending one", domain.TaskStatusPending, nil)
	mustCreateTask(t, s, "completed one", domain.TaskStatusCompleted, nil)

	pending, err := s.List(ctx, store.TaskFilter{Status: domain.TaskStatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "pending one", pending[0].Title)

	all, err := s.List(ctx, store.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestFindOverduePredicate(t *testing.T) {
	db := newTestDB(t)
	s := NewTaskStore(db)
	ctx := context.Background()

	cutoff := time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC)
	before := cutoff.Add(-time.Second)
	after := cutoff.Add(time.Second)

	included := mustCreateTask(t, s, "due before cutoff", domain.TaskStatusPending, &before)
	mustCreateTask(t, s, "due exactly at cutoff", domain.TaskStatusPending, &cutoff)
	mustCreateTask(t, s, "due after cutoff", domain.TaskStatusPending, &after)
	mustCreateTask(t, s, "completed but overdue", domain.TaskStatusCompleted, &before)
	mustCreateTask(t, s, "no due date", domain.TaskStatusPending, nil)

	deleted := mustCreateTask(t, s, "deleted but overdue", domain.TaskStatusPending, &before)
	require.NoError(t, s.Delete(ctx, deleted.ID))

	tasks, err := s.FindOverdue(ctx, cutoff, 10, 0)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, included.ID, tasks[0].ID)

	total, err := s.CountOverdue(ctx, cutoff)
	require.NoError(t, err)
	require.Equal(t, 1, total)
}

func TestFindOverdueOrderingAndTieBreak(t *testing.T) {
	db := newTestDB(t)
	s := NewTaskStore(db)
	ctx := context.Background()

	cutoff := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	jan1 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	jan5 := time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)

	// Insert out of order; same due date ties must come back in id order.
	later := mustCreateTask(t, s, "due jan 5", domain.TaskStatusPending, &jan5)
	tieA := mustCreateTask(t, s, "due jan 1 first insert", domain.TaskStatusPending, &jan1)
	tieB := mustCreateTask(t, s, "due jan 1 second insert", domain.TaskStatusPending, &jan1)

	tasks, err := s.FindOverdue(ctx, cutoff, 10, 0)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	require.Equal(t, tieA.ID, tasks[0].ID)
	require.Equal(t, tieB.ID, tasks[1].ID)
	require.Equal(t, later.ID, tasks[2].ID)

	for i := 1; i < len(tasks); i++ {
		require.False(t, tasks[i].DueDate.Before(*tasks[i-1].DueDate),
			"tasks must be ordered by due date ascending")
	}
}

func TestFindOverduePagination(t *testing.T) {
	db := newTestDB(t)
	s := NewTaskStore(db)
	ctx := context.Background()

	cutoff := time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		due := cutoff.Add(-time.Duration(i+1) * 24 * time.Hour)
		mustCreateTask(t, s, fmt.Sprintf("overdue %d", i), domain.TaskStatusPending, &due)
	}

	total, err := s.CountOverdue(ctx, cutoff)
	require.NoError(t, err)
	require.Equal(t, 15, total)

	page1, err := s.FindOverdue(ctx, cutoff, 10, 0)
	require.NoError(t, err)
	require.Len(t, page1, 10)

	page2, err := s.FindOverdue(ctx, cutoff, 10, 10)
	require.NoError(t, err)
	require.Len(t, page2, 5)

	// Pages must not overlap.
	seen := make(map[int64]bool)
	for _, task := range append(page1, page2...) {
		require.False(t, seen[task.ID], "task %d returned on both pages", task.ID)
		seen[task.ID] = true
	}

	// Total is invariant across limit/offset combinations.
	totalAgain, err := s.CountOverdue(ctx, cutoff)
	require.NoError(t, err)
	require.Equal(t, total, totalAgain)
}

func TestFindDueBetween(t *testing.T) {
	db := newTestDB(t)
	s := NewTaskStore(db)
	ctx := context.Background()

	from := time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	inside := from.Add(12 * time.Hour)
	beforeWindow := from.Add(-time.Hour)

	included := mustCreateTask(t, s, "due today", domain.TaskStatusPending, &inside)
	mustCreateTask(t, s, "due yesterday", domain.TaskStatusPending, &beforeWindow)
	mustCreateTask(t, s, "due at exclusive end", domain.TaskStatusPending, &to)
	mustCreateTask(t, s, "completed today", domain.TaskStatusCompleted, &inside)

	tasks, err := s.FindDueBetween(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, included.ID, tasks[0].ID)
}

func TestStats(t *testing.T) {
	db := newTestDB(t)
	s := NewTaskStore(db)
	ctx := context.Background()

	now := time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)

	mustCreateTask(t, s, "overdue pending", domain.TaskStatusPending, &past)
	mustCreateTask(t, s, "completed", domain.TaskStatusCompleted, &past)
	mustCreateTask(t, s, "no deadline", domain.TaskStatusInProgress, nil)

	stats, err := s.Stats(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 3, stats.Total)
	require.Equal(t, 1, stats.ByStatus[domain.TaskStatusPending])
	require.Equal(t, 1, stats.ByStatus[domain.TaskStatusCompleted])
	require.Equal(t, 1, stats.ByStatus[domain.TaskStatusInProgress])
	require.Equal(t, 3, stats.ByPriority[domain.TaskPriorityMedium])
	require.Equal(t, 1, stats.Overdue)
}
