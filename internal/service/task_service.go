package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/taskflow/taskflow-api/internal/domain"
	"github.com/taskflow/taskflow-api/internal/store"
)

// TaskUpdate carries a partial update for a task. Nil fields are left
// unchanged, matching the PUT semantics of the legacy API.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	DueDate     *time.Time
	UserID      *int64
}

// TaskService coordinates task operations between the HTTP layer and the
// task store. The overdue pipeline is entirely request-scoped: each call
// computes its own cutoff from the injected clock, so concurrent requests
// never share state beyond the read-only store.
type TaskService struct {
	tasks  store.TaskStore
	logger *slog.Logger
	now    func() time.Time
}

// TaskServiceOption customizes a TaskService.
type TaskServiceOption func(*TaskService)

// WithClock overrides the time source, primarily for deterministic tests.
func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *TaskService) {
		s.now = now
	}
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks store.TaskStore, logger *slog.Logger, opts ...TaskServiceOption) *TaskService {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskService")
	}

	s := &TaskService{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_service")),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Overdue runs the overdue-task query pipeline: compute the cutoff from the
// validated query, read the page and the total under the identical predicate,
// annotate each returned task with its days overdue, and assemble the
// paginated envelope. The page and count reads are issued back to back but
// are not transactionally coupled; under concurrent writes the total may
// drift from the page, which is an accepted artifact of the two-read design.
func (s *TaskService) Overdue(ctx context.Context, q domain.OverdueQuery) (*domain.OverdueResult, error) {
	now := s.now().UTC()
	cutoff := domain.OverdueCutoff(now, q.Days)

	page, err := s.tasks.FindOverdue(ctx, cutoff, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}

	total, err := s.tasks.CountOverdue(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	// Annotation runs over the returned page only, so its cost scales with
	// the limit rather than the total match count.
	annotated := make([]domain.OverdueTask, len(page))
	for i, task := range page {
		annotated[i] = domain.OverdueTask{
			Task:        task,
			DaysOverdue: domain.DaysOverdue(*task.DueDate, now),
		}
	}

	s.logger.DebugContext(ctx, "overdue query executed",
		slog.Int("days", q.Days),
		slog.Int("limit", q.Limit),
		slog.Int("offset", q.Offset),
		slog.Int("total", total),
		slog.Int("returned", len(annotated)))

	return &domain.OverdueResult{
		Tasks:   annotated,
		Total:   total,
		Limit:   q.Limit,
		Offset:  q.Offset,
		HasMore: q.Offset+q.Limit < total,
	}, nil
}

// DueToday returns non-completed tasks due within the current UTC day.
func (s *TaskService) DueToday(ctx context.Context) ([]*domain.Task, error) {
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.tasks.FindDueBetween(ctx, start, start.Add(24*time.Hour))
}

// DueThisWeek returns non-completed tasks due within the next seven days.
func (s *TaskService) DueThisWeek(ctx context.Context) ([]*domain.Task, error) {
	now := s.now().UTC()
	return s.tasks.FindDueBetween(ctx, now, now.Add(7*24*time.Hour))
}

// Stats aggregates task counts by status and priority plus the number of
// tasks currently overdue.
func (s *TaskService) Stats(ctx context.Context) (*domain.TaskStats, error) {
	return s.tasks.Stats(ctx, s.now().UTC())
}

// Create validates and persists a new task.
func (s *TaskService) Create(ctx context.Context, title, description string, status domain.TaskStatus, priority domain.TaskPriority, dueDate *time.Time, userID *int64) (*domain.Task, error) {
	task, err := domain.NewTask(title, description, status, priority, dueDate, userID)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "task created", slog.Int64("task_id", task.ID))
	return task, nil
}

// Get retrieves a task by ID.
func (s *TaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

// List retrieves tasks matching the filter.
func (s *TaskService) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	return s.tasks.List(ctx, filter)
}

// Update applies a partial update to an existing task.
func (s *TaskService) Update(ctx context.Context, id int64, upd TaskUpdate) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		task.Title = *upd.Title
	}
	if upd.Description != nil {
		task.Description = *upd.Description
	}
	if upd.Status != nil {
		task.Status = *upd.Status
	}
	if upd.Priority != nil {
		task.Priority = *upd.Priority
	}
	if upd.DueDate != nil {
		task.DueDate = upd.DueDate
	}
	if upd.UserID != nil {
		task.UserID = upd.UserID
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// Delete soft-deletes a task.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "task deleted", slog.Int64("task_id", id))
	return nil
}
