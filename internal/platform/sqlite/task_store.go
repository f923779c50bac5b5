package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/taskflow/taskflow-api/internal/domain"
	"github.com/taskflow/taskflow-api/internal/store"
)

// overduePredicate is the shared WHERE clause for the overdue page and count
// reads; both must apply the identical filter so the pagination metadata
// stays consistent with the returned rows.
const overduePredicate = `deleted_at IS NULL AND due_date IS NOT NULL AND status != ? AND due_date < ?`

// TaskStore implements the store.TaskStore interface using SQLite.
type TaskStore struct {
	db *sql.DB
}

// NewTaskStore creates a new SQLite implementation of the TaskStore interface.
// It accepts a database connection that should be initialized and managed by
// the caller.
func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	task.CreatedAt = now
	task.UpdatedAt = now

	query := `
		INSERT INTO tasks (title, description, status, priority, due_date, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		nullableTime(task.DueDate),
		nullableInt(task.UserID),
		formatTime(task.CreatedAt),
		formatTime(task.UpdatedAt),
	)
	if err != nil {
		return store.NewStoreError("task", "create", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return store.NewStoreError("task", "create", err)
	}
	task.ID = id

	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	query := taskSelectColumns + ` FROM tasks WHERE id = ? AND deleted_at IS NULL`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrTaskNotFound
	}
	if err != nil {
		return nil, store.NewStoreError("task", "get_by_id", err)
	}

	return task, nil
}

// List implements store.TaskStore.List
func (s *TaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	query := taskSelectColumns + ` FROM tasks WHERE deleted_at IS NULL`
	args := []any{}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Priority != "" {
		query += ` AND priority = ?`
		args = append(args, string(filter.Priority))
	}
	if filter.AssignedTo != nil {
		query += ` AND user_id = ?`
		args = append(args, *filter.AssignedTo)
	}

	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("task", "list", err)
	}
	defer rows.Close()

	return collectTasks(rows, "list")
}

// Update implements store.TaskStore.Update
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	task.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	query := `
		UPDATE tasks
		SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, user_id = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		nullableTime(task.DueDate),
		nullableInt(task.UserID),
		formatTime(task.UpdatedAt),
		task.ID,
	)
	if err != nil {
		return store.NewStoreError("task", "update", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return store.NewStoreError("task", "update", err)
	}
	if affected == 0 {
		return store.ErrTaskNotFound
	}

	return nil
}

// Delete implements store.TaskStore.Delete as a soft delete: the row is
// stamped with deleted_at and excluded from all subsequent reads.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	query := `UPDATE tasks SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`

	res, err := s.db.ExecContext(ctx, query, formatTime(time.Now()), id)
	if err != nil {
		return store.NewStoreError("task", "delete", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return store.NewStoreError("task", "delete", err)
	}
	if affected == 0 {
		return store.ErrTaskNotFound
	}

	return nil
}

// FindOverdue implements store.TaskStore.FindOverdue. Rows are ordered by
// due date ascending (most overdue first) with ties broken by id ascending,
// so any limit/offset window is deterministic.
func (s *TaskStore) FindOverdue(ctx context.Context, cutoff time.Time, limit, offset int) ([]*domain.Task, error) {
	query := taskSelectColumns + ` FROM tasks WHERE ` + overduePredicate + `
		ORDER BY due_date ASC, id ASC
		LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, query, string(domain.TaskStatusCompleted), formatTime(cutoff), limit, offset)
	if err != nil {
		return nil, store.NewStoreError("task", "find_overdue", err)
	}
	defer rows.Close()

	return collectTasks(rows, "find_overdue")
}

// CountOverdue implements store.TaskStore.CountOverdue using the exact same
// predicate as FindOverdue.
func (s *TaskStore) CountOverdue(ctx context.Context, cutoff time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM tasks WHERE ` + overduePredicate

	var total int
	err := s.db.QueryRowContext(ctx, query, string(domain.TaskStatusCompleted), formatTime(cutoff)).Scan(&total)
	if err != nil {
		return 0, store.NewStoreError("task", "count_overdue", err)
	}

	return total, nil
}

// FindDueBetween implements store.TaskStore.FindDueBetween
func (s *TaskStore) FindDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error) {
	query := taskSelectColumns + ` FROM tasks
		WHERE deleted_at IS NULL AND due_date IS NOT NULL AND status != ?
		AND due_date >= ? AND due_date < ?
		ORDER BY due_date ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, string(domain.TaskStatusCompleted), formatTime(from), formatTime(to))
	if err != nil {
		return nil, store.NewStoreError("task", "find_due_between", err)
	}
	defer rows.Close()

	return collectTasks(rows, "find_due_between")
}

// Stats implements store.TaskStore.Stats
func (s *TaskStore) Stats(ctx context.Context, now time.Time) (*domain.TaskStats, error) {
	stats := &domain.TaskStats{
		ByStatus:   make(map[domain.TaskStatus]int),
		ByPriority: make(map[domain.TaskPriority]int),
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, priority, COUNT(*) FROM tasks WHERE deleted_at IS NULL GROUP BY status, priority`)
	if err != nil {
		return nil, store.NewStoreError("task", "stats", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status, priority string
		var count int
		if err := rows.Scan(&status, &priority, &count); err != nil {
			return nil, store.NewStoreError("task", "stats", err)
		}
		stats.Total += count
		stats.ByStatus[domain.TaskStatus(status)] += count
		stats.ByPriority[domain.TaskPriority(priority)] += count
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "stats", err)
	}

	overdue, err := s.CountOverdue(ctx, now)
	if err != nil {
		return nil, err
	}
	stats.Overdue = overdue

	return stats, nil
}

// taskSelectColumns is the canonical column list for task reads; scanTask
// expects exactly this order.
const taskSelectColumns = `SELECT id, title, description, status, priority, due_date, user_id, created_at, updated_at, deleted_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask is the explicit typed mapping from a raw row to a domain.Task.
// Malformed timestamps are rejected at this boundary instead of being passed
// through as zero values.
func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		description sql.NullString
		status      string
		priority    string
		dueDate     sql.NullString
		userID      sql.NullInt64
		createdAt   sql.NullString
		updatedAt   sql.NullString
		deletedAt   sql.NullString
	)

	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&status,
		&priority,
		&dueDate,
		&userID,
		&createdAt,
		&updatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)

	if task.DueDate, err = parseTime(dueDate); err != nil {
		return nil, fmt.Errorf("due_date: %w", err)
	}
	if userID.Valid {
		task.UserID = &userID.Int64
	}

	created, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	if created != nil {
		task.CreatedAt = *created
	}

	updated, err := parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("updated_at: %w", err)
	}
	if updated != nil {
		task.UpdatedAt = *updated
	}

	if task.DeletedAt, err = parseTime(deletedAt); err != nil {
		return nil, fmt.Errorf("deleted_at: %w", err)
	}

	return &task, nil
}

// collectTasks drains a result set through scanTask.
func collectTasks(rows *sql.Rows, operation string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", operation, err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", operation, err)
	}
	return tasks, nil
}

// nullableTime renders an optional timestamp for a nullable TEXT column.
func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// nullableInt renders an optional int64 for a nullable INTEGER column.
func nullableInt(n *int64) any {
	if n == nil {
		return nil
	}
	return *n
}
