package store

import (
	"context"
	"time"

	"github.com/taskflow/taskflow-api/internal/domain"
)

// TaskFilter narrows List results. Zero values mean "no constraint".
type TaskFilter struct {
	Status     domain.TaskStatus
	Priority   domain.TaskPriority
	AssignedTo *int64
}

// TaskStore defines the interface for task data persistence.
//
// Every read excludes soft-deleted rows (deleted_at non-null). Implementations
// must use parameterized queries exclusively; user-controlled values are never
// interpolated into query text.
type TaskStore interface {
	// Create saves a new task and assigns its ID and timestamps.
	// Returns ErrInvalidEntity (wrapped) if the task fails domain validation.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist or is soft-deleted.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// List retrieves all tasks matching the filter, newest first.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// Update persists changes to an existing task and refreshes updated_at.
	// Returns ErrTaskNotFound if the task does not exist or is soft-deleted.
	Update(ctx context.Context, task *domain.Task) error

	// Delete soft-deletes a task by stamping deleted_at. The row is kept but
	// excluded from every subsequent read.
	// Returns ErrTaskNotFound if the task does not exist or is already deleted.
	Delete(ctx context.Context, id int64) error

	// FindOverdue returns the page of non-deleted, non-completed tasks whose
	// due date is strictly before cutoff, ordered by due date ascending with
	// ties broken by id ascending so pagination is deterministic.
	FindOverdue(ctx context.Context, cutoff time.Time, limit, offset int) ([]*domain.Task, error)

	// CountOverdue returns the total number of tasks matching the exact same
	// predicate as FindOverdue, ignoring limit and offset. Callers issue it
	// alongside FindOverdue for pagination metadata; the two reads are not
	// transactionally coupled, so the count may drift under concurrent writes.
	CountOverdue(ctx context.Context, cutoff time.Time) (int, error)

	// FindDueBetween returns non-deleted, non-completed tasks with a due date
	// in [from, to), ordered by due date ascending with ties broken by id.
	FindDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error)

	// Stats aggregates task counts by status and priority plus the number of
	// tasks overdue relative to now.
	Stats(ctx context.Context, now time.Time) (*domain.TaskStats, error)
}
