package domain

import (
	"errors"
	"strings"
	"time"
)

// Task-specific validation errors
var (
	// ErrTaskTitleEmpty is returned when a task title is empty or whitespace only.
	ErrTaskTitleEmpty = errors.New("task title cannot be empty")

	// ErrTaskTitleTooLong is returned when a task title exceeds MaxTitleLength.
	ErrTaskTitleTooLong = errors.New("task title must be at most 200 characters")

	// ErrTaskStatusInvalid is returned when a task status is not one of the known values.
	ErrTaskStatusInvalid = errors.New("invalid task status")

	// ErrTaskPriorityInvalid is returned when a task priority is not one of the known values.
	ErrTaskPriorityInvalid = errors.New("invalid task priority")
)

// MaxTitleLength is the maximum number of characters allowed in a task title.
const MaxTitleLength = 200

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// IsValid reports whether the status is one of the known values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// TaskPriority represents the urgency of a task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// IsValid reports whether the priority is one of the known values.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// Task represents a single tracked task. The ID is assigned by the store on
// creation. DueDate and UserID are optional; DeletedAt non-nil marks the task
// as soft-deleted, which excludes it from every query.
type Task struct {
	ID          int64
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
	UserID      *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// NewTask creates a new Task with the given fields, applying the default
// status and priority when unset. Timestamps are set by the store on save.
// Returns an error if validation fails.
func NewTask(title, description string, status TaskStatus, priority TaskPriority, dueDate *time.Time, userID *int64) (*Task, error) {
	if status == "" {
		status = TaskStatusPending
	}
	if priority == "" {
		priority = TaskPriorityMedium
	}

	task := &Task{
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
		UserID:      userID,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if len(strings.TrimSpace(t.Title)) == 0 {
		return ErrTaskTitleEmpty
	}

	if len(t.Title) > MaxTitleLength {
		return ErrTaskTitleTooLong
	}

	if !t.Status.IsValid() {
		return ErrTaskStatusInvalid
	}

	if !t.Priority.IsValid() {
		return ErrTaskPriorityInvalid
	}

	return nil
}

// IsOverdue reports whether the task counts as overdue relative to the given
// cutoff: not soft-deleted, has a due date, is not completed, and the due date
// is strictly before the cutoff.
func (t *Task) IsOverdue(cutoff time.Time) bool {
	if t.DeletedAt != nil {
		return false
	}
	if t.DueDate == nil {
		return false
	}
	if t.Status == TaskStatusCompleted {
		return false
	}
	return t.DueDate.Before(cutoff)
}
