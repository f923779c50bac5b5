package domain

import (
	"strings"
	"testing"
	"time"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	due := time.Date(2025, 10, 10, 14, 0, 0, 0, time.UTC)
	userID := int64(2)

	task, err := NewTask("Setup CI/CD pipeline", "Configure GitHub Actions", TaskStatusPending, TaskPriorityHigh, &due, &userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.Title != "Setup CI/CD pipeline" {
		t.Errorf("Expected title to be set, got %q", task.Title)
	}
	if task.Status != TaskStatusPending {
		t.Errorf("Expected status pending, got %q", task.Status)
	}
	if task.DueDate == nil || !task.DueDate.Equal(due) {
		t.Errorf("Expected due date %v, got %v", due, task.DueDate)
	}
	if task.UserID == nil || *task.UserID != userID {
		t.Errorf("Expected user ID %d, got %v", userID, task.UserID)
	}
}

func TestNewTaskDefaults(t *testing.T) {
	t.Parallel()

	task, err := NewTask("Fix login bug", "", "", "", nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.Status != TaskStatusPending {
		t.Errorf("Expected default status pending, got %q", task.Status)
	}
	if task.Priority != TaskPriorityMedium {
		t.Errorf("Expected default priority medium, got %q", task.Priority)
	}
}

func TestTaskValidate(t *testing.T) {
	t.Parallel()

	valid := Task{
		Title:    "Update documentation",
		Status:   TaskStatusPending,
		Priority: TaskPriorityMedium,
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	empty := valid
	empty.Title = "   "
	if err := empty.Validate(); err != ErrTaskTitleEmpty {
		t.Errorf("Expected error %v, got %v", ErrTaskTitleEmpty, err)
	}

	long := valid
	long.Title = strings.Repeat("x", MaxTitleLength+1)
	if err := long.Validate(); err != ErrTaskTitleTooLong {
		t.Errorf("Expected error %v, got %v", ErrTaskTitleTooLong, err)
	}

	badStatus := valid
	badStatus.Status = "archived"
	if err := badStatus.Validate(); err != ErrTaskStatusInvalid {
		t.Errorf("Expected error %v, got %v", ErrTaskStatusInvalid, err)
	}

	badPriority := valid
	badPriority.Priority = "critical"
	if err := badPriority.Validate(); err != ErrTaskPriorityInvalid {
		t.Errorf("Expected error %v, got %v", ErrTaskPriorityInvalid, err)
	}
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	user, err := NewUser("john_doe", "john@example.com", "John", "Doe")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !user.IsActive {
		t.Error("Expected new users to be active")
	}

	noName := *user
	noName.Username = ""
	if err := noName.Validate(); err != ErrUserUsernameEmpty {
		t.Errorf("Expected error %v, got %v", ErrUserUsernameEmpty, err)
	}

	badEmail := *user
	badEmail.Email = "not-an-email"
	if err := badEmail.Validate(); err != ErrUserEmailInvalid {
		t.Errorf("Expected error %v, got %v", ErrUserEmailInvalid, err)
	}
}
