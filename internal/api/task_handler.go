package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/taskflow/taskflow-api/internal/api/shared"
	"github.com/taskflow/taskflow-api/internal/domain"
	"github.com/taskflow/taskflow-api/internal/service"
	"github.com/taskflow/taskflow-api/internal/store"
)

// timeLayout is the ISO-8601 layout used for timestamps in request and
// response bodies, matching the legacy API's naive-UTC format.
const timeLayout = "2006-01-02T15:04:05"

// TaskService defines the task operations the handler depends on.
type TaskService interface {
	Overdue(ctx context.Context, q domain.OverdueQuery) (*domain.OverdueResult, error)
	DueToday(ctx context.Context) ([]*domain.Task, error)
	DueThisWeek(ctx context.Context) ([]*domain.Task, error)
	Stats(ctx context.Context) (*domain.TaskStats, error)
	Create(ctx context.Context, title, description string, status domain.TaskStatus, priority domain.TaskPriority, dueDate *time.Time, userID *int64) (*domain.Task, error)
	Get(ctx context.Context, id int64) (*domain.Task, error)
	List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, id int64, upd service.TaskUpdate) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
}

// TaskResponse represents the response data for a task. The soft-delete
// marker is deliberately absent: it must never be exposed.
type TaskResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date"`
	AssignedTo  *int64  `json:"assigned_to"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// OverdueTaskResponse is a TaskResponse annotated with the number of full
// 24-hour periods the task is past due.
type OverdueTaskResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date"`
	DaysOverdue int     `json:"days_overdue"`
	AssignedTo  *int64  `json:"assigned_to"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// OverdueListResponse is the paginated envelope for GET /tasks/overdue.
type OverdueListResponse struct {
	Tasks   []OverdueTaskResponse `json:"tasks"`
	Total   int                   `json:"total"`
	Limit   int                   `json:"limit"`
	Offset  int                   `json:"offset"`
	HasMore bool                  `json:"hasMore"`
}

// TaskListResponse is the envelope for unpaginated task list endpoints.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// StatsResponse is the envelope for GET /tasks/stats.
type StatsResponse struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByPriority map[string]int `json:"by_priority"`
	Overdue    int            `json:"overdue"`
}

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskService TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// ListOverdueTasks handles GET /tasks/overdue requests.
// Query parameter validation runs before any store access: a malformed
// days/limit/offset value short-circuits to a 400 naming every offending
// field, and no query is issued.
func (h *TaskHandler) ListOverdueTasks(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	query, err := domain.ParseOverdueQuery(params.Get("days"), params.Get("limit"), params.Get("offset"))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	result, err := h.taskService.Overdue(r.Context(), query)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := OverdueListResponse{
		Tasks:   make([]OverdueTaskResponse, 0, len(result.Tasks)),
		Total:   result.Total,
		Limit:   result.Limit,
		Offset:  result.Offset,
		HasMore: result.HasMore,
	}
	for _, annotated := range result.Tasks {
		response.Tasks = append(response.Tasks, overdueTaskToResponse(annotated))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// ListDueToday handles GET /tasks/due-today requests.
func (h *TaskHandler) ListDueToday(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.DueToday(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasksToListResponse(tasks))
}

// ListDueThisWeek handles GET /tasks/due-this-week requests.
func (h *TaskHandler) ListDueThisWeek(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.DueThisWeek(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasksToListResponse(tasks))
}

// GetStats handles GET /tasks/stats requests.
func (h *TaskHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.taskService.Stats(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := StatsResponse{
		Total:      stats.Total,
		ByStatus:   make(map[string]int, len(stats.ByStatus)),
		ByPriority: make(map[string]int, len(stats.ByPriority)),
		Overdue:    stats.Overdue,
	}
	for status, count := range stats.ByStatus {
		response.ByStatus[string(status)] = count
	}
	for priority, count := range stats.ByPriority {
		response.ByPriority[string(priority)] = count
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// ListTasks handles GET /tasks requests with optional status, priority, and
// assigned_to filters.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	filter := store.TaskFilter{
		Status:   domain.TaskStatus(params.Get("status")),
		Priority: domain.TaskPriority(params.Get("priority")),
	}

	if raw := params.Get("assigned_to"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid query parameter: assigned_to must be an integer")
			return
		}
		filter.AssignedTo = &id
	}

	tasks, err := h.taskService.List(r.Context(), filter)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToListResponse(tasks))
}

// GetTask handles GET /tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskIDFromPath(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// CreateTaskRequest represents the request body for creating a task.
type CreateTaskRequest struct {
	Title       string  `json:"title"       validate:"required,max=200"`
	Description string  `json:"description"`
	Status      string  `json:"status"      validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority    string  `json:"priority"    validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *string `json:"due_date"`
	UserID      *int64  `json:"user_id"`
}

// CreateTask handles POST /tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, validationDetail(err), err)
		return
	}

	dueDate, err := parseOptionalTime(req.DueDate)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid due_date: must be an ISO-8601 timestamp")
		return
	}

	task, err := h.taskService.Create(r.Context(), req.Title, req.Description,
		domain.TaskStatus(req.Status), domain.TaskPriority(req.Priority), dueDate, req.UserID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// UpdateTaskRequest represents the request body for updating a task.
// Absent fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title"       validate:"omitempty,max=200"`
	Description *string `json:"description"`
	Status      *string `json:"status"      validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority    *string `json:"priority"    validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *string `json:"due_date"`
	UserID      *int64  `json:"user_id"`
}

// UpdateTask handles PUT /tasks/{id} requests.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskIDFromPath(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, validationDetail(err), err)
		return
	}

	dueDate, err := parseOptionalTime(req.DueDate)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid due_date: must be an ISO-8601 timestamp")
		return
	}

	upd := service.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		UserID:      req.UserID,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		upd.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		upd.Priority = &priority
	}

	task, err := h.taskService.Update(r.Context(), id, upd)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /tasks/{id} requests. Deletion is soft: the task
// is excluded from all reads but the row is retained.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]bool{"deleted": true})
}

// taskIDFromPath extracts and parses the {id} URL parameter, responding with
// a 400 itself when the value is malformed.
func (h *TaskHandler) taskIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("invalid task ID in URL path", slog.String("task_id", raw))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID format")
		return 0, false
	}
	return id, true
}

// taskToResponse converts a domain.Task to a TaskResponse.
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		DueDate:     formatOptionalTime(task.DueDate),
		AssignedTo:  task.UserID,
		CreatedAt:   task.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt:   task.UpdatedAt.UTC().Format(timeLayout),
	}
}

// overdueTaskToResponse converts an annotated overdue task to its response form.
func overdueTaskToResponse(annotated domain.OverdueTask) OverdueTaskResponse {
	base := taskToResponse(annotated.Task)
	return OverdueTaskResponse{
		ID:          base.ID,
		Title:       base.Title,
		Description: base.Description,
		Status:      base.Status,
		Priority:    base.Priority,
		DueDate:     base.DueDate,
		DaysOverdue: annotated.DaysOverdue,
		AssignedTo:  base.AssignedTo,
		CreatedAt:   base.CreatedAt,
		UpdatedAt:   base.UpdatedAt,
	}
}

func tasksToListResponse(tasks []*domain.Task) TaskListResponse {
	response := TaskListResponse{Tasks: make([]TaskResponse, 0, len(tasks))}
	for _, task := range tasks {
		response.Tasks = append(response.Tasks, taskToResponse(task))
	}
	response.Total = len(response.Tasks)
	return response
}

// formatOptionalTime renders an optional timestamp in the response layout.
func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(timeLayout)
	return &s
}

// parseOptionalTime parses an optional request timestamp, accepting the
// legacy naive layout and full RFC 3339.
func parseOptionalTime(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(timeLayout, *raw, time.UTC); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

// validationDetail converts a validator error into a client-facing message
// naming the offending field and constraint.
func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, "Invalid "+strings.ToLower(fe.Field())+": "+validationTagMessage(fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}

// validationTagMessage maps validation tags to user-friendly error messages.
func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "max":
		return "too long"
	case "min":
		return "too short"
	case "oneof":
		return "invalid value"
	case "email":
		return "invalid email format"
	default:
		return "validation failed"
	}
}
