package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow/taskflow-api/internal/config"
	"github.com/taskflow/taskflow-api/internal/platform/sqlite"
	"github.com/taskflow/taskflow-api/internal/service"
)

// newTestApplication wires a full application against a throwaway SQLite
// file with a pinned clock, so HTTP-level tests see deterministic
// overdue arithmetic.
func newTestApplication(t *testing.T, now time.Time) *application {
	t.Helper()

	db, err := sqlite.Open(context.Background(), sqlite.DBConfig{
		Path: filepath.Join(t.TempDir(), "taskflow_test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	taskStore := sqlite.NewTaskStore(db)
	userStore := sqlite.NewUserStore(db)

	return &application{
		config: &config.Config{
			Server:   config.ServerConfig{Port: 0, LogLevel: "error"},
			Database: config.DatabaseConfig{Path: ":memory:"},
		},
		logger:      log,
		db:          db,
		taskStore:   taskStore,
		userStore:   userStore,
		taskService: service.NewTaskService(taskStore, log, service.WithClock(func() time.Time { return now })),
		userService: service.NewUserService(userStore, log),
	}
}

func doJSON(t *testing.T, server *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, payload
}

func TestServerEndToEnd(t *testing.T) {
	now := time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC)
	app := newTestApplication(t, now)
	server := httptest.NewServer(app.setupRouter())
	defer server.Close()

	t.Run("health check", func(t *testing.T) {
		resp, body := doJSON(t, server, http.MethodGet, "/health", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), `"ok"`)
	})

	t.Run("task lifecycle and overdue report", func(t *testing.T) {
		resp, body := doJSON(t, server, http.MethodPost, "/users",
			`{"username":"bob","email":"bob@example.com","password":"correct-horse"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

		var user struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal(body, &user))

		resp, body = doJSON(t, server, http.MethodPost, "/tasks",
			`{"title":"Setup CI/CD pipeline","priority":"high","status":"in_progress",`+
				`"due_date":"2025-10-10T14:00:00","user_id":`+jsonInt(user.ID)+`}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

		resp, body = doJSON(t, server, http.MethodPost, "/tasks",
			`{"title":"Plan retrospective","due_date":"2025-12-01T09:00:00"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

		resp, body = doJSON(t, server, http.MethodGet, "/tasks/overdue?days=10", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var overdue struct {
			Tasks []struct {
				Title       string `json:"title"`
				DaysOverdue int    `json:"days_overdue"`
				DueDate     string `json:"due_date"`
			} `json:"tasks"`
			Total   int  `json:"total"`
			HasMore bool `json:"hasMore"`
		}
		require.NoError(t, json.Unmarshal(body, &overdue))
		require.Len(t, overdue.Tasks, 1)
		assert.Equal(t, "Setup CI/CD pipeline", overdue.Tasks[0].Title)
		assert.Equal(t, 13, overdue.Tasks[0].DaysOverdue)
		assert.Equal(t, "2025-10-10T14:00:00", overdue.Tasks[0].DueDate)
		assert.Equal(t, 1, overdue.Total)
		assert.False(t, overdue.HasMore)

		// A 20-day threshold moves the cutoff past the due date.
		resp, body = doJSON(t, server, http.MethodGet, "/tasks/overdue?days=20", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.Unmarshal(body, &overdue))
		assert.Empty(t, overdue.Tasks)
		assert.Equal(t, 0, overdue.Total)
	})

	t.Run("overdue validation rejects bad params", func(t *testing.T) {
		resp, body := doJSON(t, server, http.MethodGet, "/tasks/overdue?days=abc&limit=0", "")
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errBody struct {
			Detail string `json:"detail"`
		}
		require.NoError(t, json.Unmarshal(body, &errBody))
		assert.Contains(t, errBody.Detail, "days must be a non-negative integer")
		assert.Contains(t, errBody.Detail, "limit must be between 1 and 100")
	})

	t.Run("fixed routes win over ID routes", func(t *testing.T) {
		// "overdue" must never be parsed as a task ID.
		resp, _ := doJSON(t, server, http.MethodGet, "/tasks/overdue", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = doJSON(t, server, http.MethodGet, "/tasks/stats", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unknown task yields 404", func(t *testing.T) {
		resp, body := doJSON(t, server, http.MethodGet, "/tasks/9999", "")
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, string(body), "Task not found")
	})
}

func jsonInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
