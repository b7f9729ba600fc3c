package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/tasktrackr/internal/models"
	"github.com/adanyl0v/tasktrackr/internal/services"
	"github.com/adanyl0v/tasktrackr/internal/storage"
	"github.com/adanyl0v/tasktrackr/internal/storage/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	store, err := sqlite.Open(context.Background(), sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	logger := zerolog.Nop()
	h := New(logger, services.NewTaskService(logger, store))
	return NewRouter(h, []string{"*"})
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeTask(t *testing.T, rec *httptest.ResponseRecorder) models.Task {
	t.Helper()
	var task models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	return task
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestTaskLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/tasks", `{"title":"Buy milk","userId":"u1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeTask(t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, "u1", created.UserID)
	assert.False(t, created.Completed)

	rec = doRequest(t, router, http.MethodGet, "/api/tasks/u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	rec = doRequest(t, router, http.MethodPatch, "/api/tasks/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeTask(t, rec).Completed)

	rec = doRequest(t, router, http.MethodPatch, "/api/tasks/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeTask(t, rec).Completed)

	rec = doRequest(t, router, http.MethodDelete, "/api/tasks/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"task deleted","id":"`+created.ID+`"}`, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, "/api/tasks/u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = doRequest(t, router, http.MethodPatch, "/api/tasks/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "task not found", decodeError(t, rec))

	rec = doRequest(t, router, http.MethodDelete, "/api/tasks/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleCreateTask_ResponseShape(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/tasks", `{"title":"  padded  ","userId":"u1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"id", "title", "completed", "userId", "createdAt", "updatedAt"}, keys)
	assert.Equal(t, "  padded  ", body["title"])
}

func TestHandleCreateTask_BadRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{
			name:    "missing title",
			body:    `{"userId":"u1"}`,
			message: "title is required",
		},
		{
			name:    "blank title",
			body:    `{"title":"   ","userId":"u1"}`,
			message: "title is required",
		},
		{
			name:    "missing user id",
			body:    `{"title":"Buy milk"}`,
			message: "userId is required",
		},
		{
			name:    "malformed json",
			body:    `{"title":`,
			message: "invalid request body",
		},
		{
			name:    "wrong type",
			body:    `{"title":42,"userId":"u1"}`,
			message: "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t)

			rec := doRequest(t, router, http.MethodPost, "/api/tasks", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.message, decodeError(t, rec))

			rec = doRequest(t, router, http.MethodGet, "/api/tasks/u1", "")
			assert.JSONEq(t, `[]`, rec.Body.String())
		})
	}
}

func TestHandleGetTasks_Scoping(t *testing.T) {
	router := newTestRouter(t)

	for _, body := range []string{
		`{"title":"a","userId":"u1"}`,
		`{"title":"b","userId":"u2"}`,
		`{"title":"c","userId":"u1"}`,
	} {
		rec := doRequest(t, router, http.MethodPost, "/api/tasks", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRequest(t, router, http.MethodGet, "/api/tasks/u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.Equal(t, "u1", task.UserID)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/tasks/nobody", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandleGetTasks_EscapedSlashInUserID(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/tasks", `{"title":"Buy milk","userId":"team/u1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/tasks/team%2Fu1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []models.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "team/u1", tasks[0].UserID)

	rec = doRequest(t, router, http.MethodGet, "/api/tasks/team", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandleToggleTask_UnknownID(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPatch, "/api/tasks/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"task not found"}`, rec.Body.String())
}

// failingService answers every call with err.
type failingService struct {
	err error
}

func (s failingService) CreateTask(context.Context, services.CreateTaskParams) (*models.Task, error) {
	return nil, s.err
}

func (s failingService) GetTasksByUserID(context.Context, string) ([]*models.Task, error) {
	return nil, s.err
}

func (s failingService) ToggleTask(context.Context, string) (*models.Task, error) {
	return nil, s.err
}

func (s failingService) DeleteTask(context.Context, string) error { return s.err }

func (s failingService) Ping(context.Context) error { return s.err }

func TestHandlers_StoreFailure(t *testing.T) {
	var logs bytes.Buffer
	storeErr := storage.NewStoreError("select tasks", errors.New("connection refused"))
	h := New(zerolog.New(&logs), failingService{err: storeErr})
	router := NewRouter(h, nil)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/tasks/u1", ""},
		{http.MethodPost, "/api/tasks", `{"title":"Buy milk","userId":"u1"}`},
		{http.MethodPatch, "/api/tasks/abc", ""},
		{http.MethodDelete, "/api/tasks/abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec := doRequest(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, "Internal Server Error", decodeError(t, rec))
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}

	assert.Contains(t, logs.String(), "connection refused")
}
