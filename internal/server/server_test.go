package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/todo/internal/db"
	"github.com/tgienger/todo/internal/gateway"
	"github.com/tgienger/todo/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) (*Server, *db.DB) {
	t.Helper()
	clock := func() time.Time {
		return time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)
	}
	store, err := db.New(filepath.Join(t.TempDir(), "todo.db"), db.WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(store, WithLogger(quietLogger())), store
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestAddTask(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/add_task", `{"descricao":"Buy milk"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, true, body["sucesso"])
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "Buy milk", body["descricao"])
	assert.Equal(t, float64(0), body["concluida"])
	assert.Equal(t, "2024-01-01 10:00:00", body["data_criacao"])
}

func TestAddTaskBlank(t *testing.T) {
	s, store := newTestServer(t)

	for _, body := range []string{`{"descricao":""}`, `{"descricao":"   "}`, `{}`} {
		w := do(t, s, http.MethodPost, "/api/add_task", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)

		var res models.ErrorResponse
		decode(t, w, &res)
		assert.Equal(t, errBlankDescription, res.Error)
	}

	n, err := store.TaskCount(false)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGetTasks(t *testing.T) {
	s, store := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/get_tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	_, err := store.CreateTask("a")
	require.NoError(t, err)
	_, err = store.CreateTask("b")
	require.NoError(t, err)

	w = do(t, s, http.MethodGet, "/api/get_tasks", "")
	var tasks []models.Task
	decode(t, w, &tasks)
	require.Len(t, tasks, 2)
	assert.Equal(t, int64(2), tasks[0].ID)
	assert.Equal(t, int64(1), tasks[1].ID)
}

func TestUpdateTask(t *testing.T) {
	s, store := newTestServer(t)
	task, err := store.CreateTask("a")
	require.NoError(t, err)

	w := do(t, s, http.MethodPut, "/api/update_task/1", `{"concluida":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sucesso":true,"data_conclusao":"2024-01-01 10:00:00"}`, w.Body.String())

	got, err := store.GetTask(task.ID)
	require.NoError(t, err)
	assert.True(t, bool(got.Completed))

	w = do(t, s, http.MethodPut, "/api/update_task/1", `{"concluida":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sucesso":true,"data_conclusao":null}`, w.Body.String())
}

func TestUpdateTaskRejectsInvalidStatus(t *testing.T) {
	s, store := newTestServer(t)
	_, err := store.CreateTask("a")
	require.NoError(t, err)
	_, err = store.SetCompleted(1, true)
	require.NoError(t, err)

	for _, body := range []string{`{}`, `{"concluida":2}`, `{"concluida":-1}`, `{"concluida":null}`, `{"concluida":true}`} {
		w := do(t, s, http.MethodPut, "/api/update_task/1", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)

		var res models.ErrorResponse
		decode(t, w, &res)
		assert.NotEmpty(t, res.Error, body)
	}

	got, err := store.GetTask(1)
	require.NoError(t, err)
	assert.True(t, bool(got.Completed), "rejected bodies leave the task unchanged")
}

func TestAddTaskStoresDescriptionAsSent(t *testing.T) {
	s, store := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/add_task", `{"descricao":" Buy milk "}`)
	require.Equal(t, http.StatusCreated, w.Code)

	got, err := store.GetTask(1)
	require.NoError(t, err)
	assert.Equal(t, " Buy milk ", got.Description)
}

func TestEditTask(t *testing.T) {
	s, store := newTestServer(t)
	_, err := store.CreateTask("old")
	require.NoError(t, err)

	w := do(t, s, http.MethodPut, "/api/edit_task/1", `{"descricao":"  new  "}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sucesso":true,"nova_descricao":"new"}`, w.Body.String())

	w = do(t, s, http.MethodPut, "/api/edit_task/1", `{"descricao":" "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	got, err := store.GetTask(1)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Description)
}

func TestDeleteTask(t *testing.T) {
	s, store := newTestServer(t)
	_, err := store.CreateTask("a")
	require.NoError(t, err)

	w := do(t, s, http.MethodDelete, "/api/delete_task/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sucesso":true}`, w.Body.String())

	w = do(t, s, http.MethodDelete, "/api/delete_task/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvalidRequests(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"non-numeric id", http.MethodPut, "/api/update_task/abc", `{"concluida":1}`, http.StatusBadRequest},
		{"malformed body", http.MethodPut, "/api/update_task/1", `{`, http.StatusBadRequest},
		{"missing task", http.MethodPut, "/api/edit_task/99", `{"descricao":"x"}`, http.StatusNotFound},
		{"unknown route", http.MethodGet, "/api/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/api/add_task", `{"descricao":"a"}`)

	w := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `todo_tasks{state="pending"} 1`)
	assert.Contains(t, w.Body.String(), `todo_api_requests_total{method="POST",route="/api/add_task",status="201"}`)
}

// The client gateway and the server agree on the wire format.
func TestGatewayRoundTrip(t *testing.T) {
	s, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx := context.Background()
	gw := gateway.New(ts.URL, gateway.WithLogger(quietLogger()))

	created := gw.CreateTask(ctx, "Buy milk")
	require.True(t, created.OK, "%v", created.Err)
	assert.Equal(t, "Buy milk", created.Task.Description)
	assert.Equal(t, "2024-01-01 10:00:00", created.Task.CreatedAt)

	status := gw.UpdateStatus(ctx, created.Task.ID, true)
	require.True(t, status.OK)
	assert.Equal(t, "2024-01-01 10:00:00", status.CompletedAt)

	edited := gw.EditDescription(ctx, created.Task.ID, " Buy oat milk ")
	require.True(t, edited.OK)
	assert.Equal(t, "Buy oat milk", edited.Description)

	tasks := gw.ListTasks(ctx)
	require.Len(t, tasks, 1)
	assert.True(t, bool(tasks[0].Completed))
	assert.Equal(t, "Buy oat milk", tasks[0].Description)

	assert.False(t, gw.CreateTask(ctx, "  ").OK)

	require.True(t, gw.DeleteTask(ctx, created.Task.ID).OK)
	assert.False(t, gw.DeleteTask(ctx, created.Task.ID).OK)
	assert.Empty(t, gw.ListTasks(ctx))
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
