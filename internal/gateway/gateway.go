// Package gateway talks to the task backend over HTTP.
//
// Every operation performs exactly one request. Failures are logged and
// folded into the returned result value; nothing escapes as a Go error, so
// callers branch on Result.OK.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/tgienger/todo/internal/models"
)

// ErrStatus marks a non-2xx answer from the backend
var ErrStatus = errors.New("unexpected status")

// ErrRejected marks a 2xx answer whose body reports sucesso=false
var ErrRejected = errors.New("backend reported failure")

// Result is the outcome shared by every mutating operation
type Result struct {
	OK  bool
	Err error
}

// CreateResult carries the task created by the backend
type CreateResult struct {
	Result
	Task models.Task
}

// StatusResult carries the completion stamp when a task was completed
type StatusResult struct {
	Result
	CompletedAt string
}

// EditResult carries the description as persisted by the backend
type EditResult struct {
	Result
	Description string
}

func failed(err error) Result {
	return Result{Err: err}
}

var succeeded = Result{OK: true}

// Client is the HTTP gateway to the task API
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger failures are reported to
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a gateway for the API rooted at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListTasks returns every task in server order. Any failure yields an empty list.
func (c *Client) ListTasks(ctx context.Context) []models.Task {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/api/get_tasks", nil, &tasks); err != nil {
		c.log.Error("list tasks failed", "err", err)
		return []models.Task{}
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks
}

// CreateTask stores a new task with the given description
func (c *Client) CreateTask(ctx context.Context, description string) CreateResult {
	var resp models.CreateTaskResponse
	err := c.do(ctx, http.MethodPost, "/api/add_task", models.CreateTaskRequest{Description: description}, &resp)
	if err == nil && !resp.Success {
		err = ErrRejected
	}
	if err != nil {
		c.log.Error("create task failed", "err", err)
		return CreateResult{Result: failed(err)}
	}
	return CreateResult{Result: succeeded, Task: resp.Task}
}

// UpdateStatus marks a task completed or pending
func (c *Client) UpdateStatus(ctx context.Context, id int64, completed bool) StatusResult {
	var resp models.UpdateStatusResponse
	err := c.do(ctx, http.MethodPut, taskPath("update_task", id),
		models.NewUpdateStatusRequest(completed), &resp)
	if err == nil && !resp.Success {
		err = ErrRejected
	}
	if err != nil {
		c.log.Error("update task status failed", "id", id, "completed", completed, "err", err)
		return StatusResult{Result: failed(err)}
	}

	res := StatusResult{Result: succeeded}
	if resp.CompletedAt != nil {
		res.CompletedAt = *resp.CompletedAt
	}
	return res
}

// EditDescription replaces a task's description
func (c *Client) EditDescription(ctx context.Context, id int64, description string) EditResult {
	var resp models.EditTaskResponse
	err := c.do(ctx, http.MethodPut, taskPath("edit_task", id),
		models.EditTaskRequest{Description: description}, &resp)
	if err == nil && !resp.Success {
		err = ErrRejected
	}
	if err != nil {
		c.log.Error("edit task failed", "id", id, "err", err)
		return EditResult{Result: failed(err)}
	}
	return EditResult{Result: succeeded, Description: resp.NewDescription}
}

// DeleteTask removes a task
func (c *Client) DeleteTask(ctx context.Context, id int64) Result {
	var resp models.DeleteTaskResponse
	err := c.do(ctx, http.MethodDelete, taskPath("delete_task", id), nil, &resp)
	if err == nil && !resp.Success {
		err = ErrRejected
	}
	if err != nil {
		c.log.Error("delete task failed", "id", id, "err", err)
		return failed(err)
	}
	return succeeded
}

func taskPath(action string, id int64) string {
	return "/api/" + action + "/" + strconv.FormatInt(id, 10)
}

// do sends one request and decodes a 2xx JSON answer into out
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr models.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error != "" {
			return fmt.Errorf("%s %s: %w %d: %s", method, path, ErrStatus, resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("%s %s: %w %d", method, path, ErrStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
