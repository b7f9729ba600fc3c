// Package client talks to the task API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/adanyl0v/tasktrackr/internal/models"
)

const (
	OpFetchTasks = "fetch tasks"
	OpCreateTask = "create task"
	OpToggleTask = "update task"
	OpDeleteTask = "delete task"
)

// RequestFailedError is returned for every non-2xx response.
type RequestFailedError struct {
	Op         string
	StatusCode int
	// Message is the "error" field of the response body, if any.
	Message string
}

func (e *RequestFailedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("failed to %s: %d %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("failed to %s: %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
}

// DeleteResult is the acknowledgement of a deleted task.
type DeleteResult struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// TaskClient issues exactly one request per call and never retries.
type TaskClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewTaskClient returns a client for the tasks collection at baseURL,
// e.g. http://localhost:5000/api/tasks. A nil httpClient means
// http.DefaultClient.
func NewTaskClient(baseURL string, httpClient *http.Client) *TaskClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TaskClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *TaskClient) FetchTasks(ctx context.Context, userID string) ([]*models.Task, error) {
	tasks := make([]*models.Task, 0)
	err := c.do(ctx, OpFetchTasks, http.MethodGet, c.itemURL(userID), nil, &tasks)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

type createTaskRequest struct {
	Title  string `json:"title"`
	UserID string `json:"userId"`
}

func (c *TaskClient) CreateTask(ctx context.Context, title, userID string) (*models.Task, error) {
	var task models.Task
	err := c.do(ctx, OpCreateTask, http.MethodPost, c.baseURL, createTaskRequest{
		Title:  title,
		UserID: userID,
	}, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *TaskClient) ToggleTask(ctx context.Context, taskID string) (*models.Task, error) {
	var task models.Task
	err := c.do(ctx, OpToggleTask, http.MethodPatch, c.itemURL(taskID), nil, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *TaskClient) DeleteTask(ctx context.Context, taskID string) (*DeleteResult, error) {
	var result DeleteResult
	err := c.do(ctx, OpDeleteTask, http.MethodDelete, c.itemURL(taskID), nil, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *TaskClient) itemURL(id string) string {
	return c.baseURL + "/" + url.PathEscape(id)
}

func (c *TaskClient) do(ctx context.Context, op, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to %s: encode request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return newRequestFailedError(op, res)
	}

	err = json.NewDecoder(res.Body).Decode(out)
	if err != nil {
		return fmt.Errorf("failed to %s: decode response: %w", op, err)
	}
	return nil
}

func newRequestFailedError(op string, res *http.Response) *RequestFailedError {
	rfErr := &RequestFailedError{
		Op:         op,
		StatusCode: res.StatusCode,
	}

	var body struct {
		Error string `json:"error"`
	}
	raw, err := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if err == nil && json.Unmarshal(raw, &body) == nil {
		rfErr.Message = body.Error
	}
	return rfErr
}
