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

	"tasklist/app/auth"
	"tasklist/app/models"
)

// APIError is a non-2xx answer from the task API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("task api: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("task api: %d %s: %s", e.Status, e.Code, e.Message)
}

// TaskClient calls the task API. Every call asks headers for a fresh header
// set, then sends the request with exactly the method, URL and body that
// were signed.
type TaskClient struct {
	baseURL string
	headers auth.HeaderSource
	http    *http.Client
}

// NewTaskClient creates a client for the collection at baseURL, e.g.
// https://api.example.com/task. A nil httpClient means http.DefaultClient.
func NewTaskClient(baseURL string, headers auth.HeaderSource, httpClient *http.Client) *TaskClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TaskClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: headers,
		http:    httpClient,
	}
}

// List returns every task.
func (c *TaskClient) List(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, c.baseURL, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Create adds a task and returns it with its new id.
func (c *TaskClient) Create(ctx context.Context, name string, completed bool) (models.Task, error) {
	var created models.Task
	in := models.Task{Name: name, Completed: completed}
	if err := c.do(ctx, http.MethodPost, c.baseURL, in, &created); err != nil {
		return models.Task{}, err
	}
	return created, nil
}

// Update replaces the name and completion flag of task.ID.
func (c *TaskClient) Update(ctx context.Context, task models.Task) (models.Ack, error) {
	var ack models.Ack
	if err := c.do(ctx, http.MethodPut, c.baseURL, task, &ack); err != nil {
		return models.Ack{}, err
	}
	return ack, nil
}

// Delete removes the task with id.
func (c *TaskClient) Delete(ctx context.Context, id string) (models.Ack, error) {
	var ack models.Ack
	if err := c.do(ctx, http.MethodDelete, c.baseURL+"/"+url.PathEscape(id), nil, &ack); err != nil {
		return models.Ack{}, err
	}
	return ack, nil
}

func (c *TaskClient) do(ctx context.Context, method, rawURL string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	headers, err := c.headers.SignedHeaders(ctx, method, rawURL, body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header = headers

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError reads the API's error body. Answers produced in front of
// the API (a rejected signature, for one) are not JSON and keep their text.
func decodeAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{}
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
		apiErr = &APIError{Message: strings.TrimSpace(string(raw))}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
	}
	apiErr.Status = status
	return apiErr
}
