package vibekanban

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smithers-cli/smithers/internals/schemas"
)

// Client is a stateless wrapper over vibe-kanban's HTTP API. Each method is a
// single round-trip; there is no retry logic here, callers decide.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// envelope is vibe-kanban's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// APIError carries the HTTP status and body of a failed service call.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("vibekanban: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("vibekanban: unexpected status %d", e.StatusCode)
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient points at the API port derived from resolved settings
// (UI port + 1) unless WithBaseURL overrides it.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL: APIBaseURL(ResolvePort()),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Health probes the service. Used when waiting for a freshly started
// vibe-kanban process to accept requests.
func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/api/health", nil, nil)
}

func (c *Client) ListProjects(ctx context.Context) ([]schemas.Project, error) {
	var projects []schemas.Project
	if err := c.call(ctx, http.MethodGet, "/api/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) ListTasks(ctx context.Context, projectID string) ([]schemas.Task, error) {
	path := "/api/tasks?project_id=" + url.QueryEscape(projectID)
	var tasks []schemas.Task
	if err := c.call(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindTaskByTitle scans the project's tasks for an exact title match. The
// service has no title index, so this is the natural dedup key lookup.
// Returns nil, nil when no task matches.
func (c *Client) FindTaskByTitle(ctx context.Context, projectID string, title string) (*schemas.Task, error) {
	tasks, err := c.ListTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].Title == title {
			return &tasks[i], nil
		}
	}
	return nil, nil
}

func (c *Client) GetTask(ctx context.Context, taskID string) (*schemas.Task, error) {
	var task schemas.Task
	if err := c.call(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(taskID), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) CreateTask(ctx context.Context, projectID string, title string, description string) (*schemas.Task, error) {
	request := schemas.TaskCreateRequest{ProjectID: projectID, Title: title, Description: description}
	var task schemas.Task
	if err := c.call(ctx, http.MethodPost, "/api/tasks", request, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTaskStatus(ctx context.Context, taskID string, status schemas.TaskStatus) (*schemas.Task, error) {
	request := schemas.TaskUpdateRequest{Status: &status}
	var task schemas.Task
	if err := c.call(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(taskID), request, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// AttachLink records a PR URL on the task. vibe-kanban has no dedicated link
// field, so the URL is appended to the description.
func (c *Client) AttachLink(ctx context.Context, taskID string, linkURL string) (*schemas.Task, error) {
	current, err := c.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	description := current.Description
	if strings.Contains(description, linkURL) {
		return current, nil
	}
	if description != "" {
		description += "\n\n"
	}
	description += "PR: " + linkURL

	request := schemas.TaskUpdateRequest{Description: &description}
	var task schemas.Task
	if err := c.call(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(taskID), request, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.call(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(taskID), nil, nil)
}

func (c *Client) call(ctx context.Context, method string, path string, request any, result any) error {
	var body io.Reader
	if request != nil {
		payload, err := json.Marshal(request)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var wrapped envelope
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		}
		return fmt.Errorf("vibekanban: decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !wrapped.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: wrapped.Message}
	}

	if result != nil && len(wrapped.Data) > 0 {
		if err := json.Unmarshal(wrapped.Data, result); err != nil {
			return fmt.Errorf("vibekanban: decode response data: %w", err)
		}
	}
	return nil
}
