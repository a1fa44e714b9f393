package vibekanban

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smithers-cli/smithers/internals/schemas"
	"github.com/smithers-cli/smithers/internals/vibekanban/vktest"
)

func newTestClient(t *testing.T, server *vktest.Server) *Client {
	t.Helper()
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)
	return NewClient(WithBaseURL(ts.URL), WithHTTPClient(ts.Client()))
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestClientListProjects(t *testing.T) {
	server := vktest.New(
		schemas.Project{ID: "p1", Name: "megarepo"},
		schemas.Project{ID: "p2", Name: "sideproject"},
	)
	client := newTestClient(t, server)

	projects, err := client.ListProjects(testContext(t))
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 2 || projects[0].Name != "megarepo" {
		t.Fatalf("unexpected projects: %+v", projects)
	}
}

func TestClientTaskLifecycle(t *testing.T) {
	server := vktest.New(schemas.Project{ID: "p1", Name: "megarepo"})
	client := newTestClient(t, server)
	ctx := testContext(t)

	created, err := client.CreateTask(ctx, "p1", "[impl] Stage 1: Add models", "")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if created.ID == "" || created.Status != schemas.TaskStatusPending {
		t.Fatalf("unexpected created task: %+v", created)
	}

	updated, err := client.UpdateTaskStatus(ctx, created.ID, schemas.TaskStatusInProgress)
	if err != nil {
		t.Fatalf("UpdateTaskStatus: %v", err)
	}
	if updated.Status != schemas.TaskStatusInProgress {
		t.Fatalf("expected in_progress, got %s", updated.Status)
	}

	found, err := client.FindTaskByTitle(ctx, "p1", "[impl] Stage 1: Add models")
	if err != nil {
		t.Fatalf("FindTaskByTitle: %v", err)
	}
	if found == nil || found.ID != created.ID {
		t.Fatalf("expected to find created task, got %+v", found)
	}

	missing, err := client.FindTaskByTitle(ctx, "p1", "[impl] Stage 2: Nope")
	if err != nil {
		t.Fatalf("FindTaskByTitle: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown title, got %+v", missing)
	}

	if err := client.DeleteTask(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, ok := server.Task(created.ID); ok {
		t.Fatalf("expected task to be deleted")
	}
}

func TestClientAttachLink(t *testing.T) {
	server := vktest.New(schemas.Project{ID: "p1", Name: "megarepo"})
	task := server.AddTask("p1", "[fix] PR #123: feature-branch", schemas.TaskStatusInProgress)
	client := newTestClient(t, server)
	ctx := testContext(t)

	updated, err := client.AttachLink(ctx, task.ID, "https://github.com/acme/repo/pull/123")
	if err != nil {
		t.Fatalf("AttachLink: %v", err)
	}
	if !strings.Contains(updated.Description, "https://github.com/acme/repo/pull/123") {
		t.Fatalf("expected PR URL in description, got %q", updated.Description)
	}

	// Attaching the same URL again must not duplicate it.
	again, err := client.AttachLink(ctx, task.ID, "https://github.com/acme/repo/pull/123")
	if err != nil {
		t.Fatalf("AttachLink (repeat): %v", err)
	}
	if strings.Count(again.Description, "pull/123") != 1 {
		t.Fatalf("expected single link, got %q", again.Description)
	}
}

func TestClientErrorMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "title is required"})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	_, err := client.CreateTask(testContext(t), "p1", "", "")
	if err == nil {
		t.Fatalf("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || !strings.Contains(apiErr.Error(), "title is required") {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestClientNonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	_, err := client.ListProjects(testContext(t))
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected APIError, got %T (%v)", err, err)
	}
	if apiErr.StatusCode != http.StatusBadGateway || !strings.Contains(apiErr.Message, "upstream exploded") {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}
