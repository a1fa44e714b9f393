// Package vktest is an in-memory stand-in for the vibe-kanban API, used by
// client, tracker, and sweep tests.
package vktest

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/smithers-cli/smithers/internals/schemas"
)

type Server struct {
	mu          sync.Mutex
	projects    []schemas.Project
	tasks       map[string]schemas.Task
	order       []string
	requests    int
	failDeletes map[string]bool
}

func New(projects ...schemas.Project) *Server {
	return &Server{
		projects:    projects,
		tasks:       map[string]schemas.Task{},
		failDeletes: map[string]bool{},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.countRequests)
	r.Get("/api/projects", s.handleListProjects)
	r.Get("/api/tasks", s.handleListTasks)
	r.Post("/api/tasks", s.handleCreateTask)
	r.Get("/api/tasks/{taskID}", s.handleGetTask)
	r.Put("/api/tasks/{taskID}", s.handleUpdateTask)
	r.Delete("/api/tasks/{taskID}", s.handleDeleteTask)
	r.Get("/api/health", s.handleHealth)
	return r
}

// AddTask seeds a task directly, bypassing the API.
func (s *Server) AddTask(projectID string, title string, status schemas.TaskStatus) schemas.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := schemas.Task{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Title:     title,
		Status:    status,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	s.tasks[task.ID] = task
	s.order = append(s.order, task.ID)
	return task
}

// FailDelete makes DELETE for the given task id return a 500.
func (s *Server) FailDelete(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDeletes[taskID] = true
}

func (s *Server) Task(taskID string) (schemas.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[taskID]
	return task, ok
}

func (s *Server) Tasks() []schemas.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]schemas.Task, 0, len(s.order))
	for _, id := range s.order {
		if task, ok := s.tasks[id]; ok {
			out = append(out, task)
		}
	}
	return out
}

// Requests reports how many API calls the server has seen.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, "OK")
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	projects := append([]schemas.Project(nil), s.projects...)
	s.mu.Unlock()
	respond(w, http.StatusOK, projects)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	s.mu.Lock()
	tasks := []schemas.Task{}
	for _, id := range s.order {
		task, ok := s.tasks[id]
		if !ok {
			continue
		}
		if projectID == "" || task.ProjectID == projectID {
			tasks = append(tasks, task)
		}
	}
	s.mu.Unlock()
	respond(w, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var request schemas.TaskCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	task := s.AddTask(request.ProjectID, request.Title, schemas.TaskStatusPending)
	if request.Description != "" {
		s.mu.Lock()
		task.Description = request.Description
		s.tasks[task.ID] = task
		s.mu.Unlock()
	}
	respond(w, http.StatusCreated, task)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	s.mu.Lock()
	task, ok := s.tasks[taskID]
	s.mu.Unlock()
	if !ok {
		respondError(w, http.StatusNotFound, "task not found")
		return
	}
	respond(w, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	var request schemas.TaskUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	task, ok := s.tasks[taskID]
	if !ok {
		s.mu.Unlock()
		respondError(w, http.StatusNotFound, "task not found")
		return
	}
	if request.Title != nil {
		task.Title = *request.Title
	}
	if request.Description != nil {
		task.Description = *request.Description
	}
	if request.Status != nil {
		task.Status = *request.Status
	}
	task.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	s.tasks[taskID] = task
	s.mu.Unlock()

	respond(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	s.mu.Lock()
	if s.failDeletes[taskID] {
		s.mu.Unlock()
		respondError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	if _, ok := s.tasks[taskID]; !ok {
		s.mu.Unlock()
		respondError(w, http.StatusNotFound, "task not found")
		return
	}
	delete(s.tasks, taskID)
	s.mu.Unlock()
	respond(w, http.StatusOK, nil)
}

func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	payload := map[string]any{"success": true}
	if data != nil {
		payload["data"] = data
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}
