package schemas

import (
	"encoding/json"
	"fmt"
)

// TaskStatus is the lifecycle status of a kanban task as seen by callers.
// The remote service uses its own vocabulary on the wire; see wire mapping below.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Wire values used by vibe-kanban's API.
const (
	wireTodo       = "todo"
	wireInProgress = "inprogress"
	wireInReview   = "inreview"
	wireDone       = "done"
	wireCancelled  = "cancelled"
)

func (s TaskStatus) Wire() string {
	switch s {
	case TaskStatusPending:
		return wireTodo
	case TaskStatusInProgress:
		return wireInProgress
	case TaskStatusCompleted:
		return wireDone
	case TaskStatusFailed:
		return wireCancelled
	default:
		return string(s)
	}
}

func StatusFromWire(raw string) TaskStatus {
	switch raw {
	case wireTodo:
		return TaskStatusPending
	case wireInProgress, wireInReview:
		return TaskStatusInProgress
	case wireDone:
		return TaskStatusCompleted
	case wireCancelled:
		return TaskStatusFailed
	default:
		return TaskStatus(raw)
	}
}

func (s TaskStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Wire())
}

func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("task status: %w", err)
	}
	*s = StatusFromWire(raw)
	return nil
}

type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	CreatedAt   string     `json:"created_at,omitempty"`
	UpdatedAt   string     `json:"updated_at,omitempty"`
}

type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
}

type TaskCreateRequest struct {
	ProjectID   string `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// TaskUpdateRequest carries only the fields being changed; nil means keep.
type TaskUpdateRequest struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
}
