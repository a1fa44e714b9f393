// Package sweep bulk-deletes smithers-created kanban tasks.
package sweep

import (
	"context"
	"log/slog"

	"github.com/smithers-cli/smithers/internals/naming"
	"github.com/smithers-cli/smithers/internals/schemas"
	"github.com/smithers-cli/smithers/internals/vibekanban"
)

// Failure records one task that could not be deleted.
type Failure struct {
	Task schemas.Task
	Err  error
}

// Report summarizes a sweep. Partial completion is acceptable; failures are
// collected, not escalated.
type Report struct {
	Matched  []schemas.Task
	Deleted  int
	Failures []Failure
}

// Managed lists the tasks a sweep would delete: every task in the project,
// any status, whose title carries a smithers prefix.
func Managed(ctx context.Context, client *vibekanban.Client, projectID string) ([]schemas.Task, error) {
	tasks, err := client.ListTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var managed []schemas.Task
	for _, task := range tasks {
		if naming.IsManagedTitle(task.Title) {
			managed = append(managed, task)
		}
	}
	return managed, nil
}

// Run deletes all smithers-created tasks in the project. Individual delete
// failures are logged and reported but never abort the sweep. The returned
// error is non-nil only when the initial listing fails.
func Run(ctx context.Context, client *vibekanban.Client, projectID string, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}

	managed, err := Managed(ctx, client, projectID)
	if err != nil {
		return nil, err
	}

	report := &Report{Matched: managed}
	for _, task := range managed {
		if err := client.DeleteTask(ctx, task.ID); err != nil {
			logger.Warn("failed to delete vibekanban task", "task_id", task.ID, "title", task.Title, "error", err)
			report.Failures = append(report.Failures, Failure{Task: task, Err: err})
			continue
		}
		report.Deleted++
	}
	return report, nil
}
