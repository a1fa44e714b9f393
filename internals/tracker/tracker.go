// Package tracker mirrors the lifecycle of automated coding sessions onto
// vibekanban tasks. Every operation is best-effort: a service failure is
// logged and swallowed so the underlying session is never blocked by the
// kanban integration.
package tracker

import (
	"context"
	"log/slog"

	"github.com/smithers-cli/smithers/internals/naming"
	"github.com/smithers-cli/smithers/internals/schemas"
	"github.com/smithers-cli/smithers/internals/vibekanban"
)

type Mode string

const (
	ModeImplement Mode = "implement"
	ModeFix       Mode = "fix"
)

// Descriptor identifies one session: an implement-mode stage or a fix-mode PR
// iteration. It exists only in memory for the duration of the run.
type Descriptor struct {
	Mode      Mode
	Stage     int
	StageName string
	PRNumber  int
	Branch    string
}

// Title derives the canonical task title, the dedup key on the remote side.
func (d Descriptor) Title() string {
	if d.Mode == ModeFix {
		return naming.FixTitle(d.PRNumber, d.Branch)
	}
	return naming.ImplTitle(d.Stage, d.StageName)
}

type Tracker struct {
	settings vibekanban.Settings
	client   *vibekanban.Client
	logger   *slog.Logger
}

func New(settings vibekanban.Settings, client *vibekanban.Client, logger *slog.Logger) *Tracker {
	if client == nil && settings.Enabled {
		client = vibekanban.NewClient(vibekanban.WithBaseURL(settings.APIBaseURL()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{settings: settings, client: client, logger: logger}
}

func (t *Tracker) Enabled() bool {
	return t.settings.Enabled && t.settings.ProjectID != ""
}

// StartSession finds or creates the task for the descriptor and moves it to
// in_progress. Find-before-create is the only dedup guarantee; concurrent
// runs targeting one title can still race into duplicates, which is accepted.
// Returns nil when tracking is disabled or the service is unavailable.
func (t *Tracker) StartSession(ctx context.Context, d Descriptor) *schemas.Task {
	if !t.Enabled() {
		return nil
	}
	title := d.Title()

	task, err := t.client.FindTaskByTitle(ctx, t.settings.ProjectID, title)
	if err != nil {
		t.logger.Warn("vibekanban task lookup failed, session continues untracked",
			"title", title, "error", err)
		return nil
	}
	if task == nil {
		task, err = t.client.CreateTask(ctx, t.settings.ProjectID, title, "")
		if err != nil {
			t.logger.Warn("vibekanban task creation failed, session continues untracked",
				"title", title, "error", err)
			return nil
		}
		t.logger.Debug("created vibekanban task", "task_id", task.ID, "title", title)
	} else {
		t.logger.Debug("reusing vibekanban task", "task_id", task.ID, "title", title)
	}

	updated, err := t.client.UpdateTaskStatus(ctx, task.ID, schemas.TaskStatusInProgress)
	if err != nil {
		t.logger.Warn("vibekanban status update failed", "task_id", task.ID, "error", err)
		return task
	}
	return updated
}

// AttachPR links the pull request URL to the task. Called at most once per
// session, after the PR exists.
func (t *Tracker) AttachPR(ctx context.Context, task *schemas.Task, url string) {
	if !t.Enabled() || task == nil || url == "" {
		return
	}
	if _, err := t.client.AttachLink(ctx, task.ID, url); err != nil {
		t.logger.Warn("vibekanban PR link failed", "task_id", task.ID, "url", url, "error", err)
		return
	}
	t.logger.Debug("linked PR to vibekanban task", "task_id", task.ID, "url", url)
}

// FinishSession records the session outcome on the task.
func (t *Tracker) FinishSession(ctx context.Context, task *schemas.Task, succeeded bool) {
	if !t.Enabled() || task == nil {
		return
	}
	status := schemas.TaskStatusCompleted
	if !succeeded {
		status = schemas.TaskStatusFailed
	}
	if _, err := t.client.UpdateTaskStatus(ctx, task.ID, status); err != nil {
		t.logger.Warn("vibekanban status update failed", "task_id", task.ID, "status", status, "error", err)
	}
}
