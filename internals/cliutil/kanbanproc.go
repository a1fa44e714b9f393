package cliutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/smithers-cli/smithers/internals/timeouts"
	"github.com/smithers-cli/smithers/internals/vibekanban"
)

// KanbanSessionName is the tmux session holding the background vibe-kanban
// process.
const KanbanSessionName = "smithers-vibekanban"

var ErrNpxMissing = errors.New("npx is required to run vibe-kanban; install Node.js first")
var ErrTmuxMissing = errors.New("tmux is required to run vibe-kanban in the background")

func KanbanSessionExists() bool {
	cmd := exec.Command("tmux", "has-session", "-t", KanbanSessionName)
	return cmd.Run() == nil
}

// StartKanban launches vibe-kanban detached on the given UI port. The session
// persists until explicitly killed.
func StartKanban(port int) error {
	if _, err := exec.LookPath("npx"); err != nil {
		return ErrNpxMissing
	}
	if _, err := exec.LookPath("tmux"); err != nil {
		return ErrTmuxMissing
	}

	cmd := exec.Command(
		"tmux", "new-session", "-d", "-s", KanbanSessionName,
		"env", "PORT="+strconv.Itoa(port),
		"npx", "--quiet", "vibe-kanban@latest",
	)
	cmd.Env = append(os.Environ(), "PORT="+strconv.Itoa(port))
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to create tmux session: %s", string(output))
	}
	return nil
}

func KillKanban() error {
	cmd := exec.Command("tmux", "kill-session", "-t", KanbanSessionName)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to kill tmux session: %s", string(output))
	}
	return nil
}

// RefreshKanban asks npx for vibe-kanban@latest so the next start picks up
// the newest release. The tool may not support --version; any clean exit is
// good enough.
func RefreshKanban() error {
	if _, err := exec.LookPath("npx"); err != nil {
		return ErrNpxMissing
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, "npx", "--quiet", "vibe-kanban@latest", "--version")
	_ = cmd.Run()
	if ctx.Err() != nil {
		return errors.New("update check timed out; the latest version will still be used on next run")
	}
	return nil
}

// WaitForKanban polls the API health endpoint until the freshly started
// process accepts requests, giving up after maxWait.
func WaitForKanban(ctx context.Context, client *vibekanban.Client, maxWait time.Duration) error {
	backoff := retry.WithMaxDuration(maxWait, retry.NewFibonacci(250*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		probeCtx, cancel := context.WithTimeout(ctx, timeouts.Probe)
		defer cancel()
		if err := client.Health(probeCtx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
