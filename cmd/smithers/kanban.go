package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smithers-cli/smithers/internals/cliutil"
	"github.com/smithers-cli/smithers/internals/desktop"
	"github.com/smithers-cli/smithers/internals/term"
	"github.com/smithers-cli/smithers/internals/timeouts"
	"github.com/smithers-cli/smithers/internals/vibekanban"
)

var kanbanSessionExists = cliutil.KanbanSessionExists
var refreshKanban = cliutil.RefreshKanban

func kanbanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kanban",
		Short: "Manage the vibe-kanban background service",
		Long: `Runs vibe-kanban in a detached tmux session so it stays up across
smithers invocations. Without a subcommand this starts the service.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return startKanban(cmd.Context())
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "start",
			Short: "Start vibe-kanban in a background tmux session",
			RunE: func(cmd *cobra.Command, args []string) error {
				return startKanban(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "kill",
			Short: "Stop the vibe-kanban background session",
			RunE: func(cmd *cobra.Command, args []string) error {
				return killKanban()
			},
		},
		&cobra.Command{
			Use:   "update",
			Short: "Update vibe-kanban to the latest version",
			RunE: func(cmd *cobra.Command, args []string) error {
				return updateKanban(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "open",
			Short: "Open the kanban board in the browser",
			RunE: func(cmd *cobra.Command, args []string) error {
				settings := vibekanban.Settings{Port: vibekanban.ResolvePort()}
				if err := desktop.OpenURL(settings.UIBaseURL()); err != nil {
					cliutil.PrintError("Failed to open browser: %v", err)
					fmt.Printf("  Board: %s\n", cliutil.Accent(settings.UIBaseURL()))
					return err
				}
				cliutil.PrintSuccess("Opened %s", cliutil.Accent(settings.UIBaseURL()))
				return nil
			},
		},
	)
	return cmd
}

func startKanban(ctx context.Context) error {
	if kanbanSessionExists() {
		cliutil.PrintWarning("vibe-kanban is already running.")
		fmt.Printf("  Session: %s\n", cliutil.Accent(cliutil.KanbanSessionName))
		fmt.Printf("  Stop it: %s\n", cliutil.Accent("smithers kanban kill"))
		return nil
	}

	port := vibekanban.ResolvePort()
	cliutil.PrintInfo("Starting vibe-kanban on port %d...", port)
	if err := cliutil.StartKanban(port); err != nil {
		cliutil.PrintError("%v", err)
		return err
	}

	client := vibekanban.NewClient(vibekanban.WithBaseURL(vibekanban.APIBaseURL(port)))
	if err := cliutil.WaitForKanban(ctx, client, timeouts.KanbanStartup); err != nil {
		cliutil.PrintWarning("vibe-kanban did not become healthy yet; it may still be downloading.")
		fmt.Printf("  View it: %s\n", cliutil.Accent("tmux attach -t "+cliutil.KanbanSessionName))
		return nil
	}

	settings := vibekanban.Settings{Port: port}
	boardURL := settings.UIBaseURL()
	cliutil.PrintSuccess("vibe-kanban is running on %s", cliutil.Accent(term.ClickableLink(boardURL, boardURL)))
	fmt.Printf("  Session: %s\n", cliutil.Accent(cliutil.KanbanSessionName))
	fmt.Printf("  Stop it: %s\n", cliutil.Accent("smithers kanban kill"))
	return nil
}

func killKanban() error {
	if !kanbanSessionExists() {
		cliutil.PrintWarning("vibe-kanban is not running.")
		return nil
	}
	cliutil.PrintInfo("Stopping vibe-kanban...")
	if err := cliutil.KillKanban(); err != nil {
		cliutil.PrintError("%v", err)
		return err
	}
	cliutil.PrintSuccess("vibe-kanban stopped.")
	return nil
}

func updateKanban(ctx context.Context) error {
	wasRunning := kanbanSessionExists()
	if wasRunning {
		cliutil.PrintInfo("Stopping vibe-kanban for update...")
		if err := cliutil.KillKanban(); err != nil {
			cliutil.PrintError("%v", err)
			return err
		}
	}

	cliutil.PrintInfo("Updating vibe-kanban...")
	if err := refreshKanban(); err != nil {
		cliutil.PrintWarning("Update failed: %v", err)
	} else {
		cliutil.PrintSuccess("vibe-kanban updated to latest version.")
	}

	if wasRunning {
		cliutil.PrintInfo("Restarting vibe-kanban...")
		return startKanban(ctx)
	}
	return nil
}
