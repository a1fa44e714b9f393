package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smithers-cli/smithers/internals/cliutil"
	"github.com/smithers-cli/smithers/internals/conf"
	"github.com/smithers-cli/smithers/internals/env"
	"github.com/smithers-cli/smithers/internals/schemas"
	"github.com/smithers-cli/smithers/internals/sweep"
	"github.com/smithers-cli/smithers/internals/term"
	"github.com/smithers-cli/smithers/internals/timeouts"
	"github.com/smithers-cli/smithers/internals/vibekanban"
)

var confirm = promptConfirm
var sweepTimeout = timeouts.Sweep

func cleanupCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "cleanup [project]",
		Short: "Delete all smithers-created vibe-kanban tasks",
		Long: `Finds and deletes all tasks with [impl] or [fix] prefixes across all
statuses. Tasks created by hand are left untouched. Partial delete failures
are reported but do not fail the command.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliutil.PrintHeader("Vibekanban Cleanup")

			settings := vibekanban.Settings{Port: vibekanban.ResolvePort()}
			boardURL := settings.UIBaseURL()
			fmt.Printf("URL: %s\n\n", cliutil.Accent(term.ClickableLink(boardURL, boardURL)))

			client := vibekanban.NewClient(vibekanban.WithBaseURL(settings.APIBaseURL()))
			ctx, cancel := context.WithTimeout(cmd.Context(), timeouts.Call)
			defer cancel()

			projectID, err := resolveCleanupProject(ctx, client, args)
			if err != nil {
				return err
			}

			fmt.Println(cliutil.Dim("Scanning for smithers-created tasks..."))
			tasks, err := sweep.Managed(ctx, client, projectID)
			if err != nil {
				cliutil.PrintError("Failed to list tasks: %v", err)
				return err
			}
			if len(tasks) == 0 {
				cliutil.PrintInfo("No smithers-created tasks found.")
				return nil
			}

			fmt.Println()
			cliutil.PrintWarning("Found %d smithers-created task(s):", len(tasks))
			printTasksByStatus(tasks)

			if !force && !confirm(fmt.Sprintf("Delete all %d task(s)?", len(tasks))) {
				cliutil.PrintWarning("Cancelled.")
				return nil
			}

			// The sweep deadline starts after the prompt, not before it.
			sweepCtx, cancelSweep := context.WithTimeout(cmd.Context(), sweepTimeout)
			defer cancelSweep()

			report, err := sweep.Run(sweepCtx, client, projectID, nil)
			if err != nil {
				cliutil.PrintError("Cleanup failed: %v", err)
				return err
			}

			fmt.Println()
			if report.Deleted > 0 {
				cliutil.PrintSuccess("Deleted %d task(s).", report.Deleted)
			}
			for _, failure := range report.Failures {
				cliutil.PrintError("Failed to delete %s: %v", failure.Task.Title, failure.Err)
			}
			// Partial failures are reported, not escalated: exit 0.
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

// resolveCleanupProject picks the project to sweep: an explicit name argument,
// the env/file configuration, or auto-discovery, in that order.
func resolveCleanupProject(ctx context.Context, client *vibekanban.Client, args []string) (string, error) {
	if len(args) == 1 {
		projects, err := client.ListProjects(ctx)
		if err != nil {
			cliutil.PrintError("vibe-kanban is unreachable: %v", err)
			return "", err
		}
		match, candidates := vibekanban.FindProjectByName(args[0], projects)
		if match == nil {
			if len(candidates) > 1 {
				cliutil.PrintWarning("Multiple projects match %q:", args[0])
				for _, project := range candidates {
					fmt.Printf("  • %s\n", project.Name)
				}
			} else {
				cliutil.PrintError("No project found matching %q", args[0])
			}
			return "", fmt.Errorf("project %q not resolved", args[0])
		}
		fmt.Printf("Project: %s\n\n", cliutil.Accent(match.Name))
		return match.ID, nil
	}

	if projectID := env.Get().VIBEKANBAN_PROJECT; projectID != "" {
		return projectID, nil
	}
	if projectID := conf.GetConfig().Vibekanban.ProjectID; projectID != "" {
		return projectID, nil
	}

	projectID, err := vibekanban.DiscoverProject(ctx, client)
	if err != nil {
		var configErr *vibekanban.ConfigError
		if errors.As(err, &configErr) {
			cliutil.PrintError("No vibekanban project configured.")
			fmt.Printf("\nRun %s to see available projects.\n", cliutil.Accent("smithers projects"))
		} else {
			cliutil.PrintError("vibe-kanban is unreachable: %v", err)
		}
		return "", err
	}
	return projectID, nil
}

func printTasksByStatus(tasks []schemas.Task) {
	byStatus := map[schemas.TaskStatus][]schemas.Task{}
	for _, task := range tasks {
		byStatus[task.Status] = append(byStatus[task.Status], task)
	}
	statuses := make([]string, 0, len(byStatus))
	for status := range byStatus {
		statuses = append(statuses, string(status))
	}
	sort.Strings(statuses)

	fmt.Println()
	for _, status := range statuses {
		fmt.Printf("  %s\n", cliutil.Dim(status+":"))
		for _, task := range byStatus[schemas.TaskStatus(status)] {
			fmt.Printf("    - %s %s\n", cliutil.Accent(task.Title), cliutil.Dim("("+task.ID+")"))
		}
	}
	fmt.Println()
}

func promptConfirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
