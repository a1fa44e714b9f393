package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/smithers-cli/smithers/internals/cliutil"
	"github.com/smithers-cli/smithers/internals/conf"
	"github.com/smithers-cli/smithers/internals/picker"
	"github.com/smithers-cli/smithers/internals/schemas"
	"github.com/smithers-cli/smithers/internals/term"
	"github.com/smithers-cli/smithers/internals/timeouts"
	"github.com/smithers-cli/smithers/internals/vibekanban"
)

func projectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects [name]",
		Short: "List vibe-kanban projects or set the active one",
		Long: `Without arguments, lists all discoverable vibe-kanban projects.
With a project name, sets that project as active (partial match supported).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliutil.PrintHeader("Vibekanban Projects")

			settings := vibekanban.Settings{Port: vibekanban.ResolvePort()}
			boardURL := settings.UIBaseURL()
			fmt.Printf("URL: %s\n\n", cliutil.Accent(term.ClickableLink(boardURL, boardURL)))

			client := vibekanban.NewClient(vibekanban.WithBaseURL(settings.APIBaseURL()))
			ctx, cancel := context.WithTimeout(cmd.Context(), timeouts.Call)
			defer cancel()

			projects, err := client.ListProjects(ctx)
			if err != nil {
				cliutil.PrintError("vibe-kanban is unreachable on %s", settings.APIBaseURL())
				fmt.Printf("\nStart it with: %s\n", cliutil.Accent("smithers kanban start"))
				return err
			}
			if len(projects) == 0 {
				cliutil.PrintWarning("No projects found. Create one in the vibe-kanban UI first.")
				return nil
			}

			if len(args) == 1 {
				return setProject(args[0], projects)
			}

			listProjects(projects)
			return nil
		},
	}
}

func listProjects(projects []schemas.Project) {
	activeID := conf.GetConfig().Vibekanban.ProjectID
	for _, project := range projects {
		if project.ID == activeID {
			fmt.Printf("  %s %s %s\n", cliutil.Accent("•"), project.Name, cliutil.Dim("(active)"))
		} else {
			fmt.Printf("  • %s\n", project.Name)
		}
	}
	fmt.Printf("\n%s\n  %s\n", cliutil.Dim("Set a project with:"), cliutil.Accent("smithers projects <name>"))
}

func setProject(name string, projects []schemas.Project) error {
	match, candidates := vibekanban.FindProjectByName(name, projects)

	if match == nil && len(candidates) > 1 && isatty.IsTerminal(os.Stdout.Fd()) {
		chosen, err := picker.Choose(fmt.Sprintf("Projects matching %q", name), candidates)
		if err != nil {
			return err
		}
		if chosen == nil {
			cliutil.PrintWarning("Cancelled.")
			return nil
		}
		match = chosen
	}

	if match == nil {
		if len(candidates) == 0 {
			cliutil.PrintError("No project found matching %q", name)
			fmt.Printf("\n%s\n", cliutil.Dim("Available projects:"))
			for _, project := range projects {
				fmt.Printf("  • %s\n", project.Name)
			}
		} else {
			cliutil.PrintWarning("Multiple projects match %q:", name)
			for _, project := range candidates {
				fmt.Printf("  • %s\n", project.Name)
			}
			fmt.Printf("\n%s\n", cliutil.Dim("Please be more specific."))
		}
		return fmt.Errorf("project %q not resolved", name)
	}

	if err := conf.SaveProjectID(match.ID); err != nil {
		cliutil.PrintError("Failed to save project configuration: %v", err)
		return err
	}
	cliutil.PrintSuccess("Set active project: %s", cliutil.Accent(match.Name))
	fmt.Printf("  %s %s\n", cliutil.Dim("id:"), match.ID)
	return nil
}
