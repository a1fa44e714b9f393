package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/smithers-cli/smithers/internals/logging"
)

var Version = "dev"

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "smithers",
		Short:         "Smithers - automation CLI with vibe-kanban task tracking",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logging.Init(level)
	}

	rootCmd.AddCommand(projectsCmd())
	rootCmd.AddCommand(cleanupCmd())
	rootCmd.AddCommand(kanbanCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
