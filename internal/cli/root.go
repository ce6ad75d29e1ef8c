// Package cli provides the command-line interface for focusquest.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/focusquest/focusquest/internal/app"
)

// Command group IDs.
const (
	groupSetup    = "setup"
	groupTask     = "task"
	groupProgress = "progress"
)

// NewRootCommand creates the root command for focusquest.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "fq",
		Short: "Task prioritization and progression CLI",
		Long: `focusquest scores tasks by complexity, impact, effort, dependencies
and deadline, suggests priorities from your completion history, and turns
completed work into XP, levels, streaks and achievements.

Run 'fq init' once per project, then create tasks with 'fq new'.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil || c.ConfigLoader == nil {
				return nil
			}

			cfg, err := c.ConfigLoader.Load()
			if err != nil {
				// Ignore error (e.g. not initialized)
				return nil
			}

			for _, w := range cfg.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupProgress, Title: "Progression:"},
	)

	// Setup commands
	initCmd := newInitCommand(c)
	initCmd.GroupID = groupSetup

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	// Task management commands
	newCmd := newNewCommand(c)
	newCmd.GroupID = groupTask

	editCmd := newEditCommand(c)
	editCmd.GroupID = groupTask

	listCmd := newListCommand(c)
	listCmd.GroupID = groupTask

	showCmd := newShowCommand(c)
	showCmd.GroupID = groupTask

	completeCmd := newCompleteCommand(c)
	completeCmd.GroupID = groupTask

	importCmd := newImportCommand(c)
	importCmd.GroupID = groupTask

	suggestCmd := newSuggestCommand(c)
	suggestCmd.GroupID = groupTask

	// Progression commands
	statusCmd := newStatusCommand(c)
	statusCmd.GroupID = groupProgress

	achievementsCmd := newAchievementsCommand(c)
	achievementsCmd.GroupID = groupProgress

	focusCmd := newFocusCommand(c)
	focusCmd.GroupID = groupProgress

	watchCmd := newWatchCommand(c)
	watchCmd.GroupID = groupProgress

	// Add subcommands
	root.AddCommand(
		initCmd,
		configCmd,
		newCmd,
		editCmd,
		listCmd,
		showCmd,
		completeCmd,
		importCmd,
		suggestCmd,
		statusCmd,
		achievementsCmd,
		focusCmd,
		watchCmd,
	)

	return root
}
