package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/focusquest/focusquest/internal/app"
	"github.com/focusquest/focusquest/internal/domain"
	"github.com/focusquest/focusquest/internal/usecase"
)

// newNewCommand creates the new command for creating tasks.
func newNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title        string
		Description  string
		Deadline     string
		Tags         []string
		Subtasks     []string
		Dependencies []string
		Complexity   int
		Impact       int
		Estimate     int
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new task",
		Long: `Create a new task. Its priority is computed immediately from the
scoring criteria:

  complexity (1-5, default 3)      weight 1.0
  impact (1-5, default 3)          weight 1.5
  estimate (minutes)               shorter tasks score higher
  dependencies                     +1 each, up to 3
  deadline                         +10 overdue, +5 within a day, ... +0.5 within two weeks

Examples:
  # Create a task with default criteria
  fq new --title "Write release notes"

  # Create an urgent, high-impact task
  fq new --title "Fix login outage" --complexity 4 --impact 5 --estimate 60 --deadline 2025-03-11

  # Create a task with subtasks and tags
  fq new --title "Quarterly report" --subtask "Collect data" --subtask "Draft" --tag work`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			draft := domain.TaskDraft{
				Title:                opts.Title,
				Description:          opts.Description,
				Tags:                 opts.Tags,
				Subtasks:             opts.Subtasks,
				Dependencies:         opts.Dependencies,
				Complexity:           opts.Complexity,
				Impact:               opts.Impact,
				EstimatedTimeMinutes: opts.Estimate,
			}
			if opts.Deadline != "" {
				deadline, err := parseDeadline(opts.Deadline)
				if err != nil {
					return err
				}
				draft.Deadline = deadline
			}

			// Execute use case
			uc := c.NewTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.NewTaskInput{Draft: draft})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Created task %s (priority: %s, reward: %d XP)\n",
				out.Task.ID, priorityBadge(w, out.Task.Priority), out.Task.XPReward)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "Task title (required)")
	cmd.Flags().StringVar(&opts.Description, "body", "", "Task description")
	cmd.Flags().IntVar(&opts.Complexity, "complexity", 0, "Complexity 1-5 (default 3)")
	cmd.Flags().IntVar(&opts.Impact, "impact", 0, "Impact 1-5 (default 3)")
	cmd.Flags().IntVar(&opts.Estimate, "estimate", 0, "Estimated time in minutes")
	cmd.Flags().StringVar(&opts.Deadline, "deadline", "", "Deadline (YYYY-MM-DD, YYYY-MM-DDTHH:MM or RFC 3339)")
	cmd.Flags().StringArrayVar(&opts.Dependencies, "dep", nil, "Dependency (can specify multiple)")
	cmd.Flags().StringArrayVar(&opts.Tags, "tag", nil, "Tag (can specify multiple)")
	cmd.Flags().StringArrayVar(&opts.Subtasks, "subtask", nil, "Subtask title (can specify multiple)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

// newEditCommand creates the edit command.
func newEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title            string
		Description      string
		Status           string
		Deadline         string
		Dependencies     []string
		AddTags          []string
		CompleteSubtasks []string
		Complexity       int
		Impact           int
		Estimate         int
		ClearDeadline    bool
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Long: `Edit a task. Changing any scoring criterion recomputes the priority.

Only the flags you pass are changed. --dep replaces the whole dependency
list; pass --dep "" to clear it.

Examples:
  fq edit 0195... --impact 5
  fq edit 0195... --status in-progress
  fq edit 0195... --complete-subtask 1 --complete-subtask 2
  fq edit 0195... --clear-deadline`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			input := usecase.EditTaskInput{
				TaskID:           args[0],
				AddTags:          opts.AddTags,
				CompleteSubtasks: opts.CompleteSubtasks,
				ClearDeadline:    opts.ClearDeadline,
			}

			if flags.Changed("title") {
				input.Title = &opts.Title
			}
			if flags.Changed("body") {
				input.Description = &opts.Description
			}
			if flags.Changed("status") {
				status, err := parseStatus(opts.Status)
				if err != nil {
					return err
				}
				input.Status = &status
			}
			if flags.Changed("complexity") {
				input.Complexity = &opts.Complexity
			}
			if flags.Changed("impact") {
				input.Impact = &opts.Impact
			}
			if flags.Changed("estimate") {
				input.EstimatedTimeMinutes = &opts.Estimate
			}
			if flags.Changed("deadline") {
				if opts.ClearDeadline {
					return fmt.Errorf("--deadline and --clear-deadline are mutually exclusive")
				}
				deadline, err := parseDeadline(opts.Deadline)
				if err != nil {
					return err
				}
				input.Deadline = deadline
			}
			if flags.Changed("dep") {
				deps := make([]string, 0, len(opts.Dependencies))
				for _, d := range opts.Dependencies {
					if d = strings.TrimSpace(d); d != "" {
						deps = append(deps, d)
					}
				}
				input.Dependencies = &deps
			}

			// Execute use case
			uc := c.EditTaskUseCase()
			out, err := uc.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Updated task %s\n", out.Task.ID)
			if out.PriorityChanged {
				_, _ = fmt.Fprintf(w, "Priority changed to %s\n", priorityBadge(w, out.Task.Priority))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.Description, "body", "", "New description")
	cmd.Flags().StringVar(&opts.Status, "status", "", "New status (not-started, pending, in-progress, blocked, interrupted)")
	cmd.Flags().IntVar(&opts.Complexity, "complexity", 0, "New complexity 1-5")
	cmd.Flags().IntVar(&opts.Impact, "impact", 0, "New impact 1-5")
	cmd.Flags().IntVar(&opts.Estimate, "estimate", 0, "New estimated time in minutes")
	cmd.Flags().StringVar(&opts.Deadline, "deadline", "", "New deadline")
	cmd.Flags().BoolVar(&opts.ClearDeadline, "clear-deadline", false, "Remove the deadline")
	cmd.Flags().StringArrayVar(&opts.Dependencies, "dep", nil, "Replacement dependency list (can specify multiple)")
	cmd.Flags().StringArrayVar(&opts.AddTags, "add-tag", nil, "Tag to add (can specify multiple)")
	cmd.Flags().StringArrayVar(&opts.CompleteSubtasks, "complete-subtask", nil, "Subtask ID to mark completed (can specify multiple)")

	return cmd
}

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Status string
		Urgent bool
		All    bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks by priority",
		Long: `Display tasks sorted by priority, then deadline, then creation time.

Priorities are recomputed on every listing, so approaching deadlines
promote tasks without any edit.

By default, completed tasks are hidden. Use --all to include them.

Examples:
  fq list
  fq list --urgent
  fq list --status blocked
  fq list --all`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.ListTasksInput{
				Urgent:           opts.Urgent,
				IncludeCompleted: opts.All,
			}
			if opts.Status != "" {
				status, err := parseStatus(opts.Status)
				if err != nil {
					return err
				}
				input.Status = &status
				if status == domain.StatusCompleted {
					input.IncludeCompleted = true
				}
			}

			// Execute use case
			uc := c.ListTasksUseCase()
			out, err := uc.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			if len(out.Tasks) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No tasks")
				return nil
			}
			printTaskList(cmd.OutOrStdout(), out.Tasks)
			if out.Refreshed > 0 {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%d task(s) re-prioritized\n", out.Refreshed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Urgent, "urgent", "u", false, "Show only urgent tasks (URGENT or due within 2 days)")
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Show all tasks including completed")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by status")

	return cmd
}

// printTaskList prints tasks in TSV format.
func printTaskList(w io.Writer, tasks []*domain.Task) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	// Header
	_, _ = fmt.Fprintln(tw, "ID\tPRIORITY\tSTATUS\tDEADLINE\tXP\tTITLE")

	// Rows
	for _, task := range tasks {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			task.ID,
			task.Priority,
			task.Status,
			formatDeadline(task.Criteria.Deadline),
			task.XPReward,
			task.Title,
		)
	}
}

// newShowCommand creates the show command.
func newShowCommand(c *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Display task details",
		Long: `Display detailed information about a task, including the score it
would get right now.

Examples:
  fq show 0195...
  fq show 0195... --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.ShowTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			if asJSON {
				type jsonTask struct {
					*domain.Task
					DaysUntilDeadline *float64        `json:"daysUntilDeadline,omitempty"`
					CurrentPriority   domain.Priority `json:"currentPriority"`
					Score             float64         `json:"score"`
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(jsonTask{
					Task:              out.Task,
					DaysUntilDeadline: out.DaysUntilDeadline,
					CurrentPriority:   out.CurrentPriority,
					Score:             out.Score,
				})
			}

			printTaskDetails(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")

	return cmd
}

// printTaskDetails prints task details in a formatted output.
func printTaskDetails(w io.Writer, out *usecase.ShowTaskOutput) {
	task := out.Task
	crit := task.Criteria

	// Header
	_, _ = fmt.Fprintln(w, stylesFor(w).Header.Render(fmt.Sprintf("# %s", task.Title)))
	_, _ = fmt.Fprintf(w, "ID: %s\n\n", task.ID)

	// Description
	if task.Description != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", task.Description)
	}

	// Fields
	_, _ = fmt.Fprintf(w, "Status: %s\n", statusBadge(w, task.Status))
	_, _ = fmt.Fprintf(w, "Priority: %s (score %.1f", priorityBadge(w, out.CurrentPriority), out.Score)
	if out.CurrentPriority != task.Priority {
		_, _ = fmt.Fprintf(w, ", stored %s", task.Priority)
	}
	_, _ = fmt.Fprintln(w, ")")
	_, _ = fmt.Fprintf(w, "Complexity: %d  Impact: %d  Estimate: %d min\n",
		crit.Complexity, crit.Impact, crit.EstimatedTimeMinutes)

	if crit.Deadline != nil {
		_, _ = fmt.Fprintf(w, "Deadline: %s", formatDeadline(crit.Deadline))
		if out.DaysUntilDeadline != nil {
			_, _ = fmt.Fprintf(w, " (%s)", formatDays(*out.DaysUntilDeadline))
		}
		_, _ = fmt.Fprintln(w)
	} else {
		_, _ = fmt.Fprintln(w, "Deadline: none")
	}

	if len(crit.Dependencies) > 0 {
		_, _ = fmt.Fprintf(w, "Dependencies: [%s]\n", strings.Join(crit.Dependencies, ", "))
	}
	if len(task.Tags) > 0 {
		_, _ = fmt.Fprintf(w, "Tags: [%s]\n", strings.Join(task.Tags, ", "))
	}

	_, _ = fmt.Fprintf(w, "Reward: %d XP\n", task.XPReward)
	_, _ = fmt.Fprintf(w, "Created: %s\n", task.CreatedAt.Format(time.RFC3339))
	if task.CompletedAt != nil {
		_, _ = fmt.Fprintf(w, "Completed: %s\n", task.CompletedAt.Format(time.RFC3339))
	}

	// Subtasks
	if len(task.Subtasks) > 0 {
		_, _ = fmt.Fprintln(w, "\nSubtasks:")
		for _, s := range task.Subtasks {
			mark := " "
			if s.Completed {
				mark = "x"
			}
			_, _ = fmt.Fprintf(w, "  [%s] %s. %s\n", mark, s.ID, s.Title)
		}
	}
}

// newCompleteCommand creates the complete command.
func newCompleteCommand(c *app.Container) *cobra.Command {
	var spent int

	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Complete a task and collect XP",
		Long: `Mark a task as completed.

Completion grants XP (50 x complexity x priority multiplier), advances the
daily streak, may unlock achievements and is recorded in the history used
by 'fq suggest'.

Examples:
  fq complete 0195...
  fq complete 0195... --spent 75`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.CompleteTaskInput{TaskID: args[0]}
			if cmd.Flags().Changed("spent") {
				input.ActualTimeSpentMinutes = &spent
			}

			uc := c.CompleteTaskUseCase()
			out, err := uc.Execute(cmd.Context(), input)
			if out == nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Completed task %s\n", out.Task.ID)
			if res := out.Progression; res != nil {
				_, _ = fmt.Fprintln(w, stylesFor(w).XP.Render(fmt.Sprintf("+%d XP", res.XPGained)))
				printEvents(w, res.Events)
				if p := res.Progression; p != nil {
					_, _ = fmt.Fprintf(w, "Level %d (%s), streak %d day(s)\n", p.Level, p.Title, p.StreakDays)
				}
			}
			return err
		},
	}

	cmd.Flags().IntVar(&spent, "spent", 0, "Actual time spent in minutes (default: the estimate)")

	return cmd
}

// newImportCommand creates the import command.
func newImportCommand(c *app.Container) *cobra.Command {
	var opts struct {
		From   string
		DryRun bool
	}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Create tasks from a YAML file",
		Long: `Create tasks from a YAML file.

File format:
  tasks:
    - title: Fix login outage
      complexity: 4
      impact: 5
      estimatedTimeMinutes: 60
      deadline: 2025-03-11T18:00:00Z
      tags: [ops]
      subtasks: [Reproduce, Patch, Deploy]
    - title: Write release notes

Unknown fields are rejected. Either every task is created or none is.

Examples:
  fq import --from tasks.yaml
  fq import --from tasks.yaml --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := os.ReadFile(opts.From)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			uc := c.ImportTasksUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ImportTasksInput{
				Content: content,
				DryRun:  opts.DryRun,
			})
			if out == nil {
				return err
			}

			w := cmd.OutOrStdout()
			verb := "Created"
			if opts.DryRun {
				verb = "Would create"
			}
			for _, task := range out.Tasks {
				_, _ = fmt.Fprintf(w, "%s task %s [%s] %s\n", verb, task.ID, task.Priority, task.Title)
			}
			if err != nil {
				return err
			}
			if opts.DryRun {
				_, _ = fmt.Fprintf(w, "\n%d task(s) would be created (dry run)\n", len(out.Tasks))
			} else {
				_, _ = fmt.Fprintf(w, "\nCreated %d task(s)\n", len(out.Tasks))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "YAML file to import (required)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Preview tasks without creating")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}
