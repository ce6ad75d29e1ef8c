package cli

import (
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/focusquest/focusquest/internal/app"
	"github.com/focusquest/focusquest/internal/domain"
	"github.com/focusquest/focusquest/internal/usecase"
)

const progressBarWidth = 30

// newStatusCommand creates the status command.
func newStatusCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show level, XP, streak and totals",
		Long: `Show the progression record: level and title, XP toward the next
level, the current daily streak, task and focus totals, unlocked
achievements and the next milestone reward.

The streak shows 0 once a full calendar day has passed without a
completion.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ShowProgressionUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowProgressionInput{})
			if err != nil {
				return err
			}
			printProgression(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// printProgression prints the progression view.
func printProgression(w io.Writer, out *usecase.ShowProgressionOutput) {
	p := out.Progression
	st := stylesFor(w)

	_, _ = fmt.Fprintln(w, st.Level.Render(fmt.Sprintf("Level %d - %s", p.Level, p.Title)))

	// XP inside the current level
	levelStart := domain.XPForNextLevel(p.Level - 1)
	_, _ = fmt.Fprintf(w, "XP: %s %d/%d (%d to next level)\n",
		st.ProgressBar(p.XPPoints-levelStart, p.XPForNextLevel-levelStart, progressBarWidth),
		p.XPPoints, p.XPForNextLevel, out.XPToNextLevel)

	_, _ = fmt.Fprintln(w, st.Streak.Render(fmt.Sprintf("Streak: %d day(s)", out.CurrentStreak)))
	_, _ = fmt.Fprintf(w, "Tasks: %d  Subtasks: %d\n", p.TotalTasks, p.TotalSubtasks)
	_, _ = fmt.Fprintf(w, "Focus: %d session(s), %d min\n", p.TotalFocusSessions, p.TotalFocusTimeMinutes)
	_, _ = fmt.Fprintf(w, "Achievements: %d/%d\n", out.Unlocked, out.Total)

	if out.NextReward != nil {
		_, _ = fmt.Fprintln(w, st.Muted.Render(
			fmt.Sprintf("Next reward at level %d: %s", out.NextReward.Level, out.NextReward.Title)))
	}
}

// newAchievementsCommand creates the achievements command.
func newAchievementsCommand(c *app.Container) *cobra.Command {
	var unlockedOnly bool

	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "List achievements",
		Long: `List the achievement catalog in evaluation order, marking the ones
already unlocked.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ListAchievementsUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ListAchievementsInput{UnlockedOnly: unlockedOnly})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			st := stylesFor(w)
			for _, status := range out.Achievements {
				a := status.Achievement
				line := fmt.Sprintf("%s %s (+%d XP) - %s", a.Icon, a.Title, a.XPReward, a.Description)
				if status.Unlocked {
					_, _ = fmt.Fprintln(w, st.AchievementUnlocked.Render("[x] "+line))
				} else {
					_, _ = fmt.Fprintln(w, st.AchievementLocked.Render("[ ] "+line))
				}
			}
			_, _ = fmt.Fprintf(w, "\n%d/%d unlocked\n", out.Unlocked, len(domain.AchievementCatalog()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&unlockedOnly, "unlocked", false, "Show only unlocked achievements")

	return cmd
}

// newFocusCommand creates the focus command.
func newFocusCommand(c *app.Container) *cobra.Command {
	var minutes int

	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Record a finished hyperfocus session",
		Long: `Record a finished hyperfocus session. The focus totals feed the
hyperfocus achievements.

Examples:
  fq focus --minutes 45`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.RecordFocusUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.RecordFocusInput{Minutes: minutes})
			if out == nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Recorded %d min of focus (total %d session(s), %d min)\n",
				minutes, out.Stats.TotalFocusSessions, out.Stats.TotalFocusTimeMinutes)
			if out.Progression != nil {
				printEvents(w, out.Progression.Events)
			}
			return err
		},
	}

	cmd.Flags().IntVar(&minutes, "minutes", 0, "Session length in minutes (required)")
	_ = cmd.MarkFlagRequired("minutes")

	return cmd
}

// newWatchCommand creates the watch command.
func newWatchCommand(c *app.Container) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-check achievements periodically",
		Long: `Re-check locked achievements on a fixed interval until interrupted.

Counters merged from outside a task completion (focus sessions recorded
by another process) unlock their achievements here. Unsaved progression
is written on exit and a metrics summary is printed.

The default interval comes from [progression].recheck_interval.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := cmd.OutOrStdout()
			rechecker := c.AchievementRechecker(interval)
			_, _ = fmt.Fprintln(w, stylesFor(w).Muted.Render("Watching achievements (Ctrl-C to stop)"))

			err := rechecker.Run(ctx, func(res *usecase.ProgressionResult) {
				printEvents(w, res.Events)
			})

			if c.Telemetry != nil {
				snapshot, serr := c.Telemetry.Snapshot(cmd.Context())
				if serr == nil {
					printMetrics(w, snapshot)
				}
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Re-check interval (default from config)")

	return cmd
}

// printMetrics prints a metrics snapshot sorted by name.
func printMetrics(w io.Writer, snapshot map[string]int64) {
	if len(snapshot) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, "\n[Metrics]")
	for _, name := range slices.Sorted(maps.Keys(snapshot)) {
		_, _ = fmt.Fprintf(w, "%s = %d\n", name, snapshot[name])
	}
}
