package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/focusquest/focusquest/internal/app"
	"github.com/focusquest/focusquest/internal/usecase"
)

// newSuggestCommand creates the suggest command.
func newSuggestCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Deadline   string
		Complexity int
		Impact     int
		Estimate   int
	}

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest a priority from completion history",
		Long: `Suggest a priority for a task you have not created yet.

The suggestion looks at completed tasks with similar complexity, impact
and time spent (within 1 point and 30 minutes) and picks the priority
those tasks were given most often. With no similar history, a rule of
thumb based on impact, complexity and deadline is used.

The priority the scorer would compute is shown alongside.

Examples:
  fq suggest --complexity 4 --impact 5 --estimate 90
  fq suggest --estimate 30 --deadline 2025-03-11`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.SuggestPriorityInput{
				Complexity:           opts.Complexity,
				Impact:               opts.Impact,
				EstimatedTimeMinutes: opts.Estimate,
			}
			if opts.Deadline != "" {
				deadline, err := parseDeadline(opts.Deadline)
				if err != nil {
					return err
				}
				input.Deadline = deadline
			}

			uc := c.SuggestPriorityUseCase()
			out, err := uc.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			s := out.Suggestion
			_, _ = fmt.Fprintf(w, "Suggested priority: %s (confidence %.0f%%)\n",
				priorityBadge(w, s.SuggestedPriority), s.Confidence*100)
			for _, r := range s.Reasons {
				_, _ = fmt.Fprintf(w, "  - %s\n", r)
			}
			_, _ = fmt.Fprintf(w, "Calculated priority: %s (score %.1f)\n",
				priorityBadge(w, out.CalculatedPriority), out.Score)
			_, _ = fmt.Fprintln(w, stylesFor(w).Muted.Render(fmt.Sprintf("History: %d completed task(s)", out.HistorySize)))
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Complexity, "complexity", 0, "Complexity 1-5 (default 3)")
	cmd.Flags().IntVar(&opts.Impact, "impact", 0, "Impact 1-5 (default 3)")
	cmd.Flags().IntVar(&opts.Estimate, "estimate", 0, "Estimated time in minutes")
	cmd.Flags().StringVar(&opts.Deadline, "deadline", "", "Deadline (YYYY-MM-DD, YYYY-MM-DDTHH:MM or RFC 3339)")

	return cmd
}
