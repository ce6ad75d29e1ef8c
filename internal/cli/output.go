package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/focusquest/focusquest/internal/domain"
	"github.com/focusquest/focusquest/internal/ui"
)

// stylesFor returns styles rendered for w. Colors are dropped when w is not
// a terminal.
func stylesFor(w io.Writer) ui.Styles {
	return ui.NewStyles(lipgloss.NewRenderer(w))
}

// deadlineLayouts are accepted by --deadline, tried in order.
var deadlineLayouts = []string{time.RFC3339, "2006-01-02T15:04", time.DateOnly}

// parseDeadline parses a deadline flag in the local zone.
// A bare date means the end of that day.
func parseDeadline(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range deadlineLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err != nil {
			continue
		}
		if layout == time.DateOnly {
			t = t.Add(24*time.Hour - time.Second)
		}
		return &t, nil
	}
	return nil, fmt.Errorf("invalid deadline %q (use YYYY-MM-DD, YYYY-MM-DDTHH:MM or RFC 3339)", s)
}

// parseStatus accepts statuses case-insensitively, with '-' or '_'.
func parseStatus(s string) (domain.Status, error) {
	status := domain.Status(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidStatus, s)
	}
	return status, nil
}

// formatDeadline formats an optional deadline for tables.
func formatDeadline(d *time.Time) string {
	if d == nil {
		return "-"
	}
	return d.Local().Format("2006-01-02 15:04")
}

// formatDays renders fractional days until a deadline.
func formatDays(days float64) string {
	if days < 0 {
		return fmt.Sprintf("overdue by %.1f days", -days)
	}
	return fmt.Sprintf("in %.1f days", days)
}

// printEvents prints level-ups and achievement unlocks in emission order.
func printEvents(w io.Writer, events []domain.ProgressionEvent) {
	st := stylesFor(w)
	for _, e := range events {
		switch e.Kind {
		case domain.EventLevelUp:
			_, _ = fmt.Fprintln(w, st.LevelUp.Render(
				fmt.Sprintf("Level up! %d -> %d (%s)", e.OldLevel, e.NewLevel, domain.LevelTitle(e.NewLevel))))
			if e.Reward != nil {
				_, _ = fmt.Fprintf(w, "  Reward: %s - %s\n", e.Reward.Title, e.Reward.Description)
				for _, r := range e.Reward.Rewards {
					_, _ = fmt.Fprintf(w, "    - %s\n", r)
				}
			}
		case domain.EventAchievementUnlocked:
			label := e.AchievementID
			if a, ok := domain.FindAchievement(e.AchievementID); ok {
				label = a.Icon + " " + a.Title
			}
			_, _ = fmt.Fprintln(w, st.AchievementUnlocked.Render(
				fmt.Sprintf("Achievement unlocked: %s (+%d XP)", label, e.XPGranted)))
		}
	}
}

// priorityBadge renders a priority with its color.
func priorityBadge(w io.Writer, p domain.Priority) string {
	return stylesFor(w).PriorityStyle(p).Render(string(p))
}

// statusBadge renders a status icon and name with its color.
func statusBadge(w io.Writer, s domain.Status) string {
	return stylesFor(w).StatusStyle(s).Render(ui.StatusIcon(s) + " " + string(s))
}
