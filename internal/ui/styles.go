// Package ui provides the lipgloss theme used by the command-line output.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/focusquest/focusquest/internal/domain"
)

// Colors defines the color palette.
var Colors = struct {
	// Base colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color

	// Priority colors
	Urgent lipgloss.Color
	High   lipgloss.Color
	Medium lipgloss.Color
	Low    lipgloss.Color

	// Status colors
	NotStarted  lipgloss.Color
	Pending     lipgloss.Color
	InProgress  lipgloss.Color
	Blocked     lipgloss.Color
	Interrupted lipgloss.Color
	Completed   lipgloss.Color

	// Progression
	XP     lipgloss.Color
	Streak lipgloss.Color
}{
	Primary:   lipgloss.Color("#6C5CE7"), // Purple
	Secondary: lipgloss.Color("#A29BFE"), // Lavender
	Muted:     lipgloss.Color("#636E72"), // Gray
	Error:     lipgloss.Color("#D63031"), // Red
	Success:   lipgloss.Color("#00B894"), // Green
	Warning:   lipgloss.Color("#FDCB6E"), // Yellow

	Urgent: lipgloss.Color("#D63031"), // Red
	High:   lipgloss.Color("#E17055"), // Orange
	Medium: lipgloss.Color("#FDCB6E"), // Yellow
	Low:    lipgloss.Color("#74B9FF"), // Light blue

	NotStarted:  lipgloss.Color("#74B9FF"), // Light blue
	Pending:     lipgloss.Color("#A29BFE"), // Lavender
	InProgress:  lipgloss.Color("#FDCB6E"), // Yellow
	Blocked:     lipgloss.Color("#D63031"), // Red
	Interrupted: lipgloss.Color("#E17055"), // Orange
	Completed:   lipgloss.Color("#00B894"), // Green

	XP:     lipgloss.Color("#FFEAA7"), // Pale yellow
	Streak: lipgloss.Color("#E17055"), // Orange
}

// Styles contains the lipgloss styles for command output.
type Styles struct {
	// Headers
	Header      lipgloss.Style
	Subheader   lipgloss.Style
	DetailLabel lipgloss.Style
	Muted       lipgloss.Style

	// Priority badges
	PriorityUrgent lipgloss.Style
	PriorityHigh   lipgloss.Style
	PriorityMedium lipgloss.Style
	PriorityLow    lipgloss.Style

	// Status badges
	StatusNotStarted  lipgloss.Style
	StatusPending     lipgloss.Style
	StatusInProgress  lipgloss.Style
	StatusBlocked     lipgloss.Style
	StatusInterrupted lipgloss.Style
	StatusCompleted   lipgloss.Style

	// Progression
	Level               lipgloss.Style
	XP                  lipgloss.Style
	Streak              lipgloss.Style
	AchievementUnlocked lipgloss.Style
	AchievementLocked   lipgloss.Style
	LevelUp             lipgloss.Style
	BarFilled           lipgloss.Style
	BarEmpty            lipgloss.Style

	// Messages
	Success  lipgloss.Style
	Warning  lipgloss.Style
	ErrorMsg lipgloss.Style
}

// DefaultStyles returns the default styles, rendered for standard output.
func DefaultStyles() Styles {
	return NewStyles(lipgloss.DefaultRenderer())
}

// NewStyles returns the styles bound to r. A renderer over a writer that is
// not a terminal produces plain text.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Header: r.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),

		Subheader: r.NewStyle().
			Foreground(Colors.Secondary),

		DetailLabel: r.NewStyle().
			Foreground(Colors.Muted),

		Muted: r.NewStyle().
			Foreground(Colors.Muted),

		PriorityUrgent: r.NewStyle().
			Foreground(Colors.Urgent).
			Bold(true),

		PriorityHigh: r.NewStyle().
			Foreground(Colors.High).
			Bold(true),

		PriorityMedium: r.NewStyle().
			Foreground(Colors.Medium),

		PriorityLow: r.NewStyle().
			Foreground(Colors.Low),

		StatusNotStarted: r.NewStyle().
			Foreground(Colors.NotStarted),

		StatusPending: r.NewStyle().
			Foreground(Colors.Pending),

		StatusInProgress: r.NewStyle().
			Foreground(Colors.InProgress),

		StatusBlocked: r.NewStyle().
			Foreground(Colors.Blocked),

		StatusInterrupted: r.NewStyle().
			Foreground(Colors.Interrupted),

		StatusCompleted: r.NewStyle().
			Foreground(Colors.Completed),

		Level: r.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),

		XP: r.NewStyle().
			Foreground(Colors.XP),

		Streak: r.NewStyle().
			Foreground(Colors.Streak),

		AchievementUnlocked: r.NewStyle().
			Foreground(Colors.Success).
			Bold(true),

		AchievementLocked: r.NewStyle().
			Foreground(Colors.Muted),

		LevelUp: r.NewStyle().
			Foreground(Colors.Warning).
			Bold(true),

		BarFilled: r.NewStyle().
			Foreground(Colors.Primary),

		BarEmpty: r.NewStyle().
			Foreground(Colors.Muted),

		Success: r.NewStyle().
			Foreground(Colors.Success),

		Warning: r.NewStyle().
			Foreground(Colors.Warning),

		ErrorMsg: r.NewStyle().
			Foreground(Colors.Error).
			Bold(true),
	}
}

// PriorityStyle returns the style for a given priority.
func (s Styles) PriorityStyle(p domain.Priority) lipgloss.Style {
	switch p {
	case domain.PriorityUrgent:
		return s.PriorityUrgent
	case domain.PriorityHigh:
		return s.PriorityHigh
	case domain.PriorityMedium:
		return s.PriorityMedium
	default:
		return s.PriorityLow
	}
}

// StatusStyle returns the style for a given status.
func (s Styles) StatusStyle(status domain.Status) lipgloss.Style {
	switch status {
	case domain.StatusNotStarted:
		return s.StatusNotStarted
	case domain.StatusPending:
		return s.StatusPending
	case domain.StatusInProgress:
		return s.StatusInProgress
	case domain.StatusBlocked:
		return s.StatusBlocked
	case domain.StatusInterrupted:
		return s.StatusInterrupted
	case domain.StatusCompleted:
		return s.StatusCompleted
	default:
		return s.StatusNotStarted
	}
}

// StatusIcon returns an icon for a given status.
func StatusIcon(status domain.Status) string {
	switch status {
	case domain.StatusNotStarted:
		return "○"
	case domain.StatusPending:
		return "◌"
	case domain.StatusInProgress:
		return "●"
	case domain.StatusBlocked:
		return "✗"
	case domain.StatusInterrupted:
		return "◐"
	case domain.StatusCompleted:
		return "✓"
	default:
		return "?"
	}
}

// ProgressBar renders current/total as a bar of width cells.
func (s Styles) ProgressBar(current, total, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if total > 0 {
		filled = min(width, max(0, current*width/total))
	}
	return s.BarFilled.Render(strings.Repeat("█", filled)) +
		s.BarEmpty.Render(strings.Repeat("░", width-filled))
}
