package domain

import (
	"math"
	"time"
)

// Priority is the label derived from a task's PriorityCriteria.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// AllPriorities returns the priorities from most to least severe.
func AllPriorities() []Priority {
	return []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}
}

// Rank orders priorities severity-first: URGENT=0 ... LOW=3.
// Unknown values sort after LOW.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	return p.Rank() < 4
}

// XPMultiplier returns the completion XP multiplier for the priority.
func (p Priority) XPMultiplier() float64 {
	switch p {
	case PriorityUrgent:
		return 2.0
	case PriorityHigh:
		return 1.5
	case PriorityMedium:
		return 1.2
	default:
		return 1.0
	}
}

// Display returns a human-readable representation of the priority.
func (p Priority) Display() string {
	switch p {
	case PriorityUrgent:
		return "Urgent"
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return string(p)
	}
}

// Criteria bounds.
const (
	MinRating          = 1
	MaxRating          = 5
	DefaultRating      = 3
	maxDependencyBonus = 3
)

// Score thresholds. These are compatibility contracts and must not be tuned.
const (
	urgentThreshold = 13.0
	highThreshold   = 10.0
	mediumThreshold = 7.0
)

// PriorityCriteria holds the inputs from which a priority is derived.
// Build it with NewPriorityCriteria so every field is populated.
type PriorityCriteria struct {
	Deadline             *time.Time `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Dependencies         []string   `json:"dependencies" yaml:"dependencies"`
	Complexity           int        `json:"complexity" yaml:"complexity"`
	Impact               int        `json:"impact" yaml:"impact"`
	EstimatedTimeMinutes int        `json:"estimatedTimeMinutes" yaml:"estimatedTimeMinutes"`
}

// NewPriorityCriteria is the single factory for PriorityCriteria.
// Complexity and impact are clamped to [1,5], estimated time is floored at 0
// and dependencies are copied into a non-nil slice.
func NewPriorityCriteria(complexity, impact, estimatedTimeMinutes int, dependencies []string, deadline *time.Time) PriorityCriteria {
	deps := make([]string, 0, len(dependencies))
	deps = append(deps, dependencies...)

	var dl *time.Time
	if deadline != nil {
		d := *deadline
		dl = &d
	}

	return PriorityCriteria{
		Complexity:           clampRating(complexity),
		Impact:               clampRating(impact),
		EstimatedTimeMinutes: max(0, estimatedTimeMinutes),
		Dependencies:         deps,
		Deadline:             dl,
	}
}

// SuggestPriorityCriteria builds criteria for a draft task from an estimate.
// Zero complexity or impact means "not given" and defaults to 3.
func SuggestPriorityCriteria(estimatedTimeMinutes, complexity, impact int, deadline *time.Time) PriorityCriteria {
	if complexity == 0 {
		complexity = DefaultRating
	}
	if impact == 0 {
		impact = DefaultRating
	}
	return NewPriorityCriteria(complexity, impact, estimatedTimeMinutes, nil, deadline)
}

// Normalized returns a copy that satisfies the factory guarantees.
// Used for records decoded from storage or files.
func (c PriorityCriteria) Normalized() PriorityCriteria {
	return NewPriorityCriteria(c.Complexity, c.Impact, c.EstimatedTimeMinutes, c.Dependencies, c.Deadline)
}

// DaysUntilDeadline returns the fractional number of days until the deadline.
// ok is false if there is no deadline.
func (c PriorityCriteria) DaysUntilDeadline(now time.Time) (days float64, ok bool) {
	if c.Deadline == nil {
		return 0, false
	}
	return c.Deadline.Sub(now).Hours() / 24, true
}

// DeadlineWithin reports whether the deadline falls within d of now.
// Overdue deadlines count as within.
func (c PriorityCriteria) DeadlineWithin(now time.Time, d time.Duration) bool {
	if c.Deadline == nil {
		return false
	}
	return c.Deadline.Sub(now) <= d
}

// Score computes the weighted priority score.
func (c PriorityCriteria) Score(now time.Time) float64 {
	score := float64(c.Complexity)*1.0 + float64(c.Impact)*1.5
	score += float64(timeScore(c.EstimatedTimeMinutes))
	score += float64(min(len(c.Dependencies), maxDependencyBonus))
	score += deadlineBonus(c, now)
	return score
}

// CalculatePriority maps criteria to a priority label. It is deterministic for
// a given now.
func CalculatePriority(c PriorityCriteria, now time.Time) Priority {
	score := c.Score(now)
	switch {
	case score >= urgentThreshold:
		return PriorityUrgent
	case score >= highThreshold:
		return PriorityHigh
	case score >= mediumThreshold:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// CompletionXP returns the XP granted for completing work with the given
// complexity at the given priority.
func CompletionXP(complexity int, p Priority) int {
	return int(math.Round(50 * float64(complexity) * p.XPMultiplier()))
}

func timeScore(estimatedTimeMinutes int) int {
	return max(0, 2-estimatedTimeMinutes/120)
}

func deadlineBonus(c PriorityCriteria, now time.Time) float64 {
	days, ok := c.DaysUntilDeadline(now)
	if !ok {
		return 0
	}
	switch {
	case days < 0:
		return 10
	case days <= 1:
		return 5
	case days <= 3:
		return 3
	case days <= 7:
		return 1
	case days <= 14:
		return 0.5
	default:
		return 0
	}
}

func clampRating(v int) int {
	return min(max(v, MinRating), MaxRating)
}
