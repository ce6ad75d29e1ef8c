// Package domain contains core business entities and interfaces.
package domain

import (
	"cmp"
	"slices"
	"time"
)

// Task represents a unit of work scored by the priority engine.
// Fields are ordered to minimize memory padding.
type Task struct {
	CreatedAt   time.Time        `json:"createdAt"`             // Creation time
	UpdatedAt   time.Time        `json:"updatedAt"`             // Last priority change
	CompletedAt *time.Time       `json:"completedAt,omitempty"` // Set when status becomes COMPLETED
	ID          string           `json:"id"`                    // UUID
	Title       string           `json:"title"`                 // Title (required)
	Description string           `json:"description,omitempty"` // Description (optional)
	Status      Status           `json:"status"`                // Current status
	Priority    Priority         `json:"priority"`              // Derived from Criteria
	Subtasks    []Subtask        `json:"subtasks,omitempty"`    // Ordered checklist
	Tags        []string         `json:"tags,omitempty"`        // Free-form tags
	Criteria    PriorityCriteria `json:"priorityCriteria"`      // Scoring inputs
	XPReward    int              `json:"xpReward"`              // XP granted on completion
}

// Subtask is a checklist item of a task.
type Subtask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// IsCompleted returns true if the task has been completed.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted && t.CompletedAt != nil
}

// UpdateTaskPriority recomputes the task's priority from its criteria.
// UpdatedAt is only touched when the priority actually changes.
// Returns true if the priority changed.
func UpdateTaskPriority(task *Task, now time.Time) bool {
	next := CalculatePriority(task.Criteria, now)
	task.XPReward = CompletionXP(task.Criteria.Complexity, next)
	if next == task.Priority {
		return false
	}
	task.Priority = next
	task.UpdatedAt = now
	return true
}

// SortTasksByPriority returns a new slice ordered by priority (URGENT first),
// then earliest deadline (tasks with a deadline first), then higher impact.
// The sort is stable: tasks equal on all keys keep their input order.
func SortTasksByPriority(tasks []*Task) []*Task {
	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, compareTasks)
	return sorted
}

func compareTasks(a, b *Task) int {
	if c := cmp.Compare(a.Priority.Rank(), b.Priority.Rank()); c != 0 {
		return c
	}
	if c := compareDeadlines(a.Criteria.Deadline, b.Criteria.Deadline); c != 0 {
		return c
	}
	return cmp.Compare(b.Criteria.Impact, a.Criteria.Impact)
}

func compareDeadlines(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}
