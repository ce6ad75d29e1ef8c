package domain

import (
	"strconv"
	"strings"
	"time"
)

// TaskDraft is the user-supplied description of a new task, from flags or an
// import file. Zero complexity or impact means "not given".
// Fields are ordered to minimize memory padding.
type TaskDraft struct {
	Deadline             *time.Time `yaml:"deadline"`
	Title                string     `yaml:"title"`
	Description          string     `yaml:"description"`
	Tags                 []string   `yaml:"tags"`
	Subtasks             []string   `yaml:"subtasks"`
	Dependencies         []string   `yaml:"dependencies"`
	Complexity           int        `yaml:"complexity"`
	Impact               int        `yaml:"impact"`
	EstimatedTimeMinutes int        `yaml:"estimatedTimeMinutes"`
}

// Validate checks that the draft can become a task.
func (d TaskDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// Criteria returns the normalized scoring inputs of the draft.
func (d TaskDraft) Criteria() PriorityCriteria {
	complexity, impact := d.Complexity, d.Impact
	if complexity == 0 {
		complexity = DefaultRating
	}
	if impact == 0 {
		impact = DefaultRating
	}
	return NewPriorityCriteria(complexity, impact, d.EstimatedTimeMinutes, d.Dependencies, d.Deadline)
}

// NewTaskFromDraft builds a pending task with its priority and XP reward
// already computed.
func NewTaskFromDraft(id string, d TaskDraft, now time.Time) (*Task, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	subtasks := make([]Subtask, 0, len(d.Subtasks))
	for i, title := range d.Subtasks {
		subtasks = append(subtasks, Subtask{ID: strconv.Itoa(i + 1), Title: title})
	}

	task := &Task{
		ID:          id,
		Title:       strings.TrimSpace(d.Title),
		Description: d.Description,
		Status:      StatusPending,
		Subtasks:    subtasks,
		Tags:        d.Tags,
		Criteria:    d.Criteria(),
		CreatedAt:   now,
	}
	UpdateTaskPriority(task, now)
	return task, nil
}
