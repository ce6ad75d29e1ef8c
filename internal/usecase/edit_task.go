package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/focusquest/focusquest/internal/domain"
	"github.com/focusquest/focusquest/internal/usecase/shared"
)

// EditTaskInput contains the parameters for editing a task.
// Nil fields are left unchanged.
// Fields are ordered to minimize memory padding.
type EditTaskInput struct {
	Title                *string        // New title
	Description          *string        // New description
	Status               *domain.Status // New status (COMPLETED goes through CompleteTask)
	Complexity           *int           // New complexity
	Impact               *int           // New impact
	EstimatedTimeMinutes *int           // New estimate
	Deadline             *time.Time     // New deadline
	Dependencies         *[]string      // Replacement dependency list
	TaskID               string         // Task ID to edit
	AddTags              []string       // Tags to add
	CompleteSubtasks     []string       // Subtask IDs to mark completed
	ClearDeadline        bool           // Remove the deadline
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Task            *domain.Task // The updated task
	PriorityChanged bool         // True if the recomputed priority differs
}

// EditTask is the use case for editing a task and re-scoring it.
type EditTask struct {
	tasks  domain.TaskRepository
	clock  domain.Clock
	logger domain.Logger
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(tasks domain.TaskRepository, clock domain.Clock, logger domain.Logger) *EditTask {
	return &EditTask{
		tasks:  tasks,
		clock:  clock,
		logger: logger,
	}
}

// Execute applies the edits and recomputes the task priority.
func (uc *EditTask) Execute(ctx context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	if !in.hasChanges() {
		return nil, domain.ErrNoFieldsToUpdate
	}

	task, err := shared.GetOpenTask(ctx, uc.tasks, in.TaskID, "edit")
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.ErrEmptyTitle
		}
		task.Title = title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Status != nil {
		if err := applyStatus(task, *in.Status); err != nil {
			return nil, err
		}
	}
	for _, tag := range in.AddTags {
		if !slices.Contains(task.Tags, tag) {
			task.Tags = append(task.Tags, tag)
		}
	}
	for _, id := range in.CompleteSubtasks {
		if err := completeSubtask(task, id); err != nil {
			return nil, err
		}
	}

	c := task.Criteria
	if in.Complexity != nil {
		c.Complexity = *in.Complexity
	}
	if in.Impact != nil {
		c.Impact = *in.Impact
	}
	if in.EstimatedTimeMinutes != nil {
		c.EstimatedTimeMinutes = *in.EstimatedTimeMinutes
	}
	if in.Dependencies != nil {
		c.Dependencies = *in.Dependencies
	}
	if in.Deadline != nil {
		c.Deadline = in.Deadline
	}
	if in.ClearDeadline {
		c.Deadline = nil
	}
	task.Criteria = c.Normalized()

	changed := domain.UpdateTaskPriority(task, uc.clock.Now())

	if err := uc.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(logCategoryTask, fmt.Sprintf("edited %s (priority %s)", task.ID, task.Priority))
	}

	return &EditTaskOutput{Task: task, PriorityChanged: changed}, nil
}

func (in EditTaskInput) hasChanges() bool {
	return in.Title != nil || in.Description != nil || in.Status != nil ||
		in.Complexity != nil || in.Impact != nil || in.EstimatedTimeMinutes != nil ||
		in.Deadline != nil || in.Dependencies != nil || in.ClearDeadline ||
		len(in.AddTags) > 0 || len(in.CompleteSubtasks) > 0
}

func applyStatus(task *domain.Task, next domain.Status) error {
	if !next.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, next)
	}
	if next == domain.StatusCompleted {
		return fmt.Errorf("use complete to finish a task: %w", domain.ErrInvalidTransition)
	}
	if next == task.Status {
		return nil
	}
	if !task.Status.CanTransitionTo(next) {
		return fmt.Errorf("cannot move task from %s to %s: %w", task.Status, next, domain.ErrInvalidTransition)
	}
	task.Status = next
	return nil
}

func completeSubtask(task *domain.Task, id string) error {
	for i := range task.Subtasks {
		if task.Subtasks[i].ID == id {
			task.Subtasks[i].Completed = true
			return nil
		}
	}
	return fmt.Errorf("subtask %q of %s: %w", id, task.ID, domain.ErrTaskNotFound)
}
