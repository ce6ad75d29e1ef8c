package usecase

import (
	"context"
	"fmt"

	"github.com/focusquest/focusquest/internal/domain"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	Status           *domain.Status // Only tasks in this status (nil = any)
	Urgent           bool           // Only urgent tasks
	IncludeCompleted bool           // Include completed tasks
}

// ListTasksOutput contains the result of listing tasks.
type ListTasksOutput struct {
	Tasks     []*domain.Task // Tasks in priority order
	Refreshed int            // Number of tasks whose priority changed since last save
}

// ListTasks lists tasks in priority order. Open tasks are re-scored first,
// since the deadline bonus changes as time passes.
type ListTasks struct {
	tasks  domain.TaskRepository
	clock  domain.Clock
	logger domain.Logger
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(tasks domain.TaskRepository, clock domain.Clock, logger domain.Logger) *ListTasks {
	return &ListTasks{
		tasks:  tasks,
		clock:  clock,
		logger: logger,
	}
}

// Execute returns the filtered, sorted task list.
func (uc *ListTasks) Execute(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	all, err := uc.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	now := uc.clock.Now()
	refreshed := 0
	filtered := make([]*domain.Task, 0, len(all))
	for _, task := range all {
		if !task.Status.IsTerminal() && domain.UpdateTaskPriority(task, now) {
			if err := uc.tasks.Save(ctx, task); err != nil {
				return nil, fmt.Errorf("save task %s: %w", task.ID, err)
			}
			refreshed++
		}
		if !in.matches(task) {
			continue
		}
		filtered = append(filtered, task)
	}

	if refreshed > 0 && uc.logger != nil {
		uc.logger.Debug(logCategoryTask, fmt.Sprintf("re-scored %d task(s)", refreshed))
	}

	if in.Urgent {
		filtered = domain.UrgentTasks(filtered, now)
	}

	return &ListTasksOutput{
		Tasks:     domain.SortTasksByPriority(filtered),
		Refreshed: refreshed,
	}, nil
}

// matches applies the status filter. Completed tasks are hidden unless asked
// for explicitly.
func (in ListTasksInput) matches(task *domain.Task) bool {
	if in.Status != nil {
		return task.Status == *in.Status
	}
	return in.IncludeCompleted || !task.Status.IsTerminal()
}
