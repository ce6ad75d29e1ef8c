package usecase

import (
	"context"

	"github.com/focusquest/focusquest/internal/domain"
	"github.com/focusquest/focusquest/internal/usecase/shared"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	TaskID string // Task ID to show
}

// ShowTaskOutput contains the task and its current score.
// Fields are ordered to minimize memory padding.
type ShowTaskOutput struct {
	Task              *domain.Task    // The task
	DaysUntilDeadline *float64        // Fractional days (nil = no deadline)
	CurrentPriority   domain.Priority // Priority if scored now
	Score             float64         // Score if scored now
}

// ShowTask is the use case for displaying a task with its score breakdown.
type ShowTask struct {
	tasks domain.TaskRepository
	clock domain.Clock
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(tasks domain.TaskRepository, clock domain.Clock) *ShowTask {
	return &ShowTask{
		tasks: tasks,
		clock: clock,
	}
}

// Execute retrieves the task and scores it at the current time.
// Nothing is saved; list refreshes stored priorities.
func (uc *ShowTask) Execute(ctx context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	out := &ShowTaskOutput{
		Task:            task,
		Score:           task.Criteria.Score(now),
		CurrentPriority: domain.CalculatePriority(task.Criteria, now),
	}
	if days, ok := task.Criteria.DaysUntilDeadline(now); ok {
		out.DaysUntilDeadline = &days
	}
	return out, nil
}
