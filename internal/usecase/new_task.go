// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/focusquest/focusquest/internal/domain"
)

const logCategoryTask = "task"

// NewTaskInput contains the parameters for creating a new task.
type NewTaskInput struct {
	Draft domain.TaskDraft // Title, criteria, tags and subtasks
}

// NewTaskOutput contains the result of creating a new task.
type NewTaskOutput struct {
	Task *domain.Task // The created task, priority already computed
}

// NewTask is the use case for creating a new task.
type NewTask struct {
	tasks  domain.TaskRepository
	clock  domain.Clock
	logger domain.Logger
}

// NewNewTask creates a new NewTask use case.
func NewNewTask(tasks domain.TaskRepository, clock domain.Clock, logger domain.Logger) *NewTask {
	return &NewTask{
		tasks:  tasks,
		clock:  clock,
		logger: logger,
	}
}

// Execute creates a new task with the given input.
func (uc *NewTask) Execute(ctx context.Context, in NewTaskInput) (*NewTaskOutput, error) {
	if err := in.Draft.Validate(); err != nil {
		return nil, err
	}

	id, err := uc.tasks.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate task ID: %w", err)
	}

	task, err := domain.NewTaskFromDraft(id, in.Draft, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := uc.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(logCategoryTask, fmt.Sprintf("created %s: %q (%s)", task.ID, task.Title, task.Priority))
	}

	return &NewTaskOutput{Task: task}, nil
}
