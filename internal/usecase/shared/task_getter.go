// Package shared provides shared utilities for use cases.
package shared

import (
	"context"
	"fmt"

	"github.com/focusquest/focusquest/internal/domain"
)

// GetTask retrieves a task by ID. A missing task is reported as
// domain.ErrTaskNotFound wrapped with the ID.
func GetTask(ctx context.Context, repo domain.TaskRepository, taskID string) (*domain.Task, error) {
	task, err := repo.Get(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, taskID)
	}
	return task, nil
}

// GetOpenTask retrieves a task that can still change. Completed tasks are
// frozen: their priority and XP were settled when they were completed.
// op names the rejected operation in the error.
func GetOpenTask(ctx context.Context, repo domain.TaskRepository, taskID, op string) (*domain.Task, error) {
	task, err := GetTask(ctx, repo, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status.IsTerminal() {
		return nil, fmt.Errorf("%s %s: %w", op, task.ID, domain.ErrAlreadyCompleted)
	}
	return task, nil
}
