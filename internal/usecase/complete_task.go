package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/focusquest/focusquest/internal/domain"
	"github.com/focusquest/focusquest/internal/usecase/shared"
)

// CompleteTaskInput contains the parameters for completing a task.
type CompleteTaskInput struct {
	ActualTimeSpentMinutes *int   // Time actually spent (nil = use the estimate)
	TaskID                 string // Task ID to complete
}

// CompleteTaskOutput contains the result of completing a task.
type CompleteTaskOutput struct {
	Task        *domain.Task       // The completed task
	Progression *ProgressionResult // XP, events and the progression snapshot
}

// CompleteTask marks a task completed and delivers the completion to the
// progression tracker and the task history.
type CompleteTask struct {
	tasks   domain.TaskRepository
	tracker *ProgressionTracker
	history *TaskHistoryStore
	clock   domain.Clock
	logger  domain.Logger
}

// NewCompleteTask creates a new CompleteTask use case.
func NewCompleteTask(
	tasks domain.TaskRepository,
	tracker *ProgressionTracker,
	history *TaskHistoryStore,
	clock domain.Clock,
	logger domain.Logger,
) *CompleteTask {
	return &CompleteTask{
		tasks:   tasks,
		tracker: tracker,
		history: history,
		clock:   clock,
		logger:  logger,
	}
}

// Execute completes the task.
// Processing:
//   - Validate the transition to COMPLETED
//   - Set status and completion time, save the task
//   - Apply the completion to the progression record
//   - Add the task to the history used for suggestions
//
// Once the task is saved, progression and history failures are reported
// together and the output is still returned.
func (uc *CompleteTask) Execute(ctx context.Context, in CompleteTaskInput) (*CompleteTaskOutput, error) {
	task, err := shared.GetOpenTask(ctx, uc.tasks, in.TaskID, "complete")
	if err != nil {
		return nil, err
	}
	if !task.Status.CanTransitionTo(domain.StatusCompleted) {
		return nil, fmt.Errorf("cannot complete task in %s status: %w", task.Status, domain.ErrInvalidTransition)
	}

	now := uc.clock.Now()
	task.Status = domain.StatusCompleted
	task.CompletedAt = &now

	if err := uc.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	out := &CompleteTaskOutput{Task: task}

	res, progressErr := uc.tracker.OnTaskCompleted(ctx, task)
	out.Progression = res
	if progressErr != nil {
		progressErr = fmt.Errorf("update progression: %w", progressErr)
	}

	actual := task.Criteria.EstimatedTimeMinutes
	if in.ActualTimeSpentMinutes != nil {
		actual = *in.ActualTimeSpentMinutes
	}
	historyErr := uc.history.Add(ctx, task, actual)
	if historyErr != nil {
		historyErr = fmt.Errorf("record history: %w", historyErr)
	}

	if uc.logger != nil {
		uc.logger.Info(logCategoryTask, fmt.Sprintf("completed %s: %q", task.ID, task.Title))
	}

	return out, errors.Join(progressErr, historyErr)
}
