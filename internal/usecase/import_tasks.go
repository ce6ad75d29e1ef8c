package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/focusquest/focusquest/internal/domain"
	"gopkg.in/yaml.v3"
)

// ImportTasksInput contains the parameters for importing tasks from YAML.
//
// Format:
//
//	tasks:
//	  - title: Write report
//	    complexity: 4
//	    impact: 5
//	    estimatedTimeMinutes: 90
//	    deadline: 2025-03-12T17:00:00Z
//	    dependencies: [data-export]
//	    tags: [work]
//	    subtasks: [Outline, Draft, Review]
type ImportTasksInput struct {
	Content []byte // YAML document
	DryRun  bool   // Parse and score without saving
}

// ImportTasksOutput contains the imported tasks.
// It is also returned alongside a save error, listing the tasks already stored.
type ImportTasksOutput struct {
	Tasks []*domain.Task // Created tasks (or tasks that would be created in dry-run mode)
}

// importFile is the YAML document layout.
type importFile struct {
	Tasks []domain.TaskDraft `yaml:"tasks"`
}

// ImportTasks is the use case for creating tasks from a YAML file.
type ImportTasks struct {
	tasks  domain.TaskRepository
	clock  domain.Clock
	logger domain.Logger
}

// NewImportTasks creates a new ImportTasks use case.
func NewImportTasks(tasks domain.TaskRepository, clock domain.Clock, logger domain.Logger) *ImportTasks {
	return &ImportTasks{
		tasks:  tasks,
		clock:  clock,
		logger: logger,
	}
}

// Execute parses and validates every draft before saving any task.
// A save failure stops the import; tasks saved before it stay saved.
func (uc *ImportTasks) Execute(ctx context.Context, in ImportTasksInput) (*ImportTasksOutput, error) {
	drafts, err := parseImportFile(in.Content)
	if err != nil {
		return nil, err
	}

	for i, d := range drafts {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
	}

	now := uc.clock.Now()
	out := &ImportTasksOutput{Tasks: make([]*domain.Task, 0, len(drafts))}
	for i, d := range drafts {
		id := fmt.Sprintf("draft-%d", i+1)
		if !in.DryRun {
			id, err = uc.tasks.NextID(ctx)
			if err != nil {
				uc.logImported(out.Tasks)
				return out, fmt.Errorf("task %d: generate task ID (%d of %d saved): %w", i+1, len(out.Tasks), len(drafts), err)
			}
		}

		task, err := domain.NewTaskFromDraft(id, d, now)
		if err != nil {
			return out, fmt.Errorf("task %d: %w", i+1, err)
		}

		if !in.DryRun {
			if err := uc.tasks.Save(ctx, task); err != nil {
				uc.logImported(out.Tasks)
				return out, fmt.Errorf("task %d: save task (%d of %d saved): %w", i+1, len(out.Tasks), len(drafts), err)
			}
		}
		out.Tasks = append(out.Tasks, task)
	}

	if !in.DryRun {
		uc.logImported(out.Tasks)
	}

	return out, nil
}

func (uc *ImportTasks) logImported(tasks []*domain.Task) {
	if uc.logger != nil {
		uc.logger.Info(logCategoryTask, fmt.Sprintf("imported %d task(s)", len(tasks)))
	}
}

func parseImportFile(content []byte) ([]domain.TaskDraft, error) {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var f importFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.ErrNoTasksInFile
		}
		return nil, fmt.Errorf("parse import file: %w", err)
	}
	if len(f.Tasks) == 0 {
		return nil, domain.ErrNoTasksInFile
	}
	return f.Tasks, nil
}
