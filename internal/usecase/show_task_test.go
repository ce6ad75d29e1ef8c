package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/focusquest/focusquest/internal/domain"
	"github.com/focusquest/focusquest/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowTask_Execute(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	deadline := trackerNow.Add(36 * time.Hour)
	task := seedTask(t, repo, domain.TaskDraft{Title: "review", Deadline: &deadline, EstimatedTimeMinutes: 60}, trackerNow)
	uc := NewShowTask(repo, &testutil.MockClock{NowTime: trackerNow})

	out, err := uc.Execute(context.Background(), ShowTaskInput{TaskID: task.ID})

	require.NoError(t, err)
	// 3 + 4.5 + 2 + 3 = 12.5
	assert.InDelta(t, 12.5, out.Score, 1e-9)
	assert.Equal(t, domain.PriorityHigh, out.CurrentPriority)
	require.NotNil(t, out.DaysUntilDeadline)
	assert.InDelta(t, 1.5, *out.DaysUntilDeadline, 1e-9)
}

func TestShowTask_Execute_NotFound(t *testing.T) {
	uc := NewShowTask(testutil.NewMockTaskRepository(), &testutil.MockClock{NowTime: trackerNow})

	_, err := uc.Execute(context.Background(), ShowTaskInput{TaskID: "nope"})

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
