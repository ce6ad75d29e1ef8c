package shared

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusquest/focusquest/internal/domain"
	"github.com/focusquest/focusquest/internal/testutil"
)

func TestGetTask_Success(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.Add(&domain.Task{
		ID:     "t1",
		Title:  "Test task",
		Status: domain.StatusPending,
	})

	task, err := GetTask(context.Background(), repo, "t1")

	require.NoError(t, err)
	assert.Equal(t, "t1", task.ID)
	assert.Equal(t, "Test task", task.Title)
}

func TestGetTask_NotFound(t *testing.T) {
	repo := testutil.NewMockTaskRepository() // Empty

	task, err := GetTask(context.Background(), repo, "missing")

	assert.Nil(t, task)
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.Contains(t, err.Error(), "missing")
}

func TestGetTask_RepositoryError(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.GetErr = errors.New("database connection failed")

	task, err := GetTask(context.Background(), repo, "t1")

	assert.Nil(t, task)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get task")
	assert.Contains(t, err.Error(), "database connection failed")
}

func TestGetOpenTask(t *testing.T) {
	completedAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := testutil.NewMockTaskRepository()
	repo.Add(&domain.Task{ID: "open", Status: domain.StatusInProgress})
	repo.Add(&domain.Task{ID: "done", Status: domain.StatusCompleted, CompletedAt: &completedAt})

	t.Run("open task", func(t *testing.T) {
		task, err := GetOpenTask(context.Background(), repo, "open", "edit")
		require.NoError(t, err)
		assert.Equal(t, "open", task.ID)
	})

	t.Run("completed task", func(t *testing.T) {
		task, err := GetOpenTask(context.Background(), repo, "done", "complete")
		assert.Nil(t, task)
		require.ErrorIs(t, err, domain.ErrAlreadyCompleted)
		assert.Equal(t, "complete done: task already completed", err.Error())
	})

	t.Run("missing task", func(t *testing.T) {
		_, err := GetOpenTask(context.Background(), repo, "missing", "edit")
		require.ErrorIs(t, err, domain.ErrTaskNotFound)
	})
}
