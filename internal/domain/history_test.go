package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHistoryEntry_RequiresCompletion(t *testing.T) {
	task := &Task{ID: "t1", Status: StatusInProgress}
	_, err := NewHistoryEntry(task, 30)
	assert.ErrorIs(t, err, ErrTaskNotCompleted)

	task.Status = StatusCompleted
	_, err = NewHistoryEntry(task, 30)
	assert.ErrorIs(t, err, ErrTaskNotCompleted, "completion timestamp is required")

	done := testNow
	task.CompletedAt = &done
	entry, err := NewHistoryEntry(task, 45)
	require.NoError(t, err)
	assert.Equal(t, "t1", entry.TaskID)
	assert.Equal(t, testNow, entry.CompletedAt)
	assert.Equal(t, 45, entry.ActualTimeSpentMinutes)
	assert.NotNil(t, entry.Criteria.Dependencies)
}

func TestTaskHistory_AddNewestFirst(t *testing.T) {
	var h TaskHistory
	h.Add(TaskHistoryEntry{TaskID: "first"})
	h.Add(TaskHistoryEntry{TaskID: "second"})

	require.Equal(t, 2, h.Len())
	assert.Equal(t, "second", h.Entries[0].TaskID)
	assert.Equal(t, "first", h.Entries[1].TaskID)
}

func TestTaskHistory_EvictsOldest(t *testing.T) {
	var h TaskHistory
	for i := range TaskHistoryCapacity + 5 {
		h.Add(TaskHistoryEntry{TaskID: fmt.Sprintf("t%d", i)})
	}

	require.Equal(t, TaskHistoryCapacity, h.Len())
	assert.Equal(t, fmt.Sprintf("t%d", TaskHistoryCapacity+4), h.Entries[0].TaskID)
	assert.Equal(t, "t5", h.Entries[TaskHistoryCapacity-1].TaskID)
}
