package domain

import (
	"fmt"
	"time"
)

// TaskHistoryCapacity is the number of completed tasks kept for suggestions.
const TaskHistoryCapacity = 100

// TaskHistoryEntry records a completed task for the priority suggester.
type TaskHistoryEntry struct {
	CompletedAt            time.Time        `json:"completedAt"`
	TaskID                 string           `json:"taskId"`
	Title                  string           `json:"title"`
	Priority               Priority         `json:"priority"`
	Criteria               PriorityCriteria `json:"criteria"`
	ActualTimeSpentMinutes int              `json:"actualTimeSpentMinutes"`
}

// TaskHistory is a bounded log of completed tasks, newest first.
type TaskHistory struct {
	Entries []TaskHistoryEntry `json:"entries"`
}

// NewHistoryEntry builds a history entry for a completed task.
func NewHistoryEntry(task *Task, actualTimeSpentMinutes int) (TaskHistoryEntry, error) {
	if !task.IsCompleted() {
		return TaskHistoryEntry{}, fmt.Errorf("%w: %s", ErrTaskNotCompleted, task.ID)
	}
	return TaskHistoryEntry{
		TaskID:                 task.ID,
		Title:                  task.Title,
		Priority:               task.Priority,
		Criteria:               task.Criteria.Normalized(),
		CompletedAt:            *task.CompletedAt,
		ActualTimeSpentMinutes: max(0, actualTimeSpentMinutes),
	}, nil
}

// Add inserts the entry at the front and evicts the oldest entries beyond
// TaskHistoryCapacity.
func (h *TaskHistory) Add(entry TaskHistoryEntry) {
	entries := make([]TaskHistoryEntry, 0, min(len(h.Entries)+1, TaskHistoryCapacity))
	entries = append(entries, entry)
	for _, e := range h.Entries {
		if len(entries) == TaskHistoryCapacity {
			break
		}
		entries = append(entries, e)
	}
	h.Entries = entries
}

// Len returns the number of entries.
func (h *TaskHistory) Len() int {
	return len(h.Entries)
}
