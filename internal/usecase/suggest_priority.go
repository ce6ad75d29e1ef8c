package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/focusquest/focusquest/internal/domain"
)

// SuggestPriorityInput contains the draft task estimate.
// Zero complexity or impact means "not given".
type SuggestPriorityInput struct {
	Deadline             *time.Time // Optional deadline
	EstimatedTimeMinutes int        // Estimated effort
	Complexity           int        // 1-5, 0 = default
	Impact               int        // 1-5, 0 = default
}

// SuggestPriorityOutput contains the suggestion and the computed priority.
// Fields are ordered to minimize memory padding.
type SuggestPriorityOutput struct {
	Suggestion         domain.Suggestion       // History-based suggestion
	Criteria           domain.PriorityCriteria // Normalized criteria
	CalculatedPriority domain.Priority         // Priority the scorer assigns
	Score              float64                 // Raw score
	HistorySize        int                     // Entries considered
}

// SuggestPriority recommends a priority for a draft task from the
// completed-task history.
type SuggestPriority struct {
	history *TaskHistoryStore
	clock   domain.Clock
	logger  domain.Logger
}

// NewSuggestPriority creates a new SuggestPriority use case.
func NewSuggestPriority(history *TaskHistoryStore, clock domain.Clock, logger domain.Logger) *SuggestPriority {
	return &SuggestPriority{
		history: history,
		clock:   clock,
		logger:  logger,
	}
}

// Execute computes the suggestion. An unreadable history degrades to the
// insufficient-history answer instead of failing.
func (uc *SuggestPriority) Execute(ctx context.Context, in SuggestPriorityInput) (*SuggestPriorityOutput, error) {
	now := uc.clock.Now()
	criteria := domain.SuggestPriorityCriteria(in.EstimatedTimeMinutes, in.Complexity, in.Impact, in.Deadline)

	var entries []domain.TaskHistoryEntry
	history, err := uc.history.Load(ctx)
	if err != nil {
		uc.logger.Warn(logCategoryHistory, fmt.Sprintf("suggest without history: %v", err))
	} else {
		entries = history.Entries
	}

	return &SuggestPriorityOutput{
		Suggestion:         domain.SuggestPriority(entries, criteria, now),
		Criteria:           criteria,
		CalculatedPriority: domain.CalculatePriority(criteria, now),
		Score:              criteria.Score(now),
		HistorySize:        len(entries),
	}, nil
}
