package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/focusquest/focusquest/internal/domain"
)

const logCategoryFocus = "focus"

// RecordFocusInput contains a finished hyperfocus session.
type RecordFocusInput struct {
	Minutes int // Session length
}

// RecordFocusOutput contains the updated counters and progression changes.
type RecordFocusOutput struct {
	Progression *ProgressionResult // Achievements unlocked by the new counters
	Stats       domain.FocusStats  // Counters after the session
}

// RecordFocus stands in for the external hyperfocus session manager: it keeps
// the focus counters under domain.KeyFocusStats and merges them into the
// progression record.
type RecordFocus struct {
	store   domain.KVStore
	tracker *ProgressionTracker
	logger  domain.Logger
}

// NewRecordFocus creates a new RecordFocus use case.
func NewRecordFocus(store domain.KVStore, tracker *ProgressionTracker, logger domain.Logger) *RecordFocus {
	return &RecordFocus{
		store:   store,
		tracker: tracker,
		logger:  logger,
	}
}

// Execute records the session.
func (uc *RecordFocus) Execute(ctx context.Context, in RecordFocusInput) (*RecordFocusOutput, error) {
	if in.Minutes <= 0 {
		return nil, fmt.Errorf("%w: %d minutes", domain.ErrInvalidFocusDuration, in.Minutes)
	}

	stats, err := uc.loadStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalFocusSessions++
	stats.TotalFocusTimeMinutes += in.Minutes

	data, err := json.Marshal(stats)
	if err != nil {
		return nil, fmt.Errorf("encode focus stats: %w", err)
	}
	if err := uc.store.Update(ctx, domain.KeyFocusStats, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrStoreWrite, domain.KeyFocusStats, err)
	}

	if uc.logger != nil {
		uc.logger.Info(logCategoryFocus, fmt.Sprintf("session of %d min (total %d sessions, %d min)",
			in.Minutes, stats.TotalFocusSessions, stats.TotalFocusTimeMinutes))
	}

	res, err := uc.tracker.MergeFocusStats(ctx, stats)
	return &RecordFocusOutput{Stats: stats, Progression: res}, err
}

func (uc *RecordFocus) loadStats(ctx context.Context) (domain.FocusStats, error) {
	var stats domain.FocusStats
	data, found, err := uc.store.Get(ctx, domain.KeyFocusStats)
	if err != nil {
		return stats, fmt.Errorf("%w: %s: %w", domain.ErrStoreRead, domain.KeyFocusStats, err)
	}
	if !found {
		return stats, nil
	}
	if err := json.Unmarshal(data, &stats); err != nil {
		return stats, fmt.Errorf("%w: %s: %w", domain.ErrInvalidRecord, domain.KeyFocusStats, err)
	}
	return stats, nil
}
