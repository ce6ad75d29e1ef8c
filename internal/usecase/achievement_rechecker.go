package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/focusquest/focusquest/internal/domain"
)

// AchievementRechecker periodically re-evaluates locked achievements so that
// counters merged from outside (focus sessions) unlock without a completion.
type AchievementRechecker struct {
	tracker  *ProgressionTracker
	logger   domain.Logger
	interval time.Duration
}

// NewAchievementRechecker creates a rechecker. A non-positive interval falls
// back to domain.DefaultRecheckInterval.
func NewAchievementRechecker(tracker *ProgressionTracker, logger domain.Logger, interval time.Duration) *AchievementRechecker {
	if interval <= 0 {
		interval = domain.DefaultRecheckInterval
	}
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &AchievementRechecker{
		tracker:  tracker,
		logger:   logger,
		interval: interval,
	}
}

// Run re-checks on every tick until ctx is cancelled. onResult, if not nil,
// is called after every tick that produced events. Write failures are logged
// and retried on the next tick.
func (r *AchievementRechecker) Run(ctx context.Context, onResult func(*ProgressionResult)) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Debug(logCategoryProgression, fmt.Sprintf("rechecker started (every %s)", r.interval))
	for {
		select {
		case <-ctx.Done():
			r.logger.Debug(logCategoryProgression, "rechecker stopped")
			if err := r.tracker.Flush(context.WithoutCancel(ctx)); err != nil {
				return err
			}
			return nil
		case <-ticker.C:
			res, err := r.tracker.RecheckAchievements(ctx)
			if err != nil {
				if errors.Is(err, domain.ErrStoreWrite) || errors.Is(err, domain.ErrStoreRead) {
					r.logger.Warn(logCategoryProgression, fmt.Sprintf("recheck: %v", err))
				} else {
					return err
				}
			}
			if onResult != nil && res != nil && len(res.Events) > 0 {
				onResult(res)
			}
		}
	}
}
