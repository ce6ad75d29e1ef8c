package usecase

import (
	"context"

	"github.com/focusquest/focusquest/internal/domain"
)

// ShowProgressionInput contains the input for the ShowProgression use case.
type ShowProgressionInput struct{}

// ShowProgressionOutput contains the progression view.
// Fields are ordered to minimize memory padding.
type ShowProgressionOutput struct {
	Progression   *domain.UserProgression // Snapshot of the record
	NextReward    *domain.LevelUpReward   // Next milestone reward (nil = none left)
	CurrentStreak int                     // Streak as seen today (0 if broken)
	XPToNextLevel int                     // XP missing for the next level
	Unlocked      int                     // Unlocked achievements
	Total         int                     // Catalog size
}

// ShowProgression reports the progression record.
type ShowProgression struct {
	tracker *ProgressionTracker
}

// NewShowProgression creates a new ShowProgression use case.
func NewShowProgression(tracker *ProgressionTracker) *ShowProgression {
	return &ShowProgression{tracker: tracker}
}

// Execute returns the current progression view.
func (uc *ShowProgression) Execute(ctx context.Context, _ ShowProgressionInput) (*ShowProgressionOutput, error) {
	p := uc.tracker.Progression(ctx)
	out := &ShowProgressionOutput{
		Progression:   p,
		CurrentStreak: p.CurrentStreak(uc.tracker.Today()),
		XPToNextLevel: p.XPToNextLevel(),
		Unlocked:      len(p.Achievements),
		Total:         len(domain.AchievementCatalog()),
	}
	if r, ok := domain.NextLevelUpReward(p.Level); ok {
		out.NextReward = &r
	}
	return out, nil
}
