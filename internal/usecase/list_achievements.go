package usecase

import (
	"context"

	"github.com/focusquest/focusquest/internal/domain"
)

// AchievementStatus pairs a catalog entry with its unlock state.
type AchievementStatus struct {
	Achievement domain.Achievement
	Unlocked    bool
}

// ListAchievementsInput contains the input for the ListAchievements use case.
type ListAchievementsInput struct {
	UnlockedOnly bool // Hide locked achievements
}

// ListAchievementsOutput contains the catalog with unlock state.
type ListAchievementsOutput struct {
	Achievements []AchievementStatus // Catalog order
	Unlocked     int                 // Number unlocked
}

// ListAchievements lists the achievement catalog.
type ListAchievements struct {
	tracker *ProgressionTracker
}

// NewListAchievements creates a new ListAchievements use case.
func NewListAchievements(tracker *ProgressionTracker) *ListAchievements {
	return &ListAchievements{tracker: tracker}
}

// Execute returns the catalog in evaluation order.
func (uc *ListAchievements) Execute(ctx context.Context, in ListAchievementsInput) (*ListAchievementsOutput, error) {
	p := uc.tracker.Progression(ctx)
	out := &ListAchievementsOutput{}
	for _, a := range domain.AchievementCatalog() {
		unlocked := p.HasAchievement(a.ID)
		if unlocked {
			out.Unlocked++
		}
		if in.UnlockedOnly && !unlocked {
			continue
		}
		out.Achievements = append(out.Achievements, AchievementStatus{Achievement: a, Unlocked: unlocked})
	}
	return out, nil
}
