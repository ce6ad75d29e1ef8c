package domain

import "context"

// EventKind identifies a progression event.
type EventKind string

const (
	EventLevelUp             EventKind = "levelUp"
	EventAchievementUnlocked EventKind = "achievementUnlocked"
)

// ProgressionEvent is emitted outward when the progression record crosses a
// milestone. levelUp events carry OldLevel, NewLevel and an optional Reward;
// achievementUnlocked events carry AchievementID and XPGranted.
type ProgressionEvent struct {
	Reward        *LevelUpReward `json:"reward,omitempty"`
	Kind          EventKind      `json:"kind"`
	AchievementID string         `json:"id,omitempty"`
	OldLevel      int            `json:"oldLevel,omitempty"`
	NewLevel      int            `json:"newLevel,omitempty"`
	XPGranted     int            `json:"xpGranted,omitempty"`
}

// EventSink receives progression events. Implementations must not block for
// long; they are called while the progression record is locked.
type EventSink interface {
	Publish(ctx context.Context, event ProgressionEvent)
}

// NopEventSink discards events.
type NopEventSink struct{}

// Publish discards the event.
func (NopEventSink) Publish(context.Context, ProgressionEvent) {}
