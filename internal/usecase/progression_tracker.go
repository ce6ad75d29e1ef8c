package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/focusquest/focusquest/internal/domain"
)

const logCategoryProgression = "progression"

// XP sources reported to metrics.
const (
	XPSourceTask        = "task"
	XPSourceAchievement = "achievement"
	XPSourceManual      = "manual"
)

// ProgressionResult is the outcome of a progression mutation.
type ProgressionResult struct {
	Progression *domain.UserProgression   // Snapshot after the mutation
	Events      []domain.ProgressionEvent // Events emitted, in order
	XPGained    int                       // Total XP granted, achievement rewards included
}

// ProgressionTrackerOptions holds the optional collaborators of a tracker.
// Zero values fall back to no-op implementations and defaults.
type ProgressionTrackerOptions struct {
	Events       domain.EventSink
	Metrics      domain.Metrics
	Logger       domain.Logger
	Clock        domain.Clock
	Location     *time.Location
	WriteTimeout time.Duration
}

// ProgressionTracker owns the single user progression record.
// Every read, mutation and write of the record happens under mu.
//
// The in-memory record is authoritative. A failed write keeps the mutation,
// marks the tracker dirty and returns domain.ErrStoreWrite. The next
// mutation or Flush persists the whole record again.
//
// A record that could not be read is never written back: the defaults used in
// its place are discarded after the call and the next call reads again.
type ProgressionTracker struct {
	store        domain.KVStore
	events       domain.EventSink
	metrics      domain.Metrics
	logger       domain.Logger
	clock        domain.Clock
	loc          *time.Location
	record       *domain.UserProgression
	readErr      error
	writeTimeout time.Duration
	mu           sync.Mutex
	dirty        bool
}

// NewProgressionTracker creates a tracker backed by store.
// It returns domain.ErrNotConfigured if store is nil.
func NewProgressionTracker(store domain.KVStore, opts ProgressionTrackerOptions) (*ProgressionTracker, error) {
	if store == nil {
		return nil, domain.ErrNotConfigured
	}
	t := &ProgressionTracker{
		store:        store,
		events:       opts.Events,
		metrics:      opts.Metrics,
		logger:       opts.Logger,
		clock:        opts.Clock,
		loc:          opts.Location,
		writeTimeout: opts.WriteTimeout,
	}
	if t.events == nil {
		t.events = domain.NopEventSink{}
	}
	if t.metrics == nil {
		t.metrics = domain.NopMetrics{}
	}
	if t.logger == nil {
		t.logger = domain.NopLogger{}
	}
	if t.clock == nil {
		t.clock = domain.RealClock{}
	}
	if t.loc == nil {
		t.loc = time.Local
	}
	if t.writeTimeout <= 0 {
		t.writeTimeout = domain.DefaultWriteTimeout
	}
	return t, nil
}

// Progression returns a snapshot of the current record.
func (t *ProgressionTracker) Progression(ctx context.Context) *domain.UserProgression {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.load(ctx)
	snapshot := t.record.Clone()
	t.discardUnread()
	return snapshot
}

// OnTaskCompleted applies a task completion: counters, streak, completion XP
// and any achievements that become unlockable.
// On domain.ErrStoreWrite the result is still returned; the mutation is kept.
func (t *ProgressionTracker) OnTaskCompleted(ctx context.Context, task *domain.Task) (*ProgressionResult, error) {
	if task == nil || !task.IsCompleted() {
		return nil, domain.ErrTaskNotCompleted
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.load(ctx)

	p := t.record
	p.TotalTasks++
	p.TotalSubtasks += len(task.Subtasks)
	p.RecordCompletionDay(t.Today())
	t.metrics.TaskCompleted(ctx, task.Priority)

	res := &ProgressionResult{}
	t.grantXP(ctx, res, domain.CompletionXP(task.Criteria.Complexity, task.Priority), XPSourceTask)
	t.evaluateAchievements(ctx, res)

	t.logger.Info(logCategoryProgression, fmt.Sprintf(
		"task %s completed: +%d XP, level %d, streak %d", task.ID, res.XPGained, p.Level, p.StreakDays))

	return t.finish(ctx, res)
}

// AddXP grants amount XP outside of a task completion.
func (t *ProgressionTracker) AddXP(ctx context.Context, amount int) (*ProgressionResult, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidXP, amount)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.load(ctx)

	res := &ProgressionResult{}
	t.grantXP(ctx, res, amount, XPSourceManual)
	t.evaluateAchievements(ctx, res)
	return t.finish(ctx, res)
}

// MergeFocusStats copies the hyperfocus counters owned by the session
// manager into the record and re-evaluates achievements.
func (t *ProgressionTracker) MergeFocusStats(ctx context.Context, stats domain.FocusStats) (*ProgressionResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.load(ctx)

	t.record.TotalFocusTimeMinutes = max(0, stats.TotalFocusTimeMinutes)
	t.record.TotalFocusSessions = max(0, stats.TotalFocusSessions)

	res := &ProgressionResult{}
	t.evaluateAchievements(ctx, res)
	return t.finish(ctx, res)
}

// RecheckAchievements evaluates every locked achievement against the current
// record. It only writes when something changed or a previous write failed.
func (t *ProgressionTracker) RecheckAchievements(ctx context.Context) (*ProgressionResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.load(ctx)

	res := &ProgressionResult{}
	t.evaluateAchievements(ctx, res)
	if len(res.Events) == 0 && !t.dirty {
		res.Progression = t.record.Clone()
		t.discardUnread()
		return res, nil
	}
	return t.finish(ctx, res)
}

// Flush persists the record if a previous write failed.
func (t *ProgressionTracker) Flush(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.record == nil || !t.dirty {
		return nil
	}
	return t.persist(ctx)
}

// Today returns the current calendar date in the tracker's location.
func (t *ProgressionTracker) Today() domain.CalendarDate {
	return domain.DateOf(t.clock.Now(), t.loc)
}

// Dirty reports whether the in-memory record has unpersisted changes.
func (t *ProgressionTracker) Dirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dirty
}

// load reads the record on first use. Absent, unreadable and invalid records
// all fall back to defaults.
func (t *ProgressionTracker) load(ctx context.Context) {
	if t.record != nil {
		return
	}
	t.record = domain.NewUserProgression()

	data, found, err := t.store.Get(ctx, domain.KeyProgression)
	if err != nil {
		t.readErr = err
		t.metrics.StoreError(ctx, "read")
		t.logger.Error(logCategoryProgression, fmt.Sprintf("%v: %v; using defaults", domain.ErrStoreRead, err))
		return
	}
	if !found {
		t.logger.Debug(logCategoryProgression, "no progression record; using defaults")
		return
	}

	var p domain.UserProgression
	if err := json.Unmarshal(data, &p); err != nil {
		t.logger.Warn(logCategoryProgression, fmt.Sprintf("%v: decode: %v; using defaults", domain.ErrInvalidRecord, err))
		return
	}
	if err := p.Validate(); err != nil {
		t.logger.Warn(logCategoryProgression, fmt.Sprintf("%v; using defaults", err))
		return
	}
	if p.Achievements == nil {
		p.Achievements = []string{}
	}
	if p.Title == "" {
		p.Title = domain.LevelTitle(p.Level)
	}
	t.record = &p
}

// grantXP applies amount and emits a levelUp event when the level rises.
func (t *ProgressionTracker) grantXP(ctx context.Context, res *ProgressionResult, amount int, source string) {
	if amount <= 0 {
		return
	}
	oldLevel, newLevel := t.record.ApplyXP(amount)
	res.XPGained += amount
	t.metrics.XPGranted(ctx, amount, source)
	if newLevel <= oldLevel {
		return
	}

	event := domain.ProgressionEvent{
		Kind:     domain.EventLevelUp,
		OldLevel: oldLevel,
		NewLevel: newLevel,
	}
	if reward, ok := domain.LevelUpRewardFor(newLevel); ok {
		event.Reward = &reward
	}
	t.metrics.LevelUp(ctx, newLevel)
	t.logger.Info(logCategoryProgression, fmt.Sprintf("level up: %d -> %d (%s)", oldLevel, newLevel, t.record.Title))
	t.emit(ctx, res, event)
}

// evaluateAchievements unlocks achievements until none are pending.
// Unlock rewards can raise the level, which can unlock more achievements.
func (t *ProgressionTracker) evaluateAchievements(ctx context.Context, res *ProgressionResult) {
	for {
		pending := domain.PendingAchievements(t.record)
		if len(pending) == 0 {
			return
		}
		for _, a := range pending {
			if !t.record.UnlockAchievement(a.ID) {
				continue
			}
			t.metrics.AchievementUnlocked(ctx, a.ID)
			t.logger.Info(logCategoryProgression, fmt.Sprintf("achievement unlocked: %s (+%d XP)", a.ID, a.XPReward))
			t.emit(ctx, res, domain.ProgressionEvent{
				Kind:          domain.EventAchievementUnlocked,
				AchievementID: a.ID,
				XPGranted:     a.XPReward,
			})
			t.grantXP(ctx, res, a.XPReward, XPSourceAchievement)
		}
	}
}

func (t *ProgressionTracker) emit(ctx context.Context, res *ProgressionResult, event domain.ProgressionEvent) {
	res.Events = append(res.Events, event)
	t.events.Publish(ctx, event)
}

// discardUnread drops a defaults record that stands in for an unreadable one.
func (t *ProgressionTracker) discardUnread() {
	if t.readErr == nil {
		return
	}
	t.record = nil
	t.readErr = nil
	t.dirty = false
}

// finish persists the record and fills in the snapshot.
func (t *ProgressionTracker) finish(ctx context.Context, res *ProgressionResult) (*ProgressionResult, error) {
	if t.readErr != nil {
		err := fmt.Errorf("%w: %s: stored record left untouched: %w", domain.ErrStoreRead, domain.KeyProgression, t.readErr)
		res.Progression = t.record.Clone()
		t.discardUnread()
		return res, err
	}
	t.dirty = true
	err := t.persist(ctx)
	res.Progression = t.record.Clone()
	return res, err
}

// persist writes the whole record with the configured write timeout.
func (t *ProgressionTracker) persist(ctx context.Context) error {
	data, err := json.Marshal(t.record)
	if err != nil {
		return fmt.Errorf("encode progression: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, t.writeTimeout)
	defer cancel()

	if err := t.store.Update(writeCtx, domain.KeyProgression, data); err != nil {
		t.dirty = true
		t.metrics.StoreError(ctx, "write")
		t.logger.Error(logCategoryProgression, fmt.Sprintf("persist progression: %v", err))
		return fmt.Errorf("%w: %s: %w", domain.ErrStoreWrite, domain.KeyProgression, err)
	}
	t.dirty = false
	return nil
}
