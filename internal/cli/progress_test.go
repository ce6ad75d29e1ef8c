package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusquest/focusquest/internal/domain"
)

// =============================================================================
// Status Command Tests
// =============================================================================

func TestStatusCommand_FreshRecord(t *testing.T) {
	// Setup
	env := newTestContainer(t)

	// Execute
	out, err := runCommand(t, newStatusCommand(env.c))

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Level 1 - Iniciante\n")
	assert.Contains(t, out, " 0/100 (100 to next level)")
	assert.Contains(t, out, "Streak: 0 day(s)\n")
	assert.Contains(t, out, "Tasks: 0  Subtasks: 0\n")
	assert.Contains(t, out, "Focus: 0 session(s), 0 min\n")
	assert.Contains(t, out, "Achievements: 0/17\n")
	assert.Contains(t, out, "Next reward at level 5: Aprendiz\n")
}

func TestStatusCommand_AfterCompletion(t *testing.T) {
	// Setup
	env := newTestContainer(t)
	task := env.seedTask(t, "task-1", domain.TaskDraft{
		Title: "Small task", Complexity: 3, Impact: 3, EstimatedTimeMinutes: 20,
	})
	_, err := runCommand(t, newCompleteCommand(env.c), task.ID)
	require.NoError(t, err)

	// Execute
	out, err := runCommand(t, newStatusCommand(env.c))

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Level 2 - ")
	assert.Contains(t, out, " 230/400 (170 to next level)")
	assert.Contains(t, out, "Streak: 1 day(s)\n")
	assert.Contains(t, out, "Tasks: 1  Subtasks: 0\n")
	assert.Contains(t, out, "Achievements: 1/17\n")
}

// =============================================================================
// Achievements Command Tests
// =============================================================================

func TestAchievementsCommand_FreshRecord(t *testing.T) {
	// Setup
	env := newTestContainer(t)

	// Execute
	out, err := runCommand(t, newAchievementsCommand(env.c))

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "[ ] 🎯 Primeiro Passo (+50 XP) - Complete your first task\n")
	assert.Contains(t, out, "\n0/17 unlocked\n")
	assert.NotContains(t, out, "[x]")
}

func TestAchievementsCommand_UnlockedOnly(t *testing.T) {
	// Setup
	env := newTestContainer(t)
	task := env.seedTask(t, "task-1", domain.TaskDraft{Title: "First"})
	_, err := runCommand(t, newCompleteCommand(env.c), task.ID)
	require.NoError(t, err)

	// Execute
	out, err := runCommand(t, newAchievementsCommand(env.c), "--unlocked")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "[x] 🎯 Primeiro Passo")
	assert.NotContains(t, out, "[ ]")
	assert.Contains(t, out, "1/17 unlocked")
}

// =============================================================================
// Focus Command Tests
// =============================================================================

func TestFocusCommand_RecordsSession(t *testing.T) {
	// Setup
	env := newTestContainer(t)

	// Execute
	out, err := runCommand(t, newFocusCommand(env.c), "--minutes", "45")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded 45 min of focus (total 1 session(s), 45 min)\n")
	assert.Contains(t, out, "Achievement unlocked: 🧘 Primeiro Foco (+50 XP)")

	_, ok := env.store.Value(domain.KeyFocusStats)
	assert.True(t, ok)
}

func TestFocusCommand_RequiresMinutes(t *testing.T) {
	env := newTestContainer(t)

	_, err := runCommand(t, newFocusCommand(env.c))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "minutes")
}

func TestFocusCommand_RejectsZeroMinutes(t *testing.T) {
	env := newTestContainer(t)

	_, err := runCommand(t, newFocusCommand(env.c), "--minutes", "0")

	require.ErrorIs(t, err, domain.ErrInvalidFocusDuration)
}

// =============================================================================
// Watch Command Tests
// =============================================================================

func TestWatchCommand_UnlocksPendingAchievements(t *testing.T) {
	// Setup: a record with a completed task but no achievement yet
	env := newTestContainer(t)
	p := domain.NewUserProgression()
	p.TotalTasks = 1
	data, err := json.Marshal(p)
	require.NoError(t, err)
	require.NoError(t, env.store.Update(context.Background(), domain.KeyProgression, data))

	cmd := newWatchCommand(env.c)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--interval", "10ms"})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// Execute
	err = cmd.ExecuteContext(ctx)

	// Assert
	require.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Watching achievements"))
	assert.Equal(t, 1, strings.Count(out, "Achievement unlocked: 🎯 Primeiro Passo (+50 XP)"))
	assert.False(t, env.c.Tracker.Dirty())
}

// =============================================================================
// Helper Tests
// =============================================================================

func TestPrintMetrics_SortedByName(t *testing.T) {
	var buf bytes.Buffer

	printMetrics(&buf, map[string]int64{
		"fq.xp.granted":      120,
		"fq.achievements":    2,
		"fq.tasks.completed": 3,
	})

	assert.Equal(t, "\n[Metrics]\nfq.achievements = 2\nfq.tasks.completed = 3\nfq.xp.granted = 120\n", buf.String())
}

func TestPrintMetrics_EmptySnapshot(t *testing.T) {
	var buf bytes.Buffer

	printMetrics(&buf, nil)

	assert.Empty(t, buf.String())
}
