package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyEntry(p Priority, complexity, impact, minutes int) TaskHistoryEntry {
	return TaskHistoryEntry{
		TaskID:      string(p),
		Priority:    p,
		Criteria:    NewPriorityCriteria(complexity, impact, minutes, nil, nil),
		CompletedAt: testNow,
	}
}

func TestSuggestPriority_EmptyHistory(t *testing.T) {
	got := SuggestPriority(nil, NewPriorityCriteria(3, 3, 60, nil, nil), testNow)

	assert.Equal(t, PriorityMedium, got.SuggestedPriority)
	assert.InDelta(t, 0.5, got.Confidence, 1e-9)
	assert.Equal(t, []string{ReasonInsufficientHistory}, got.Reasons)
}

func TestSuggestPriority_NoSimilarEntries(t *testing.T) {
	history := []TaskHistoryEntry{
		historyEntry(PriorityUrgent, 5, 5, 60), // complexity too far
		historyEntry(PriorityUrgent, 3, 1, 60), // impact too far
		historyEntry(PriorityUrgent, 3, 3, 91), // time too far
	}
	got := SuggestPriority(history, NewPriorityCriteria(3, 3, 60, nil, nil), testNow)

	assert.Equal(t, PriorityMedium, got.SuggestedPriority)
	assert.InDelta(t, 0.5, got.Confidence, 1e-9)
}

func TestSuggestPriority_ExactMatches(t *testing.T) {
	history := []TaskHistoryEntry{
		historyEntry(PriorityHigh, 3, 3, 60),
		historyEntry(PriorityHigh, 3, 3, 60),
	}
	got := SuggestPriority(history, NewPriorityCriteria(3, 3, 60, nil, nil), testNow)

	assert.Equal(t, PriorityHigh, got.SuggestedPriority)
	assert.InDelta(t, 1.0, got.Confidence, 1e-9)
	require.Len(t, got.Reasons, 1)
	assert.Contains(t, got.Reasons[0], "2 similar task(s)")
	assert.Contains(t, got.Reasons[0], "HIGH")
}

func TestSuggestPriority_MostFrequentGroupWins(t *testing.T) {
	history := []TaskHistoryEntry{
		historyEntry(PriorityHigh, 3, 3, 60),
		historyEntry(PriorityLow, 2, 2, 30),
		historyEntry(PriorityLow, 2, 2, 30),
	}
	c := NewPriorityCriteria(3, 3, 60, nil, nil)
	got := SuggestPriority(history, c, testNow)

	assert.Equal(t, PriorityLow, got.SuggestedPriority)

	// HIGH group: perfect match (1.0).
	// LOW group: complexity 0.8, impact 0.8, time 1 - 30/120 = 0.75 -> 0.78333.
	// Overall is the mean across both groups.
	want := (1.0 + (0.8+0.8+0.75)/3) / 2
	assert.InDelta(t, want, got.Confidence, 1e-9)
	assert.Len(t, got.Reasons, 2)
}

func TestSuggestPriority_TieKeepsMoreSeverePriority(t *testing.T) {
	history := []TaskHistoryEntry{
		historyEntry(PriorityLow, 3, 3, 60),
		historyEntry(PriorityUrgent, 3, 3, 60),
	}
	got := SuggestPriority(history, NewPriorityCriteria(3, 3, 60, nil, nil), testNow)
	assert.Equal(t, PriorityUrgent, got.SuggestedPriority)
}

func TestSuggestPriority_Reasons(t *testing.T) {
	deadline := testNow.Add(36 * time.Hour)
	history := []TaskHistoryEntry{historyEntry(PriorityUrgent, 5, 5, 60)}

	got := SuggestPriority(history, NewPriorityCriteria(4, 4, 60, nil, &deadline), testNow)

	assert.Equal(t, PriorityUrgent, got.SuggestedPriority)
	assert.Contains(t, got.Reasons, "high complexity")
	assert.Contains(t, got.Reasons, "high impact")
	assert.Contains(t, got.Reasons, "deadline urgency: due within 2 days")
}

func TestSuggestPriority_FallbackReason(t *testing.T) {
	// A single similar entry far enough away to stay under 0.7 confidence.
	history := []TaskHistoryEntry{historyEntry(PriorityLow, 2, 2, 40)}

	got := SuggestPriority(history, NewPriorityCriteria(3, 3, 10, nil, nil), testNow)

	// complexity 0.8, impact 0.8, time 1 - 30/20 = -0.5
	assert.InDelta(t, (0.8+0.8-0.5)/3, got.Confidence, 1e-9)
	assert.Equal(t, PriorityLow, got.SuggestedPriority)
	assert.Equal(t, []string{ReasonFallback}, got.Reasons)
}

func TestSuggestPriority_NegativeTimeMatchLowersConfidence(t *testing.T) {
	history := []TaskHistoryEntry{historyEntry(PriorityMedium, 3, 3, 40)}

	got := SuggestPriority(history, NewPriorityCriteria(3, 3, 10, nil, nil), testNow)

	// complexity 1, impact 1, time 1 - 30/20 = -0.5
	assert.InDelta(t, 0.5, got.Confidence, 1e-9)
	assert.Equal(t, PriorityMedium, got.SuggestedPriority)
}

func TestSuggestPriority_ZeroEstimate(t *testing.T) {
	history := []TaskHistoryEntry{historyEntry(PriorityMedium, 3, 3, 0)}

	got := SuggestPriority(history, NewPriorityCriteria(3, 3, 0, nil, nil), testNow)

	assert.Equal(t, PriorityMedium, got.SuggestedPriority)
	assert.InDelta(t, 1.0, got.Confidence, 1e-9)
}

func TestSuggestPriority_ConfidenceBounded(t *testing.T) {
	history := []TaskHistoryEntry{historyEntry(PriorityLow, 4, 4, 30)}

	got := SuggestPriority(history, NewPriorityCriteria(5, 5, 1, nil, nil), testNow)

	// time 1 - 29/2 pulls the mean below zero
	assert.Zero(t, got.Confidence)
}

func TestUrgentTasks(t *testing.T) {
	farAway := testNow.Add(60 * 24 * time.Hour)
	inFiveDays := testNow.Add(5 * 24 * time.Hour)
	tomorrow := testNow.Add(24 * time.Hour)

	urgentFar := &Task{ID: "urgent-far", Priority: PriorityUrgent, Criteria: NewPriorityCriteria(5, 5, 30, nil, &farAway)}
	highFiveDays := &Task{ID: "high-5d", Priority: PriorityHigh, Criteria: NewPriorityCriteria(4, 3, 30, nil, &inFiveDays)}
	highTomorrowImpact := &Task{ID: "high-tomorrow", Priority: PriorityHigh, Criteria: NewPriorityCriteria(2, 4, 30, nil, &tomorrow)}
	lowTomorrowLowImpact := &Task{ID: "low-tomorrow", Priority: PriorityLow, Criteria: NewPriorityCriteria(1, 3, 30, nil, &tomorrow)}
	noDeadline := &Task{ID: "none", Priority: PriorityMedium, Criteria: NewPriorityCriteria(3, 5, 30, nil, nil)}

	got := UrgentTasks([]*Task{urgentFar, highFiveDays, highTomorrowImpact, lowTomorrowLowImpact, noDeadline}, testNow)

	assert.Equal(t, []string{"urgent-far", "high-tomorrow"}, taskIDs(got))
}
