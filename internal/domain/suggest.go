package domain

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"time"
)

// Similarity bounds for history matching.
const (
	similarRatingDelta  = 1
	similarTimeDelta    = 30
	highConfidenceLevel = 0.7
	highRating          = 4
	urgentWindow        = 48 * time.Hour
)

// Suggestion fallback values.
const (
	DefaultSuggestionConfidence = 0.5
	ReasonInsufficientHistory   = "insufficient history: no similar completed tasks"
	ReasonFallback              = "based on general completion patterns"
)

// Suggestion is a recommended priority for a draft task.
type Suggestion struct {
	SuggestedPriority Priority `json:"suggestedPriority"`
	Reasons           []string `json:"reasons"`
	Confidence        float64  `json:"confidence"`
}

// priorityGroup aggregates similar history entries that share a priority.
type priorityGroup struct {
	priority   Priority
	count      int
	complexity float64
	impact     float64
	time       float64
	confidence float64
}

// SuggestPriority recommends a priority for criteria based on similar entries
// in history. A history entry is similar when complexity and impact differ by
// at most one and the estimated time by at most 30 minutes.
func SuggestPriority(history []TaskHistoryEntry, c PriorityCriteria, now time.Time) Suggestion {
	groups := groupSimilar(history, c)
	if len(groups) == 0 {
		return Suggestion{
			SuggestedPriority: PriorityMedium,
			Confidence:        DefaultSuggestionConfidence,
			Reasons:           []string{ReasonInsufficientHistory},
		}
	}

	var best *priorityGroup
	total := 0.0
	for _, g := range groups {
		g.confidence = groupConfidence(g, c)
		total += g.confidence
		// groups are in severity order, so ties keep the more severe priority
		if best == nil || g.count > best.count {
			best = g
		}
	}

	reasons := make([]string, 0, len(groups)+3)
	for _, g := range groups {
		if g.confidence > highConfidenceLevel {
			reasons = append(reasons, fmt.Sprintf(
				"%d similar task(s) with complexity ~%.1f and impact ~%.1f were %s",
				g.count, g.complexity, g.impact, g.priority))
		}
	}
	if c.Complexity >= highRating {
		reasons = append(reasons, "high complexity")
	}
	if c.Impact >= highRating {
		reasons = append(reasons, "high impact")
	}
	if c.DeadlineWithin(now, urgentWindow) {
		reasons = append(reasons, "deadline urgency: due within 2 days")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, ReasonFallback)
	}

	return Suggestion{
		SuggestedPriority: best.priority,
		Confidence:        clamp01(total / float64(len(groups))),
		Reasons:           reasons,
	}
}

// UrgentTasks returns tasks that are URGENT, or due within two days with
// impact of at least 4. Input order is preserved.
func UrgentTasks(tasks []*Task, now time.Time) []*Task {
	var urgent []*Task
	for _, t := range tasks {
		if t.Priority == PriorityUrgent ||
			(t.Criteria.DeadlineWithin(now, urgentWindow) && t.Criteria.Impact >= highRating) {
			urgent = append(urgent, t)
		}
	}
	return urgent
}

// IsSimilar reports whether a history entry matches the criteria.
func IsSimilar(e TaskHistoryEntry, c PriorityCriteria) bool {
	return absInt(e.Criteria.Complexity-c.Complexity) <= similarRatingDelta &&
		absInt(e.Criteria.Impact-c.Impact) <= similarRatingDelta &&
		absInt(e.Criteria.EstimatedTimeMinutes-c.EstimatedTimeMinutes) <= similarTimeDelta
}

// groupSimilar returns averaged groups of similar entries in severity order.
func groupSimilar(history []TaskHistoryEntry, c PriorityCriteria) []*priorityGroup {
	byPriority := make(map[Priority]*priorityGroup)
	for _, e := range history {
		if !IsSimilar(e, c) {
			continue
		}
		g, ok := byPriority[e.Priority]
		if !ok {
			g = &priorityGroup{priority: e.Priority}
			byPriority[e.Priority] = g
		}
		g.count++
		g.complexity += float64(e.Criteria.Complexity)
		g.impact += float64(e.Criteria.Impact)
		g.time += float64(e.Criteria.EstimatedTimeMinutes)
	}

	groups := make([]*priorityGroup, 0, len(byPriority))
	for _, p := range AllPriorities() {
		if g, ok := byPriority[p]; ok {
			groups = append(groups, g)
			delete(byPriority, p)
		}
	}
	// entries with unknown priorities are still counted, after the known ones
	for _, p := range slices.Sorted(maps.Keys(byPriority)) {
		groups = append(groups, byPriority[p])
	}
	for _, g := range groups {
		n := float64(g.count)
		g.complexity /= n
		g.impact /= n
		g.time /= n
	}
	return groups
}

func groupConfidence(g *priorityGroup, c PriorityCriteria) float64 {
	complexityMatch := 1 - math.Abs(g.complexity-float64(c.Complexity))/5
	impactMatch := 1 - math.Abs(g.impact-float64(c.Impact))/5
	return clamp01((complexityMatch + impactMatch + timeMatch(g.time, c.EstimatedTimeMinutes)) / 3)
}

// timeMatch is 1 - |avg - est| / (2*est), which goes negative when avg is far
// above est. A zero estimate only matches a zero average.
func timeMatch(avg float64, estimated int) float64 {
	if estimated == 0 {
		if avg == 0 {
			return 1
		}
		return 0
	}
	est := float64(estimated)
	return 1 - math.Abs(avg-est)/(2*est)
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
