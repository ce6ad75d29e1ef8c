package domain

// Achievement is an immutable catalog entry. Unlock is evaluated against the
// cumulative counters of a progression record only, so it is safe to re-run
// on every event.
type Achievement struct {
	Unlock      func(UserProgression) bool `json:"-"`
	ID          string                     `json:"id"`
	Title       string                     `json:"title"`
	Description string                     `json:"description"`
	Icon        string                     `json:"icon"`
	XPReward    int                        `json:"xpReward"`
}

// Achievement IDs.
const (
	AchievementFirstTask         = "first_task"
	AchievementTaskApprentice    = "task_apprentice"
	AchievementTaskMaster        = "task_master"
	AchievementTaskLegend        = "task_legend"
	AchievementPriorityKing      = "priority_king"
	AchievementSubtaskSpecialist = "subtask_specialist"
	AchievementDetailOriented    = "detail_oriented"
	AchievementFirstFocus        = "first_focus"
	AchievementFocusRegular      = "focus_regular"
	AchievementFocusMarathon     = "focus_marathon"
	AchievementDeepWorker        = "deep_worker"
	AchievementStreak3           = "streak_3"
	AchievementStreak7           = "streak_7"
	AchievementStreak30          = "streak_30"
	AchievementLevel5            = "level_5"
	AchievementLevel10           = "level_10"
	AchievementLevel20           = "level_20"
)

// achievementCatalog is the single declarative achievement table, in
// evaluation order.
var achievementCatalog = []Achievement{
	// Task milestones
	achievement(AchievementFirstTask, "Primeiro Passo", "Complete your first task", "🎯", 50, tasksAtLeast(1)),
	achievement(AchievementTaskApprentice, "Aprendiz de Tarefas", "Complete 10 tasks", "📋", 100, tasksAtLeast(10)),
	achievement(AchievementTaskMaster, "Mestre das Tarefas", "Complete 20 tasks", "🏅", 250, tasksAtLeast(20)),
	// The historical predicate chained >=5, >=10, >=20 and >=50, which
	// collapses to >=50.
	achievement(AchievementPriorityKing, "Rei das Prioridades", "Complete 50 tasks", "👑", 500, tasksAtLeast(50)),
	achievement(AchievementTaskLegend, "Lenda Produtiva", "Complete 100 tasks", "🏆", 1000, tasksAtLeast(100)),

	// Subtasks
	achievement(AchievementSubtaskSpecialist, "Especialista em Subtarefas", "Complete 25 subtasks", "🧩", 100, subtasksAtLeast(25)),
	achievement(AchievementDetailOriented, "Atento aos Detalhes", "Complete 100 subtasks", "🔍", 300, subtasksAtLeast(100)),

	// Hyperfocus
	achievement(AchievementFirstFocus, "Primeiro Foco", "Finish your first hyperfocus session", "🧘", 50, focusSessionsAtLeast(1)),
	achievement(AchievementFocusRegular, "Foco Constante", "Finish 10 hyperfocus sessions", "⏱️", 150, focusSessionsAtLeast(10)),
	achievement(AchievementFocusMarathon, "Maratona de Foco", "Accumulate 10 hours of focus time", "🏃", 200, focusMinutesAtLeast(600)),
	achievement(AchievementDeepWorker, "Trabalho Profundo", "Accumulate 50 hours of focus time", "🌊", 500, focusMinutesAtLeast(3000)),

	// Streaks
	achievement(AchievementStreak3, "Ritmo", "Complete tasks 3 days in a row", "🔥", 75, streakAtLeast(3)),
	achievement(AchievementStreak7, "Semana Perfeita", "Complete tasks 7 days in a row", "📅", 200, streakAtLeast(7)),
	achievement(AchievementStreak30, "Imparável", "Complete tasks 30 days in a row", "⚡", 1000, streakAtLeast(30)),

	// Levels
	achievement(AchievementLevel5, "Em Ascensão", "Reach level 5", "🌱", 100, levelAtLeast(5)),
	achievement(AchievementLevel10, "Veterano", "Reach level 10", "🌳", 250, levelAtLeast(10)),
	achievement(AchievementLevel20, "Sábio", "Reach level 20", "⭐", 500, levelAtLeast(20)),
}

func achievement(id, title, description, icon string, xp int, unlock func(UserProgression) bool) Achievement {
	return Achievement{ID: id, Title: title, Description: description, Icon: icon, XPReward: xp, Unlock: unlock}
}

func tasksAtLeast(n int) func(UserProgression) bool {
	return func(p UserProgression) bool { return p.TotalTasks >= n }
}

func subtasksAtLeast(n int) func(UserProgression) bool {
	return func(p UserProgression) bool { return p.TotalSubtasks >= n }
}

func focusSessionsAtLeast(n int) func(UserProgression) bool {
	return func(p UserProgression) bool { return p.TotalFocusSessions >= n }
}

func focusMinutesAtLeast(n int) func(UserProgression) bool {
	return func(p UserProgression) bool { return p.TotalFocusTimeMinutes >= n }
}

func streakAtLeast(n int) func(UserProgression) bool {
	return func(p UserProgression) bool { return p.StreakDays >= n }
}

func levelAtLeast(n int) func(UserProgression) bool {
	return func(p UserProgression) bool { return p.Level >= n }
}

// AchievementCatalog returns the catalog in evaluation order.
// The returned slice is a copy; entries themselves are immutable values.
func AchievementCatalog() []Achievement {
	out := make([]Achievement, len(achievementCatalog))
	copy(out, achievementCatalog)
	return out
}

// FindAchievement looks up an achievement by ID.
func FindAchievement(id string) (Achievement, bool) {
	for _, a := range achievementCatalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// PendingAchievements returns catalog entries not yet unlocked whose
// predicate holds for p.
func PendingAchievements(p *UserProgression) []Achievement {
	var pending []Achievement
	for _, a := range achievementCatalog {
		if p.HasAchievement(a.ID) {
			continue
		}
		if a.Unlock(*p) {
			pending = append(pending, a)
		}
	}
	return pending
}
