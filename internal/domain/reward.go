package domain

// LevelUpReward is the bundle surfaced when a milestone level is reached.
type LevelUpReward struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Rewards     []string `json:"rewards"`
	Level       int      `json:"level"`
}

// levelUpRewards is sparse: only milestone levels have an entry.
var levelUpRewards = map[int]LevelUpReward{
	5: {
		Level:       5,
		Title:       "Aprendiz",
		Description: "You have built a working routine.",
		Rewards:     []string{"Custom focus timer presets", "Apprentice badge"},
	},
	10: {
		Level:       10,
		Title:       "Iniciado",
		Description: "Consistency is becoming a habit.",
		Rewards:     []string{"Dashboard color themes", "Priority insights panel"},
	},
	20: {
		Level:       20,
		Title:       "Adepto",
		Description: "You plan and deliver like a professional.",
		Rewards:     []string{"Advanced statistics", "Adept badge", "Extra hyperfocus profiles"},
	},
	30: {
		Level:       30,
		Title:       "Mestre",
		Description: "Few reach this level of focus.",
		Rewards:     []string{"Master badge", "Exclusive editor theme"},
	},
	50: {
		Level:       50,
		Title:       "Lenda",
		Description: "A true legend of productivity.",
		Rewards:     []string{"Legend badge", "Hall of fame entry", "All cosmetic unlocks"},
	},
}

// LevelUpRewardFor returns the reward for exactly the given level.
func LevelUpRewardFor(level int) (LevelUpReward, bool) {
	r, ok := levelUpRewards[level]
	if !ok {
		return LevelUpReward{}, false
	}
	r.Rewards = append([]string(nil), r.Rewards...)
	return r, true
}

// NextLevelUpReward returns the first milestone reward above level.
func NextLevelUpReward(level int) (LevelUpReward, bool) {
	next := 0
	for l := range levelUpRewards {
		if l > level && (next == 0 || l < next) {
			next = l
		}
	}
	if next == 0 {
		return LevelUpReward{}, false
	}
	return LevelUpRewardFor(next)
}
