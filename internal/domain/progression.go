package domain

import (
	"fmt"
	"math"
	"slices"
)

// Level titles.
const (
	TitleBeginner   = "Iniciante"
	TitleApprentice = "Aprendiz"
	TitleInitiate   = "Iniciado"
	TitleAdept      = "Adepto"
	TitleMaster     = "Mestre"
)

// UserProgression is the single gamification record of a user.
// It is owned by the progression tracker; everything else reads copies.
// Fields are ordered to minimize memory padding.
type UserProgression struct {
	LastTaskCompletionDate *CalendarDate `json:"lastTaskCompletionDate"`
	Title                  string        `json:"title"`
	Achievements           []string      `json:"achievements"`
	Level                  int           `json:"level"`
	XPPoints               int           `json:"xpPoints"`
	XPForNextLevel         int           `json:"xpForNextLevel"`
	TotalTasks             int           `json:"totalTasks"`
	TotalSubtasks          int           `json:"totalSubtasks"`
	TotalFocusTimeMinutes  int           `json:"totalFocusTimeMinutes"`
	TotalFocusSessions     int           `json:"totalFocusSessions"`
	StreakDays             int           `json:"streakDays"`
}

// NewUserProgression returns the record used on first run.
func NewUserProgression() *UserProgression {
	return &UserProgression{
		Level:          1,
		Title:          LevelTitle(1),
		XPForNextLevel: XPForNextLevel(1),
		Achievements:   []string{},
	}
}

// LevelForXP returns floor(sqrt(xp/100)) + 1.
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	level := int(math.Floor(math.Sqrt(float64(xp)/100))) + 1
	// guard against float error right at perfect squares
	for (level)*(level)*100 <= xp {
		level++
	}
	for level > 1 && (level-1)*(level-1)*100 > xp {
		level--
	}
	return level
}

// XPForNextLevel returns level² × 100.
func XPForNextLevel(level int) int {
	return level * level * 100
}

// LevelTitle returns the title for a level.
func LevelTitle(level int) string {
	switch {
	case level >= 30:
		return TitleMaster
	case level >= 20:
		return TitleAdept
	case level >= 10:
		return TitleInitiate
	case level >= 5:
		return TitleApprentice
	default:
		return TitleBeginner
	}
}

// Clone returns a deep copy.
func (p *UserProgression) Clone() *UserProgression {
	c := *p
	c.Achievements = slices.Clone(p.Achievements)
	if p.LastTaskCompletionDate != nil {
		d := *p.LastTaskCompletionDate
		c.LastTaskCompletionDate = &d
	}
	return &c
}

// HasAchievement returns true if the achievement is unlocked.
func (p *UserProgression) HasAchievement(id string) bool {
	return slices.Contains(p.Achievements, id)
}

// UnlockAchievement adds id to the unlocked set. Returns false if it was
// already present.
func (p *UserProgression) UnlockAchievement(id string) bool {
	if p.HasAchievement(id) {
		return false
	}
	p.Achievements = append(p.Achievements, id)
	return true
}

// ApplyXP adds amount and recomputes the level. The level never decreases.
// It returns the previous and new level; they differ only on a level-up.
func (p *UserProgression) ApplyXP(amount int) (oldLevel, newLevel int) {
	oldLevel = p.Level
	p.XPPoints += max(0, amount)
	next := LevelForXP(p.XPPoints)
	if next > p.Level {
		p.Level = next
		p.Title = LevelTitle(next)
		p.XPForNextLevel = XPForNextLevel(next)
	}
	return oldLevel, p.Level
}

// RecordCompletionDay updates the streak for a completion on today.
// Same day keeps the streak, the day after the last completion extends it,
// anything else starts a new streak of one.
func (p *UserProgression) RecordCompletionDay(today CalendarDate) {
	switch {
	case p.LastTaskCompletionDate != nil && p.LastTaskCompletionDate.Equal(today):
	case p.LastTaskCompletionDate != nil && p.LastTaskCompletionDate.Equal(today.AddDays(-1)):
		p.StreakDays++
	default:
		p.StreakDays = 1
	}
	d := today
	p.LastTaskCompletionDate = &d
}

// CurrentStreak returns the streak as seen on today: the stored streak if the
// last completion was today or yesterday, otherwise 0.
func (p *UserProgression) CurrentStreak(today CalendarDate) int {
	if p.LastTaskCompletionDate == nil {
		return 0
	}
	if days := today.DaysSince(*p.LastTaskCompletionDate); days <= 1 {
		return p.StreakDays
	}
	return 0
}

// XPToNextLevel returns the XP still needed to reach the next level.
func (p *UserProgression) XPToNextLevel() int {
	return max(0, p.XPForNextLevel-p.XPPoints)
}

// Validate checks the record invariants. A record that fails validation is
// never partially trusted.
func (p *UserProgression) Validate() error {
	switch {
	case p.Level < 1:
		return fmt.Errorf("%w: level %d < 1", ErrInvalidRecord, p.Level)
	case p.XPPoints < 0:
		return fmt.Errorf("%w: negative xp %d", ErrInvalidRecord, p.XPPoints)
	case p.XPForNextLevel != XPForNextLevel(p.Level):
		return fmt.Errorf("%w: xpForNextLevel %d does not match level %d", ErrInvalidRecord, p.XPForNextLevel, p.Level)
	case p.StreakDays < 0:
		return fmt.Errorf("%w: negative streak %d", ErrInvalidRecord, p.StreakDays)
	case p.TotalTasks < 0 || p.TotalSubtasks < 0 || p.TotalFocusTimeMinutes < 0 || p.TotalFocusSessions < 0:
		return fmt.Errorf("%w: negative counter", ErrInvalidRecord)
	}
	return nil
}
