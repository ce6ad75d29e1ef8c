package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{-5, 1},
		{0, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{899, 3},
		{900, 4},
		{2500, 6},
		{10000, 11},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForXP(tt.xp), "xp=%d", tt.xp)
	}
}

func TestLevelTitle(t *testing.T) {
	assert.Equal(t, TitleBeginner, LevelTitle(1))
	assert.Equal(t, TitleBeginner, LevelTitle(4))
	assert.Equal(t, TitleApprentice, LevelTitle(5))
	assert.Equal(t, TitleInitiate, LevelTitle(10))
	assert.Equal(t, TitleAdept, LevelTitle(20))
	assert.Equal(t, TitleMaster, LevelTitle(30))
	assert.Equal(t, TitleMaster, LevelTitle(99))
}

func TestNewUserProgression(t *testing.T) {
	p := NewUserProgression()

	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 100, p.XPForNextLevel)
	assert.Equal(t, TitleBeginner, p.Title)
	assert.NotNil(t, p.Achievements)
	assert.Nil(t, p.LastTaskCompletionDate)
	require.NoError(t, p.Validate())
}

func TestApplyXP(t *testing.T) {
	p := NewUserProgression()

	oldLevel, newLevel := p.ApplyXP(100)
	assert.Equal(t, 1, oldLevel)
	assert.Equal(t, 2, newLevel)
	assert.Equal(t, 400, p.XPForNextLevel)
	assert.Equal(t, 300, p.XPToNextLevel())

	oldLevel, newLevel = p.ApplyXP(50)
	assert.Equal(t, oldLevel, newLevel)
	assert.Equal(t, 150, p.XPPoints)

	_, newLevel = p.ApplyXP(1450)
	assert.Equal(t, 5, newLevel)
	assert.Equal(t, TitleApprentice, p.Title)
	require.NoError(t, p.Validate())
}

func TestApplyXP_NegativeIgnored(t *testing.T) {
	p := NewUserProgression()
	p.ApplyXP(500)

	oldLevel, newLevel := p.ApplyXP(-400)

	assert.Equal(t, oldLevel, newLevel)
	assert.Equal(t, 500, p.XPPoints)
}

func TestRecordCompletionDay(t *testing.T) {
	today := CalendarDate{2025, time.March, 10}

	tests := []struct {
		name       string
		last       *CalendarDate
		streak     int
		wantStreak int
	}{
		{"first completion", nil, 0, 1},
		{"same day", &today, 4, 4},
		{"yesterday", &CalendarDate{2025, time.March, 9}, 4, 5},
		{"gap", &CalendarDate{2025, time.March, 7}, 4, 1},
		{"future date resets", &CalendarDate{2025, time.March, 12}, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewUserProgression()
			p.LastTaskCompletionDate = tt.last
			p.StreakDays = tt.streak

			p.RecordCompletionDay(today)

			assert.Equal(t, tt.wantStreak, p.StreakDays)
			require.NotNil(t, p.LastTaskCompletionDate)
			assert.Equal(t, today, *p.LastTaskCompletionDate)
		})
	}
}

func TestRecordCompletionDay_AcrossMonthBoundary(t *testing.T) {
	p := NewUserProgression()
	p.RecordCompletionDay(CalendarDate{2025, time.February, 28})
	p.RecordCompletionDay(CalendarDate{2025, time.March, 1})

	assert.Equal(t, 2, p.StreakDays)
}

func TestCurrentStreak(t *testing.T) {
	today := CalendarDate{2025, time.March, 10}
	p := NewUserProgression()
	assert.Equal(t, 0, p.CurrentStreak(today))

	p.RecordCompletionDay(CalendarDate{2025, time.March, 8})
	p.RecordCompletionDay(CalendarDate{2025, time.March, 9})
	assert.Equal(t, 2, p.CurrentStreak(today))
	assert.Equal(t, 0, p.CurrentStreak(today.AddDays(1)))
}

func TestUserProgression_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *UserProgression)
	}{
		{"level zero", func(p *UserProgression) { p.Level = 0 }},
		{"negative xp", func(p *UserProgression) { p.XPPoints = -1 }},
		{"threshold mismatch", func(p *UserProgression) { p.XPForNextLevel = 150 }},
		{"negative streak", func(p *UserProgression) { p.StreakDays = -1 }},
		{"negative counter", func(p *UserProgression) { p.TotalSubtasks = -3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewUserProgression()
			tt.mutate(p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidRecord)
		})
	}
}

func TestUserProgression_Clone(t *testing.T) {
	p := NewUserProgression()
	p.UnlockAchievement(AchievementFirstTask)
	p.RecordCompletionDay(CalendarDate{2025, time.March, 10})

	c := p.Clone()
	c.Achievements[0] = "changed"
	c.LastTaskCompletionDate.Day = 1

	assert.Equal(t, AchievementFirstTask, p.Achievements[0])
	assert.Equal(t, 10, p.LastTaskCompletionDate.Day)
}
