package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slemo54/LifeQuests/internal/config"
	"github.com/slemo54/LifeQuests/internal/habit"
)

func TestApplyAwardBaseYield(t *testing.T) {
	b := config.Default()
	s := Default(b)

	s, res := ApplyAward(s, b, habit.DifficultyMedium, 1)

	assert.Equal(t, 25, res.XPGained)
	assert.Equal(t, 15, res.GoldGained)
	assert.Equal(t, 25, s.XP)
	assert.Equal(t, 15, s.Gold)
	assert.False(t, res.LeveledUp)
	assert.Nil(t, res.Milestone)
}

func TestApplyAwardSingleLevelUp(t *testing.T) {
	// Scenario E: xp 90/100, Hard habit (+50) => level 2, xp 40, next 150, full heal.
	b := config.Default()
	s := Default(b)
	s.XP = 90
	s.HP = 30

	s, res := ApplyAward(s, b, habit.DifficultyHard, 1)

	assert.True(t, res.LeveledUp)
	assert.Equal(t, 1, res.LevelsGained)
	assert.Equal(t, 2, s.Level)
	assert.Equal(t, 40, s.XP)
	assert.Equal(t, 150, s.NextLevelXP)
	assert.Equal(t, s.MaxHP, s.HP, "level-up restores hp")
}

func TestApplyAwardMultiLevelJump(t *testing.T) {
	b := config.Default()
	b.XPHard = 500 // force a jump over several thresholds
	s := Default(b)

	s, res := ApplyAward(s, b, habit.DifficultyHard, 1)

	// 500 xp: level 1->2 consumes 100 (400 left), 2->3 consumes 150 (250 left),
	// 3->4 consumes 225 (25 left), next threshold 337.
	assert.Equal(t, 3, res.LevelsGained)
	assert.Equal(t, 4, s.Level)
	assert.Equal(t, 25, s.XP)
	assert.Equal(t, 337, s.NextLevelXP)
	assert.Less(t, s.XP, s.NextLevelXP)
}

func TestApplyAwardClassEvolution(t *testing.T) {
	b := config.Default()
	s := Default(b)
	s.Level = 2
	s.XP = 99
	s.ClassTitle = b.ClassTitleFor(2)

	s, res := ApplyAward(s, b, habit.DifficultyEasy, 1)

	require.True(t, res.LeveledUp)
	assert.Equal(t, 3, s.Level)
	assert.Equal(t, "Squire", s.ClassTitle)
	assert.Equal(t, "Squire", res.NewClass)
}

func TestApplyAwardMilestones(t *testing.T) {
	b := config.Default()

	cases := []struct {
		streak   int
		wantGold int
		wantXP   int
		hit      bool
	}{
		{6, 5, 10, false},
		{7, 5 + 50, 10, true},
		{8, 5, 10, false},
		{13, 5, 10, false},
		{14, 5 + 150, 10, true},
		{15, 5, 10, false},
		{29, 5, 10, false},
		{30, 5 + 500, 10 + 200, true},
		{31, 5, 10, false},
	}

	for _, c := range cases {
		s := UserStats{Level: 1, NextLevelXP: 1 << 30, MaxHP: 100, HP: 100}
		out, res := ApplyAward(s, b, habit.DifficultyEasy, c.streak)
		assert.Equal(t, c.wantGold, out.Gold, "streak %d gold", c.streak)
		assert.Equal(t, c.wantXP, out.XP, "streak %d xp", c.streak)
		assert.Equal(t, c.hit, res.Milestone != nil, "streak %d milestone", c.streak)
	}
}

func TestMilestoneRetriggersAfterReset(t *testing.T) {
	// Milestones key on the streak value at completion time, not lifetime
	// progress: climbing back to 7 pays out again.
	b := config.Default()
	s := UserStats{Level: 1, NextLevelXP: 1 << 30, MaxHP: 100, HP: 100}

	s, first := ApplyAward(s, b, habit.DifficultyEasy, 7)
	require.NotNil(t, first.Milestone)

	s, second := ApplyAward(s, b, habit.DifficultyEasy, 7)
	require.NotNil(t, second.Milestone)
	assert.Equal(t, first.Milestone.Gold, second.Milestone.Gold)
}

func TestXPNormalizedAfterAnyAward(t *testing.T) {
	b := config.Default()
	s := Default(b)

	for i := 0; i < 200; i++ {
		var res AwardResult
		before := s.NextLevelXP
		s, res = ApplyAward(s, b, habit.DifficultyHard, i+1)
		require.Less(t, s.XP, s.NextLevelXP, "iteration %d", i)
		if res.LevelsGained > 0 {
			require.Greater(t, s.NextLevelXP, before, "threshold must strictly increase")
		}
	}
}

func TestApplyUndoClampsAtZero(t *testing.T) {
	b := config.Default()
	s := Default(b)
	s.XP = 5
	s.Gold = 3
	s.Level = 4

	s = ApplyUndo(s, b, habit.DifficultyHard)

	assert.Equal(t, 0, s.XP)
	assert.Equal(t, 0, s.Gold)
	assert.Equal(t, 4, s.Level, "undo never reverses levels")
}

func TestRegenCapsAtMax(t *testing.T) {
	b := config.Default()
	s := Default(b)
	s.HP = 85

	s = Regen(s, b)
	assert.Equal(t, 95, s.HP)

	s = Regen(s, b)
	assert.Equal(t, 100, s.HP)
}

func TestNormalizeRepairsBrokenRecord(t *testing.T) {
	b := config.Default()

	s := Normalize(UserStats{Name: " ", Level: 0, XP: -4, NextLevelXP: 0, Gold: -1, HP: 500, MaxHP: 0}, b)

	assert.Equal(t, "Hero", s.Name)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 0, s.XP)
	assert.Equal(t, b.StartingNextLevelXP, s.NextLevelXP)
	assert.Equal(t, 0, s.Gold)
	assert.Equal(t, b.MaxHP, s.MaxHP)
	assert.Equal(t, s.MaxHP, s.HP)
	assert.Equal(t, "Novice Adventurer", s.ClassTitle)
}
