package stats

import (
	"math"
	"strings"

	"github.com/slemo54/LifeQuests/internal/config"
	"github.com/slemo54/LifeQuests/internal/habit"
)

// UserStats is the account-wide progression state.
type UserStats struct {
	Name        string `json:"name"`
	ClassTitle  string `json:"classTitle"`
	Level       int    `json:"level"`
	XP          int    `json:"xp"`
	NextLevelXP int    `json:"nextLevelXp"`
	Gold        int    `json:"gold"`
	HP          int    `json:"hp"`
	MaxHP       int    `json:"maxHp"`
}

// Default returns a fresh account.
func Default(b config.Balance) UserStats {
	return UserStats{
		Name:        "Hero",
		ClassTitle:  b.ClassTitleFor(1),
		Level:       1,
		XP:          0,
		NextLevelXP: b.StartingNextLevelXP,
		Gold:        0,
		HP:          b.MaxHP,
		MaxHP:       b.MaxHP,
	}
}

// Normalize repairs a loaded stats record so downstream invariants hold.
func Normalize(s UserStats, b config.Balance) UserStats {
	if strings.TrimSpace(s.Name) == "" {
		s.Name = "Hero"
	}
	if s.Level < 1 {
		s.Level = 1
	}
	if s.NextLevelXP <= 0 {
		s.NextLevelXP = b.StartingNextLevelXP
	}
	if s.MaxHP <= 0 {
		s.MaxHP = b.MaxHP
	}
	if s.HP < 0 {
		s.HP = 0
	}
	if s.HP > s.MaxHP {
		s.HP = s.MaxHP
	}
	if s.Gold < 0 {
		s.Gold = 0
	}
	if s.XP < 0 {
		s.XP = 0
	}
	if s.ClassTitle == "" {
		s.ClassTitle = b.ClassTitleFor(s.Level)
	}
	return s
}

// XPFor returns the experience yield for one completion.
func XPFor(b config.Balance, d habit.Difficulty) int {
	switch d {
	case habit.DifficultyHard:
		return b.XPHard
	case habit.DifficultyMedium:
		return b.XPMedium
	default:
		return b.XPEasy
	}
}

// GoldFor returns the currency yield for one completion.
func GoldFor(b config.Balance, d habit.Difficulty) int {
	switch d {
	case habit.DifficultyHard:
		return b.GoldHard
	case habit.DifficultyMedium:
		return b.GoldMedium
	default:
		return b.GoldEasy
	}
}

// AwardResult describes everything a completion did to the account.
type AwardResult struct {
	XPGained     int               `json:"xpGained"`
	GoldGained   int               `json:"goldGained"`
	Milestone    *config.Milestone `json:"milestone,omitempty"`
	LevelsGained int               `json:"levelsGained"`
	LeveledUp    bool              `json:"leveledUp"`
	NewClass     string            `json:"newClass,omitempty"`
}

// ApplyAward credits one habit completion: base yield for the difficulty,
// any milestone bonus keyed to the exact new streak value, then level-up
// normalization. Returns the updated stats; the input is not mutated.
func ApplyAward(s UserStats, b config.Balance, d habit.Difficulty, newStreak int) (UserStats, AwardResult) {
	res := AwardResult{
		XPGained:   XPFor(b, d),
		GoldGained: GoldFor(b, d),
	}

	s.XP += res.XPGained
	s.Gold += res.GoldGained

	if m := b.MilestoneFor(newStreak); m != nil {
		s.Gold += m.Gold
		s.XP += m.XP
		res.Milestone = m
	}

	// Large awards can cross several thresholds; loop, don't branch once.
	for s.XP >= s.NextLevelXP {
		s.XP -= s.NextLevelXP
		s.Level++
		s.NextLevelXP = int(math.Floor(float64(s.NextLevelXP) * b.LevelGrowth))
		res.LevelsGained++
	}

	if res.LevelsGained > 0 {
		res.LeveledUp = true
		s.HP = s.MaxHP
		if title := b.ClassTitleFor(s.Level); title != "" && title != s.ClassTitle {
			s.ClassTitle = title
			res.NewClass = title
		}
	}

	return s, res
}

// ApplyUndo debits one completion's yield, clamped at zero. Level-ups and
// class evolution already granted are not reversed. The amounts come from
// the habit's current difficulty, so an upgrade between completion and undo
// shifts the refund; completions are undoable same-day only, which keeps the
// window for that drift small.
func ApplyUndo(s UserStats, b config.Balance, d habit.Difficulty) UserStats {
	s.XP -= XPFor(b, d)
	if s.XP < 0 {
		s.XP = 0
	}
	s.Gold -= GoldFor(b, d)
	if s.Gold < 0 {
		s.Gold = 0
	}
	return s
}

// Regen applies the once-per-day health recovery.
func Regen(s UserStats, b config.Balance) UserStats {
	s.HP += b.HPRegenDaily
	if s.HP > s.MaxHP {
		s.HP = s.MaxHP
	}
	return s
}
