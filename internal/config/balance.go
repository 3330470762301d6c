package config

// Balance holds gameplay balance configuration. Values are tuned so that a
// daily Easy habit levels a fresh account in roughly ten days.
type Balance struct {
	// Reward yield per completion, by habit difficulty.
	XPEasy   int `yaml:"xp_easy" json:"xp_easy"`
	XPMedium int `yaml:"xp_medium" json:"xp_medium"`
	XPHard   int `yaml:"xp_hard" json:"xp_hard"`

	GoldEasy   int `yaml:"gold_easy" json:"gold_easy"`
	GoldMedium int `yaml:"gold_medium" json:"gold_medium"`
	GoldHard   int `yaml:"gold_hard" json:"gold_hard"`

	// Level curve
	StartingNextLevelXP int     `yaml:"starting_next_level_xp" json:"starting_next_level_xp"`
	LevelGrowth         float64 `yaml:"level_growth" json:"level_growth"`

	// Health
	MaxHP       int `yaml:"max_hp" json:"max_hp"`
	HPRegenDaily int `yaml:"hp_regen_daily" json:"hp_regen_daily"`

	// Streak shield
	ShieldCooldownDays int `yaml:"shield_cooldown_days" json:"shield_cooldown_days"`

	// Milestone bonuses keyed to exact streak values.
	Milestones []Milestone `yaml:"milestones" json:"milestones"`

	// Difficulty escalation suggestion (Easy habits only).
	EscalationMinStreak int `yaml:"escalation_min_streak" json:"escalation_min_streak"`
	EscalationInterval  int `yaml:"escalation_interval" json:"escalation_interval"`

	// Class ladder, ascending by level threshold.
	ClassTiers []ClassTier `yaml:"class_tiers" json:"class_tiers"`
}

type Milestone struct {
	Streak int    `yaml:"streak" json:"streak"`
	Gold   int    `yaml:"gold" json:"gold"`
	XP     int    `yaml:"xp" json:"xp"`
	Title  string `yaml:"title" json:"title"`
}

type ClassTier struct {
	Level int    `yaml:"level" json:"level"`
	Title string `yaml:"title" json:"title"`
}

// Default returns the default balance configuration.
func Default() Balance {
	return Balance{
		XPEasy:   10,
		XPMedium: 25,
		XPHard:   50,

		GoldEasy:   5,
		GoldMedium: 15,
		GoldHard:   30,

		StartingNextLevelXP: 100,
		LevelGrowth:         1.5,

		MaxHP:        100,
		HPRegenDaily: 10,

		ShieldCooldownDays: 7,

		Milestones: []Milestone{
			{Streak: 7, Gold: 50, Title: "7 Day Streak!"},
			{Streak: 14, Gold: 150, Title: "2 Week Streak!"},
			{Streak: 30, Gold: 500, XP: 200, Title: "30 Day Streak!"},
		},

		EscalationMinStreak: 3,
		EscalationInterval:  5,

		ClassTiers: []ClassTier{
			{Level: 1, Title: "Novice Adventurer"},
			{Level: 3, Title: "Squire"},
			{Level: 5, Title: "Knight"},
			{Level: 8, Title: "Paladin"},
			{Level: 12, Title: "Templar"},
			{Level: 16, Title: "Champion"},
			{Level: 20, Title: "Warlord"},
			{Level: 25, Title: "High Lord"},
			{Level: 30, Title: "Legend"},
		},
	}
}

// MilestoneFor returns the bonus for an exact streak value, or nil.
func (b Balance) MilestoneFor(streak int) *Milestone {
	for i := range b.Milestones {
		if b.Milestones[i].Streak == streak {
			return &b.Milestones[i]
		}
	}
	return nil
}

// ClassTitleFor returns the title of the highest tier whose threshold is at
// or below level. Falls back to the lowest tier.
func (b Balance) ClassTitleFor(level int) string {
	title := ""
	for _, t := range b.ClassTiers {
		if level >= t.Level {
			title = t.Title
		}
	}
	if title == "" && len(b.ClassTiers) > 0 {
		title = b.ClassTiers[0].Title
	}
	return title
}

// SuggestsEscalation reports whether a streak value should trigger a
// difficulty upgrade offer.
func (b Balance) SuggestsEscalation(streak int) bool {
	if b.EscalationInterval <= 0 {
		return false
	}
	return streak > b.EscalationMinStreak && streak%b.EscalationInterval == 0
}
