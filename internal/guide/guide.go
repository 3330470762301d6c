// Package guide produces short motivational text for the player. It talks to
// an external text-generation service; every call degrades to a fixed
// fallback line on any failure, so the engine never sees an error from here.
package guide

import (
	"context"
	"fmt"
	"strings"

	"github.com/slemo54/LifeQuests/internal/habit"
	"github.com/slemo54/LifeQuests/internal/stats"
)

const (
	FallbackBriefing = "The sun rises on a new day, Hero. Glory awaits those who seize it!"
	FallbackAdvice   = "The mists of the void are thick today, Hero. My wisdom is obscured. Keep your blade sharp regardless."
)

type Narrator interface {
	// DailyBriefing returns a one-line call to adventure for the day.
	DailyBriefing(ctx context.Context, s stats.UserStats, habits []habit.Habit) string

	// Advice answers a free-text question from the player.
	Advice(ctx context.Context, s stats.UserStats, habits []habit.Habit, message string) string

	// SuggestDifficulty classifies a new habit by estimated effort.
	SuggestDifficulty(ctx context.Context, title, description string) habit.Difficulty
}

// habitSummary renders the habit list for prompt context.
func habitSummary(habits []habit.Habit) string {
	lines := make([]string, 0, len(habits))
	for _, h := range habits {
		lines = append(lines, fmt.Sprintf("%q (Difficulty: %s, Streak: %d, Total Completions: %d)",
			h.Title, h.Difficulty, h.Streak, len(h.CompletionDates)))
	}
	return strings.Join(lines, "\n")
}

func briefingPrompt(s stats.UserStats, habits []habit.Habit) string {
	return fmt.Sprintf(`You are a medieval Quest Giver.
The hero (Level %d %s) wakes up.
Look at their habits:
%s

1. Identify the most important/difficult task to start with today (based on streak or difficulty).
2. Write a ONE sentence "Call to Adventure" for today. Motivational and epic.
3. Return ONLY that sentence.`, s.Level, s.ClassTitle, habitSummary(habits))
}

func advicePrompt(s stats.UserStats, habits []habit.Habit) string {
	return fmt.Sprintf(`You are the "Great Quest Master", an ancient and wise spirit guide in a fantasy RPG habit tracker.

HERO STATS:
- Class: %s (Level %d)
- HP: %d/%d

ACTIVE QUESTS:
%s

MECHANICS:
- The streak shield protects streaks once per week.
- Streaks build XP multipliers.

GOAL:
Analyze their consistency. If they ask "Why am I failing", look for patterns (low completions).
If they ask "What next", suggest the habit with the lowest recent attention or highest difficulty.
Speak in a fantasy/medieval tone. Keep responses concise.`,
		s.ClassTitle, s.Level, s.HP, s.MaxHP, habitSummary(habits))
}

func difficultyPrompt(title, description string) string {
	return fmt.Sprintf("Quest Title: %s\nQuest Description: %s\n\nBased on the effort required, classify this habit as Easy, Medium, or Hard. Easy is 5 mins, Medium is 15-30 mins, Hard is 1hr+. Return ONLY the word.",
		title, description)
}

// Silent is a Narrator that always answers with the fallbacks. Used when no
// API key is configured and in tests.
type Silent struct{}

func (Silent) DailyBriefing(context.Context, stats.UserStats, []habit.Habit) string {
	return FallbackBriefing
}

func (Silent) Advice(context.Context, stats.UserStats, []habit.Habit, string) string {
	return FallbackAdvice
}

func (Silent) SuggestDifficulty(context.Context, string, string) habit.Difficulty {
	return habit.DifficultyEasy
}
