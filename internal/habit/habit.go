package habit

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/slemo54/LifeQuests/internal/dateutil"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

type Frequency string

const (
	FrequencyDaily        Frequency = "Daily"
	FrequencyEveryTwoDays Frequency = "Every 2 Days"
	FrequencyWeekly       Frequency = "Weekly"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyEveryTwoDays, FrequencyWeekly:
		return true
	default:
		return false
	}
}

// ToleranceDays is the widest whole-day gap between completions that still
// satisfies the cadence. Daily uses the generic one-day rule.
func (f Frequency) ToleranceDays() int {
	switch f {
	case FrequencyWeekly:
		return 7
	case FrequencyEveryTwoDays:
		return 2
	default:
		return 1
	}
}

// WithinCadence reports whether a whole-day gap satisfies the cadence.
func WithinCadence(f Frequency, diffDays int) bool {
	return diffDays <= f.ToleranceDays()
}

var ErrEmptyTitle = errors.New("title is required")

type Habit struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	Frequency   Frequency  `json:"frequency"`

	Streak          int             `json:"streak"`
	CompletedToday  bool            `json:"completedToday"`
	LastCompleted   dateutil.Date   `json:"lastCompleted,omitempty"`
	LastGraceUsed   dateutil.Date   `json:"lastGraceUsed,omitempty"`
	CompletionDates []dateutil.Date `json:"completionDates"`

	CreatedAt time.Time `json:"createdAt"`
}

// New builds a fresh habit with gameplay defaults. Invalid difficulty or
// frequency values fall back to Easy/Daily rather than erroring, matching
// form-driven habit creation.
func New(title, description string, difficulty Difficulty, frequency Frequency, now time.Time) (Habit, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Habit{}, ErrEmptyTitle
	}
	if !difficulty.IsValid() {
		difficulty = DifficultyEasy
	}
	if !frequency.IsValid() {
		frequency = FrequencyDaily
	}
	return Habit{
		ID:              uuid.NewString(),
		Title:           title,
		Description:     strings.TrimSpace(description),
		Difficulty:      difficulty,
		Frequency:       frequency,
		Streak:          0,
		CompletedToday:  false,
		CompletionDates: []dateutil.Date{},
		CreatedAt:       now,
	}, nil
}

// CompletedOn reports whether day is already in the completion history.
func (h Habit) CompletedOn(day dateutil.Date) bool {
	for _, d := range h.CompletionDates {
		if d == day {
			return true
		}
	}
	return false
}
