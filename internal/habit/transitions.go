package habit

import (
	"errors"

	"github.com/slemo54/LifeQuests/internal/dateutil"
)

var (
	// ErrShieldCooldown is returned when a manual skip is attempted while the
	// shield is still recharging. Surfaced to the user, never fatal.
	ErrShieldCooldown = errors.New("shield is recharging")

	// ErrNotCompletedToday guards undo against reversing a day that has no
	// completion to reverse.
	ErrNotCompletedToday = errors.New("habit is not completed today")
)

// Patch is a partial habit update. nil pointer => "no change".
// Empty Date => clear.
type Patch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Difficulty  *Difficulty `json:"difficulty,omitempty"`
	Frequency   *Frequency  `json:"frequency,omitempty"`

	Streak          *int             `json:"streak,omitempty"`
	CompletedToday  *bool            `json:"completedToday,omitempty"`
	LastCompleted   *dateutil.Date   `json:"lastCompleted,omitempty"`
	LastGraceUsed   *dateutil.Date   `json:"lastGraceUsed,omitempty"`
	CompletionDates *[]dateutil.Date `json:"completionDates,omitempty"`
}

// ShieldReady reports whether the streak shield is off cooldown on the given
// day. The shield is a single per-habit resource with two consumers: the
// automatic rollover grace and the user-invoked skip. Both must call this
// same predicate so they cannot double-grant protection inside one window.
func ShieldReady(h Habit, today dateutil.Date, cooldownDays int) bool {
	if h.LastGraceUsed.IsZero() {
		return true
	}
	return dateutil.DayDiff(h.LastGraceUsed, today) > cooldownDays
}

type RolloverResult struct {
	StreakReset    bool
	ShieldConsumed bool
}

// BuildRolloverUpdate computes one habit's state for a new calendar day.
// It always clears completedToday; beyond that it decides, from the gap since
// the last completion and the habit's cadence, whether the streak survives,
// is saved by an automatic shield, or resets.
func BuildRolloverUpdate(cur Habit, today dateutil.Date, cooldownDays int) (Patch, RolloverResult) {
	completed := false
	patch := Patch{CompletedToday: &completed}

	// Fresh habit, nothing to reconcile.
	if cur.LastCompleted.IsZero() {
		return patch, RolloverResult{}
	}

	diffDays := dateutil.DayDiff(cur.LastCompleted, today)

	// Wide cadences tolerate longer gaps with no shield involved.
	if cur.Frequency == FrequencyWeekly && diffDays <= 7 {
		return patch, RolloverResult{}
	}
	if cur.Frequency == FrequencyEveryTwoDays && diffDays <= 2 {
		return patch, RolloverResult{}
	}

	switch {
	case diffDays <= 1:
		// Completed yesterday or today; streak intact.
		return patch, RolloverResult{}

	case diffDays == 2:
		// Exactly one day missed: the shield may absorb it.
		if ShieldReady(cur, today, cooldownDays) {
			grace := today
			patch.LastGraceUsed = &grace
			return patch, RolloverResult{ShieldConsumed: true}
		}
		zero := 0
		patch.Streak = &zero
		return patch, RolloverResult{StreakReset: true}

	default:
		zero := 0
		patch.Streak = &zero
		return patch, RolloverResult{StreakReset: true}
	}
}

type CompletionResult struct {
	// Counted is false when the habit was already completed today; the
	// attempt is a silent no-op and the patch must not be applied.
	Counted   bool
	NewStreak int
}

// BuildCompletionUpdate computes the state change for completing a habit.
// Idempotent per calendar day: a second completion attempt is not counted.
func BuildCompletionUpdate(cur Habit, today dateutil.Date) (Patch, CompletionResult) {
	if cur.CompletedToday {
		return Patch{}, CompletionResult{Counted: false, NewStreak: cur.Streak}
	}

	newStreak := cur.Streak + 1
	done := true
	last := today

	dates := append([]dateutil.Date{}, cur.CompletionDates...)
	if !cur.CompletedOn(today) {
		dates = append(dates, today)
	}

	patch := Patch{
		Streak:          &newStreak,
		CompletedToday:  &done,
		LastCompleted:   &last,
		CompletionDates: &dates,
	}
	return patch, CompletionResult{Counted: true, NewStreak: newStreak}
}

// BuildSkipUpdate computes the state change for a manual shield use. The day
// counts as handled (completedToday) but grants no reward and leaves the
// streak untouched. Rejected while the shield is on cooldown.
func BuildSkipUpdate(cur Habit, today dateutil.Date, cooldownDays int) (Patch, error) {
	if !ShieldReady(cur, today, cooldownDays) {
		return Patch{}, ErrShieldCooldown
	}
	done := true
	grace := today
	return Patch{CompletedToday: &done, LastGraceUsed: &grace}, nil
}

type UndoResult struct {
	NewStreak int
}

// BuildUndoUpdate reverses exactly one completion made today.
func BuildUndoUpdate(cur Habit, today dateutil.Date) (Patch, UndoResult, error) {
	if !cur.CompletedToday {
		return Patch{}, UndoResult{}, ErrNotCompletedToday
	}

	newStreak := cur.Streak - 1
	if newStreak < 0 {
		newStreak = 0
	}
	done := false

	dates := make([]dateutil.Date, 0, len(cur.CompletionDates))
	for _, d := range cur.CompletionDates {
		if d != today {
			dates = append(dates, d)
		}
	}

	patch := Patch{
		Streak:          &newStreak,
		CompletedToday:  &done,
		CompletionDates: &dates,
	}
	return patch, UndoResult{NewStreak: newStreak}, nil
}
