package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slemo54/LifeQuests/internal/config"
	"github.com/slemo54/LifeQuests/internal/habit"
	"github.com/slemo54/LifeQuests/internal/store"
)

var testStart = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*Engine, *FakeClock) {
	t.Helper()
	clock := NewFakeClock(testStart)
	e, err := NewEngine(Options{Balance: config.Default(), Clock: clock})
	require.NoError(t, err)
	_, err = e.CheckDay(context.Background())
	require.NoError(t, err)
	return e, clock
}

// nextDay moves the clock one day forward and runs the rollover.
func nextDay(t *testing.T, e *Engine, clock *FakeClock) DayCheckResult {
	t.Helper()
	clock.AdvanceDays(1)
	res, err := e.CheckDay(context.Background())
	require.NoError(t, err)
	return res
}

func TestCompleteHabitAwardsAndIsIdempotent(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	h, err := e.AddHabit(ctx, "Morning Run", "", habit.DifficultyMedium, habit.FrequencyDaily)
	require.NoError(t, err)

	res, err := e.CompleteHabit(ctx, h.ID)
	require.NoError(t, err)
	assert.False(t, res.AlreadyDone)
	assert.Equal(t, 1, res.Habit.Streak)
	assert.True(t, res.Habit.CompletedToday)
	assert.Equal(t, 25, res.Award.XPGained)
	assert.Equal(t, 15, res.Award.GoldGained)
	assert.Equal(t, 25, res.Stats.XP)
	assert.Equal(t, 15, res.Stats.Gold)

	again, err := e.CompleteHabit(ctx, h.ID)
	require.NoError(t, err)
	assert.True(t, again.AlreadyDone)
	assert.Equal(t, 1, again.Habit.Streak)
	assert.Equal(t, 25, again.Stats.XP)
}

func TestCompleteHabitLevelsUp(t *testing.T) {
	b := config.Default()
	b.StartingNextLevelXP = 20
	clock := NewFakeClock(testStart)
	e, err := NewEngine(Options{Balance: b, Clock: clock})
	require.NoError(t, err)
	ctx := context.Background()

	h, err := e.AddHabit(ctx, "Deep Work", "", habit.DifficultyMedium, habit.FrequencyDaily)
	require.NoError(t, err)

	res, err := e.CompleteHabit(ctx, h.ID)
	require.NoError(t, err)
	assert.True(t, res.Award.LeveledUp)
	assert.Equal(t, 2, res.Stats.Level)
	assert.Equal(t, 5, res.Stats.XP)
	assert.Equal(t, 30, res.Stats.NextLevelXP)
	assert.Equal(t, res.Stats.MaxHP, res.Stats.HP)
}

func TestUndoCompletion(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	h, err := e.AddHabit(ctx, "Stretch", "", habit.DifficultyEasy, habit.FrequencyDaily)
	require.NoError(t, err)

	_, err = e.UndoCompletion(ctx, h.ID)
	assert.ErrorIs(t, err, habit.ErrNotCompletedToday)

	_, err = e.CompleteHabit(ctx, h.ID)
	require.NoError(t, err)

	out, err := e.UndoCompletion(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Habit.Streak)
	assert.False(t, out.Habit.CompletedToday)
	assert.Empty(t, out.Habit.CompletionDates)
	assert.Equal(t, 0, out.Stats.XP)
	assert.Equal(t, 0, out.Stats.Gold)
}

func TestSkipHabitRespectsCooldown(t *testing.T) {
	e, clock := newTestEngine(t)
	ctx := context.Background()

	h, err := e.AddHabit(ctx, "Journal", "", habit.DifficultyEasy, habit.FrequencyDaily)
	require.NoError(t, err)

	skipped, err := e.SkipHabit(ctx, h.ID)
	require.NoError(t, err)
	assert.True(t, skipped.CompletedToday)
	assert.Equal(t, 0, skipped.Streak)

	nextDay(t, e, clock)
	_, err = e.SkipHabit(ctx, h.ID)
	assert.ErrorIs(t, err, habit.ErrShieldCooldown)
}

func TestPurchaseReward(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	r, err := e.AddReward(ctx, "Movie Night", 10, "🎬")
	require.NoError(t, err)

	_, err = e.PurchaseReward(ctx, r.ID)
	assert.ErrorIs(t, err, ErrInsufficientGold)

	h, err := e.AddHabit(ctx, "Read", "", habit.DifficultyHard, habit.FrequencyDaily)
	require.NoError(t, err)
	_, err = e.CompleteHabit(ctx, h.ID)
	require.NoError(t, err)

	s, err := e.PurchaseReward(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, s.Gold)
}

func TestUpgradeDifficultyChain(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	h, err := e.AddHabit(ctx, "Pushups", "", habit.DifficultyEasy, habit.FrequencyDaily)
	require.NoError(t, err)

	up, err := e.UpgradeDifficulty(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, habit.DifficultyMedium, up.Difficulty)

	up, err = e.UpgradeDifficulty(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, habit.DifficultyHard, up.Difficulty)

	_, err = e.UpgradeDifficulty(ctx, h.ID)
	assert.ErrorIs(t, err, ErrMaxDifficulty)
}

func TestEscalationSuggestion(t *testing.T) {
	e, clock := newTestEngine(t)
	ctx := context.Background()

	h, err := e.AddHabit(ctx, "Meditate", "", habit.DifficultyEasy, habit.FrequencyDaily)
	require.NoError(t, err)

	var last CompleteResult
	for day := 0; day < 5; day++ {
		if day > 0 {
			nextDay(t, e, clock)
		}
		last, err = e.CompleteHabit(ctx, h.ID)
		require.NoError(t, err)
		if last.Habit.Streak < 5 {
			assert.False(t, last.SuggestUpgrade, "streak %d", last.Habit.Streak)
		}
	}
	assert.Equal(t, 5, last.Habit.Streak)
	assert.True(t, last.SuggestUpgrade)
}

func TestEditHabitValidation(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	h, err := e.AddHabit(ctx, "Walk", "", habit.DifficultyEasy, habit.FrequencyDaily)
	require.NoError(t, err)

	empty := "  "
	_, err = e.EditHabit(ctx, h.ID, HabitEdit{Title: &empty})
	assert.ErrorIs(t, err, habit.ErrEmptyTitle)

	bad := habit.Difficulty("Impossible")
	_, err = e.EditHabit(ctx, h.ID, HabitEdit{Difficulty: &bad})
	assert.Error(t, err)

	title := "Evening Walk"
	hard := habit.DifficultyHard
	updated, err := e.EditHabit(ctx, h.ID, HabitEdit{Title: &title, Difficulty: &hard})
	require.NoError(t, err)
	assert.Equal(t, "Evening Walk", updated.Title)
	assert.Equal(t, habit.DifficultyHard, updated.Difficulty)
}

func TestAddHabitAsksNarratorWhenDifficultyOmitted(t *testing.T) {
	e, _ := newTestEngine(t)
	h, err := e.AddHabit(context.Background(), "Tidy desk", "", "", habit.FrequencyDaily)
	require.NoError(t, err)
	assert.Equal(t, habit.DifficultyEasy, h.Difficulty)
}

func TestResetAll(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	h, err := e.AddHabit(ctx, "Run", "", habit.DifficultyHard, habit.FrequencyDaily)
	require.NoError(t, err)
	_, err = e.CompleteHabit(ctx, h.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, e.ResetAll(ctx, "reset"), ErrResetConfirmation)
	assert.ErrorIs(t, e.ResetAll(ctx, ""), ErrResetConfirmation)

	require.NoError(t, e.ResetAll(ctx, ResetConfirmation))
	habits, err := e.ListHabits()
	require.NoError(t, err)
	assert.Empty(t, habits)
	assert.Equal(t, 0, e.Stats().Gold)
	assert.Equal(t, 1, e.Stats().Level)

	rewards, err := e.ListRewards()
	require.NoError(t, err)
	assert.Len(t, rewards, 3)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	h, err := e.AddHabit(ctx, "Run", "", habit.DifficultyMedium, habit.FrequencyWeekly)
	require.NoError(t, err)
	_, err = e.CompleteHabit(ctx, h.ID)
	require.NoError(t, err)

	doc, err := e.Snapshot()
	require.NoError(t, err)

	other, _ := newTestEngine(t)
	require.NoError(t, other.Restore(ctx, doc))
	habits, err := other.ListHabits()
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, h.ID, habits[0].ID)
	assert.Equal(t, 1, habits[0].Streak)
	assert.Equal(t, e.Stats(), other.Stats())
}

func TestRestoreRejectsInvalidDocument(t *testing.T) {
	e, _ := newTestEngine(t)
	err := e.Restore(context.Background(), store.Document{})
	assert.Error(t, err)
}

func TestEngineReloadsFromStore(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	fs, err := store.NewFileStore(dir)
	require.NoError(t, err)
	clock := NewFakeClock(testStart)
	e, err := NewEngine(Options{Balance: config.Default(), Clock: clock, Store: fs})
	require.NoError(t, err)

	h, err := e.AddHabit(ctx, "Run", "", habit.DifficultyHard, habit.FrequencyDaily)
	require.NoError(t, err)
	res, err := e.CompleteHabit(ctx, h.ID)
	require.NoError(t, err)
	assert.True(t, res.Persisted)

	fs2, err := store.NewFileStore(dir)
	require.NoError(t, err)
	e2, err := NewEngine(Options{Balance: config.Default(), Clock: clock, Store: fs2})
	require.NoError(t, err)

	habits, err := e2.ListHabits()
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, 1, habits[0].Streak)
	assert.Equal(t, 50, e2.Stats().XP)
	assert.Equal(t, 30, e2.Stats().Gold)
}
