// Package game holds the account state and runs every transaction against
// it. Repositories are the in-memory source of truth; a store, when
// configured, mirrors each mutation to disk. A persistence failure is
// logged and reported but never rolls back the in-memory change.
package game

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/slemo54/LifeQuests/internal/config"
	"github.com/slemo54/LifeQuests/internal/dateutil"
	"github.com/slemo54/LifeQuests/internal/guide"
	"github.com/slemo54/LifeQuests/internal/habit"
	"github.com/slemo54/LifeQuests/internal/reward"
	"github.com/slemo54/LifeQuests/internal/stats"
	"github.com/slemo54/LifeQuests/internal/store"
	"github.com/slemo54/LifeQuests/internal/telemetry"
)

var (
	ErrInsufficientGold  = errors.New("not enough gold")
	ErrMaxDifficulty     = errors.New("habit is already at maximum difficulty")
	ErrResetConfirmation = errors.New("reset requires confirmation phrase")
)

// ResetConfirmation must be sent verbatim to wipe the account.
const ResetConfirmation = "RESET"

type Engine struct {
	mu sync.Mutex

	Habits   habit.Repository
	Rewards  reward.Repository
	Events   telemetry.Repository
	Balance  config.Balance
	Clock    Clock
	Store    store.Store
	Narrator guide.Narrator
	Logger   *zap.Logger

	stats            stats.UserStats
	lastLogin        dateutil.Date
	dailyMessage     string
	dailyMessageDate dateutil.Date
}

// Options configures a new engine. Store and Narrator may be nil.
type Options struct {
	Balance  config.Balance
	Clock    Clock
	Store    store.Store
	Narrator guide.Narrator
	Logger   *zap.Logger
}

// NewEngine builds the engine, loading state from the store when one is
// configured and has data, otherwise seeding a fresh account with the
// default reward shop.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Narrator == nil {
		opts.Narrator = guide.Silent{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	e := &Engine{
		Habits:   habit.NewMemoryRepo(),
		Rewards:  reward.NewMemoryRepo(),
		Events:   telemetry.NewMemoryRepository(),
		Balance:  opts.Balance,
		Clock:    opts.Clock,
		Store:    opts.Store,
		Narrator: opts.Narrator,
		Logger:   opts.Logger,
	}

	if opts.Store != nil {
		doc, ok, err := opts.Store.Load(context.Background())
		if err != nil {
			return nil, err
		}
		if ok {
			e.hydrate(doc)
			return e, nil
		}
	}

	e.stats = stats.Default(opts.Balance)
	if err := e.Rewards.Replace(reward.Defaults()); err != nil {
		return nil, err
	}
	if opts.Store != nil {
		doc, err := e.snapshotLocked()
		if err != nil {
			return nil, err
		}
		if err := opts.Store.ReplaceAll(context.Background(), doc); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Engine) hydrate(doc store.Document) {
	e.stats = stats.Normalize(doc.Stats, e.Balance)
	e.lastLogin = doc.LastLogin
	e.dailyMessage = doc.LastDailyMessage
	e.dailyMessageDate = doc.LastDailyMessageDate
	if err := e.Habits.Replace(doc.Habits); err != nil {
		e.Logger.Warn("hydrate habits", zap.Error(err))
	}
	if err := e.Rewards.Replace(doc.Rewards); err != nil {
		e.Logger.Warn("hydrate rewards", zap.Error(err))
	}
}

func (e *Engine) today() dateutil.Date {
	return dateutil.Today(e.Clock.Now())
}

// persist runs one mirror write and reports whether it stuck.
func (e *Engine) persist(op string, fn func() error) bool {
	if e.Store == nil {
		return true
	}
	if err := fn(); err != nil {
		e.Logger.Error("persist failed", zap.String("op", op), zap.Error(err))
		return false
	}
	return true
}

func (e *Engine) record(t telemetry.EventType, md telemetry.EventMetadata) {
	if err := e.Events.RecordEvent(t, md); err != nil {
		e.Logger.Warn("record event", zap.String("type", string(t)), zap.Error(err))
	}
}

func (e *Engine) Stats() stats.UserStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

func (e *Engine) UpdateName(ctx context.Context, name string) (stats.UserStats, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return stats.UserStats{}, errors.New("name is required")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.Name = name
	e.persist("update name", func() error {
		return e.Store.SaveStats(ctx, e.stats, e.dailyMessage, e.dailyMessageDate)
	})
	return e.stats, nil
}

// AddHabit creates a habit. When difficulty is empty the narrator estimates
// one from the title and description.
func (e *Engine) AddHabit(ctx context.Context, title, description string, difficulty habit.Difficulty, frequency habit.Frequency) (habit.Habit, error) {
	if difficulty == "" {
		difficulty = e.Narrator.SuggestDifficulty(ctx, title, description)
	}
	h, err := habit.New(title, description, difficulty, frequency, e.Clock.Now())
	if err != nil {
		return habit.Habit{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	created, err := e.Habits.Create(h)
	if err != nil {
		return habit.Habit{}, err
	}
	e.record(telemetry.EventHabitCreated, telemetry.EventMetadata{
		"habitId": created.ID, "title": created.Title, "difficulty": string(created.Difficulty),
	})
	e.persist("create habit", func() error { return e.Store.SaveHabit(ctx, created) })
	return created, nil
}

// HabitEdit carries the user-editable fields.
type HabitEdit struct {
	Title       *string
	Description *string
	Difficulty  *habit.Difficulty
	Frequency   *habit.Frequency
}

func (e *Engine) EditHabit(ctx context.Context, id string, edit HabitEdit) (habit.Habit, error) {
	patch := habit.Patch{Description: edit.Description}
	if edit.Title != nil {
		t := strings.TrimSpace(*edit.Title)
		if t == "" {
			return habit.Habit{}, habit.ErrEmptyTitle
		}
		patch.Title = &t
	}
	if edit.Difficulty != nil {
		if !edit.Difficulty.IsValid() {
			return habit.Habit{}, errors.New("invalid difficulty")
		}
		patch.Difficulty = edit.Difficulty
	}
	if edit.Frequency != nil {
		if !edit.Frequency.IsValid() {
			return habit.Habit{}, errors.New("invalid frequency")
		}
		patch.Frequency = edit.Frequency
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	updated, err := e.Habits.Update(id, patch)
	if err != nil {
		return habit.Habit{}, err
	}
	e.persist("edit habit", func() error { return e.Store.SaveHabit(ctx, updated) })
	return updated, nil
}

func (e *Engine) DeleteHabit(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.Habits.Delete(id); err != nil {
		return err
	}
	e.record(telemetry.EventHabitDeleted, telemetry.EventMetadata{"habitId": id})
	e.persist("delete habit", func() error { return e.Store.DeleteHabit(ctx, id) })
	return nil
}

func (e *Engine) ListHabits() ([]habit.Habit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Habits.List()
}

func (e *Engine) GetHabit(id string) (habit.Habit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Habits.Get(id)
}

// CompleteResult is everything one completion did.
type CompleteResult struct {
	Habit          habit.Habit       `json:"habit"`
	Stats          stats.UserStats   `json:"stats"`
	Award          stats.AwardResult `json:"award"`
	AlreadyDone    bool              `json:"alreadyDone"`
	SuggestUpgrade bool              `json:"suggestUpgrade"`
	Persisted      bool              `json:"persisted"`
}

// CompleteHabit marks a habit done for today and credits the account.
// A repeat completion on the same day is a no-op that reports AlreadyDone.
func (e *Engine) CompleteHabit(ctx context.Context, id string) (CompleteResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur, err := e.Habits.Get(id)
	if err != nil {
		return CompleteResult{}, err
	}

	today := e.today()
	patch, comp := habit.BuildCompletionUpdate(cur, today)
	if !comp.Counted {
		return CompleteResult{Habit: cur, Stats: e.stats, AlreadyDone: true, Persisted: true}, nil
	}

	updated, err := e.Habits.Update(id, patch)
	if err != nil {
		return CompleteResult{}, err
	}

	newStats, award := stats.ApplyAward(e.stats, e.Balance, updated.Difficulty, comp.NewStreak)
	e.stats = newStats

	e.record(telemetry.EventHabitCompleted, telemetry.EventMetadata{
		"habitId": id, "streak": comp.NewStreak, "xp": award.XPGained, "gold": award.GoldGained,
	})
	if award.Milestone != nil {
		e.record(telemetry.EventMilestone, telemetry.EventMetadata{
			"habitId": id, "streak": comp.NewStreak, "title": award.Milestone.Title,
		})
	}
	if award.LeveledUp {
		e.record(telemetry.EventLevelUp, telemetry.EventMetadata{
			"level": e.stats.Level, "levelsGained": award.LevelsGained,
		})
	}

	persisted := e.persist("complete habit", func() error {
		if err := e.Store.SaveHabit(ctx, updated); err != nil {
			return err
		}
		return e.Store.SaveStats(ctx, e.stats, e.dailyMessage, e.dailyMessageDate)
	})

	suggest := updated.Difficulty == habit.DifficultyEasy && e.Balance.SuggestsEscalation(comp.NewStreak)

	return CompleteResult{
		Habit:          updated,
		Stats:          e.stats,
		Award:          award,
		SuggestUpgrade: suggest,
		Persisted:      persisted,
	}, nil
}

// SkipHabit spends the streak shield to excuse today without reward.
func (e *Engine) SkipHabit(ctx context.Context, id string) (habit.Habit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur, err := e.Habits.Get(id)
	if err != nil {
		return habit.Habit{}, err
	}

	patch, err := habit.BuildSkipUpdate(cur, e.today(), e.Balance.ShieldCooldownDays)
	if err != nil {
		return habit.Habit{}, err
	}
	updated, err := e.Habits.Update(id, patch)
	if err != nil {
		return habit.Habit{}, err
	}
	e.record(telemetry.EventHabitSkipped, telemetry.EventMetadata{"habitId": id})
	e.persist("skip habit", func() error { return e.Store.SaveHabit(ctx, updated) })
	return updated, nil
}

// UndoOutcome reports the state after reversing today's completion.
type UndoOutcome struct {
	Habit     habit.Habit     `json:"habit"`
	Stats     stats.UserStats `json:"stats"`
	Persisted bool            `json:"persisted"`
}

func (e *Engine) UndoCompletion(ctx context.Context, id string) (UndoOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur, err := e.Habits.Get(id)
	if err != nil {
		return UndoOutcome{}, err
	}

	patch, _, err := habit.BuildUndoUpdate(cur, e.today())
	if err != nil {
		return UndoOutcome{}, err
	}
	updated, err := e.Habits.Update(id, patch)
	if err != nil {
		return UndoOutcome{}, err
	}

	e.stats = stats.ApplyUndo(e.stats, e.Balance, updated.Difficulty)
	e.record(telemetry.EventHabitUndone, telemetry.EventMetadata{"habitId": id})
	persisted := e.persist("undo completion", func() error {
		if err := e.Store.SaveHabit(ctx, updated); err != nil {
			return err
		}
		return e.Store.SaveStats(ctx, e.stats, e.dailyMessage, e.dailyMessageDate)
	})
	return UndoOutcome{Habit: updated, Stats: e.stats, Persisted: persisted}, nil
}

// UpgradeDifficulty raises a habit one tier, Easy to Medium to Hard.
func (e *Engine) UpgradeDifficulty(ctx context.Context, id string) (habit.Habit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur, err := e.Habits.Get(id)
	if err != nil {
		return habit.Habit{}, err
	}

	var next habit.Difficulty
	switch cur.Difficulty {
	case habit.DifficultyEasy:
		next = habit.DifficultyMedium
	case habit.DifficultyMedium:
		next = habit.DifficultyHard
	default:
		return habit.Habit{}, ErrMaxDifficulty
	}

	updated, err := e.Habits.Update(id, habit.Patch{Difficulty: &next})
	if err != nil {
		return habit.Habit{}, err
	}
	e.record(telemetry.EventDifficultyUpgraded, telemetry.EventMetadata{
		"habitId": id, "difficulty": string(next),
	})
	e.persist("upgrade difficulty", func() error { return e.Store.SaveHabit(ctx, updated) })
	return updated, nil
}

func (e *Engine) ListRewards() ([]reward.Reward, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Rewards.List()
}

func (e *Engine) AddReward(ctx context.Context, title string, cost int, icon string) (reward.Reward, error) {
	r, err := reward.New(title, cost, icon)
	if err != nil {
		return reward.Reward{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	created, err := e.Rewards.Create(r)
	if err != nil {
		return reward.Reward{}, err
	}
	e.persist("create reward", func() error { return e.Store.SaveReward(ctx, created) })
	return created, nil
}

func (e *Engine) EditReward(ctx context.Context, id, title string, cost int, icon string) (reward.Reward, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur, err := e.Rewards.Get(id)
	if err != nil {
		return reward.Reward{}, err
	}
	if t := strings.TrimSpace(title); t != "" {
		cur.Title = t
	}
	if cost >= 0 {
		cur.Cost = cost
	}
	if icon != "" {
		cur.Icon = icon
	}
	updated, err := e.Rewards.Update(cur)
	if err != nil {
		return reward.Reward{}, err
	}
	e.persist("edit reward", func() error { return e.Store.SaveReward(ctx, updated) })
	return updated, nil
}

func (e *Engine) DeleteReward(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.Rewards.Delete(id); err != nil {
		return err
	}
	e.persist("delete reward", func() error { return e.Store.DeleteReward(ctx, id) })
	return nil
}

// PurchaseReward debits the reward's cost. The purchase is refused rather
// than letting gold go negative.
func (e *Engine) PurchaseReward(ctx context.Context, id string) (stats.UserStats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.Rewards.Get(id)
	if err != nil {
		return stats.UserStats{}, err
	}
	if e.stats.Gold < r.Cost {
		return stats.UserStats{}, ErrInsufficientGold
	}
	e.stats.Gold -= r.Cost

	e.record(telemetry.EventRewardPurchased, telemetry.EventMetadata{
		"rewardId": r.ID, "title": r.Title, "cost": r.Cost,
	})
	e.persist("purchase reward", func() error {
		return e.Store.SaveStats(ctx, e.stats, e.dailyMessage, e.dailyMessageDate)
	})
	return e.stats, nil
}

// Advice forwards a question to the narrator with full account context.
func (e *Engine) Advice(ctx context.Context, message string) string {
	e.mu.Lock()
	s := e.stats
	habits, err := e.Habits.List()
	e.mu.Unlock()
	if err != nil {
		e.Logger.Warn("list habits for advice", zap.Error(err))
	}
	return e.Narrator.Advice(ctx, s, habits, message)
}

// Analytics aggregates the event log into completion history and counters.
func (e *Engine) Analytics(sinceDays int) (telemetry.Stats, error) {
	since := e.Clock.Now().AddDate(0, 0, -sinceDays)
	events, err := e.Events.GetEvents(since, nil)
	if err != nil {
		return telemetry.Stats{}, err
	}
	return telemetry.CalculateStats(events, since)
}

// Snapshot exports the whole account.
func (e *Engine) Snapshot() (store.Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() (store.Document, error) {
	habits, err := e.Habits.List()
	if err != nil {
		return store.Document{}, err
	}
	rewards, err := e.Rewards.List()
	if err != nil {
		return store.Document{}, err
	}
	return store.Document{
		Habits:               habits,
		Rewards:              rewards,
		Stats:                e.stats,
		LastDailyMessage:     e.dailyMessage,
		LastDailyMessageDate: e.dailyMessageDate,
		LastLogin:            e.lastLogin,
	}, nil
}

// Restore replaces the whole account from an exported document.
func (e *Engine) Restore(ctx context.Context, doc store.Document) error {
	if err := store.ValidateDocument(doc); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hydrate(doc)
	e.persist("restore", func() error { return e.Store.ReplaceAll(ctx, doc) })
	return nil
}

// ResetAll wipes the account back to a fresh state. The confirmation phrase
// must match ResetConfirmation exactly.
func (e *Engine) ResetAll(ctx context.Context, confirmation string) error {
	if confirmation != ResetConfirmation {
		return ErrResetConfirmation
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stats = stats.Default(e.Balance)
	e.lastLogin = ""
	e.dailyMessage = ""
	e.dailyMessageDate = ""
	if err := e.Habits.Replace(nil); err != nil {
		return err
	}
	if err := e.Rewards.Replace(reward.Defaults()); err != nil {
		return err
	}
	if err := e.Events.Clear(); err != nil {
		return err
	}

	doc, err := e.snapshotLocked()
	if err != nil {
		return err
	}
	e.persist("reset", func() error { return e.Store.ReplaceAll(ctx, doc) })
	return nil
}
