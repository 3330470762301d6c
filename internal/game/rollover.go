package game

import (
	"context"

	"go.uber.org/zap"

	"github.com/slemo54/LifeQuests/internal/dateutil"
	"github.com/slemo54/LifeQuests/internal/habit"
	"github.com/slemo54/LifeQuests/internal/stats"
	"github.com/slemo54/LifeQuests/internal/telemetry"
)

// DayCheckResult reports what the new-day reconciliation did.
type DayCheckResult struct {
	Day             dateutil.Date   `json:"day"`
	DayChanged      bool            `json:"dayChanged"`
	Briefing        string          `json:"briefing"`
	StreaksReset    []string        `json:"streaksReset"`
	ShieldsConsumed []string        `json:"shieldsConsumed"`
	Stats           stats.UserStats `json:"stats"`
}

// CheckDay reconciles the account with the calendar. On a new day every
// habit rolls over (completedToday cleared, streaks kept, shielded, or
// reset) and health regenerates once. The daily briefing is generated at
// most once per day regardless of how often CheckDay runs.
func (e *Engine) CheckDay(ctx context.Context) (DayCheckResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.today()
	res := DayCheckResult{
		Day:             today,
		StreaksReset:    []string{},
		ShieldsConsumed: []string{},
	}

	if e.lastLogin != today {
		// first login ever has nothing to reconcile
		if !e.lastLogin.IsZero() {
			res.DayChanged = true
			if err := e.rolloverLocked(ctx, today, &res); err != nil {
				return DayCheckResult{}, err
			}
		}
		e.lastLogin = today
		e.persist("day check login", func() error { return e.Store.SaveLastLogin(ctx, today) })
	}

	if e.dailyMessageDate != today {
		s := e.stats
		e.mu.Unlock()
		habits, _ := e.Habits.List()
		msg := e.Narrator.DailyBriefing(ctx, s, habits)
		e.mu.Lock()
		// another caller may have won the race while the lock was free
		if e.dailyMessageDate != today {
			e.dailyMessage = msg
			e.dailyMessageDate = today
			e.persist("day check briefing", func() error {
				return e.Store.SaveStats(ctx, e.stats, e.dailyMessage, e.dailyMessageDate)
			})
		}
	}
	res.Briefing = e.dailyMessage
	res.Stats = e.stats
	return res, nil
}

// rolloverLocked applies the new-day transition to stats and every habit.
func (e *Engine) rolloverLocked(ctx context.Context, today dateutil.Date, res *DayCheckResult) error {
	e.stats = stats.Regen(e.stats, e.Balance)

	habits, err := e.Habits.List()
	if err != nil {
		return err
	}
	for _, h := range habits {
		patch, roll := habit.BuildRolloverUpdate(h, today, e.Balance.ShieldCooldownDays)
		updated, err := e.Habits.Update(h.ID, patch)
		if err != nil {
			return err
		}
		if roll.StreakReset {
			res.StreaksReset = append(res.StreaksReset, h.ID)
			e.record(telemetry.EventStreakReset, telemetry.EventMetadata{
				"habitId": h.ID, "lostStreak": h.Streak,
			})
		}
		if roll.ShieldConsumed {
			res.ShieldsConsumed = append(res.ShieldsConsumed, h.ID)
			e.record(telemetry.EventShieldConsumed, telemetry.EventMetadata{"habitId": h.ID})
		}
		e.persist("rollover habit", func() error { return e.Store.SaveHabit(ctx, updated) })
	}

	e.record(telemetry.EventRollover, telemetry.EventMetadata{
		"day": string(today), "habits": len(habits),
	})
	e.persist("rollover stats", func() error {
		return e.Store.SaveStats(ctx, e.stats, e.dailyMessage, e.dailyMessageDate)
	})

	e.Logger.Info("day rollover",
		zap.String("day", string(today)),
		zap.Int("habits", len(habits)),
		zap.Int("streaksReset", len(res.StreaksReset)),
		zap.Int("shieldsConsumed", len(res.ShieldsConsumed)),
	)
	return nil
}
