// Package store persists the full account document. The in-memory engine is
// authoritative; a Store mirrors its state so it survives restarts.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/slemo54/LifeQuests/internal/dateutil"
	"github.com/slemo54/LifeQuests/internal/habit"
	"github.com/slemo54/LifeQuests/internal/reward"
	"github.com/slemo54/LifeQuests/internal/stats"
)

// Document is everything one account owns.
type Document struct {
	Habits               []habit.Habit   `json:"habits"`
	Rewards              []reward.Reward `json:"rewards"`
	Stats                stats.UserStats `json:"stats"`
	LastDailyMessage     string          `json:"lastDailyMessage"`
	LastDailyMessageDate dateutil.Date   `json:"lastDailyMessageDate"`
	LastLogin            dateutil.Date   `json:"lastLogin"`
}

// Store is the persistence mirror. Save methods upsert.
type Store interface {
	// Load returns the stored document. ok is false when nothing has been
	// saved yet.
	Load(ctx context.Context) (doc Document, ok bool, err error)

	SaveStats(ctx context.Context, s stats.UserStats, dailyMessage string, dailyMessageDate dateutil.Date) error
	SaveHabit(ctx context.Context, h habit.Habit) error
	DeleteHabit(ctx context.Context, id string) error
	SaveReward(ctx context.Context, r reward.Reward) error
	DeleteReward(ctx context.Context, id string) error
	SaveLastLogin(ctx context.Context, day dateutil.Date) error

	// ReplaceAll overwrites the stored document wholesale.
	ReplaceAll(ctx context.Context, doc Document) error

	Close() error
}

// ValidateDocument checks an imported document for the shape the engine
// requires. Unknown extra fields are tolerated upstream by the decoder.
func ValidateDocument(doc Document) error {
	if doc.Habits == nil {
		return fmt.Errorf("document missing habits array")
	}
	if doc.Rewards == nil {
		return fmt.Errorf("document missing rewards array")
	}
	if strings.TrimSpace(doc.Stats.Name) == "" {
		return fmt.Errorf("document stats missing name")
	}
	if doc.Stats.Level < 1 {
		return fmt.Errorf("document stats has invalid level %d", doc.Stats.Level)
	}
	seen := map[string]bool{}
	for _, h := range doc.Habits {
		if strings.TrimSpace(h.ID) == "" {
			return fmt.Errorf("habit %q missing id", h.Title)
		}
		if seen[h.ID] {
			return fmt.Errorf("duplicate habit id %s", h.ID)
		}
		seen[h.ID] = true
	}
	return nil
}
