package telemetry

import (
	"encoding/json"
	"sort"
	"time"
)

// DayCount is one point of the completions-over-time series.
type DayCount struct {
	Date           string `json:"date"`
	CompletedCount int    `json:"completedCount"`
}

type Stats struct {
	Period           string            `json:"period"`
	EventCounts      map[EventType]int `json:"event_counts"`
	History          []DayCount        `json:"history"`
	Completions      int               `json:"completions"`
	Undos            int               `json:"undos"`
	ShieldsConsumed  int               `json:"shields_consumed"`
	StreakResets     int               `json:"streak_resets"`
	LevelUps         int               `json:"level_ups"`
	MilestonesHit    int               `json:"milestones_hit"`
	RewardsPurchased int               `json:"rewards_purchased"`
	GoldSpent        int               `json:"gold_spent"`
}

// CalculateStats aggregates engine events into the analytics summary,
// including the per-day completion history. Undos subtract from the day
// they happened on, so a complete/undo pair nets to zero.
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:      since.Format("2006-01-02"),
		EventCounts: make(map[EventType]int),
		History:     []DayCount{},
	}

	byDay := map[string]int{}

	for _, event := range events {
		stats.EventCounts[event.Type]++
		day := event.Timestamp.Format("2006-01-02")

		switch event.Type {
		case EventHabitCompleted:
			stats.Completions++
			byDay[day]++
		case EventHabitUndone:
			stats.Undos++
			byDay[day]--
		case EventShieldConsumed:
			stats.ShieldsConsumed++
		case EventStreakReset:
			stats.StreakResets++
		case EventLevelUp:
			stats.LevelUps++
		case EventMilestone:
			stats.MilestonesHit++
		case EventRewardPurchased:
			stats.RewardsPurchased++
			var metadata EventMetadata
			if err := json.Unmarshal([]byte(event.Metadata), &metadata); err == nil {
				if cost, ok := metadata["cost"].(float64); ok {
					stats.GoldSpent += int(cost)
				}
			}
		}
	}

	for day, count := range byDay {
		if count < 0 {
			count = 0
		}
		stats.History = append(stats.History, DayCount{Date: day, CompletedCount: count})
	}
	sort.Slice(stats.History, func(i, j int) bool {
		return stats.History[i].Date < stats.History[j].Date
	})

	return stats, nil
}
