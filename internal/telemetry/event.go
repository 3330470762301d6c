package telemetry

import "time"

type EventType string

const (
	EventHabitCreated       EventType = "habit_created"
	EventHabitCompleted     EventType = "habit_completed"
	EventHabitUndone        EventType = "habit_undone"
	EventHabitSkipped       EventType = "habit_skipped"
	EventHabitDeleted       EventType = "habit_deleted"
	EventRollover           EventType = "rollover"
	EventStreakReset        EventType = "streak_reset"
	EventShieldConsumed     EventType = "shield_consumed"
	EventLevelUp            EventType = "level_up"
	EventMilestone          EventType = "milestone"
	EventRewardPurchased    EventType = "reward_purchased"
	EventDifficultyUpgraded EventType = "difficulty_upgraded"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}
