package telemetry

import (
	"testing"
	"time"
)

func TestCalculateStatsHistory(t *testing.T) {
	repo := NewMemoryRepository()

	day1 := time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	now := day1
	repo.SetNow(func() time.Time { return now })

	_ = repo.RecordEvent(EventHabitCompleted, EventMetadata{"habit_id": "a"})
	_ = repo.RecordEvent(EventHabitCompleted, EventMetadata{"habit_id": "b"})
	_ = repo.RecordEvent(EventHabitUndone, EventMetadata{"habit_id": "b"})

	now = day2
	_ = repo.RecordEvent(EventHabitCompleted, EventMetadata{"habit_id": "a"})
	_ = repo.RecordEvent(EventLevelUp, EventMetadata{"level": 2})
	_ = repo.RecordEvent(EventRewardPurchased, EventMetadata{"cost": 30})

	events, err := repo.GetEvents(time.Time{}, nil)
	if err != nil {
		t.Fatalf("get events: %v", err)
	}

	stats, err := CalculateStats(events, day1)
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}

	if stats.Completions != 3 || stats.Undos != 1 {
		t.Fatalf("counts wrong: %+v", stats)
	}
	if stats.LevelUps != 1 || stats.RewardsPurchased != 1 || stats.GoldSpent != 30 {
		t.Fatalf("progression counts wrong: %+v", stats)
	}

	if len(stats.History) != 2 {
		t.Fatalf("expected 2 history days, got %v", stats.History)
	}
	// Undo nets against the same day's completions.
	if stats.History[0].Date != "2026-03-13" || stats.History[0].CompletedCount != 1 {
		t.Fatalf("day1 wrong: %+v", stats.History[0])
	}
	if stats.History[1].Date != "2026-03-14" || stats.History[1].CompletedCount != 1 {
		t.Fatalf("day2 wrong: %+v", stats.History[1])
	}
}

func TestGetEventsFiltersByTypeAndTime(t *testing.T) {
	repo := NewMemoryRepository()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	now := base
	repo.SetNow(func() time.Time { return now })

	_ = repo.RecordEvent(EventHabitCompleted, nil)
	now = base.Add(time.Hour)
	_ = repo.RecordEvent(EventHabitSkipped, nil)

	got, err := repo.GetEvents(base.Add(30*time.Minute), []EventType{EventHabitSkipped})
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	if len(got) != 1 || got[0].Type != EventHabitSkipped {
		t.Fatalf("filter failed: %+v", got)
	}
}
