package dateutil

import (
	"testing"
	"time"
)

func TestTodayStripsTimeOfDay(t *testing.T) {
	late := time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC)
	early := time.Date(2026, 3, 14, 0, 0, 1, 0, time.UTC)
	if Today(late) != Today(early) {
		t.Fatalf("expected same calendar day, got %s vs %s", Today(late), Today(early))
	}
	if Today(late) != "2026-03-14" {
		t.Fatalf("unexpected format: %s", Today(late))
	}
}

func TestDayDiff(t *testing.T) {
	cases := []struct {
		a, b Date
		want int
	}{
		{"2026-03-14", "2026-03-14", 0},
		{"2026-03-13", "2026-03-14", 1},
		{"2026-03-12", "2026-03-14", 2},
		{"2026-02-28", "2026-03-01", 1},
		{"2025-12-31", "2026-01-01", 1},
		{"2026-03-14", "2026-03-13", -1},
		{"2026-03-07", "2026-03-14", 7},
	}
	for _, c := range cases {
		if got := DayDiff(c.a, c.b); got != c.want {
			t.Errorf("DayDiff(%s, %s) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestAddDays(t *testing.T) {
	d := Date("2026-01-30")
	if got := d.AddDays(3); got != "2026-02-02" {
		t.Fatalf("AddDays(3) = %s", got)
	}
	if got := d.AddDays(-30); got != "2025-12-31" {
		t.Fatalf("AddDays(-30) = %s", got)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("14/03/2026"); err == nil {
		t.Fatal("expected error for non-ISO input")
	}
	if d, err := Parse("2026-03-14"); err != nil || d != "2026-03-14" {
		t.Fatalf("Parse round trip failed: %v %s", err, d)
	}
}
