package dates

import (
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		then time.Time
		want float64
	}{
		{"same instant", now, 0},
		{"exactly one day", now.Add(-24 * time.Hour), 1},
		{"half day", now.Add(-12 * time.Hour), 0.5},
		{"sixty days", now.AddDate(0, 0, -60), 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(now, tt.then); got != tt.want {
				t.Errorf("DaysBetween = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaysBetweenBoundary(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	// Exactly the threshold counts as elapsed; a millisecond short does not.
	exact := now.Add(-7 * 24 * time.Hour)
	if DaysBetween(now, exact) < 7 {
		t.Error("exactly 7 days should not be under the threshold")
	}
	short := exact.Add(time.Millisecond)
	if DaysBetween(now, short) >= 7 {
		t.Error("a millisecond under 7 days should stay under the threshold")
	}
}

func TestIsMoreRecentThan(t *testing.T) {
	ref := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if !IsMoreRecentThan(ref.Add(time.Second), ref) {
		t.Error("later timestamp should be more recent")
	}
	if IsMoreRecentThan(ref, ref) {
		t.Error("equal timestamps are not more recent")
	}
	if IsMoreRecentThan(ref.Add(-time.Second), ref) {
		t.Error("earlier timestamp is not more recent")
	}
}

func TestIsValid(t *testing.T) {
	if IsValid(time.Time{}) {
		t.Error("zero time should be invalid")
	}
	if !IsValid(time.Now()) {
		t.Error("current time should be valid")
	}
}

func TestHumanize(t *testing.T) {
	d := time.Date(2026, 3, 9, 15, 4, 5, 0, time.UTC)
	if got, want := Humanize(d), "March 9, 2026"; got != want {
		t.Errorf("Humanize = %q, want %q", got, want)
	}
}
