package stats

import (
	"math"
	"testing"

	"github.com/okhalid/habitsync/internal/models"
)

func entry(day int, habitID string, value models.HabitValue) models.HabitEntry {
	return models.HabitEntry{DayIndex: day, HabitID: habitID, Value: value}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name     string
		entries  []models.HabitEntry
		wantXP   int
		wantStrk int
		wantRate float64
	}{
		{
			name:     "empty input yields zero summary",
			entries:  nil,
			wantXP:   0,
			wantStrk: 0,
			wantRate: 0,
		},
		{
			name: "three days with completed counts 2,1,0",
			entries: []models.HabitEntry{
				entry(0, "fajr", models.BoolValue(true)),
				entry(0, "quran", models.CountValue(3)),
				entry(1, "fajr", models.BoolValue(true)),
				entry(1, "quran", models.CountValue(0)),
				entry(2, "fajr", models.BoolValue(false)),
				entry(2, "quran", models.CountValue(0)),
			},
			wantXP:   30,
			wantStrk: 0, // most recent day has zero completions
			wantRate: 0.5,
		},
		{
			name: "most recent day breaks the streak despite earlier full days",
			entries: []models.HabitEntry{
				entry(0, "fajr", models.BoolValue(true)),
				entry(1, "fajr", models.BoolValue(true)),
				entry(2, "fajr", models.BoolValue(false)),
			},
			wantXP:   20,
			wantStrk: 0,
			wantRate: 0.67,
		},
		{
			name: "streak counts back from most recent day",
			entries: []models.HabitEntry{
				entry(0, "fajr", models.BoolValue(false)),
				entry(1, "fajr", models.BoolValue(true)),
				entry(2, "fajr", models.CountValue(5)),
			},
			wantXP:   20,
			wantStrk: 2,
			wantRate: 0.67,
		},
		{
			name: "missing days are skipped not treated as breaks",
			entries: []models.HabitEntry{
				entry(1, "fajr", models.BoolValue(true)),
				entry(4, "fajr", models.BoolValue(true)),
				entry(9, "fajr", models.BoolValue(true)),
			},
			wantXP:   30,
			wantStrk: 3,
			wantRate: 1,
		},
		{
			name: "false booleans and zero counts are not completions",
			entries: []models.HabitEntry{
				entry(0, "fajr", models.BoolValue(false)),
				entry(0, "quran", models.CountValue(0)),
			},
			wantXP:   0,
			wantStrk: 0,
			wantRate: 0,
		},
		{
			name: "any positive count completes a day",
			entries: []models.HabitEntry{
				entry(7, "quran", models.CountValue(1)),
			},
			wantXP:   10,
			wantStrk: 1,
			wantRate: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.entries)
			if got.TotalXP != tt.wantXP {
				t.Errorf("TotalXP = %d, want %d", got.TotalXP, tt.wantXP)
			}
			if got.Streak != tt.wantStrk {
				t.Errorf("Streak = %d, want %d", got.Streak, tt.wantStrk)
			}
			if math.Abs(got.CompletionRate-tt.wantRate) > 1e-9 {
				t.Errorf("CompletionRate = %v, want %v", got.CompletionRate, tt.wantRate)
			}
		})
	}
}

func TestAggregateRounding(t *testing.T) {
	// 1 of 3 completions = 0.333... which must round to 0.33.
	entries := []models.HabitEntry{
		entry(0, "a", models.BoolValue(true)),
		entry(0, "b", models.BoolValue(false)),
		entry(0, "c", models.BoolValue(false)),
	}
	got := Aggregate(entries)
	if got.CompletionRate != 0.33 {
		t.Errorf("CompletionRate = %v, want 0.33", got.CompletionRate)
	}
}
